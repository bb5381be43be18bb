// Package matching ranks open tee times for a member.  Scoring is a
// pure function over profile, tee time and distance data: it never
// touches storage, never fails, and degrades to neutral values when a
// profile is missing the attribute being scored.
package matching

import (
	"math"
	"sort"
	"time"

	"github.com/amelendez141/linkup-golf/internal/model"
)

// Factor weights.  They sum to 1.0, so a candidate scoring 1.0 on every
// factor totals exactly 1.0.
const (
	weightIndustry = 0.35
	weightSkill    = 0.25
	weightDistance = 0.25
	weightTiming   = 0.15
)

// industryAffinity maps each industry to the sectors considered close
// enough for a partial preference match.  The table is directional: A
// listing B does not imply B lists A.  OTHER has no affinities.
var industryAffinity = map[model.Industry][]model.Industry{
	model.IndustryTechnology:       {model.IndustryEngineering, model.IndustryEntrepreneurship, model.IndustryConsulting},
	model.IndustryFinance:          {model.IndustryConsulting, model.IndustryRealEstate, model.IndustryLegal},
	model.IndustryHealthcare:       {model.IndustryEducation, model.IndustryConsulting},
	model.IndustryLegal:            {model.IndustryFinance, model.IndustryRealEstate, model.IndustryConsulting},
	model.IndustryMarketing:        {model.IndustrySales, model.IndustryEntrepreneurship, model.IndustryTechnology},
	model.IndustryRealEstate:       {model.IndustryFinance, model.IndustryLegal, model.IndustrySales},
	model.IndustryConsulting:       {model.IndustryFinance, model.IndustryTechnology, model.IndustryEntrepreneurship},
	model.IndustryEngineering:      {model.IndustryTechnology, model.IndustryEntrepreneurship},
	model.IndustryEducation:        {model.IndustryHealthcare, model.IndustryConsulting},
	model.IndustryEntrepreneurship: {model.IndustryTechnology, model.IndustryFinance, model.IndustryMarketing},
	model.IndustrySales:            {model.IndustryMarketing, model.IndustryRealEstate, model.IndustryEntrepreneurship},
	model.IndustryOther:            {},
}

// Candidate bundles everything the scorer needs to know about one open
// tee time: the tee time itself, its host, the members currently
// occupying slots (host included) and the member's distance to the
// course.  Candidates come from a single consistent read; the scorer
// never re-fetches state.
type Candidate struct {
	TeeTime       model.TeeTime
	Host          model.User
	Occupants     []model.User
	DistanceMiles float64
}

// Breakdown carries the per-factor sub-scores, each in [0, 1] and
// rounded to two decimals for display.
type Breakdown struct {
	Industry float64 `json:"industry"`
	Skill    float64 `json:"skill"`
	Distance float64 `json:"distance"`
	Timing   float64 `json:"timing"`
}

// Score is the composite result for one (member, tee time) pair.
type Score struct {
	Total     float64   `json:"total"`
	Breakdown Breakdown `json:"breakdown"`
}

// Ranked pairs a candidate with its score, as returned by Rank.
type Ranked struct {
	Candidate Candidate
	Score     Score
}

// ScoreCandidate computes the weighted compatibility score for one
// member and one candidate tee time.  The reference time is explicit so
// results are reproducible.  Sub-scores and the total are rounded to
// two decimals; the total is computed from the unrounded sub-scores.
func ScoreCandidate(member model.User, cand Candidate, now time.Time) Score {
	industry := industryScore(member, cand)
	skill := skillScore(member, cand)
	distance := distanceScore(cand.DistanceMiles, member.SearchRadiusOrDefault())
	timing := timingScore(cand.TeeTime.TeeOffAt.Sub(now).Hours())

	total := industry*weightIndustry + skill*weightSkill + distance*weightDistance + timing*weightTiming
	return Score{
		Total: round2(total),
		Breakdown: Breakdown{
			Industry: round2(industry),
			Skill:    round2(skill),
			Distance: round2(distance),
			Timing:   round2(timing),
		},
	}
}

// Rank scores every candidate and orders them best-first.  The sort is
// stable; equal totals are broken by soonest tee-off so two runs over
// the same snapshot always produce the same order.
func Rank(member model.User, cands []Candidate, now time.Time) []Ranked {
	ranked := make([]Ranked, 0, len(cands))
	for _, c := range cands {
		ranked = append(ranked, Ranked{Candidate: c, Score: ScoreCandidate(member, c, now)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score.Total != ranked[j].Score.Total {
			return ranked[i].Score.Total > ranked[j].Score.Total
		}
		return ranked[i].Candidate.TeeTime.TeeOffAt.Before(ranked[j].Candidate.TeeTime.TeeOffAt)
	})
	return ranked
}

// industryScore evaluates the industry factor.  The rules form a strict
// precedence chain, first match wins.  Affinity (0.8) is deliberately
// checked before the host match (0.9) even though it yields a lower
// score; the precedence order is part of the product's behaviour.
func industryScore(member model.User, cand Candidate) float64 {
	if member.Industry == nil {
		return 0.5 // member has not declared a sector
	}
	ind := *member.Industry
	prefs := cand.TeeTime.IndustryPrefs
	if len(prefs) == 0 {
		return 0.7 // host is open to all industries
	}
	if containsIndustry(prefs, ind) {
		return 1.0
	}
	for _, adjacent := range industryAffinity[ind] {
		if containsIndustry(prefs, adjacent) {
			return 0.8
		}
	}
	if cand.Host.Industry != nil && *cand.Host.Industry == ind {
		return 0.9
	}
	for _, occ := range cand.Occupants {
		if occ.ID == cand.Host.ID {
			continue // host already handled above
		}
		if occ.Industry != nil && *occ.Industry == ind {
			return 0.85
		}
	}
	return 0.3
}

// skillScore evaluates the skill factor using the ordered grades.
func skillScore(member model.User, cand Candidate) float64 {
	if member.SkillLevel == nil {
		return 0.5
	}
	idx, ok := member.SkillLevel.Index()
	if !ok {
		return 0.5
	}
	prefs := cand.TeeTime.SkillPrefs
	if len(prefs) == 0 {
		return 0.7
	}
	for _, p := range prefs {
		if p == *member.SkillLevel {
			return 1.0
		}
	}
	for _, p := range prefs {
		if pi, ok := p.Index(); ok && abs(pi-idx) == 1 {
			return 0.75
		}
	}
	// No preference hit: fall back to how far the member sits from the
	// average grade of the people already in the group.
	sum, n := 0, 0
	for _, occ := range cand.Occupants {
		if occ.SkillLevel == nil {
			continue
		}
		if oi, ok := occ.SkillLevel.Index(); ok {
			sum += oi
			n++
		}
	}
	if n > 0 {
		diff := math.Abs(float64(idx) - float64(sum)/float64(n))
		switch {
		case diff <= 0.5:
			return 0.9
		case diff <= 1.0:
			return 0.7
		case diff <= 1.5:
			return 0.5
		}
	}
	return 0.3
}

// distanceScore is monotonically non-increasing in distance.  Beyond 30
// miles the score decays linearly from 0.75 toward a floor of 0.2 at
// the member's search radius.  Radii of 30 miles or less make the
// interpolation meaningless, so those members get the floor outright.
func distanceScore(miles, radius float64) float64 {
	switch {
	case miles <= 5:
		return 1.0
	case miles <= 15:
		return 0.9
	case miles <= 30:
		return 0.75
	}
	if radius <= 30 {
		return 0.2
	}
	decayed := 0.75 * (radius - miles) / (radius - 30)
	return math.Min(0.75, math.Max(0.2, decayed))
}

// timingScore rewards tee times one to three days out; very short
// notice and far-future rounds score lower.  Anything outside the
// buckets, including a tee-off already in the past (the candidate
// query filters those out), lands on the 0.5 floor.
func timingScore(hoursUntil float64) float64 {
	switch {
	case hoursUntil >= 24 && hoursUntil <= 72:
		return 1.0
	case hoursUntil >= 4 && hoursUntil < 24:
		return 0.8
	case hoursUntil >= 0 && hoursUntil < 4:
		return 0.5
	case hoursUntil > 72 && hoursUntil <= 168:
		return 0.9
	case hoursUntil > 168 && hoursUntil <= 336:
		return 0.7
	default:
		return 0.5
	}
}

func containsIndustry(set []model.Industry, ind model.Industry) bool {
	for _, s := range set {
		if s == ind {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
