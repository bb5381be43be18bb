package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amelendez141/linkup-golf/internal/model"
)

func industryPtr(i model.Industry) *model.Industry  { return &i }
func skillPtr(s model.SkillLevel) *model.SkillLevel { return &s }

func memberWith(ind *model.Industry, skill *model.SkillLevel, radius float64) model.User {
	lat, lng := 40.0, -75.0
	return model.User{
		ID:           1,
		Industry:     ind,
		SkillLevel:   skill,
		Latitude:     &lat,
		Longitude:    &lng,
		SearchRadius: radius,
	}
}

func candidateWith(teeOff time.Time, dist float64, indPrefs []model.Industry, skillPrefs []model.SkillLevel) Candidate {
	return Candidate{
		TeeTime: model.TeeTime{
			ID:            10,
			HostID:        2,
			TeeOffAt:      teeOff,
			IndustryPrefs: indPrefs,
			SkillPrefs:    skillPrefs,
			Status:        model.TeeTimeOpen,
		},
		Host:          model.User{ID: 2},
		DistanceMiles: dist,
	}
}

func TestScoreCandidate_PerfectMatch(t *testing.T) {
	now := time.Now()
	member := memberWith(industryPtr(model.IndustryFinance), skillPtr(model.SkillIntermediate), 50)
	cand := candidateWith(now.Add(48*time.Hour), 3,
		[]model.Industry{model.IndustryFinance},
		[]model.SkillLevel{model.SkillIntermediate})

	score := ScoreCandidate(member, cand, now)

	require.Equal(t, 1.0, score.Total, "all factors at 1.0 must total exactly the weight sum")
	assert.Equal(t, 1.0, score.Breakdown.Industry)
	assert.Equal(t, 1.0, score.Breakdown.Skill)
	assert.Equal(t, 1.0, score.Breakdown.Distance)
	assert.Equal(t, 1.0, score.Breakdown.Timing)
}

func TestScoreCandidate_WeightedTotal(t *testing.T) {
	now := time.Now()
	// industry 1.0, skill 0.7 (no prefs), distance 0.9 (10 mi),
	// timing 0.8 (12h out) -> 0.35 + 0.175 + 0.225 + 0.12 = 0.87
	member := memberWith(industryPtr(model.IndustryLegal), skillPtr(model.SkillAdvanced), 50)
	cand := candidateWith(now.Add(12*time.Hour), 10,
		[]model.Industry{model.IndustryLegal}, nil)

	score := ScoreCandidate(member, cand, now)
	assert.Equal(t, 0.87, score.Total)
}

func TestIndustryScore(t *testing.T) {
	now := time.Now()
	teeOff := now.Add(48 * time.Hour)

	t.Run("member without industry scores neutral", func(t *testing.T) {
		member := memberWith(nil, nil, 50)
		cand := candidateWith(teeOff, 3, []model.Industry{model.IndustryFinance}, nil)
		assert.Equal(t, 0.5, ScoreCandidate(member, cand, now).Breakdown.Industry)
	})

	t.Run("no preferences means open to all", func(t *testing.T) {
		member := memberWith(industryPtr(model.IndustryTechnology), nil, 50)
		cand := candidateWith(teeOff, 3, nil, nil)
		assert.Equal(t, 0.7, ScoreCandidate(member, cand, now).Breakdown.Industry)
	})

	t.Run("exact preference match", func(t *testing.T) {
		member := memberWith(industryPtr(model.IndustryTechnology), nil, 50)
		cand := candidateWith(teeOff, 3, []model.Industry{model.IndustryTechnology}, nil)
		assert.Equal(t, 1.0, ScoreCandidate(member, cand, now).Breakdown.Industry)
	})

	t.Run("affinity outranks host match despite lower score", func(t *testing.T) {
		// TECHNOLOGY has affinity with ENGINEERING.  The host being in
		// the member's own industry would score 0.9, but the affinity
		// rule is checked first and wins at 0.8.
		member := memberWith(industryPtr(model.IndustryTechnology), nil, 50)
		cand := candidateWith(teeOff, 3, []model.Industry{model.IndustryEngineering}, nil)
		cand.Host.Industry = industryPtr(model.IndustryTechnology)
		assert.Equal(t, 0.8, ScoreCandidate(member, cand, now).Breakdown.Industry)
	})

	t.Run("host in same industry", func(t *testing.T) {
		member := memberWith(industryPtr(model.IndustryTechnology), nil, 50)
		cand := candidateWith(teeOff, 3, []model.Industry{model.IndustryFinance}, nil)
		cand.Host.Industry = industryPtr(model.IndustryTechnology)
		assert.Equal(t, 0.9, ScoreCandidate(member, cand, now).Breakdown.Industry)
	})

	t.Run("occupant in same industry", func(t *testing.T) {
		member := memberWith(industryPtr(model.IndustryTechnology), nil, 50)
		cand := candidateWith(teeOff, 3, []model.Industry{model.IndustryFinance}, nil)
		cand.Host.Industry = industryPtr(model.IndustryLegal)
		cand.Occupants = []model.User{
			{ID: 2, Industry: industryPtr(model.IndustryLegal)}, // the host, skipped
			{ID: 3, Industry: industryPtr(model.IndustryTechnology)},
		}
		assert.Equal(t, 0.85, ScoreCandidate(member, cand, now).Breakdown.Industry)
	})

	t.Run("no rule matches", func(t *testing.T) {
		member := memberWith(industryPtr(model.IndustryHealthcare), nil, 50)
		cand := candidateWith(teeOff, 3, []model.Industry{model.IndustryFinance}, nil)
		assert.Equal(t, 0.3, ScoreCandidate(member, cand, now).Breakdown.Industry)
	})

	t.Run("affinity is directional", func(t *testing.T) {
		// MARKETING lists TECHNOLOGY as adjacent, but not vice versa.
		marketer := memberWith(industryPtr(model.IndustryMarketing), nil, 50)
		techPrefs := candidateWith(teeOff, 3, []model.Industry{model.IndustryTechnology}, nil)
		assert.Equal(t, 0.8, ScoreCandidate(marketer, techPrefs, now).Breakdown.Industry)

		technologist := memberWith(industryPtr(model.IndustryTechnology), nil, 50)
		mktPrefs := candidateWith(teeOff, 3, []model.Industry{model.IndustryMarketing}, nil)
		assert.Equal(t, 0.3, ScoreCandidate(technologist, mktPrefs, now).Breakdown.Industry)
	})
}

func TestSkillScore(t *testing.T) {
	now := time.Now()
	teeOff := now.Add(48 * time.Hour)

	t.Run("member without grade scores neutral", func(t *testing.T) {
		member := memberWith(nil, nil, 50)
		cand := candidateWith(teeOff, 3, nil, []model.SkillLevel{model.SkillExpert})
		assert.Equal(t, 0.5, ScoreCandidate(member, cand, now).Breakdown.Skill)
	})

	t.Run("no preferences means open to all", func(t *testing.T) {
		member := memberWith(nil, skillPtr(model.SkillBeginner), 50)
		cand := candidateWith(teeOff, 3, nil, nil)
		assert.Equal(t, 0.7, ScoreCandidate(member, cand, now).Breakdown.Skill)
	})

	t.Run("exact grade match", func(t *testing.T) {
		member := memberWith(nil, skillPtr(model.SkillAdvanced), 50)
		cand := candidateWith(teeOff, 3, nil, []model.SkillLevel{model.SkillAdvanced})
		assert.Equal(t, 1.0, ScoreCandidate(member, cand, now).Breakdown.Skill)
	})

	t.Run("adjacent grade", func(t *testing.T) {
		member := memberWith(nil, skillPtr(model.SkillIntermediate), 50)
		cand := candidateWith(teeOff, 3, nil, []model.SkillLevel{model.SkillAdvanced})
		assert.Equal(t, 0.75, ScoreCandidate(member, cand, now).Breakdown.Skill)
	})

	t.Run("occupant mean fallback", func(t *testing.T) {
		member := memberWith(nil, skillPtr(model.SkillBeginner), 50)
		cand := candidateWith(teeOff, 3, nil, []model.SkillLevel{model.SkillExpert})
		cand.Occupants = []model.User{
			{ID: 3, SkillLevel: skillPtr(model.SkillIntermediate)},
		}
		// |0 - 1| = 1.0 -> 0.7
		assert.Equal(t, 0.7, ScoreCandidate(member, cand, now).Breakdown.Skill)
	})

	t.Run("no skilled occupants to compare against", func(t *testing.T) {
		member := memberWith(nil, skillPtr(model.SkillBeginner), 50)
		cand := candidateWith(teeOff, 3, nil, []model.SkillLevel{model.SkillExpert})
		cand.Occupants = []model.User{{ID: 3}}
		assert.Equal(t, 0.3, ScoreCandidate(member, cand, now).Breakdown.Skill)
	})
}

func TestDistanceScore(t *testing.T) {
	tests := []struct {
		name   string
		miles  float64
		radius float64
		want   float64
	}{
		{"on site", 3, 50, 1.0},
		{"short drive", 10, 50, 0.9},
		{"within thirty", 30, 50, 0.75},
		{"decay midpoint", 40, 50, 0.38}, // 0.75*(50-40)/20 rounded
		{"decay clamped at floor", 49.5, 50, 0.2},
		{"small radius gets floor outright", 31, 25, 0.2},
	}
	now := time.Now()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member := memberWith(nil, nil, tt.radius)
			cand := candidateWith(now.Add(48*time.Hour), tt.miles, nil, nil)
			assert.Equal(t, tt.want, ScoreCandidate(member, cand, now).Breakdown.Distance)
		})
	}

	t.Run("never increases with distance", func(t *testing.T) {
		member := memberWith(nil, nil, 60)
		prev := 1.1
		for miles := 0.0; miles <= 60; miles += 0.5 {
			cand := candidateWith(now.Add(48*time.Hour), miles, nil, nil)
			got := ScoreCandidate(member, cand, now).Breakdown.Distance
			require.LessOrEqual(t, got, prev, "distance %v scored higher than a nearer course", miles)
			prev = got
		}
	})
}

func TestTimingScore(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  float64
	}{
		{"sweet spot", 48, 1.0},
		{"same day", 12, 0.8},
		{"about to start", 2, 0.5},
		{"next week", 100, 0.9},
		{"two weeks out", 200, 0.7},
		{"far future", 400, 0.5},
		{"already started", -5, 0.5},
	}
	now := time.Now()
	member := memberWith(nil, nil, 50)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := candidateWith(now.Add(time.Duration(tt.hours*float64(time.Hour))), 3, nil, nil)
			assert.Equal(t, tt.want, ScoreCandidate(member, cand, now).Breakdown.Timing)
		})
	}
}

func TestRank_OrderAndTieBreak(t *testing.T) {
	now := time.Now()
	member := memberWith(industryPtr(model.IndustryFinance), skillPtr(model.SkillIntermediate), 50)

	best := candidateWith(now.Add(48*time.Hour), 3,
		[]model.Industry{model.IndustryFinance}, []model.SkillLevel{model.SkillIntermediate})
	best.TeeTime.ID = 1

	worse := candidateWith(now.Add(48*time.Hour), 3,
		[]model.Industry{model.IndustryHealthcare}, []model.SkillLevel{model.SkillExpert})
	worse.TeeTime.ID = 2

	// Same score as best in every factor but tees off sooner; listed
	// last to prove ordering does not depend on input position.
	tied := candidateWith(now.Add(30*time.Hour), 3,
		[]model.Industry{model.IndustryFinance}, []model.SkillLevel{model.SkillIntermediate})
	tied.TeeTime.ID = 3

	ranked := Rank(member, []Candidate{worse, best, tied}, now)

	require.Len(t, ranked, 3)
	assert.Equal(t, uint64(3), ranked[0].Candidate.TeeTime.ID, "equal totals break by earliest tee-off")
	assert.Equal(t, uint64(1), ranked[1].Candidate.TeeTime.ID)
	assert.Equal(t, uint64(2), ranked[2].Candidate.TeeTime.ID)
	assert.Greater(t, ranked[0].Score.Total, ranked[2].Score.Total)
}
