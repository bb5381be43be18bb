package model

import "time"

// Industry is the closed enumeration of professional sectors a member
// can declare on their profile.  Tee times reference the same values in
// their industry preference lists.  OTHER is the catch-all for sectors
// the product does not model explicitly.
type Industry string

const (
	IndustryTechnology       Industry = "TECHNOLOGY"
	IndustryFinance          Industry = "FINANCE"
	IndustryHealthcare       Industry = "HEALTHCARE"
	IndustryLegal            Industry = "LEGAL"
	IndustryMarketing        Industry = "MARKETING"
	IndustryRealEstate       Industry = "REAL_ESTATE"
	IndustryConsulting       Industry = "CONSULTING"
	IndustryEngineering      Industry = "ENGINEERING"
	IndustryEducation        Industry = "EDUCATION"
	IndustryEntrepreneurship Industry = "ENTREPRENEURSHIP"
	IndustrySales            Industry = "SALES"
	IndustryOther            Industry = "OTHER"
)

// Industries lists every valid Industry value.  Handlers use it to
// validate profile updates and preference lists.
var Industries = []Industry{
	IndustryTechnology, IndustryFinance, IndustryHealthcare, IndustryLegal,
	IndustryMarketing, IndustryRealEstate, IndustryConsulting,
	IndustryEngineering, IndustryEducation, IndustryEntrepreneurship,
	IndustrySales, IndustryOther,
}

// Valid reports whether the industry is one of the known values.
func (i Industry) Valid() bool {
	for _, known := range Industries {
		if i == known {
			return true
		}
	}
	return false
}

// SkillLevel is the ordered enumeration of playing ability grades.  The
// ordering matters: adjacency between grades feeds into match scoring.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillExpert       SkillLevel = "EXPERT"
)

// SkillLevels lists the grades in ascending order.  The slice index of a
// grade is its ordinal used for adjacency comparisons.
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}

// Index returns the ordinal position of the grade (0 for BEGINNER up to
// 3 for EXPERT).  The second return value is false for unknown grades.
func (s SkillLevel) Index() (int, bool) {
	for i, known := range SkillLevels {
		if s == known {
			return i, true
		}
	}
	return 0, false
}

// Valid reports whether the grade is one of the four known values.
func (s SkillLevel) Valid() bool {
	_, ok := s.Index()
	return ok
}

// DefaultSearchRadiusMiles bounds candidate tee times for members who
// have not configured their own radius.
const DefaultSearchRadiusMiles = 50.0

// User represents a member record as stored in the `users` table.
// Profile attributes used by matching (industry, skill level, home
// location, search radius) are all optional; nil means the member has
// not filled them in yet and scoring degrades to neutral values.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name.
//  Headline     – short professional headline (nullable).
//  Bio          – free-form profile text (nullable).
//  Industry     – declared professional sector (nullable).
//  SkillLevel   – declared playing ability (nullable).
//  Handicap     – golf handicap index (nullable).
//  Latitude     – home latitude in degrees (nullable).
//  Longitude    – home longitude in degrees (nullable).
//  SearchRadius – candidate radius in miles; zero means use the default.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64      // users.id
	Email        string      // users.email
	PasswordHash string      // users.password_hash
	FullName     string      // users.full_name
	Headline     *string     // users.headline (nullable)
	Bio          *string     // users.bio (nullable)
	Industry     *Industry   // users.industry (nullable)
	SkillLevel   *SkillLevel // users.skill_level (nullable)
	Handicap     *float64    // users.handicap (nullable)
	Latitude     *float64    // users.latitude (nullable)
	Longitude    *float64    // users.longitude (nullable)
	SearchRadius float64     // users.search_radius_miles
	IsActive     bool        // users.is_active
	CreatedAt    time.Time   // users.created_at
	UpdatedAt    time.Time   // users.updated_at
}

// SearchRadiusOrDefault returns the member's configured radius, falling
// back to DefaultSearchRadiusMiles when unset or non-positive.
func (u *User) SearchRadiusOrDefault() float64 {
	if u.SearchRadius > 0 {
		return u.SearchRadius
	}
	return DefaultSearchRadiusMiles
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
