package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/amelendez141/linkup-golf/internal/model"
	"github.com/amelendez141/linkup-golf/internal/utils"
)

// UserRepo provides access to the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var ErrEmailExists = errors.New("email already exists")

const userColumns = `id, email, password_hash, full_name, headline, bio, industry, skill_level,
       handicap, latitude, longitude, search_radius_miles, is_active, created_at, updated_at`

// Create inserts a user with a hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, email, password, fullName string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name) VALUES (?,?,?)",
		email, hash, fullName)
	if err != nil {
		// 1062 is MySQL's duplicate-key error on the unique email index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByIDs fetches several users in one query. The result is keyed by
// user ID; missing IDs are simply absent from the map.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []uint64) (map[uint64]model.User, error) {
	out := make(map[uint64]model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	placeholders := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUserRows(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfileUpdate carries the mutable profile fields for UpdateProfile.
// Nil pointers clear the corresponding nullable column.
type ProfileUpdate struct {
	FullName     string
	Headline     *string
	Bio          *string
	Industry     *model.Industry
	SkillLevel   *model.SkillLevel
	Handicap     *float64
	Latitude     *float64
	Longitude    *float64
	SearchRadius float64
}

// UpdateProfile rewrites a member's profile attributes.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p ProfileUpdate) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users
		 SET full_name=?, headline=?, bio=?, industry=?, skill_level=?,
		     handicap=?, latitude=?, longitude=?, search_radius_miles=?
		 WHERE id=?`,
		p.FullName, p.Headline, p.Bio, nullableIndustry(p.Industry), nullableSkill(p.SkillLevel),
		p.Handicap, p.Latitude, p.Longitude, p.SearchRadius, id)
	return err
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row *sql.Row) (model.User, error) { return scanUserFrom(row) }

func scanUserRows(rows *sql.Rows) (model.User, error) { return scanUserFrom(rows) }

func scanUserFrom(s rowScanner) (model.User, error) {
	var (
		u        model.User
		headline sql.NullString
		bio      sql.NullString
		industry sql.NullString
		skill    sql.NullString
		handicap sql.NullFloat64
		lat      sql.NullFloat64
		lng      sql.NullFloat64
	)
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &headline, &bio,
		&industry, &skill, &handicap, &lat, &lng, &u.SearchRadius,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if headline.Valid {
		v := headline.String
		u.Headline = &v
	}
	if bio.Valid {
		v := bio.String
		u.Bio = &v
	}
	if industry.Valid && industry.String != "" {
		v := model.Industry(industry.String)
		u.Industry = &v
	}
	if skill.Valid && skill.String != "" {
		v := model.SkillLevel(skill.String)
		u.SkillLevel = &v
	}
	if handicap.Valid {
		v := handicap.Float64
		u.Handicap = &v
	}
	if lat.Valid {
		v := lat.Float64
		u.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		u.Longitude = &v
	}
	return u, nil
}

func nullableIndustry(i *model.Industry) interface{} {
	if i == nil {
		return nil
	}
	return string(*i)
}

func nullableSkill(s *model.SkillLevel) interface{} {
	if s == nil {
		return nil
	}
	return string(*s)
}
