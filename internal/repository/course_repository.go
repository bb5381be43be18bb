package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/amelendez141/linkup-golf/internal/model"
	"github.com/amelendez141/linkup-golf/internal/utils"
)

// CourseRepo provides read access to the courses catalogue. Courses are
// seeded out of band; nothing in the request path writes to them.
type CourseRepo struct{ DB *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{DB: db} }

const courseColumns = `id, name, address, city, state, latitude, longitude, holes, par, is_active, created_at, updated_at`

// GetByID fetches a single active course.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (model.Course, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id=? AND is_active=1 LIMIT 1", id)
	c, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Course{}, ErrCourseNotFound
	}
	return c, err
}

// List returns active courses ordered by name, capped at limit.
func (r *CourseRepo) List(ctx context.Context, limit int) ([]model.Course, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE is_active=1 ORDER BY name LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCourses(rows)
}

// CourseDistance pairs a course with its distance from a query point.
type CourseDistance struct {
	Course        model.Course
	DistanceMiles float64
}

// FindNear returns active courses within radius miles of the given
// point, nearest first. The distance math runs in Go over the active
// catalogue, which is small enough that a geospatial index would be
// overkill.
func (r *CourseRepo) FindNear(ctx context.Context, lat, lng, radiusMiles float64) ([]CourseDistance, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE is_active=1")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, err
	}
	near := make([]CourseDistance, 0, len(courses))
	for _, c := range courses {
		d := utils.HaversineMiles(lat, lng, c.Latitude, c.Longitude)
		if d <= radiusMiles {
			near = append(near, CourseDistance{Course: c, DistanceMiles: d})
		}
	}
	sort.Slice(near, func(i, j int) bool { return near[i].DistanceMiles < near[j].DistanceMiles })
	return near, nil
}

func collectCourses(rows *sql.Rows) ([]model.Course, error) {
	courses := make([]model.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

func scanCourse(s rowScanner) (model.Course, error) {
	var (
		c       model.Course
		address sql.NullString
		par     sql.NullInt64
	)
	err := s.Scan(&c.ID, &c.Name, &address, &c.City, &c.State,
		&c.Latitude, &c.Longitude, &c.Holes, &par, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Course{}, err
	}
	if address.Valid {
		v := address.String
		c.Address = &v
	}
	if par.Valid {
		v := uint8(par.Int64)
		c.Par = &v
	}
	return c, nil
}
