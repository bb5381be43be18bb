package model

import "time"

// Course represents a golf course venue.  Courses are read-only to the
// application: the catalogue is seeded out of band and browsed by
// members when exploring nearby tee times.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – course name.
//  Address   – street address (nullable).
//  City      – city the course is located in.
//  State     – state or region code.
//  Latitude  – latitude of the clubhouse in degrees.
//  Longitude – longitude of the clubhouse in degrees.
//  Holes     – number of holes (9 or 18).
//  Par       – course par (nullable).
//  IsActive  – whether the course is shown to members.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Course struct {
	ID        uint64    // courses.id
	Name      string    // courses.name
	Address   *string   // courses.address (nullable)
	City      string    // courses.city
	State     string    // courses.state
	Latitude  float64   // courses.latitude
	Longitude float64   // courses.longitude
	Holes     uint8     // courses.holes
	Par       *uint8    // courses.par (nullable)
	IsActive  bool      // courses.is_active
	CreatedAt time.Time // courses.created_at
	UpdatedAt time.Time // courses.updated_at
}
