// Package repository defines sentinel error values reused across
// repositories. Higher layers match on these with errors.Is to pick
// the right HTTP status: ErrForbidden maps to 403, ErrConflict and
// ErrVersionConflict to 409, and the *NotFound values to 404.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as cancelling another host's tee time.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as cancelling a tee time that has already
// been completed.
var ErrConflict = errors.New("conflict")

// ErrVersionConflict is returned when an optimistic-concurrency update
// loses the race: the tee time's version counter no longer matches the
// one the caller read. Callers should refetch and resubmit.
var ErrVersionConflict = errors.New("version conflict")

// ErrUserNotFound is returned when a user lookup by ID matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrCourseNotFound is returned when a course lookup matches no row.
var ErrCourseNotFound = errors.New("course not found")

// ErrTeeTimeNotFound is returned when a tee time lookup matches no row.
var ErrTeeTimeNotFound = errors.New("tee time not found")
