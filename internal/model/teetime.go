package model

import "time"

// TeeTimeStatus enumerates the lifecycle states of a tee time.  OPEN
// and FULL flip back and forth as slots fill and empty; CANCELLED and
// COMPLETED are terminal and reject all join and leave attempts.
type TeeTimeStatus string

const (
	TeeTimeOpen      TeeTimeStatus = "OPEN"
	TeeTimeFull      TeeTimeStatus = "FULL"
	TeeTimeCancelled TeeTimeStatus = "CANCELLED"
	TeeTimeCompleted TeeTimeStatus = "COMPLETED"
)

// Terminal reports whether the status permits no further slot activity.
func (s TeeTimeStatus) Terminal() bool {
	return s == TeeTimeCancelled || s == TeeTimeCompleted
}

// Bounds on the size of a group.  Slot 1 always belongs to the host, so
// the minimum of two leaves room for at least one guest.
const (
	MinTotalSlots = 2
	MaxTotalSlots = 4
)

// TeeTime represents a hosted round as stored in the `tee_times` table.
// Status is a cached summary of slot occupancy: FULL if and only if
// every slot is occupied and the tee time is not cancelled.  It is only
// ever rewritten inside the same transaction that changes occupancy.
//
// Fields:
//  ID            – primary key identifier.
//  HostID        – member hosting the round; owns slot 1.
//  CourseID      – course where the round is played.
//  TeeOffAt      – scheduled tee-off timestamp (UTC).
//  TotalSlots    – number of slots, between MinTotalSlots and MaxTotalSlots.
//  IndustryPrefs – preferred industries; empty means open to all.
//  SkillPrefs    – preferred skill grades; empty means open to all.
//  Notes         – free-form note from the host (nullable).
//  Status        – cached occupancy summary, see above.
//  Version       – optimistic concurrency counter for non-slot updates.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type TeeTime struct {
	ID            uint64        // tee_times.id
	HostID        uint64        // tee_times.host_id
	CourseID      uint64        // tee_times.course_id
	TeeOffAt      time.Time     // tee_times.tee_off_at
	TotalSlots    uint32        // tee_times.total_slots
	IndustryPrefs []Industry    // tee_times.industry_prefs (CSV column)
	SkillPrefs    []SkillLevel  // tee_times.skill_prefs (CSV column)
	Notes         *string       // tee_times.notes (nullable)
	Status        TeeTimeStatus // tee_times.status
	Version       uint32        // tee_times.version
	CreatedAt     time.Time     // tee_times.created_at
	UpdatedAt     time.Time     // tee_times.updated_at
}

// TeeTimeSlot is one of the ordered positions within a tee time.  Slots
// are created together with their tee time, one row per position; slot
// number 1 is pre-assigned to the host and never vacated.  Occupancy
// (UserID and JoinedAt, set and cleared together) is the only state the
// join and leave operations mutate directly.
//
// Fields:
//  ID         – primary key identifier.
//  TeeTimeID  – owning tee time.
//  SlotNumber – 1-indexed position, unique within the tee time.
//  UserID     – occupant, null while the slot is vacant.
//  JoinedAt   – when the occupant claimed the slot, null while vacant.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type TeeTimeSlot struct {
	ID         uint64     // tee_time_slots.id
	TeeTimeID  uint64     // tee_time_slots.tee_time_id
	SlotNumber uint32     // tee_time_slots.slot_number
	UserID     *uint64    // tee_time_slots.user_id (nullable)
	JoinedAt   *time.Time // tee_time_slots.joined_at (nullable)
	CreatedAt  time.Time  // tee_time_slots.created_at
	UpdatedAt  time.Time  // tee_time_slots.updated_at
}

// Occupied reports whether the slot currently has an occupant.
func (s *TeeTimeSlot) Occupied() bool { return s.UserID != nil }
