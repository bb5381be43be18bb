// Package queue defines the slot activity payloads exchanged over the
// message broker and the background consumer that turns them into
// member notifications.
package queue

// Slot activity event types.  They double as notification kinds when
// the consumer writes rows.
const (
	EventSlotJoined       = "SLOT_JOINED"
	EventSlotLeft         = "SLOT_LEFT"
	EventTeeTimeFull      = "TEE_TIME_FULL"
	EventTeeTimeCancelled = "TEE_TIME_CANCELLED"
)

// SlotActivityEvent is published when a slot is claimed or released,
// when a tee time fills, or when a host cancels.  Recipients is the
// fan-out list computed at publish time so the consumer never has to
// query slot state that may have changed since.
type SlotActivityEvent struct {
	EventID    string   `json:"event_id"`
	Type       string   `json:"type"`
	TeeTimeID  uint64   `json:"tee_time_id"`
	ActorID    uint64   `json:"actor_id"`
	ActorName  string   `json:"actor_name"`
	CourseName string   `json:"course_name"`
	TeeOffAt   string   `json:"tee_off_at"`
	Recipients []uint64 `json:"recipients"`
	OccurredAt string   `json:"occurred_at"`
}
