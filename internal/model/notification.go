package model

import "time"

// NotificationKind classifies what triggered a notification.  The
// values mirror the slot activity event types carried over the broker.
type NotificationKind string

const (
	NotificationSlotJoined       NotificationKind = "SLOT_JOINED"
	NotificationSlotLeft         NotificationKind = "SLOT_LEFT"
	NotificationTeeTimeFull      NotificationKind = "TEE_TIME_FULL"
	NotificationTeeTimeCancelled NotificationKind = "TEE_TIME_CANCELLED"
)

// Notification is a row in the `notifications` table.  Rows are written
// by the slot activity consumer, not by request handlers, so a slow
// insert never blocks a join.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – member the notification is for.
//  Kind      – what triggered it.
//  TeeTimeID – related tee time (nullable).
//  Body      – rendered notification text.
//  ReadAt    – when it was read (null while unread).
//  CreatedAt – creation timestamp.
type Notification struct {
	ID        uint64           // notifications.id
	UserID    uint64           // notifications.user_id
	Kind      NotificationKind // notifications.kind
	TeeTimeID *uint64          // notifications.tee_time_id (nullable)
	Body      string           // notifications.body
	ReadAt    *time.Time       // notifications.read_at (nullable)
	CreatedAt time.Time        // notifications.created_at
}
