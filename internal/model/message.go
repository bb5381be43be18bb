package model

import "time"

// Message is a direct message between two members, as stored in the
// `messages` table.
//
// Fields:
//  ID          – primary key identifier.
//  SenderID    – member who sent the message.
//  RecipientID – member who received it.
//  Body        – message text.
//  ReadAt      – when the recipient read it (null while unread).
//  CreatedAt   – when the message was sent.
type Message struct {
	ID          uint64     // messages.id
	SenderID    uint64     // messages.sender_id
	RecipientID uint64     // messages.recipient_id
	Body        string     // messages.body
	ReadAt      *time.Time // messages.read_at (nullable)
	CreatedAt   time.Time  // messages.created_at
}
