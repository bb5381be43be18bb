package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/amelendez141/linkup-golf/internal/model"
)

// ErrMessageNotFound is returned when a message lookup matches no row
// visible to the caller.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepo provides persistence for direct messages between
// members.
type MessageRepo struct {
	DB *sql.DB
}

// NewMessageRepo returns a MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db}
}

const messageColumns = `id, sender_id, recipient_id, body, read_at, created_at`

// Create inserts a message and populates its generated ID.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, recipient_id, body) VALUES (?, ?, ?)",
		m.SenderID, m.RecipientID, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Conversation returns the messages exchanged between two members,
// newest first.
func (r *MessageRepo) Conversation(ctx context.Context, userID, otherID uint64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+messageColumns+` FROM messages
		 WHERE (sender_id=? AND recipient_id=?) OR (sender_id=? AND recipient_id=?)
		 ORDER BY created_at DESC LIMIT ?`,
		userID, otherID, otherID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// Inbox returns the most recent messages addressed to the member.
func (r *MessageRepo) Inbox(ctx context.Context, userID uint64, limit int) ([]model.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE recipient_id=? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// ConversationPartner summarises one messaging counterpart: who they
// are, when the thread was last active and how many of their messages
// the member has not read yet.
type ConversationPartner struct {
	PartnerID     uint64
	LastMessageAt time.Time
	UnreadCount   int
}

// Partners returns the members the caller has exchanged messages with,
// most recently active first.
func (r *MessageRepo) Partners(ctx context.Context, userID uint64, limit int) ([]ConversationPartner, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT
		   CASE WHEN sender_id=? THEN recipient_id ELSE sender_id END AS partner_id,
		   MAX(created_at) AS last_at,
		   SUM(CASE WHEN recipient_id=? AND read_at IS NULL THEN 1 ELSE 0 END) AS unread
		 FROM messages
		 WHERE sender_id=? OR recipient_id=?
		 GROUP BY partner_id
		 ORDER BY last_at DESC LIMIT ?`,
		userID, userID, userID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]ConversationPartner, 0)
	for rows.Next() {
		var p ConversationPartner
		if err := rows.Scan(&p.PartnerID, &p.LastMessageAt, &p.UnreadCount); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// MarkRead stamps a message as read.  Only the recipient may mark a
// message, and re-marking an already-read message is a no-op.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID, recipientID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE messages SET read_at=UTC_TIMESTAMP() WHERE id=? AND recipient_id=? AND read_at IS NULL",
		messageID, recipientID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM messages WHERE id=? AND recipient_id=? LIMIT 1",
			messageID, recipientID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}

func collectMessages(rows *sql.Rows) ([]model.Message, error) {
	items := make([]model.Message, 0)
	for rows.Next() {
		var (
			m      model.Message
			readAt sql.NullTime
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &readAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			v := readAt.Time
			m.ReadAt = &v
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
