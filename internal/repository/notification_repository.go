package repository

import (
	"context"
	"database/sql"

	"github.com/amelendez141/linkup-golf/internal/model"
)

// NotificationRepo provides persistence for member notifications.
// Rows are written by the slot activity consumer and read by members.
type NotificationRepo struct {
	DB *sql.DB
}

// NewNotificationRepo returns a NotificationRepo bound to the given
// database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db}
}

// Create inserts a notification for one member.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (user_id, kind, tee_time_id, body) VALUES (?, ?, ?, ?)",
		n.UserID, string(n.Kind), n.TeeTimeID, n.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListForUser returns the member's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, kind, tee_time_id, body, read_at, created_at
		 FROM notifications WHERE user_id=? ORDER BY created_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Notification, 0)
	for rows.Next() {
		var (
			n      model.Notification
			readAt sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.TeeTimeID, &n.Body, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if readAt.Valid {
			v := readAt.Time
			n.ReadAt = &v
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// UnreadCount returns how many of the member's notifications are
// still unread.
func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id=? AND read_at IS NULL", userID).Scan(&n)
	return n, err
}

// MarkAllRead stamps every unread notification of the member.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE notifications SET read_at=UTC_TIMESTAMP() WHERE user_id=? AND read_at IS NULL", userID)
	return err
}
