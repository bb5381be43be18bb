package booking

import (
	"context"
	"time"

	"github.com/amelendez141/linkup-golf/internal/model"
)

// Store is the narrow transactional contract the reservation engine
// needs from persistence.  InTx must run fn inside one transaction at
// an isolation level strong enough that two concurrent joins on the
// same tee time cannot both claim the same slot; the MySQL
// implementation uses a serializable transaction for exactly this call
// path.  If fn returns an error the transaction is rolled back and no
// partial mutation is ever observable.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of occupancy operations available inside one
// reservation transaction.
type Tx interface {
	// TeeTimeWithSlots loads a tee time and all of its slots.  It
	// returns ErrNotFound when no such tee time exists.
	TeeTimeWithSlots(ctx context.Context, teeTimeID uint64) (model.TeeTime, []model.TeeTimeSlot, error)

	// ClaimSlot conditionally assigns a slot: the write succeeds only
	// if the slot is still vacant at the instant of the update.  It
	// reports false, nil when another writer won the race.
	ClaimSlot(ctx context.Context, slotID, userID uint64, joinedAt time.Time) (bool, error)

	// ReleaseSlot vacates a slot, clearing occupant and join time.
	ReleaseSlot(ctx context.Context, slotID uint64) error

	// CountVacant returns the number of unoccupied slots in a tee time.
	CountVacant(ctx context.Context, teeTimeID uint64) (int, error)

	// SetStatus rewrites the tee time's cached occupancy status.
	SetStatus(ctx context.Context, teeTimeID uint64, status model.TeeTimeStatus) error
}
