// Package booking implements the slot reservation engine: the only
// code path that mutates tee time occupancy.  Every operation runs as
// one atomic unit of work against the Store; on any failure the tee
// time and its slots are left exactly as they were.
package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/amelendez141/linkup-golf/internal/model"
)

// Typed failures surfaced to callers.  None of them is retried here;
// a caller losing a race (ErrSlotTaken) may re-read and try again.
var (
	// ErrNotFound: the tee time does not exist.
	ErrNotFound = errors.New("tee time not found")
	// ErrUnavailable: the tee time exists but is not OPEN.
	ErrUnavailable = errors.New("tee time is not open")
	// ErrFull: no vacant slot at read time.
	ErrFull = errors.New("tee time has no open slots")
	// ErrAlreadyJoined: the member already occupies a slot here.
	ErrAlreadyJoined = errors.New("already joined this tee time")
	// ErrSlotTaken: the chosen slot was claimed by a concurrent join.
	ErrSlotTaken = errors.New("slot was taken by another user")
	// ErrNotInTeeTime: leave was called by a member without a slot.
	ErrNotInTeeTime = errors.New("you are not in this tee time")
	// ErrHostCannotLeave: slot 1 is permanent; the host must cancel.
	ErrHostCannotLeave = errors.New("host cannot leave their own tee time")
)

// Engine assigns members to vacant slots and releases them again,
// keeping the tee time's cached status consistent with occupancy.
type Engine struct {
	store Store
	log   zerolog.Logger
}

// NewEngine returns an Engine backed by the given store.
func NewEngine(store Store, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log.With().Str("component", "booking").Logger()}
}

// Join atomically assigns userID to a vacant slot in the tee time.
// When preferredSlot is non-nil and that slot number is vacant it is
// used; otherwise the lowest-numbered vacant slot is taken.  Filling
// the last slot flips the tee time to FULL in the same transaction.
// The returned slot carries the new occupant and join timestamp.
func (e *Engine) Join(ctx context.Context, teeTimeID, userID uint64, preferredSlot *uint32) (model.TeeTimeSlot, error) {
	var claimed model.TeeTimeSlot
	err := e.store.InTx(ctx, func(tx Tx) error {
		tt, slots, err := tx.TeeTimeWithSlots(ctx, teeTimeID)
		if err != nil {
			return err
		}
		for _, s := range slots {
			if s.UserID != nil && *s.UserID == userID {
				return ErrAlreadyJoined
			}
		}
		if tt.Status != model.TeeTimeOpen {
			return ErrUnavailable
		}

		vacant := make([]model.TeeTimeSlot, 0, len(slots))
		for _, s := range slots {
			if !s.Occupied() {
				vacant = append(vacant, s)
			}
		}
		if len(vacant) == 0 {
			return ErrFull
		}
		sort.Slice(vacant, func(i, j int) bool { return vacant[i].SlotNumber < vacant[j].SlotNumber })

		target := vacant[0]
		if preferredSlot != nil {
			for _, s := range vacant {
				if s.SlotNumber == *preferredSlot {
					target = s
					break
				}
			}
		}

		now := time.Now().UTC()
		ok, err := tx.ClaimSlot(ctx, target.ID, userID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSlotTaken
		}

		left, err := tx.CountVacant(ctx, teeTimeID)
		if err != nil {
			return err
		}
		if left == 0 {
			// Only one writer can claim the last vacant slot, so the
			// transition cannot be double-applied.
			if err := tx.SetStatus(ctx, teeTimeID, model.TeeTimeFull); err != nil {
				return err
			}
		}

		target.UserID = &userID
		target.JoinedAt = &now
		claimed = target
		return nil
	})
	if err != nil {
		return model.TeeTimeSlot{}, err
	}
	e.log.Info().
		Uint64("tee_time_id", teeTimeID).
		Uint64("user_id", userID).
		Uint32("slot_number", claimed.SlotNumber).
		Msg("slot claimed")
	return claimed, nil
}

// Leave vacates the slot userID occupies in the tee time.  The host
// cannot leave; they must cancel the round instead.  If the tee time
// was FULL it reopens in the same transaction.
func (e *Engine) Leave(ctx context.Context, teeTimeID, userID uint64) error {
	err := e.store.InTx(ctx, func(tx Tx) error {
		tt, slots, err := tx.TeeTimeWithSlots(ctx, teeTimeID)
		if err != nil {
			return err
		}
		if tt.Status.Terminal() {
			return ErrUnavailable
		}

		var occupied *model.TeeTimeSlot
		for i := range slots {
			if slots[i].UserID != nil && *slots[i].UserID == userID {
				occupied = &slots[i]
				break
			}
		}
		if occupied == nil {
			return ErrNotInTeeTime
		}
		if tt.HostID == userID {
			return ErrHostCannotLeave
		}

		if err := tx.ReleaseSlot(ctx, occupied.ID); err != nil {
			return err
		}
		if tt.Status == model.TeeTimeFull {
			if err := tx.SetStatus(ctx, teeTimeID, model.TeeTimeOpen); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info().
		Uint64("tee_time_id", teeTimeID).
		Uint64("user_id", userID).
		Msg("slot released")
	return nil
}
