package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amelendez141/linkup-golf/internal/model"
)

func newTestEngine(store Store) *Engine {
	return NewEngine(store, zerolog.Nop())
}

func uint32Ptr(v uint32) *uint32 { return &v }

func TestEngine_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("joins lowest vacant slot", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		slot, err := eng.Join(ctx, 1, 200, nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), slot.SlotNumber, "slot 1 is the host's, so slot 2 is the lowest vacant")
		require.NotNil(t, slot.UserID)
		assert.Equal(t, uint64(200), *slot.UserID)
		assert.NotNil(t, slot.JoinedAt)
	})

	t.Run("honors a vacant preferred slot", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		slot, err := eng.Join(ctx, 1, 200, uint32Ptr(4))
		require.NoError(t, err)
		assert.Equal(t, uint32(4), slot.SlotNumber)
	})

	t.Run("falls back when preferred slot is occupied", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		_, err := eng.Join(ctx, 1, 200, uint32Ptr(2))
		require.NoError(t, err)

		slot, err := eng.Join(ctx, 1, 300, uint32Ptr(2))
		require.NoError(t, err)
		assert.Equal(t, uint32(3), slot.SlotNumber)
	})

	t.Run("rejects a second join by the same member", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		_, err := eng.Join(ctx, 1, 200, nil)
		require.NoError(t, err)

		_, err = eng.Join(ctx, 1, 200, nil)
		assert.ErrorIs(t, err, ErrAlreadyJoined)
	})

	t.Run("host counts as already joined", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		_, err := eng.Join(ctx, 1, 100, nil)
		assert.ErrorIs(t, err, ErrAlreadyJoined)
	})

	t.Run("filling the last slot flips status to FULL", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 2, model.TeeTimeOpen)
		eng := newTestEngine(store)

		_, err := eng.Join(ctx, 1, 200, nil)
		require.NoError(t, err)
		assert.Equal(t, model.TeeTimeFull, store.status(1))
	})

	t.Run("rejects joins on a non-open tee time", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeCancelled)
		eng := newTestEngine(store)

		_, err := eng.Join(ctx, 1, 200, nil)
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("unknown tee time", func(t *testing.T) {
		eng := newTestEngine(newMemStore())
		_, err := eng.Join(ctx, 99, 200, nil)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("lost claim race surfaces as ErrSlotTaken", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(&claimRefusingStore{inner: store})

		_, err := eng.Join(ctx, 1, 200, nil)
		assert.ErrorIs(t, err, ErrSlotTaken)
		assert.Nil(t, store.occupant(1, 2), "failed join must not leave a partial claim")
	})

	t.Run("concurrent joins never double-book", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		const members = 10
		var wg sync.WaitGroup
		errs := make([]error, members)
		for i := 0; i < members; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = eng.Join(ctx, 1, uint64(200+i), nil)
			}(i)
		}
		wg.Wait()

		joined := 0
		for _, err := range errs {
			if err == nil {
				joined++
				continue
			}
			// Losers see ErrUnavailable once the winner's transaction
			// flipped the status, or ErrFull if they read in between.
			if !assert.True(t, errors.Is(err, ErrUnavailable) || errors.Is(err, ErrFull)) {
				t.Logf("unexpected join error: %v", err)
			}
		}
		assert.Equal(t, 3, joined, "exactly the three vacant slots get claimed")
		assert.Equal(t, model.TeeTimeFull, store.status(1))
	})
}

func TestEngine_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("vacates the member's slot", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		slot, err := eng.Join(ctx, 1, 200, nil)
		require.NoError(t, err)

		require.NoError(t, eng.Leave(ctx, 1, 200))
		assert.Nil(t, store.occupant(1, slot.SlotNumber))
	})

	t.Run("leaving a full tee time reopens it", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 2, model.TeeTimeOpen)
		eng := newTestEngine(store)

		_, err := eng.Join(ctx, 1, 200, nil)
		require.NoError(t, err)
		require.Equal(t, model.TeeTimeFull, store.status(1))

		require.NoError(t, eng.Leave(ctx, 1, 200))
		assert.Equal(t, model.TeeTimeOpen, store.status(1))
	})

	t.Run("host cannot leave", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		err := eng.Leave(ctx, 1, 100)
		assert.ErrorIs(t, err, ErrHostCannotLeave)
		assert.NotNil(t, store.occupant(1, 1))
	})

	t.Run("member without a slot", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeOpen)
		eng := newTestEngine(store)

		err := eng.Leave(ctx, 1, 999)
		assert.ErrorIs(t, err, ErrNotInTeeTime)
	})

	t.Run("terminal tee times reject leave", func(t *testing.T) {
		store := newMemStore()
		store.addTeeTime(1, 100, 4, model.TeeTimeCancelled)
		eng := newTestEngine(store)

		err := eng.Leave(ctx, 1, 200)
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
