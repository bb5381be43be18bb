package booking

import (
	"context"
	"sync"
	"time"

	"github.com/amelendez141/linkup-golf/internal/model"
)

// memStore is an in-memory Store used by the engine tests.  A single
// mutex around InTx gives the same effect the serializable transaction
// provides in production: units of work never interleave.
type memStore struct {
	mu       sync.Mutex
	teeTimes map[uint64]*model.TeeTime
	slots    map[uint64][]*model.TeeTimeSlot // keyed by tee time ID
	nextSlot uint64
}

func newMemStore() *memStore {
	return &memStore{
		teeTimes: make(map[uint64]*model.TeeTime),
		slots:    make(map[uint64][]*model.TeeTimeSlot),
		nextSlot: 1,
	}
}

// addTeeTime seeds a tee time with totalSlots slots, slot 1 occupied
// by the host.
func (m *memStore) addTeeTime(id, hostID uint64, totalSlots uint32, status model.TeeTimeStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teeTimes[id] = &model.TeeTime{
		ID:         id,
		HostID:     hostID,
		TotalSlots: totalSlots,
		Status:     status,
	}
	now := time.Now().UTC()
	for n := uint32(1); n <= totalSlots; n++ {
		s := &model.TeeTimeSlot{
			ID:         m.nextSlot,
			TeeTimeID:  id,
			SlotNumber: n,
		}
		m.nextSlot++
		if n == 1 {
			host := hostID
			s.UserID = &host
			s.JoinedAt = &now
		}
		m.slots[id] = append(m.slots[id], s)
	}
}

func (m *memStore) status(id uint64) model.TeeTimeStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teeTimes[id].Status
}

func (m *memStore) occupant(teeTimeID uint64, slotNumber uint32) *uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots[teeTimeID] {
		if s.SlotNumber == slotNumber {
			return s.UserID
		}
	}
	return nil
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{store: m})
}

type memTx struct{ store *memStore }

func (t *memTx) TeeTimeWithSlots(ctx context.Context, teeTimeID uint64) (model.TeeTime, []model.TeeTimeSlot, error) {
	tt, ok := t.store.teeTimes[teeTimeID]
	if !ok {
		return model.TeeTime{}, nil, ErrNotFound
	}
	slots := make([]model.TeeTimeSlot, 0, len(t.store.slots[teeTimeID]))
	for _, s := range t.store.slots[teeTimeID] {
		slots = append(slots, *s)
	}
	return *tt, slots, nil
}

func (t *memTx) ClaimSlot(ctx context.Context, slotID, userID uint64, joinedAt time.Time) (bool, error) {
	for _, slots := range t.store.slots {
		for _, s := range slots {
			if s.ID == slotID {
				if s.UserID != nil {
					return false, nil
				}
				uid := userID
				at := joinedAt
				s.UserID = &uid
				s.JoinedAt = &at
				return true, nil
			}
		}
	}
	return false, nil
}

func (t *memTx) ReleaseSlot(ctx context.Context, slotID uint64) error {
	for _, slots := range t.store.slots {
		for _, s := range slots {
			if s.ID == slotID {
				s.UserID = nil
				s.JoinedAt = nil
				return nil
			}
		}
	}
	return nil
}

func (t *memTx) CountVacant(ctx context.Context, teeTimeID uint64) (int, error) {
	n := 0
	for _, s := range t.store.slots[teeTimeID] {
		if s.UserID == nil {
			n++
		}
	}
	return n, nil
}

func (t *memTx) SetStatus(ctx context.Context, teeTimeID uint64, status model.TeeTimeStatus) error {
	t.store.teeTimes[teeTimeID].Status = status
	return nil
}

// claimRefusingStore wraps a memStore but makes every ClaimSlot lose
// the race, simulating a concurrent writer grabbing the slot between
// read and update.
type claimRefusingStore struct{ inner *memStore }

func (s *claimRefusingStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.inner.InTx(ctx, func(tx Tx) error {
		return fn(&claimRefusingTx{Tx: tx})
	})
}

type claimRefusingTx struct{ Tx }

func (t *claimRefusingTx) ClaimSlot(ctx context.Context, slotID, userID uint64, joinedAt time.Time) (bool, error) {
	return false, nil
}
