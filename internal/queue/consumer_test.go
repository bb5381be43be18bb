package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amelendez141/linkup-golf/internal/model"
)

// recordingWriter captures every notification the consumer writes.
type recordingWriter struct {
	rows []model.Notification
	err  error
}

func (w *recordingWriter) Create(_ context.Context, n *model.Notification) error {
	if w.err != nil {
		return w.err
	}
	n.ID = uint64(len(w.rows) + 1)
	w.rows = append(w.rows, *n)
	return nil
}

func marshalEvent(t *testing.T, ev SlotActivityEvent) []byte {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body
}

func TestConsumer_HandleMessage(t *testing.T) {
	t.Run("writes one row per recipient", func(t *testing.T) {
		w := &recordingWriter{}
		cn := &Consumer{Notifications: w, Log: zerolog.Nop()}

		ev := SlotActivityEvent{
			EventID:    "evt-1",
			Type:       EventSlotJoined,
			TeeTimeID:  7,
			ActorID:    3,
			ActorName:  "Dana Fields",
			CourseName: "Pebble Creek",
			TeeOffAt:   "2026-10-01T08:00:00Z",
			Recipients: []uint64{11, 12},
		}
		require.NoError(t, cn.handleMessage(context.Background(), marshalEvent(t, ev)))

		require.Len(t, w.rows, 2)
		assert.Equal(t, uint64(11), w.rows[0].UserID)
		assert.Equal(t, uint64(12), w.rows[1].UserID)
		for _, row := range w.rows {
			assert.Equal(t, model.NotificationSlotJoined, row.Kind)
			require.NotNil(t, row.TeeTimeID)
			assert.Equal(t, uint64(7), *row.TeeTimeID)
			assert.Contains(t, row.Body, "Dana Fields")
			assert.Contains(t, row.Body, "Pebble Creek")
		}
	})

	t.Run("no recipients writes nothing", func(t *testing.T) {
		w := &recordingWriter{}
		cn := &Consumer{Notifications: w, Log: zerolog.Nop()}

		ev := SlotActivityEvent{EventID: "evt-2", Type: EventSlotLeft, TeeTimeID: 7}
		require.NoError(t, cn.handleMessage(context.Background(), marshalEvent(t, ev)))
		assert.Empty(t, w.rows)
	})

	t.Run("malformed payload is rejected", func(t *testing.T) {
		cn := &Consumer{Notifications: &recordingWriter{}, Log: zerolog.Nop()}
		err := cn.handleMessage(context.Background(), []byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("write failure propagates", func(t *testing.T) {
		w := &recordingWriter{err: errors.New("insert failed")}
		cn := &Consumer{Notifications: w, Log: zerolog.Nop()}

		ev := SlotActivityEvent{
			EventID:    "evt-3",
			Type:       EventTeeTimeCancelled,
			TeeTimeID:  9,
			Recipients: []uint64{21},
		}
		err := cn.handleMessage(context.Background(), marshalEvent(t, ev))
		assert.Error(t, err)
		assert.Empty(t, w.rows)
	})
}

func TestRenderBody(t *testing.T) {
	base := SlotActivityEvent{
		ActorName:  "Dana Fields",
		CourseName: "Pebble Creek",
		TeeOffAt:   "2026-10-01T08:00:00Z",
	}

	tests := []struct {
		name string
		typ  string
		want string
	}{
		{"joined", EventSlotJoined, "Dana Fields joined"},
		{"left", EventSlotLeft, "Dana Fields left"},
		{"full", EventTeeTimeFull, "is now full"},
		{"cancelled", EventTeeTimeCancelled, "was cancelled by the host"},
		{"unknown type falls back", "SOMETHING_ELSE", "Activity on"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ev := base
			ev.Type = tc.typ
			assert.Contains(t, renderBody(ev), tc.want)
		})
	}

	t.Run("missing course name gets a placeholder", func(t *testing.T) {
		ev := base
		ev.Type = EventTeeTimeFull
		ev.CourseName = ""
		assert.Contains(t, renderBody(ev), "your tee time")
	})
}
