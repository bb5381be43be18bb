package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amelendez141/linkup-golf/internal/model"
)

func TestHostMutationGate(t *testing.T) {
	base := model.TeeTime{ID: 1, HostID: 10, Status: model.TeeTimeOpen, Version: 3}

	t.Run("host with current version passes", func(t *testing.T) {
		assert.NoError(t, hostMutationGate(base, 10, 3))
	})

	t.Run("non-host is forbidden", func(t *testing.T) {
		assert.ErrorIs(t, hostMutationGate(base, 11, 3), ErrForbidden)
	})

	t.Run("cancelled tee time is frozen", func(t *testing.T) {
		tt := base
		tt.Status = model.TeeTimeCancelled
		assert.ErrorIs(t, hostMutationGate(tt, 10, 3), ErrConflict)
	})

	t.Run("completed tee time is frozen", func(t *testing.T) {
		tt := base
		tt.Status = model.TeeTimeCompleted
		assert.ErrorIs(t, hostMutationGate(tt, 10, 3), ErrConflict)
	})

	t.Run("stale version is rejected", func(t *testing.T) {
		assert.ErrorIs(t, hostMutationGate(base, 10, 2), ErrVersionConflict)
	})

	t.Run("forbidden outranks version mismatch", func(t *testing.T) {
		// A non-host must not learn the current version through the
		// error they get back.
		assert.ErrorIs(t, hostMutationGate(base, 11, 2), ErrForbidden)
	})

	t.Run("full tee time still accepts host edits", func(t *testing.T) {
		tt := base
		tt.Status = model.TeeTimeFull
		assert.NoError(t, hostMutationGate(tt, 10, 3))
	})
}
