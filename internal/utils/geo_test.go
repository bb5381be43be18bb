package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMiles(t *testing.T) {
	t.Run("zero distance for identical points", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineMiles(40.7128, -74.0060, 40.7128, -74.0060))
	})

	t.Run("new york to philadelphia", func(t *testing.T) {
		// Roughly 80 miles between city centers.
		d := HaversineMiles(40.7128, -74.0060, 39.9526, -75.1652)
		assert.InDelta(t, 80.5, d, 2.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := HaversineMiles(37.7749, -122.4194, 34.0522, -118.2437)
		b := HaversineMiles(34.0522, -118.2437, 37.7749, -122.4194)
		assert.InDelta(t, a, b, 1e-9)
	})

	t.Run("crosses the antimeridian", func(t *testing.T) {
		d := HaversineMiles(0, 179.5, 0, -179.5)
		assert.InDelta(t, 69.0, d, 1.5)
	})
}
