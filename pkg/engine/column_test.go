package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"photowall/pkg/errors"
	"photowall/pkg/models"
)

func photos(prefix string, n int) []models.Photo {
	out := make([]models.Photo, n)
	for i := range out {
		out[i] = models.Photo{ID: fmt.Sprintf("%s%d", prefix, i), Title: fmt.Sprintf("%s %d", prefix, i)}
	}
	return out
}

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestColumnWrapsOffset(t *testing.T) {
	c := NewColumn(0, photos("p", 3), 50)
	require.NoError(t, c.Measure(1000))
	require.Equal(t, Running, c.State())

	c.Advance(t0)
	assert.Equal(t, 0.0, c.Offset(), "first frame only sets the baseline")

	now := t0.Add(10000 * time.Millisecond)
	c.Advance(now)
	assert.InDelta(t, 500, c.Offset(), 1e-9)

	now = now.Add(20 * time.Millisecond)
	c.Advance(now)
	assert.InDelta(t, 501, c.Offset(), 1e-9)

	now = now.Add(20 * time.Millisecond)
	c.Advance(now)
	assert.InDelta(t, 502, c.Offset(), 1e-9)
}

func TestColumnStepWrapsPastSeveralPasses(t *testing.T) {
	c := NewColumn(0, photos("p", 2), 50)
	require.NoError(t, c.Measure(1000))

	c.Step(25 * time.Second)
	assert.InDelta(t, 250, c.Offset(), 1e-9)
	assert.Less(t, c.Offset(), c.ContentHeight())
}

func TestColumnPauseDoesNotAccumulate(t *testing.T) {
	c := NewColumn(0, photos("p", 2), 100)
	require.NoError(t, c.Measure(10000))

	c.Advance(t0)
	c.Advance(t0.Add(time.Second))
	require.InDelta(t, 100, c.Offset(), 1e-9)

	c.SetPaused(true)
	assert.Equal(t, Paused, c.State())
	assert.False(t, c.Advance(t0.Add(5*time.Second)))
	assert.InDelta(t, 100, c.Offset(), 1e-9)

	c.SetPaused(false)
	c.Advance(t0.Add(60 * time.Second))
	assert.InDelta(t, 100, c.Offset(), 1e-9, "resume frame must not replay the pause")

	c.Advance(t0.Add(60*time.Second + 500*time.Millisecond))
	assert.InDelta(t, 150, c.Offset(), 1e-9)
}

func TestColumnSuspendAndHoverBothMustClear(t *testing.T) {
	c := NewColumn(0, photos("p", 2), 100)
	require.NoError(t, c.Measure(10000))

	c.SetPaused(true)
	c.SetSuspended(true)
	assert.Equal(t, Suspended, c.State())

	c.SetSuspended(false)
	assert.Equal(t, Paused, c.State())

	c.SetSuspended(true)
	c.SetPaused(false)
	assert.Equal(t, Suspended, c.State())

	c.SetSuspended(false)
	assert.Equal(t, Running, c.State())
}

func TestColumnIdleWhenEmptyOrUnmeasured(t *testing.T) {
	empty := NewColumn(2, nil, 40)
	assert.Equal(t, Idle, empty.State())
	err := empty.Measure(500)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMeasurement)
	assert.Equal(t, Idle, empty.State())
	assert.Empty(t, empty.Loop())

	c := NewColumn(1, photos("p", 2), 40)
	assert.Equal(t, Idle, c.State(), "unmeasured")
	c.Advance(t0)
	c.Advance(t0.Add(time.Second))
	assert.Equal(t, 0.0, c.Offset())

	require.Error(t, c.Measure(0))
	c.Advance(t0.Add(2 * time.Second))
	c.Step(time.Hour)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0.0, c.Offset())
}

func TestColumnRemeasureKeepsOffsetInRange(t *testing.T) {
	c := NewColumn(0, photos("p", 2), 100)
	require.NoError(t, c.Measure(1000))
	c.Step(9 * time.Second)
	require.InDelta(t, 900, c.Offset(), 1e-9)

	require.NoError(t, c.Measure(400))
	assert.InDelta(t, 100, c.Offset(), 1e-9)
}

func TestColumnLoopDoublesPhotos(t *testing.T) {
	c := NewColumn(0, photos("p", 3), 10)
	assert.Equal(t, []string{"p0", "p1", "p2", "p0", "p1", "p2"}, models.IDs(c.Loop()))
	assert.True(t, c.Contains("p1"))
	assert.False(t, c.Contains("q1"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "paused", Paused.String())
	assert.Equal(t, "suspended", Suspended.String())
}
