// Package engine animates the waterfall: one continuously scrolling Column
// per display column, grouped in a Wall that swaps its columns atomically
// whenever the photo set or column count changes.
//
// Everything here is driven by the UI goroutine. Nothing is locked.
package engine

import (
	stderrors "errors"
	"time"

	"photowall/pkg/columns"
	"photowall/pkg/interaction"
	"photowall/pkg/logger"
	"photowall/pkg/models"
)

// DefaultSpeeds are the per-column speeds in px/s.
var DefaultSpeeds = []float64{35, 45, 40, 50, 38, 42}

// Wall owns the columns of one view.
type Wall struct {
	speeds     []float64
	photos     []models.Photo
	columns    []*Column
	generation uint64
	suspended  bool
	hover      interaction.State
	log        logger.Logger
}

// NewWall creates an empty wall. Column i scrolls at speeds[i%len(speeds)].
func NewWall(speeds []float64) *Wall {
	if len(speeds) == 0 {
		speeds = DefaultSpeeds
	}
	return &Wall{
		speeds: append([]float64(nil), speeds...),
		hover:  interaction.State{HoveredColumn: interaction.NoColumn},
		log:    logger.GetLogger().WithField("component", "wall"),
	}
}

// SetLogger replaces the wall's logger.
func (w *Wall) SetLogger(l logger.Logger) {
	w.log = l.WithField("component", "wall")
}

// Replace installs a new photo set across n columns. Every column is rebuilt
// at offset zero and the set is swapped in one assignment. The generation is
// bumped, which cancels frames and measurements scheduled for the old columns.
func (w *Wall) Replace(photos []models.Photo, n int) uint64 {
	parts := columns.Distribute(photos, n)
	next := make([]*Column, len(parts))
	for i, part := range parts {
		c := NewColumn(i, part, w.speeds[i%len(w.speeds)])
		c.SetSuspended(w.suspended)
		c.SetPaused(w.pausedBy(c, w.hover))
		next[i] = c
	}

	w.photos = photos
	w.columns = next
	w.generation++

	w.log.DebugWithFields("Columns replaced", map[string]interface{}{
		"photos":     len(photos),
		"columns":    len(next),
		"generation": w.generation,
	})
	return w.generation
}

// Resize redistributes the current photos over n columns. It returns false
// and keeps the columns when n is unchanged.
func (w *Wall) Resize(n int) bool {
	if n < 1 {
		n = 1
	}
	if n == len(w.columns) {
		return false
	}
	w.Replace(w.photos, n)
	return true
}

// Columns returns the current columns. The slice must not be modified.
func (w *Wall) Columns() []*Column { return w.columns }

// Photos returns the active photo set.
func (w *Wall) Photos() []models.Photo { return w.photos }

// Generation identifies the current column set.
func (w *Wall) Generation() uint64 { return w.generation }

// Tick advances every column against the same now. Ticks carrying a stale
// generation are ignored and return false.
func (w *Wall) Tick(now time.Time, generation uint64) bool {
	if generation != w.generation {
		return false
	}
	for _, c := range w.columns {
		c.Advance(now)
	}
	return true
}

// Measure records the content height of each column. Columns that cannot be
// measured stay Idle; their errors are logged and joined, the rest of the
// wall is unaffected. Stale generations are ignored.
func (w *Wall) Measure(generation uint64, heights []float64) error {
	if generation != w.generation {
		return nil
	}
	var errs []error
	for i, c := range w.columns {
		var h float64
		if i < len(heights) {
			h = heights[i]
		}
		if err := c.Measure(h); err != nil {
			w.log.WithError(err).WarnWithFields("Column left idle", map[string]interface{}{
				"column": i,
				"photos": len(c.Photos()),
			})
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// ApplyHover pauses the column that owns the hovered photo and resumes every
// other column.
func (w *Wall) ApplyHover(s interaction.State) {
	w.hover = s
	for _, c := range w.columns {
		c.SetPaused(w.pausedBy(c, s))
	}
}

func (w *Wall) pausedBy(c *Column, s interaction.State) bool {
	return s.Hovering() && s.HoveredColumn == c.Index && c.Contains(s.HoveredPhotoID)
}

// SetSuspended hides or shows the whole wall.
func (w *Wall) SetSuspended(suspended bool) {
	w.suspended = suspended
	for _, c := range w.columns {
		c.SetSuspended(suspended)
	}
}

func (w *Wall) Suspended() bool { return w.suspended }

// PausedColumn returns the index of the paused column, or -1.
func (w *Wall) PausedColumn() int {
	for _, c := range w.columns {
		if c.Paused() {
			return c.Index
		}
	}
	return interaction.NoColumn
}
