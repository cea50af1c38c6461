package engine

import (
	"math"
	"time"

	"photowall/pkg/errors"
	"photowall/pkg/models"
)

// State of one column's animation.
type State int

const (
	// Idle columns have no photos or no usable content height yet.
	Idle State = iota
	Running
	Paused
	// Suspended columns are hidden; hover state is kept but irrelevant.
	Suspended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Suspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Column scrolls one pass of photos continuously. The rendered list is the
// pass drawn twice, so wrapping the offset by exactly one content height is
// invisible.
//
// A Column is owned by a single goroutine; it is not safe for concurrent use.
type Column struct {
	Index int
	Speed float64 // px per second

	photos []models.Photo
	ids    map[string]struct{}

	offset float64
	height float64

	paused    bool
	suspended bool

	last    time.Time
	hasLast bool
}

// NewColumn creates a column at offset zero. It stays Idle until measured.
func NewColumn(index int, photos []models.Photo, speed float64) *Column {
	ids := make(map[string]struct{}, len(photos))
	for _, p := range photos {
		ids[p.ID] = struct{}{}
	}
	return &Column{
		Index:  index,
		Speed:  speed,
		photos: photos,
		ids:    ids,
	}
}

// Photos returns one pass of the column's photos.
func (c *Column) Photos() []models.Photo { return c.photos }

// Loop returns the photos followed by themselves once.
func (c *Column) Loop() []models.Photo {
	loop := make([]models.Photo, 0, 2*len(c.photos))
	loop = append(loop, c.photos...)
	return append(loop, c.photos...)
}

// Contains reports whether id is one of this column's photos.
func (c *Column) Contains(id string) bool {
	_, ok := c.ids[id]
	return ok
}

// Offset is the current translation in px, always below ContentHeight once
// the column is measured.
func (c *Column) Offset() float64 { return c.offset }

// ContentHeight is the height of one pass, or 0 when unmeasured.
func (c *Column) ContentHeight() float64 { return c.height }

func (c *Column) State() State {
	switch {
	case len(c.photos) == 0 || c.height <= 0:
		return Idle
	case c.suspended:
		return Suspended
	case c.paused:
		return Paused
	default:
		return Running
	}
}

// Measure records the height of one pass. An empty column or a non-positive
// height leaves the column Idle and returns a measurement error.
func (c *Column) Measure(height float64) error {
	if len(c.photos) == 0 || height <= 0 || math.IsNaN(height) || math.IsInf(height, 0) {
		c.height = 0
		c.hasLast = false
		return errors.NewMeasurement(c.Index, height)
	}
	c.height = height
	c.offset = math.Mod(c.offset, height)
	return nil
}

// SetPaused sets the hover pause. Entering the pause drops the delta baseline.
func (c *Column) SetPaused(paused bool) {
	if paused {
		c.hasLast = false
	}
	c.paused = paused
}

// SetSuspended sets the visibility pause, independent of hover.
func (c *Column) SetSuspended(suspended bool) {
	if suspended {
		c.hasLast = false
	}
	c.suspended = suspended
}

func (c *Column) Paused() bool    { return c.paused }
func (c *Column) Suspended() bool { return c.suspended }

// Advance is the per-frame callback. The first running frame after creation,
// a pause or a suspension only records the baseline, so time spent stopped is
// never turned into movement. It reports whether the offset moved.
func (c *Column) Advance(now time.Time) bool {
	if c.State() != Running {
		c.hasLast = false
		return false
	}
	if !c.hasLast {
		c.last = now
		c.hasLast = true
		return false
	}
	dt := now.Sub(c.last)
	c.last = now
	if dt <= 0 {
		return false
	}
	c.Step(dt)
	return true
}

// Step moves a running column by speed*dt and wraps at the content height.
func (c *Column) Step(dt time.Duration) {
	if c.State() != Running {
		return
	}
	c.offset += c.Speed * dt.Seconds()
	if c.offset >= c.height {
		c.offset = math.Mod(c.offset, c.height)
	}
}
