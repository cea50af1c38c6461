// Package interaction tracks which photo the pointer is over and fans the
// result out to the scroll engine and the tooltip.
package interaction

import "photowall/pkg/models"

// NoColumn marks the absence of a hovered column.
const NoColumn = -1

// State is the single hover state of a wall view.
type State struct {
	HoveredPhotoID string // "" when nothing is hovered
	HoveredColumn  int    // NoColumn when nothing is hovered
	Title          string
	Pointer        *models.Point
}

// Hovering reports whether a photo is hovered.
func (s State) Hovering() bool {
	return s.HoveredPhotoID != ""
}

// Sink receives the state after every change. engine.Wall implements it.
type Sink interface {
	ApplyHover(State)
}

// Coordinator is driven by pointer events from the UI goroutine only.
type Coordinator struct {
	state State
	sink  Sink
}

// New creates a coordinator with nothing hovered. sink may be nil.
func New(sink Sink) *Coordinator {
	return &Coordinator{
		state: State{HoveredColumn: NoColumn},
		sink:  sink,
	}
}

// State returns a copy of the current state.
func (c *Coordinator) State() State {
	s := c.state
	if s.Pointer != nil {
		p := *s.Pointer
		s.Pointer = &p
	}
	return s
}

// OnHover records photoID in column as hovered. An empty photoID is treated
// as a leave of column.
func (c *Coordinator) OnHover(photoID string, column int, title string, pointer models.Point) {
	if photoID == "" {
		c.OnLeave(column)
		return
	}
	c.state = State{
		HoveredPhotoID: photoID,
		HoveredColumn:  column,
		Title:          title,
		Pointer:        &pointer,
	}
	c.publish()
}

// OnMove tracks the pointer while hovering. Pause state is unchanged.
func (c *Coordinator) OnMove(pointer models.Point) {
	if !c.state.Hovering() {
		return
	}
	c.state.Pointer = &pointer
	c.publish()
}

// OnLeave clears the hover only when column is the hovered column, so a late
// leave from a previous column cannot clear a newer hover.
func (c *Coordinator) OnLeave(column int) {
	if column != c.state.HoveredColumn || c.state.HoveredColumn == NoColumn {
		return
	}
	c.state = State{HoveredColumn: NoColumn}
	c.publish()
}

// Reset clears any hover unconditionally, e.g. when the pointer leaves the view.
func (c *Coordinator) Reset() {
	c.OnLeave(c.state.HoveredColumn)
}

func (c *Coordinator) publish() {
	if c.sink != nil {
		c.sink.ApplyHover(c.State())
	}
}
