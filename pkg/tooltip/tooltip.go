// Package tooltip places the floating title label of the hovered photo.
package tooltip

import (
	"math"

	"photowall/pkg/interaction"
)

// The label is centered horizontally on the pointer and lifted by
// LiftPercent of its own height.
const (
	AnchorX     = -0.5
	LiftPercent = 140
)

// Placement is where the label's top-left corner goes.
type Placement struct {
	Title string
	X     float64
	Y     float64
}

// Render computes the label placement for s. It returns false when nothing
// is hovered or the pointer position is unknown. It is a pure function of
// its inputs.
func Render(s interaction.State, labelWidth, labelHeight float64) (Placement, bool) {
	if !s.Hovering() || s.Pointer == nil {
		return Placement{}, false
	}
	return Placement{
		Title: s.Title,
		X:     s.Pointer.X + AnchorX*labelWidth,
		Y:     s.Pointer.Y - math.Ceil(labelHeight*LiftPercent/100),
	}, true
}

// Clamp keeps p inside a width x height area for a label of the given size.
func (p Placement) Clamp(width, height, labelWidth, labelHeight float64) Placement {
	p.X = math.Max(0, math.Min(p.X, width-labelWidth))
	p.Y = math.Max(0, math.Min(p.Y, height-labelHeight))
	return p
}
