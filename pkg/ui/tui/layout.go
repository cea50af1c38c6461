package tui

import (
	"math"

	"photowall/pkg/engine"
	"photowall/pkg/models"
)

// minCardRows keeps room for both borders and a title line.
const minCardRows = 3

// card is one photo in a column pass, measured in terminal rows.
type card struct {
	photo models.Photo
	top   int
	rows  int
}

// columnLayout is one pass of a column. passRows includes the gap row after
// every card.
type columnLayout struct {
	x, width int
	cards    []card
	passRows int
}

// grid maps the wall's columns to terminal cells.
type grid struct {
	columns []columnLayout
	rowPx   float64
	cellPx  float64
}

// heightRatio is height over width for a card of the given aspect.
func heightRatio(a models.Aspect) float64 {
	switch a {
	case models.AspectPortrait:
		return 4.0 / 3.0
	case models.AspectLandscape:
		return 3.0 / 4.0
	default:
		return 1
	}
}

// cardRows converts a card's pixel height to rows for a card width in cells.
func cardRows(a models.Aspect, innerCells int, cellPx, rowPx float64) int {
	px := float64(innerCells) * cellPx * heightRatio(a)
	rows := int(math.Round(px / rowPx))
	if rows < minCardRows {
		rows = minCardRows
	}
	return rows
}

func newGrid(cols []*engine.Column, width int, cellPx, rowPx float64) grid {
	g := grid{rowPx: rowPx, cellPx: cellPx}
	if len(cols) == 0 {
		return g
	}
	if width < len(cols) {
		width = len(cols)
	}
	base := width / len(cols)
	x := 0
	for i, c := range cols {
		w := base
		if i == len(cols)-1 {
			w = width - x
		}
		inner := w - 1
		if inner < 1 {
			inner = 1
		}
		cl := columnLayout{x: x, width: w}
		top := 0
		for _, p := range c.Photos() {
			rows := cardRows(p.Aspect, inner, cellPx, rowPx)
			cl.cards = append(cl.cards, card{photo: p, top: top, rows: rows})
			top += rows + 1
		}
		cl.passRows = top
		g.columns = append(g.columns, cl)
		x += w
	}
	return g
}

// loop lays out photos, one pass followed by a copy, on this column's
// card sizes.
func (c columnLayout) loop(photos []models.Photo) []card {
	n := len(c.cards)
	if n == 0 {
		return nil
	}
	out := make([]card, len(photos))
	for k, p := range photos {
		base := c.cards[k%n]
		out[k] = card{photo: p, top: (k/n)*c.passRows + base.top, rows: base.rows}
	}
	return out
}

// heights returns each column's pass height in px, the input to Wall.Measure.
func (g grid) heights() []float64 {
	out := make([]float64, len(g.columns))
	for i, c := range g.columns {
		out[i] = float64(c.passRows) * g.rowPx
	}
	return out
}

// columnAt returns the column under terminal column x.
func (g grid) columnAt(x int) int {
	for i, c := range g.columns {
		if x >= c.x && x < c.x+c.width {
			return i
		}
	}
	return -1
}

// cardAt returns the card shown at row (relative to the wall's top) in
// column col when the column is scrolled offsetRows down its loop.
func (g grid) cardAt(col, row, offsetRows int) (card, bool) {
	if col < 0 || col >= len(g.columns) {
		return card{}, false
	}
	c := g.columns[col]
	if c.passRows == 0 {
		return card{}, false
	}
	r := (offsetRows + row) % c.passRows
	for _, cd := range c.cards {
		if r >= cd.top && r < cd.top+cd.rows {
			return cd, true
		}
	}
	return card{}, false
}

// offsetRows converts a column's pixel offset to whole rows.
func (g grid) offsetRows(offsetPx float64) int {
	return int(math.Floor(offsetPx / g.rowPx))
}
