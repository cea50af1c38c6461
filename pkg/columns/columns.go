// Package columns splits a photo list across display columns and maps a
// viewport width to a column count.
package columns

import (
	"math"

	"photowall/pkg/models"
)

// Breakpoint maps widths below MaxWidth to Columns.
type Breakpoint struct {
	MaxWidth float64
	Columns  int
}

// Breakpoints are checked in order; widths past the last one get WideColumns.
var Breakpoints = []Breakpoint{
	{MaxWidth: 640, Columns: 2},
	{MaxWidth: 768, Columns: 3},
	{MaxWidth: 1024, Columns: 4},
	{MaxWidth: 1280, Columns: 5},
}

const WideColumns = 6

// Distribute deals photos round-robin: photo k goes to column k mod n.
// Relative order is kept inside each column and sizes differ by at most one.
func Distribute(photos []models.Photo, n int) [][]models.Photo {
	if n < 1 {
		n = 1
	}
	out := make([][]models.Photo, n)
	for c := range out {
		out[c] = make([]models.Photo, 0, (len(photos)+n-1)/n)
	}
	for k, p := range photos {
		out[k%n] = append(out[k%n], p)
	}
	return out
}

// CountForWidth returns the column count for a viewport width in pixels.
func CountForWidth(width float64) int {
	for _, bp := range Breakpoints {
		if width < bp.MaxWidth {
			return bp.Columns
		}
	}
	return WideColumns
}

// CountForCells converts a terminal width to pixels and applies CountForWidth.
func CountForCells(cells int, cellPx float64) int {
	return CountForWidth(math.Max(0, float64(cells)*cellPx))
}
