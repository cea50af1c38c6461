package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"photowall/pkg/engine"
)

// paint is the style class of one cell of the wall grid
type paint uint8

const (
	paintBlank paint = iota
	paintBorder
	paintHoverBorder
	paintTitle
	paintAspect
	paintTooltip
)

// canvas is the wall area as cells, styled per run when rendered
type canvas struct {
	cells  [][]rune
	paints [][]paint
}

func newCanvas(width, height int) *canvas {
	c := &canvas{cells: make([][]rune, height), paints: make([][]paint, height)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", width))
		c.paints[y] = make([]paint, width)
	}
	return c
}

func (c *canvas) put(x, y int, r rune, p paint) {
	if y < 0 || y >= len(c.cells) || x < 0 || x >= len(c.cells[y]) {
		return
	}
	c.cells[y][x] = r
	c.paints[y][x] = p
}

func (c *canvas) text(x, y int, s string, p paint) {
	for i, r := range []rune(s) {
		c.put(x+i, y, r, p)
	}
}

func (c *canvas) render() []string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x == len(row) || c.paints[y][x] != c.paints[y][start] {
				b.WriteString(paintStyle(c.paints[y][start]).Render(string(row[start:x])))
				start = x
			}
		}
		lines[y] = b.String()
	}
	return lines
}

// View renders the entire TUI
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	sections := []string{m.renderHeader()}
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	} else {
		sections = append(sections, strings.Join(m.renderWall(), "\n"))
	}
	sections = append(sections, m.renderStatus())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	logo := titleStyle.Render(" PHOTOWALL ")
	right := m.input.View()
	if m.loading {
		right += " " + m.spinner.View()
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(logo + " " + right)
}

// renderWall draws the visible window of every column's loop, then the
// tooltip on top.
func (m *Model) renderWall() []string {
	rows := m.wallRows()
	cv := newCanvas(m.width, rows)
	if !m.ready {
		msg := m.spinner.View() + " arranging photos"
		cv.text(max(0, (m.width-len([]rune(msg)))/2), rows/2, msg, paintTitle)
		return cv.render()
	}

	g := m.grid()
	hovered := m.hover.State()
	for i, col := range m.wall.Columns() {
		if i >= len(g.columns) || col.State() == engine.Idle {
			continue
		}
		cl := g.columns[i]
		loop := cl.loop(col.Loop())
		loopRows := 2 * cl.passRows
		if loopRows == 0 {
			continue
		}
		start := g.offsetRows(col.Offset())
		for y := 0; y < rows; y++ {
			r := (start + y) % loopRows
			cd, ok := cardInLoop(loop, r)
			if !ok {
				continue
			}
			p := paintBorder
			if hovered.HoveredColumn == i && hovered.HoveredPhotoID == cd.photo.ID {
				p = paintHoverBorder
			}
			drawCardRow(cv, cl.x, y, cl.width-1, r-cd.top, cd, p)
		}
	}

	if label, x, y, ok := m.tooltipCell(); ok {
		cv.text(x, y-headerRows, label, paintTooltip)
	}
	return cv.render()
}

// cardInLoop finds the card covering row r of a column's loop
func cardInLoop(loop []card, r int) (card, bool) {
	for _, cd := range loop {
		if r >= cd.top && r < cd.top+cd.rows {
			return cd, true
		}
	}
	return card{}, false
}

func drawCardRow(cv *canvas, x, y, w, line int, cd card, p paint) {
	if w < 2 {
		return
	}
	switch {
	case line == 0:
		cv.put(x, y, '╭', p)
		cv.text(x+1, y, strings.Repeat("─", w-2), p)
		cv.put(x+w-1, y, '╮', p)
	case line == cd.rows-1:
		cv.put(x, y, '╰', p)
		cv.text(x+1, y, strings.Repeat("─", w-2), p)
		cv.put(x+w-1, y, '╯', p)
	default:
		cv.put(x, y, '│', p)
		cv.put(x+w-1, y, '│', p)
		switch line {
		case 1:
			cv.text(x+2, y, truncate(cd.photo.Title, w-4), paintTitle)
		case 2:
			if cd.rows > 4 {
				cv.text(x+2, y, truncate(string(cd.photo.Aspect), w-4), paintAspect)
			}
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func (m *Model) renderStatus() string {
	style := statusStyle
	if m.isError {
		style = errorStyle
	}
	left := style.Render(m.status)

	hover := ""
	if s := m.hover.State(); s.Hovering() {
		hover = fmt.Sprintf(" │ paused col %d", s.HoveredColumn+1)
	}
	if m.wall.Suspended() {
		hover = " │ suspended"
	}
	right := helpStyle.Render(fmt.Sprintf("%d cols%s │ / search · d download · ? help · q quit", len(m.wall.Columns()), hover))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) renderHelp() string {
	lines := []string{
		titleStyle.Render(" KEYS "),
		"",
		"  /        focus the search box; typing searches after a pause",
		"  enter    search now",
		"  esc      leave the search box",
		"  d        download the hovered photo in HD",
		"  ?        toggle this help",
		"  q        quit",
		"",
		"  Hovering a photo pauses its column.",
	}
	for len(lines) < m.wallRows() {
		lines = append(lines, "")
	}
	return strings.Join(lines[:m.wallRows()], "\n")
}
