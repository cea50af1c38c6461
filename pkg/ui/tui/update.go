package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"photowall/internal/downloader"
	"photowall/pkg/engine"
	"photowall/pkg/generative"
	"photowall/pkg/models"
	"photowall/pkg/tooltip"
)

// Message types for the TUI

// frameMsg drives one animation frame of a wall generation
type frameMsg struct {
	generation uint64
	at         time.Time
}

// settleMsg asks for the columns of a generation to be measured
type settleMsg struct{ generation uint64 }

// readyMsg reveals the columns of a generation
type readyMsg struct{ generation uint64 }

// debounceMsg fires a search if no keystroke came after it was scheduled
type debounceMsg struct {
	seq   uint64
	query string
}

// photosMsg carries the result of a search
type photosMsg struct {
	seq    uint64
	query  string
	photos []models.Photo
	err    error
}

// downloadMsg reports one finished HD download
type downloadMsg struct {
	result downloader.DownloadResult
}

// downloadQueuedMsg reports that a download was handed to the pool
type downloadQueuedMsg struct {
	photo models.Photo
	err   error
}

// downloadsClosedMsg means the pool stopped delivering results
type downloadsClosedMsg struct{}

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		m.pointer = &cell{x: msg.X, y: msg.Y}
		m.trackPointer()
		return m, nil

	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)

	case tea.BlurMsg:
		m.hover.Reset()
		m.pointer = nil
		m.wall.SetSuspended(true)
		return m, nil

	case tea.FocusMsg:
		m.wall.SetSuspended(false)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		if !m.wall.Tick(msg.at, msg.generation) {
			// a newer generation runs its own pump
			return m, nil
		}
		m.trackPointer()
		return m, m.frame(msg.generation)

	case settleMsg:
		if msg.generation != m.wall.Generation() {
			return m, nil
		}
		if err := m.wall.Measure(msg.generation, m.grid().heights()); err != nil {
			m.log.WithError(err).Debug("Some columns stay idle")
		}
		gen := msg.generation
		return m, tea.Tick(m.cfg.ReadyDelay, func(time.Time) tea.Msg { return readyMsg{generation: gen} })

	case readyMsg:
		if msg.generation == m.wall.Generation() {
			m.ready = true
		}
		return m, nil

	case debounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		return m, m.search(msg.query, msg.seq)

	case photosMsg:
		return m, m.applyPhotos(msg)

	case downloadQueuedMsg:
		if msg.err != nil {
			m.setStatus("Download not queued: "+msg.err.Error(), true)
		} else {
			m.setStatus("Downloading "+msg.photo.Title+" in HD…", false)
		}
		return m, nil

	case downloadMsg:
		r := msg.result
		switch {
		case r.Error != nil:
			m.setStatus(fmt.Sprintf("Failed to download %s: %v", r.Job.Photo.Title, r.Error), true)
		case r.Skipped:
			m.setStatus(r.Job.Photo.Title+" is already downloaded", false)
		default:
			m.setStatus("Saved "+r.Path, false)
		}
		return m, waitForDownload(m.pool.Results())

	case downloadsClosedMsg:
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.input.Focused() {
		switch msg.Type {
		case tea.KeyEnter:
			m.input.Blur()
			m.searchSeq++
			return m, m.search(m.input.Value(), m.searchSeq)
		case tea.KeyEsc:
			m.input.Blur()
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		m.searchSeq++
		return m, tea.Batch(cmd, m.debounce(m.input.Value(), m.searchSeq))
	}

	switch msg.String() {
	case "q", "Q":
		return m, tea.Quit

	case "/":
		return m, m.input.Focus()

	case "?":
		m.showHelp = !m.showHelp
		m.trackPointer()
		return m, nil

	case "d", "D":
		return m, m.downloadHovered()
	}

	return m, nil
}

func (m *Model) resize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.input.Width = max(10, width/3)

	if m.wall.Resize(m.columnCount()) {
		m.hover.Reset()
		m.ready = false
		return m.startGeneration(m.wall.Generation())
	}
	// same columns, new card sizes
	return m.settle(m.wall.Generation())
}

// applyPhotos swaps in a search result. Results of superseded searches are
// dropped; failures and empty results keep the current photos.
func (m *Model) applyPhotos(msg photosMsg) tea.Cmd {
	if msg.seq != m.searchSeq {
		return nil
	}
	m.loading = false

	if msg.err != nil {
		m.setStatus(fmt.Sprintf("No photos found for %q (%v)", msg.query, msg.err), true)
		return nil
	}
	if len(msg.photos) == 0 {
		m.setStatus(fmt.Sprintf("No photos found for %q", msg.query), true)
		return nil
	}

	m.query = msg.query
	m.setStatus(fmt.Sprintf("%d photos for %q", len(msg.photos), msg.query), false)
	m.hover.Reset()
	m.ready = false
	gen := m.wall.Replace(msg.photos, m.columnCount())
	return m.startGeneration(gen)
}

func (m *Model) startGeneration(gen uint64) tea.Cmd {
	return tea.Batch(m.frame(gen), m.settle(gen))
}

func (m *Model) frame(gen uint64) tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg{generation: gen, at: t}
	})
}

func (m *Model) settle(gen uint64) tea.Cmd {
	return tea.Tick(m.cfg.SettleDelay, func(time.Time) tea.Msg {
		return settleMsg{generation: gen}
	})
}

func (m *Model) debounce(query string, seq uint64) tea.Cmd {
	return tea.Tick(m.cfg.SearchDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq, query: query}
	})
}

// search runs a query off the Update goroutine. A blank query restores the
// default set.
func (m *Model) search(query string, seq uint64) tea.Cmd {
	q := strings.TrimSpace(query)
	if q == "" {
		def := m.cfg.DefaultQuery
		return func() tea.Msg {
			return photosMsg{seq: seq, query: def, photos: generative.Generate(def)}
		}
	}

	m.loading = true
	m.setStatus(fmt.Sprintf("Searching %q…", q), false)
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		resp, err := searcher.Search(ctx, q)
		if err != nil {
			return photosMsg{seq: seq, query: q, err: err}
		}
		return photosMsg{seq: seq, query: resp.Query, photos: resp.Photos}
	}
}

// trackPointer hit-tests the last pointer position against the wall. It runs
// on mouse motion and after every frame, since cards move under a still
// pointer.
func (m *Model) trackPointer() {
	if m.pointer == nil {
		return
	}
	// nothing under the help overlay or a hidden wall can be hovered
	if !m.ready || m.showHelp {
		m.hover.Reset()
		return
	}
	p := *m.pointer
	g := m.grid()
	col := g.columnAt(p.x)
	row := p.y - headerRows

	var hit card
	ok := false
	if row >= 0 && row < m.wallRows() && col >= 0 && col < len(m.wall.Columns()) {
		if c := m.wall.Columns()[col]; c.State() != engine.Idle {
			hit, ok = g.cardAt(col, row, g.offsetRows(c.Offset()))
		}
	}

	state := m.hover.State()
	pointer := models.Point{X: float64(p.x) * m.cfg.CellWidthPx, Y: float64(p.y) * m.cfg.RowHeightPx}
	switch {
	case !ok:
		m.hover.Reset()
	case state.HoveredPhotoID == hit.photo.ID && state.HoveredColumn == col:
		m.hover.OnMove(pointer)
	default:
		if state.Hovering() {
			m.hover.OnLeave(state.HoveredColumn)
		}
		m.hover.OnHover(hit.photo.ID, col, hit.photo.Title, pointer)
	}
}

// tooltipCell places the hovered title in cell coordinates
func (m *Model) tooltipCell() (string, int, int, bool) {
	s := m.hover.State()
	if !s.Hovering() {
		return "", 0, 0, false
	}
	label := " " + s.Title + " "
	labelW := float64(len([]rune(label))) * m.cfg.CellWidthPx
	labelH := m.cfg.RowHeightPx

	p, ok := tooltip.Render(s, labelW, labelH)
	if !ok {
		return "", 0, 0, false
	}
	p = p.Clamp(float64(m.width)*m.cfg.CellWidthPx, float64(m.height-footerRows)*m.cfg.RowHeightPx, labelW, labelH)
	x := int(p.X / m.cfg.CellWidthPx)
	y := int(p.Y / m.cfg.RowHeightPx)
	if y < headerRows {
		y = headerRows
	}
	return label, x, y, true
}

func (m *Model) downloadHovered() tea.Cmd {
	s := m.hover.State()
	if !s.Hovering() {
		m.setStatus("Hover a photo to download it", false)
		return nil
	}
	if m.pool == nil {
		m.setStatus("Downloads are disabled", true)
		return nil
	}
	photo, ok := m.photo(s.HoveredPhotoID)
	if !ok {
		return nil
	}
	pool, job := m.pool, downloader.NewJob(photo, m.query)
	return func() tea.Msg {
		return downloadQueuedMsg{photo: photo, err: pool.Submit(job)}
	}
}

func waitForDownload(results <-chan downloader.DownloadResult) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return downloadsClosedMsg{}
		}
		return downloadMsg{result: r}
	}
}
