package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"photowall/internal/downloader"
	"photowall/pkg/columns"
	"photowall/pkg/config"
	"photowall/pkg/engine"
	"photowall/pkg/generative"
	"photowall/pkg/interaction"
	"photowall/pkg/logger"
	"photowall/pkg/models"
	"photowall/pkg/scraper"
)

// headerRows and footerRows frame the wall area.
const (
	headerRows = 1
	footerRows = 1
)

// Options configures the wall view
type Options struct {
	Config config.WallConfig
	// Searcher answers searches; nil searches the generative source
	Searcher scraper.Searcher
	// Downloads is a started pool for the d key; nil disables downloading
	Downloads *downloader.WorkerPool
	Logger    logger.Logger
}

// Model is the bubbletea model of the photo wall. Every field is owned by
// the Update goroutine.
type Model struct {
	ctx      context.Context
	cfg      config.WallConfig
	searcher scraper.Searcher
	pool     *downloader.WorkerPool
	log      logger.Logger

	wall  *engine.Wall
	hover *interaction.Coordinator

	input   textinput.Model
	spinner spinner.Model

	width  int
	height int

	// query is the query of the photos on screen
	query     string
	searchSeq uint64
	loading   bool
	ready     bool
	status    string
	isError   bool
	showHelp  bool

	// pointer is the last mouse position, in cells
	pointer *cell
}

type cell struct{ x, y int }

// NewModel creates the wall model. Searches run under ctx.
func NewModel(ctx context.Context, opts Options) *Model {
	cfg := opts.Config
	if cfg.RowHeightPx <= 0 {
		cfg.RowHeightPx = config.DefaultConfig().Wall.RowHeightPx
	}
	if cfg.CellWidthPx <= 0 {
		cfg.CellWidthPx = config.DefaultConfig().Wall.CellWidthPx
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = 16 * time.Millisecond
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	searcher := opts.Searcher
	if searcher == nil {
		searcher = scraper.NewService(generative.Source{}, scraper.WithLogger(log))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search photos"
	ti.CharLimit = 100
	ti.Width = 30

	wall := engine.NewWall(cfg.Speeds)
	wall.SetLogger(log)

	return &Model{
		ctx:      ctx,
		cfg:      cfg,
		searcher: searcher,
		pool:     opts.Downloads,
		log:      log.WithField("component", "tui"),
		wall:     wall,
		hover:    interaction.New(wall),
		input:    ti,
		spinner:  s,
	}
}

// Init loads the default photo set and starts the spinner
func (m *Model) Init() tea.Cmd {
	q := m.cfg.DefaultQuery
	cmds := []tea.Cmd{
		m.spinner.Tick,
		func() tea.Msg {
			return photosMsg{seq: 0, query: q, photos: generative.Generate(q)}
		},
	}
	if m.pool != nil {
		cmds = append(cmds, waitForDownload(m.pool.Results()))
	}
	return tea.Batch(cmds...)
}

// columnCount is the number of columns for the current terminal width
func (m *Model) columnCount() int {
	return columns.CountForCells(m.width, m.cfg.CellWidthPx)
}

// wallRows is the height of the wall area in rows
func (m *Model) wallRows() int {
	rows := m.height - headerRows - footerRows
	if rows < 0 {
		return 0
	}
	return rows
}

func (m *Model) grid() grid {
	return newGrid(m.wall.Columns(), m.width, m.cfg.CellWidthPx, m.cfg.RowHeightPx)
}

// photo looks up a photo on the wall by id
func (m *Model) photo(id string) (models.Photo, bool) {
	for _, p := range m.wall.Photos() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Photo{}, false
}

func (m *Model) setStatus(msg string, isError bool) {
	m.status = msg
	m.isError = isError
}

// Wall exposes the engine for inspection
func (m *Model) Wall() *engine.Wall { return m.wall }

// Hover returns the current hover state
func (m *Model) Hover() interaction.State { return m.hover.State() }

// Query returns the query whose photos are on screen
func (m *Model) Query() string { return m.query }

// Status returns the status bar text
func (m *Model) Status() string { return m.status }
