package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const barWidth = 20

// ProgressDisplay prints a single, rewritten line while a batch of HD
// downloads runs.
type ProgressDisplay struct {
	mu        sync.Mutex
	query     string
	total     int
	done      int
	skipped   int
	failed    int
	bytes     int64
	current   string
	verbose   bool
	startTime time.Time
	now       func() time.Time
}

// NewProgressDisplay creates a display for total downloads of query.
// Verbose prints one line per photo instead of the progress bar.
func NewProgressDisplay(query string, total int, verbose bool) *ProgressDisplay {
	return &ProgressDisplay{
		query:     query,
		total:     total,
		verbose:   verbose,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// CompleteDownload records a saved photo
func (p *ProgressDisplay) CompleteDownload(title string, size int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.bytes += size
	p.current = title
	if p.verbose {
		printf(false, "%s %s • %s\n", Green("✓"), title, formatBytes(size))
		return
	}
	p.printProgress()
}

// SkipDownload records a photo that was already on disk
func (p *ProgressDisplay) SkipDownload(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.skipped++
	p.current = title
	if p.verbose {
		printf(false, "%s %s %s\n", Dim("="), title, Dim("(already downloaded)"))
		return
	}
	p.printProgress()
}

// FailDownload records a failed photo
func (p *ProgressDisplay) FailDownload(title string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failed++
	if p.verbose {
		printf(true, "%s %s - %v\n", Red("✗"), title, err)
		return
	}
	p.printProgress()
}

// Line renders the current progress line without printing it
func (p *ProgressDisplay) Line() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.line()
}

func (p *ProgressDisplay) line() string {
	finished := p.done + p.skipped + p.failed
	filled := 0
	if p.total > 0 {
		filled = finished * barWidth / p.total
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("%s [%s] %d/%d • %s", Cyan(p.query), bar, finished, p.total, formatBytes(p.bytes))
	if p.skipped > 0 {
		line += fmt.Sprintf(" • %d skipped", p.skipped)
	}
	if p.failed > 0 {
		line += " • " + Red(fmt.Sprintf("%d errors", p.failed))
	}
	if p.current != "" {
		line += " • " + p.current
	}
	return line
}

func (p *ProgressDisplay) printProgress() {
	printf(false, "\r%s\r%s", strings.Repeat(" ", 100), p.line())
}

// Complete prints the summary
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := p.now().Sub(p.startTime)
	if !p.verbose {
		printf(false, "\n")
	}
	printf(false, "\n%s Downloaded %d photos for %q\n", Green("✓"), p.done, p.query)
	printf(false, "  %s %s in %s\n", Dim("•"), formatBytes(p.bytes), formatDuration(elapsed))
	if p.skipped > 0 {
		printf(false, "  %s %d already downloaded\n", Dim("•"), p.skipped)
	}
	if p.failed > 0 {
		printf(false, "  %s %d downloads failed\n", Dim("•"), p.failed)
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// formatBytes formats bytes in a human-readable way
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
