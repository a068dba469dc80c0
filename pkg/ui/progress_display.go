package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay prints a single updating progress line for a batch
// command. In debug mode every step is printed on its own line instead.
type ProgressDisplay struct {
	mu        sync.Mutex
	out       io.Writer
	label     string
	total     int
	done      int
	skipped   int
	errors    int
	current   string
	startTime time.Time
	isDebug   bool
	disabled  bool
}

// NewProgressDisplay creates a progress display writing to stdout
func NewProgressDisplay(label string, total int, debug bool) *ProgressDisplay {
	return NewProgressDisplayWithWriter(os.Stdout, label, total, debug)
}

// NewProgressDisplayWithWriter creates a progress display writing to w
func NewProgressDisplayWithWriter(w io.Writer, label string, total int, debug bool) *ProgressDisplay {
	outMu.Lock()
	q := quiet
	outMu.Unlock()

	return &ProgressDisplay{
		out:       w,
		label:     label,
		total:     total,
		startTime: time.Now(),
		isDebug:   debug,
		disabled:  q,
	}
}

// Step marks one unit of work done
func (p *ProgressDisplay) Step(item string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.current = item
	if p.isDebug {
		p.line("%s %s", Green("✓"), item)
		return
	}
	p.printProgress()
}

// Skip marks one unit of work that needed nothing
func (p *ProgressDisplay) Skip(item string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.skipped++
	p.current = item
	if p.isDebug {
		p.line("%s %s (cached)", Dim("•"), item)
		return
	}
	p.printProgress()
}

// Fail marks one unit of work that gave up
func (p *ProgressDisplay) Fail(item string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.errors++
	p.current = item
	if p.isDebug {
		p.line("%s Failed: %s - %v", Red("✗"), item, err)
		return
	}
	p.printProgress()
}

// Retry reports a backoff wait for item
func (p *ProgressDisplay) Retry(item string, attempt int, wait time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.line("%s %s attempt %d failed, waiting %s", Yellow("⚠"), item, attempt, formatDuration(wait))
}

// SetTotal updates the expected number of steps
func (p *ProgressDisplay) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Counts returns done, skipped and failed steps
func (p *ProgressDisplay) Counts() (done, skipped, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.skipped, p.errors
}

// Complete prints the summary line
func (p *ProgressDisplay) Complete(noun string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disabled {
		return
	}
	elapsed := time.Since(p.startTime)
	fmt.Fprintf(p.out, "\n%s %s: %d %s in %s",
		Green("✓"), p.label, p.done-p.errors, noun, formatDuration(elapsed))
	if p.skipped > 0 {
		fmt.Fprintf(p.out, " (%d cached)", p.skipped)
	}
	if p.errors > 0 {
		fmt.Fprintf(p.out, " • %s", Red(fmt.Sprintf("%d failed", p.errors)))
	}
	fmt.Fprintln(p.out)
}

func (p *ProgressDisplay) line(format string, args ...interface{}) {
	if p.disabled {
		return
	}
	fmt.Fprintf(p.out, "\n"+format, args...)
}

// printProgress prints the minimal progress line
func (p *ProgressDisplay) printProgress() {
	if p.disabled {
		return
	}

	progress := 0.0
	if p.total > 0 {
		progress = float64(p.done) / float64(p.total)
	}
	if progress > 1 {
		progress = 1
	}
	const barWidth = 20
	filled := int(progress * barWidth)
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("%s [%s] %d/%d • %s",
		Cyan(p.label), bar, p.done, p.total, p.eta())
	if p.current != "" {
		line += " • " + p.current
	}
	if p.errors > 0 {
		line += " • " + Red(fmt.Sprintf("%d errors", p.errors))
	}

	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", 100), line)
}

// eta estimates time remaining
func (p *ProgressDisplay) eta() string {
	if p.done == 0 || p.total <= p.done {
		return "--"
	}
	elapsed := time.Since(p.startTime)
	perStep := elapsed / time.Duration(p.done)
	return formatDuration(perStep * time.Duration(p.total-p.done))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// FormatBytes formats bytes in a human-readable way
func FormatBytes(bytes int64) string {
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
