package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const progressBarWidth = 30

// Progress renders a single-line progress bar for a batch of maps.
type Progress struct {
	startTime time.Time
	output    io.Writer
	tally     Tally
	mu        sync.RWMutex
	enabled   bool
}

// NewProgress creates a tracker for total maps. A disabled tracker still
// counts but never prints.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		tally:     Tally{Total: total},
		startTime: time.Now(),
		output:    os.Stderr,
		enabled:   enabled,
	}
}

// Update records pool progress and redraws the bar when enabled.
func (p *Progress) Update(t Tally) {
	p.mu.Lock()
	p.tally = t
	p.mu.Unlock()

	if p.enabled {
		p.Print()
	}
}

// Callback returns a ProgressFunc suitable for use with Pool.Config.
func (p *Progress) Callback() ProgressFunc {
	return p.Update
}

func (p *Progress) snapshot() (Tally, time.Duration) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tally, time.Since(p.startTime)
}

// Print redraws the progress line in place.
func (p *Progress) Print() {
	t, elapsed := p.snapshot()
	rate := mapsPerSecond(t.Done, elapsed)

	filled := 0
	if t.Total > 0 {
		filled = t.Done * progressBarWidth / t.Total
	}

	var b strings.Builder
	b.WriteString("\r[")
	b.WriteString(strings.Repeat("█", filled))
	b.WriteString(strings.Repeat("░", progressBarWidth-filled))
	fmt.Fprintf(&b, "] %d/%d maps", t.Done, t.Total)
	if t.Failed > 0 || t.Cancelled > 0 {
		fmt.Fprintf(&b, " (%s)", problems(t))
	}
	fmt.Fprintf(&b, " - %.1f maps/sec", rate)

	switch {
	case t.Done == t.Total:
		fmt.Fprintf(&b, " - Done in %s", formatDuration(elapsed))
	case rate > 0:
		eta := time.Duration(float64(t.Total-t.Done)/rate) * time.Second
		if eta > 0 {
			fmt.Fprintf(&b, " - ETA: %s", formatDuration(eta))
		}
	}

	// trailing spaces clear leftovers of a longer previous line
	b.WriteString("          ")
	fmt.Fprint(p.output, b.String())
}

// Done prints the final progress and a newline.
func (p *Progress) Done() {
	if !p.enabled {
		return
	}
	p.Print()
	fmt.Fprintln(p.output)
}

// Summary returns a one-line summary of the batch.
func (p *Progress) Summary() string {
	t, elapsed := p.snapshot()
	return fmt.Sprintf("Rendered %d/%d maps (%s) in %s (%.1f maps/sec)",
		t.Rendered(), t.Total, problems(t), formatDuration(elapsed), mapsPerSecond(t.Rendered(), elapsed))
}

func problems(t Tally) string {
	if t.Cancelled == 0 {
		return fmt.Sprintf("%d failed", t.Failed)
	}
	return fmt.Sprintf("%d failed, %d cancelled", t.Failed, t.Cancelled)
}

func mapsPerSecond(n int, elapsed time.Duration) float64 {
	if n == 0 || elapsed <= 0 {
		return 0
	}
	return float64(n) / elapsed.Seconds()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
