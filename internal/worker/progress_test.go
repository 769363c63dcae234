package worker

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestProgress(total int, enabled bool, elapsed time.Duration) (*Progress, *bytes.Buffer) {
	var buf bytes.Buffer
	p := NewProgress(total, enabled)
	p.output = &buf
	p.startTime = time.Now().Add(-elapsed)
	return p, &buf
}

func TestProgress_PrintMidBatch(t *testing.T) {
	p, buf := newTestProgress(10, true, 10*time.Second)

	p.Update(Tally{Done: 5, Total: 10, Failed: 1})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\r["), out)
	assert.Contains(t, out, strings.Repeat("█", 15)+strings.Repeat("░", 15))
	assert.Contains(t, out, "5/10 maps (1 failed)")
	assert.Contains(t, out, "0.5 maps/sec")
	assert.Contains(t, out, "ETA: 10s")
}

func TestProgress_PrintShowsCancelled(t *testing.T) {
	p, buf := newTestProgress(8, true, time.Second)

	p.Update(Tally{Done: 8, Total: 8, Cancelled: 6})

	assert.Contains(t, buf.String(), "8/8 maps (0 failed, 6 cancelled)")
	assert.Contains(t, buf.String(), "Done in")
}

func TestProgress_Done(t *testing.T) {
	p, buf := newTestProgress(3, true, 3*time.Second)
	p.Update(Tally{Done: 3, Total: 3})
	buf.Reset()

	p.Done()

	assert.Contains(t, buf.String(), "Done in 3s")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestProgress_Summary(t *testing.T) {
	tests := []struct {
		name  string
		tally Tally
		want  string
	}{
		{
			name:  "all rendered",
			tally: Tally{Done: 10, Total: 10},
			want:  "Rendered 10/10 maps (0 failed) in 10s (1.0 maps/sec)",
		},
		{
			name:  "failures",
			tally: Tally{Done: 10, Total: 10, Failed: 2},
			want:  "Rendered 8/10 maps (2 failed) in 10s (0.8 maps/sec)",
		},
		{
			name:  "interrupted",
			tally: Tally{Done: 10, Total: 10, Failed: 1, Cancelled: 4},
			want:  "Rendered 5/10 maps (1 failed, 4 cancelled) in 10s (0.5 maps/sec)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestProgress(tt.tally.Total, false, 10*time.Second)
			p.Update(tt.tally)
			assert.Equal(t, tt.want, p.Summary())
		})
	}
}

func TestProgress_DisabledStaysQuiet(t *testing.T) {
	p, buf := newTestProgress(10, false, time.Second)

	p.Callback()(Tally{Done: 5, Total: 10})
	p.Done()

	assert.Zero(t, buf.Len())
	tally, _ := p.snapshot()
	assert.Equal(t, 5, tally.Done)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		expected string
		duration time.Duration
	}{
		{duration: 30 * time.Second, expected: "30s"},
		{duration: 90 * time.Second, expected: "1m30s"},
		{duration: 65 * time.Minute, expected: "1h5m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}
