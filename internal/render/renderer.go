package render

import (
	"image"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MeKo-Tech/noisemap/internal/noise"
)

// Renderer serializes renders that read from a shared Settings store.
// Render queues behind an in-flight render; TryRender drops the request.
type Renderer struct {
	settings *noise.Settings
	logger   *slog.Logger
	mu       sync.Mutex

	busy     atomic.Bool
	rendered atomic.Int64
	dropped  atomic.Int64
}

// Stats reports the renderer counters.
type Stats struct {
	Busy     bool  `json:"busy"`
	Rendered int64 `json:"rendered"`
	Dropped  int64 `json:"dropped"`
}

// NewRenderer creates a renderer over settings. A nil logger uses slog.Default.
func NewRenderer(settings *noise.Settings, logger *slog.Logger) *Renderer {
	return &Renderer{settings: settings, logger: logger}
}

func (r *Renderer) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

// Settings returns the store the renderer snapshots from.
func (r *Renderer) Settings() *noise.Settings {
	return r.settings
}

// Render waits for any in-flight render, then renders the current settings
// into a new image.
func (r *Renderer) Render(width, height int, seed int64) *image.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderLocked(r.settings.Snapshot(), width, height, seed)
}

// RenderParams is Render with an explicit parameter set instead of the
// shared settings.
func (r *Renderer) RenderParams(p noise.Params, width, height int, seed int64) *image.NRGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.renderLocked(p, width, height, seed)
}

// TryRender renders only if no other render is in flight. It reports false
// and returns nil when the request was dropped.
func (r *Renderer) TryRender(width, height int, seed int64) (*image.NRGBA, bool) {
	return r.TryRenderParams(r.settings.Snapshot(), width, height, seed)
}

// TryRenderParams is TryRender with an explicit parameter set.
func (r *Renderer) TryRenderParams(p noise.Params, width, height int, seed int64) (*image.NRGBA, bool) {
	if !r.mu.TryLock() {
		r.dropped.Add(1)
		r.log().Debug("render dropped, another render in progress")
		return nil, false
	}
	defer r.mu.Unlock()
	return r.renderLocked(p, width, height, seed), true
}

// Stats returns a snapshot of the renderer counters.
func (r *Renderer) Stats() Stats {
	return Stats{
		Busy:     r.busy.Load(),
		Rendered: r.rendered.Load(),
		Dropped:  r.dropped.Load(),
	}
}

func (r *Renderer) renderLocked(p noise.Params, width, height int, seed int64) *image.NRGBA {
	r.busy.Store(true)
	defer r.busy.Store(false)

	start := time.Now()
	surface := NewImageSurface(width, height)
	Field(p, width, height, rand.New(rand.NewSource(seed)), surface)
	r.rendered.Add(1)

	r.log().Debug("rendered noise field",
		"width", width,
		"height", height,
		"seed", seed,
		"grid_size", p.GridSize,
		"fade", p.FadeCoefficient,
		"randomness", p.RandomVectorCount,
		"inverted", p.Inverted,
		"elapsed", time.Since(start),
	)
	return surface.Image()
}
