package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MeKo-Tech/noisemap/internal/noise"
	"github.com/MeKo-Tech/noisemap/internal/output"
	"github.com/MeKo-Tech/noisemap/internal/palette"
	"github.com/MeKo-Tech/noisemap/internal/render"
)

const (
	BusyQueue = "queue"
	BusyDrop  = "drop"
)

type NoiseMapConfig struct {
	CacheControl   string
	PNGCompression string
	// BusyPolicy decides what happens to a request arriving while another
	// render runs: "queue" waits for it, "drop" answers 503.
	BusyPolicy    string
	DefaultWidth  int
	DefaultHeight int
	MaxWidth      int
	MaxHeight     int
}

type NoiseMap struct {
	renderer *render.Renderer
	logger   *slog.Logger
	cfg      NoiseMapConfig
}

// SettingsResponse is the JSON form of the shared parameters.
type SettingsResponse struct {
	StartColor        string  `json:"start_color"`
	EndColor          string  `json:"end_color"`
	FadeCoefficient   float64 `json:"fade"`
	GridSize          int     `json:"grid_size"`
	RandomVectorCount int     `json:"randomness"`
	Inverted          bool    `json:"invert"`
}

// StatusResponse reports renderer activity.
type StatusResponse struct {
	Render     render.Stats `json:"render"`
	BusyPolicy string       `json:"busy_policy"`
}

func NewNoiseMap(renderer *render.Renderer, cfg NoiseMapConfig, logger *slog.Logger) (*NoiseMap, error) {
	if cfg.DefaultWidth <= 0 {
		cfg.DefaultWidth = 256
	}
	if cfg.DefaultHeight <= 0 {
		cfg.DefaultHeight = 256
	}
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = 2048
	}
	if cfg.MaxHeight <= 0 {
		cfg.MaxHeight = 2048
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}
	if cfg.BusyPolicy == "" {
		cfg.BusyPolicy = BusyQueue
	}
	if cfg.BusyPolicy != BusyQueue && cfg.BusyPolicy != BusyDrop {
		return nil, fmt.Errorf("invalid busy policy %q: must be %q or %q", cfg.BusyPolicy, BusyQueue, BusyDrop)
	}
	if cfg.DefaultWidth > cfg.MaxWidth || cfg.DefaultHeight > cfg.MaxHeight {
		return nil, fmt.Errorf("default size %dx%d exceeds limit %dx%d",
			cfg.DefaultWidth, cfg.DefaultHeight, cfg.MaxWidth, cfg.MaxHeight)
	}
	if _, err := output.ParsePNGCompression(cfg.PNGCompression); err != nil {
		return nil, err
	}

	return &NoiseMap{renderer: renderer, cfg: cfg, logger: logger}, nil
}

// Config returns the configuration with defaults applied.
func (n *NoiseMap) Config() NoiseMapConfig {
	return n.cfg
}

// WarmUp renders one map of the default size from the shared settings.
func (n *NoiseMap) WarmUp() image.Rectangle {
	start := time.Now()
	img := n.renderer.Render(n.cfg.DefaultWidth, n.cfg.DefaultHeight, time.Now().UnixNano())
	n.log().Info("startup render complete",
		"width", n.cfg.DefaultWidth,
		"height", n.cfg.DefaultHeight,
		"elapsed", time.Since(start),
	)
	return img.Bounds()
}

func (n *NoiseMap) log() *slog.Logger {
	if n.logger != nil {
		return n.logger
	}
	return slog.Default()
}

// Handler serves GET /render.png. Query parameters override the shared
// settings for this request only.
func (n *NoiseMap) Handler() http.Handler {
	return http.HandlerFunc(n.serveRender)
}

func (n *NoiseMap) serveRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	params, err := ParseParams(n.renderer.Settings().Snapshot(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	width, height, err := n.parseSize(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	seed, err := parseSeed(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	var img *image.NRGBA
	if n.cfg.BusyPolicy == BusyDrop {
		var ok bool
		img, ok = n.renderer.TryRenderParams(params, width, height, seed)
		if !ok {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "render in progress", http.StatusServiceUnavailable)
			return
		}
	} else {
		img = n.renderer.RenderParams(params, width, height, seed)
	}

	var buf bytes.Buffer
	if err := output.EncodePNG(&buf, img, n.cfg.PNGCompression); err != nil {
		n.log().Error("failed to encode noise map", "error", err)
		http.Error(w, "failed to encode image", http.StatusInternalServerError)
		return
	}

	n.log().Info("noise map rendered",
		"width", width,
		"height", height,
		"seed", seed,
		"ms", time.Since(start).Milliseconds(),
	)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", n.cfg.CacheControl)
	w.Header().Set("X-Noise-Seed", strconv.FormatInt(seed, 10))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// SettingsHandler reads (GET) or updates (POST form) the shared settings
// the way the page controls do.
func (n *NoiseMap) SettingsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := n.applySettings(r.PostForm); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, n.log(), settingsResponse(n.renderer.Settings().Snapshot()))
	})
}

// StatusHandler returns an HTTP handler for the status endpoint (JSON).
func (n *NoiseMap) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, n.log(), StatusResponse{
			Render:     n.renderer.Stats(),
			BusyPolicy: n.cfg.BusyPolicy,
		})
	})
}

// applySettings overlays the form onto the current settings and commits the
// result in one step, so a concurrent render sees either the old or the new
// parameter set.
func (n *NoiseMap) applySettings(form url.Values) error {
	next, err := n.renderer.Settings().Update(func(cur noise.Params) (noise.Params, error) {
		return ParseParams(cur, form)
	})
	if err != nil {
		return err
	}
	n.log().Info("settings updated",
		"grid_size", next.GridSize,
		"fade", next.FadeCoefficient,
		"randomness", next.RandomVectorCount,
		"start", next.StartColor.Hex(),
		"end", next.EndColor.Hex(),
		"invert", next.Inverted,
	)
	return nil
}

// ParseParams overlays the noise parameters present in q onto base and
// validates the result. Recognized keys: grid, fade, randomness, start, end,
// invert.
func ParseParams(base noise.Params, q url.Values) (noise.Params, error) {
	p := base

	if v := q.Get("grid"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid grid %q: %w", v, err)
		}
		p.GridSize = n
	}
	if v := q.Get("fade"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("invalid fade %q: %w", v, err)
		}
		p.FadeCoefficient = f
	}
	if v := q.Get("randomness"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("invalid randomness %q: %w", v, err)
		}
		p.RandomVectorCount = n
	}
	if v := q.Get("start"); v != "" {
		c, err := palette.ParseHex(v)
		if err != nil {
			return p, err
		}
		p.StartColor = c
	}
	if v := q.Get("end"); v != "" {
		c, err := palette.ParseHex(v)
		if err != nil {
			return p, err
		}
		p.EndColor = c
	}
	if v := q.Get("invert"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, fmt.Errorf("invalid invert %q: %w", v, err)
		}
		p.Inverted = b
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (n *NoiseMap) parseSize(q url.Values) (int, int, error) {
	width, err := intParam(q, "width", n.cfg.DefaultWidth)
	if err != nil {
		return 0, 0, err
	}
	height, err := intParam(q, "height", n.cfg.DefaultHeight)
	if err != nil {
		return 0, 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("width and height must be positive")
	}
	if width > n.cfg.MaxWidth || height > n.cfg.MaxHeight {
		return 0, 0, fmt.Errorf("size %dx%d exceeds limit %dx%d", width, height, n.cfg.MaxWidth, n.cfg.MaxHeight)
	}
	return width, height, nil
}

func parseSeed(q url.Values) (int64, error) {
	v := q.Get("seed")
	if v == "" {
		return time.Now().UnixNano(), nil
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", v, err)
	}
	return seed, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func settingsResponse(p noise.Params) SettingsResponse {
	return SettingsResponse{
		GridSize:          p.GridSize,
		FadeCoefficient:   p.FadeCoefficient,
		RandomVectorCount: p.RandomVectorCount,
		StartColor:        p.StartColor.Hex(),
		EndColor:          p.EndColor.Hex(),
		Inverted:          p.Inverted,
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
