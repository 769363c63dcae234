package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MeKo-Tech/noisemap/assets"
	"github.com/MeKo-Tech/noisemap/internal/noise"
	"github.com/MeKo-Tech/noisemap/internal/render"
	"github.com/MeKo-Tech/noisemap/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve noise maps over HTTP",
	Long: `Serve rendered noise maps over HTTP.

GET /render.png renders the shared settings, overridden by query parameters
(grid, fade, randomness, start, end, invert, seed, width, height).
GET/POST /settings reads or updates the shared settings.
GET /status reports renderer activity.
GET / serves a demo page with the controls.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	addNoiseFlags(serveCmd, "serve")
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().Int("width", 256, "Default canvas width in pixels")
	serveCmd.Flags().Int("height", 256, "Default canvas height in pixels")
	serveCmd.Flags().Int("max-width", 2048, "Largest canvas width a request may ask for")
	serveCmd.Flags().Int("max-height", 2048, "Largest canvas height a request may ask for")
	serveCmd.Flags().String("busy-policy", server.BusyQueue, "What to do with a request while a render runs (queue, drop)")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served maps")
	serveCmd.Flags().String("png-compression", "speed", "PNG compression (default, speed, best, none)")

	bindFlags(serveCmd, "serve", []flagBinding{
		{"addr", "addr"},
		{"width", "width"},
		{"height", "height"},
		{"max_width", "max-width"},
		{"max_height", "max-height"},
		{"busy_policy", "busy-policy"},
		{"cache_control", "cache-control"},
		{"png_compression", "png-compression"},
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	params, err := noiseParamsFromConfig("serve")
	if err != nil {
		return err
	}

	addr := viper.GetString("serve.addr")
	cfg, err := serveConfigFromViper()
	if err != nil {
		return err
	}

	renderer := render.NewRenderer(noise.NewSettings(params), logger)
	nm, err := server.NewNoiseMap(renderer, cfg, logger)
	if err != nil {
		return err
	}
	nm.WarmUp()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/", http.FileServer(http.FS(assets.DemoFS())))
	mux.Handle("/render.png", withCORS(nm.Handler()))
	mux.Handle("/settings", withCORS(nm.SettingsHandler()))
	mux.Handle("/status", withCORS(nm.StatusHandler()))

	logger.Info("noise map server listening",
		"addr", addr,
		"busy_policy", cfg.BusyPolicy,
		"grid_size", params.GridSize,
		"fade", params.FadeCoefficient,
		"randomness", params.RandomVectorCount,
	)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// serveConfigFromViper reads the server section. Canvas sizes must be
// positive.
func serveConfigFromViper() (server.NoiseMapConfig, error) {
	cfg := server.NoiseMapConfig{
		DefaultWidth:   viper.GetInt("serve.width"),
		DefaultHeight:  viper.GetInt("serve.height"),
		MaxWidth:       viper.GetInt("serve.max_width"),
		MaxHeight:      viper.GetInt("serve.max_height"),
		BusyPolicy:     viper.GetString("serve.busy_policy"),
		CacheControl:   viper.GetString("serve.cache_control"),
		PNGCompression: viper.GetString("serve.png_compression"),
	}
	if cfg.DefaultWidth <= 0 || cfg.DefaultHeight <= 0 {
		return cfg, fmt.Errorf("serve width and height must be positive, got %dx%d", cfg.DefaultWidth, cfg.DefaultHeight)
	}
	if cfg.MaxWidth <= 0 || cfg.MaxHeight <= 0 {
		return cfg, fmt.Errorf("serve max width and height must be positive, got %dx%d", cfg.MaxWidth, cfg.MaxHeight)
	}
	return cfg, nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
