package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/MeKo-Tech/noisemap/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render many noise maps in parallel",
	Long: `Render one noise map per seed (seed, seed+1, ...) with shared controls.

Each map is rendered independently with its own lattice; maps are written as
noise_<seed>.png into the output directory.`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	addNoiseFlags(batchCmd, "batch")
	addOutputFlags(batchCmd, "batch")
	batchCmd.Flags().Int("count", 8, "Number of maps to render")
	batchCmd.Flags().Int64("seed", 1337, "First seed; map i uses seed+i")
	batchCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	batchCmd.Flags().String("output-dir", "./maps", "Output directory for rendered maps")
	batchCmd.Flags().Bool("progress", true, "Show progress bar during batch rendering")
	batchCmd.Flags().Bool("allow-failures", false, "Exit successfully even if some maps fail")

	bindFlags(batchCmd, "batch", []flagBinding{
		{"count", "count"},
		{"seed", "seed"},
		{"workers", "workers"},
		{"output_dir", "output-dir"},
		{"progress", "progress"},
		{"allow_failures", "allow-failures"},
	})
}

func runBatch(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	params, err := noiseParamsFromConfig("batch")
	if err != nil {
		return err
	}
	width, height, opts, compression, err := canvasFromConfig("batch")
	if err != nil {
		return err
	}

	count := viper.GetInt("batch.count")
	seed := viper.GetInt64("batch.seed")
	workers := viper.GetInt("batch.workers")
	outputDir := viper.GetString("batch.output_dir")
	showProgress := viper.GetBool("batch.progress")
	allowFailures := viper.GetBool("batch.allow_failures")

	if count <= 0 {
		return fmt.Errorf("count must be positive")
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tasks := worker.SeedTasks(outputDir, seed, count)

	logger.Info("Starting batch render",
		"count", count,
		"first_seed", seed,
		"workers", workers,
		"output_dir", outputDir,
		"width", width,
		"height", height,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	progress := worker.NewProgress(len(tasks), showProgress)
	pool := worker.New(worker.Config{
		Workers: workers,
		Generator: &worker.MapGenerator{
			Params:         params,
			Width:          width,
			Height:         height,
			Output:         opts,
			PNGCompression: compression,
		},
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	failedCount := 0
	for _, r := range results {
		switch {
		case r.Err == nil:
		case r.Cancelled():
			failedCount++
			logger.Debug("Map skipped", "seed", r.Task.Seed, "path", r.Task.Path)
		default:
			failedCount++
			logger.Error("Map render failed", "seed", r.Task.Seed, "path", r.Task.Path, "error", r.Err)
		}
	}

	logger.Info(progress.Summary())

	if failedCount > 0 {
		if allowFailures {
			logger.Warn("Some maps were not rendered, but continuing due to --allow-failures flag", "failed_count", failedCount)
			return nil
		}
		return fmt.Errorf("%d of %d maps were not rendered", failedCount, len(tasks))
	}
	return nil
}
