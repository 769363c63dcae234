package worker

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/MeKo-Tech/noisemap/internal/noise"
	"github.com/MeKo-Tech/noisemap/internal/output"
	"github.com/MeKo-Tech/noisemap/internal/render"
)

// MapGenerator renders a noise field per task seed and writes it as PNG.
type MapGenerator struct {
	Params         noise.Params
	Width          int
	Height         int
	Output         output.Options
	PNGCompression string
}

// Generate renders the task's map. The context is only checked before the
// render starts; a started render always runs to completion.
func (g *MapGenerator) Generate(ctx context.Context, task Task) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	surface := render.NewImageSurface(g.Width, g.Height)
	render.Field(g.Params, g.Width, g.Height, rand.New(rand.NewSource(task.Seed)), surface)

	img, err := output.Apply(surface.Image(), g.Output)
	if err != nil {
		return "", fmt.Errorf("seed %d: %w", task.Seed, err)
	}
	if err := output.WritePNG(task.Path, img, g.PNGCompression); err != nil {
		return "", fmt.Errorf("seed %d: %w", task.Seed, err)
	}
	return task.Path, nil
}

// SeedTasks returns count tasks with consecutive seeds starting at firstSeed,
// each writing noise_<seed>.png into dir.
func SeedTasks(dir string, firstSeed int64, count int) []Task {
	tasks := make([]Task, count)
	for i := range tasks {
		seed := firstSeed + int64(i)
		tasks[i] = Task{
			Seed: seed,
			Path: filepath.Join(dir, fmt.Sprintf("noise_%d.png", seed)),
		}
	}
	return tasks
}
