package worker

import (
	"context"
	"image/png"
	"os"
	"testing"

	"github.com/MeKo-Tech/noisemap/internal/noise"
	"github.com/MeKo-Tech/noisemap/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapGenerator_WritesEverySeed(t *testing.T) {
	dir := t.TempDir()
	gen := &MapGenerator{
		Params: noise.DefaultParams(),
		Width:  30,
		Height: 20,
		Output: output.Options{Scale: 2},
	}

	pool := New(Config{Workers: 3, Generator: gen})
	results := pool.Run(context.Background(), SeedTasks(dir, 10, 5))
	require.Len(t, results, 5)

	for _, r := range results {
		require.NoError(t, r.Err)

		f, err := os.Open(r.Path)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(f)
		f.Close()
		require.NoError(t, err)

		assert.Equal(t, 60, cfg.Width)
		assert.Equal(t, 40, cfg.Height)
	}
}

func TestMapGenerator_SameSeedSameBytes(t *testing.T) {
	dir := t.TempDir()
	gen := &MapGenerator{Params: noise.DefaultParams(), Width: 24, Height: 24}

	a, err := gen.Generate(context.Background(), Task{Seed: 3, Path: dir + "/a.png"})
	require.NoError(t, err)
	b, err := gen.Generate(context.Background(), Task{Seed: 3, Path: dir + "/b.png"})
	require.NoError(t, err)

	da, err := os.ReadFile(a)
	require.NoError(t, err)
	db, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
}

func TestMapGenerator_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &MapGenerator{Params: noise.DefaultParams(), Width: 8, Height: 8}
	_, err := gen.Generate(ctx, Task{Seed: 1, Path: t.TempDir() + "/x.png"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapGenerator_BadOptions(t *testing.T) {
	gen := &MapGenerator{
		Params:         noise.DefaultParams(),
		Width:          8,
		Height:         8,
		PNGCompression: "ultra",
	}
	_, err := gen.Generate(context.Background(), Task{Seed: 1, Path: t.TempDir() + "/x.png"})
	assert.Error(t, err)
}
