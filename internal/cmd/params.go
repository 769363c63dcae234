package cmd

import (
	"fmt"
	"time"

	"github.com/MeKo-Tech/noisemap/internal/noise"
	"github.com/MeKo-Tech/noisemap/internal/output"
	"github.com/MeKo-Tech/noisemap/internal/palette"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// addNoiseFlags registers the noise field controls on cmd and binds them
// under section (e.g. "render.grid_size").
func addNoiseFlags(cmd *cobra.Command, section string) {
	def := noise.DefaultParams()

	cmd.Flags().Int("grid-size", def.GridSize, "Lattice cell size in pixels (larger = bigger, smoother blobs)")
	cmd.Flags().Float64("fade", def.FadeCoefficient, "Leading fade coefficient (6 = classic smooth curve)")
	cmd.Flags().Int("randomness", def.RandomVectorCount, "Extra random gradient candidates (higher = rougher)")
	cmd.Flags().String("start-color", def.StartColor.Hex(), "Gradient start color (#RRGGBB)")
	cmd.Flags().String("end-color", def.EndColor.Hex(), "Gradient end color (#RRGGBB)")
	cmd.Flags().Bool("invert", def.Inverted, "Invert the painted colors")

	bindFlags(cmd, section, []flagBinding{
		{"grid_size", "grid-size"},
		{"fade", "fade"},
		{"randomness", "randomness"},
		{"start_color", "start-color"},
		{"end_color", "end-color"},
		{"invert", "invert"},
	})
}

// addOutputFlags registers presentation flags shared by render and batch.
func addOutputFlags(cmd *cobra.Command, section string) {
	cmd.Flags().Int("width", 256, "Canvas width in pixels")
	cmd.Flags().Int("height", 256, "Canvas height in pixels")
	cmd.Flags().Int("scale", 1, "Integer upscale factor applied after rendering")
	cmd.Flags().String("resample", "nearest", "Upscale kernel (nearest, bilinear, catmullrom)")
	cmd.Flags().Float32("blur", 0, "Gaussian blur sigma applied after scaling (0 = off)")
	cmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	bindFlags(cmd, section, []flagBinding{
		{"width", "width"},
		{"height", "height"},
		{"scale", "scale"},
		{"resample", "resample"},
		{"blur", "blur"},
		{"png_compression", "png-compression"},
	})
}

type flagBinding struct {
	key  string
	flag string
}

func bindFlags(cmd *cobra.Command, section string, bindings []flagBinding) {
	for _, bf := range bindings {
		if err := viper.BindPFlag(section+"."+bf.key, cmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// noiseParamsFromConfig reads and validates the noise controls of section.
func noiseParamsFromConfig(section string) (noise.Params, error) {
	start, err := palette.ParseHex(viper.GetString(section + ".start_color"))
	if err != nil {
		return noise.Params{}, fmt.Errorf("start color: %w", err)
	}
	end, err := palette.ParseHex(viper.GetString(section + ".end_color"))
	if err != nil {
		return noise.Params{}, fmt.Errorf("end color: %w", err)
	}

	p := noise.Params{
		GridSize:          viper.GetInt(section + ".grid_size"),
		FadeCoefficient:   viper.GetFloat64(section + ".fade"),
		RandomVectorCount: viper.GetInt(section + ".randomness"),
		StartColor:        start,
		EndColor:          end,
		Inverted:          viper.GetBool(section + ".invert"),
	}
	if err := p.Validate(); err != nil {
		return noise.Params{}, err
	}
	return p, nil
}

// canvasFromConfig reads the canvas size and presentation options of section.
func canvasFromConfig(section string) (width, height int, opts output.Options, compression string, err error) {
	width = viper.GetInt(section + ".width")
	height = viper.GetInt(section + ".height")
	if width <= 0 || height <= 0 {
		return 0, 0, opts, "", fmt.Errorf("width and height must be positive")
	}

	opts = output.Options{
		Scale:     viper.GetInt(section + ".scale"),
		Resample:  viper.GetString(section + ".resample"),
		BlurSigma: float32(viper.GetFloat64(section + ".blur")),
	}
	if err := opts.Validate(); err != nil {
		return 0, 0, opts, "", err
	}

	compression = viper.GetString(section + ".png_compression")
	if _, err := output.ParsePNGCompression(compression); err != nil {
		return 0, 0, opts, "", err
	}
	return width, height, opts, compression, nil
}

// resolveSeed returns seed, or a clock-derived seed when it is zero.
func resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}
