//go:build js && wasm
// +build js,wasm

package main

import (
	"fmt"
	"strconv"
	"syscall/js"
	"time"

	"github.com/MeKo-Tech/noisemap/internal/noise"
	"github.com/MeKo-Tech/noisemap/internal/render"
)

// The page keeps one settings store; control callbacks write into it and
// the page decides when to repaint.
var (
	settings = noise.NewSettings(noise.DefaultParams())
	renderer = render.NewRenderer(settings, nil)
)

func setGridSize(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing grid size")
	}
	n, err := intArg(args[0])
	if err != nil {
		return errorResult(err.Error())
	}
	settings.SetGridSize(n)
	return nil
}

func setFadedness(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing fade coefficient")
	}
	f, err := floatArg(args[0])
	if err != nil {
		return errorResult(err.Error())
	}
	settings.SetFadeCoefficient(f)
	return nil
}

func setRandomness(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing randomness")
	}
	n, err := intArg(args[0])
	if err != nil {
		return errorResult(err.Error())
	}
	settings.SetRandomVectorCount(n)
	return nil
}

func setColors(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("expected start and end colors")
	}
	if err := settings.SetColors(args[0].String(), args[1].String()); err != nil {
		return errorResult(err.Error())
	}
	return nil
}

func setInverted(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing inverted flag")
	}
	settings.SetInverted(args[0].Truthy())
	return nil
}

// renderNoise renders the current settings and returns RGBA bytes as a
// Uint8ClampedArray, ready for new ImageData(buf, width, height).
func renderNoise(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("expected width and height")
	}
	width, height := args[0].Int(), args[1].Int()
	if width <= 0 || height <= 0 {
		return errorResult("width and height must be positive")
	}
	if err := settings.Snapshot().Validate(); err != nil {
		return errorResult(err.Error())
	}

	seed := time.Now().UnixNano()
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		seed = int64(args[2].Int())
	}

	img := renderer.Render(width, height, seed)

	buf := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(buf, img.Pix)
	return buf
}

// Control values arrive either as numbers or as the raw input.value string.
func floatArg(v js.Value) (float64, error) {
	if v.Type() == js.TypeString {
		return strconv.ParseFloat(v.String(), 64)
	}
	return v.Float(), nil
}

func intArg(v js.Value) (int, error) {
	if v.Type() == js.TypeString {
		return strconv.Atoi(v.String())
	}
	return v.Int(), nil
}

func errorResult(msg string) map[string]interface{} {
	return map[string]interface{}{"error": msg}
}

// initNoise reports the defaults so the page can sync its controls. Given a
// width and height it also paints the first map, returned as "pixels".
func initNoise(this js.Value, args []js.Value) interface{} {
	p := settings.Snapshot()
	result := map[string]interface{}{
		"status":     "ready",
		"gridSize":   p.GridSize,
		"fadedness":  p.FadeCoefficient,
		"randomness": p.RandomVectorCount,
		"startColor": p.StartColor.Hex(),
		"endColor":   p.EndColor.Hex(),
		"inverted":   p.Inverted,
	}
	if len(args) >= 2 {
		result["pixels"] = renderNoise(this, args[:2])
	}
	fmt.Println("NoiseMap WASM module initialized")
	return result
}

func main() {
	c := make(chan struct{})

	js.Global().Set("noisemapSetGridSize", js.FuncOf(setGridSize))
	js.Global().Set("noisemapSetFadedness", js.FuncOf(setFadedness))
	js.Global().Set("noisemapSetRandomness", js.FuncOf(setRandomness))
	js.Global().Set("noisemapSetColors", js.FuncOf(setColors))
	js.Global().Set("noisemapSetInverted", js.FuncOf(setInverted))
	js.Global().Set("noisemapRender", js.FuncOf(renderNoise))
	js.Global().Set("noisemapInit", js.FuncOf(initNoise))

	fmt.Println("NoiseMap WASM module loaded")
	<-c
}
