package engine

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/core"
)

func newTestEngine(t *testing.T) *Engine {
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(logger)
}

func filter(t *testing.T, name string) catalog.Filter {
	f, ok := catalog.Default().Get(name)
	require.True(t, ok, name)
	return f
}

func solid(w, h int, c color.RGBA) core.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return core.FromImage(img)
}

func TestGenerateConstantColorIsInfinite(t *testing.T) {
	e := newTestEngine(t)

	img, err := e.Generate(context.Background(), filter(t, "ConstantColor"), map[string]interface{}{
		"color": []float64{0, 1, 0, 1},
	})
	require.NoError(t, err)
	assert.True(t, img.Extent().Infinite)

	_, err = img.Render()
	assert.Error(t, err)

	cropped, err := img.Crop(image.Rect(0, 0, 20, 10))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), cropped.Extent().Bounds)

	out, err := cropped.Render()
	require.NoError(t, err)
	r, g, b, _ := out.At(5, 5).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(255), g>>8)
	assert.Equal(t, uint32(0), b>>8)
}

func TestGenerateColorInvert(t *testing.T) {
	e := newTestEngine(t)

	img, err := e.Generate(context.Background(), filter(t, "ColorInvert"), map[string]interface{}{
		inputImage: solid(8, 4, color.RGBA{R: 255, G: 0, B: 10, A: 255}),
	})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 4), img.Extent().Bounds)

	out, err := img.Render()
	require.NoError(t, err)
	r, g, b, _ := out.At(1, 1).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(255), g>>8)
	assert.Equal(t, uint32(245), b>>8)
}

func TestGenerateErrors(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name   string
		filter catalog.Filter
		values map[string]interface{}
	}{
		{
			name:   "unknown_filter",
			filter: catalog.Filter{Name: "Nope"},
		},
		{
			name:   "missing_input",
			filter: filter(t, "Sepia"),
			values: map[string]interface{}{"intensity": 0.5},
		},
		{
			name:   "out_of_range",
			filter: filter(t, "Sepia"),
			values: map[string]interface{}{"intensity": 3.0, inputImage: solid(2, 2, color.RGBA{A: 255})},
		},
		{
			name:   "wrong_type",
			filter: filter(t, "GaussianBlur"),
			values: map[string]interface{}{"radius": "big", inputImage: solid(2, 2, color.RGBA{A: 255})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := e.Generate(context.Background(), tt.filter, tt.values)
			assert.Error(t, err)
			assert.Nil(t, img)
		})
	}
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Generate(ctx, filter(t, "ConstantColor"), map[string]interface{}{"color": []float64{1, 1, 1}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateRecoversPanics(t *testing.T) {
	e := newTestEngine(t)
	e.Register("Boom", func(Params) (core.Image, error) { panic("kaboom") })

	_, err := e.Generate(context.Background(), catalog.Filter{Name: "Boom"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.True(t, e.Supports("Boom"))
}

func TestParams(t *testing.T) {
	p := Params{
		"n":      3,
		"color":  []interface{}{1.0, 0.5, 0.0},
		"vector": [2]float64{4, 5},
		"rgba":   color.RGBA{R: 1, G: 2, B: 3, A: 4},
	}

	n, err := p.Number("n")
	require.NoError(t, err)
	assert.Equal(t, 3.0, n)

	c, err := p.Color("color")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, c)

	c, err = p.Color("rgba")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 4}, c)

	v, err := p.Vector("vector")
	require.NoError(t, err)
	assert.Equal(t, [2]float64{4, 5}, v)

	_, err = p.Vector("color")
	assert.Error(t, err)
	_, err = p.Image("n")
	assert.Error(t, err)
}

func TestFloorDivAndMod(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-1, 80))
	assert.Equal(t, 0, floorDiv(79, 80))
	assert.Equal(t, 79, mod(-1, 80))
	assert.Equal(t, 0, mod(160, 80))
}
