package io

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedFormat(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"dir.v2/scan.tif", true},
		{"out.png", true},
		{"notes.txt", false},
		{"png", false},
		{"archive.png.gz", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupportedFormat(tt.path), tt.path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	logger, _ := test.NewNullLogger()
	il := NewImageLoader(logger)

	src := image.NewRGBA(image.Rect(0, 0, 6, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 6; x++ {
			src.SetRGBA(x, y, color.RGBA{R: 200, G: 10, B: 30, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, il.SaveImage(src, path))

	img, err := il.LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 3), img.Extent().Bounds)

	rendered, err := img.Render()
	require.NoError(t, err)
	r, g, b, _ := rendered.At(2, 1).RGBA()
	assert.Equal(t, []uint32{200, 10, 30}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestLoadErrors(t *testing.T) {
	logger, _ := test.NewNullLogger()
	il := NewImageLoader(logger)

	_, err := il.LoadImage("notes.txt")
	assert.Error(t, err)

	_, err = il.LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	assert.Error(t, il.SaveImage(image.NewRGBA(image.Rect(0, 0, 0, 0)), "x.png"))
	assert.Error(t, il.SaveImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), "x.txt"))
}
