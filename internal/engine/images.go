package engine

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"filter-workshop/internal/core"
)

// matImage is a bounded image held in an OpenCV Mat.
type matImage struct {
	mat gocv.Mat
}

func newMatImage(mat gocv.Mat) *matImage {
	return &matImage{mat: mat}
}

func (m *matImage) Extent() core.Extent {
	return core.BoundedExtent(image.Rect(0, 0, m.mat.Cols(), m.mat.Rows()))
}

func (m *matImage) Crop(r image.Rectangle) (core.Image, error) {
	clipped := r.Intersect(m.Extent().Bounds)
	if clipped.Empty() {
		return nil, fmt.Errorf("crop %v does not intersect %v", r, m.Extent().Bounds)
	}
	region := m.mat.Region(clipped)
	defer region.Close()
	return newMatImage(region.Clone()), nil
}

func (m *matImage) Render() (image.Image, error) {
	if m.mat.Empty() {
		return nil, fmt.Errorf("image is empty")
	}
	if err := core.ValidateExtent(m.Extent()); err != nil {
		return nil, err
	}
	return m.mat.ToImage()
}

// Close releases the underlying Mat.
func (m *matImage) Close() error {
	if !m.mat.Empty() {
		m.mat.Close()
	}
	return nil
}

// generatorImage has infinite extent. Pixels only exist once a region is
// cropped out of it.
type generatorImage struct {
	name string
	fill func(r image.Rectangle) (gocv.Mat, error)
}

func (g *generatorImage) Extent() core.Extent {
	return core.InfiniteExtent()
}

func (g *generatorImage) Crop(r image.Rectangle) (core.Image, error) {
	r = r.Canon()
	if r.Empty() {
		return nil, fmt.Errorf("empty crop of %s", g.name)
	}
	if r.Dx() > core.MaxDimension || r.Dy() > core.MaxDimension {
		return nil, fmt.Errorf("crop of %s too large: %dx%d", g.name, r.Dx(), r.Dy())
	}
	mat, err := g.fill(r)
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", g.name, err)
	}
	return newMatImage(mat), nil
}

func (g *generatorImage) Render() (image.Image, error) {
	return nil, fmt.Errorf("%s has infinite extent and must be cropped before rendering", g.name)
}

// toMat copies any core.Image into a new BGR Mat owned by the caller.
func toMat(img core.Image) (gocv.Mat, error) {
	if m, ok := img.(*matImage); ok {
		if m.mat.Empty() {
			return gocv.NewMat(), fmt.Errorf("input image is empty")
		}
		return m.mat.Clone(), nil
	}
	rendered, err := img.Render()
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("rendering input: %w", err)
	}
	mat, err := gocv.ImageToMatRGB(rendered)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("converting input: %w", err)
	}
	return mat, nil
}

// FromMat wraps a Mat. Ownership passes to the returned image.
func FromMat(mat gocv.Mat) core.Image {
	return newMatImage(mat)
}
