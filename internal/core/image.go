// Opaque image abstraction shared by the engine and the filter pipeline
package core

import (
	"fmt"
	"image"
	"image/draw"
)

// MaxDimension bounds either side of a renderable image.
const MaxDimension = 16384

// Extent is the spatial domain of an Image. Generator filters (constant
// colours, patterns) have no natural bounds and report Infinite.
type Extent struct {
	Bounds   image.Rectangle
	Infinite bool
}

// InfiniteExtent returns the extent reported by unbounded images.
func InfiniteExtent() Extent {
	return Extent{Infinite: true}
}

// BoundedExtent returns an extent covering r.
func BoundedExtent(r image.Rectangle) Extent {
	return Extent{Bounds: r.Canon()}
}

func (e Extent) String() string {
	if e.Infinite {
		return "infinite"
	}
	return e.Bounds.String()
}

// Image is an engine output. Only the operations the pipeline needs are
// exposed; pixel storage is the engine's business.
type Image interface {
	// Extent reports the spatial domain of the image.
	Extent() Extent

	// Crop returns the part of the image inside r.
	Crop(r image.Rectangle) (Image, error)

	// Render converts the image into the deliverable representation.
	// Infinite images must be cropped first.
	Render() (image.Image, error)
}

// ValidateExtent checks that an extent can be rendered.
func ValidateExtent(e Extent) error {
	if e.Infinite {
		return fmt.Errorf("extent is infinite")
	}
	if e.Bounds.Empty() {
		return fmt.Errorf("extent is empty")
	}
	if e.Bounds.Dx() > MaxDimension || e.Bounds.Dy() > MaxDimension {
		return fmt.Errorf("image too large: %dx%d (max: %d)", e.Bounds.Dx(), e.Bounds.Dy(), MaxDimension)
	}
	return nil
}

// stdImage adapts an image.Image that is already in memory.
type stdImage struct {
	img image.Image
}

// FromImage wraps an in-memory image. Its extent is the image bounds.
func FromImage(img image.Image) Image {
	return &stdImage{img: img}
}

func (s *stdImage) Extent() Extent {
	return BoundedExtent(s.img.Bounds())
}

func (s *stdImage) Crop(r image.Rectangle) (Image, error) {
	clipped := r.Intersect(s.img.Bounds())
	if clipped.Empty() {
		return nil, fmt.Errorf("crop %v does not intersect %v", r, s.img.Bounds())
	}
	dst := image.NewRGBA(image.Rect(0, 0, clipped.Dx(), clipped.Dy()))
	draw.Draw(dst, dst.Bounds(), s.img, clipped.Min, draw.Src)
	return &stdImage{img: dst}, nil
}

func (s *stdImage) Render() (image.Image, error) {
	if err := ValidateExtent(s.Extent()); err != nil {
		return nil, err
	}
	return s.img, nil
}
