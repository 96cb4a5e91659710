package engine

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"filter-workshop/internal/core"
)

const inputImage = "inputImage"

// Sepia kernel rows in BGR order.
var sepiaKernel = [3][3]float32{
	{0.131, 0.534, 0.272},
	{0.168, 0.686, 0.349},
	{0.189, 0.769, 0.393},
}

func sepia(params Params) (core.Image, error) {
	intensity, err := params.Number("intensity")
	if err != nil {
		return nil, err
	}
	if intensity < 0 || intensity > 1 {
		return nil, fmt.Errorf("intensity must be between 0 and 1")
	}
	src, err := inputMat(params)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
	defer kernel.Close()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			identity := float32(0)
			if row == col {
				identity = 1
			}
			k := float32(intensity)
			kernel.SetFloatAt(row, col, k*sepiaKernel[row][col]+(1-k)*identity)
		}
	}

	dst := gocv.NewMat()
	gocv.Transform(src, &dst, kernel)
	return newMatImage(dst), nil
}

func colorInvert(params Params) (core.Image, error) {
	src, err := inputMat(params)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	gocv.BitwiseNot(src, &dst)
	return newMatImage(dst), nil
}

func colorControls(params Params) (core.Image, error) {
	brightness, err := params.Number("brightness")
	if err != nil {
		return nil, err
	}
	contrast, err := params.Number("contrast")
	if err != nil {
		return nil, err
	}
	if contrast < 0 {
		return nil, fmt.Errorf("contrast must not be negative")
	}
	src, err := inputMat(params)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	src.ConvertToWithParams(&dst, src.Type(), float32(contrast), float32(brightness*255))
	return newMatImage(dst), nil
}

func gaussianBlur(params Params) (core.Image, error) {
	radius, err := params.Number("radius")
	if err != nil {
		return nil, err
	}
	if radius < 0 {
		return nil, fmt.Errorf("radius must not be negative")
	}
	src, err := inputMat(params)
	if err != nil {
		return nil, err
	}
	if radius == 0 {
		return newMatImage(src), nil
	}
	defer src.Close()

	// Kernel size is derived from sigma when zero.
	dst := gocv.NewMat()
	gocv.GaussianBlur(src, &dst, image.Pt(0, 0), radius, radius, gocv.BorderReplicate)
	return newMatImage(dst), nil
}

func constantColor(params Params) (core.Image, error) {
	c, err := params.Color("color")
	if err != nil {
		return nil, err
	}
	return &generatorImage{
		name: "ConstantColor",
		fill: func(r image.Rectangle) (gocv.Mat, error) {
			return gocv.NewMatWithSizeFromScalar(scalar(c), r.Dy(), r.Dx(), gocv.MatTypeCV8UC3), nil
		},
	}, nil
}

func checkerboard(params Params) (core.Image, error) {
	c0, err := params.Color("color0")
	if err != nil {
		return nil, err
	}
	c1, err := params.Color("color1")
	if err != nil {
		return nil, err
	}
	width, err := params.Number("width")
	if err != nil {
		return nil, err
	}
	if width < 1 {
		return nil, fmt.Errorf("width must be at least 1")
	}
	center := [2]float64{150, 150}
	if _, ok := params["center"]; ok {
		if center, err = params.Vector("center"); err != nil {
			return nil, err
		}
	}
	square := int(width)
	cx, cy := int(center[0]), int(center[1])

	return &generatorImage{
		name: "Checkerboard",
		fill: func(r image.Rectangle) (gocv.Mat, error) {
			mat := gocv.NewMatWithSizeFromScalar(scalar(c0), r.Dy(), r.Dx(), gocv.MatTypeCV8UC3)
			// Squares are aligned to the centre in absolute coordinates.
			startX := r.Min.X - mod(r.Min.X-cx, square)
			startY := r.Min.Y - mod(r.Min.Y-cy, square)
			for y := startY; y < r.Max.Y; y += square {
				for x := startX; x < r.Max.X; x += square {
					if (floorDiv(x-cx, square)+floorDiv(y-cy, square))%2 == 0 {
						continue
					}
					cell := image.Rect(x, y, x+square, y+square).Intersect(r).Sub(r.Min)
					gocv.Rectangle(&mat, cell, c1, -1)
				}
			}
			return mat, nil
		},
	}, nil
}

func inputMat(params Params) (gocv.Mat, error) {
	img, err := params.Image(inputImage)
	if err != nil {
		return gocv.NewMat(), err
	}
	return toMat(img)
}

func scalar(c color.RGBA) gocv.Scalar {
	return gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), float64(c.A))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
