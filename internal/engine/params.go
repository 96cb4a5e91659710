package engine

import (
	"fmt"
	"image/color"

	"filter-workshop/internal/core"
)

// Params are the parameter values handed to a filter, keyed by name.
type Params map[string]interface{}

func (p Params) Number(name string) (float64, error) {
	v, ok := p[name]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("parameter %q: expected number, got %T", name, v)
	}
}

// Color accepts a color.Color or 3/4 components in [0,1] (RGB[A]).
func (p Params) Color(name string) (color.RGBA, error) {
	v, ok := p[name]
	if !ok {
		return color.RGBA{}, fmt.Errorf("missing parameter %q", name)
	}
	if c, ok := v.(color.Color); ok {
		return color.RGBAModel.Convert(c).(color.RGBA), nil
	}
	comps, err := components(v)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parameter %q: %w", name, err)
	}
	if len(comps) != 3 && len(comps) != 4 {
		return color.RGBA{}, fmt.Errorf("parameter %q: expected 3 or 4 color components, got %d", name, len(comps))
	}
	if len(comps) == 3 {
		comps = append(comps, 1)
	}
	return color.RGBA{R: unit(comps[0]), G: unit(comps[1]), B: unit(comps[2]), A: unit(comps[3])}, nil
}

// Vector returns a 2-component vector.
func (p Params) Vector(name string) ([2]float64, error) {
	v, ok := p[name]
	if !ok {
		return [2]float64{}, fmt.Errorf("missing parameter %q", name)
	}
	comps, err := components(v)
	if err != nil {
		return [2]float64{}, fmt.Errorf("parameter %q: %w", name, err)
	}
	if len(comps) != 2 {
		return [2]float64{}, fmt.Errorf("parameter %q: expected 2 vector components, got %d", name, len(comps))
	}
	return [2]float64{comps[0], comps[1]}, nil
}

func (p Params) Image(name string) (core.Image, error) {
	v, ok := p[name]
	if !ok {
		return nil, fmt.Errorf("missing parameter %q", name)
	}
	img, ok := v.(core.Image)
	if !ok || img == nil {
		return nil, fmt.Errorf("parameter %q: expected image, got %T", name, v)
	}
	return img, nil
}

func components(v interface{}) ([]float64, error) {
	switch c := v.(type) {
	case []float64:
		return append([]float64(nil), c...), nil
	case [2]float64:
		return c[:], nil
	case [4]float64:
		return c[:], nil
	case []interface{}:
		out := make([]float64, len(c))
		for i, e := range c {
			n, err := Params{"c": e}.Number("c")
			if err != nil {
				return nil, fmt.Errorf("component %d: expected number, got %T", i, e)
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected components, got %T", v)
	}
}

func unit(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
