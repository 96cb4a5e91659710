package catalog

func bound(v float64) *float64 { return &v }

const (
	inputImage = "inputImage"

	// DepthBlurEffect needs depth and camera calibration data the
	// application cannot capture.
	DepthBlurEffect = "DepthBlurEffect"
)

var defaultFilters = []Filter{
	{
		Name:        "Sepia",
		DisplayName: "Sepia Tone",
		Category:    "Color Effect",
		Description: "Maps the colors of an image to various shades of brown.",
		Parameters: []Parameter{
			{Name: inputImage, Kind: KindImage, Required: true, Description: "The image to use as an input."},
			{Name: "intensity", Kind: KindNumber, Required: true, Min: bound(0), Max: bound(1), Default: 1.0,
				Description: "The intensity of the sepia effect."},
		},
	},
	{
		Name:        "ColorInvert",
		DisplayName: "Color Invert",
		Category:    "Color Effect",
		Description: "Inverts the colors in an image.",
		Parameters: []Parameter{
			{Name: inputImage, Kind: KindImage, Required: true},
		},
	},
	{
		Name:        "ColorControls",
		DisplayName: "Color Controls",
		Category:    "Color Adjustment",
		Description: "Adjusts brightness and contrast.",
		Parameters: []Parameter{
			{Name: inputImage, Kind: KindImage, Required: true},
			{Name: "brightness", Kind: KindNumber, Required: true, Min: bound(-1), Max: bound(1), Default: 0.0},
			{Name: "contrast", Kind: KindNumber, Required: true, Min: bound(0), Max: bound(4), Default: 1.0},
		},
	},
	{
		Name:        "GaussianBlur",
		DisplayName: "Gaussian Blur",
		Category:    "Blur",
		Description: "Spreads source pixels by an amount specified by a Gaussian distribution.",
		Parameters: []Parameter{
			{Name: inputImage, Kind: KindImage, Required: true},
			{Name: "radius", Kind: KindNumber, Required: true, Min: bound(0), Max: bound(100), Default: 10.0},
		},
	},
	{
		Name:        "ConstantColor",
		DisplayName: "Constant Color",
		Category:    "Generator",
		Description: "Generates a solid color. The output has infinite extent.",
		Parameters: []Parameter{
			{Name: "color", Kind: KindColor, Required: true, Default: []interface{}{1.0, 0.0, 0.0, 1.0}},
		},
	},
	{
		Name:        "Checkerboard",
		DisplayName: "Checkerboard",
		Category:    "Generator",
		Description: "Generates a checkerboard pattern. The output has infinite extent.",
		Parameters: []Parameter{
			{Name: "color0", Kind: KindColor, Required: true, Default: []interface{}{1.0, 1.0, 1.0, 1.0}},
			{Name: "color1", Kind: KindColor, Required: true, Default: []interface{}{0.0, 0.0, 0.0, 1.0}},
			{Name: "width", Kind: KindNumber, Required: true, Min: bound(1), Max: bound(800), Default: 80.0},
			{Name: "center", Kind: KindVector, Required: false, Default: []interface{}{150.0, 150.0}},
		},
	},
	{
		Name:        DepthBlurEffect,
		DisplayName: "Depth Blur Effect",
		Category:    "Blur",
		Parameters: []Parameter{
			{Name: inputImage, Kind: KindImage, Required: true},
			{Name: "disparityImage", Kind: KindImage, Required: true},
		},
	},
}

// Default returns the built-in catalog matching the bundled engine.
func Default() *Catalog {
	c := New()
	for _, f := range defaultFilters {
		// The built-in table is known to be valid.
		_ = c.Register(f)
	}
	c.MarkUnavailable(DepthBlurEffect, "capturing depth and camera calibration data is not supported")
	return c
}
