package catalog

import (
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
filters:
  - name: Sepia
    category: Color Effect
    parameters:
      - name: inputImage
        kind: image
        required: true
      - name: intensity
        kind: number
        required: true
        min: 0
        max: 1
        default: 0.5
  - name: Vignette
    parameters:
      - name: radius
        kind: number
unavailable:
  DepthBlurEffect: no depth data
`

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, []string{"Sepia", "Vignette"}, c.Names())

	sepia, ok := c.Get("Sepia")
	require.True(t, ok)
	require.Len(t, sepia.Parameters, 2)
	assert.Equal(t, "inputImage", sepia.Parameters[0].Name)
	assert.Equal(t, KindNumber, sepia.Parameters[1].Kind)
	assert.True(t, sepia.Parameters[1].Required)
	require.NotNil(t, sepia.Parameters[1].Max)
	assert.Equal(t, 1.0, *sepia.Parameters[1].Max)
	assert.Equal(t, 0.5, sepia.Parameters[1].Default)

	assert.Equal(t, map[string][]string{
		"Color Effect": {"Sepia"},
		"Other":        {"Vignette"},
	}, c.ByCategory())

	assert.Equal(t, Availability{Reason: "no depth data"}, c.Availability("DepthBlurEffect"))
	assert.True(t, c.Availability("Sepia").Available)
}

func TestLoadRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name: "duplicate_filter",
			input: `
filters:
  - name: Sepia
  - name: Sepia
`,
		},
		{
			name: "duplicate_parameter",
			input: `
filters:
  - name: Sepia
    parameters:
      - name: intensity
      - name: intensity
`,
		},
		{
			name: "inverted_range",
			input: `
filters:
  - name: Sepia
    parameters:
      - name: intensity
        min: 2
        max: 1
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.NotValid), "got %v", err)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("filterz: []\n"))
	assert.Error(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	sepia, ok := c.Get("Sepia")
	require.True(t, ok)
	p, ok := sepia.Parameter("intensity")
	require.True(t, ok)
	assert.True(t, p.Required)

	_, ok = sepia.Parameter("missing")
	assert.False(t, ok)

	depth := c.Availability(DepthBlurEffect)
	assert.False(t, depth.Available)
	assert.NotEmpty(t, depth.Reason)

	for _, name := range c.Names() {
		f, _ := c.Get(name)
		assert.NoError(t, f.Validate(), name)
	}
}
