package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	intensity := Parameter{Name: "intensity", Kind: KindNumber, Min: bound(0), Max: bound(1)}

	tests := []struct {
		name    string
		param   Parameter
		raw     string
		want    interface{}
		wantErr bool
	}{
		{name: "number", param: intensity, raw: " 0.8 ", want: 0.8},
		{name: "below_min", param: intensity, raw: "-1", wantErr: true},
		{name: "above_max", param: intensity, raw: "2", wantErr: true},
		{name: "not_a_number", param: intensity, raw: "high", wantErr: true},
		{name: "color", param: Parameter{Name: "color", Kind: KindColor}, raw: "1, 0.5,0", want: []float64{1, 0.5, 0}},
		{name: "vector", param: Parameter{Name: "center", Kind: KindVector}, raw: "150,150", want: []float64{150, 150}},
		{name: "bad_vector", param: Parameter{Name: "center", Kind: KindVector}, raw: "150,x", wantErr: true},
		{name: "boolean", param: Parameter{Name: "on", Kind: KindBoolean}, raw: "true", want: true},
		{name: "image", param: Parameter{Name: "inputImage", Kind: KindImage}, raw: "a.png", wantErr: true},
		{name: "string", param: Parameter{Name: "text", Kind: KindString}, raw: "hello", want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.param, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValueRoundTrip(t *testing.T) {
	color := Parameter{Name: "color", Kind: KindColor}
	assert.Equal(t, "1, 0, 0, 1", FormatValue([]interface{}{1.0, 0.0, 0.0, 1.0}))

	v, err := ParseValue(color, FormatValue([]float64{0.25, 0.5, 1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 1}, v)
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "3", FormatValue(3))
}
