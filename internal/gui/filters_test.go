package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filter-workshop/internal/catalog"
)

func TestFilterEntriesGroupByCategory(t *testing.T) {
	cat := catalog.New()
	require.NoError(t, cat.Register(catalog.Filter{Name: "Sepia", DisplayName: "Sepia Tone", Category: "Color Effect"}))
	require.NoError(t, cat.Register(catalog.Filter{Name: "GaussianBlur", Category: "Blur"}))
	require.NoError(t, cat.Register(catalog.Filter{Name: "DepthBlurEffect", Category: "Blur"}))
	require.NoError(t, cat.Register(catalog.Filter{Name: "Mystery"}))
	cat.MarkUnavailable("DepthBlurEffect", "no depth data")

	names, labels := filterEntries(cat)
	assert.Equal(t, []string{"DepthBlurEffect", "GaussianBlur", "Sepia", "Mystery"}, names)
	assert.Equal(t, []string{
		"Blur: DepthBlurEffect (unavailable)",
		"Blur: GaussianBlur",
		"Color Effect: Sepia Tone",
		"Other: Mystery",
	}, labels)
}
