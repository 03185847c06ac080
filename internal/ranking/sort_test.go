package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/creator-pitch/internal/types"
)

func brandNames(brands []types.BrandMatch) []string {
	names := make([]string, len(brands))
	for i, b := range brands {
		names[i] = b.Name
	}
	return names
}

func TestParseSortMode(t *testing.T) {
	for in, want := range map[string]SortMode{
		"":              SortAll,
		"all":           SortAll,
		"best-fit":      SortBestFit,
		"Highest-Value": SortHighestValue,
	} {
		got, err := ParseSortMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseSortMode("cheapest")
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	brands := []types.BrandMatch{
		{Name: "Vuori", FitScore: 76},
		{Name: "Alo Yoga", FitScore: 92},
		{Name: "Hyperice", FitScore: 81},
		{Name: "Bloom", FitScore: 81},
		{Name: "Generic", FitScore: 55},
	}

	t.Run("all keeps order", func(t *testing.T) {
		out := Sort(brands, SortAll, "127K")
		assert.Equal(t, brandNames(brands), brandNames(out))
	})

	t.Run("best fit is stable", func(t *testing.T) {
		out := Sort(brands, SortBestFit, "127K")
		assert.Equal(t, []string{"Alo Yoga", "Hyperice", "Bloom", "Vuori", "Generic"}, brandNames(out))
	})

	t.Run("highest value groups by multiplier band", func(t *testing.T) {
		out := Sort(brands, SortHighestValue, "127K")
		// every >=80 score shares a band; fit score breaks the tie
		assert.Equal(t, []string{"Alo Yoga", "Hyperice", "Bloom", "Vuori", "Generic"}, brandNames(out))
	})

	t.Run("input untouched", func(t *testing.T) {
		_ = Sort(brands, SortBestFit, "127K")
		assert.Equal(t, "Vuori", brands[0].Name)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Sort(nil, SortBestFit, "1K"))
	})
}
