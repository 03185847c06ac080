package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/creator-pitch/internal/types"
)

// SortMode selects how brand matches are ordered.
type SortMode string

const (
	// SortAll keeps provider order.
	SortAll SortMode = "all"
	// SortBestFit orders by fit score, highest first.
	SortBestFit SortMode = "best-fit"
	// SortHighestValue orders by the low end of the estimated deal value.
	SortHighestValue SortMode = "highest-value"
)

// ParseSortMode accepts the query values all, best-fit and highest-value.
// An empty string means SortAll.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortAll:
		return SortAll, nil
	case SortBestFit:
		return SortBestFit, nil
	case SortHighestValue:
		return SortHighestValue, nil
	}
	return "", fmt.Errorf("invalid sort mode %q: want all, best-fit or highest-value", s)
}

// Sort returns a reordered copy of brands. followers is the creator's
// follower count, used by SortHighestValue. Both orderings are stable.
func Sort(brands []types.BrandMatch, mode SortMode, followers string) []types.BrandMatch {
	sorted := make([]types.BrandMatch, len(brands))
	copy(sorted, brands)

	switch mode {
	case SortBestFit:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].FitScore > sorted[j].FitScore
		})
	case SortHighestValue:
		sort.SliceStable(sorted, func(i, j int) bool {
			vi := Estimate(sorted[i].FitScore, followers).Low
			vj := Estimate(sorted[j].FitScore, followers).Low
			if vi != vj {
				return vi > vj
			}
			return sorted[i].FitScore > sorted[j].FitScore
		})
	}
	return sorted
}
