package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		handle  string
		wantErr bool
		want    string
	}{
		{name: "bare handle", handle: "fitjenna", want: "fitjenna"},
		{name: "trims whitespace", handle: "  @fitjenna  ", want: "@fitjenna"},
		{name: "empty", handle: "", wantErr: true},
		{name: "whitespace only", handle: "   \t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := EnrichRequest{Handle: tt.handle}
			err := req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "missing TikTok handle")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Handle)
		})
	}
}

func TestStrategyRequest_Validate(t *testing.T) {
	creator := &CreatorProfile{Handle: "fitjenna"}
	brands := []BrandMatch{{Name: "Nike", Domain: "nike.com"}}

	t.Run("valid", func(t *testing.T) {
		req := StrategyRequest{Creator: creator, Brands: brands, MarketingRequest: "Help me find deals"}
		assert.NoError(t, req.Validate())
	})

	t.Run("missing creator", func(t *testing.T) {
		req := StrategyRequest{Brands: brands, MarketingRequest: "x"}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Creator:required")
	})

	t.Run("empty brand list", func(t *testing.T) {
		req := StrategyRequest{Creator: creator, Brands: []BrandMatch{}, MarketingRequest: "x"}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Brands:min")
	})

	t.Run("blank marketing request", func(t *testing.T) {
		req := StrategyRequest{Creator: creator, Brands: brands, MarketingRequest: "   "}
		assert.Error(t, req.Validate())
	})

	t.Run("creator without handle", func(t *testing.T) {
		req := StrategyRequest{Creator: &CreatorProfile{}, Brands: brands, MarketingRequest: "x"}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "creator.handle")
	})
}

func TestSummarizeRequest_Validate(t *testing.T) {
	assert.Error(t, (&SummarizeRequest{}).Validate())
	assert.Error(t, (&SummarizeRequest{Creator: &CreatorProfile{}}).Validate())
	assert.NoError(t, (&SummarizeRequest{Creator: &CreatorProfile{Handle: "a"}}).Validate())
}
