package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jonathan/creator-pitch/internal/llm"
)

func TestDiscoverBrands_ValidResponse(t *testing.T) {
	client := &fakeClient{response: `{
		"creator": {"handle":"fitjenna","followers":"100K","niche":"Fitness","avgViews":"30K","topContentThemes":["workout","nutrition"]},
		"brands": [{"name":"Nike","domain":"nike.com","industry":"Sports","description":"Sportswear giant","funding":"Public","headcount":"70,000+","recentNews":"New campaign launch","fitScore":90,"fitReason":"Perfect audience overlap"}]
	}`}
	d := NewDiscoverer(client, zaptest.NewLogger(t))

	result, err := d.DiscoverBrands(context.Background(), "fitjenna")
	require.NoError(t, err)

	assert.Equal(t, "fitjenna", result.Creator.Handle)
	assert.Equal(t, "Fitness", result.Creator.Niche)
	assert.Equal(t, []string{"workout", "nutrition"}, result.Creator.TopContentThemes)
	require.Len(t, result.Brands, 1)
	assert.Equal(t, "Nike", result.Brands[0].Name)
	assert.Equal(t, 90, result.Brands[0].FitScore)

	require.Equal(t, 1, client.calls())
	assert.Contains(t, client.prompts[0], "@fitjenna")
	assert.Contains(t, client.prompts[0], "https://www.tiktok.com/@fitjenna")
	assert.Contains(t, client.prompts[0], "Return ONLY valid JSON")
	assert.NotContains(t, client.prompts[0], "{{.")
	require.NotNil(t, client.schemas[0])
	assert.Equal(t, llm.TierStandard, client.tiers[0])
}

func TestDiscoverBrands_Defaults(t *testing.T) {
	client := &fakeClient{response: `{"creator":{},"brands":[{"name":"Acme"}]}`}
	d := NewDiscoverer(client, nil)

	result, err := d.DiscoverBrands(context.Background(), "testuser")
	require.NoError(t, err)

	assert.Equal(t, "testuser", result.Creator.Handle)
	assert.Equal(t, "N/A", result.Creator.Followers)
	assert.Equal(t, "N/A", result.Creator.AvgViews)
	assert.Equal(t, DefaultDiscoveryNiche, result.Creator.Niche)
	assert.NotNil(t, result.Creator.TopContentThemes)

	require.Len(t, result.Brands, 1)
	b := result.Brands[0]
	assert.Equal(t, "N/A", b.Funding)
	assert.Equal(t, "N/A", b.Headcount)
	assert.Equal(t, "N/A", b.RecentNews)
	assert.Equal(t, DefaultDiscoveryFitScore, b.FitScore)
}

func TestDiscoverBrands_LooseTypes(t *testing.T) {
	client := &fakeClient{response: `{"creator":{"followers":294300},"brands":[{"name":"A","fitScore":"85"},{"name":"B","fitScore":"high"}]}`}
	result, err := NewDiscoverer(client, nil).DiscoverBrands(context.Background(), "x")
	require.NoError(t, err)

	assert.Equal(t, "294.3K", result.Creator.Followers)
	assert.Equal(t, 85, result.Brands[0].FitScore)
	assert.Equal(t, DefaultDiscoveryFitScore, result.Brands[1].FitScore)
}

func TestDiscoverBrands_NullFields(t *testing.T) {
	client := &fakeClient{response: `{
		"creator": {"handle": null, "followers": null, "niche": null, "topContentThemes": null},
		"brands": [{"name": "Nike", "domain": null, "fitScore": null, "funding": 250000000}]
	}`}
	result, err := NewDiscoverer(client, nil).DiscoverBrands(context.Background(), "fitjenna")
	require.NoError(t, err)

	assert.Equal(t, "fitjenna", result.Creator.Handle)
	assert.Equal(t, "N/A", result.Creator.Followers)
	assert.Equal(t, DefaultDiscoveryNiche, result.Creator.Niche)
	assert.NotNil(t, result.Creator.TopContentThemes)
	require.Len(t, result.Brands, 1)
	assert.Equal(t, DefaultDiscoveryFitScore, result.Brands[0].FitScore)
	assert.Empty(t, result.Brands[0].Domain)
	assert.Equal(t, "250000000", result.Brands[0].Funding)
}

func TestDiscoverBrands_MissingBrands(t *testing.T) {
	client := &fakeClient{response: `{"creator":{"handle":"testuser"}}`}
	result, err := NewDiscoverer(client, nil).DiscoverBrands(context.Background(), "testuser")
	require.NoError(t, err)
	assert.NotNil(t, result.Brands)
	assert.Empty(t, result.Brands)
}

func TestDiscoverBrands_Errors(t *testing.T) {
	tests := []struct {
		name     string
		client   *fakeClient
		contains string
		check    func(t *testing.T, err error)
	}{
		{
			name:     "empty response",
			client:   &fakeClient{response: ""},
			contains: "empty response",
			check: func(t *testing.T, err error) {
				var apiErr *APICallError
				assert.True(t, errors.As(err, &apiErr))
			},
		},
		{
			name:     "provider empty response",
			client:   &fakeClient{err: fmt.Errorf("no candidates in response: %w", llm.ErrEmptyResponse)},
			contains: "empty response",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, llm.ErrEmptyResponse)
			},
		},
		{
			name:     "malformed JSON",
			client:   &fakeClient{response: "not valid json {{{"},
			contains: "parse error",
			check: func(t *testing.T, err error) {
				var parseErr *ParseError
				assert.True(t, errors.As(err, &parseErr))
			},
		},
		{
			name:     "wrong shape",
			client:   &fakeClient{response: `{"brands":"Nike"}`},
			contains: "does not match schema",
		},
		{
			name:     "transport failure",
			client:   &fakeClient{err: errors.New("401 unauthorized")},
			contains: "401 unauthorized",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDiscoverer(tt.client, nil).DiscoverBrands(context.Background(), "testuser")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}
