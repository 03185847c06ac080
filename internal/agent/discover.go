package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/llm"
	"github.com/jonathan/creator-pitch/internal/logging"
	"github.com/jonathan/creator-pitch/internal/prompts"
	"github.com/jonathan/creator-pitch/internal/schemas"
	"github.com/jonathan/creator-pitch/internal/types"
)

// Defaults applied to sparse discovery answers.
const (
	DefaultDiscoveryNiche    = "General"
	DefaultDiscoveryFitScore = 75
)

// Discoverer asks the model to guess a creator's profile and likely brand
// sponsors from the handle alone.
type Discoverer struct {
	client llm.Client
	logger *zap.Logger
	tier   llm.ModelTier
}

// NewDiscoverer creates a Discoverer.
func NewDiscoverer(client llm.Client, logger *zap.Logger) *Discoverer {
	return &Discoverer{client: client, logger: logging.OrNop(logger), tier: llm.TierStandard}
}

type discoveryResponse struct {
	Creator struct {
		Handle           flexText  `json:"handle"`
		Followers        flexCount `json:"followers"`
		Niche            flexText  `json:"niche"`
		AvgViews         flexCount `json:"avgViews"`
		TopContentThemes flexList  `json:"topContentThemes"`
	} `json:"creator"`
	Brands []struct {
		Name        flexText  `json:"name"`
		Domain      flexText  `json:"domain"`
		Industry    flexText  `json:"industry"`
		Description flexText  `json:"description"`
		Funding     flexText  `json:"funding"`
		Headcount   flexText  `json:"headcount"`
		RecentNews  flexText  `json:"recentNews"`
		FitScore    flexScore `json:"fitScore"`
		FitReason   flexText  `json:"fitReason"`
	} `json:"brands"`
}

// DiscoverBrands returns a profile guess and brand matches for handle.
// Missing fields are defaulted; an empty or unparsable answer is an error.
func (d *Discoverer) DiscoverBrands(ctx context.Context, handle string) (types.EnrichmentResult, error) {
	var resp discoveryResponse
	err := generate(ctx, d.client, d.logger, call{
		name:       "brand discovery",
		tier:       d.tier,
		promptFile: prompts.DiscoveryFile,
		promptKey:  prompts.DiscoverBrandsKey,
		data: map[string]string{
			"Handle":     handle,
			"ProfileURL": "https://www.tiktok.com/@" + handle,
		},
		schema:     llm.DiscoverySchema(),
		jsonSchema: schemas.Discovery,
	}, &resp)
	if err != nil {
		return types.EnrichmentResult{}, err
	}

	result := types.EnrichmentResult{
		Creator: types.CreatorProfile{
			Handle:           orDefault(string(resp.Creator.Handle), handle),
			Followers:        orDefault(string(resp.Creator.Followers), "N/A"),
			Niche:            orDefault(string(resp.Creator.Niche), DefaultDiscoveryNiche),
			AvgViews:         orDefault(string(resp.Creator.AvgViews), "N/A"),
			TopContentThemes: resp.Creator.TopContentThemes.strings(),
		},
		Brands: make([]types.BrandMatch, 0, len(resp.Brands)),
	}
	for _, b := range resp.Brands {
		score := DefaultDiscoveryFitScore
		if b.FitScore.set {
			score = b.FitScore.value
		}
		result.Brands = append(result.Brands, types.BrandMatch{
			Name:        orDefault(string(b.Name), "Unknown"),
			Domain:      string(b.Domain),
			Industry:    string(b.Industry),
			Description: string(b.Description),
			Funding:     orDefault(string(b.Funding), "N/A"),
			Headcount:   orDefault(string(b.Headcount), "N/A"),
			RecentNews:  orDefault(string(b.RecentNews), "N/A"),
			FitScore:    score,
			FitReason:   string(b.FitReason),
		})
	}

	d.logger.Info("brand discovery complete",
		zap.String("handle", handle),
		zap.Int("brands", len(result.Brands)))
	return result, nil
}
