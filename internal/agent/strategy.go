package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/llm"
	"github.com/jonathan/creator-pitch/internal/logging"
	"github.com/jonathan/creator-pitch/internal/prompts"
	"github.com/jonathan/creator-pitch/internal/schemas"
	"github.com/jonathan/creator-pitch/internal/types"
)

// Strategist turns a creator, its brand matches and the creator's request
// into a pitch plan.
type Strategist struct {
	client llm.Client
	logger *zap.Logger
	tier   llm.ModelTier
}

// NewStrategist creates a Strategist.
func NewStrategist(client llm.Client, logger *zap.Logger) *Strategist {
	return &Strategist{client: client, logger: logging.OrNop(logger), tier: llm.TierAdvanced}
}

type strategyResponse struct {
	OverallStrategy flexText `json:"overallStrategy"`
	BrandStrategies []struct {
		BrandName      flexText `json:"brandName"`
		BrandDomain    flexText `json:"brandDomain"`
		PitchAngle     flexText `json:"pitchAngle"`
		ContentFormats flexList `json:"contentFormats"`
		TalkingPoints  flexList `json:"talkingPoints"`
		PitchScript    flexText `json:"pitchScript"`
		SubjectLine    flexText `json:"subjectLine"`
		EstimatedValue flexText `json:"estimatedValue"`
	} `json:"brandStrategies"`
}

// Generate makes a single model call. When the model omits the overall
// narrative but returns brand strategies, a summary line is synthesized.
func (s *Strategist) Generate(ctx context.Context, creator *types.CreatorProfile, brands []types.BrandMatch, marketingRequest string) (*types.StrategyResult, error) {
	var resp strategyResponse
	err := generate(ctx, s.client, s.logger, call{
		name:       "strategy generation",
		tier:       s.tier,
		promptFile: prompts.StrategyFile,
		promptKey:  prompts.PitchStrategyKey,
		data: map[string]string{
			"CreatorProfile":   describeCreator(creator),
			"MarketingRequest": marketingRequest,
			"BrandList":        describeBrands(brands, creator.Followers),
		},
		schema:     llm.StrategySchema(),
		jsonSchema: schemas.Strategy,
	}, &resp)
	if err != nil {
		return nil, err
	}

	result := types.StrategyResult{
		OverallStrategy: string(resp.OverallStrategy),
		BrandStrategies: make([]types.BrandStrategy, 0, len(resp.BrandStrategies)),
	}
	for _, bs := range resp.BrandStrategies {
		result.BrandStrategies = append(result.BrandStrategies, types.BrandStrategy{
			BrandName:      string(bs.BrandName),
			BrandDomain:    string(bs.BrandDomain),
			PitchAngle:     string(bs.PitchAngle),
			ContentFormats: bs.ContentFormats.strings(),
			TalkingPoints:  bs.TalkingPoints.strings(),
			PitchScript:    string(bs.PitchScript),
			SubjectLine:    string(bs.SubjectLine),
			EstimatedValue: string(bs.EstimatedValue),
		})
	}
	if strings.TrimSpace(result.OverallStrategy) == "" && len(result.BrandStrategies) > 0 {
		result.OverallStrategy = fallbackNarrative(creator.Handle, result.BrandStrategies)
	}

	s.logger.Info("strategy generated",
		zap.String("handle", creator.Handle),
		zap.Int("brands_in", len(brands)),
		zap.Int("strategies", len(result.BrandStrategies)))
	return &result, nil
}

func fallbackNarrative(handle string, strategies []types.BrandStrategy) string {
	seen := make(map[string]bool, len(strategies))
	names := make([]string, 0, len(strategies))
	for _, bs := range strategies {
		if seen[bs.BrandName] {
			continue
		}
		seen[bs.BrandName] = true
		names = append(names, bs.BrandName)
	}
	return fmt.Sprintf(
		"PR strategy generated for @%s targeting %d brands across %s. Review the individual pitch strategies below and prioritize outreach based on fit score.",
		handle, len(strategies), strings.Join(names, ", "),
	)
}
