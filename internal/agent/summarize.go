package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/llm"
	"github.com/jonathan/creator-pitch/internal/logging"
	"github.com/jonathan/creator-pitch/internal/prompts"
	"github.com/jonathan/creator-pitch/internal/schemas"
	"github.com/jonathan/creator-pitch/internal/types"
)

// Summarizer writes a short positioning read of a creator.
type Summarizer struct {
	client llm.Client
	logger *zap.Logger
	tier   llm.ModelTier
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(client llm.Client, logger *zap.Logger) *Summarizer {
	return &Summarizer{client: client, logger: logging.OrNop(logger), tier: llm.TierLite}
}

type summaryResponse struct {
	Summary              flexText `json:"summary"`
	Strengths            flexList `json:"strengths"`
	AudienceInsight      flexText `json:"audienceInsight"`
	IdealBrandCategories flexList `json:"idealBrandCategories"`
}

// Summarize returns the summary for creator. Optional fields may be missing
// or loosely typed; an answer without summary text is a ParseError.
func (s *Summarizer) Summarize(ctx context.Context, creator *types.CreatorProfile) (*types.CreatorSummary, error) {
	var resp summaryResponse
	err := generate(ctx, s.client, s.logger, call{
		name:       "creator summary",
		tier:       s.tier,
		promptFile: prompts.SummarizeFile,
		promptKey:  prompts.CreatorSummaryKey,
		data:       map[string]string{"CreatorProfile": describeCreator(creator)},
		schema:     llm.SummarySchema(),
		jsonSchema: schemas.Summary,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(resp.Summary)) == "" {
		return nil, &ParseError{Message: "creator summary response has no summary text"}
	}
	return &types.CreatorSummary{
		Summary:              string(resp.Summary),
		Strengths:            resp.Strengths.strings(),
		AudienceInsight:      string(resp.AudienceInsight),
		IdealBrandCategories: resp.IdealBrandCategories.strings(),
	}, nil
}
