// Package agent wraps the LLM calls of the pitch workflow: brand discovery
// for a handle, per-brand pitch strategy and creator summaries.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/llm"
	"github.com/jonathan/creator-pitch/internal/prompts"
	"github.com/jonathan/creator-pitch/internal/ranking"
	"github.com/jonathan/creator-pitch/internal/schemas"
	"github.com/jonathan/creator-pitch/internal/types"
)

// call describes one structured generation.
type call struct {
	name       string
	tier       llm.ModelTier
	promptFile string
	promptKey  string
	data       map[string]string
	schema     llm.ResponseSchema
	jsonSchema string
}

// generate renders the prompt, asks the model for schema-constrained JSON,
// checks the answer's structure and decodes it into out. Leaf types are left
// to out's flex fields.
func generate(ctx context.Context, client llm.Client, logger *zap.Logger, c call, out any) error {
	data := make(map[string]string, len(c.data)+1)
	for k, v := range c.data {
		data[k] = v
	}
	data["OutputFormat"] = c.schema.PromptSection()

	prompt, err := prompts.Render(c.promptFile, c.promptKey, data)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	logger.Debug("calling model",
		zap.String("call", c.name),
		zap.String("model", client.GetModel(c.tier)),
		zap.Int("prompt_chars", len(prompt)))

	text, err := client.GenerateJSON(ctx, prompt, c.tier, c.schema.Genai())
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			return &APICallError{Message: c.name + " returned empty response", Cause: err}
		}
		return &APICallError{Message: c.name + " failed", Cause: err}
	}
	text = strings.TrimSpace(llm.CleanJSONBlock(text))
	if text == "" {
		return &APICallError{Message: c.name + " returned empty response", Cause: llm.ErrEmptyResponse}
	}

	if err := schemas.Validate(c.jsonSchema, []byte(text)); err != nil {
		var docErr *schemas.DocumentError
		if errors.As(err, &docErr) {
			return &ParseError{Message: c.name + " response is not valid JSON", Cause: err}
		}
		return &ParseError{Message: c.name + " response does not match schema", Cause: err}
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &ParseError{Message: c.name + " response is not valid JSON", Cause: err}
	}
	return nil
}

// describeCreator renders the creator block shared by strategy and summary prompts.
func describeCreator(c *types.CreatorProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- Handle: @%s\n", c.Handle)
	fmt.Fprintf(&sb, "- Followers: %s\n", c.Followers)
	fmt.Fprintf(&sb, "- Niche: %s\n", c.Niche)
	fmt.Fprintf(&sb, "- Average Views: %s\n", c.AvgViews)
	fmt.Fprintf(&sb, "- Top Content Themes: %s", strings.Join(c.TopContentThemes, ", "))
	if c.Fullname != "" {
		fmt.Fprintf(&sb, "\n- Name: %s", c.Fullname)
	}
	if c.Bio != "" {
		fmt.Fprintf(&sb, "\n- Bio: %s", c.Bio)
	}
	if c.EngagementRate != nil {
		fmt.Fprintf(&sb, "\n- Engagement Rate: %.2f%%", *c.EngagementRate*100)
	}
	if c.Country != "" {
		fmt.Fprintf(&sb, "\n- Country: %s", c.Country)
	}
	if len(c.AudienceGenders) > 0 {
		parts := make([]string, 0, len(c.AudienceGenders))
		for _, g := range c.AudienceGenders {
			parts = append(parts, fmt.Sprintf("%s %.0f%%", g.Code, g.Weight*100))
		}
		fmt.Fprintf(&sb, "\n- Audience Gender: %s", strings.Join(parts, ", "))
	}
	return sb.String()
}

// describeBrands renders one line per brand with the heuristic deal value.
func describeBrands(brands []types.BrandMatch, followers string) string {
	lines := make([]string, 0, len(brands))
	for _, b := range brands {
		lines = append(lines, fmt.Sprintf(
			"- %s (%s) | Industry: %s | Funding: %s | Headcount: %s | Recent: %s | Fit Score: %d | Fit Reason: %s | Description: %s | Baseline Value: %s",
			b.Name, b.Domain, b.Industry, b.Funding, b.Headcount, b.RecentNews, b.FitScore, b.FitReason, b.Description,
			ranking.EstimateValue(b.FitScore, followers),
		))
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
