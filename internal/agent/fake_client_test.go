package agent

import (
	"context"
	"sync"

	"github.com/google/generative-ai-go/genai"

	"github.com/jonathan/creator-pitch/internal/llm"
)

// fakeClient is an llm.Client returning a canned answer.
type fakeClient struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
	schemas  []*genai.Schema
	tiers    []llm.ModelTier
}

var _ llm.Client = (*fakeClient)(nil)

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier, schema *genai.Schema) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.schemas = append(f.schemas, schema)
	f.tiers = append(f.tiers, tier)
	return f.response, f.err
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-" + string(tier) }

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
