package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(DiscoveryFile, DiscoverBrandsKey)
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Handle}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(StrategyFile, "nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{"replaces all", "Hello {{.Name}}, welcome to {{.Company}}!", map[string]string{"Name": "Alice", "Company": "Acme"}, "Hello Alice, welcome to Acme!"},
		{"no placeholders", "No placeholders here", map[string]string{"Key": "Value"}, "No placeholders here"},
		{"missing value stays", "Hello {{.Name}}", map[string]string{}, "Hello {{.Name}}"},
		{"value containing placeholder syntax", "{{.A}} {{.B}}", map[string]string{"A": "{{.B}}", "B": "b"}, "{{.B}} b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestRender(t *testing.T) {
	ClearCache()

	out, err := Render(SummarizeFile, CreatorSummaryKey, map[string]string{
		"CreatorProfile": "- Handle: @fitjenna",
		"OutputFormat":   "Return JSON.",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "@fitjenna")
	assert.NotContains(t, out, "{{.")

	_, err = Render(SummarizeFile, CreatorSummaryKey, map[string]string{"CreatorProfile": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OutputFormat")
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(DiscoveryFile, DiscoverBrandsKey)
	require.NoError(t, err)
	prompt2, err := Get(DiscoveryFile, DiscoverBrandsKey)
	require.NoError(t, err)
	assert.Equal(t, prompt1, prompt2)
}
