package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/creator-pitch/internal/normalize"
	"github.com/jonathan/creator-pitch/internal/types"
)

// maxResponseBytes bounds how much of a provider response is read.
const maxResponseBytes = 4 << 20

// ProviderConfig configures the outbound webhook call.
type ProviderConfig struct {
	WebhookURL  string
	APIKey      string
	CallbackURL string
	// Timeout bounds one call. Zero means the request context alone decides.
	Timeout time.Duration
}

// ProviderRequest is the JSON body posted to the provider webhook.
type ProviderRequest struct {
	RequestID        string `json:"request_id"`
	TikTokHandle     string `json:"tiktok_handle"`
	TikTokURL        string `json:"tiktok_url"`
	NicheDescription string `json:"niche_description"`
	CallbackURL      string `json:"callback_url"`
}

// ProviderResponse is a successful (2xx) provider reply.
type ProviderResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// ProviderError represents a failed webhook call.
type ProviderError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Provider posts enrichment jobs to the external provider.
type Provider struct {
	cfg        ProviderConfig
	httpClient *http.Client
}

// NewProvider returns nil when no webhook URL is configured, which disables
// the provider tier.
func NewProvider(cfg ProviderConfig, httpClient *http.Client) *Provider {
	if cfg.WebhookURL == "" {
		return nil
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Provider{cfg: cfg, httpClient: httpClient}
}

// CallbackURL returns the URL the provider is told to call back.
func (p *Provider) CallbackURL() string {
	return p.cfg.CallbackURL
}

// Submit posts one job. Transport failures and non-2xx statuses are
// returned as *ProviderError.
func (p *Provider) Submit(ctx context.Context, req ProviderRequest) (*ProviderResponse, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ProviderError{Message: "failed to encode request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	return &ProviderResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// InlineResult reports whether the provider answered with enrichment data
// in the response itself. A JSON object carrying brands or results counts;
// anything else, including a body that does not parse, is an ack.
func (r *ProviderResponse) InlineResult(handle string) (types.EnrichmentResult, bool) {
	if r == nil || !strings.Contains(r.ContentType, "application/json") {
		return types.EnrichmentResult{}, false
	}
	var raw map[string]any
	if err := json.Unmarshal(r.Body, &raw); err != nil {
		return types.EnrichmentResult{}, false
	}
	if raw["brands"] == nil && raw["results"] == nil {
		return types.EnrichmentResult{}, false
	}
	return normalize.Payload(raw, handle), true
}
