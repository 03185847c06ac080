package enrichment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_DisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewProvider(ProviderConfig{}, nil))
}

func TestProvider_Submit(t *testing.T) {
	var got ProviderRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	p := NewProvider(ProviderConfig{WebhookURL: server.URL, APIKey: "secret"}, server.Client())
	resp, err := p.Submit(context.Background(), ProviderRequest{
		RequestID:    "abc",
		TikTokHandle: "fitjenna",
		TikTokURL:    ProfileURL("fitjenna"),
		CallbackURL:  "http://localhost:3000/api/clay-callback",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "abc", got.RequestID)
	assert.Equal(t, "https://www.tiktok.com/@fitjenna", got.TikTokURL)
	assert.Equal(t, "", got.NicheDescription)
}

func TestProvider_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	defer server.Close()

	_, err := NewProvider(ProviderConfig{WebhookURL: server.URL}, nil).Submit(context.Background(), ProviderRequest{})
	require.NoError(t, err)
}

func TestProvider_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewProvider(ProviderConfig{WebhookURL: server.URL}, nil).Submit(context.Background(), ProviderRequest{})
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, http.StatusBadGateway, perr.StatusCode)
	assert.Contains(t, err.Error(), "502")
}

func TestProvider_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewProvider(ProviderConfig{WebhookURL: url}, nil).Submit(context.Background(), ProviderRequest{})
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, perr.StatusCode)
	assert.NotNil(t, perr.Unwrap())
}

func TestProvider_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	p := NewProvider(ProviderConfig{WebhookURL: server.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := p.Submit(context.Background(), ProviderRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProviderResponse_InlineResult(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantOK      bool
	}{
		{"creator and brands", "application/json", `{"creator":{"followers":"1K"},"brands":[{"name":"A"}]}`, true},
		{"results only", "application/json; charset=utf-8", `{"results":[{"company_name":"B"}]}`, true},
		{"empty brands list", "application/json", `{"brands":[]}`, true},
		{"ack", "application/json", `{"status":"queued"}`, false},
		{"unparsable", "application/json", `{not json`, false},
		{"array body", "application/json", `[1,2]`, false},
		{"text", "text/plain", `{"brands":[]}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &ProviderResponse{StatusCode: 200, ContentType: tt.contentType, Body: []byte(tt.body)}
			result, ok := resp.InlineResult("fitjenna")
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, "fitjenna", result.Creator.Handle)
				assert.NotNil(t, result.Brands)
			}
		})
	}
}
