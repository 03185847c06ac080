package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/creator-pitch/internal/agent"
	"github.com/jonathan/creator-pitch/internal/store"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "handle", Message: "is required"}
	assert.Equal(t, "validation error: handle - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))

	bare := &ErrValidation{Message: "Missing TikTok handle"}
	assert.Equal(t, "Missing TikTok handle", bare.Error())
}

func TestErrNotConfigured(t *testing.T) {
	err := &ErrNotConfigured{Component: "GEMINI_API_KEY"}
	assert.Equal(t, "GEMINI_API_KEY is not configured", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", store.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", store.ErrNotFound), http.StatusNotFound},
		{"wrapped validation", fmt.Errorf("decode: %w", &ErrValidation{Message: "x"}), http.StatusBadRequest},
		{"model failure", &agent.APICallError{Message: "strategy failed"}, http.StatusInternalServerError},
		{"parse failure", &agent.ParseError{Message: "bad json"}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
