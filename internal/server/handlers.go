package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/creator-pitch/internal/callback"
	"github.com/jonathan/creator-pitch/internal/enrichment"
	"github.com/jonathan/creator-pitch/internal/ranking"
	"github.com/jonathan/creator-pitch/internal/store"
	"github.com/jonathan/creator-pitch/internal/types"
)

const (
	// maxBodyBytes bounds JSON request bodies.
	maxBodyBytes = 1 << 20
	// maxCallbackBytes bounds provider callbacks, which carry audience data.
	maxCallbackBytes = 4 << 20
)

// EnrichResponse is returned while a job is pending.
type EnrichResponse struct {
	Status    string `json:"status"`
	Mode      string `json:"mode,omitempty"`
	Tier      string `json:"tier,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// ResultResponse is returned once enrichment data is available.
type ResultResponse struct {
	Status    string               `json:"status"`
	Mode      string               `json:"mode,omitempty"`
	Tier      string               `json:"tier,omitempty"`
	RequestID string               `json:"requestId,omitempty"`
	Creator   types.CreatorProfile `json:"creator"`
	Brands    []types.BrandMatch   `json:"brands"`
}

func resultResponse(result types.EnrichmentResult, mode ranking.SortMode) ResultResponse {
	brands := ranking.Sort(result.Brands, mode, result.Creator.Followers)
	return ResultResponse{
		Status:  string(types.JobComplete),
		Creator: result.Creator,
		Brands:  brands,
	}
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return &ErrValidation{Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

func sortMode(r *http.Request) (ranking.SortMode, error) {
	mode, err := ranking.ParseSortMode(r.URL.Query().Get("sort"))
	if err != nil {
		return "", &ErrValidation{Field: "sort", Message: err.Error()}
	}
	return mode, nil
}

// handleEnrich triggers enrichment for a handle
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req types.EnrichRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing TikTok handle")
		return
	}
	mode, err := sortMode(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	out, err := s.enricher.Run(r.Context(), enrichment.Input{
		Handle:           req.Handle,
		NicheDescription: req.NicheDescription,
	})
	if err != nil {
		s.logger.Error("enrichment failed", zap.String("handle", req.Handle), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if out.Mode == enrichment.ModeAsync || out.Result == nil {
		s.jsonResponse(w, http.StatusOK, EnrichResponse{
			Status:    string(types.JobPending),
			Mode:      string(enrichment.ModeAsync),
			Tier:      string(out.Tier),
			RequestID: out.RequestID,
		})
		return
	}

	resp := resultResponse(*out.Result, mode)
	resp.Mode = string(out.Mode)
	resp.Tier = string(out.Tier)
	resp.RequestID = out.RequestID
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleEnrichStatus returns the state of an asynchronous enrichment job
func (s *Server) handleEnrichStatus(w http.ResponseWriter, r *http.Request) {
	requestID := r.PathValue("requestId")
	mode, err := sortMode(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	job, err := s.store.Get(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Request not found")
			return
		}
		s.logger.Error("store lookup failed", zap.String("request_id", requestID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	if job.Status == types.JobPending || job.Data == nil {
		s.jsonResponse(w, http.StatusOK, EnrichResponse{Status: string(types.JobPending), RequestID: requestID})
		return
	}

	resp := resultResponse(*job.Data, mode)
	resp.RequestID = requestID
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleCallback accepts provider webhooks. It always answers 200.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCallbackBytes))
	if err != nil {
		s.logger.Warn("callback body read failed", zap.Int("read", len(body)), zap.Error(err))
	}

	ack := s.receiver.Handle(r.Context(), callback.Request{
		AuthHeader: r.Header.Get("Authorization"),
		Body:       body,
	})
	s.jsonResponse(w, http.StatusOK, ack)
}

// handleCallbackHistory renders recent callback payloads as plain text
func (s *Server) handleCallbackHistory(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, s.receiver.History().Render()); err != nil {
		s.logger.Warn("error writing callback history", zap.Error(err))
	}
}

// handleAgent generates pitch strategies for the given brands
func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req types.StrategyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.strategist == nil {
		err := &ErrNotConfigured{Component: "strategy generation (GEMINI_API_KEY)"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.strategist.Generate(r.Context(), req.Creator, req.Brands, req.MarketingRequest)
	s.metrics.ObserveLLM("strategy", err)
	if err != nil {
		s.logger.Error("strategy generation failed", zap.String("handle", req.Creator.Handle), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleSummarize writes a short summary of a creator
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req types.SummarizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing creator data")
		return
	}
	if s.summarizer == nil {
		err := &ErrNotConfigured{Component: "creator summaries (GEMINI_API_KEY)"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	summary, err := s.summarizer.Summarize(r.Context(), req.Creator)
	s.metrics.ObserveLLM("summarize", err)
	if err != nil {
		s.logger.Error("summary failed", zap.String("handle", req.Creator.Handle), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}
