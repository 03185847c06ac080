package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EnrichRequest is the body of POST /api/enrich.
type EnrichRequest struct {
	Handle           string `json:"handle" validate:"required"`
	NicheDescription string `json:"niche_description,omitempty"`
}

// StrategyRequest is the body of POST /api/agent.
type StrategyRequest struct {
	Creator          *CreatorProfile `json:"creator" validate:"required"`
	Brands           []BrandMatch    `json:"brands" validate:"required,min=1"`
	MarketingRequest string          `json:"marketingRequest" validate:"required"`
}

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	Creator *CreatorProfile `json:"creator" validate:"required"`
}

var validate = validator.New()

// Validate trims the handle and checks that one remains.
func (r *EnrichRequest) Validate() error {
	r.Handle = strings.TrimSpace(r.Handle)
	if err := validate.Struct(r); err != nil {
		return errors.New("missing TikTok handle")
	}
	return nil
}

// Validate validates the StrategyRequest using the validator.
func (r *StrategyRequest) Validate() error {
	r.MarketingRequest = strings.TrimSpace(r.MarketingRequest)
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("missing required fields: creator, brands, and marketingRequest (%s)", describe(err))
	}
	if strings.TrimSpace(r.Creator.Handle) == "" {
		return errors.New("missing required fields: creator.handle")
	}
	return nil
}

// Validate validates the SummarizeRequest using the validator.
func (r *SummarizeRequest) Validate() error {
	if err := validate.Struct(r); err != nil || strings.TrimSpace(r.Creator.Handle) == "" {
		return errors.New("missing creator data")
	}
	return nil
}

// describe flattens validator errors into "field:tag" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
