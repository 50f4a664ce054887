package domain

import (
	"context"
	"errors"
)

type GenerateQuoteRequest struct {
	JobID           string `json:"job_id" binding:"required"`
	PricingConfigID string `json:"pricing_config_id"`
}

type RecalculateQuoteRequest struct {
	ChangeSummary string `json:"change_summary"`
}

type Service interface {
	// GenerateQuote prices a job and creates a new quote with version 1.
	GenerateQuote(ctx context.Context, req GenerateQuoteRequest) (Quote, error)

	// RecalculateQuote reprices an existing quote against the current job and
	// pricing-config state, replacing its BOM, bumping the version counter and
	// appending a new version snapshot.
	RecalculateQuote(ctx context.Context, quoteID string, req RecalculateQuoteRequest) (Quote, error)

	GetByID(ctx context.Context, id string) (Quote, error)
	List(ctx context.Context) ([]Quote, error)
	UpdateStatus(ctx context.Context, id string, status QuoteStatus) (Quote, error)

	// IssueShareToken mints (or returns the existing) public share token for
	// a quote so customers can fetch the rendered document without auth.
	IssueShareToken(ctx context.Context, id string) (string, error)
	GetByShareToken(ctx context.Context, token string) (Quote, error)
}

var (
	ErrInvalidOrganization     = errors.New("invalid_organization")
	ErrJobNotFound             = errors.New("job_not_found")
	ErrPricingConfigNotFound   = errors.New("pricing_config_not_found")
	ErrQuoteNotFound           = errors.New("quote_not_found")
	ErrIncompleteQuote         = errors.New("incomplete_quote")
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
)
