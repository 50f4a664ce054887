package domain

import (
	"context"
	"errors"
)

type LineItemInput struct {
	Kind        string `json:"kind" binding:"required"`
	FenceTypeID string `json:"fence_type_id"`
	GateTypeID  string `json:"gate_type_id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity" binding:"required"`
	UnitPrice   string `json:"unit_price"`
}

type CreateJobRequest struct {
	CustomerName    string          `json:"customer_name" binding:"required"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	SiteAddress     string          `json:"site_address"`
	Description     string          `json:"description"`
	TotalLinearFeet string          `json:"total_linear_feet"`
	LineItems       []LineItemInput `json:"line_items"`
}

type UpdateJobRequest struct {
	TotalLinearFeet *string `json:"total_linear_feet"`
	Description     *string `json:"description"`
}

type Service interface {
	Create(ctx context.Context, req CreateJobRequest) (Job, error)
	GetByID(ctx context.Context, id string) (Job, error)
	List(ctx context.Context) ([]Job, error)
	Update(ctx context.Context, id string, req UpdateJobRequest) (Job, error)

	// LoadGraph hydrates the job with resolved fence/gate types, their
	// ordered component requirements and components. Dangling type
	// references hydrate to nil rather than failing.
	LoadGraph(ctx context.Context, id string) (Graph, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrJobNotFound         = errors.New("job_not_found")
	ErrInvalidLineItem     = errors.New("invalid_line_item")
	ErrInvalidAmount       = errors.New("invalid_amount")
)
