package domain

import (
	"context"
	"errors"
)

type HeightTierInput struct {
	MinHeightMeters string `json:"min_height_meters" binding:"required"`
	MaxHeightMeters string `json:"max_height_meters"`
	Multiplier      string `json:"multiplier" binding:"required"`
	Description     string `json:"description"`
}

type CreatePricingConfigRequest struct {
	Name                   string            `json:"name" binding:"required"`
	LaborRatePerHour       string            `json:"labor_rate_per_hour" binding:"required"`
	HoursPerLinearMeter    string            `json:"hours_per_linear_meter" binding:"required"`
	ContingencyPercentage  string            `json:"contingency_percentage"`
	ProfitMarginPercentage string            `json:"profit_margin_percentage"`
	IsDefault              bool              `json:"is_default"`
	HeightTiers            []HeightTierInput `json:"height_tiers"`
}

type Service interface {
	Create(ctx context.Context, req CreatePricingConfigRequest) (PricingConfig, error)
	List(ctx context.Context) ([]PricingConfig, error)
	GetByID(ctx context.Context, id string) (PricingConfig, error)

	// Resolve returns the explicitly requested config when id is non-empty,
	// otherwise the organization's default config.
	Resolve(ctx context.Context, id string) (PricingConfig, error)
}

var (
	ErrInvalidOrganization   = errors.New("invalid_organization")
	ErrPricingConfigNotFound = errors.New("pricing_config_not_found")
	ErrInvalidAmount         = errors.New("invalid_amount")
)
