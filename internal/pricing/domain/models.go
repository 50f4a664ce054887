// Package domain contains persistence models for pricing configurations.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PricingConfig holds an organization's labor and margin formula parameters.
// At most one config per organization is flagged default.
type PricingConfig struct {
	ID                    snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID                 snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	Name                  string          `json:"name" gorm:"type:text;not null"`
	LaborRatePerHour      decimal.Decimal `json:"labor_rate_per_hour" gorm:"type:numeric;not null"`
	HoursPerLinearMeter   decimal.Decimal `json:"hours_per_linear_meter" gorm:"type:numeric;not null"`
	ContingencyPercentage decimal.Decimal `json:"contingency_percentage" gorm:"type:numeric;not null"`
	ProfitMarginPercentage decimal.Decimal `json:"profit_margin_percentage" gorm:"type:numeric;not null"`
	IsDefault             bool            `json:"is_default" gorm:"not null;default:false"`
	HeightTiers           []HeightTier    `json:"height_tiers" gorm:"foreignKey:PricingConfigID"`
	CreatedAt             time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt             time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PricingConfig) TableName() string { return "pricing_configs" }

// HeightTier maps a fence-height band in meters to a price multiplier.
// A nil MaxHeightMeters means the band is unbounded above.
type HeightTier struct {
	ID              snowflake.ID     `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID     `json:"organization_id" gorm:"column:org_id;not null;index"`
	PricingConfigID snowflake.ID     `json:"pricing_config_id" gorm:"not null;index"`
	MinHeightMeters decimal.Decimal  `json:"min_height_meters" gorm:"type:numeric;not null"`
	MaxHeightMeters *decimal.Decimal `json:"max_height_meters,omitempty" gorm:"type:numeric"`
	Multiplier      decimal.Decimal  `json:"multiplier" gorm:"type:numeric;not null"`
	Description     string           `json:"description" gorm:"type:text"`
	CreatedAt       time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (HeightTier) TableName() string { return "height_tiers" }
