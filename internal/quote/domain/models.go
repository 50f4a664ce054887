// Package domain contains persistence models for quotes, their bills of
// materials and their immutable version history.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// QuoteStatus represents quote lifecycle states.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "DRAFT"
	QuoteStatusPending  QuoteStatus = "PENDING"
	QuoteStatusSent     QuoteStatus = "SENT"
	QuoteStatusAccepted QuoteStatus = "ACCEPTED"
	QuoteStatusRejected QuoteStatus = "REJECTED"
	QuoteStatusExpired  QuoteStatus = "EXPIRED"
	QuoteStatusRevised  QuoteStatus = "REVISED"
)

// Quote is the mutable current state of a priced job. The quote number is
// immutable once assigned; history lives in QuoteVersion rows.
type Quote struct {
	ID              snowflake.ID  `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID  `json:"organization_id" gorm:"column:org_id;not null;index;uniqueIndex:ux_quote_org_number"`
	JobID           snowflake.ID  `json:"job_id" gorm:"not null;index"`
	PricingConfigID *snowflake.ID `json:"pricing_config_id,omitempty" gorm:"index"`
	QuoteNumber     string        `json:"quote_number" gorm:"type:text;not null;uniqueIndex:ux_quote_org_number"`
	CurrentVersion  int           `json:"current_version" gorm:"not null;default:1"`
	Status          QuoteStatus   `json:"status" gorm:"type:text;not null;default:'DRAFT'"`

	MaterialsCost     decimal.Decimal `json:"materials_cost" gorm:"type:numeric;not null"`
	LaborCost         decimal.Decimal `json:"labor_cost" gorm:"type:numeric;not null"`
	SubtotalAmount    decimal.Decimal `json:"subtotal_amount" gorm:"type:numeric;not null"`
	ContingencyAmount decimal.Decimal `json:"contingency_amount" gorm:"type:numeric;not null"`
	ProfitAmount      decimal.Decimal `json:"profit_amount" gorm:"type:numeric;not null"`
	TotalAmount       decimal.Decimal `json:"total_amount" gorm:"type:numeric;not null"`
	TaxAmount         decimal.Decimal `json:"tax_amount" gorm:"type:numeric;not null"`
	DiscountAmount    decimal.Decimal `json:"discount_amount" gorm:"type:numeric;not null"`
	GrandTotal        decimal.Decimal `json:"grand_total" gorm:"type:numeric;not null"`

	ShareToken *string `json:"share_token,omitempty" gorm:"type:text;index"`

	Items    []BillOfMaterialsItem `json:"items,omitempty" gorm:"foreignKey:QuoteID"`
	Versions []QuoteVersion        `json:"versions,omitempty" gorm:"foreignKey:QuoteID"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Quote) TableName() string { return "quotes" }

// BillOfMaterialsItem is a computed, denormalized BOM row. Rows are created
// fresh on every generate or recalculate and never mutated; superseded rows
// are deleted, with history preserved only in version snapshots.
type BillOfMaterialsItem struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID         snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	QuoteID       snowflake.ID    `json:"quote_id" gorm:"not null;index"`
	ComponentID   *snowflake.ID   `json:"component_id,omitempty" gorm:"index"`
	Category      string          `json:"category" gorm:"type:text;not null"`
	Description   string          `json:"description" gorm:"type:text;not null"`
	SKU           *string         `json:"sku,omitempty" gorm:"type:text"`
	Quantity      decimal.Decimal `json:"quantity" gorm:"type:numeric;not null"`
	UnitOfMeasure string          `json:"unit_of_measure" gorm:"type:text;not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:numeric;not null"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:numeric;not null"`
	SortOrder     int             `json:"sort_order" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (BillOfMaterialsItem) TableName() string { return "bill_of_materials_items" }

// QuoteVersion is an append-only snapshot of a quote's breakdown, BOM and
// pricing-config parameters at generation time. Rows are never updated or
// deleted.
type QuoteVersion struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	OrgID         snowflake.ID `json:"organization_id" gorm:"column:org_id;not null;index"`
	QuoteID       snowflake.ID `json:"quote_id" gorm:"not null;index;uniqueIndex:ux_quote_version"`
	VersionNumber int          `json:"version_number" gorm:"not null;uniqueIndex:ux_quote_version"`

	MaterialsCost     decimal.Decimal `json:"materials_cost" gorm:"type:numeric;not null"`
	LaborCost         decimal.Decimal `json:"labor_cost" gorm:"type:numeric;not null"`
	SubtotalAmount    decimal.Decimal `json:"subtotal_amount" gorm:"type:numeric;not null"`
	ContingencyAmount decimal.Decimal `json:"contingency_amount" gorm:"type:numeric;not null"`
	ProfitAmount      decimal.Decimal `json:"profit_amount" gorm:"type:numeric;not null"`
	TotalAmount       decimal.Decimal `json:"total_amount" gorm:"type:numeric;not null"`
	TaxAmount         decimal.Decimal `json:"tax_amount" gorm:"type:numeric;not null"`
	DiscountAmount    decimal.Decimal `json:"discount_amount" gorm:"type:numeric;not null"`
	GrandTotal        decimal.Decimal `json:"grand_total" gorm:"type:numeric;not null"`

	BOMSnapshot     datatypes.JSON `json:"bom_snapshot" gorm:"not null"`
	PricingSnapshot datatypes.JSON `json:"pricing_snapshot" gorm:"not null"`
	ChangeSummary   string         `json:"change_summary" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (QuoteVersion) TableName() string { return "quote_versions" }

// BOMLineSnapshot is the serialized form of one BOM row inside a version.
type BOMLineSnapshot struct {
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	SKU           *string         `json:"sku,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	SortOrder     int             `json:"sort_order"`
}

// TierSnapshot is the serialized form of one height tier inside a version.
type TierSnapshot struct {
	MinHeightMeters decimal.Decimal  `json:"min_height_meters"`
	MaxHeightMeters *decimal.Decimal `json:"max_height_meters,omitempty"`
	Multiplier      decimal.Decimal  `json:"multiplier"`
	Description     string           `json:"description,omitempty"`
}

// PricingSnapshot is the serialized copy of pricing-config parameters inside
// a version. Later edits to the live config never touch stored snapshots.
type PricingSnapshot struct {
	Name                   string          `json:"name"`
	LaborRatePerHour       decimal.Decimal `json:"labor_rate_per_hour"`
	HoursPerLinearMeter    decimal.Decimal `json:"hours_per_linear_meter"`
	ContingencyPercentage  decimal.Decimal `json:"contingency_percentage"`
	ProfitMarginPercentage decimal.Decimal `json:"profit_margin_percentage"`
	HeightTiers            []TierSnapshot  `json:"height_tiers"`
}
