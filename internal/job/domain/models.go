// Package domain contains persistence models for customer jobs.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// LineItemKind tags what a job line represents.
type LineItemKind string

const (
	LineItemFence LineItemKind = "FENCE"
	LineItemGate  LineItemKind = "GATE"
	LineItemLabor LineItemKind = "LABOR"
	LineItemOther LineItemKind = "OTHER"
)

// Job is a customer record with the line items to be quoted.
type Job struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	CustomerName    string          `json:"customer_name" gorm:"type:text;not null"`
	CustomerEmail   string          `json:"customer_email" gorm:"type:text"`
	CustomerPhone   string          `json:"customer_phone" gorm:"type:text"`
	SiteAddress     string          `json:"site_address" gorm:"type:text"`
	Description     string          `json:"description" gorm:"type:text"`
	TotalLinearFeet decimal.Decimal `json:"total_linear_feet" gorm:"type:numeric;not null"`
	LineItems       []LineItem      `json:"line_items" gorm:"foreignKey:JobID"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Job) TableName() string { return "jobs" }

// LineItem is one row of a job. Quantity is linear feet for fences and a
// count for gates. UnitPrice is the price snapshot taken when the line was
// added; quote BOM pricing reads the catalog instead.
type LineItem struct {
	ID          snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID       snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	JobID       snowflake.ID    `json:"job_id" gorm:"not null;index"`
	Kind        LineItemKind    `json:"kind" gorm:"type:text;not null"`
	FenceTypeID *snowflake.ID   `json:"fence_type_id,omitempty" gorm:"index"`
	GateTypeID  *snowflake.ID   `json:"gate_type_id,omitempty" gorm:"index"`
	Description string          `json:"description" gorm:"type:text"`
	Quantity    decimal.Decimal `json:"quantity" gorm:"type:numeric;not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:numeric;not null"`
	Position    int             `json:"position" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "job_line_items" }

// GraphLine is a line item with its product reference resolved. For fence and
// gate lines the matching pointer is set when the reference resolves; a line
// whose reference dangles keeps both pointers nil and is skipped by the
// aggregator.
type GraphLine struct {
	Item  LineItem
	Fence *catalogdomain.FenceType
	Gate  *catalogdomain.GateType
}

// Graph is a fully hydrated job: every line carries its resolved type with
// ordered component requirements and their components.
type Graph struct {
	Job   Job
	Lines []GraphLine
}
