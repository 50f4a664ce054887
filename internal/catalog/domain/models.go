// Package domain contains persistence models for the material catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// CategoryLabor is reserved for the synthetic labor row on generated
// bills of materials; catalog components may not use it.
const CategoryLabor = "Labor"

// Component is a purchasable catalog item.
type Component struct {
	ID            snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID         snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	Name          string          `json:"name" gorm:"type:text;not null"`
	Category      string          `json:"category" gorm:"type:text;not null"`
	UnitOfMeasure string          `json:"unit_of_measure" gorm:"type:text;not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:numeric;not null"`
	SKU           *string         `json:"sku,omitempty" gorm:"type:text"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Component) TableName() string { return "components" }

// FenceType is a named fence product. Requirements are per linear foot.
type FenceType struct {
	ID           snowflake.ID           `json:"id" gorm:"primaryKey"`
	OrgID        snowflake.ID           `json:"organization_id" gorm:"column:org_id;not null;index"`
	Name         string                 `json:"name" gorm:"type:text;not null"`
	HeightFeet   decimal.Decimal        `json:"height_feet" gorm:"type:numeric;not null"`
	BasePrice    decimal.Decimal        `json:"base_price" gorm:"type:numeric;not null"`
	Requirements []ComponentRequirement `json:"requirements" gorm:"foreignKey:FenceTypeID"`
	CreatedAt    time.Time              `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time              `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (FenceType) TableName() string { return "fence_types" }

// GateType is a named gate product. Requirements are per gate.
type GateType struct {
	ID           snowflake.ID           `json:"id" gorm:"primaryKey"`
	OrgID        snowflake.ID           `json:"organization_id" gorm:"column:org_id;not null;index"`
	Name         string                 `json:"name" gorm:"type:text;not null"`
	WidthFeet    decimal.Decimal        `json:"width_feet" gorm:"type:numeric;not null"`
	HeightFeet   decimal.Decimal        `json:"height_feet" gorm:"type:numeric;not null"`
	BasePrice    decimal.Decimal        `json:"base_price" gorm:"type:numeric;not null"`
	Requirements []ComponentRequirement `json:"requirements" gorm:"foreignKey:GateTypeID"`
	CreatedAt    time.Time              `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time              `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (GateType) TableName() string { return "gate_types" }

// ComponentRequirement binds a component to a fence or gate type with the
// quantity consumed per unit (per linear foot for fences, per gate for gates).
// Exactly one of FenceTypeID/GateTypeID is set.
type ComponentRequirement struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID    `json:"organization_id" gorm:"column:org_id;not null;index"`
	FenceTypeID     *snowflake.ID   `json:"fence_type_id,omitempty" gorm:"index"`
	GateTypeID      *snowflake.ID   `json:"gate_type_id,omitempty" gorm:"index"`
	ComponentID     snowflake.ID    `json:"component_id" gorm:"not null;index"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" gorm:"type:numeric;not null"`
	Position        int             `json:"position" gorm:"not null;default:0"`
	Component       *Component      `json:"component,omitempty" gorm:"foreignKey:ComponentID"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ComponentRequirement) TableName() string { return "component_requirements" }
