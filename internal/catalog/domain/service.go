package domain

import (
	"context"
	"errors"
)

type CreateComponentRequest struct {
	Name          string `json:"name" binding:"required"`
	Category      string `json:"category" binding:"required"`
	UnitOfMeasure string `json:"unit_of_measure" binding:"required"`
	UnitPrice     string `json:"unit_price" binding:"required"`
	SKU           string `json:"sku"`
}

type RequirementInput struct {
	ComponentID     string `json:"component_id" binding:"required"`
	QuantityPerUnit string `json:"quantity_per_unit" binding:"required"`
}

type CreateFenceTypeRequest struct {
	Name         string             `json:"name" binding:"required"`
	HeightFeet   string             `json:"height_feet" binding:"required"`
	BasePrice    string             `json:"base_price"`
	Requirements []RequirementInput `json:"requirements"`
}

type CreateGateTypeRequest struct {
	Name         string             `json:"name" binding:"required"`
	WidthFeet    string             `json:"width_feet" binding:"required"`
	HeightFeet   string             `json:"height_feet" binding:"required"`
	BasePrice    string             `json:"base_price"`
	Requirements []RequirementInput `json:"requirements"`
}

type Service interface {
	CreateComponent(ctx context.Context, req CreateComponentRequest) (Component, error)
	ListComponents(ctx context.Context) ([]Component, error)
	CreateFenceType(ctx context.Context, req CreateFenceTypeRequest) (FenceType, error)
	ListFenceTypes(ctx context.Context) ([]FenceType, error)
	GetFenceType(ctx context.Context, id string) (FenceType, error)
	CreateGateType(ctx context.Context, req CreateGateTypeRequest) (GateType, error)
	ListGateTypes(ctx context.Context) ([]GateType, error)
	GetGateType(ctx context.Context, id string) (GateType, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrReservedCategory    = errors.New("reserved_category")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrComponentNotFound   = errors.New("component_not_found")
	ErrTypeNotFound        = errors.New("type_not_found")
)
