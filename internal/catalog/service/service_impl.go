package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	"github.com/fenceworks/quotegen/pkg/db/option"
	"github.com/fenceworks/quotegen/pkg/repository"
	"github.com/fenceworks/quotegen/pkg/tenantctx"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID         *snowflake.Node
	componentRepo repository.Repository[catalogdomain.Component]
	fenceRepo     repository.Repository[catalogdomain.FenceType]
	gateRepo      repository.Repository[catalogdomain.GateType]
}

func NewService(p ServiceParam) catalogdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("catalog.service"),

		genID:         p.GenID,
		componentRepo: repository.ProvideStore[catalogdomain.Component](p.DB),
		fenceRepo:     repository.ProvideStore[catalogdomain.FenceType](p.DB),
		gateRepo:      repository.ProvideStore[catalogdomain.GateType](p.DB),
	}
}

func (s *Service) CreateComponent(ctx context.Context, req catalogdomain.CreateComponentRequest) (catalogdomain.Component, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return catalogdomain.Component{}, err
	}

	category := strings.TrimSpace(req.Category)
	if strings.EqualFold(category, catalogdomain.CategoryLabor) {
		return catalogdomain.Component{}, catalogdomain.ErrReservedCategory
	}

	unitPrice, err := parseAmount(req.UnitPrice)
	if err != nil {
		return catalogdomain.Component{}, err
	}

	now := time.Now().UTC()
	component := catalogdomain.Component{
		ID:            s.genID.Generate(),
		OrgID:         orgID,
		Name:          strings.TrimSpace(req.Name),
		Category:      category,
		UnitOfMeasure: strings.TrimSpace(req.UnitOfMeasure),
		UnitPrice:     unitPrice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if sku := strings.TrimSpace(req.SKU); sku != "" {
		component.SKU = &sku
	}

	if err := s.componentRepo.Create(ctx, &component); err != nil {
		return catalogdomain.Component{}, err
	}
	return component, nil
}

func (s *Service) ListComponents(ctx context.Context) ([]catalogdomain.Component, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.componentRepo.Find(ctx, &catalogdomain.Component{OrgID: orgID},
		option.WithOrder("category, name"))
	if err != nil {
		return nil, err
	}

	components := make([]catalogdomain.Component, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		components = append(components, *row)
	}
	return components, nil
}

func (s *Service) CreateFenceType(ctx context.Context, req catalogdomain.CreateFenceTypeRequest) (catalogdomain.FenceType, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return catalogdomain.FenceType{}, err
	}

	height, err := parseAmount(req.HeightFeet)
	if err != nil {
		return catalogdomain.FenceType{}, err
	}
	basePrice, err := parseOptionalAmount(req.BasePrice)
	if err != nil {
		return catalogdomain.FenceType{}, err
	}

	now := time.Now().UTC()
	fence := catalogdomain.FenceType{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		Name:       strings.TrimSpace(req.Name),
		HeightFeet: height,
		BasePrice:  basePrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	requirements, err := s.buildRequirements(ctx, orgID, &fence.ID, nil, req.Requirements, now)
	if err != nil {
		return catalogdomain.FenceType{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.fenceRepo.WithTrx(tx).Create(ctx, &fence); err != nil {
			return err
		}
		for i := range requirements {
			if err := tx.Create(&requirements[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return catalogdomain.FenceType{}, err
	}

	fence.Requirements = requirements
	return fence, nil
}

func (s *Service) ListFenceTypes(ctx context.Context) ([]catalogdomain.FenceType, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []catalogdomain.FenceType
	err = s.db.WithContext(ctx).
		Preload("Requirements", preloadOrdered).
		Preload("Requirements.Component").
		Where(&catalogdomain.FenceType{OrgID: orgID}).
		Order("name").
		Find(&rows).Error
	return rows, err
}

func (s *Service) GetFenceType(ctx context.Context, id string) (catalogdomain.FenceType, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return catalogdomain.FenceType{}, err
	}

	typeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return catalogdomain.FenceType{}, catalogdomain.ErrTypeNotFound
	}

	var fence catalogdomain.FenceType
	err = s.db.WithContext(ctx).
		Preload("Requirements", preloadOrdered).
		Preload("Requirements.Component").
		Where(&catalogdomain.FenceType{ID: typeID, OrgID: orgID}).
		First(&fence).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return catalogdomain.FenceType{}, catalogdomain.ErrTypeNotFound
		}
		return catalogdomain.FenceType{}, err
	}
	return fence, nil
}

func (s *Service) CreateGateType(ctx context.Context, req catalogdomain.CreateGateTypeRequest) (catalogdomain.GateType, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return catalogdomain.GateType{}, err
	}

	width, err := parseAmount(req.WidthFeet)
	if err != nil {
		return catalogdomain.GateType{}, err
	}
	height, err := parseAmount(req.HeightFeet)
	if err != nil {
		return catalogdomain.GateType{}, err
	}
	basePrice, err := parseOptionalAmount(req.BasePrice)
	if err != nil {
		return catalogdomain.GateType{}, err
	}

	now := time.Now().UTC()
	gate := catalogdomain.GateType{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		Name:       strings.TrimSpace(req.Name),
		WidthFeet:  width,
		HeightFeet: height,
		BasePrice:  basePrice,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	requirements, err := s.buildRequirements(ctx, orgID, nil, &gate.ID, req.Requirements, now)
	if err != nil {
		return catalogdomain.GateType{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.gateRepo.WithTrx(tx).Create(ctx, &gate); err != nil {
			return err
		}
		for i := range requirements {
			if err := tx.Create(&requirements[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return catalogdomain.GateType{}, err
	}

	gate.Requirements = requirements
	return gate, nil
}

func (s *Service) ListGateTypes(ctx context.Context) ([]catalogdomain.GateType, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []catalogdomain.GateType
	err = s.db.WithContext(ctx).
		Preload("Requirements", preloadOrdered).
		Preload("Requirements.Component").
		Where(&catalogdomain.GateType{OrgID: orgID}).
		Order("name").
		Find(&rows).Error
	return rows, err
}

func (s *Service) GetGateType(ctx context.Context, id string) (catalogdomain.GateType, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return catalogdomain.GateType{}, err
	}

	typeID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return catalogdomain.GateType{}, catalogdomain.ErrTypeNotFound
	}

	var gate catalogdomain.GateType
	err = s.db.WithContext(ctx).
		Preload("Requirements", preloadOrdered).
		Preload("Requirements.Component").
		Where(&catalogdomain.GateType{ID: typeID, OrgID: orgID}).
		First(&gate).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return catalogdomain.GateType{}, catalogdomain.ErrTypeNotFound
		}
		return catalogdomain.GateType{}, err
	}
	return gate, nil
}

func (s *Service) buildRequirements(
	ctx context.Context,
	orgID snowflake.ID,
	fenceTypeID, gateTypeID *snowflake.ID,
	inputs []catalogdomain.RequirementInput,
	now time.Time,
) ([]catalogdomain.ComponentRequirement, error) {
	requirements := make([]catalogdomain.ComponentRequirement, 0, len(inputs))
	for i, input := range inputs {
		componentID, err := snowflake.ParseString(strings.TrimSpace(input.ComponentID))
		if err != nil {
			return nil, catalogdomain.ErrComponentNotFound
		}
		component, err := s.componentRepo.FindOne(ctx, &catalogdomain.Component{ID: componentID, OrgID: orgID})
		if err != nil {
			return nil, err
		}
		if component == nil {
			return nil, catalogdomain.ErrComponentNotFound
		}

		qty, err := parseAmount(input.QuantityPerUnit)
		if err != nil {
			return nil, err
		}

		requirements = append(requirements, catalogdomain.ComponentRequirement{
			ID:              s.genID.Generate(),
			OrgID:           orgID,
			FenceTypeID:     fenceTypeID,
			GateTypeID:      gateTypeID,
			ComponentID:     componentID,
			QuantityPerUnit: qty,
			Position:        i,
			Component:       component,
			CreatedAt:       now,
		})
	}
	return requirements, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := tenantctx.OrgID(ctx)
	if !ok || orgID == 0 {
		return 0, catalogdomain.ErrInvalidOrganization
	}
	return orgID, nil
}

func preloadOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Zero, catalogdomain.ErrInvalidAmount
	}
	return value, nil
}

func parseOptionalAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return parseAmount(raw)
}
