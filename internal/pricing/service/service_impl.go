package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
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

	genID      *snowflake.Node
	configRepo repository.Repository[pricingdomain.PricingConfig]
}

func NewService(p ServiceParam) pricingdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("pricing.service"),

		genID:      p.GenID,
		configRepo: repository.ProvideStore[pricingdomain.PricingConfig](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req pricingdomain.CreatePricingConfigRequest) (pricingdomain.PricingConfig, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return pricingdomain.PricingConfig{}, err
	}

	laborRate, err := parseAmount(req.LaborRatePerHour)
	if err != nil {
		return pricingdomain.PricingConfig{}, err
	}
	hoursPerMeter, err := parseAmount(req.HoursPerLinearMeter)
	if err != nil {
		return pricingdomain.PricingConfig{}, err
	}
	contingency, err := parseOptionalAmount(req.ContingencyPercentage)
	if err != nil {
		return pricingdomain.PricingConfig{}, err
	}
	profit, err := parseOptionalAmount(req.ProfitMarginPercentage)
	if err != nil {
		return pricingdomain.PricingConfig{}, err
	}

	now := time.Now().UTC()
	cfg := pricingdomain.PricingConfig{
		ID:                     s.genID.Generate(),
		OrgID:                  orgID,
		Name:                   strings.TrimSpace(req.Name),
		LaborRatePerHour:       laborRate,
		HoursPerLinearMeter:    hoursPerMeter,
		ContingencyPercentage:  contingency,
		ProfitMarginPercentage: profit,
		IsDefault:              req.IsDefault,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	tiers := make([]pricingdomain.HeightTier, 0, len(req.HeightTiers))
	for _, input := range req.HeightTiers {
		minHeight, err := parseAmount(input.MinHeightMeters)
		if err != nil {
			return pricingdomain.PricingConfig{}, err
		}
		multiplier, err := parseAmount(input.Multiplier)
		if err != nil {
			return pricingdomain.PricingConfig{}, err
		}

		t := pricingdomain.HeightTier{
			ID:              s.genID.Generate(),
			OrgID:           orgID,
			PricingConfigID: cfg.ID,
			MinHeightMeters: minHeight,
			Multiplier:      multiplier,
			Description:     strings.TrimSpace(input.Description),
			CreatedAt:       now,
		}
		if strings.TrimSpace(input.MaxHeightMeters) != "" {
			maxHeight, err := parseAmount(input.MaxHeightMeters)
			if err != nil {
				return pricingdomain.PricingConfig{}, err
			}
			t.MaxHeightMeters = &maxHeight
		}
		tiers = append(tiers, t)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A new default displaces the previous one.
		if cfg.IsDefault {
			if err := tx.Model(&pricingdomain.PricingConfig{}).
				Where("org_id = ? AND is_default = ?", orgID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		if err := s.configRepo.WithTrx(tx).Create(ctx, &cfg); err != nil {
			return err
		}
		for i := range tiers {
			if err := tx.Create(&tiers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return pricingdomain.PricingConfig{}, err
	}

	cfg.HeightTiers = tiers
	return cfg, nil
}

func (s *Service) List(ctx context.Context) ([]pricingdomain.PricingConfig, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []pricingdomain.PricingConfig
	err = s.db.WithContext(ctx).
		Preload("HeightTiers", preloadTiersOrdered).
		Where(&pricingdomain.PricingConfig{OrgID: orgID}).
		Order("name").
		Find(&rows).Error
	return rows, err
}

func (s *Service) GetByID(ctx context.Context, id string) (pricingdomain.PricingConfig, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return pricingdomain.PricingConfig{}, err
	}

	configID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return pricingdomain.PricingConfig{}, pricingdomain.ErrPricingConfigNotFound
	}

	return s.findConfig(ctx, &pricingdomain.PricingConfig{ID: configID, OrgID: orgID})
}

func (s *Service) Resolve(ctx context.Context, id string) (pricingdomain.PricingConfig, error) {
	if strings.TrimSpace(id) != "" {
		return s.GetByID(ctx, id)
	}

	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return pricingdomain.PricingConfig{}, err
	}

	return s.findConfig(ctx, &pricingdomain.PricingConfig{OrgID: orgID, IsDefault: true})
}

func (s *Service) findConfig(ctx context.Context, filter *pricingdomain.PricingConfig) (pricingdomain.PricingConfig, error) {
	var cfg pricingdomain.PricingConfig
	err := s.db.WithContext(ctx).
		Preload("HeightTiers", preloadTiersOrdered).
		Where(filter).
		First(&cfg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pricingdomain.PricingConfig{}, pricingdomain.ErrPricingConfigNotFound
		}
		return pricingdomain.PricingConfig{}, err
	}
	return cfg, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := tenantctx.OrgID(ctx)
	if !ok || orgID == 0 {
		return 0, pricingdomain.ErrInvalidOrganization
	}
	return orgID, nil
}

func preloadTiersOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("min_height_meters")
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Zero, pricingdomain.ErrInvalidAmount
	}
	return value, nil
}

func parseOptionalAmount(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return parseAmount(raw)
}
