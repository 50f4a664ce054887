// Package seed bootstraps a fresh database with a default organization and
// pricing configuration so the service is usable immediately after startup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/fenceworks/quotegen/internal/organization/domain"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultOrgName = "Main"

// EnsureMainOrg creates the default organization and a default pricing
// configuration when the database has neither. Safe to run on every startup.
func EnsureMainOrg(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureMainOrgTx(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensureDefaultPricingConfigTx(ctx, tx, node, org.ID)
	})
}

func ensureMainOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (orgdomain.Organization, error) {
	var org orgdomain.Organization
	err := tx.WithContext(ctx).Order("created_at").First(&org).Error
	if err == nil {
		return org, nil
	}
	if err != gorm.ErrRecordNotFound {
		return orgdomain.Organization{}, err
	}

	now := time.Now().UTC()
	org = orgdomain.Organization{
		ID:        node.Generate(),
		Name:      defaultOrgName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return org, tx.WithContext(ctx).Create(&org).Error
}

func ensureDefaultPricingConfigTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&pricingdomain.PricingConfig{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	cfg := pricingdomain.PricingConfig{
		ID:                     node.Generate(),
		OrgID:                  orgID,
		Name:                   "Standard",
		LaborRatePerHour:       decimal.NewFromInt(50),
		HoursPerLinearMeter:    decimal.RequireFromString("0.5"),
		ContingencyPercentage:  decimal.RequireFromString("0.10"),
		ProfitMarginPercentage: decimal.RequireFromString("0.20"),
		IsDefault:              true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := tx.WithContext(ctx).Create(&cfg).Error; err != nil {
		return err
	}

	maxStandard := decimal.RequireFromString("1.8")
	maxTall := decimal.RequireFromString("2.1")
	tiers := []pricingdomain.HeightTier{
		{
			ID:              node.Generate(),
			OrgID:           orgID,
			PricingConfigID: cfg.ID,
			MinHeightMeters: decimal.Zero,
			MaxHeightMeters: &maxStandard,
			Multiplier:      decimal.NewFromInt(1),
			Description:     "Standard height",
			CreatedAt:       now,
		},
		{
			ID:              node.Generate(),
			OrgID:           orgID,
			PricingConfigID: cfg.ID,
			MinHeightMeters: maxStandard,
			MaxHeightMeters: &maxTall,
			Multiplier:      decimal.RequireFromString("1.25"),
			Description:     "Tall",
			CreatedAt:       now,
		},
		{
			ID:              node.Generate(),
			OrgID:           orgID,
			PricingConfigID: cfg.ID,
			MinHeightMeters: maxTall,
			Multiplier:      decimal.RequireFromString("1.5"),
			Description:     "Extra tall",
			CreatedAt:       now,
		},
	}
	for i := range tiers {
		if err := tx.WithContext(ctx).Create(&tiers[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
