package migration

import (
	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	"github.com/fenceworks/quotegen/internal/config"
	jobdomain "github.com/fenceworks/quotegen/internal/job/domain"
	orgdomain "github.com/fenceworks/quotegen/internal/organization/domain"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	quotedomain "github.com/fenceworks/quotegen/internal/quote/domain"
	"github.com/fenceworks/quotegen/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite has no migration driver wired; schema comes from the models.
			if err := autoMigrate(conn); err != nil {
				return err
			}
		}

		return seed.EnsureMainOrg(conn)
	}),
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&orgdomain.Organization{},
		&catalogdomain.Component{},
		&catalogdomain.FenceType{},
		&catalogdomain.GateType{},
		&catalogdomain.ComponentRequirement{},
		&jobdomain.Job{},
		&jobdomain.LineItem{},
		&pricingdomain.PricingConfig{},
		&pricingdomain.HeightTier{},
		&quotedomain.Quote{},
		&quotedomain.BillOfMaterialsItem{},
		&quotedomain.QuoteVersion{},
	)
}
