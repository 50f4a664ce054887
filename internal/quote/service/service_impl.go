package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fenceworks/quotegen/internal/config"
	jobdomain "github.com/fenceworks/quotegen/internal/job/domain"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/fenceworks/quotegen/internal/quote/bom"
	"github.com/fenceworks/quotegen/internal/quote/costing"
	quotedomain "github.com/fenceworks/quotegen/internal/quote/domain"
	"github.com/fenceworks/quotegen/internal/quote/format"
	"github.com/fenceworks/quotegen/pkg/repository"
	"github.com/fenceworks/quotegen/pkg/tenantctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	JobSvc     jobdomain.Service
	PricingSvc pricingdomain.Service
	Quoting    *config.QuotingConfigHolder
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID      *snowflake.Node
	jobSvc     jobdomain.Service
	pricingSvc pricingdomain.Service
	quoting    *config.QuotingConfigHolder
	quoteRepo  repository.Repository[quotedomain.Quote]
}

func NewService(p ServiceParam) quotedomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("quote.service"),

		genID:      p.GenID,
		jobSvc:     p.JobSvc,
		pricingSvc: p.PricingSvc,
		quoting:    p.Quoting,
		quoteRepo:  repository.ProvideStore[quotedomain.Quote](p.DB),
	}
}

func (s *Service) GenerateQuote(ctx context.Context, req quotedomain.GenerateQuoteRequest) (quotedomain.Quote, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return quotedomain.Quote{}, err
	}

	graph, err := s.jobSvc.LoadGraph(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, jobdomain.ErrJobNotFound) {
			return quotedomain.Quote{}, quotedomain.ErrJobNotFound
		}
		return quotedomain.Quote{}, err
	}

	cfg, err := s.pricingSvc.Resolve(ctx, req.PricingConfigID)
	if err != nil {
		if errors.Is(err, pricingdomain.ErrPricingConfigNotFound) {
			return quotedomain.Quote{}, quotedomain.ErrPricingConfigNotFound
		}
		return quotedomain.Quote{}, err
	}

	labor := costing.ComputeLabor(graph.Job.TotalLinearFeet, cfg)
	expansion := bom.Aggregate(graph, cfg, labor)
	breakdown := costing.ComputeBreakdown(expansion.MaterialsCost, labor.Cost, cfg)
	s.logMultipliers(graph.Job.ID, expansion)

	now := time.Now().UTC()
	quoteID := s.genID.Generate()
	configID := cfg.ID

	quote := quotedomain.Quote{
		ID:              quoteID,
		OrgID:           orgID,
		JobID:           graph.Job.ID,
		PricingConfigID: &configID,
		CurrentVersion:  1,
		Status:          quotedomain.QuoteStatusDraft,

		MaterialsCost:     breakdown.MaterialsCost,
		LaborCost:         breakdown.LaborCost,
		SubtotalAmount:    breakdown.SubtotalAmount,
		ContingencyAmount: breakdown.ContingencyAmount,
		ProfitAmount:      breakdown.ProfitAmount,
		TotalAmount:       breakdown.TotalAmount,
		TaxAmount:         decimal.Zero,
		DiscountAmount:    decimal.Zero,
		GrandTotal:        breakdown.TotalAmount,

		CreatedAt: now,
		UpdatedAt: now,
	}

	items := s.materializeItems(orgID, quoteID, expansion.Items, now)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.nextQuoteNumber(ctx, tx, orgID, now)
		if err != nil {
			return err
		}
		quote.QuoteNumber = number

		if err := s.quoteRepo.WithTrx(tx).Create(ctx, &quote); err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		version, err := s.buildVersion(quote, items, cfg, "Initial quote", now)
		if err != nil {
			return err
		}
		return tx.Create(&version).Error
	})
	if err != nil {
		return quotedomain.Quote{}, err
	}

	s.log.Info("quote generated",
		zap.String("quote_id", quote.ID.String()),
		zap.String("quote_number", quote.QuoteNumber),
		zap.String("job_id", graph.Job.ID.String()),
	)

	return s.GetByID(ctx, quote.ID.String())
}

func (s *Service) RecalculateQuote(ctx context.Context, quoteID string, req quotedomain.RecalculateQuoteRequest) (quotedomain.Quote, error) {
	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return quotedomain.Quote{}, err
	}
	if quote.JobID == 0 || quote.PricingConfigID == nil {
		return quotedomain.Quote{}, quotedomain.ErrIncompleteQuote
	}

	// Reads the job and config at call time with no optimistic-concurrency
	// check; a competing job edit mid-recalculation can surface a mixed
	// state. Acceptable for a single-operator workflow.
	graph, err := s.jobSvc.LoadGraph(ctx, quote.JobID.String())
	if err != nil {
		if errors.Is(err, jobdomain.ErrJobNotFound) {
			return quotedomain.Quote{}, quotedomain.ErrIncompleteQuote
		}
		return quotedomain.Quote{}, err
	}

	cfg, err := s.pricingSvc.Resolve(ctx, quote.PricingConfigID.String())
	if err != nil {
		if errors.Is(err, pricingdomain.ErrPricingConfigNotFound) {
			return quotedomain.Quote{}, quotedomain.ErrIncompleteQuote
		}
		return quotedomain.Quote{}, err
	}

	labor := costing.ComputeLabor(graph.Job.TotalLinearFeet, cfg)
	expansion := bom.Aggregate(graph, cfg, labor)
	breakdown := costing.ComputeBreakdown(expansion.MaterialsCost, labor.Cost, cfg)
	s.logMultipliers(graph.Job.ID, expansion)

	now := time.Now().UTC()
	newVersion := quote.CurrentVersion + 1
	items := s.materializeItems(quote.OrgID, quote.ID, expansion.Items, now)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Superseded BOM rows are discarded; history lives in the snapshots.
		if err := tx.Where("quote_id = ?", quote.ID).
			Delete(&quotedomain.BillOfMaterialsItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		quote.MaterialsCost = breakdown.MaterialsCost
		quote.LaborCost = breakdown.LaborCost
		quote.SubtotalAmount = breakdown.SubtotalAmount
		quote.ContingencyAmount = breakdown.ContingencyAmount
		quote.ProfitAmount = breakdown.ProfitAmount
		quote.TotalAmount = breakdown.TotalAmount
		quote.GrandTotal = breakdown.TotalAmount.Add(quote.TaxAmount)
		quote.CurrentVersion = newVersion
		quote.Status = quotedomain.QuoteStatusRevised
		quote.UpdatedAt = now

		if err := tx.Model(&quotedomain.Quote{}).
			Where("id = ?", quote.ID).
			Updates(map[string]any{
				"materials_cost":     quote.MaterialsCost,
				"labor_cost":         quote.LaborCost,
				"subtotal_amount":    quote.SubtotalAmount,
				"contingency_amount": quote.ContingencyAmount,
				"profit_amount":      quote.ProfitAmount,
				"total_amount":       quote.TotalAmount,
				"grand_total":        quote.GrandTotal,
				"current_version":    quote.CurrentVersion,
				"status":             quote.Status,
				"updated_at":         quote.UpdatedAt,
			}).Error; err != nil {
			return err
		}

		changeSummary := strings.TrimSpace(req.ChangeSummary)
		if changeSummary == "" {
			changeSummary = "Recalculated"
		}
		version, err := s.buildVersion(quote, items, cfg, changeSummary, now)
		if err != nil {
			return err
		}
		return tx.Create(&version).Error
	})
	if err != nil {
		return quotedomain.Quote{}, err
	}

	s.log.Info("quote recalculated",
		zap.String("quote_id", quote.ID.String()),
		zap.Int("version", newVersion),
	)

	return s.GetByID(ctx, quote.ID.String())
}

func (s *Service) GetByID(ctx context.Context, id string) (quotedomain.Quote, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return quotedomain.Quote{}, err
	}

	quoteID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return quotedomain.Quote{}, quotedomain.ErrQuoteNotFound
	}

	var quote quotedomain.Quote
	err = s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Versions", func(db *gorm.DB) *gorm.DB { return db.Order("version_number") }).
		Where(&quotedomain.Quote{ID: quoteID, OrgID: orgID}).
		First(&quote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return quotedomain.Quote{}, quotedomain.ErrQuoteNotFound
		}
		return quotedomain.Quote{}, err
	}
	return quote, nil
}

func (s *Service) List(ctx context.Context) ([]quotedomain.Quote, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []quotedomain.Quote
	err = s.db.WithContext(ctx).
		Where(&quotedomain.Quote{OrgID: orgID}).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

var statusTransitions = map[quotedomain.QuoteStatus][]quotedomain.QuoteStatus{
	quotedomain.QuoteStatusDraft:   {quotedomain.QuoteStatusPending, quotedomain.QuoteStatusSent},
	quotedomain.QuoteStatusPending: {quotedomain.QuoteStatusSent, quotedomain.QuoteStatusAccepted, quotedomain.QuoteStatusRejected, quotedomain.QuoteStatusExpired},
	quotedomain.QuoteStatusSent:    {quotedomain.QuoteStatusAccepted, quotedomain.QuoteStatusRejected, quotedomain.QuoteStatusExpired},
	quotedomain.QuoteStatusRevised: {quotedomain.QuoteStatusPending, quotedomain.QuoteStatusSent},
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status quotedomain.QuoteStatus) (quotedomain.Quote, error) {
	quote, err := s.loadQuote(ctx, id)
	if err != nil {
		return quotedomain.Quote{}, err
	}

	allowed := false
	for _, next := range statusTransitions[quote.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return quotedomain.Quote{}, quotedomain.ErrInvalidStatusTransition
	}

	err = s.quoteRepo.Update(ctx, quote.ID.String(), map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return quotedomain.Quote{}, err
	}
	return s.GetByID(ctx, id)
}

func (s *Service) IssueShareToken(ctx context.Context, id string) (string, error) {
	quote, err := s.loadQuote(ctx, id)
	if err != nil {
		return "", err
	}
	if quote.ShareToken != nil && *quote.ShareToken != "" {
		return *quote.ShareToken, nil
	}

	token := uuid.NewString()
	err = s.quoteRepo.Update(ctx, quote.ID.String(), map[string]any{
		"share_token": token,
		"updated_at":  time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) GetByShareToken(ctx context.Context, token string) (quotedomain.Quote, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return quotedomain.Quote{}, quotedomain.ErrQuoteNotFound
	}

	var quote quotedomain.Quote
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Where("share_token = ?", token).
		First(&quote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return quotedomain.Quote{}, quotedomain.ErrQuoteNotFound
		}
		return quotedomain.Quote{}, err
	}
	return quote, nil
}

func (s *Service) loadQuote(ctx context.Context, id string) (quotedomain.Quote, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return quotedomain.Quote{}, err
	}

	quoteID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return quotedomain.Quote{}, quotedomain.ErrQuoteNotFound
	}

	row, err := s.quoteRepo.FindOne(ctx, &quotedomain.Quote{ID: quoteID, OrgID: orgID})
	if err != nil {
		return quotedomain.Quote{}, err
	}
	if row == nil {
		return quotedomain.Quote{}, quotedomain.ErrQuoteNotFound
	}
	return *row, nil
}

// nextQuoteNumber counts quotes sharing today's prefix inside the open
// transaction. Two concurrent generates for the same organization and day
// can still compute the same number; the unique index on
// (org_id, quote_number) rejects the loser and the caller retries.
func (s *Service) nextQuoteNumber(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, now time.Time) (string, error) {
	template := s.quoting.Get().NumberTemplate
	prefix := format.DatePrefix(template, now)

	var count int64
	err := tx.WithContext(ctx).
		Model(&quotedomain.Quote{}).
		Where("org_id = ? AND quote_number LIKE ?", orgID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}

	return format.QuoteNumber(template, now, count)
}

func (s *Service) materializeItems(
	orgID, quoteID snowflake.ID,
	items []quotedomain.BillOfMaterialsItem,
	now time.Time,
) []quotedomain.BillOfMaterialsItem {
	out := make([]quotedomain.BillOfMaterialsItem, len(items))
	for i, item := range items {
		item.ID = s.genID.Generate()
		item.OrgID = orgID
		item.QuoteID = quoteID
		item.CreatedAt = now
		out[i] = item
	}
	return out
}

// buildVersion captures a deep, point-in-time copy of the breakdown, BOM
// lines and pricing parameters. Later edits to the live pricing config must
// never change a stored snapshot.
func (s *Service) buildVersion(
	quote quotedomain.Quote,
	items []quotedomain.BillOfMaterialsItem,
	cfg pricingdomain.PricingConfig,
	changeSummary string,
	now time.Time,
) (quotedomain.QuoteVersion, error) {
	bomLines := make([]quotedomain.BOMLineSnapshot, 0, len(items))
	for _, item := range items {
		bomLines = append(bomLines, quotedomain.BOMLineSnapshot{
			Category:      item.Category,
			Description:   item.Description,
			SKU:           item.SKU,
			Quantity:      item.Quantity,
			UnitOfMeasure: item.UnitOfMeasure,
			UnitPrice:     item.UnitPrice,
			TotalPrice:    item.TotalPrice,
			SortOrder:     item.SortOrder,
		})
	}
	bomJSON, err := json.Marshal(bomLines)
	if err != nil {
		return quotedomain.QuoteVersion{}, err
	}

	tiers := make([]quotedomain.TierSnapshot, 0, len(cfg.HeightTiers))
	for _, t := range cfg.HeightTiers {
		snapshot := quotedomain.TierSnapshot{
			MinHeightMeters: t.MinHeightMeters,
			Multiplier:      t.Multiplier,
			Description:     t.Description,
		}
		if t.MaxHeightMeters != nil {
			maxHeight := *t.MaxHeightMeters
			snapshot.MaxHeightMeters = &maxHeight
		}
		tiers = append(tiers, snapshot)
	}
	pricingJSON, err := json.Marshal(quotedomain.PricingSnapshot{
		Name:                   cfg.Name,
		LaborRatePerHour:       cfg.LaborRatePerHour,
		HoursPerLinearMeter:    cfg.HoursPerLinearMeter,
		ContingencyPercentage:  cfg.ContingencyPercentage,
		ProfitMarginPercentage: cfg.ProfitMarginPercentage,
		HeightTiers:            tiers,
	})
	if err != nil {
		return quotedomain.QuoteVersion{}, err
	}

	return quotedomain.QuoteVersion{
		ID:            s.genID.Generate(),
		OrgID:         quote.OrgID,
		QuoteID:       quote.ID,
		VersionNumber: quote.CurrentVersion,

		MaterialsCost:     quote.MaterialsCost,
		LaborCost:         quote.LaborCost,
		SubtotalAmount:    quote.SubtotalAmount,
		ContingencyAmount: quote.ContingencyAmount,
		ProfitAmount:      quote.ProfitAmount,
		TotalAmount:       quote.TotalAmount,
		TaxAmount:         quote.TaxAmount,
		DiscountAmount:    quote.DiscountAmount,
		GrandTotal:        quote.GrandTotal,

		BOMSnapshot:     bomJSON,
		PricingSnapshot: pricingJSON,
		ChangeSummary:   changeSummary,

		CreatedAt: now,
	}, nil
}

func (s *Service) logMultipliers(jobID snowflake.ID, expansion bom.Expansion) {
	for typeID, multiplier := range expansion.HeightMultipliers {
		s.log.Debug("height tier multiplier resolved",
			zap.String("job_id", jobID.String()),
			zap.String("fence_type_id", typeID.String()),
			zap.String("multiplier", multiplier.String()),
		)
	}
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := tenantctx.OrgID(ctx)
	if !ok || orgID == 0 {
		return 0, quotedomain.ErrInvalidOrganization
	}
	return orgID, nil
}
