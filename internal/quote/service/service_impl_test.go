package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	catalogservice "github.com/fenceworks/quotegen/internal/catalog/service"
	"github.com/fenceworks/quotegen/internal/config"
	jobdomain "github.com/fenceworks/quotegen/internal/job/domain"
	jobservice "github.com/fenceworks/quotegen/internal/job/service"
	"github.com/fenceworks/quotegen/internal/organization/domain"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	pricingservice "github.com/fenceworks/quotegen/internal/pricing/service"
	quotedomain "github.com/fenceworks/quotegen/internal/quote/domain"
	"github.com/fenceworks/quotegen/pkg/tenantctx"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type engineFixture struct {
	ctx     context.Context
	db      *gorm.DB
	node    *snowflake.Node
	catalog catalogdomain.Service
	jobs    jobdomain.Service
	pricing pricingdomain.Service
	quotes  quotedomain.Service
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Organization{},
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
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	logger := zap.NewNop()
	jobs := jobservice.NewService(jobservice.ServiceParam{DB: db, Log: logger, GenID: node})
	pricing := pricingservice.NewService(pricingservice.ServiceParam{DB: db, Log: logger, GenID: node})

	quotes := NewService(ServiceParam{
		DB:         db,
		Log:        logger,
		GenID:      node,
		JobSvc:     jobs,
		PricingSvc: pricing,
		Quoting:    config.NewStaticQuotingConfigHolder(config.DefaultQuotingConfig()),
	})

	orgID := node.Generate()
	require.NoError(t, db.Create(&domain.Organization{ID: orgID, Name: "Acme Fencing"}).Error)

	return &engineFixture{
		ctx:     tenantctx.WithOrgID(context.Background(), orgID),
		db:      db,
		node:    node,
		catalog: catalogservice.NewService(catalogservice.ServiceParam{DB: db, Log: logger, GenID: node}),
		jobs:    jobs,
		pricing: pricing,
		quotes:  quotes,
	}
}

func (f *engineFixture) component(t *testing.T, name, category, price, perUnit string) (catalogdomain.Component, catalogdomain.RequirementInput) {
	t.Helper()
	comp, err := f.catalog.CreateComponent(f.ctx, catalogdomain.CreateComponentRequest{
		Name:          name,
		Category:      category,
		UnitOfMeasure: "each",
		UnitPrice:     price,
	})
	require.NoError(t, err)
	return comp, catalogdomain.RequirementInput{
		ComponentID:     comp.ID.String(),
		QuantityPerUnit: perUnit,
	}
}

// seedScenario builds the canonical pricing scenario: a 6 ft privacy fence
// needing 0.125 posts/ft at $45 and 3 rails/ft at $3.50, a 100 linear foot
// job, and a default config at $50/hr, 0.5 hr/m, 10% contingency, 20% profit.
func (f *engineFixture) seedScenario(t *testing.T) jobdomain.Job {
	t.Helper()

	_, postReq := f.component(t, "Wood post", "Posts", "45", "0.125")
	_, railReq := f.component(t, "Rail 2x4", "Lumber", "3.50", "3")

	fence, err := f.catalog.CreateFenceType(f.ctx, catalogdomain.CreateFenceTypeRequest{
		Name:         "Privacy fence",
		HeightFeet:   "6",
		Requirements: []catalogdomain.RequirementInput{postReq, railReq},
	})
	require.NoError(t, err)

	_, err = f.pricing.Create(f.ctx, pricingdomain.CreatePricingConfigRequest{
		Name:                   "Standard",
		LaborRatePerHour:       "50",
		HoursPerLinearMeter:    "0.5",
		ContingencyPercentage:  "0.10",
		ProfitMarginPercentage: "0.20",
		IsDefault:              true,
	})
	require.NoError(t, err)

	job, err := f.jobs.Create(f.ctx, jobdomain.CreateJobRequest{
		CustomerName:    "Jordan Doe",
		TotalLinearFeet: "100",
		LineItems: []jobdomain.LineItemInput{{
			Kind:        "FENCE",
			FenceTypeID: fence.ID.String(),
			Quantity:    "100",
		}},
	})
	require.NoError(t, err)
	return job
}

func assertDecEqual(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s: want %s got %s", msg, want, got)
}

func TestGenerateQuoteScenario(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	quote, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, quotedomain.QuoteStatusDraft, quote.Status)
	assert.Equal(t, 1, quote.CurrentVersion)
	assert.Regexp(t, `^Q-\d{8}-0001$`, quote.QuoteNumber)

	// 100*0.125*45 + 100*3*3.50 = 1612.50 materials.
	// 100 ft = 30.48 m, *0.5 = 15.24 h, *$50 = $762 labor.
	assertDecEqual(t, "1612.50", quote.MaterialsCost, "materials")
	assertDecEqual(t, "762", quote.LaborCost, "labor")
	assertDecEqual(t, "2374.50", quote.SubtotalAmount, "subtotal")
	assertDecEqual(t, "237.45", quote.ContingencyAmount, "contingency")
	assertDecEqual(t, "522.39", quote.ProfitAmount, "profit")
	assertDecEqual(t, "3134.34", quote.TotalAmount, "total")
	assertDecEqual(t, "0", quote.TaxAmount, "tax")
	assertDecEqual(t, "3134.34", quote.GrandTotal, "grand total")

	// Two material rows plus the trailing labor row.
	require.Len(t, quote.Items, 3)
	labor := quote.Items[2]
	assert.Equal(t, catalogdomain.CategoryLabor, labor.Category)
	assertDecEqual(t, "15.24", labor.Quantity, "labor hours")
	assertDecEqual(t, "50", labor.UnitPrice, "labor rate")
	assertDecEqual(t, "762", labor.TotalPrice, "labor cost")

	require.Len(t, quote.Versions, 1)
	assert.Equal(t, 1, quote.Versions[0].VersionNumber)
	assert.Equal(t, "Initial quote", quote.Versions[0].ChangeSummary)
}

func TestGenerateQuoteNumbersSequencePerDay(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	first, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)
	second, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)

	assert.Regexp(t, `-0001$`, first.QuoteNumber)
	assert.Regexp(t, `-0002$`, second.QuoteNumber)
	assert.NotEqual(t, first.QuoteNumber, second.QuoteNumber)
}

func TestGenerateQuoteUnknownJob(t *testing.T) {
	f := newEngineFixture(t)
	f.seedScenario(t)

	_, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{
		JobID: f.node.Generate().String(),
	})
	assert.ErrorIs(t, err, quotedomain.ErrJobNotFound)
}

func TestGenerateQuoteNoPricingConfig(t *testing.T) {
	f := newEngineFixture(t)

	job, err := f.jobs.Create(f.ctx, jobdomain.CreateJobRequest{
		CustomerName:    "Jordan Doe",
		TotalLinearFeet: "10",
	})
	require.NoError(t, err)

	_, err = f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	assert.ErrorIs(t, err, quotedomain.ErrPricingConfigNotFound)
}

func TestRecalculateQuoteBumpsVersionAndReprices(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	quote, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)
	originalTotal := quote.TotalAmount

	feet := "150"
	_, err = f.jobs.Update(f.ctx, job.ID.String(), jobdomain.UpdateJobRequest{TotalLinearFeet: &feet})
	require.NoError(t, err)

	revised, err := f.quotes.RecalculateQuote(f.ctx, quote.ID.String(), quotedomain.RecalculateQuoteRequest{
		ChangeSummary: "Footage corrected after site visit",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, revised.CurrentVersion)
	assert.Equal(t, quotedomain.QuoteStatusRevised, revised.Status)
	assert.Equal(t, quote.QuoteNumber, revised.QuoteNumber)
	assert.True(t, revised.TotalAmount.GreaterThan(originalTotal),
		"repriced total %s should exceed %s", revised.TotalAmount, originalTotal)

	// 150 ft = 45.72 m, *0.5 = 22.86 h, *$50 = $1143.
	assertDecEqual(t, "1143", revised.LaborCost, "labor")

	require.Len(t, revised.Versions, 2)
	assert.Equal(t, 1, revised.Versions[0].VersionNumber)
	assert.Equal(t, 2, revised.Versions[1].VersionNumber)
	assert.Equal(t, "Footage corrected after site visit", revised.Versions[1].ChangeSummary)

	// BOM rows were replaced, not appended.
	var bomCount int64
	require.NoError(t, f.db.Model(&quotedomain.BillOfMaterialsItem{}).
		Where("quote_id = ?", quote.ID).Count(&bomCount).Error)
	assert.EqualValues(t, 3, bomCount)
}

func TestVersionSnapshotsAreImmutable(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	quote, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)

	// Raise the labor rate on the live config after version 1 exists.
	require.NoError(t, f.db.Model(&pricingdomain.PricingConfig{}).
		Where("org_id = ? AND is_default = ?", quote.OrgID, true).
		Update("labor_rate_per_hour", decimal.RequireFromString("90")).Error)

	revised, err := f.quotes.RecalculateQuote(f.ctx, quote.ID.String(), quotedomain.RecalculateQuoteRequest{})
	require.NoError(t, err)
	require.Len(t, revised.Versions, 2)

	var v1, v2 quotedomain.PricingSnapshot
	require.NoError(t, json.Unmarshal(revised.Versions[0].PricingSnapshot, &v1))
	require.NoError(t, json.Unmarshal(revised.Versions[1].PricingSnapshot, &v2))

	assertDecEqual(t, "50", v1.LaborRatePerHour, "version 1 labor rate")
	assertDecEqual(t, "90", v2.LaborRatePerHour, "version 2 labor rate")
	assertDecEqual(t, "762", revised.Versions[0].LaborCost, "version 1 labor cost")
	assertDecEqual(t, "1371.6", revised.Versions[1].LaborCost, "version 2 labor cost")

	var bomLines []quotedomain.BOMLineSnapshot
	require.NoError(t, json.Unmarshal(revised.Versions[0].BOMSnapshot, &bomLines))
	require.Len(t, bomLines, 3)
}

func TestRecalculateQuoteIncompleteReferences(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	quote, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)

	// Delete the underlying job; the quote now points at nothing.
	require.NoError(t, f.db.Delete(&jobdomain.Job{}, "id = ?", job.ID).Error)

	_, err = f.quotes.RecalculateQuote(f.ctx, quote.ID.String(), quotedomain.RecalculateQuoteRequest{})
	assert.ErrorIs(t, err, quotedomain.ErrIncompleteQuote)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	quote, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)

	sent, err := f.quotes.UpdateStatus(f.ctx, quote.ID.String(), quotedomain.QuoteStatusSent)
	require.NoError(t, err)
	assert.Equal(t, quotedomain.QuoteStatusSent, sent.Status)

	accepted, err := f.quotes.UpdateStatus(f.ctx, quote.ID.String(), quotedomain.QuoteStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, quotedomain.QuoteStatusAccepted, accepted.Status)

	// Accepted is terminal.
	_, err = f.quotes.UpdateStatus(f.ctx, quote.ID.String(), quotedomain.QuoteStatusRejected)
	assert.ErrorIs(t, err, quotedomain.ErrInvalidStatusTransition)
}

func TestUpdateStatusRejectsSkippingDraft(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	quote, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)

	_, err = f.quotes.UpdateStatus(f.ctx, quote.ID.String(), quotedomain.QuoteStatusAccepted)
	assert.ErrorIs(t, err, quotedomain.ErrInvalidStatusTransition)
}

func TestShareTokenRoundTrip(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	quote, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)

	token, err := f.quotes.IssueShareToken(f.ctx, quote.ID.String())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Idempotent: a second issue returns the same token.
	again, err := f.quotes.IssueShareToken(f.ctx, quote.ID.String())
	require.NoError(t, err)
	assert.Equal(t, token, again)

	// Public fetch needs no organization in context.
	shared, err := f.quotes.GetByShareToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, quote.ID, shared.ID)

	_, err = f.quotes.GetByShareToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, quotedomain.ErrQuoteNotFound)
}

func TestQuoteIsolationBetweenOrganizations(t *testing.T) {
	f := newEngineFixture(t)
	job := f.seedScenario(t)

	quote, err := f.quotes.GenerateQuote(f.ctx, quotedomain.GenerateQuoteRequest{JobID: job.ID.String()})
	require.NoError(t, err)

	otherCtx := tenantctx.WithOrgID(context.Background(), f.node.Generate())
	_, err = f.quotes.GetByID(otherCtx, quote.ID.String())
	assert.ErrorIs(t, err, quotedomain.ErrQuoteNotFound)

	rows, err := f.quotes.List(otherCtx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGenerateQuoteRequiresOrganization(t *testing.T) {
	f := newEngineFixture(t)
	_, err := f.quotes.GenerateQuote(context.Background(), quotedomain.GenerateQuoteRequest{JobID: "1"})
	assert.ErrorIs(t, err, quotedomain.ErrInvalidOrganization)
}
