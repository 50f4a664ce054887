package export

import (
	"context"

	"github.com/fenceworks/quotegen/internal/config"
	jobdomain "github.com/fenceworks/quotegen/internal/job/domain"
	orgdomain "github.com/fenceworks/quotegen/internal/organization/domain"
	quotedomain "github.com/fenceworks/quotegen/internal/quote/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Quoting *config.QuotingConfigHolder
}

// Service turns an already-loaded quote into rendered documents. The caller
// resolves the quote (by ID or share token) so tenancy checks happen before
// anything is rendered.
type Service struct {
	db  *gorm.DB
	log *zap.Logger

	quoting *config.QuotingConfigHolder
	html    *HTMLRenderer
	xlsx    *XLSXWriter
}

func NewService(p ServiceParam) *Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("quote.export"),

		quoting: p.Quoting,
		html:    NewHTMLRenderer(),
		xlsx:    NewXLSXWriter(),
	}
}

// BuildView projects a quote, its organization and its job's customer block
// into render input. A deleted job leaves the customer block empty rather
// than failing; the quote's own numbers are still exportable.
func (s *Service) BuildView(ctx context.Context, quote quotedomain.Quote) (RenderInput, error) {
	cfg := s.quoting.Get()

	input := RenderInput{
		Document: DocumentView{
			Number:   quote.QuoteNumber,
			Status:   string(quote.Status),
			Version:  quote.CurrentVersion,
			IssuedAt: quote.CreatedAt,
		},
		Company: CompanyView{
			Name:         cfg.CompanyName,
			PrimaryColor: cfg.PrimaryColor,
			FooterNotes:  cfg.FooterNotes,
		},
		Totals: TotalsView{
			Materials:   quote.MaterialsCost,
			Labor:       quote.LaborCost,
			Subtotal:    quote.SubtotalAmount,
			Contingency: quote.ContingencyAmount,
			Profit:      quote.ProfitAmount,
			Total:       quote.TotalAmount,
			Tax:         quote.TaxAmount,
			GrandTotal:  quote.GrandTotal,
		},
	}

	var org orgdomain.Organization
	err := s.db.WithContext(ctx).
		Where("id = ?", quote.OrgID).
		First(&org).Error
	if err == nil && input.Company.Name == "" {
		input.Company.Name = org.Name
	} else if err != nil && err != gorm.ErrRecordNotFound {
		return RenderInput{}, err
	}

	var job jobdomain.Job
	err = s.db.WithContext(ctx).
		Where("id = ? AND org_id = ?", quote.JobID, quote.OrgID).
		First(&job).Error
	switch err {
	case nil:
		input.Customer = CustomerView{
			Name:        job.CustomerName,
			Email:       job.CustomerEmail,
			Phone:       job.CustomerPhone,
			SiteAddress: job.SiteAddress,
		}
	case gorm.ErrRecordNotFound:
		s.log.Warn("exporting quote whose job no longer exists",
			zap.String("quote_id", quote.ID.String()))
	default:
		return RenderInput{}, err
	}

	input.Lines = make([]LineView, 0, len(quote.Items))
	for _, item := range quote.Items {
		line := LineView{
			Category:      item.Category,
			Description:   item.Description,
			Quantity:      item.Quantity,
			UnitOfMeasure: item.UnitOfMeasure,
			UnitPrice:     item.UnitPrice,
			TotalPrice:    item.TotalPrice,
		}
		if item.SKU != nil {
			line.SKU = *item.SKU
		}
		input.Lines = append(input.Lines, line)
	}

	return input, nil
}

func (s *Service) RenderHTML(ctx context.Context, quote quotedomain.Quote) (string, error) {
	input, err := s.BuildView(ctx, quote)
	if err != nil {
		return "", err
	}
	return s.html.Render(input)
}

func (s *Service) RenderCSV(ctx context.Context, quote quotedomain.Quote) ([]byte, error) {
	input, err := s.BuildView(ctx, quote)
	if err != nil {
		return nil, err
	}
	delimiter := ','
	if d := s.quoting.Get().CSVDelimiter; d != "" {
		delimiter = rune(d[0])
	}
	return NewCSVWriter(delimiter).Write(input)
}

func (s *Service) RenderXLSX(ctx context.Context, quote quotedomain.Quote) ([]byte, error) {
	input, err := s.BuildView(ctx, quote)
	if err != nil {
		return nil, err
	}
	return s.xlsx.Write(input)
}
