package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	jobdomain "github.com/fenceworks/quotegen/internal/job/domain"
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

	genID   *snowflake.Node
	jobRepo repository.Repository[jobdomain.Job]
}

func NewService(p ServiceParam) jobdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("job.service"),

		genID:   p.GenID,
		jobRepo: repository.ProvideStore[jobdomain.Job](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req jobdomain.CreateJobRequest) (jobdomain.Job, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return jobdomain.Job{}, err
	}

	totalLinearFeet := decimal.Zero
	if strings.TrimSpace(req.TotalLinearFeet) != "" {
		totalLinearFeet, err = parseAmount(req.TotalLinearFeet)
		if err != nil {
			return jobdomain.Job{}, err
		}
	}

	now := time.Now().UTC()
	job := jobdomain.Job{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		SiteAddress:     strings.TrimSpace(req.SiteAddress),
		Description:     strings.TrimSpace(req.Description),
		TotalLinearFeet: totalLinearFeet,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	items, err := s.buildLineItems(orgID, job.ID, req.LineItems, now)
	if err != nil {
		return jobdomain.Job{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.jobRepo.WithTrx(tx).Create(ctx, &job); err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return jobdomain.Job{}, err
	}

	job.LineItems = items
	return job, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (jobdomain.Job, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return jobdomain.Job{}, err
	}

	jobID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return jobdomain.Job{}, jobdomain.ErrJobNotFound
	}

	var job jobdomain.Job
	err = s.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where(&jobdomain.Job{ID: jobID, OrgID: orgID}).
		First(&job).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return jobdomain.Job{}, jobdomain.ErrJobNotFound
		}
		return jobdomain.Job{}, err
	}
	return job, nil
}

func (s *Service) List(ctx context.Context) ([]jobdomain.Job, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.jobRepo.Find(ctx, &jobdomain.Job{OrgID: orgID})
	if err != nil {
		return nil, err
	}

	jobs := make([]jobdomain.Job, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		jobs = append(jobs, *row)
	}
	return jobs, nil
}

func (s *Service) Update(ctx context.Context, id string, req jobdomain.UpdateJobRequest) (jobdomain.Job, error) {
	job, err := s.GetByID(ctx, id)
	if err != nil {
		return jobdomain.Job{}, err
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if req.TotalLinearFeet != nil {
		totalLinearFeet, err := parseAmount(*req.TotalLinearFeet)
		if err != nil {
			return jobdomain.Job{}, err
		}
		updates["total_linear_feet"] = totalLinearFeet
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if err := s.jobRepo.Update(ctx, job.ID.String(), updates); err != nil {
		return jobdomain.Job{}, err
	}
	return s.GetByID(ctx, id)
}

// LoadGraph hydrates the full object graph the quote engine consumes. Fence
// and gate types are loaded with ordered requirements and components; a line
// whose type reference no longer resolves keeps a nil type.
func (s *Service) LoadGraph(ctx context.Context, id string) (jobdomain.Graph, error) {
	job, err := s.GetByID(ctx, id)
	if err != nil {
		return jobdomain.Graph{}, err
	}

	fenceTypes, gateTypes, err := s.loadReferencedTypes(ctx, job)
	if err != nil {
		return jobdomain.Graph{}, err
	}

	lines := make([]jobdomain.GraphLine, 0, len(job.LineItems))
	for _, item := range job.LineItems {
		line := jobdomain.GraphLine{Item: item}
		switch item.Kind {
		case jobdomain.LineItemFence:
			if item.FenceTypeID != nil {
				line.Fence = fenceTypes[*item.FenceTypeID]
			}
		case jobdomain.LineItemGate:
			if item.GateTypeID != nil {
				line.Gate = gateTypes[*item.GateTypeID]
			}
		}
		lines = append(lines, line)
	}

	return jobdomain.Graph{Job: job, Lines: lines}, nil
}

func (s *Service) loadReferencedTypes(ctx context.Context, job jobdomain.Job) (
	map[snowflake.ID]*catalogdomain.FenceType,
	map[snowflake.ID]*catalogdomain.GateType,
	error,
) {
	fenceIDs := make([]snowflake.ID, 0)
	gateIDs := make([]snowflake.ID, 0)
	for _, item := range job.LineItems {
		if item.Kind == jobdomain.LineItemFence && item.FenceTypeID != nil {
			fenceIDs = append(fenceIDs, *item.FenceTypeID)
		}
		if item.Kind == jobdomain.LineItemGate && item.GateTypeID != nil {
			gateIDs = append(gateIDs, *item.GateTypeID)
		}
	}

	fenceTypes := make(map[snowflake.ID]*catalogdomain.FenceType, len(fenceIDs))
	if len(fenceIDs) > 0 {
		var rows []catalogdomain.FenceType
		err := s.db.WithContext(ctx).
			Preload("Requirements", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
			Preload("Requirements.Component").
			Where("org_id = ? AND id IN ?", job.OrgID, fenceIDs).
			Find(&rows).Error
		if err != nil {
			return nil, nil, err
		}
		for i := range rows {
			fenceTypes[rows[i].ID] = &rows[i]
		}
	}

	gateTypes := make(map[snowflake.ID]*catalogdomain.GateType, len(gateIDs))
	if len(gateIDs) > 0 {
		var rows []catalogdomain.GateType
		err := s.db.WithContext(ctx).
			Preload("Requirements", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
			Preload("Requirements.Component").
			Where("org_id = ? AND id IN ?", job.OrgID, gateIDs).
			Find(&rows).Error
		if err != nil {
			return nil, nil, err
		}
		for i := range rows {
			gateTypes[rows[i].ID] = &rows[i]
		}
	}

	return fenceTypes, gateTypes, nil
}

func (s *Service) buildLineItems(
	orgID, jobID snowflake.ID,
	inputs []jobdomain.LineItemInput,
	now time.Time,
) ([]jobdomain.LineItem, error) {
	items := make([]jobdomain.LineItem, 0, len(inputs))
	for i, input := range inputs {
		kind := jobdomain.LineItemKind(strings.ToUpper(strings.TrimSpace(input.Kind)))
		switch kind {
		case jobdomain.LineItemFence, jobdomain.LineItemGate, jobdomain.LineItemLabor, jobdomain.LineItemOther:
		default:
			return nil, jobdomain.ErrInvalidLineItem
		}

		item := jobdomain.LineItem{
			ID:          s.genID.Generate(),
			OrgID:       orgID,
			JobID:       jobID,
			Kind:        kind,
			Description: strings.TrimSpace(input.Description),
			Position:    i,
			CreatedAt:   now,
		}

		qty, err := parseAmount(input.Quantity)
		if err != nil {
			return nil, err
		}
		item.Quantity = qty

		item.UnitPrice = decimal.Zero
		if strings.TrimSpace(input.UnitPrice) != "" {
			price, err := parseAmount(input.UnitPrice)
			if err != nil {
				return nil, err
			}
			item.UnitPrice = price
		}

		switch kind {
		case jobdomain.LineItemFence:
			if strings.TrimSpace(input.FenceTypeID) == "" {
				return nil, jobdomain.ErrInvalidLineItem
			}
			typeID, err := snowflake.ParseString(strings.TrimSpace(input.FenceTypeID))
			if err != nil {
				return nil, jobdomain.ErrInvalidLineItem
			}
			item.FenceTypeID = &typeID
		case jobdomain.LineItemGate:
			if strings.TrimSpace(input.GateTypeID) == "" {
				return nil, jobdomain.ErrInvalidLineItem
			}
			typeID, err := snowflake.ParseString(strings.TrimSpace(input.GateTypeID))
			if err != nil {
				return nil, jobdomain.ErrInvalidLineItem
			}
			item.GateTypeID = &typeID
		default:
			// Labor and Other lines never reference a product type.
			if strings.TrimSpace(input.FenceTypeID) != "" || strings.TrimSpace(input.GateTypeID) != "" {
				return nil, jobdomain.ErrInvalidLineItem
			}
		}

		items = append(items, item)
	}
	return items, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := tenantctx.OrgID(ctx)
	if !ok || orgID == 0 {
		return 0, jobdomain.ErrInvalidOrganization
	}
	return orgID, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Zero, jobdomain.ErrInvalidAmount
	}
	return value, nil
}
