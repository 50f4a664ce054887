package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/fenceworks/quotegen/internal/organization/domain"
	"github.com/fenceworks/quotegen/pkg/repository"
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
	orgRepo repository.Repository[orgdomain.Organization]
}

func NewService(p ServiceParam) orgdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("organization.service"),

		genID:   p.GenID,
		orgRepo: repository.ProvideStore[orgdomain.Organization](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req orgdomain.CreateOrganizationRequest) (orgdomain.Organization, error) {
	now := time.Now().UTC()
	org := orgdomain.Organization{
		ID:        s.genID.Generate(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orgRepo.Create(ctx, &org); err != nil {
		return orgdomain.Organization{}, err
	}
	return org, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (orgdomain.Organization, error) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return orgdomain.Organization{}, orgdomain.ErrOrganizationNotFound
	}

	row, err := s.orgRepo.FindOne(ctx, &orgdomain.Organization{ID: orgID})
	if err != nil {
		return orgdomain.Organization{}, err
	}
	if row == nil {
		return orgdomain.Organization{}, orgdomain.ErrOrganizationNotFound
	}
	return *row, nil
}

func (s *Service) List(ctx context.Context) ([]orgdomain.Organization, error) {
	rows, err := s.orgRepo.Find(ctx, &orgdomain.Organization{})
	if err != nil {
		return nil, err
	}

	orgs := make([]orgdomain.Organization, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		orgs = append(orgs, *row)
	}
	return orgs, nil
}
