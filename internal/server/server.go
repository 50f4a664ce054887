// Package server exposes the HTTP surface: admin routes scoped by the
// X-Org-ID header and public routes keyed by share token.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fenceworks/quotegen/internal/catalog"
	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	"github.com/fenceworks/quotegen/internal/config"
	"github.com/fenceworks/quotegen/internal/job"
	jobdomain "github.com/fenceworks/quotegen/internal/job/domain"
	"github.com/fenceworks/quotegen/internal/organization"
	orgdomain "github.com/fenceworks/quotegen/internal/organization/domain"
	"github.com/fenceworks/quotegen/internal/pricing"
	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/fenceworks/quotegen/internal/quote"
	quotedomain "github.com/fenceworks/quotegen/internal/quote/domain"
	"github.com/fenceworks/quotegen/internal/quote/export"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	organization.Module,
	catalog.Module,
	job.Module,
	pricing.Module,
	quote.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	genID  *snowflake.Node

	organizationSvc orgdomain.Service
	catalogSvc      catalogdomain.Service
	jobSvc          jobdomain.Service
	pricingSvc      pricingdomain.Service
	quoteSvc        quotedomain.Service
	exportSvc       *export.Service
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	GenID *snowflake.Node

	OrganizationSvc orgdomain.Service
	CatalogSvc      catalogdomain.Service
	JobSvc          jobdomain.Service
	PricingSvc      pricingdomain.Service
	QuoteSvc        quotedomain.Service
	ExportSvc       *export.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine: p.Gin,
		cfg:    p.Cfg,
		genID:  p.GenID,

		organizationSvc: p.OrganizationSvc,
		catalogSvc:      p.CatalogSvc,
		jobSvc:          p.JobSvc,
		pricingSvc:      p.PricingSvc,
		quoteSvc:        p.QuoteSvc,
		exportSvc:       p.ExportSvc,
	}

	svc.registerAPIRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	api.POST("/organizations", s.CreateOrganization)
	api.GET("/organizations", s.ListOrganizations)
	api.GET("/organizations/:id", s.GetOrganizationByID)

	org := api.Group("", s.OrgContext())

	// -------- Catalog --------
	org.GET("/components", s.ListComponents)
	org.POST("/components", s.CreateComponent)
	org.GET("/fence_types", s.ListFenceTypes)
	org.POST("/fence_types", s.CreateFenceType)
	org.GET("/fence_types/:id", s.GetFenceTypeByID)
	org.GET("/gate_types", s.ListGateTypes)
	org.POST("/gate_types", s.CreateGateType)
	org.GET("/gate_types/:id", s.GetGateTypeByID)

	// -------- Jobs --------
	org.GET("/jobs", s.ListJobs)
	org.POST("/jobs", s.CreateJob)
	org.GET("/jobs/:id", s.GetJobByID)
	org.PATCH("/jobs/:id", s.UpdateJob)

	// -------- Pricing configs --------
	org.GET("/pricing_configs", s.ListPricingConfigs)
	org.POST("/pricing_configs", s.CreatePricingConfig)
	org.GET("/pricing_configs/:id", s.GetPricingConfigByID)

	// -------- Quotes --------
	org.GET("/quotes", s.ListQuotes)
	org.POST("/quotes", s.GenerateQuote)
	org.GET("/quotes/:id", s.GetQuoteByID)
	org.POST("/quotes/:id/recalculate", s.RecalculateQuote)
	org.POST("/quotes/:id/status", s.UpdateQuoteStatus)
	org.POST("/quotes/:id/share", s.IssueQuoteShareToken)
	org.GET("/quotes/:id/export", s.ExportQuote)
}

func (s *Server) registerPublicRoutes() {
	public := s.engine.Group("/public")

	public.GET("/quotes/:token", s.GetSharedQuote)
	public.GET("/quotes/:token/document", s.GetSharedQuoteDocument)
}
