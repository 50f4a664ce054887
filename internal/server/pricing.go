package server

import (
	"net/http"

	pricingdomain "github.com/fenceworks/quotegen/internal/pricing/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreatePricingConfig(c *gin.Context) {
	var req pricingdomain.CreatePricingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	cfg, err := s.pricingSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": cfg})
}

func (s *Server) ListPricingConfigs(c *gin.Context) {
	configs, err := s.pricingSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": configs})
}

func (s *Server) GetPricingConfigByID(c *gin.Context) {
	cfg, err := s.pricingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": cfg})
}
