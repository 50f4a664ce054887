package server

import (
	"net/http"

	catalogdomain "github.com/fenceworks/quotegen/internal/catalog/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateComponent(c *gin.Context) {
	var req catalogdomain.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	component, err := s.catalogSvc.CreateComponent(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": component})
}

func (s *Server) ListComponents(c *gin.Context) {
	components, err := s.catalogSvc.ListComponents(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": components})
}

func (s *Server) CreateFenceType(c *gin.Context) {
	var req catalogdomain.CreateFenceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	fenceType, err := s.catalogSvc.CreateFenceType(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": fenceType})
}

func (s *Server) ListFenceTypes(c *gin.Context) {
	fenceTypes, err := s.catalogSvc.ListFenceTypes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fenceTypes})
}

func (s *Server) GetFenceTypeByID(c *gin.Context) {
	fenceType, err := s.catalogSvc.GetFenceType(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": fenceType})
}

func (s *Server) CreateGateType(c *gin.Context) {
	var req catalogdomain.CreateGateTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	gateType, err := s.catalogSvc.CreateGateType(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gateType})
}

func (s *Server) ListGateTypes(c *gin.Context) {
	gateTypes, err := s.catalogSvc.ListGateTypes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gateTypes})
}

func (s *Server) GetGateTypeByID(c *gin.Context) {
	gateType, err := s.catalogSvc.GetGateType(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gateType})
}
