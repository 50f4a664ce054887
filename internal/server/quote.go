package server

import (
	"net/http"
	"strings"

	quotedomain "github.com/fenceworks/quotegen/internal/quote/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) GenerateQuote(c *gin.Context) {
	var req quotedomain.GenerateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	quote, err := s.quoteSvc.GenerateQuote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": quote})
}

func (s *Server) ListQuotes(c *gin.Context) {
	quotes, err := s.quoteSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quotes})
}

func (s *Server) GetQuoteByID(c *gin.Context) {
	quote, err := s.quoteSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) RecalculateQuote(c *gin.Context) {
	var req quotedomain.RecalculateQuoteRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
			return
		}
	}

	quote, err := s.quoteSvc.RecalculateQuote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

type updateQuoteStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) UpdateQuoteStatus(c *gin.Context) {
	var req updateQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid status"))
		return
	}

	status := quotedomain.QuoteStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	quote, err := s.quoteSvc.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) IssueQuoteShareToken(c *gin.Context) {
	token, err := s.quoteSvc.IssueShareToken(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"share_token": token}})
}

// ExportQuote renders the quote document in the requested format. The format
// query parameter accepts html (default), csv or xlsx.
func (s *Server) ExportQuote(c *gin.Context) {
	quote, err := s.quoteSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.writeQuoteDocument(c, quote, c.DefaultQuery("format", "html"))
}

func (s *Server) writeQuoteDocument(c *gin.Context, quote quotedomain.Quote, format string) {
	ctx := c.Request.Context()
	filename := strings.ReplaceAll(quote.QuoteNumber, "/", "-")

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "html", "":
		html, err := s.exportSvc.RenderHTML(ctx, quote)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	case "csv":
		out, err := s.exportSvc.RenderCSV(ctx, quote)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		c.Data(http.StatusOK, "text/csv", out)
	case "xlsx":
		out, err := s.exportSvc.RenderXLSX(ctx, quote)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
	default:
		AbortWithError(c, newValidationError("format", "invalid_format", "invalid format"))
	}
}
