package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSharedQuote returns the raw quote for a share token. No organization
// header is required; possession of the token is the credential.
func (s *Server) GetSharedQuote(c *gin.Context) {
	quote, err := s.quoteSvc.GetByShareToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

// GetSharedQuoteDocument renders the shared quote as a document.
func (s *Server) GetSharedQuoteDocument(c *gin.Context) {
	quote, err := s.quoteSvc.GetByShareToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.writeQuoteDocument(c, quote, c.DefaultQuery("format", "html"))
}
