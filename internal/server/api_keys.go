package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type createAPIKeyRequest struct {
	Label string `json:"label"`
}

func (s *Server) ListAPIKeys(c *gin.Context) {
	accountID, ok := accountFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	keys, err := s.apiKeySvc.List(c.Request.Context(), accountID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_keys": keys})
}

func (s *Server) CreateAPIKey(c *gin.Context) {
	accountID, ok := accountFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.apiKeySvc.Issue(c.Request.Context(), accountID, req.Label)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// The plaintext secret appears in this response and nowhere else.
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) RevokeAPIKey(c *gin.Context) {
	accountID, ok := accountFrom(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	credentialID := strings.TrimSpace(c.Param("id"))
	if err := s.apiKeySvc.Revoke(c.Request.Context(), accountID, credentialID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
