package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	generatedomain "github.com/mocksmith/mocksmith/internal/generate/domain"
	"github.com/mocksmith/mocksmith/internal/provider"
	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
)

const degradedWarning = "usage tracking temporarily degraded"

type usagePayload struct {
	Used           int64  `json:"used"`
	Limit          int64  `json:"limit"`
	Remaining      int64  `json:"remaining"`
	ResetTimestamp int64  `json:"resetTimestamp"`
	Warning        string `json:"warning,omitempty"`
}

func usageJSON(u quotadomain.Usage) usagePayload {
	p := usagePayload{
		Used:           u.Used,
		Limit:          u.Limit,
		Remaining:      u.Remaining,
		ResetTimestamp: u.ResetAt,
	}
	if u.Degraded {
		p.Warning = degradedWarning
	}
	return p
}

// Generate handles POST /v1/generate. Responses carry their own envelope on
// every path so the caller can always render remaining quota.
func (s *Server) Generate(c *gin.Context) {
	var req generatedomain.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	caller := callerFrom(c)
	result, err := s.generateSvc.Generate(c.Request.Context(), caller, req)
	if err != nil {
		s.renderGenerateError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result.Data,
		"usage":   usageJSON(result.Usage),
	})
}

// GetUsage handles GET /v1/usage, the read-only quota snapshot.
func (s *Server) GetUsage(c *gin.Context) {
	caller := callerFrom(c)
	usage := s.quotaSvc.Current(c.Request.Context(), caller.Identifier, caller.Authenticated)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"usage":   usageJSON(usage),
	})
}

func (s *Server) renderGenerateError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *generatedomain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "validation failed",
			"details": verr.Fields,
		})
		return
	}

	var qerr *generatedomain.QuotaExceededError
	if errors.As(err, &qerr) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"success": false,
			"error":   "daily generation limit reached",
			"usage":   usageJSON(qerr.Usage),
		})
		return
	}

	var gerr *generatedomain.GenerationError
	if errors.As(err, &gerr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   providerMessage(gerr),
			"usage":   usageJSON(gerr.Usage),
		})
		return
	}

	caller := callerFrom(c)
	usage := s.quotaSvc.Current(c.Request.Context(), caller.Identifier, caller.Authenticated)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "generation failed",
		"usage":   usageJSON(usage),
	})
}

// providerMessage keeps upstream detail coarse: the status code is useful to
// callers, the upstream body is not theirs to see.
func providerMessage(gerr *generatedomain.GenerationError) string {
	var perr *provider.ProviderError
	if errors.As(gerr.Err, &perr) && perr.StatusCode > 0 {
		return fmt.Sprintf("provider request failed with status %d", perr.StatusCode)
	}
	return "provider request failed"
}
