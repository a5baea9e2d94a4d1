package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apikeydomain "github.com/mocksmith/mocksmith/internal/apikey/domain"
	generatedomain "github.com/mocksmith/mocksmith/internal/generate/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string                      `json:"type"`
	Message string                      `json:"message"`
	Errors  []generatedomain.FieldError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrInternal       = errors.New("internal_error")
)

// ErrorHandlingMiddleware renders errors collected by handlers that did not
// write a response themselves. The generate endpoint writes its own envelopes
// so failure responses can carry a usage snapshot.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var verr *generatedomain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  verr.Fields,
		}
	}

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, apikeydomain.ErrInvalidAccount),
		errors.Is(err, apikeydomain.ErrInvalidLabel):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
		}
	case errors.Is(err, apikeydomain.ErrDuplicateLabel):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "label already in use",
		}
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, apikeydomain.ErrNotOwned):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrNotFound),
		errors.Is(err, apikeydomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	var verr *generatedomain.ValidationError
	if errors.As(err, &verr) {
		return "validation_error", "invalid_request"
	}
	var qerr *generatedomain.QuotaExceededError
	if errors.As(err, &qerr) {
		return "quota_exceeded", "daily_limit"
	}
	var gerr *generatedomain.GenerationError
	if errors.As(err, &gerr) {
		return "provider_error", "dispatch_failed"
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized", "unauthorized"
	case errors.Is(err, ErrNotFound), errors.Is(err, apikeydomain.ErrNotFound):
		return "not_found", "not_found"
	default:
		return "internal_error", err.Error()
	}
}
