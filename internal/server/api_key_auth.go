package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	generatedomain "github.com/mocksmith/mocksmith/internal/generate/domain"
	"github.com/mocksmith/mocksmith/internal/observability/obscontext"
)

const (
	contextCallerKey  = "caller"
	contextAccountKey = "account_id"

	// HeaderAccount carries the account identity resolved by the external
	// session layer in front of this service.
	HeaderAccount = "X-Account-ID"
)

// CallerContext resolves the request identity. A bearer credential maps to
// its owning account; anything unverifiable is rejected without detail. No
// credential at all degrades to an address-scoped anonymous identity.
func (s *Server) CallerContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			caller := generatedomain.Caller{Identifier: "ip:" + c.ClientIP()}
			setCaller(c, caller)
			c.Next()
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c)
			return
		}

		identity, err := s.apiKeySvc.Validate(c.Request.Context(), parts[1])
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if identity == nil {
			abortUnauthorized(c)
			return
		}

		caller := generatedomain.Caller{
			Identifier:    identity.AccountID.String(),
			Authenticated: true,
			CredentialID:  identity.CredentialID,
		}
		setCaller(c, caller)

		ctx := obscontext.WithActor(c.Request.Context(), "api_key", identity.CredentialID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AccountRequired gates the key-management routes on the account header.
func (s *Server) AccountRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderAccount))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextAccountKey, snowflake.ID(id))

		ctx := obscontext.WithActor(c.Request.Context(), "account", raw)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func setCaller(c *gin.Context, caller generatedomain.Caller) {
	c.Set(contextCallerKey, caller)
}

func callerFrom(c *gin.Context) generatedomain.Caller {
	if value, ok := c.Get(contextCallerKey); ok {
		if caller, ok := value.(generatedomain.Caller); ok {
			return caller
		}
	}
	return generatedomain.Caller{Identifier: "ip:" + c.ClientIP()}
}

func accountFrom(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get(contextAccountKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

// The credential itself is never echoed back, only a fixed message.
func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "invalid or expired API key",
	})
}
