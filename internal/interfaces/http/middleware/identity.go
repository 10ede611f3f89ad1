package middleware

import (
	"errors"
	"strings"

	"github.com/erp/ledger/internal/infrastructure/auth"
	"github.com/erp/ledger/internal/infrastructure/logger"
	"github.com/erp/ledger/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity headers and gin context keys
const (
	TenantHeader = "X-Tenant-ID"
	UserHeader   = "X-User-ID"

	TenantIDKey = "tenant_id"
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// IdentityConfig controls how the caller's tenant and user are resolved
type IdentityConfig struct {
	// Verifier checks upstream-issued bearer tokens. Nil disables bearer auth.
	Verifier *auth.TokenVerifier
	// RequireUser rejects requests without a user id
	RequireUser bool
}

// Identity resolves the tenant and user of every request.
//
// With a verifier configured, a bearer token is required and its claims are
// authoritative; X-Tenant-ID / X-User-ID headers are ignored. Without one,
// the headers are trusted as set by the gateway in front of the service.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			tenantID uuid.UUID
			userID   uuid.UUID
			username string
		)

		if cfg.Verifier != nil {
			header := c.GetHeader("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				abortWithError(c, dto.ErrCodeUnauthorized, "Bearer token required")
				return
			}
			id, err := cfg.Verifier.Verify(header)
			if err != nil {
				code := dto.ErrCodeTokenInvalid
				if errors.Is(err, auth.ErrExpiredToken) {
					code = dto.ErrCodeTokenExpired
				}
				abortWithError(c, code, err.Error())
				return
			}
			tenantID, userID, username = id.TenantID, id.UserID, id.Username
		} else {
			raw := c.GetHeader(TenantHeader)
			if raw == "" {
				abortWithError(c, dto.ErrCodeUnauthorized, "Tenant identification required")
				return
			}
			var err error
			if tenantID, err = uuid.Parse(raw); err != nil || tenantID == uuid.Nil {
				abortWithError(c, dto.ErrCodeUnauthorized, "Invalid tenant ID format")
				return
			}
			if raw := c.GetHeader(UserHeader); raw != "" {
				if userID, err = uuid.Parse(raw); err != nil {
					abortWithError(c, dto.ErrCodeUnauthorized, "Invalid user ID format")
					return
				}
			}
		}

		if cfg.RequireUser && userID == uuid.Nil {
			abortWithError(c, dto.ErrCodeUnauthorized, "User identification required")
			return
		}

		c.Set(TenantIDKey, tenantID)
		ctx := logger.WithTenantID(c.Request.Context(), tenantID.String())
		if userID != uuid.Nil {
			c.Set(UserIDKey, userID)
			ctx = logger.WithUserID(ctx, userID.String())
		}
		if username != "" {
			c.Set(UsernameKey, username)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantID returns the tenant resolved by Identity, uuid.Nil outside it
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserID returns the acting user, or nil for anonymous service calls
func GetUserID(c *gin.Context) *uuid.UUID {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return &id
		}
	}
	return nil
}
