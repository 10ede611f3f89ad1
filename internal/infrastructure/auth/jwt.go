// Package auth verifies bearer tokens issued by the upstream identity service.
// The ledger never issues tokens; it only reads tenant and user ids from them.
package auth

import (
	"errors"
	"strings"

	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrMissingTenantID  = errors.New("missing or malformed tenant_id in claims")
	ErrMissingUserID    = errors.New("missing or malformed user_id in claims")
)

// accessTokenType is the token_type claim carried by access tokens
const accessTokenType = "access"

// Claims are the upstream access-token claims the ledger reads
type Claims struct {
	jwt.RegisteredClaims
	TenantID  string `json:"tenant_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
}

// Identity is the verified caller extracted from a token
type Identity struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Username string
}

// TokenVerifier validates HMAC-signed access tokens
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier returns nil when no secret is configured, which disables bearer auth
func NewTokenVerifier(cfg config.AuthConfig) *TokenVerifier {
	if cfg.JWTSecret == "" {
		return nil
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	return &TokenVerifier{secret: []byte(cfg.JWTSecret), parser: jwt.NewParser(opts...)}
}

// Verify parses a raw token, or an "Authorization: Bearer ..." value, into an Identity
func (v *TokenVerifier) Verify(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if after, ok := strings.CutPrefix(raw, "Bearer "); ok {
		raw = strings.TrimSpace(after)
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Identity{}, ErrTokenNotYetValid
	case err != nil || !token.Valid:
		return Identity{}, ErrInvalidToken
	}

	if claims.TokenType != "" && claims.TokenType != accessTokenType {
		return Identity{}, ErrInvalidTokenType
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil || tenantID == uuid.Nil {
		return Identity{}, ErrMissingTenantID
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Identity{}, ErrMissingUserID
	}
	return Identity{TenantID: tenantID, UserID: userID, Username: claims.Username}, nil
}
