package auth

import (
	"testing"
	"time"

	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-at-least-32-chars"

func sign(t *testing.T, method jwt.SigningMethod, secret string, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(tenantID, userID uuid.UUID) Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "erp-identity",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TenantID:  tenantID.String(),
		UserID:    userID.String(),
		Username:  "ops",
		TokenType: "access",
	}
}

func TestNewTokenVerifier_DisabledWithoutSecret(t *testing.T) {
	assert.Nil(t, NewTokenVerifier(config.AuthConfig{}))
}

func TestTokenVerifier_Verify(t *testing.T) {
	verifier := NewTokenVerifier(config.AuthConfig{JWTSecret: testSecret, JWTIssuer: "erp-identity"})
	require.NotNil(t, verifier)
	tenantID, userID := uuid.New(), uuid.New()

	t.Run("valid bearer header", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, testSecret, validClaims(tenantID, userID))

		id, err := verifier.Verify("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, tenantID, id.TenantID)
		assert.Equal(t, userID, id.UserID)
		assert.Equal(t, "ops", id.Username)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims(tenantID, userID)
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		_, err := verifier.Verify(sign(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := verifier.Verify(sign(t, jwt.SigningMethodHS256, "another-secret-that-is-long-enough!!", validClaims(tenantID, userID)))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims(tenantID, userID)
		claims.Issuer = "someone-else"

		_, err := verifier.Verify(sign(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		claims := validClaims(tenantID, userID)
		claims.TokenType = "refresh"

		_, err := verifier.Verify(sign(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("malformed tenant", func(t *testing.T) {
		claims := validClaims(tenantID, userID)
		claims.TenantID = "acme"

		_, err := verifier.Verify(sign(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("missing user", func(t *testing.T) {
		claims := validClaims(tenantID, userID)
		claims.UserID = ""

		_, err := verifier.Verify(sign(t, jwt.SigningMethodHS256, testSecret, claims))
		assert.ErrorIs(t, err, ErrMissingUserID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := verifier.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
