package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestExtractAccessToken(t *testing.T) {
	t.Run("Cookie Preferred", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie_token"})
		req.Header.Set("Authorization", "Bearer header_token")

		assert.Equal(t, "cookie_token", ExtractAccessToken(req))
	})

	t.Run("Header Fallback", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header_token")

		assert.Equal(t, "header_token", ExtractAccessToken(req))
	})

	t.Run("Empty Cookie Falls Back to Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: ""})
		req.Header.Set("Authorization", "Bearer header_token")

		assert.Equal(t, "header_token", ExtractAccessToken(req))
	})

	t.Run("No Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, ExtractAccessToken(req))
	})

	t.Run("Malformed Header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic user:pass")
		assert.Empty(t, ExtractAccessToken(req))
	})
}

func TestParseToken(t *testing.T) {
	valid := Claims{
		Email: "ana@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("Success", func(t *testing.T) {
		claims, err := ParseToken("secret", signToken(t, "secret", jwt.SigningMethodHS256, valid))
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "ana@example.com", claims.Email)
		assert.Equal(t, "authenticated", claims.Role)
	})

	t.Run("NoSecret", func(t *testing.T) {
		_, err := ParseToken("", "anything")
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		_, err := ParseToken("other", signToken(t, "secret", jwt.SigningMethodHS256, valid))
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		_, err := ParseToken("secret", signToken(t, "secret", jwt.SigningMethodHS512, valid))
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := ParseToken("secret", signToken(t, "secret", jwt.SigningMethodHS256, expired))
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("NoSubject", func(t *testing.T) {
		anon := valid
		anon.Subject = ""
		_, err := ParseToken("secret", signToken(t, "secret", jwt.SigningMethodHS256, anon))
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseToken("secret", "not-a-token")
		assert.Error(t, err)
	})
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()

	_, ok := IdentityFrom(ctx)
	assert.False(t, ok)
	assert.Nil(t, UserIDFrom(ctx))

	ctx = WithIdentity(ctx, Identity{UserID: "user-1", Email: "ana@example.com", Role: "authenticated"})
	id, ok := IdentityFrom(ctx)
	assert.True(t, ok)
	assert.Equal(t, "ana@example.com", id.Email)
	require.NotNil(t, UserIDFrom(ctx))
	assert.Equal(t, "user-1", *UserIDFrom(ctx))
}
