package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "9090")
		t.Setenv("APP_ENV", "test")
		t.Setenv("REDIS_ADDR", "redis:6379")
		t.Setenv("JWT_SECRET", "jwt_secret")
		t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
		t.Setenv("STRIPE_PUBLISHABLE_KEY", "pk_test_123")
		t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
		t.Setenv("CHECKOUT_SESSION_ENDPOINT", "http://checkout.local/api/checkout/create-session/")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "9090", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "jwt_secret", cfg.JWTSecret)
		assert.Equal(t, "sk_test_123", cfg.StripeSecretKey)
		assert.Equal(t, "pk_test_123", cfg.StripePublishableKey)
		assert.Equal(t, "whsec_123", cfg.StripeWebhookSecret)
		assert.Equal(t, "http://checkout.local/api/checkout/create-session/", cfg.CheckoutSessionEndpoint)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("APP_PORT", "")
		t.Setenv("REDIS_ADDR", "")
		t.Setenv("CORS_ORIGIN", "")
		t.Setenv("STRIPE_PUBLISHABLE_KEY", "")

		cfg := LoadConfig()

		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
		// missing publishable key only matters for card payments
		assert.Empty(t, cfg.StripePublishableKey)
	})
}
