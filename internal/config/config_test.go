package config_test

import (
	"testing"
	"time"

	"boutique/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, _ := config.Load(viper.New())

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "eur", cfg.StripeCurrency)
	assert.Equal(t, 720*time.Hour, cfg.CartTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "set-images", cfg.MinioBucket)
}

func TestLoadHasNoJWTSecretDefault(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, _ := config.Load(viper.New())

	assert.Empty(t, cfg.JWTSecret)
	assert.ErrorIs(t, cfg.Validate(), config.ErrInsecureJWTSecret)
}

func TestValidateJWTSecret(t *testing.T) {
	for _, secret := range []string{"", "change-me", "changeme", "secret", "too-short"} {
		cfg := &config.Config{JWTSecret: secret}
		assert.ErrorIs(t, cfg.Validate(), config.ErrInsecureJWTSecret, secret)
	}

	t.Setenv("JWT_SECRET", "d41d8cd98f00b204e9800998ecf8427e")
	cfg, _ := config.Load(viper.New())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("CART_TTL", "1h")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, _ := config.Load(viper.New())

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "whsec_test", cfg.StripeWebhookSecret)
	assert.Equal(t, time.Hour, cfg.CartTTL)
	assert.True(t, cfg.MinioUseSSL)
}
