package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"boutique/internal/config"
	"boutique/internal/models"
	"boutique/internal/testutil"
	"boutique/pkg/stripepay"

	"github.com/dgrijalva/jwt-go"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "test_jwt_secret_for_main"

func newTestApp(t *testing.T) *App {
	t.Helper()
	v := viper.New()
	v.SetDefault("JWT_SECRET", testJWTSecret)
	cfg, _ := config.Load(v)

	app, err := NewApp(cfg, Dependencies{
		DB:       testutil.NewDB(t),
		Payments: stripepay.New(stripepay.Config{}),
		Logger:   zap.NewNop(),
	}, nil)
	require.NoError(t, err)
	return app
}

func TestNewAppRequiresDatabase(t *testing.T) {
	_, err := NewApp(&config.Config{}, Dependencies{}, nil)
	assert.Error(t, err)
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["stripe"])
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	// Unauthenticated
	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, "/api/admin/sets", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Customer token
	register, _ := json.Marshal(map[string]string{"username": "shopper", "email": "shopper@example.com", "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(register))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Fiber.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	customerToken, err := app.Auth.LoginUser(ctx, "shopper", "password123")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/admin/sets", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	resp, err = app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admin token
	require.NoError(t, app.Auth.EnsureAdmin(ctx, "admin", "admin@example.com", "adminpass"))
	adminToken, err := app.Auth.LoginUser(ctx, "admin", "adminpass")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/admin/sets", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPaymentRoutesWithoutStripeKeys(t *testing.T) {
	app := newTestApp(t)

	checkout, _ := json.Marshal(map[string]interface{}{
		"items":       []map[string]interface{}{{"name": "Robe", "price": 89.0, "quantity": 1}},
		"success_url": "https://shop.example/success",
		"cancel_url":  "https://shop.example/cart",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/checkout-sessions", bytes.NewReader(checkout))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])

	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp, err = app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	resp, err = app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn"} {
		l, err := newLogger(level)
		require.NoError(t, err, level)
		assert.NotNil(t, l)
	}
	_, err := newLogger("loud")
	assert.Error(t, err)
}

func TestNewAppRejectsGuessableJWTSecret(t *testing.T) {
	deps := Dependencies{
		DB:       testutil.NewDB(t),
		Payments: stripepay.New(stripepay.Config{}),
		Logger:   zap.NewNop(),
	}

	cfg, _ := config.Load(viper.New())
	cfg.JWTSecret = ""
	_, err := NewApp(cfg, deps, nil)
	assert.ErrorIs(t, err, config.ErrInsecureJWTSecret)

	for _, secret := range []string{"change-me", "secret", "short"} {
		cfg.JWTSecret = secret
		_, err = NewApp(cfg, deps, nil)
		assert.ErrorIs(t, err, config.ErrInsecureJWTSecret, secret)
	}
}

func TestForgedAdminTokenIsRejected(t *testing.T) {
	app := newTestApp(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "intruder",
		"username": "intruder",
		"role":     models.RoleAdmin,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	token, err := forged.SignedString([]byte("change-me"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/sets", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
