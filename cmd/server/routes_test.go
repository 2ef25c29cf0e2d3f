package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpi.backend/internal/interfaces/http/handlers"
	"bpi.backend/internal/interfaces/http/middleware"
	"bpi.backend/pkg/jwt"
)

func testRouter() (*gin.Engine, *jwt.JWTService) {
	gin.SetMode(gin.TestMode)
	jwtService := jwt.NewJWTService("secret", time.Minute)
	r := newRouter(routeDeps{
		walletHandler:     &handlers.WalletHandler{},
		paymentHandler:    &handlers.PaymentHandler{},
		dashboardHandler:  &handlers.DashboardHandler{},
		membershipHandler: &handlers.MembershipHandler{},
		webhookHandler:    &handlers.WebhookHandler{},
		adminHandler:      &handlers.AdminHandler{},
		authMiddleware:    middleware.AuthMiddleware(jwtService),
	})
	return r, jwtService
}

func TestNewRouter_RegistersSurface(t *testing.T) {
	r, _ := testRouter()

	have := map[string]bool{}
	for _, route := range r.Routes() {
		have[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"GET /api/webhooks/flutterwave",
		"POST /api/webhooks/flutterwave",
		"GET /api/v1/wallet/balances",
		"POST /api/v1/wallet/deposit",
		"POST /api/v1/wallet/withdraw",
		"POST /api/v1/wallet/transfer-inter-wallet",
		"POST /api/v1/wallet/transfer-to-user",
		"GET /api/v1/payment/gateways",
		"GET /api/v1/dashboard/wallet-timeline",
		"POST /api/v1/membership/purchase",
		"POST /api/v1/membership/renew",
		"POST /api/v1/membership/empower",
		"POST /api/v1/admin/revenue",
		"GET /api/v1/admin/revenue",
		"GET /api/v1/admin/revenue/:id",
		"GET /api/v1/admin/pools",
		"GET /api/v1/admin/withdrawals/pending",
		"POST /api/v1/admin/withdrawals/:id/approve",
		"POST /api/v1/admin/withdrawals/:id/reject",
		"POST /api/v1/admin/payments/refund",
		"GET /api/v1/admin/audit-logs",
	} {
		assert.True(t, have[want], "missing route %s", want)
	}
}

func TestNewRouter_PublicEndpoints(t *testing.T) {
	r, _ := testRouter()

	for _, path := range []string{"/health", "/metrics", "/api/webhooks/flutterwave"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestNewRouter_AuthAndAdminGuards(t *testing.T) {
	r, jwtService := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/wallet/balances", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := jwtService.GenerateAccessToken(uuid.New(), "member@bpi.io", "USER")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/pools", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWithCORS(t *testing.T) {
	r, _ := testRouter()
	h := withCORS(r, []string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/wallet/deposit", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Idempotency-Key")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
