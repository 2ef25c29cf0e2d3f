package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"bpi.backend/internal/infrastructure/metrics"
	"bpi.backend/internal/interfaces/http/handlers"
	"bpi.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	walletHandler     *handlers.WalletHandler
	paymentHandler    *handlers.PaymentHandler
	dashboardHandler  *handlers.DashboardHandler
	membershipHandler *handlers.MembershipHandler
	webhookHandler    *handlers.WebhookHandler
	adminHandler      *handlers.AdminHandler
	authMiddleware    gin.HandlerFunc
}

func newRouter(d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	registerHealthRoute(r)
	registerWebhookRoutes(r, d)
	registerAPIV1Routes(r, d)
	return r
}

func withCORS(h http.Handler, origins []string) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", middleware.IdempotencyHeader},
		ExposedHeaders:   []string{"X-Request-ID", "X-Idempotency-Hit"},
		AllowCredentials: true,
	}).Handler(h)
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}

func registerWebhookRoutes(r *gin.Engine, d routeDeps) {
	webhooks := r.Group("/api/webhooks")
	{
		webhooks.GET("/flutterwave", d.webhookHandler.FlutterwaveStatus)
		webhooks.POST("/flutterwave", d.webhookHandler.HandleFlutterwave)
	}
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	v1.Use(d.authMiddleware)
	{
		idempotent := middleware.IdempotencyMiddleware()

		wallet := v1.Group("/wallet")
		{
			wallet.GET("/balances", d.walletHandler.GetBalances)
			wallet.POST("/deposit", idempotent, d.walletHandler.Deposit)
			wallet.POST("/withdraw", idempotent, d.walletHandler.Withdraw)
			wallet.POST("/transfer-inter-wallet", idempotent, d.walletHandler.TransferInterWallet)
			wallet.POST("/transfer-to-user", idempotent, d.walletHandler.TransferToUser)
			wallet.POST("/pin", d.walletHandler.SetPin)
			wallet.GET("/bank-accounts", d.walletHandler.ListBankAccounts)
			wallet.POST("/bank-accounts", d.walletHandler.AddBankAccount)
		}

		v1.GET("/payment/gateways", d.paymentHandler.GetPaymentGateways)
		v1.GET("/dashboard/wallet-timeline", d.dashboardHandler.GetWalletTimeline)

		membership := v1.Group("/membership")
		{
			membership.GET("/packages", d.membershipHandler.ListPackages)
			membership.POST("/purchase", idempotent, d.membershipHandler.Purchase)
			membership.POST("/renew", idempotent, d.membershipHandler.Renew)
			membership.POST("/empower", idempotent, d.membershipHandler.Empower)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("/revenue", d.adminHandler.RecordRevenue)
			admin.GET("/revenue", d.adminHandler.ListRevenue)
			admin.GET("/revenue/:id", d.adminHandler.GetRevenue)
			admin.GET("/pools", d.adminHandler.GetPools)
			admin.GET("/withdrawals/pending", d.adminHandler.ListPendingWithdrawals)
			admin.POST("/withdrawals/:id/approve", d.adminHandler.ApproveWithdrawal)
			admin.POST("/withdrawals/:id/reject", d.adminHandler.RejectWithdrawal)
			admin.POST("/payments/refund", idempotent, d.adminHandler.RefundPayment)
			admin.GET("/audit-logs", d.adminHandler.ListAuditLogs)
		}
	}
}
