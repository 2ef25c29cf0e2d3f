package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/usecases"
	"bpi.backend/pkg/logger"
)

// FlutterwaveSignatureHeader carries the shared webhook secret
const FlutterwaveSignatureHeader = "verif-hash"

type webhookService interface {
	VerifySignature(ctx context.Context, hash string) error
	ProcessFlutterwave(ctx context.Context, payload usecases.FlutterwaveWebhook) (*usecases.WebhookResult, error)
}

// WebhookHandler handles payment gateway callbacks
type WebhookHandler struct {
	webhookUsecase webhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookUsecase *usecases.WebhookUsecase) *WebhookHandler {
	return &WebhookHandler{webhookUsecase: webhookUsecase}
}

// FlutterwaveStatus answers gateway reachability probes
// GET /api/webhooks/flutterwave
func (h *WebhookHandler) FlutterwaveStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Flutterwave webhook endpoint",
		"status":  "active",
	})
}

// HandleFlutterwave processes a Flutterwave delivery
// POST /api/webhooks/flutterwave
func (h *WebhookHandler) HandleFlutterwave(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.webhookUsecase.VerifySignature(ctx, c.GetHeader(FlutterwaveSignatureHeader)); err != nil {
		if errors.Is(err, domainerrors.ErrInvalidSignature) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed", "message": err.Error()})
		return
	}

	var payload usecases.FlutterwaveWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn(ctx, "Unreadable Flutterwave webhook body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed", "message": err.Error()})
		return
	}

	result, err := h.webhookUsecase.ProcessFlutterwave(ctx, payload)
	if err != nil {
		logger.Error(ctx, "Flutterwave webhook failed",
			zap.String("tx_ref", payload.Data.TxRef),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
