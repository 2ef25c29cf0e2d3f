package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/interfaces/http/response"
	"bpi.backend/internal/usecases"
)

type paymentService interface {
	GetPaymentGateways(ctx context.Context) []entities.PaymentGateway
}

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentUsecase paymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUsecase *usecases.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUsecase: paymentUsecase}
}

// GetPaymentGateways lists the gateways a deposit can use
// GET /api/v1/payment/gateways
func (h *PaymentHandler) GetPaymentGateways(c *gin.Context) {
	gateways := h.paymentUsecase.GetPaymentGateways(c.Request.Context())
	if gateways == nil {
		gateways = []entities.PaymentGateway{}
	}
	response.Success(c, http.StatusOK, gin.H{"gateways": gateways})
}
