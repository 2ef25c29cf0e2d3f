package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/usecases"
)

type webhookServiceStub struct {
	verifyFn  func(ctx context.Context, hash string) error
	processFn func(ctx context.Context, payload usecases.FlutterwaveWebhook) (*usecases.WebhookResult, error)
}

func (s *webhookServiceStub) VerifySignature(ctx context.Context, hash string) error {
	if s.verifyFn == nil {
		return nil
	}
	return s.verifyFn(ctx, hash)
}

func (s *webhookServiceStub) ProcessFlutterwave(ctx context.Context, payload usecases.FlutterwaveWebhook) (*usecases.WebhookResult, error) {
	return s.processFn(ctx, payload)
}

func webhookRouter(svc webhookService) *gin.Engine {
	r := newTestRouter(false)
	h := &WebhookHandler{webhookUsecase: svc}
	r.GET("/api/webhooks/flutterwave", h.FlutterwaveStatus)
	r.POST("/api/webhooks/flutterwave", h.HandleFlutterwave)
	return r
}

func postWebhook(r http.Handler, hash, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/flutterwave", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if hash != "" {
		req.Header.Set(FlutterwaveSignatureHeader, hash)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const chargeCompletedBody = `{"event":"charge.completed","data":{"id":1,"tx_ref":"BPI-DEP-abc","status":"successful","amount":5000,"currency":"NGN"}}`

func TestWebhookHandler_Status(t *testing.T) {
	r := webhookRouter(&webhookServiceStub{})
	w := doJSON(r, http.MethodGet, "/api/webhooks/flutterwave", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Flutterwave webhook endpoint", body["message"])
	assert.Equal(t, "active", body["status"])
}

func TestWebhookHandler_CreditsDeposit(t *testing.T) {
	txID := uuid.New()
	var got usecases.FlutterwaveWebhook
	var gotHash string
	r := webhookRouter(&webhookServiceStub{
		verifyFn: func(_ context.Context, hash string) error {
			gotHash = hash
			return nil
		},
		processFn: func(_ context.Context, payload usecases.FlutterwaveWebhook) (*usecases.WebhookResult, error) {
			got = payload
			return &usecases.WebhookResult{
				Message:       "Deposit processed successfully",
				TransactionID: &txID,
				ReceiptLink:   "https://app.bpi.test/receipts/" + txID.String(),
			}, nil
		},
	})

	w := postWebhook(r, "secret-hash", chargeCompletedBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "secret-hash", gotHash)
	assert.Equal(t, "BPI-DEP-abc", got.Data.TxRef)
	assert.Equal(t, "5000", got.Data.Amount.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Deposit processed successfully", body["message"])
	assert.Equal(t, txID.String(), body["transactionId"])
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	processed := false
	r := webhookRouter(&webhookServiceStub{
		verifyFn: func(context.Context, string) error { return domainerrors.ErrInvalidSignature },
		processFn: func(context.Context, usecases.FlutterwaveWebhook) (*usecases.WebhookResult, error) {
			processed = true
			return nil, nil
		},
	})

	w := postWebhook(r, "wrong", chargeCompletedBody)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid signature", decodeBody(t, w)["error"])
	assert.False(t, processed)
}

func TestWebhookHandler_UnparseableBodyIsServerError(t *testing.T) {
	processed := false
	r := webhookRouter(&webhookServiceStub{
		processFn: func(context.Context, usecases.FlutterwaveWebhook) (*usecases.WebhookResult, error) {
			processed = true
			return nil, nil
		},
	})

	w := postWebhook(r, "", "{not json")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Webhook processing failed", body["error"])
	assert.NotEmpty(t, body["message"])
	assert.False(t, processed)
}

func TestWebhookHandler_ProcessingError(t *testing.T) {
	r := webhookRouter(&webhookServiceStub{
		processFn: func(context.Context, usecases.FlutterwaveWebhook) (*usecases.WebhookResult, error) {
			return nil, errors.New("db down")
		},
	})

	w := postWebhook(r, "", chargeCompletedBody)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Webhook processing failed", body["error"])
	assert.Equal(t, "db down", body["message"])
}

func TestWebhookHandler_ReplayAnswersOK(t *testing.T) {
	r := webhookRouter(&webhookServiceStub{
		processFn: func(context.Context, usecases.FlutterwaveWebhook) (*usecases.WebhookResult, error) {
			return &usecases.WebhookResult{Message: usecases.WebhookMsgAlreadyProcessed}, nil
		},
	})

	w := postWebhook(r, "", chargeCompletedBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.WebhookMsgAlreadyProcessed, decodeBody(t, w)["message"])
}
