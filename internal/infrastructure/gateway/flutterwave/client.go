package flutterwave

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bpi.backend/internal/config"
	"bpi.backend/pkg/logger"
)

// ErrNotConfigured is returned when no secret key is set.
var ErrNotConfigured = errors.New("flutterwave is not configured")

// Customer identifies the payer on the hosted checkout page.
type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phonenumber,omitempty"`
}

// PaymentLinkRequest asks Flutterwave for a hosted checkout link.
type PaymentLinkRequest struct {
	TxRef       string
	Amount      decimal.Decimal
	Currency    string
	RedirectURL string
	Customer    Customer
	Title       string
	Meta        map[string]string
}

type paymentPayload struct {
	TxRef          string            `json:"tx_ref"`
	Amount         string            `json:"amount"`
	Currency       string            `json:"currency"`
	RedirectURL    string            `json:"redirect_url,omitempty"`
	Customer       Customer          `json:"customer"`
	Customizations map[string]string `json:"customizations,omitempty"`
	Meta           map[string]string `json:"meta,omitempty"`
}

type paymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// Client talks to the Flutterwave v3 API.
type Client struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
}

// NewClient creates a client from the gateway configuration
func NewClient(cfg config.FlutterwaveConfig) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

// InitializePayment creates a hosted payment and returns its checkout link
func (c *Client) InitializePayment(ctx context.Context, req PaymentLinkRequest) (string, error) {
	if c.secretKey == "" {
		return "", ErrNotConfigured
	}

	payload := paymentPayload{
		TxRef:       req.TxRef,
		Amount:      req.Amount.StringFixed(2),
		Currency:    req.Currency,
		RedirectURL: req.RedirectURL,
		Customer:    req.Customer,
		Meta:        req.Meta,
	}
	if req.Title != "" {
		payload.Customizations = map[string]string{"title": req.Title}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/payments", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("flutterwave request failed: %w", err)
	}
	defer resp.Body.Close()

	var out paymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("flutterwave returned an unreadable response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.Status != "success" {
		logger.Warn(ctx, "Flutterwave rejected payment initialization",
			zap.String("tx_ref", req.TxRef),
			zap.Int("status", resp.StatusCode),
			zap.String("message", out.Message),
		)
		return "", fmt.Errorf("flutterwave error (status %d): %s", resp.StatusCode, out.Message)
	}
	if out.Data.Link == "" {
		return "", errors.New("flutterwave returned no payment link")
	}
	return out.Data.Link, nil
}

// SignatureConfigured reports whether webhook deliveries can be verified.
func (c *Client) SignatureConfigured() bool {
	return c.webhookSecret != ""
}

// ValidateWebhook compares the verif-hash header against the configured secret.
func (c *Client) ValidateWebhook(hash string) bool {
	if c.webhookSecret == "" || hash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hash), []byte(c.webhookSecret)) == 1
}
