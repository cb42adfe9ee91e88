package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andar-inc/andar/internal/application/billing/provider"
	"github.com/andar-inc/andar/internal/shared/config"
	"github.com/andar-inc/andar/internal/shared/logger"
)

const (
	defaultBaseURL = "https://api.mercadopago.com"
	// Webhook handlers must respond before the provider's delivery timeout,
	// so outbound fetches get a hard deadline well under it.
	defaultRequestTimeout = 8 * time.Second
	// Maximum response body size (256KB)
	maxResponseSize = 256 << 10
)

// Client implements provider.PaymentProvider against the MercadoPago REST
// API. It holds no token state; every call carries its credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

func NewClient(cfg *config.MercadoPagoConfig, log logger.Interface) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := defaultRequestTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

var _ provider.PaymentProvider = (*Client)(nil)

// paymentResponse mirrors the fields of GET /v1/payments/{id} this service
// reads. Amounts arrive as decimal currency units.
type paymentResponse struct {
	ID                json.Number    `json:"id"`
	Status            string         `json:"status"`
	StatusDetail      string         `json:"status_detail"`
	OperationType     string         `json:"operation_type"`
	ExternalReference string         `json:"external_reference"`
	TransactionAmount float64        `json:"transaction_amount"`
	CurrencyID        string         `json:"currency_id"`
	Metadata          map[string]any `json:"metadata"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

// preapprovalResponse mirrors the fields of the /preapproval endpoints this
// service reads.
type preapprovalResponse struct {
	ID                string      `json:"id"`
	Status            string      `json:"status"`
	ExternalReference string      `json:"external_reference"`
	PayerEmail        string      `json:"payer_email"`
	CardID            json.Number `json:"card_id"`
	PreapprovalPlanID string      `json:"preapproval_plan_id"`
	InitPoint         string      `json:"init_point"`
	AutoRecurring     struct {
		TransactionAmount float64 `json:"transaction_amount"`
		CurrencyID        string  `json:"currency_id"`
		Frequency         int     `json:"frequency"`
		FrequencyType     string  `json:"frequency_type"`
	} `json:"auto_recurring"`
}

func (c *Client) GetPayment(ctx context.Context, paymentID string, cred provider.Credential) (*provider.Payment, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, cred, &resp); err != nil {
		return nil, err
	}

	metadata := make(map[string]string, len(resp.Metadata))
	for k, v := range resp.Metadata {
		if s, ok := v.(string); ok {
			metadata[k] = s
		}
	}

	return &provider.Payment{
		ID:                     resp.ID.String(),
		Status:                 resp.Status,
		StatusDetail:           resp.StatusDetail,
		OperationType:          resp.OperationType,
		ExternalReference:      resp.ExternalReference,
		TransactionAmountCents: toCents(resp.TransactionAmount),
		Currency:               resp.CurrencyID,
		Metadata:               metadata,
		PayerEmail:             resp.Payer.Email,
	}, nil
}

func (c *Client) GetPreapproval(ctx context.Context, preapprovalID string, cred provider.Credential) (*provider.Preapproval, error) {
	var resp preapprovalResponse
	if err := c.do(ctx, http.MethodGet, "/preapproval/"+preapprovalID, nil, cred, &resp); err != nil {
		return nil, err
	}
	return mapPreapproval(&resp), nil
}

func (c *Client) CreatePreapproval(ctx context.Context, req provider.CreatePreapprovalRequest, cred provider.Credential) (*provider.Preapproval, error) {
	frequencyType := "months"
	body := map[string]any{
		"preapproval_plan_id": req.PlanID,
		"card_token_id":       req.CardTokenID,
		"payer_email":         req.PayerEmail,
		"external_reference":  req.ExternalReference,
		"reason":              req.Reason,
		"back_url":            req.BackURL,
		"auto_recurring": map[string]any{
			"frequency":          req.FrequencyMonths,
			"frequency_type":     frequencyType,
			"transaction_amount": fromCents(req.AmountCents),
			"currency_id":        req.Currency,
		},
		"status": "authorized",
	}

	var resp preapprovalResponse
	if err := c.do(ctx, http.MethodPost, "/preapproval", body, cred, &resp); err != nil {
		return nil, err
	}
	return mapPreapproval(&resp), nil
}

func (c *Client) CancelPreapproval(ctx context.Context, preapprovalID string, cred provider.Credential) (*provider.Preapproval, error) {
	body := map[string]any{"status": "cancelled"}

	var resp preapprovalResponse
	if err := c.do(ctx, http.MethodPut, "/preapproval/"+preapprovalID, body, cred, &resp); err != nil {
		return nil, err
	}
	return mapPreapproval(&resp), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, cred provider.Credential, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, provider.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, provider.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Warnw("provider returned error status",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"credential", cred.Label,
			"body", truncate(string(data), 512),
		)
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func mapPreapproval(resp *preapprovalResponse) *provider.Preapproval {
	return &provider.Preapproval{
		ID:                     resp.ID,
		Status:                 resp.Status,
		ExternalReference:      resp.ExternalReference,
		PayerEmail:             resp.PayerEmail,
		CardID:                 resp.CardID.String(),
		PlanID:                 resp.PreapprovalPlanID,
		InitPoint:              resp.InitPoint,
		TransactionAmountCents: toCents(resp.AutoRecurring.TransactionAmount),
		Currency:               resp.AutoRecurring.CurrencyID,
	}
}

// toCents converts the provider's decimal amount to the currency's smallest
// unit. Half-cent rounding cannot occur for catalog-priced charges.
func toCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
