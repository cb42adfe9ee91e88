package mercadopago

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andar-inc/andar/internal/application/billing/provider"
	"github.com/andar-inc/andar/internal/shared/config"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type noopLogger struct{}

func (noopLogger) Debugw(msg string, keysAndValues ...any) {}
func (noopLogger) Infow(msg string, keysAndValues ...any)  {}
func (noopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (noopLogger) Errorw(msg string, keysAndValues ...any) {}
func (noopLogger) With(args ...any) logger.Interface       { return noopLogger{} }

func newTestClient(serverURL string) *Client {
	return NewClient(&config.MercadoPagoConfig{
		BaseURL:        serverURL,
		TimeoutSeconds: 2,
	}, noopLogger{})
}

func testCred() provider.Credential {
	return provider.Credential{Label: "subscriptions", Token: "test-token"}
}

func TestClient_GetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/12345", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 12345,
			"status": "approved",
			"status_detail": "accredited",
			"operation_type": "recurring_payment",
			"external_reference": "subscription_42_7",
			"transaction_amount": 9.90,
			"currency_id": "ARS",
			"metadata": {"booking_id": "bkg_abc", "attempt": 2},
			"payer": {"email": "payer@example.com"}
		}`))
	}))
	defer srv.Close()

	pmt, err := newTestClient(srv.URL).GetPayment(context.Background(), "12345", testCred())
	require.NoError(t, err)

	// The numeric id comes back as its decimal string form.
	assert.Equal(t, "12345", pmt.ID)
	assert.Equal(t, "approved", pmt.Status)
	assert.Equal(t, "recurring_payment", pmt.OperationType)
	assert.Equal(t, int64(990), pmt.TransactionAmountCents)
	assert.Equal(t, "ARS", pmt.Currency)
	assert.Equal(t, "payer@example.com", pmt.PayerEmail)
	// Non-string metadata values are dropped, string ones kept.
	assert.Equal(t, map[string]string{"booking_id": "bkg_abc"}, pmt.Metadata)
}

func TestClient_GetPreapproval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/preapproval/mp-pre-1", r.URL.Path)
		w.Write([]byte(`{
			"id": "mp-pre-1",
			"status": "authorized",
			"external_reference": "subscription_42_7",
			"payer_email": "payer@example.com",
			"card_id": 99887766,
			"preapproval_plan_id": "mp-plan-42",
			"init_point": "https://provider.example/checkout/1",
			"auto_recurring": {
				"transaction_amount": 9.90,
				"currency_id": "ARS",
				"frequency": 1,
				"frequency_type": "months"
			}
		}`))
	}))
	defer srv.Close()

	pre, err := newTestClient(srv.URL).GetPreapproval(context.Background(), "mp-pre-1", testCred())
	require.NoError(t, err)

	assert.Equal(t, "mp-pre-1", pre.ID)
	assert.Equal(t, "authorized", pre.Status)
	assert.Equal(t, "99887766", pre.CardID)
	assert.Equal(t, "mp-plan-42", pre.PlanID)
	assert.Equal(t, int64(990), pre.TransactionAmountCents)
}

func TestClient_CreatePreapproval(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/preapproval", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Write([]byte(`{"id": "mp-pre-new", "status": "pending", "init_point": "https://provider.example/checkout/2"}`))
	}))
	defer srv.Close()

	pre, err := newTestClient(srv.URL).CreatePreapproval(context.Background(), provider.CreatePreapprovalRequest{
		PlanID:            "mp-plan-42",
		CardTokenID:       "card-token-1",
		PayerEmail:        "payer@example.com",
		ExternalReference: "subscription_42_7",
		Reason:            "Pro Plan",
		BackURL:           "https://andar.example/return",
		AmountCents:       990,
		Currency:          "ARS",
		FrequencyMonths:   1,
	}, testCred())
	require.NoError(t, err)

	assert.Equal(t, "mp-pre-new", pre.ID)
	assert.Equal(t, "pending", pre.Status)

	assert.Equal(t, "mp-plan-42", captured["preapproval_plan_id"])
	assert.Equal(t, "card-token-1", captured["card_token_id"])
	assert.Equal(t, "subscription_42_7", captured["external_reference"])
	assert.Equal(t, "authorized", captured["status"])

	recurring, ok := captured["auto_recurring"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 9.9, recurring["transaction_amount"])
	assert.Equal(t, "months", recurring["frequency_type"])
	assert.Equal(t, float64(1), recurring["frequency"])
}

func TestClient_CancelPreapproval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/preapproval/mp-pre-1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "cancelled", body["status"])

		w.Write([]byte(`{"id": "mp-pre-1", "status": "cancelled"}`))
	}))
	defer srv.Close()

	pre, err := newTestClient(srv.URL).CancelPreapproval(context.Background(), "mp-pre-1", testCred())
	require.NoError(t, err)
	assert.Equal(t, "cancelled", pre.Status)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"401 maps to unauthorized", http.StatusUnauthorized, provider.ErrUnauthorized},
		{"403 maps to unauthorized", http.StatusForbidden, provider.ErrUnauthorized},
		{"404 maps to not found", http.StatusNotFound, provider.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).GetPayment(context.Background(), "1", testCred())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_ServerErrorIsOpaque(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "internal error"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetPayment(context.Background(), "1", testCred())
	require.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrUnauthorized)
	assert.NotErrorIs(t, err, provider.ErrNotFound)
}

func TestClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv.URL).GetPayment(ctx, "1", testCred())
	assert.Error(t, err)
}

func TestCentsConversion(t *testing.T) {
	tests := []struct {
		amount float64
		cents  int64
	}{
		{9.90, 990},
		{0, 0},
		{1500, 150000},
		{0.01, 1},
		{19.99, 1999},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.cents, toCents(tt.amount))
	}
	assert.Equal(t, 9.9, fromCents(990))
}
