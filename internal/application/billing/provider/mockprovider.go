package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is an in-memory PaymentProvider used in tests and local
// development. Objects are registered per accepted token so credential
// fallback behavior can be exercised.
type MockProvider struct {
	mu           sync.Mutex
	payments     map[string]*Payment
	preapprovals map[string]*Preapproval
	// paymentTokens maps payment id -> token allowed to fetch it. Empty
	// means any token works.
	paymentTokens map[string]string
	createSeq     int

	CreateErr error
	CancelErr error

	CreateCalls []CreatePreapprovalRequest
	CancelCalls []string
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		payments:      make(map[string]*Payment),
		preapprovals:  make(map[string]*Preapproval),
		paymentTokens: make(map[string]string),
	}
}

// AddPayment registers a payment. requiredToken restricts which credential
// may fetch it; "" accepts any.
func (m *MockProvider) AddPayment(p *Payment, requiredToken string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = p
	if requiredToken != "" {
		m.paymentTokens[p.ID] = requiredToken
	}
}

func (m *MockProvider) AddPreapproval(p *Preapproval) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preapprovals[p.ID] = p
}

// SetPreapprovalStatus mutates a registered preapproval, simulating
// provider-side state moving between webhook deliveries.
func (m *MockProvider) SetPreapprovalStatus(id, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.preapprovals[id]; ok {
		p.Status = status
	}
}

func (m *MockProvider) GetPayment(ctx context.Context, paymentID string, cred Credential) (*Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.payments[paymentID]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", paymentID, ErrNotFound)
	}
	if required := m.paymentTokens[paymentID]; required != "" && required != cred.Token {
		return nil, fmt.Errorf("payment %s: %w", paymentID, ErrUnauthorized)
	}
	cp := *p
	return &cp, nil
}

func (m *MockProvider) GetPreapproval(ctx context.Context, preapprovalID string, cred Credential) (*Preapproval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.preapprovals[preapprovalID]
	if !ok {
		return nil, fmt.Errorf("preapproval %s: %w", preapprovalID, ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *MockProvider) CreatePreapproval(ctx context.Context, req CreatePreapprovalRequest, cred Credential) (*Preapproval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, req)
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.createSeq++
	p := &Preapproval{
		ID:                     fmt.Sprintf("mp-preapproval-%d", m.createSeq),
		Status:                 "pending",
		ExternalReference:      req.ExternalReference,
		PayerEmail:             req.PayerEmail,
		PlanID:                 req.PlanID,
		InitPoint:              fmt.Sprintf("https://provider.example/checkout/%d", m.createSeq),
		TransactionAmountCents: req.AmountCents,
		Currency:               req.Currency,
	}
	m.preapprovals[p.ID] = p
	cp := *p
	return &cp, nil
}

func (m *MockProvider) CancelPreapproval(ctx context.Context, preapprovalID string, cred Credential) (*Preapproval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CancelCalls = append(m.CancelCalls, preapprovalID)
	if m.CancelErr != nil {
		return nil, m.CancelErr
	}

	p, ok := m.preapprovals[preapprovalID]
	if !ok {
		return nil, fmt.Errorf("preapproval %s: %w", preapprovalID, ErrNotFound)
	}
	p.Status = "cancelled"
	cp := *p
	return &cp, nil
}

var _ PaymentProvider = (*MockProvider)(nil)
