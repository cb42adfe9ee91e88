package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andar-inc/andar/internal/application/billing/provider"
	"github.com/andar-inc/andar/internal/shared/logger"
)

type noopLogger struct{}

func (noopLogger) Debugw(msg string, keysAndValues ...any) {}
func (noopLogger) Infow(msg string, keysAndValues ...any)  {}
func (noopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (noopLogger) Errorw(msg string, keysAndValues ...any) {}
func (noopLogger) With(args ...any) logger.Interface       { return noopLogger{} }

type stubTokenLookup struct {
	tokens map[string]string
	err    error
}

func (s *stubTokenLookup) TokenForProviderUser(ctx context.Context, providerUserID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.tokens[providerUserID], nil
}

func testSet() CredentialSet {
	return CredentialSet{
		MarketplaceToken:   "mk-token",
		SubscriptionsToken: "sub-token",
	}
}

func TestResolver_Candidates_Order(t *testing.T) {
	lookup := &stubTokenLookup{tokens: map[string]string{"mp-user-9": "pub-token"}}
	r := NewResolver(testSet(), lookup, noopLogger{})

	got := r.Candidates(context.Background(), "mp-user-9")
	require.Len(t, got, 3)
	assert.Equal(t, LabelPublisher, got[0].Label)
	assert.Equal(t, "pub-token", got[0].Token)
	assert.Equal(t, LabelMarketplace, got[1].Label)
	assert.Equal(t, LabelSubscriptions, got[2].Label)
}

func TestResolver_Candidates_NoPublisherMatch(t *testing.T) {
	lookup := &stubTokenLookup{tokens: map[string]string{}}
	r := NewResolver(testSet(), lookup, noopLogger{})

	got := r.Candidates(context.Background(), "mp-user-unknown")
	require.Len(t, got, 2)
	assert.Equal(t, LabelMarketplace, got[0].Label)
	assert.Equal(t, LabelSubscriptions, got[1].Label)
}

func TestResolver_Candidates_NoProviderUserID(t *testing.T) {
	lookup := &stubTokenLookup{tokens: map[string]string{"mp-user-9": "pub-token"}}
	r := NewResolver(testSet(), lookup, noopLogger{})

	got := r.Candidates(context.Background(), "")
	require.Len(t, got, 2)
	assert.Equal(t, LabelMarketplace, got[0].Label)
}

func TestResolver_Candidates_LookupFailureDegrades(t *testing.T) {
	lookup := &stubTokenLookup{err: errors.New("db down")}
	r := NewResolver(testSet(), lookup, noopLogger{})

	// A broken lookup must not block the platform credentials.
	got := r.Candidates(context.Background(), "mp-user-9")
	require.Len(t, got, 2)
	assert.Equal(t, LabelMarketplace, got[0].Label)
}

func TestResolver_SubscriptionsCredential(t *testing.T) {
	r := NewResolver(testSet(), nil, noopLogger{})

	cred := r.SubscriptionsCredential()
	assert.Equal(t, LabelSubscriptions, cred.Label)
	assert.Equal(t, "sub-token", cred.Token)
}

func TestFetchPayment_FallsThroughToWorkingCredential(t *testing.T) {
	mock := provider.NewMockProvider()
	mock.AddPayment(&provider.Payment{ID: "mp-pay-1", Status: "approved"}, "sub-token")

	candidates := []provider.Credential{
		{Label: LabelPublisher, Token: "pub-token"},
		{Label: LabelMarketplace, Token: "mk-token"},
		{Label: LabelSubscriptions, Token: "sub-token"},
	}

	pmt, cred, err := FetchPayment(context.Background(), mock, "mp-pay-1", candidates)
	require.NoError(t, err)
	assert.Equal(t, "mp-pay-1", pmt.ID)
	assert.Equal(t, LabelSubscriptions, cred.Label)
}

func TestFetchPayment_AllCredentialsExhausted(t *testing.T) {
	mock := provider.NewMockProvider()
	mock.AddPayment(&provider.Payment{ID: "mp-pay-1"}, "other-token")

	candidates := []provider.Credential{
		{Label: LabelMarketplace, Token: "mk-token"},
		{Label: LabelSubscriptions, Token: "sub-token"},
	}

	_, _, err := FetchPayment(context.Background(), mock, "mp-pay-1", candidates)
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrUnauthorized)
}

func TestFetchPayment_NoCandidates(t *testing.T) {
	mock := provider.NewMockProvider()

	_, _, err := FetchPayment(context.Background(), mock, "mp-pay-1", nil)
	assert.Error(t, err)
}
