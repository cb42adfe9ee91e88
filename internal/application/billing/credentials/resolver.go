// Package credentials picks which provider tokens to try for an inbound
// notification. A payment can be issued under several credential scopes
// (publisher-connected for booking payments, platform-wide for subscription
// payments) and the notification does not declare which, so fetches are
// attempted against an ordered candidate list.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/andar-inc/andar/internal/application/billing/provider"
	"github.com/andar-inc/andar/internal/shared/logger"
)

const (
	LabelPublisher     = "publisher"
	LabelMarketplace   = "marketplace"
	LabelSubscriptions = "subscriptions"
)

// CredentialSet holds the platform-level tokens, constructed once at process
// start from config and passed explicitly. There is no module-level token
// state.
type CredentialSet struct {
	MarketplaceToken   string
	SubscriptionsToken string
}

// PublisherTokenLookup resolves the connected access token of the publisher
// account identified by a provider-side user id. Returns ("", nil) when no
// publisher is connected under that id.
type PublisherTokenLookup interface {
	TokenForProviderUser(ctx context.Context, providerUserID string) (string, error)
}

// Resolver produces ordered credential candidates for a notification.
type Resolver struct {
	set             CredentialSet
	publisherTokens PublisherTokenLookup
	logger          logger.Interface
}

func NewResolver(set CredentialSet, publisherTokens PublisherTokenLookup, log logger.Interface) *Resolver {
	return &Resolver{
		set:             set,
		publisherTokens: publisherTokens,
		logger:          log,
	}
}

// Candidates returns the tokens to try, in order: the publisher connected
// under providerUserID (when resolvable), then the marketplace token, then
// the subscriptions token. An empty list is not an error here; exhaustion is
// reported by the fetch combinator.
func (r *Resolver) Candidates(ctx context.Context, providerUserID string) []provider.Credential {
	var out []provider.Credential

	if providerUserID != "" && r.publisherTokens != nil {
		token, err := r.publisherTokens.TokenForProviderUser(ctx, providerUserID)
		if err != nil {
			r.logger.Warnw("failed to resolve publisher token", "provider_user_id", providerUserID, "error", err)
		} else if token != "" {
			out = append(out, provider.Credential{Label: LabelPublisher, Token: token})
		}
	}

	if r.set.MarketplaceToken != "" {
		out = append(out, provider.Credential{Label: LabelMarketplace, Token: r.set.MarketplaceToken})
	}
	if r.set.SubscriptionsToken != "" {
		out = append(out, provider.Credential{Label: LabelSubscriptions, Token: r.set.SubscriptionsToken})
	}

	return out
}

// SubscriptionsCredential returns the subscriptions-product credential used
// for preapproval fetches, which are always platform-scoped.
func (r *Resolver) SubscriptionsCredential() provider.Credential {
	return provider.Credential{Label: LabelSubscriptions, Token: r.set.SubscriptionsToken}
}

// MarketplaceCredential returns the marketplace-wide credential.
func (r *Resolver) MarketplaceCredential() provider.Credential {
	return provider.Credential{Label: LabelMarketplace, Token: r.set.MarketplaceToken}
}

// FetchPayment tries each candidate in order and returns the first
// successful fetch along with the credential that worked. All failures are
// joined into the returned error once the list is exhausted.
func FetchPayment(
	ctx context.Context,
	client provider.PaymentProvider,
	paymentID string,
	candidates []provider.Credential,
) (*provider.Payment, provider.Credential, error) {
	if len(candidates) == 0 {
		return nil, provider.Credential{}, fmt.Errorf("no credential candidates for payment %s", paymentID)
	}

	var errs []error
	for _, cred := range candidates {
		payment, err := client.GetPayment(ctx, paymentID, cred)
		if err == nil {
			return payment, cred, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", cred.Label, err))
	}

	return nil, provider.Credential{}, fmt.Errorf("all credentials exhausted for payment %s: %w", paymentID, errors.Join(errs...))
}
