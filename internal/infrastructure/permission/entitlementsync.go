package permission

import (
	"context"
	"fmt"
	"strconv"

	billingusecases "github.com/andar-inc/andar/internal/application/billing/usecases"
	"github.com/andar-inc/andar/internal/domain/subscription"
	vo "github.com/andar-inc/andar/internal/domain/subscription/valueobjects"
	"github.com/andar-inc/andar/internal/domain/user"
	"github.com/andar-inc/andar/internal/shared/logger"
)

// EntitlementSync recomputes a user's role from their current subscription
// state. It is derivation, not bookkeeping: the subscription table is the
// only input, so recomputing twice for the same state is a no-op. Admin and
// publisher roles are out of scope of the derivation and never demoted.
type EntitlementSync struct {
	subscriptionRepo subscription.SubscriptionRepository
	userRepo         user.Repository
	enforcer         *Enforcer
	logger           logger.Interface
}

func NewEntitlementSync(
	subscriptionRepo subscription.SubscriptionRepository,
	userRepo user.Repository,
	enforcer *Enforcer,
	log logger.Interface,
) *EntitlementSync {
	return &EntitlementSync{
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		enforcer:         enforcer,
		logger:           log,
	}
}

var _ billingusecases.EntitlementSyncer = (*EntitlementSync)(nil)

// SyncUserEntitlements derives and stores the user's role, then mirrors it
// into the casbin grouping so permission checks pick it up immediately.
func (s *EntitlementSync) SyncUserEntitlements(ctx context.Context, userID uint) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if u == nil {
		return fmt.Errorf("user %d not found", userID)
	}

	if u.Role() == user.RoleAdmin || u.Role() == user.RolePublisher {
		s.logger.Debugw("role not derived from subscription state, skipping",
			"user_id", userID, "role", u.Role())
		return nil
	}

	subs, err := s.subscriptionRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get subscriptions for user %d: %w", userID, err)
	}

	role := user.RoleTraveler
	for _, sub := range subs {
		if sub.Status() == vo.StatusActive {
			role = user.RoleSubscriber
			break
		}
	}

	if u.Role() != role {
		if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
			return fmt.Errorf("failed to update role for user %d: %w", userID, err)
		}
		s.logger.Infow("user role recomputed", "user_id", userID, "from", u.Role(), "to", role)
	}

	if s.enforcer != nil {
		if err := s.enforcer.SetUserRole(strconv.FormatUint(uint64(userID), 10), string(role)); err != nil {
			return fmt.Errorf("failed to sync role to enforcer: %w", err)
		}
	}

	return nil
}
