package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	billingusecases "github.com/andar-inc/andar/internal/application/billing/usecases"
	"github.com/andar-inc/andar/internal/shared/logger"
)

const userCachePrefix = "user:profile:"

// UserCache drops cached user profiles when billing state changes their
// role. Read paths elsewhere fill the cache; this side only invalidates.
type UserCache struct {
	client *redis.Client
	logger logger.Interface
}

func NewUserCache(client *redis.Client, log logger.Interface) *UserCache {
	return &UserCache{
		client: client,
		logger: log,
	}
}

var _ billingusecases.UserCacheInvalidator = (*UserCache)(nil)

func (c *UserCache) InvalidateUser(ctx context.Context, userID uint) error {
	key := fmt.Sprintf("%s%d", userCachePrefix, userID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user cache: %w", err)
	}
	c.logger.Debugw("user cache invalidated", "user_id", userID)
	return nil
}
