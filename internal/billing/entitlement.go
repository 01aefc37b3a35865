package billing

import (
	"context"
	"fmt"
	"time"

	"convertforge/app/internal/domain"
	"convertforge/app/internal/repository"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// EntitlementChecker answers "does this shop have an active premium
// subscription". The authoritative answer lives in the shops table (kept
// current by the billing webhook flow, outside this service); lookups are
// cached in Redis with a TTL so a burst of installs does not hammer the
// database for the same shop.
type EntitlementChecker interface {
	RequirePremium(ctx context.Context, shop domain.Shop) error
}

type redisEntitlementChecker struct {
	redisClient *redis.Client
	shops       repository.ShopRepository
	keyPrefix   string
	ttl         time.Duration
}

func NewEntitlementChecker(redisClient *redis.Client, shops repository.ShopRepository, ttl time.Duration) EntitlementChecker {
	return &redisEntitlementChecker{
		redisClient: redisClient,
		shops:       shops,
		keyPrefix:   "convertforge:entitlement:",
		ttl:         ttl,
	}
}

// RequirePremium returns ErrSubscriptionRequired when the shop's plan does
// not cover premium sections. Cache values are "1"/"0"; a Redis failure
// falls through to the database rather than blocking the merchant.
func (c *redisEntitlementChecker) RequirePremium(ctx context.Context, shop domain.Shop) error {
	key := c.keyPrefix + shop.Domain

	val, err := c.redisClient.Get(ctx, key).Result()
	if err == nil {
		if val == "1" {
			return nil
		}
		return fmt.Errorf("%w: shop %s", domain.ErrSubscriptionRequired, shop.Domain)
	}
	if err != redis.Nil {
		log.Warnf("Entitlement cache read failed for %s: %v", shop.Domain, err)
	}

	current, err := c.shops.GetByDomain(ctx, shop.Domain)
	if err != nil {
		return fmt.Errorf("failed to verify entitlement for %s: %w", shop.Domain, err)
	}

	cached := "0"
	if current.HasPremium() {
		cached = "1"
	}
	if err := c.redisClient.Set(ctx, key, cached, c.ttl).Err(); err != nil {
		log.Warnf("Entitlement cache write failed for %s: %v", shop.Domain, err)
	}

	if !current.HasPremium() {
		return fmt.Errorf("%w: shop %s", domain.ErrSubscriptionRequired, shop.Domain)
	}
	return nil
}
