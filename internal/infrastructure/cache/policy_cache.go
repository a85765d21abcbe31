package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pharmadist/backend/internal/domain/catalog"
	"github.com/pharmadist/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const policyKeyPrefix = "pharmadist:policy:"

// RedisPolicyCache decorates a ProductPolicyRepository with a Redis read
// cache. Product policies change rarely, so a short TTL keeps repeated
// preparation runs off the master data tables. Any cache failure degrades
// to the inner repository.
type RedisPolicyCache struct {
	client *redis.Client
	inner  catalog.ProductPolicyRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisPolicyCache creates a policy cache backed by Redis
func NewRedisPolicyCache(cfg config.RedisConfig, inner catalog.ProductPolicyRepository, logger *zap.Logger) (*RedisPolicyCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisPolicyCache{
		client: client,
		inner:  inner,
		ttl:    cfg.TTL,
		logger: logger.Named("policy_cache"),
	}, nil
}

// cachedPolicy is the JSON shape stored in Redis
type cachedPolicy struct {
	ID                    uuid.UUID       `json:"id"`
	DisplayName           string          `json:"display_name"`
	FreeGoodsThreshold    decimal.Decimal `json:"free_goods_threshold"`
	FreeGoodsPerThreshold decimal.Decimal `json:"free_goods_per_threshold"`
	UnitRate              decimal.Decimal `json:"unit_rate"`
}

func encodePolicy(p catalog.ProductPolicy) ([]byte, error) {
	return json.Marshal(cachedPolicy{
		ID:                    p.ID,
		DisplayName:           p.DisplayName,
		FreeGoodsThreshold:    p.FreeGoodsThreshold,
		FreeGoodsPerThreshold: p.FreeGoodsPerThreshold,
		UnitRate:              p.UnitRate,
	})
}

func decodePolicy(data []byte) (catalog.ProductPolicy, error) {
	var c cachedPolicy
	if err := json.Unmarshal(data, &c); err != nil {
		return catalog.ProductPolicy{}, err
	}
	return catalog.ProductPolicy{
		ID:                    c.ID,
		DisplayName:           c.DisplayName,
		FreeGoodsThreshold:    c.FreeGoodsThreshold,
		FreeGoodsPerThreshold: c.FreeGoodsPerThreshold,
		UnitRate:              c.UnitRate,
	}, nil
}

// FindByProductIDs serves policies from Redis where cached and falls back
// to the inner repository for cache misses. Products the inner repository
// does not know stay absent from the result; they are not negatively cached.
func (c *RedisPolicyCache) FindByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]catalog.ProductPolicy, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]catalog.ProductPolicy{}, nil
	}

	policies := make(map[uuid.UUID]catalog.ProductPolicy, len(productIDs))
	missing := productIDs

	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = policyKeyPrefix + id.String()
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("policy cache read failed, falling back to master data", zap.Error(err))
	} else {
		missing = missing[:0:0]
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				missing = append(missing, productIDs[i])
				continue
			}
			policy, err := decodePolicy([]byte(raw))
			if err != nil {
				c.logger.Warn("discarding undecodable cached policy",
					zap.String("product_id", productIDs[i].String()), zap.Error(err))
				missing = append(missing, productIDs[i])
				continue
			}
			policies[policy.ID] = policy
		}
	}

	if len(missing) == 0 {
		return policies, nil
	}

	fetched, err := c.inner.FindByProductIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	c.store(ctx, fetched)

	for id, policy := range fetched {
		policies[id] = policy
	}
	return policies, nil
}

func (c *RedisPolicyCache) store(ctx context.Context, policies map[uuid.UUID]catalog.ProductPolicy) {
	if len(policies) == 0 {
		return
	}

	pipe := c.client.Pipeline()
	for id, policy := range policies {
		data, err := encodePolicy(policy)
		if err != nil {
			c.logger.Warn("failed to encode policy for cache",
				zap.String("product_id", id.String()), zap.Error(err))
			continue
		}
		pipe.Set(ctx, policyKeyPrefix+id.String(), data, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("policy cache write failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisPolicyCache) Close() error {
	return c.client.Close()
}
