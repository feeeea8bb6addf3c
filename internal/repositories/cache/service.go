package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gatepass/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Fee configuration caching. Configs are read on every checkout quote, so
// they are the hottest keys in the system; writes go through Invalidate.
func (s *CacheService) CacheFeeConfig(ctx context.Context, businessID uint, cfg *models.FeeConfiguration) error {
	if cfg == nil {
		return errors.New("cannot cache nil fee configuration")
	}
	return s.Set(ctx, s.feeConfigKey(businessID), cfg)
}

func (s *CacheService) GetFeeConfig(ctx context.Context, businessID uint) (*models.FeeConfiguration, error) {
	var cfg models.FeeConfiguration
	found, err := s.Get(ctx, s.feeConfigKey(businessID), &cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("fee configuration not in cache")
	}
	return &cfg, nil
}

func (s *CacheService) InvalidateFeeConfig(ctx context.Context, businessID uint) error {
	return s.Delete(ctx, s.feeConfigKey(businessID))
}

// businessID 0 keys the platform-wide default.
func (s *CacheService) feeConfigKey(businessID uint) string {
	return s.GenerateKey("feeconfig", "business", businessID)
}

// Business caching
func (s *CacheService) CacheBusiness(ctx context.Context, business *models.Business) error {
	if business == nil {
		return errors.New("cannot cache nil business")
	}
	return s.Set(ctx, s.GenerateKey("business", "id", business.ID), business)
}

func (s *CacheService) GetBusiness(ctx context.Context, businessID uint) (*models.Business, error) {
	var business models.Business
	found, err := s.Get(ctx, s.GenerateKey("business", "id", businessID), &business)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("business not in cache")
	}
	return &business, nil
}

func (s *CacheService) InvalidateBusiness(ctx context.Context, businessID uint) error {
	return s.Delete(ctx,
		s.GenerateKey("business", "id", businessID),
		s.feeConfigKey(businessID),
	)
}

// Event caching
func (s *CacheService) InvalidateEvent(ctx context.Context, eventID uint) error {
	return s.Delete(ctx, s.GenerateKey("event", "id", eventID))
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}
