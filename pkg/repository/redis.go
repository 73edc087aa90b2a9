package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/bitebuddy/pkg/config"
	"github.com/example/bitebuddy/pkg/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON reports found=false on a cache miss instead of returning redis.Nil.
func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func serviceDetailKey(id uint) string {
	return fmt.Sprintf("catalog:service:%d", id)
}

// CatalogCache keeps service details in redis for a fixed TTL.
type CatalogCache struct {
	redis *RedisRepository
	ttl   time.Duration
}

func NewCatalogCache(r *RedisRepository, ttl time.Duration) *CatalogCache {
	return &CatalogCache{redis: r, ttl: ttl}
}

func (c *CatalogCache) GetServiceDetail(ctx context.Context, id uint) (*models.ServiceDetail, error) {
	var detail models.ServiceDetail
	found, err := c.redis.GetJSON(ctx, serviceDetailKey(id), &detail)
	if err != nil || !found {
		return nil, err
	}
	return &detail, nil
}

func (c *CatalogCache) SetServiceDetail(ctx context.Context, detail *models.ServiceDetail) error {
	return c.redis.SetJSON(ctx, serviceDetailKey(detail.ID), detail, c.ttl)
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// RedisSessionStore stores session tokens as keys expiring with the session.
type RedisSessionStore struct {
	redis *RedisRepository
	ttl   time.Duration
}

func NewRedisSessionStore(r *RedisRepository, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{redis: r, ttl: ttl}
}

func (s *RedisSessionStore) Create(ctx context.Context, userID uint) (*models.Session, error) {
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.redis.SetJSON(ctx, sessionKey(session.Token), session, s.ttl); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (uint, error) {
	var session models.Session
	found, err := s.redis.GetJSON(ctx, sessionKey(token), &session)
	if err != nil {
		return 0, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return 0, ErrSessionNotFound
	}
	return session.UserID, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.redis.Del(ctx, sessionKey(token))
}
