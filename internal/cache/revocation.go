// Package cache holds short-lived server state that must outlive a single
// request: the list of JWTs revoked by logout.
package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iackson05/streakd/internal/config"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "streakd:jwt:revoked:"

// RevocationStore remembers revoked token ids until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// New returns a Redis-backed store when REDIS_ADDR is set and reachable,
// and an in-memory store otherwise.
func New(ctx context.Context, cfg *config.Config) RevocationStore {
	if cfg.RedisAddr == "" {
		slog.Info("REDIS_ADDR not set, using in-memory token revocation")
		return NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := client.Ping(pingCtx).Err()
	if err != nil {
		slog.Warn("redis unreachable, using in-memory token revocation", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return NewMemoryStore()
	}

	slog.Info("redis connected", "addr", cfg.RedisAddr)
	return NewRedisStore(client)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore is a process-local RevocationStore. Revocations are lost on
// restart and are not shared between replicas.
type MemoryStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !expiresAt.After(now) {
		return nil
	}

	// Sweep on write so the map only holds live tokens
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}

	s.revoked[tokenID] = expiresAt
	return nil
}

func (s *MemoryStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	exp, ok := s.revoked[tokenID]
	s.mu.RUnlock()

	return ok && exp.After(s.now()), nil
}

// Len reports the number of tracked revocations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}
