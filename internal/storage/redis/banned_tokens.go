// Package redis implements the banned-token store on Redis, for deployments
// that share ban state across several instances.
package redis

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/authgate-dev/authgate/internal/config"
	internal_errors "github.com/authgate-dev/authgate/internal/errors"
)

const keyPrefix = "banned_token:"

// BannedTokenStore keeps banned tokens as Redis keys. Entries expire after
// ttl since a token past its own expiry no longer needs to stay banned.
type BannedTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func New(cfg *config.Config) (*BannedTokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Private.Redis.Addr,
		Password: cfg.Private.Redis.Password,
		DB:       cfg.Private.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	// Keep bans around twice as long as tokens live, so clock skew between
	// instances cannot resurrect a banned token.
	return &BannedTokenStore{client: client, ttl: 2 * cfg.JwtTTL()}, nil
}

// NewFromClient wraps an existing client. Used by tests.
func NewFromClient(client *redis.Client, ttl time.Duration) *BannedTokenStore {
	return &BannedTokenStore{client: client, ttl: ttl}
}

// Ban records the token. SetNX makes the first ban win; a repeated ban
// reports a conflict just like the other store backends.
func (s *BannedTokenStore) Ban(token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := s.client.SetNX(ctx, keyPrefix+token, 1, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to ban token: %w", err)
	}
	if !ok {
		return internal_errors.New("Token already banned", http.StatusConflict)
	}
	return nil
}

// IsBanned reports whether the token has been invalidated.
func (s *BannedTokenStore) IsBanned(token string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := s.client.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check banned token: %w", err)
	}
	return n > 0, nil
}

// Cleanup closes the underlying client.
func (s *BannedTokenStore) Cleanup() error {
	return s.client.Close()
}
