package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "refresh:"

// TokenStore keeps the current refresh token hash per user. Storing a single
// hash per user makes rotation implicit: saving a new token invalidates the
// previous one.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Save records tokenHash as the user's current refresh token for ttl.
func (s *TokenStore) Save(ctx context.Context, userID, tokenHash string, ttl time.Duration) error {
	if err := s.client.Set(ctx, refreshKeyPrefix+userID, tokenHash, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Matches reports whether tokenHash is the user's current refresh token.
// An absent key is not an error, just a non-match.
func (s *TokenStore) Matches(ctx context.Context, userID, tokenHash string) (bool, error) {
	stored, err := s.client.Get(ctx, refreshKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup refresh token: %w", err)
	}
	return stored == tokenHash, nil
}

// Revoke removes the user's refresh token, ending the session.
func (s *TokenStore) Revoke(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, refreshKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
