package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CreateSession stores token -> userID with the given lifetime.
func (s *Store) CreateSession(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, SessionKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// SessionUser resolves a session token to its user id and remaining
// lifetime. Returns ErrNotFound for unknown or expired tokens.
func (s *Store) SessionUser(ctx context.Context, token string) (string, time.Duration, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, SessionKey(token))
	ttlCmd := pipe.TTL(ctx, SessionKey(token))
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", 0, ErrNotFound
		}
		return "", 0, fmt.Errorf("failed to get session: %w", err)
	}

	userID, err := getCmd.Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", 0, ErrNotFound
		}
		return "", 0, fmt.Errorf("failed to get session: %w", err)
	}

	return userID, ttlCmd.Val(), nil
}

// RefreshSession extends the lifetime of an existing session token.
func (s *Store) RefreshSession(ctx context.Context, token string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, SessionKey(token), ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes a session token. Deleting an absent token is a no-op.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, SessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
