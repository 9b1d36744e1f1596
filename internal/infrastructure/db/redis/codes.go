package redis

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore keeps short-lived one-time codes (email OTPs, password reset
// tokens) in Redis. Key format: code:<kind>:<subject>
type CodeStore struct {
	client *redis.Client
}

// NewCodeStore creates a CodeStore wrapping the given Redis client.
func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client}
}

// Put stores code for (kind, subject), replacing any previous one. The entry
// expires after ttl.
func (s *CodeStore) Put(ctx context.Context, kind, subject, code string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(kind, subject), code, ttl).Err()
}

// Check reports whether code matches the currently stored value. A missing
// or expired entry is a mismatch, not an error.
func (s *CodeStore) Check(ctx context.Context, kind, subject, code string) (bool, error) {
	stored, err := s.client.Get(ctx, s.key(kind, subject)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("code check: %w", err)
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(code)) == 1, nil
}

// Invalidate removes the stored code so it cannot be replayed.
func (s *CodeStore) Invalidate(ctx context.Context, kind, subject string) error {
	return s.client.Del(ctx, s.key(kind, subject)).Err()
}

func (s *CodeStore) key(kind, subject string) string {
	return fmt.Sprintf("code:%s:%s", kind, subject)
}
