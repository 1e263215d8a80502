package orders

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/fuelflow/fuelops-backend/pkg/redis"
)

var codeSpace = big.NewInt(10000)

// generateCode returns a zero-padded 4 digit placement code from crypto/rand.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generating placement code: %w", err)
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

type redisCodeStore struct {
	client *redis.Client
}

// NewCodeStore adapts the shared Redis client to the placement code store.
func NewCodeStore(client *redis.Client) (CodeStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisCodeStore{client: client}, nil
}

func (s *redisCodeStore) SaveCode(ctx context.Context, orderID, code string, ttl time.Duration) error {
	return s.client.Set(ctx, s.client.OTPKey(orderID), code, ttl)
}

// GetCode returns the stored code, or empty string when it has expired.
func (s *redisCodeStore) GetCode(ctx context.Context, orderID string) (string, error) {
	code, err := s.client.Get(ctx, s.client.OTPKey(orderID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (s *redisCodeStore) ClearCode(ctx context.Context, orderID string) error {
	return s.client.Del(ctx,
		s.client.OTPKey(orderID),
		s.client.OTPAttemptsKey(orderID),
		s.client.OTPCooldownKey(orderID),
	)
}

func (s *redisCodeStore) IncrAttempts(ctx context.Context, orderID string, ttl time.Duration) (int64, error) {
	return s.client.IncrWithTTL(ctx, s.client.OTPAttemptsKey(orderID), ttl)
}

// BeginCooldown returns false while a previous cooldown window is still open.
func (s *redisCodeStore) BeginCooldown(ctx context.Context, orderID string, window time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.client.OTPCooldownKey(orderID), "1", window)
}
