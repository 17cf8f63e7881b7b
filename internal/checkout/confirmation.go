package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const defaultConfirmationTTL = 24 * time.Hour

// Confirmation is what the confirmation page shows after a cash checkout.
type Confirmation struct {
	OrderID   string          `json:"orderId"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

type ConfirmationStore interface {
	Save(ctx context.Context, sessionID string, c Confirmation) error
	Get(ctx context.Context, sessionID string) (*Confirmation, error)
}

type RedisConfirmationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisConfirmationStore(client *redis.Client) *RedisConfirmationStore {
	return &RedisConfirmationStore{client: client, ttl: defaultConfirmationTTL}
}

func (s *RedisConfirmationStore) Save(ctx context.Context, sessionID string, c Confirmation) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, confirmationKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisConfirmationStore) Get(ctx context.Context, sessionID string) (*Confirmation, error) {
	data, err := s.client.Get(ctx, confirmationKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrConfirmationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var c Confirmation
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("corrupt confirmation: %w", err)
	}
	return &c, nil
}

func confirmationKey(sessionID string) string {
	return "checkout:confirmation:" + sessionID
}
