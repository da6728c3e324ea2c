package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartLine is one product entry in a user's session cart. UnitPrice is the
// slab-resolved price in effect for the line's current quantity and is
// recomputed whenever the quantity changes.
type CartLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  uint    `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// CartStore keeps one cart per user. The cart is session-scoped and never
// outlives its TTL; it is written as a whole-cart JSON snapshot on every
// change.
type CartStore interface {
	Get(ctx context.Context, userID uint) ([]CartLine, error)
	Save(ctx context.Context, userID uint, lines []CartLine) error
	Clear(ctx context.Context, userID uint) error
}

const DefaultCartTTL = 24 * time.Hour

type RedisCartStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCartStore(client *redis.Client) *RedisCartStore {
	return &RedisCartStore{Client: client, TTL: DefaultCartTTL}
}

func cartKey(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

func (s *RedisCartStore) Get(ctx context.Context, userID uint) ([]CartLine, error) {
	raw, err := s.Client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var lines []CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}

func (s *RedisCartStore) Save(ctx context.Context, userID uint, lines []CartLine) error {
	if len(lines) == 0 {
		return s.Clear(ctx, userID)
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.Client.Set(ctx, cartKey(userID), raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis save cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Clear(ctx context.Context, userID uint) error {
	if err := s.Client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis clear cart: %w", err)
	}
	return nil
}
