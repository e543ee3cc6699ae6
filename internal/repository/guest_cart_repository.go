package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fusefi/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// guestCartRepository implements CartRepository for anonymous sessions.
// The entire cart is one JSON record under a key derived from the guest
// session id, with a TTL so abandoned guest carts age out on their own.
type guestCartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewGuestCartRepository creates the Redis-backed guest cart store.
func NewGuestCartRepository(client *redis.Client, ttl time.Duration, logger zerolog.Logger) CartRepository {
	return &guestCartRepository{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "guest_cart").Logger(),
	}
}

func guestCartKey(sessionID string) string {
	return "cart:guest:" + sessionID
}

// Load retrieves the guest cart record. A missing record means an empty
// cart. A record that fails to decode is discarded with a warning and
// also treated as empty rather than failing the request.
func (r *guestCartRepository) Load(ctx context.Context, sess model.Session) (*CartRecord, error) {
	key := guestCartKey(sess.GuestID)

	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to read guest cart")
		return nil, fmt.Errorf("failed to read guest cart: %w", err)
	}

	var record CartRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		r.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("malformed guest cart record, starting with an empty cart")
		return nil, nil
	}

	return &record, nil
}

// Save stores the full new cart snapshot as one record and refreshes
// the TTL.
func (r *guestCartRepository) Save(ctx context.Context, sess model.Session, record *CartRecord) error {
	key := guestCartKey(sess.GuestID)

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}

	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to write guest cart")
		return fmt.Errorf("failed to write guest cart: %w", err)
	}

	r.logger.Debug().
		Str("key", key).
		Int("item_count", len(record.Items)).
		Msg("guest cart saved")

	return nil
}

// Clear removes the guest cart record.
func (r *guestCartRepository) Clear(ctx context.Context, sess model.Session) error {
	key := guestCartKey(sess.GuestID)

	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("failed to delete guest cart")
		return fmt.Errorf("failed to delete guest cart: %w", err)
	}

	return nil
}
