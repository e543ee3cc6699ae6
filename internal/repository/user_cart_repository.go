package repository

import (
	"context"
	"fmt"

	"fusefi/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userCartRepository implements CartRepository for signed-in users.
// One carts row per user holds the shared event fields, so the rental
// window lives in exactly one place; cart_items rows are keyed
// (user_id, product_id) and repeated saves upsert rather than duplicate.
type userCartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserCartRepository creates the PostgreSQL-backed account cart store.
func NewUserCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &userCartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user_cart").Logger(),
	}
}

// Load retrieves the account cart record, or nil if the user has none.
func (r *userCartRepository) Load(ctx context.Context, sess model.Session) (*CartRecord, error) {
	userID, err := requireUser(sess)
	if err != nil {
		return nil, err
	}

	cartQuery := `
		SELECT event_start_date, event_end_date, event_location, shipping_option_id
		FROM carts
		WHERE user_id = $1
	`

	record := &CartRecord{}
	var shippingOptionID *string
	err = r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&record.EventStart,
		&record.EventEnd,
		&record.EventLocation,
		&shippingOptionID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID.String()).Msg("no cart for user")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	if shippingOptionID != nil {
		record.ShippingOptionID = *shippingOptionID
	}

	itemsQuery := `
		SELECT product_id, quantity
		FROM cart_items
		WHERE user_id = $1
		ORDER BY added_at, product_id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item CartRecordItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		record.Items = append(record.Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return record, nil
}

// Save stores the full new cart snapshot in one transaction: the carts
// row is upserted, items missing from the snapshot are deleted, and the
// rest are upserted in a batch.
func (r *userCartRepository) Save(ctx context.Context, sess model.Session, record *CartRecord) error {
	userID, err := requireUser(sess)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var shippingOptionID *string
	if record.ShippingOptionID != "" {
		shippingOptionID = &record.ShippingOptionID
	}

	upsertCart := `
		INSERT INTO carts (user_id, event_start_date, event_end_date, event_location, shipping_option_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			event_start_date = EXCLUDED.event_start_date,
			event_end_date = EXCLUDED.event_end_date,
			event_location = EXCLUDED.event_location,
			shipping_option_id = EXCLUDED.shipping_option_id,
			updated_at = NOW()
	`

	_, err = tx.Exec(ctx, upsertCart,
		userID, record.EventStart, record.EventEnd, record.EventLocation, shippingOptionID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to upsert cart")
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	keepIDs := make([]string, len(record.Items))
	for i, item := range record.Items {
		keepIDs[i] = item.ProductID
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND NOT (product_id = ANY($2))`,
		userID, keepIDs)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to remove stale cart items")
		return fmt.Errorf("failed to remove stale cart items: %w", err)
	}

	if len(record.Items) > 0 {
		upsertItem := `
			INSERT INTO cart_items (user_id, product_id, quantity, added_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = EXCLUDED.quantity
		`

		batch := &pgx.Batch{}
		for _, item := range record.Items {
			batch.Queue(upsertItem, userID, item.ProductID, item.Quantity)
		}

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < len(record.Items); i++ {
			if _, execErr := results.Exec(); execErr != nil {
				_ = results.Close()
				err = execErr
				r.logger.Error().
					Err(err).
					Str("user_id", userID.String()).
					Str("product_id", record.Items[i].ProductID).
					Msg("failed to upsert cart item")
				return fmt.Errorf("failed to upsert cart item: %w", err)
			}
		}
		if err = results.Close(); err != nil {
			return fmt.Errorf("failed to close batch: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to commit cart save")
		return fmt.Errorf("failed to commit cart save: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID.String()).
		Int("item_count", len(record.Items)).
		Msg("cart saved")

	return nil
}

// Clear removes the user's cart row and all of its items.
func (r *userCartRepository) Clear(ctx context.Context, sess model.Session) error {
	userID, err := requireUser(sess)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && rbErr != pgx.ErrTxClosed {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to delete cart items")
		return fmt.Errorf("failed to delete cart items: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to commit cart clear")
		return fmt.Errorf("failed to commit cart clear: %w", err)
	}

	return nil
}

// requireUser guards against the account store being used for a guest.
func requireUser(sess model.Session) (uuid.UUID, error) {
	if sess.UserID == nil {
		return uuid.Nil, fmt.Errorf("account cart store requires an authenticated session")
	}
	return *sess.UserID, nil
}
