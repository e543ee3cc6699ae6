package repository

import (
	"context"
	"fmt"

	"fusefi/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalogue repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

// GetProducts retrieves the kit catalogue ordered by daily rate.
func (r *catalogRepository) GetProducts(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT id, name, daily_rate, max_devices, features, created_at
		FROM products
		ORDER BY daily_rate
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, r.logger)
}

// GetProductByID retrieves a single kit by its ID.
func (r *catalogRepository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT id, name, daily_rate, max_devices, features, created_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.DailyRate, &p.MaxDevices, &p.Features, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetProductsByIDs retrieves multiple kits by their IDs.
func (r *catalogRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT id, name, daily_rate, max_devices, features, created_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY daily_rate
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows, r.logger)
}

// GetShippingOptions retrieves shipping options in display order.
func (r *catalogRepository) GetShippingOptions(ctx context.Context) ([]model.ShippingOption, error) {
	query := `
		SELECT id, name, base_price, description, sort_order
		FROM shipping_options
		ORDER BY sort_order
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query shipping options")
		return nil, fmt.Errorf("failed to query shipping options: %w", err)
	}
	defer rows.Close()

	var options []model.ShippingOption
	for rows.Next() {
		var o model.ShippingOption
		err := rows.Scan(&o.ID, &o.Name, &o.BasePrice, &o.Description, &o.SortOrder)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan shipping option row")
			return nil, fmt.Errorf("failed to scan shipping option: %w", err)
		}
		options = append(options, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating shipping option rows")
		return nil, fmt.Errorf("error iterating shipping options: %w", err)
	}

	return options, nil
}

// GetShippingOptionByID retrieves a single shipping option by its ID.
func (r *catalogRepository) GetShippingOptionByID(ctx context.Context, id string) (*model.ShippingOption, error) {
	query := `
		SELECT id, name, base_price, description, sort_order
		FROM shipping_options
		WHERE id = $1
	`

	var o model.ShippingOption
	err := r.pool.QueryRow(ctx, query, id).Scan(&o.ID, &o.Name, &o.BasePrice, &o.Description, &o.SortOrder)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("option_id", id).Msg("shipping option not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("option_id", id).Msg("failed to query shipping option")
		return nil, fmt.Errorf("failed to query shipping option: %w", err)
	}

	return &o, nil
}

// scanProducts collects product rows, including the features text array.
func scanProducts(rows pgx.Rows, logger zerolog.Logger) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.DailyRate, &p.MaxDevices, &p.Features, &p.CreatedAt)
		if err != nil {
			logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
