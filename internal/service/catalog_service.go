package service

import (
	"context"
	"fmt"

	"fusefi/internal/model"
	"fusefi/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(catalogRepo repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// GetProducts retrieves the kit catalogue ordered by daily rate.
func (s *catalogService) GetProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.catalogRepo.GetProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	if products == nil {
		products = []model.Product{}
	}

	return products, nil
}

// GetProductByID retrieves a single kit by ID.
func (s *catalogService) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product ID is required")
	}

	product, err := s.catalogRepo.GetProductByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// GetShippingOptions retrieves shipping options in display order.
func (s *catalogService) GetShippingOptions(ctx context.Context) ([]model.ShippingOption, error) {
	options, err := s.catalogRepo.GetShippingOptions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get shipping options")
		return nil, fmt.Errorf("failed to get shipping options: %w", err)
	}

	if options == nil {
		options = []model.ShippingOption{}
	}

	return options, nil
}
