package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fusefi/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) GetShippingOptions(ctx context.Context) ([]model.ShippingOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShippingOption), args.Error(1)
}

func TestCatalogHandler_GetProducts(t *testing.T) {
	logger := zerolog.Nop()

	testProducts := []model.Product{
		{ID: "event-hotspot", Name: "Event Hotspot", DailyRate: decimal.NewFromInt(149)},
		{ID: "event-router-kit", Name: "Event Router Kit", DailyRate: decimal.NewFromInt(299)},
	}

	tests := []struct {
		name           string
		method         string
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success",
			method:         http.MethodGet,
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Service error",
			method:         http.MethodGet,
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCatalogService)
			handler := NewCatalogHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetProducts", mock.Anything).Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, "/api/products", nil)
			w := httptest.NewRecorder()

			handler.GetProducts(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestCatalogHandler_GetProductByID(t *testing.T) {
	logger := zerolog.Nop()

	testProduct := &model.Product{
		ID:        "event-hotspot",
		Name:      "Event Hotspot",
		DailyRate: decimal.NewFromInt(149),
	}

	tests := []struct {
		name           string
		method         string
		path           string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
		expectService  bool
		productID      string
	}{
		{
			name:           "Success",
			method:         http.MethodGet,
			path:           "/api/products/event-hotspot",
			mockReturn:     testProduct,
			expectedStatus: http.StatusOK,
			expectService:  true,
			productID:      "event-hotspot",
		},
		{
			name:           "Product not found",
			method:         http.MethodGet,
			path:           "/api/products/retired-kit",
			mockReturn:     nil,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
			productID:      "retired-kit",
		},
		{
			name:           "Missing product ID",
			method:         http.MethodGet,
			path:           "/api/products/",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Method not allowed",
			method:         http.MethodPost,
			path:           "/api/products/event-hotspot",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockCatalogService)
			handler := NewCatalogHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetProductByID", mock.Anything, tt.productID).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			handler.GetProductByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectService {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestCatalogHandler_GetShippingOptions(t *testing.T) {
	logger := zerolog.Nop()

	testOptions := []model.ShippingOption{
		{ID: "standard", Name: "Standard Shipping", BasePrice: decimal.Zero, SortOrder: 1},
		{ID: "expedited", Name: "Expedited Shipping", BasePrice: decimal.NewFromInt(49), SortOrder: 2},
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCatalogService)
		handler := NewCatalogHandler(mockService, logger)
		mockService.On("GetShippingOptions", mock.Anything).Return(testOptions, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/shipping-options", nil)
		w := httptest.NewRecorder()

		handler.GetShippingOptions(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Expedited Shipping")
		mockService.AssertExpectations(t)
	})

	t.Run("Service error", func(t *testing.T) {
		mockService := new(MockCatalogService)
		handler := NewCatalogHandler(mockService, logger)
		mockService.On("GetShippingOptions", mock.Anything).Return(nil, errors.New("database error"))

		req := httptest.NewRequest(http.MethodGet, "/api/shipping-options", nil)
		w := httptest.NewRecorder()

		handler.GetShippingOptions(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
