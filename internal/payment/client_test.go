package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fusefi/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *model.OrderPayload {
	return &model.OrderPayload{
		EventLocation: "Zilker Park",
		RentalDays:    8,
		Subtotal:      decimal.NewFromInt(4784),
		Total:         decimal.RequireFromString("4305.6"),
		Items: []model.OrderLineItem{
			{ProductID: "event-router-kit", Name: "Event Router Kit", Quantity: 2, DailyRate: decimal.NewFromInt(299)},
		},
	}
}

func newTestClient(endpointURL string) Client {
	return NewClient(Config{
		EndpointURL: endpointURL,
		Token:       "test-token",
		ReturnURL:   "https://fusefi.example.com",
		Timeout:     2 * time.Second,
	}, zerolog.Nop())
}

func TestClient_CreateCheckoutSession_Success(t *testing.T) {
	var captured sessionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example.com/cs_123"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	url, err := client.CreateCheckoutSession(context.Background(), testOrder(), "https://fusefi.example.com/confirm")

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/cs_123", url)
	assert.Equal(t, "https://fusefi.example.com/confirm", captured.ReturnURL)
	require.NotNil(t, captured.OrderData)
	assert.Equal(t, 8, captured.OrderData.RentalDays)
}

func TestClient_CreateCheckoutSession_DefaultReturnURL(t *testing.T) {
	var captured sessionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example.com/cs_123"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.CreateCheckoutSession(context.Background(), testOrder(), "")

	require.NoError(t, err)
	assert.Equal(t, "https://fusefi.example.com", captured.ReturnURL)
}

func TestClient_CreateCheckoutSession_EndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Card declined"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	url, err := client.CreateCheckoutSession(context.Background(), testOrder(), "")

	require.Error(t, err)
	assert.Empty(t, url)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeSubmissionFailed, domainErr.Code)
	assert.Equal(t, "Card declined", domainErr.Message)
}

func TestClient_CreateCheckoutSession_MissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	url, err := client.CreateCheckoutSession(context.Background(), testOrder(), "")

	require.Error(t, err)
	assert.Empty(t, url)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Failed to start checkout. Please try again.", domainErr.Message)
}

func TestClient_CreateCheckoutSession_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://pay.example.com/cs_123"})
	}))
	defer server.Close()

	client := NewClient(Config{
		EndpointURL: server.URL,
		Timeout:     50 * time.Millisecond,
	}, zerolog.Nop())

	url, err := client.CreateCheckoutSession(context.Background(), testOrder(), "")

	require.Error(t, err)
	assert.Empty(t, url)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeSubmissionFailed, domainErr.Code)
	assert.Contains(t, domainErr.Message, "took too long")
}

func TestClient_CreateCheckoutSession_Unconfigured(t *testing.T) {
	client := NewClient(Config{}, zerolog.Nop())

	url, err := client.CreateCheckoutSession(context.Background(), testOrder(), "")

	require.Error(t, err)
	assert.Empty(t, url)

	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeSubmissionFailed, domainErr.Code)
	assert.Contains(t, domainErr.Message, "Payments are not available")
}
