// Package payment wraps the external order/payment endpoint that turns
// an order snapshot into a hosted checkout session.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fusefi/internal/model"

	"github.com/rs/zerolog"
)

// Client creates checkout sessions with the external endpoint.
type Client interface {
	// CreateCheckoutSession submits the order snapshot and returns the
	// redirect URL for the hosted payment page. Every failure comes back
	// as a submission error; callers must keep the cart intact on error.
	CreateCheckoutSession(ctx context.Context, order *model.OrderPayload, returnURL string) (string, error)
}

// Config holds the endpoint settings. An empty EndpointURL disables
// submissions without taking the rest of the storefront down.
type Config struct {
	EndpointURL string
	Token       string
	ReturnURL   string
	Timeout     time.Duration
}

// sessionRequest mirrors the endpoint's expected body.
type sessionRequest struct {
	OrderData *model.OrderPayload `json:"orderData"`
	ReturnURL string              `json:"returnUrl"`
}

// sessionResponse covers both the success and error payload shapes.
type sessionResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// httpClient implements Client over plain HTTP with an explicit per-call
// deadline, so a hung endpoint can never stall a submission forever.
type httpClient struct {
	cfg    Config
	client *http.Client
	logger zerolog.Logger
}

// NewClient creates the HTTP payment client.
func NewClient(cfg Config, logger zerolog.Logger) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{},
		logger: logger.With().Str("component", "payment-client").Logger(),
	}
}

// CreateCheckoutSession posts the order snapshot to the endpoint.
func (c *httpClient) CreateCheckoutSession(ctx context.Context, order *model.OrderPayload, returnURL string) (string, error) {
	if c.cfg.EndpointURL == "" {
		c.logger.Warn().Msg("payment endpoint not configured, rejecting submission")
		return "", model.NewSubmissionError("Payments are not available right now. Please try again later.")
	}

	if returnURL == "" {
		returnURL = c.cfg.ReturnURL
	}

	body, err := json.Marshal(sessionRequest{OrderData: order, ReturnURL: returnURL})
	if err != nil {
		return "", fmt.Errorf("failed to encode order payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EndpointURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build checkout session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Error().Err(err).Msg("checkout session request timed out")
			return "", model.NewSubmissionError("The payment service took too long to respond. Please try again.")
		}
		c.logger.Error().Err(err).Msg("checkout session request failed")
		return "", model.NewSubmissionError("")
	}
	defer resp.Body.Close()

	var result sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Error().
			Err(err).
			Int("status", resp.StatusCode).
			Msg("failed to decode checkout session response")
		return "", model.NewSubmissionError("")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("endpoint_error", result.Error).
			Msg("checkout session rejected")
		return "", model.NewSubmissionError(result.Error)
	}

	if result.URL == "" {
		c.logger.Error().Int("status", resp.StatusCode).Msg("checkout session response missing redirect URL")
		return "", model.NewSubmissionError("")
	}

	c.logger.Info().Msg("checkout session created")

	return result.URL, nil
}
