package service

import (
	"context"
	"fmt"

	"fusefi/internal/checkout"
	"fusefi/internal/model"
	"fusefi/internal/payment"
	"fusefi/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService on top of the checkout
// step machine, the cart store, and the payment client.
type checkoutService struct {
	carts    CartService
	manager  *checkout.Manager
	payments payment.Client
	logger   zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	carts CartService,
	manager *checkout.Manager,
	payments payment.Client,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		carts:    carts,
		manager:  manager,
		payments: payments,
		logger:   logger.With().Str("service", "checkout").Logger(),
	}
}

// Begin opens a checkout at the shipping step. An empty cart
// short-circuits before a session is created or any network call made.
func (s *checkoutService) Begin(ctx context.Context, sess model.Session) (*model.CheckoutResponse, error) {
	cart, err := s.carts.Get(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for checkout: %w", err)
	}
	if len(cart.Cart.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	prefill := model.ShippingAddress{
		FullName: sess.Name,
		Email:    sess.Email,
	}

	cs := s.manager.Begin(sess.Key(), prefill)

	s.logger.Info().
		Str("checkout_id", cs.ID.String()).
		Str("session", sess.Key()).
		Msg("checkout opened")

	return s.respond(ctx, sess, cs)
}

// Get returns the current checkout state.
func (s *checkoutService) Get(ctx context.Context, sess model.Session, id uuid.UUID) (*model.CheckoutResponse, error) {
	cs, err := s.manager.Get(id, sess.Key())
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, sess, cs)
}

// SubmitShipping records and validates the shipping form.
func (s *checkoutService) SubmitShipping(ctx context.Context, sess model.Session, id uuid.UUID, addr model.ShippingAddress) (*model.CheckoutResponse, error) {
	cs, err := s.manager.SubmitShipping(id, sess.Key(), addr)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, sess, cs)
}

// SubmitBilling records and validates the billing form.
func (s *checkoutService) SubmitBilling(ctx context.Context, sess model.Session, id uuid.UUID, addr model.BillingAddress, sameAsShipping bool) (*model.CheckoutResponse, error) {
	cs, err := s.manager.SubmitBilling(id, sess.Key(), addr, sameAsShipping)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, sess, cs)
}

// Back moves exactly one step back.
func (s *checkoutService) Back(ctx context.Context, sess model.Session, id uuid.UUID) (*model.CheckoutResponse, error) {
	cs, err := s.manager.Back(id, sess.Key())
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, sess, cs)
}

// Submit confirms the reviewed order. The cart is cleared only after
// the external endpoint reports success; every failure keeps the cart
// intact so the user can retry.
func (s *checkoutService) Submit(ctx context.Context, sess model.Session, id uuid.UUID, orderNotes, returnURL string) (*model.SubmitCheckoutResponse, error) {
	cs, err := s.manager.Get(id, sess.Key())
	if err != nil {
		return nil, err
	}
	if cs.Step != checkout.StepReview {
		return nil, model.ErrInvalidCheckoutStep
	}

	cart, err := s.carts.Get(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for submission: %w", err)
	}
	if len(cart.Cart.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	order := buildOrderPayload(sess, cs, cart, orderNotes)

	url, err := s.payments.CreateCheckoutSession(ctx, order, returnURL)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("checkout_id", cs.ID.String()).
			Msg("order submission failed, cart preserved")
		return nil, err
	}

	if _, err := s.carts.Clear(ctx, sess); err != nil {
		// The order is already placed; a failed clear must not undo that.
		s.logger.Error().
			Err(err).
			Str("checkout_id", cs.ID.String()).
			Msg("failed to clear cart after successful submission")
	}

	if _, err := s.manager.MarkSubmitted(id, sess.Key(), orderNotes); err != nil {
		s.logger.Error().
			Err(err).
			Str("checkout_id", cs.ID.String()).
			Msg("failed to mark checkout submitted")
	}

	s.logger.Info().
		Str("checkout_id", cs.ID.String()).
		Str("session", sess.Key()).
		Msg("order submitted")

	return &model.SubmitCheckoutResponse{URL: url}, nil
}

// respond shapes a checkout session for the API, attaching the review
// summary once the checkout has reached the review step.
func (s *checkoutService) respond(ctx context.Context, sess model.Session, cs checkout.Session) (*model.CheckoutResponse, error) {
	resp := &model.CheckoutResponse{
		CheckoutID:      cs.ID,
		Step:            string(cs.Step),
		ShippingAddress: cs.Shipping,
		BillingAddress:  cs.Billing,
		SameAsShipping:  cs.SameAsShipping,
	}

	if cs.Step == checkout.StepReview {
		cart, err := s.carts.Get(ctx, sess)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart for review: %w", err)
		}
		resp.Review = buildReview(cs, cart)
	}

	return resp, nil
}

// buildReview assembles the read-only review summary from the live cart.
func buildReview(cs checkout.Session, cart *model.CartResponse) *model.ReviewSummary {
	review := &model.ReviewSummary{
		EventLocation:   cart.Cart.EventLocation,
		EventDates:      cart.Cart.EventWindow,
		ShippingAddress: cs.Shipping,
		SameAsShipping:  cs.SameAsShipping,
		ShippingOption:  cart.Cart.ShippingOption,
		Quote:           cart.Quote,
	}
	if !cs.SameAsShipping {
		billing := cs.Billing
		review.BillingAddress = &billing
	}
	for _, item := range cart.Cart.Items {
		review.Items = append(review.Items, model.ReviewLineItem{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			DailyRate: item.Product.DailyRate,
			LineTotal: pricing.LineTotal(item, cart.Quote.RentalDays),
		})
	}
	return review
}

// buildOrderPayload freezes the cart and checkout forms into the
// immutable order snapshot handed to the payment endpoint.
func buildOrderPayload(sess model.Session, cs checkout.Session, cart *model.CartResponse, orderNotes string) *model.OrderPayload {
	order := &model.OrderPayload{
		UserID:          sess.UserID,
		EventLocation:   cart.Cart.EventLocation,
		EventDates:      cart.Cart.EventWindow,
		RentalDays:      cart.Quote.RentalDays,
		ShippingAddress: cs.Shipping,
		BillingAddress:  cs.Billing,
		SameAsShipping:  cs.SameAsShipping,
		Subtotal:        cart.Quote.Subtotal,
		DiscountPercent: cart.Quote.DiscountPercent,
		DiscountAmount:  cart.Quote.DiscountAmount,
		ShippingCost:    cart.Quote.ShippingCost,
		Total:           cart.Quote.Total,
		OrderNotes:      orderNotes,
	}
	if cart.Cart.ShippingOption != nil {
		order.ShippingOptionID = cart.Cart.ShippingOption.ID
		order.ShippingOptionName = cart.Cart.ShippingOption.Name
	}
	for _, item := range cart.Cart.Items {
		order.Items = append(order.Items, model.OrderLineItem{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			DailyRate: item.Product.DailyRate,
		})
	}
	return order
}
