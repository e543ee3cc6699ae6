package service

import (
	"context"
	"time"

	"fusefi/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines read operations over the kit and shipping
// catalogues.
type CatalogService interface {
	// GetProducts retrieves the kit catalogue ordered by daily rate.
	GetProducts(ctx context.Context) ([]model.Product, error)

	// GetProductByID retrieves a single kit by ID.
	GetProductByID(ctx context.Context, id string) (*model.Product, error)

	// GetShippingOptions retrieves shipping options in display order.
	GetShippingOptions(ctx context.Context) ([]model.ShippingOption, error)
}

// CartService is the cart store: every operation returns the resulting
// cart with a freshly computed quote, and mirrors the new state to the
// session's persistence before returning.
type CartService interface {
	// Get loads the session's cart.
	Get(ctx context.Context, sess model.Session) (*model.CartResponse, error)

	// AddItem puts a kit in the cart, incrementing the quantity when the
	// kit is already present. Non-positive quantities are rejected.
	AddItem(ctx context.Context, sess model.Session, productID string, quantity int) (*model.CartResponse, error)

	// UpdateQuantity sets an absolute quantity; zero or below removes
	// the entry.
	UpdateQuantity(ctx context.Context, sess model.Session, productID string, quantity int) (*model.CartResponse, error)

	// RemoveItem deletes the entry; no-op when absent.
	RemoveItem(ctx context.Context, sess model.Session, productID string) (*model.CartResponse, error)

	// Clear resets the cart to empty.
	Clear(ctx context.Context, sess model.Session) (*model.CartResponse, error)

	// SetEventDates replaces the rental window. No ordering validation
	// happens here; that is checkout's concern.
	SetEventDates(ctx context.Context, sess model.Session, start, end *time.Time) (*model.CartResponse, error)

	// SetEventLocation replaces the event location.
	SetEventLocation(ctx context.Context, sess model.Session, location string) (*model.CartResponse, error)

	// SetShippingOption selects a shipping option by id; an empty id
	// clears the selection.
	SetShippingOption(ctx context.Context, sess model.Session, optionID string) (*model.CartResponse, error)

	// Merge migrates a guest cart into the signed-in account cart and
	// deletes the guest record. Only valid for authenticated sessions.
	Merge(ctx context.Context, sess model.Session, guestSessionID string) (*model.CartResponse, error)
}

// CheckoutService drives the multi-step checkout over a session's cart.
type CheckoutService interface {
	// Begin opens a checkout at the shipping step. An empty cart
	// short-circuits with ErrEmptyCart before anything is created.
	Begin(ctx context.Context, sess model.Session) (*model.CheckoutResponse, error)

	// Get returns the current checkout state, including the review
	// summary when the checkout has reached that step.
	Get(ctx context.Context, sess model.Session, id uuid.UUID) (*model.CheckoutResponse, error)

	// SubmitShipping records and validates the shipping form.
	SubmitShipping(ctx context.Context, sess model.Session, id uuid.UUID, addr model.ShippingAddress) (*model.CheckoutResponse, error)

	// SubmitBilling records and validates the billing form.
	SubmitBilling(ctx context.Context, sess model.Session, id uuid.UUID, addr model.BillingAddress, sameAsShipping bool) (*model.CheckoutResponse, error)

	// Back moves exactly one step back, preserving entered fields.
	Back(ctx context.Context, sess model.Session, id uuid.UUID) (*model.CheckoutResponse, error)

	// Submit confirms the reviewed order: it snapshots the cart, hands
	// the order to the external payment endpoint, and clears the cart
	// only after the endpoint reports success.
	Submit(ctx context.Context, sess model.Session, id uuid.UUID, orderNotes, returnURL string) (*model.SubmitCheckoutResponse, error)
}
