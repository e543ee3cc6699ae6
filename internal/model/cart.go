package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one distinct kit in the cart. Adding a kit that is already
// present increments its quantity rather than creating a second entry.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// EventWindow is the rental period. Both bounds are nil until the user
// sets them; a half-set window is valid and prices as zero rental days.
type EventWindow struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Cart is the full cart state for one session. Derived totals are never
// stored on it; they are recomputed from the current state on every read.
type Cart struct {
	Items          []CartItem      `json:"items"`
	EventWindow    EventWindow     `json:"eventDates"`
	EventLocation  string          `json:"eventLocation"`
	ShippingOption *ShippingOption `json:"shippingOption,omitempty"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []CartItem{}}
}

// FindItem returns the index of the item holding the given product id,
// or -1 if the product is not in the cart.
func (c *Cart) FindItem(productID string) int {
	for i, item := range c.Items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Quote holds the derived pricing for a cart snapshot.
type Quote struct {
	RentalDays      int             `json:"rentalDays"`
	ItemCount       int             `json:"itemCount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent int64           `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	Total           decimal.Decimal `json:"total"`
}

// CartResponse is the API representation of a cart: its state plus the
// quote computed for it.
type CartResponse struct {
	Cart  *Cart `json:"cart"`
	Quote Quote `json:"quote"`
}

// AddItemRequest is the payload for adding a kit to the cart. An
// omitted quantity means one; an explicit non-positive one is rejected.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity,omitempty"`
}

// UpdateQuantityRequest sets an absolute quantity for a cart entry.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// EventDatesRequest replaces the cart's event window.
type EventDatesRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// EventLocationRequest replaces the cart's event location.
type EventLocationRequest struct {
	Location string `json:"location"`
}

// ShippingOptionRequest selects a shipping option by id.
type ShippingOptionRequest struct {
	OptionID string `json:"optionId"`
}

// MergeCartRequest migrates a guest cart into the signed-in account cart.
type MergeCartRequest struct {
	GuestSessionID string `json:"guestSessionId"`
}
