package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingAddress is the delivery address collected at checkout.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Street   string `json:"street"`
	Apt      string `json:"apt,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// BillingAddress is the billing address collected at checkout when it
// differs from the shipping address.
type BillingAddress struct {
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	Apt      string `json:"apt,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
}

// OrderLineItem is one cart entry frozen into an order snapshot.
type OrderLineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	DailyRate decimal.Decimal `json:"dailyRate"`
}

// OrderPayload is the immutable order snapshot handed to the external
// order/payment endpoint at submission. It is never mutated after it is
// built; a failed submission simply discards it and keeps the cart.
type OrderPayload struct {
	UserID             *uuid.UUID      `json:"userId"`
	EventLocation      string          `json:"eventLocation"`
	EventDates         EventWindow     `json:"eventDates"`
	RentalDays         int             `json:"rentalDays"`
	ShippingAddress    ShippingAddress `json:"shippingAddress"`
	BillingAddress     BillingAddress  `json:"billingAddress"`
	SameAsShipping     bool            `json:"sameAsShipping"`
	ShippingOptionID   string          `json:"shippingOptionId,omitempty"`
	ShippingOptionName string          `json:"shippingOptionName,omitempty"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountPercent    int64           `json:"discountPercent"`
	DiscountAmount     decimal.Decimal `json:"discountAmount"`
	ShippingCost       decimal.Decimal `json:"shippingCost"`
	Total              decimal.Decimal `json:"total"`
	OrderNotes         string          `json:"orderNotes,omitempty"`
	Items              []OrderLineItem `json:"items"`
}
