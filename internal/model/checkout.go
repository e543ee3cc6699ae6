package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingRequest is the payload for the billing checkout step. With
// SameAsShipping set (the storefront default) the address is ignored.
type BillingRequest struct {
	SameAsShipping bool           `json:"sameAsShipping"`
	Address        BillingAddress `json:"address"`
}

// SubmitCheckoutRequest confirms the reviewed order.
type SubmitCheckoutRequest struct {
	OrderNotes string `json:"orderNotes"`
	ReturnURL  string `json:"returnUrl"`
}

// SubmitCheckoutResponse carries the payment redirect target returned
// by the external endpoint.
type SubmitCheckoutResponse struct {
	URL string `json:"url"`
}

// ReviewLineItem is one cart entry as shown on the review step, with
// its line total (daily rate x quantity x rental days).
type ReviewLineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	DailyRate decimal.Decimal `json:"dailyRate"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// ReviewSummary is the read-only order summary presented at the review
// step. The discount line is meaningful only when DiscountPercent on
// the quote is above zero.
type ReviewSummary struct {
	EventLocation   string           `json:"eventLocation"`
	EventDates      EventWindow      `json:"eventDates"`
	Items           []ReviewLineItem `json:"items"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	BillingAddress  *BillingAddress  `json:"billingAddress,omitempty"`
	SameAsShipping  bool             `json:"sameAsShipping"`
	ShippingOption  *ShippingOption  `json:"shippingOption,omitempty"`
	Quote           Quote            `json:"quote"`
}

// CheckoutResponse is the API representation of a checkout session.
// Review is populated only at the review step.
type CheckoutResponse struct {
	CheckoutID      uuid.UUID       `json:"checkoutId"`
	Step            string          `json:"step"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	BillingAddress  BillingAddress  `json:"billingAddress"`
	SameAsShipping  bool            `json:"sameAsShipping"`
	Review          *ReviewSummary  `json:"review,omitempty"`
}
