// Package checkout holds the multi-step checkout state machine:
// shipping -> billing -> review -> submitted. Sessions live in memory
// only; nothing about a checkout is persisted until submission succeeds,
// and abandoning one simply lets it expire.
package checkout

import (
	"regexp"
	"time"

	"fusefi/internal/model"

	"github.com/google/uuid"
)

// Step identifies a checkout step.
type Step string

const (
	StepShipping  Step = "shipping"
	StepBilling   Step = "billing"
	StepReview    Step = "review"
	StepSubmitted Step = "submitted"
)

// Session is one in-progress checkout, owned by a single cart session.
// Field values survive validation failures and backward steps.
type Session struct {
	ID             uuid.UUID
	Owner          string
	Step           Step
	Shipping       model.ShippingAddress
	Billing        model.BillingAddress
	SameAsShipping bool
	OrderNotes     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Single @ with at least one dot after it, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateShipping checks the shipping step's required fields. Apt is
// optional. A failure blocks the advance to billing but never clears
// the entered values.
func ValidateShipping(addr model.ShippingAddress) error {
	if addr.FullName == "" || addr.Email == "" || addr.Phone == "" ||
		addr.Street == "" || addr.City == "" || addr.State == "" || addr.Zip == "" {
		return model.NewValidationError("Please fill in all required shipping fields.")
	}
	if !emailPattern.MatchString(addr.Email) {
		return model.NewValidationError("Please enter a valid email address.")
	}
	return nil
}

// ValidateBilling checks the billing step. With sameAsShipping set the
// billing form is not collected and validation always passes.
func ValidateBilling(addr model.BillingAddress, sameAsShipping bool) error {
	if sameAsShipping {
		return nil
	}
	if addr.FullName == "" || addr.Street == "" || addr.City == "" ||
		addr.State == "" || addr.Zip == "" {
		return model.NewValidationError("Please fill in all required billing fields.")
	}
	return nil
}
