package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON            = "INVALID_JSON"
	ErrCodeMissingField           = "MISSING_FIELD"
	ErrCodeInvalidQuantity        = "INVALID_QUANTITY"
	ErrCodeProductNotFound        = "PRODUCT_NOT_FOUND"
	ErrCodeShippingOptionNotFound = "SHIPPING_OPTION_NOT_FOUND"
	ErrCodeEmptyCart              = "EMPTY_CART"
	ErrCodeCheckoutNotFound       = "CHECKOUT_NOT_FOUND"
	ErrCodeInvalidCheckoutStep    = "INVALID_CHECKOUT_STEP"
	ErrCodeValidationFailed       = "VALIDATION_FAILED"
	ErrCodeSubmissionFailed       = "SUBMISSION_FAILED"
	ErrCodeUnauthorised           = "UNAUTHORIZED"
	ErrCodeForbidden              = "FORBIDDEN"
	ErrCodeInternalError          = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a user-correctable input error. It is
// reported inline at the failing checkout step and is never fatal.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidationFailed, message)
}

// NewSubmissionError wraps a failure from the external order/payment
// endpoint. The cart is guaranteed to be preserved when one is returned.
func NewSubmissionError(message string) *DomainError {
	if message == "" {
		message = "Failed to start checkout. Please try again."
	}
	return NewDomainError(ErrCodeSubmissionFailed, message)
}

// Common domain errors
var (
	ErrInvalidQuantity        = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrProductNotFound        = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrShippingOptionNotFound = NewDomainError(ErrCodeShippingOptionNotFound, "Shipping option not found")
	ErrEmptyCart              = NewDomainError(ErrCodeEmptyCart, "Your cart is empty")
	ErrCheckoutNotFound       = NewDomainError(ErrCodeCheckoutNotFound, "Checkout session not found")
	ErrInvalidCheckoutStep    = NewDomainError(ErrCodeInvalidCheckoutStep, "Operation not allowed at the current checkout step")
)
