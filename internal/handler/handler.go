package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fusefi/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service error to an HTTP response. Domain
// errors carry their own user-facing message; anything else is hidden
// behind a generic 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("unexpected service error")
		writeError(w, http.StatusInternalServerError, "internal server error", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeInvalidQuantity:
		status = http.StatusBadRequest
	case model.ErrCodeProductNotFound, model.ErrCodeShippingOptionNotFound, model.ErrCodeCheckoutNotFound:
		status = http.StatusNotFound
	case model.ErrCodeEmptyCart, model.ErrCodeInvalidCheckoutStep:
		status = http.StatusConflict
	case model.ErrCodeValidationFailed:
		status = http.StatusUnprocessableEntity
	case model.ErrCodeSubmissionFailed:
		status = http.StatusBadGateway
	case model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	case model.ErrCodeForbidden:
		status = http.StatusForbidden
	}

	writeError(w, status, domainErr.Message, logger)
}
