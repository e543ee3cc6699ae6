package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"fusefi/internal/middleware"
	"fusefi/internal/model"
	"fusefi/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout-related HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Begin handles POST /api/checkout requests.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	resp, err := h.service.Begin(r.Context(), sess)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Route dispatches /api/checkout/{id} and /api/checkout/{id}/{action}
// requests.
func (h *CheckoutHandler) Route(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/checkout/")
	parts := strings.SplitN(rest, "/", 2)

	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid checkout ID format", h.logger)
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "":
		h.get(w, r, id)
	case "shipping":
		h.shipping(w, r, id)
	case "billing":
		h.billing(w, r, id)
	case "back":
		h.back(w, r, id)
	case "submit":
		h.submit(w, r, id)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// get handles GET /api/checkout/{id}.
func (h *CheckoutHandler) get(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	resp, err := h.service.Get(r.Context(), sess, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// shipping handles PUT /api/checkout/{id}/shipping.
func (h *CheckoutHandler) shipping(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var addr model.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	resp, err := h.service.SubmitShipping(r.Context(), sess, id, addr)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// billing handles PUT /api/checkout/{id}/billing.
func (h *CheckoutHandler) billing(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.BillingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	resp, err := h.service.SubmitBilling(r.Context(), sess, id, req.Address, req.SameAsShipping)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// back handles POST /api/checkout/{id}/back.
func (h *CheckoutHandler) back(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	resp, err := h.service.Back(r.Context(), sess, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// submit handles POST /api/checkout/{id}/submit.
func (h *CheckoutHandler) submit(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.SubmitCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	sess := middleware.SessionFrom(r.Context())
	resp, err := h.service.Submit(r.Context(), sess, id, req.OrderNotes, req.ReturnURL)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
