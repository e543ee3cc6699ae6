package router

import (
	"net/http"
	"strings"

	"fusefi/internal/handler"
	"fusefi/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	catalogHandler *handler.CatalogHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no identity required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Catalog handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		// Check if this is a request for a specific product ID
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			catalogHandler.GetProductByID(w, r)
			return
		}
		catalogHandler.GetProducts(w, r)
	}

	// Register catalog routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)
	mux.HandleFunc("/api/shipping-options", catalogHandler.GetShippingOptions)

	// Cart routes: the bare path serves read/clear, sub-paths serve the
	// individual mutations
	mux.HandleFunc("/api/cart", cartHandler.Cart)
	mux.HandleFunc("/api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("/api/cart/items/", cartHandler.Item)
	mux.HandleFunc("/api/cart/event-dates", cartHandler.EventDates)
	mux.HandleFunc("/api/cart/event-location", cartHandler.EventLocation)
	mux.HandleFunc("/api/cart/shipping-option", cartHandler.ShippingOption)
	mux.HandleFunc("/api/cart/merge", cartHandler.Merge)

	// Checkout handler function
	checkoutRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/checkout" || r.URL.Path == "/api/checkout/" {
			checkoutHandler.Begin(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/api/checkout/") {
			checkoutHandler.Route(w, r)
			return
		}

		http.Error(w, "not found", http.StatusNotFound)
	}

	// Register checkout routes (both with and without trailing slash)
	mux.HandleFunc("/api/checkout", checkoutRouteHandler)
	mux.HandleFunc("/api/checkout/", checkoutRouteHandler)

	// Apply middleware in order: Recovery -> Logging -> CORS -> Identity
	var handler http.Handler = mux
	handler = middleware.Identity(logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
