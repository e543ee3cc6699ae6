package repository

import (
	"context"
	"time"

	"fusefi/internal/model"
)

// CartRecord is the persisted form of a cart: product references by id
// plus the shared event fields. Products are re-hydrated from the
// catalogue on load, so a kit removed from the catalogue simply drops
// out of the cart.
type CartRecord struct {
	Items            []CartRecordItem `json:"items"`
	EventStart       *time.Time       `json:"eventStart"`
	EventEnd         *time.Time       `json:"eventEnd"`
	EventLocation    string           `json:"eventLocation"`
	ShippingOptionID string           `json:"shippingOptionId,omitempty"`
}

// CartRecordItem is one persisted cart entry.
type CartRecordItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartRepository persists cart snapshots for one session kind. The two
// implementations (guest store in Redis, account store in PostgreSQL)
// are interchangeable; the cart service selects one per request from
// the session. There is no implicit migration between them.
type CartRepository interface {
	// Load returns the stored cart record, or nil if the session has
	// no cart yet. An unreadable record is treated as no cart.
	Load(ctx context.Context, sess model.Session) (*CartRecord, error)

	// Save stores the full new cart snapshot, replacing any previous one.
	Save(ctx context.Context, sess model.Session, record *CartRecord) error

	// Clear removes the session's cart entirely.
	Clear(ctx context.Context, sess model.Session) error
}

// CatalogRepository defines read access to the kit and shipping
// catalogues. Catalogue rows are reference data; nothing here mutates them.
type CatalogRepository interface {
	// GetProducts retrieves the kit catalogue ordered by daily rate.
	GetProducts(ctx context.Context) ([]model.Product, error)

	// GetProductByID retrieves a single kit by its ID.
	GetProductByID(ctx context.Context, id string) (*model.Product, error)

	// GetProductsByIDs retrieves multiple kits by their IDs.
	GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetShippingOptions retrieves shipping options in display order.
	GetShippingOptions(ctx context.Context) ([]model.ShippingOption, error)

	// GetShippingOptionByID retrieves a single shipping option by its ID.
	GetShippingOptionByID(ctx context.Context, id string) (*model.ShippingOption, error)
}
