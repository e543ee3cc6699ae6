package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a rentable Wi-Fi kit in the catalogue.
type Product struct {
	ID         string          `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	DailyRate  decimal.Decimal `json:"dailyRate" db:"daily_rate"`
	MaxDevices int             `json:"maxDevices" db:"max_devices"`
	Features   []string        `json:"features" db:"features"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// ShippingOption represents a delivery method from the shipping catalogue.
// Options are listed by sort order; the first is the storefront default.
type ShippingOption struct {
	ID          string          `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	BasePrice   decimal.Decimal `json:"basePrice" db:"base_price"`
	Description string          `json:"description" db:"description"`
	SortOrder   int             `json:"sortOrder" db:"sort_order"`
}
