package suppliers

import (
	"time"
)

// SupplierStatus enumerates supplier lifecycle states.
type SupplierStatus string

const (
	StatusActive   SupplierStatus = "active"
	StatusInactive SupplierStatus = "inactive"
)

// Supplier represents a supplier entity
type Supplier struct {
	ID        int64          `json:"id"`
	Code      string         `json:"code"`
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Status    SupplierStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ItemPrice is one row of a supplier's price list.
type ItemPrice struct {
	SupplierID      int64     `json:"supplier_id"`
	InventoryItemID int64     `json:"inventory_item_id"`
	UnitPrice       float64   `json:"unit_price"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PriceQuote is the lookup result for a single requested item. HasPrice is
// false when the supplier has no list price for the item.
type PriceQuote struct {
	InventoryItemID int64    `json:"inventory_item_id"`
	UnitPrice       *float64 `json:"unit_price"`
	HasPrice        bool     `json:"has_price"`
}
