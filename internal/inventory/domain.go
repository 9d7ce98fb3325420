package inventory

import (
	"fmt"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

var (
	ErrInvalidQuantity = fmt.Errorf("inventory: invalid quantity: %w", shared.ErrValidation)
	ErrNegativeStock   = fmt.Errorf("inventory: insufficient stock: %w", shared.ErrConflict)
	ErrItemNotFound    = fmt.Errorf("inventory: item: %w", shared.ErrNotFound)
	ErrBalanceNotFound = fmt.Errorf("inventory: balance: %w", shared.ErrNotFound)
)

// StockMovement is one append-only ledger row. Quantity is signed: inbound
// positive, outbound negative, adjustments either.
type StockMovement struct {
	ID              int64        `json:"id"`
	InventoryItemID int64        `json:"inventory_item_id"`
	ItemCode        string       `json:"item_code"`
	ItemName        string       `json:"item_name"`
	Type            MovementType `json:"type"`
	Quantity        float64      `json:"quantity"`
	OccurredAt      time.Time    `json:"occurred_at"`
	Reference       string       `json:"reference"`
	CreatedBy       int64        `json:"created_by"`
	CreatedAt       time.Time    `json:"created_at"`
}

// Balance is the maintained on-hand quantity for one item.
type Balance struct {
	InventoryItemID int64     `json:"inventory_item_id"`
	OnHand          float64   `json:"on_hand"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StockLevel joins the balance with item master data for display and the
// reorder check.
type StockLevel struct {
	InventoryItemID int64   `json:"inventory_item_id"`
	ItemCode        string  `json:"item_code"`
	ItemName        string  `json:"item_name"`
	Unit            string  `json:"unit"`
	OnHand          float64 `json:"on_hand"`
	ReorderLevel    float64 `json:"reorder_level"`
}

// NeedsReorder reports whether the item sits at or below its reorder level.
func (l StockLevel) NeedsReorder() bool {
	return l.OnHand <= l.ReorderLevel
}

// MovementInput carries a movement request into the service.
type MovementInput struct {
	InventoryItemID int64
	Type            MovementType
	Quantity        float64
	OccurredAt      time.Time
	Reference       string
	ActorID         int64
}

// MovementFilters narrows movement listings.
type MovementFilters struct {
	Page   int
	Limit  int
	ItemID int64
	Type   string
}
