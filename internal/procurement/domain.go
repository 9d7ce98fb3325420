package procurement

import (
	"fmt"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// Sentinel errors. ErrInvalidState covers disallowed lifecycle transitions and
// guarded deletes.
var (
	ErrInvalidState = fmt.Errorf("procurement: invalid state transition: %w", shared.ErrConflict)
	ErrNotFound     = fmt.Errorf("procurement: %w", shared.ErrNotFound)
)

// RequestStatus enumerates purchase request states.
type RequestStatus string

const (
	RequestStatusPending RequestStatus = "pending"
	RequestStatusClosed  RequestStatus = "closed"
)

// QuotationStatus enumerates supplier quotation states.
type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// POStatus enumerates purchase order states.
type POStatus string

const (
	POStatusPending  POStatus = "pending"
	POStatusApproved POStatus = "approved"
)

// ReceiptStatus enumerates goods receipt states.
type ReceiptStatus string

const (
	ReceiptStatusPending  ReceiptStatus = "pending"
	ReceiptStatusApproved ReceiptStatus = "approved"
)

// PurchaseRequest asks procurement to source the listed items.
type PurchaseRequest struct {
	ID          int64                 `json:"id"`
	Number      string                `json:"number"`
	ProjectID   int64                 `json:"project_id"`
	ProjectName string                `json:"project_name"`
	RequestedBy int64                 `json:"requested_by"`
	Status      RequestStatus         `json:"status"`
	Notes       string                `json:"notes"`
	Items       []PurchaseRequestItem `json:"items"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// PurchaseRequestItem is one requested line.
type PurchaseRequestItem struct {
	ID                int64   `json:"id"`
	PurchaseRequestID int64   `json:"purchase_request_id"`
	InventoryItemID   int64   `json:"inventory_item_id"`
	ItemCode          string  `json:"item_code"`
	ItemName          string  `json:"item_name"`
	Quantity          float64 `json:"quantity"`
}

// Quotation is a supplier's priced answer to a purchase request.
type Quotation struct {
	ID                int64           `json:"id"`
	Number            string          `json:"number"`
	PurchaseRequestID int64           `json:"purchase_request_id"`
	RequestNumber     string          `json:"request_number"`
	SupplierID        int64           `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name"`
	QuotationDate     time.Time       `json:"quotation_date"`
	ValidUntil        time.Time       `json:"valid_until"`
	Status            QuotationStatus `json:"status"`
	Notes             string          `json:"notes"`
	Items             []QuotationItem `json:"items"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// QuotationItem is one priced line of a quotation.
type QuotationItem struct {
	ID              int64   `json:"id"`
	QuotationID     int64   `json:"quotation_id"`
	InventoryItemID int64   `json:"inventory_item_id"`
	ItemCode        string  `json:"item_code"`
	ItemName        string  `json:"item_name"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	Specifications  string  `json:"specifications"`
}

// LineTotal returns quantity times unit price.
func (i QuotationItem) LineTotal() float64 {
	return i.Quantity * i.UnitPrice
}

// Total sums the quotation's line totals.
func (q Quotation) Total() float64 {
	var total float64
	for _, item := range q.Items {
		total += item.LineTotal()
	}
	return total
}

// PurchaseOrder is the commitment derived from an accepted quotation.
type PurchaseOrder struct {
	ID                   int64               `json:"id"`
	Number               string              `json:"number"`
	QuotationID          int64               `json:"quotation_id"`
	QuotationNumber      string              `json:"quotation_number"`
	SupplierID           int64               `json:"supplier_id"`
	SupplierName         string              `json:"supplier_name"`
	Status               POStatus            `json:"status"`
	TotalAmount          float64             `json:"total_amount"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date"`
	Terms                string              `json:"terms"`
	DeliveryAddress      string              `json:"delivery_address"`
	PreparedBy           int64               `json:"prepared_by"`
	PreparedByName       string              `json:"prepared_by_name"`
	ApprovedBy           *int64              `json:"approved_by"`
	ApprovedByName       string              `json:"approved_by_name"`
	ApprovedAt           *time.Time          `json:"approved_at"`
	Items                []PurchaseOrderItem `json:"items"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// PurchaseOrderItem is one committed line of a purchase order.
type PurchaseOrderItem struct {
	ID              int64   `json:"id"`
	PurchaseOrderID int64   `json:"purchase_order_id"`
	InventoryItemID int64   `json:"inventory_item_id"`
	ItemCode        string  `json:"item_code"`
	ItemName        string  `json:"item_name"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	Specifications  string  `json:"specifications"`
}

// LineTotal returns quantity times unit price.
func (i PurchaseOrderItem) LineTotal() float64 {
	return i.Quantity * i.UnitPrice
}

// GoodsReceipt records delivery against a purchase order.
type GoodsReceipt struct {
	ID              int64              `json:"id"`
	Number          string             `json:"number"`
	PurchaseOrderID int64              `json:"purchase_order_id"`
	OrderNumber     string             `json:"order_number"`
	ReceivedDate    time.Time          `json:"received_date"`
	Status          ReceiptStatus      `json:"status"`
	Notes           string             `json:"notes"`
	ReceivedBy      int64              `json:"received_by"`
	ApprovedBy      *int64             `json:"approved_by"`
	ApprovedAt      *time.Time         `json:"approved_at"`
	Items           []GoodsReceiptItem `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// GoodsReceiptItem is one received line.
type GoodsReceiptItem struct {
	ID              int64   `json:"id"`
	GoodsReceiptID  int64   `json:"goods_receipt_id"`
	InventoryItemID int64   `json:"inventory_item_id"`
	ItemCode        string  `json:"item_code"`
	ItemName        string  `json:"item_name"`
	Quantity        float64 `json:"quantity"`
}
