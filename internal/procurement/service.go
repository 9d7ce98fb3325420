package procurement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/inventory"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// StockPoster posts inbound stock movements when goods receipts are approved.
// The set is applied atomically and keyed by reference so a replay after an
// interrupted approval does not double stock.
type StockPoster interface {
	RecordMovementSet(ctx context.Context, reference string, inputs []inventory.MovementInput) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates the procurement workflow.
type Service struct {
	repo  RepositoryPort
	stock StockPoster
	audit AuditPort
}

func NewService(repo RepositoryPort, stock StockPoster, audit AuditPort) *Service {
	return &Service{repo: repo, stock: stock, audit: audit}
}

// ListFilters narrows procurement listings.
type ListFilters struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// RequestInput creates a purchase request.
type RequestInput struct {
	ProjectID int64
	Notes     string
	Items     []RequestItemInput
	ActorID   int64
}

// RequestItemInput is one requested line.
type RequestItemInput struct {
	InventoryItemID int64
	Quantity        float64
}

// QuotationInput creates a quotation against a purchase request.
type QuotationInput struct {
	PurchaseRequestID int64
	SupplierID        int64
	QuotationDate     time.Time
	ValidUntil        time.Time
	Notes             string
	Items             []QuotationItemInput
	ActorID           int64
}

// QuotationItemInput is one priced line.
type QuotationItemInput struct {
	InventoryItemID int64
	Quantity        float64
	UnitPrice       float64
	Specifications  string
}

// POInput carries the optional fields of a purchase order conversion.
type POInput struct {
	ExpectedDeliveryDate *time.Time
	Terms                string
	DeliveryAddress      string
	ActorID              int64
}

// ReceiptInput creates a goods receipt against a purchase order.
type ReceiptInput struct {
	ReceivedDate time.Time
	Notes        string
	Items        []ReceiptItemInput
	ActorID      int64
}

// ReceiptItemInput is one received line.
type ReceiptItemInput struct {
	InventoryItemID int64
	Quantity        float64
}

// CreateRequest persists a purchase request with its lines in one transaction.
func (s *Service) CreateRequest(ctx context.Context, input RequestInput) (PurchaseRequest, error) {
	if input.ProjectID <= 0 {
		return PurchaseRequest{}, fmt.Errorf("%w: project is required", shared.ErrValidation)
	}
	if len(input.Items) == 0 {
		return PurchaseRequest{}, fmt.Errorf("%w: at least one item is required", shared.ErrValidation)
	}
	for _, item := range input.Items {
		if item.InventoryItemID <= 0 {
			return PurchaseRequest{}, fmt.Errorf("%w: item is required on every line", shared.ErrValidation)
		}
		if item.Quantity <= 0 {
			return PurchaseRequest{}, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
		}
	}

	request := PurchaseRequest{
		Number:      generateNumber("PR"),
		ProjectID:   input.ProjectID,
		RequestedBy: input.ActorID,
		Status:      RequestStatusPending,
		Notes:       strings.TrimSpace(input.Notes),
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ok, err := tx.ProjectExists(ctx, input.ProjectID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
		}
		for _, item := range input.Items {
			ok, err := tx.ItemExists(ctx, item.InventoryItemID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: inventory item %d", ErrNotFound, item.InventoryItemID)
			}
		}

		id, err := tx.InsertRequest(ctx, request)
		if err != nil {
			return err
		}
		request.ID = id

		lines := make([]PurchaseRequestItem, 0, len(input.Items))
		for _, item := range input.Items {
			lines = append(lines, PurchaseRequestItem{
				PurchaseRequestID: id,
				InventoryItemID:   item.InventoryItemID,
				Quantity:          item.Quantity,
			})
		}
		request.Items = lines
		return tx.InsertRequestItems(ctx, id, lines)
	})
	if err != nil {
		return PurchaseRequest{}, err
	}

	s.record(ctx, input.ActorID, "procurement:request_created", "purchase_request", request.ID, nil)
	return request, nil
}

func (s *Service) ListRequests(ctx context.Context, filters ListFilters) ([]PurchaseRequest, int, error) {
	return s.repo.ListRequests(ctx, filters)
}

func (s *Service) GetRequest(ctx context.Context, id int64) (PurchaseRequest, error) {
	if id <= 0 {
		return PurchaseRequest{}, fmt.Errorf("%w: invalid request id", shared.ErrValidation)
	}
	return s.repo.GetRequest(ctx, id)
}

// CreateQuotation validates the header and lines, then persists both in one
// transaction. New quotations always start pending.
func (s *Service) CreateQuotation(ctx context.Context, input QuotationInput) (Quotation, error) {
	if input.PurchaseRequestID <= 0 {
		return Quotation{}, fmt.Errorf("%w: purchase request is required", shared.ErrValidation)
	}
	if input.SupplierID <= 0 {
		return Quotation{}, fmt.Errorf("%w: supplier is required", shared.ErrValidation)
	}
	if input.QuotationDate.IsZero() {
		input.QuotationDate = time.Now().UTC()
	}
	if !input.ValidUntil.After(input.QuotationDate) {
		return Quotation{}, fmt.Errorf("%w: valid-until must be after the quotation date", shared.ErrValidation)
	}
	if len(input.Items) == 0 {
		return Quotation{}, fmt.Errorf("%w: at least one item is required", shared.ErrValidation)
	}
	for _, item := range input.Items {
		if item.InventoryItemID <= 0 {
			return Quotation{}, fmt.Errorf("%w: item is required on every line", shared.ErrValidation)
		}
		if item.Quantity <= 0 {
			return Quotation{}, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
		}
		if item.UnitPrice < 0 {
			return Quotation{}, fmt.Errorf("%w: unit price cannot be negative", shared.ErrValidation)
		}
	}

	quotation := Quotation{
		Number:            generateNumber("QUO"),
		PurchaseRequestID: input.PurchaseRequestID,
		SupplierID:        input.SupplierID,
		QuotationDate:     input.QuotationDate,
		ValidUntil:        input.ValidUntil,
		Status:            QuotationStatusPending,
		Notes:             strings.TrimSpace(input.Notes),
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ok, err := tx.RequestExists(ctx, input.PurchaseRequestID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: purchase request %d", ErrNotFound, input.PurchaseRequestID)
		}
		ok, err = tx.SupplierExists(ctx, input.SupplierID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: supplier %d", ErrNotFound, input.SupplierID)
		}
		for _, item := range input.Items {
			ok, err := tx.ItemExists(ctx, item.InventoryItemID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: inventory item %d", ErrNotFound, item.InventoryItemID)
			}
		}

		id, err := tx.InsertQuotation(ctx, quotation)
		if err != nil {
			return err
		}
		quotation.ID = id

		lines := make([]QuotationItem, 0, len(input.Items))
		for _, item := range input.Items {
			lines = append(lines, QuotationItem{
				QuotationID:     id,
				InventoryItemID: item.InventoryItemID,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				Specifications:  strings.TrimSpace(item.Specifications),
			})
		}
		quotation.Items = lines
		return tx.InsertQuotationItems(ctx, id, lines)
	})
	if err != nil {
		return Quotation{}, err
	}

	s.record(ctx, input.ActorID, "procurement:quotation_created", "quotation", quotation.ID, nil)
	return quotation, nil
}

// AcceptQuotation accepts a pending quotation and rejects the pending siblings
// of the same purchase request. Both writes happen in one transaction so a
// request never ends up with two accepted quotations.
func (s *Service) AcceptQuotation(ctx context.Context, id int64, actorID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		quotation, err := tx.GetQuotationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if quotation.Status != QuotationStatusPending {
			return fmt.Errorf("%w: quotation %s is %s", ErrInvalidState, quotation.Number, quotation.Status)
		}
		if err := tx.RejectPendingSiblings(ctx, quotation.PurchaseRequestID, id); err != nil {
			return err
		}
		return tx.UpdateQuotationStatus(ctx, id, QuotationStatusAccepted)
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "procurement:quotation_accepted", "quotation", id, nil)
	return nil
}

// RejectQuotation rejects a pending quotation.
func (s *Service) RejectQuotation(ctx context.Context, id int64, actorID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		quotation, err := tx.GetQuotationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if quotation.Status != QuotationStatusPending {
			return fmt.Errorf("%w: quotation %s is %s", ErrInvalidState, quotation.Number, quotation.Status)
		}
		return tx.UpdateQuotationStatus(ctx, id, QuotationStatusRejected)
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "procurement:quotation_rejected", "quotation", id, nil)
	return nil
}

// DeleteQuotation removes a quotation unless a purchase order was derived from
// it. The check and the delete share one transaction.
func (s *Service) DeleteQuotation(ctx context.Context, id int64, actorID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.GetQuotationForUpdate(ctx, id); err != nil {
			return err
		}
		blocked, err := tx.QuotationHasOrder(ctx, id)
		if err != nil {
			return err
		}
		if blocked {
			return fmt.Errorf("%w: quotation has a purchase order", ErrInvalidState)
		}
		return tx.DeleteQuotation(ctx, id)
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "procurement:quotation_deleted", "quotation", id, nil)
	return nil
}

func (s *Service) ListQuotations(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	return s.repo.ListQuotations(ctx, filters)
}

func (s *Service) GetQuotation(ctx context.Context, id int64) (Quotation, error) {
	if id <= 0 {
		return Quotation{}, fmt.Errorf("%w: invalid quotation id", shared.ErrValidation)
	}
	return s.repo.GetQuotation(ctx, id)
}

// CompareQuotations returns every quotation raised against one purchase
// request for side-by-side review.
func (s *Service) CompareQuotations(ctx context.Context, requestID int64) ([]Quotation, error) {
	if requestID <= 0 {
		return nil, fmt.Errorf("%w: invalid request id", shared.ErrValidation)
	}
	return s.repo.QuotationsForRequest(ctx, requestID)
}

// CreatePOFromQuotation converts an accepted quotation into a pending purchase
// order. Lines are copied from the quotation and the total is the sum of
// quantity times unit price.
func (s *Service) CreatePOFromQuotation(ctx context.Context, quotationID int64, input POInput) (PurchaseOrder, error) {
	var order PurchaseOrder
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		quotation, err := tx.GetQuotationForUpdate(ctx, quotationID)
		if err != nil {
			return err
		}
		if quotation.Status != QuotationStatusAccepted {
			return fmt.Errorf("%w: quotation %s is %s, only accepted quotations convert", ErrInvalidState, quotation.Number, quotation.Status)
		}
		blocked, err := tx.QuotationHasOrder(ctx, quotationID)
		if err != nil {
			return err
		}
		if blocked {
			return fmt.Errorf("%w: quotation already converted", ErrInvalidState)
		}

		order = PurchaseOrder{
			Number:               generateNumber("PO"),
			QuotationID:          quotation.ID,
			SupplierID:           quotation.SupplierID,
			Status:               POStatusPending,
			TotalAmount:          quotation.Total(),
			ExpectedDeliveryDate: input.ExpectedDeliveryDate,
			Terms:                strings.TrimSpace(input.Terms),
			DeliveryAddress:      strings.TrimSpace(input.DeliveryAddress),
			PreparedBy:           input.ActorID,
		}
		id, err := tx.InsertOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id

		lines := make([]PurchaseOrderItem, 0, len(quotation.Items))
		for _, item := range quotation.Items {
			lines = append(lines, PurchaseOrderItem{
				PurchaseOrderID: id,
				InventoryItemID: item.InventoryItemID,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				Specifications:  item.Specifications,
			})
		}
		order.Items = lines
		return tx.InsertOrderItems(ctx, id, lines)
	})
	if err != nil {
		return PurchaseOrder{}, err
	}

	s.record(ctx, input.ActorID, "procurement:order_created", "purchase_order", order.ID, map[string]any{"quotation_id": quotationID})
	return order, nil
}

// ApprovePurchaseOrder moves a pending order to approved, recording approver
// and timestamp. Approving twice fails.
func (s *Service) ApprovePurchaseOrder(ctx context.Context, id int64, approverID int64) error {
	if approverID <= 0 {
		return fmt.Errorf("%w: approver is required", shared.ErrValidation)
	}
	approvedAt := time.Now().UTC()
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		order, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order.Status != POStatusPending {
			return fmt.Errorf("%w: purchase order %s is %s", ErrInvalidState, order.Number, order.Status)
		}
		return tx.ApproveOrder(ctx, id, approverID, approvedAt)
	})
	if err != nil {
		return err
	}
	s.record(ctx, approverID, "procurement:order_approved", "purchase_order", id, nil)
	return nil
}

// DeletePurchaseOrder removes an order unless an approved goods receipt
// references it. The check and the delete share one transaction.
func (s *Service) DeletePurchaseOrder(ctx context.Context, id int64, actorID int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.GetOrderForUpdate(ctx, id); err != nil {
			return err
		}
		blocked, err := tx.OrderHasApprovedReceipt(ctx, id)
		if err != nil {
			return err
		}
		if blocked {
			return fmt.Errorf("%w: purchase order has an approved goods receipt", ErrInvalidState)
		}
		return tx.DeleteOrder(ctx, id)
	})
	if err != nil {
		return err
	}
	s.record(ctx, actorID, "procurement:order_deleted", "purchase_order", id, nil)
	return nil
}

// ListOpenPurchaseOrders lists orders without an approved goods receipt.
func (s *Service) ListOpenPurchaseOrders(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error) {
	return s.repo.ListOpenOrders(ctx, filters)
}

// ListPurchaseOrders lists all orders regardless of receipt state.
func (s *Service) ListPurchaseOrders(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error) {
	return s.repo.ListOrders(ctx, filters)
}

// GetPurchaseOrderDetail returns a fully loaded order: lines, supplier,
// preparer and approver names. Display and external PDF rendering both use it.
func (s *Service) GetPurchaseOrderDetail(ctx context.Context, id int64) (PurchaseOrder, error) {
	if id <= 0 {
		return PurchaseOrder{}, fmt.Errorf("%w: invalid order id", shared.ErrValidation)
	}
	return s.repo.GetOrder(ctx, id)
}

// CreateGoodsReceipt records a pending receipt against a purchase order.
func (s *Service) CreateGoodsReceipt(ctx context.Context, poID int64, input ReceiptInput) (GoodsReceipt, error) {
	if len(input.Items) == 0 {
		return GoodsReceipt{}, fmt.Errorf("%w: at least one item is required", shared.ErrValidation)
	}
	for _, item := range input.Items {
		if item.InventoryItemID <= 0 {
			return GoodsReceipt{}, fmt.Errorf("%w: item is required on every line", shared.ErrValidation)
		}
		if item.Quantity <= 0 {
			return GoodsReceipt{}, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
		}
	}
	receivedDate := input.ReceivedDate
	if receivedDate.IsZero() {
		receivedDate = time.Now().UTC()
	}

	receipt := GoodsReceipt{
		Number:          generateNumber("GRN"),
		PurchaseOrderID: poID,
		ReceivedDate:    receivedDate,
		Status:          ReceiptStatusPending,
		Notes:           strings.TrimSpace(input.Notes),
		ReceivedBy:      input.ActorID,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		order, err := tx.GetOrderForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if order.Status != POStatusApproved {
			return fmt.Errorf("%w: purchase order %s is not approved", ErrInvalidState, order.Number)
		}

		ordered := make(map[int64]struct{}, len(order.Items))
		for _, line := range order.Items {
			ordered[line.InventoryItemID] = struct{}{}
		}
		for _, item := range input.Items {
			if _, ok := ordered[item.InventoryItemID]; !ok {
				return fmt.Errorf("%w: item %d is not on the purchase order", shared.ErrValidation, item.InventoryItemID)
			}
		}

		id, err := tx.InsertReceipt(ctx, receipt)
		if err != nil {
			return err
		}
		receipt.ID = id

		lines := make([]GoodsReceiptItem, 0, len(input.Items))
		for _, item := range input.Items {
			lines = append(lines, GoodsReceiptItem{
				GoodsReceiptID:  id,
				InventoryItemID: item.InventoryItemID,
				Quantity:        item.Quantity,
			})
		}
		receipt.Items = lines
		return tx.InsertReceiptItems(ctx, id, lines)
	})
	if err != nil {
		return GoodsReceipt{}, err
	}

	s.record(ctx, input.ActorID, "procurement:receipt_created", "goods_receipt", receipt.ID, map[string]any{"purchase_order_id": poID})
	return receipt, nil
}

// ApproveGoodsReceipt posts one inbound stock movement per received line and
// then approves the receipt. Stock posts first, atomically and keyed by the
// receipt number, so any failure leaves the receipt pending and the approval
// can be retried without doubling stock.
func (s *Service) ApproveGoodsReceipt(ctx context.Context, id int64, approverID int64) error {
	if approverID <= 0 {
		return fmt.Errorf("%w: approver is required", shared.ErrValidation)
	}
	receipt, err := s.repo.GetReceipt(ctx, id)
	if err != nil {
		return err
	}
	if receipt.Status != ReceiptStatusPending {
		return fmt.Errorf("%w: goods receipt %s is %s", ErrInvalidState, receipt.Number, receipt.Status)
	}

	if s.stock != nil {
		inputs := make([]inventory.MovementInput, 0, len(receipt.Items))
		for _, line := range receipt.Items {
			inputs = append(inputs, inventory.MovementInput{
				InventoryItemID: line.InventoryItemID,
				Type:            inventory.MovementIn,
				Quantity:        line.Quantity,
				OccurredAt:      receipt.ReceivedDate,
				Reference:       receipt.Number,
				ActorID:         approverID,
			})
		}
		if err := s.stock.RecordMovementSet(ctx, receipt.Number, inputs); err != nil {
			return fmt.Errorf("procurement: post receipt stock: %w", err)
		}
	}

	approvedAt := time.Now().UTC()
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.GetReceiptForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.Status != ReceiptStatusPending {
			return fmt.Errorf("%w: goods receipt %s is %s", ErrInvalidState, current.Number, current.Status)
		}
		return tx.ApproveReceipt(ctx, id, approverID, approvedAt)
	})
	if err != nil {
		return err
	}

	s.record(ctx, approverID, "procurement:receipt_approved", "goods_receipt", id, nil)
	return nil
}

func (s *Service) ListReceipts(ctx context.Context, filters ListFilters) ([]GoodsReceipt, int, error) {
	return s.repo.ListReceipts(ctx, filters)
}

func (s *Service) GetReceipt(ctx context.Context, id int64) (GoodsReceipt, error) {
	if id <= 0 {
		return GoodsReceipt{}, fmt.Errorf("%w: invalid receipt id", shared.ErrValidation)
	}
	return s.repo.GetReceipt(ctx, id)
}

func (s *Service) record(ctx context.Context, actorID int64, action, entity string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: fmt.Sprintf("%d", entityID),
		Meta:     meta,
	})
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
