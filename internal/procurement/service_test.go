package procurement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/inventory"
	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type memoryRepo struct {
	nextID int64

	projects  map[int64]bool
	suppliers map[int64]bool
	items     map[int64]bool

	requests     map[int64]PurchaseRequest
	requestItems map[int64][]PurchaseRequestItem

	quotations     map[int64]Quotation
	quotationItems map[int64][]QuotationItem

	orders     map[int64]PurchaseOrder
	orderItems map[int64][]PurchaseOrderItem

	receipts     map[int64]GoodsReceipt
	receiptItems map[int64][]GoodsReceiptItem

	approveReceiptErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		nextID:         1,
		projects:       map[int64]bool{},
		suppliers:      map[int64]bool{},
		items:          map[int64]bool{},
		requests:       map[int64]PurchaseRequest{},
		requestItems:   map[int64][]PurchaseRequestItem{},
		quotations:     map[int64]Quotation{},
		quotationItems: map[int64][]QuotationItem{},
		orders:         map[int64]PurchaseOrder{},
		orderItems:     map[int64][]PurchaseOrderItem{},
		receipts:       map[int64]GoodsReceipt{},
		receiptItems:   map[int64][]GoodsReceiptItem{},
	}
}

func (m *memoryRepo) id() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) ProjectExists(_ context.Context, id int64) (bool, error) {
	return m.projects[id], nil
}

func (m *memoryRepo) RequestExists(_ context.Context, id int64) (bool, error) {
	_, ok := m.requests[id]
	return ok, nil
}

func (m *memoryRepo) SupplierExists(_ context.Context, id int64) (bool, error) {
	return m.suppliers[id], nil
}

func (m *memoryRepo) ItemExists(_ context.Context, id int64) (bool, error) {
	return m.items[id], nil
}

func (m *memoryRepo) InsertRequest(_ context.Context, r PurchaseRequest) (int64, error) {
	r.ID = m.id()
	r.CreatedAt = time.Now()
	m.requests[r.ID] = r
	return r.ID, nil
}

func (m *memoryRepo) InsertRequestItems(_ context.Context, requestID int64, items []PurchaseRequestItem) error {
	m.requestItems[requestID] = items
	return nil
}

func (m *memoryRepo) InsertQuotation(_ context.Context, q Quotation) (int64, error) {
	q.ID = m.id()
	q.CreatedAt = time.Now()
	m.quotations[q.ID] = q
	return q.ID, nil
}

func (m *memoryRepo) InsertQuotationItems(_ context.Context, quotationID int64, items []QuotationItem) error {
	m.quotationItems[quotationID] = items
	return nil
}

func (m *memoryRepo) GetQuotationForUpdate(_ context.Context, id int64) (Quotation, error) {
	q, ok := m.quotations[id]
	if !ok {
		return Quotation{}, ErrNotFound
	}
	q.Items = m.quotationItems[id]
	return q, nil
}

func (m *memoryRepo) UpdateQuotationStatus(_ context.Context, id int64, status QuotationStatus) error {
	q, ok := m.quotations[id]
	if !ok {
		return ErrNotFound
	}
	q.Status = status
	m.quotations[id] = q
	return nil
}

func (m *memoryRepo) RejectPendingSiblings(_ context.Context, requestID, exceptID int64) error {
	for id, q := range m.quotations {
		if q.PurchaseRequestID == requestID && id != exceptID && q.Status == QuotationStatusPending {
			q.Status = QuotationStatusRejected
			m.quotations[id] = q
		}
	}
	return nil
}

func (m *memoryRepo) QuotationHasOrder(_ context.Context, quotationID int64) (bool, error) {
	for _, o := range m.orders {
		if o.QuotationID == quotationID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) DeleteQuotation(_ context.Context, id int64) error {
	if _, ok := m.quotations[id]; !ok {
		return ErrNotFound
	}
	delete(m.quotations, id)
	delete(m.quotationItems, id)
	return nil
}

func (m *memoryRepo) InsertOrder(_ context.Context, o PurchaseOrder) (int64, error) {
	o.ID = m.id()
	o.CreatedAt = time.Now()
	m.orders[o.ID] = o
	return o.ID, nil
}

func (m *memoryRepo) InsertOrderItems(_ context.Context, orderID int64, items []PurchaseOrderItem) error {
	m.orderItems[orderID] = items
	return nil
}

func (m *memoryRepo) GetOrderForUpdate(_ context.Context, id int64) (PurchaseOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return PurchaseOrder{}, ErrNotFound
	}
	o.Items = m.orderItems[id]
	return o, nil
}

func (m *memoryRepo) ApproveOrder(_ context.Context, id, approverID int64, at time.Time) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = POStatusApproved
	o.ApprovedBy = &approverID
	o.ApprovedAt = &at
	m.orders[id] = o
	return nil
}

func (m *memoryRepo) OrderHasApprovedReceipt(_ context.Context, orderID int64) (bool, error) {
	for _, g := range m.receipts {
		if g.PurchaseOrderID == orderID && g.Status == ReceiptStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) DeleteOrder(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	delete(m.orderItems, id)
	return nil
}

func (m *memoryRepo) InsertReceipt(_ context.Context, g GoodsReceipt) (int64, error) {
	g.ID = m.id()
	g.CreatedAt = time.Now()
	m.receipts[g.ID] = g
	return g.ID, nil
}

func (m *memoryRepo) InsertReceiptItems(_ context.Context, receiptID int64, items []GoodsReceiptItem) error {
	m.receiptItems[receiptID] = items
	return nil
}

func (m *memoryRepo) GetReceiptForUpdate(_ context.Context, id int64) (GoodsReceipt, error) {
	g, ok := m.receipts[id]
	if !ok {
		return GoodsReceipt{}, ErrNotFound
	}
	g.Items = m.receiptItems[id]
	return g, nil
}

func (m *memoryRepo) ApproveReceipt(_ context.Context, id, approverID int64, at time.Time) error {
	if m.approveReceiptErr != nil {
		err := m.approveReceiptErr
		m.approveReceiptErr = nil
		return err
	}
	g, ok := m.receipts[id]
	if !ok {
		return ErrNotFound
	}
	g.Status = ReceiptStatusApproved
	g.ApprovedBy = &approverID
	g.ApprovedAt = &at
	m.receipts[id] = g
	return nil
}

func (m *memoryRepo) ListRequests(_ context.Context, _ ListFilters) ([]PurchaseRequest, int, error) {
	var out []PurchaseRequest
	for _, r := range m.requests {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetRequest(ctx context.Context, id int64) (PurchaseRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return PurchaseRequest{}, ErrNotFound
	}
	r.Items = m.requestItems[id]
	return r, nil
}

func (m *memoryRepo) ListQuotations(_ context.Context, _ ListFilters) ([]Quotation, int, error) {
	var out []Quotation
	for _, q := range m.quotations {
		out = append(out, q)
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetQuotation(ctx context.Context, id int64) (Quotation, error) {
	return m.GetQuotationForUpdate(ctx, id)
}

func (m *memoryRepo) QuotationsForRequest(_ context.Context, requestID int64) ([]Quotation, error) {
	var out []Quotation
	for id, q := range m.quotations {
		if q.PurchaseRequestID == requestID {
			q.Items = m.quotationItems[id]
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListOrders(_ context.Context, _ ListFilters) ([]PurchaseOrder, int, error) {
	var out []PurchaseOrder
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (m *memoryRepo) ListOpenOrders(ctx context.Context, _ ListFilters) ([]PurchaseOrder, int, error) {
	var out []PurchaseOrder
	for id, o := range m.orders {
		blocked, _ := m.OrderHasApprovedReceipt(ctx, id)
		if !blocked {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	return m.GetOrderForUpdate(ctx, id)
}

func (m *memoryRepo) ListReceipts(_ context.Context, _ ListFilters) ([]GoodsReceipt, int, error) {
	var out []GoodsReceipt
	for _, g := range m.receipts {
		out = append(out, g)
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetReceipt(ctx context.Context, id int64) (GoodsReceipt, error) {
	return m.GetReceiptForUpdate(ctx, id)
}

type fakeStock struct {
	movements []inventory.MovementInput
	posted    map[string]bool
	failNext  bool
}

func (f *fakeStock) RecordMovementSet(_ context.Context, reference string, inputs []inventory.MovementInput) error {
	if f.failNext {
		f.failNext = false
		return errors.New("stock unavailable")
	}
	if f.posted == nil {
		f.posted = map[string]bool{}
	}
	if f.posted[reference] {
		return nil
	}
	f.posted[reference] = true
	f.movements = append(f.movements, inputs...)
	return nil
}

// Fixtures

func seededRepo() *memoryRepo {
	repo := newMemoryRepo()
	repo.projects[1] = true
	repo.suppliers[10] = true
	repo.suppliers[11] = true
	repo.items[100] = true
	repo.items[101] = true
	return repo
}

func makeRequest(t *testing.T, svc *Service) PurchaseRequest {
	t.Helper()
	request, err := svc.CreateRequest(context.Background(), RequestInput{
		ProjectID: 1,
		Items:     []RequestItemInput{{InventoryItemID: 100, Quantity: 10}},
		ActorID:   1,
	})
	require.NoError(t, err)
	return request
}

func makeQuotation(t *testing.T, svc *Service, requestID, supplierID int64, unitPrice float64) Quotation {
	t.Helper()
	now := time.Now()
	quotation, err := svc.CreateQuotation(context.Background(), QuotationInput{
		PurchaseRequestID: requestID,
		SupplierID:        supplierID,
		QuotationDate:     now,
		ValidUntil:        now.AddDate(0, 1, 0),
		Items: []QuotationItemInput{
			{InventoryItemID: 100, Quantity: 10, UnitPrice: unitPrice},
		},
		ActorID: 1,
	})
	require.NoError(t, err)
	return quotation
}

func TestCreateQuotationValidation(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil, nil)
	request := makeRequest(t, svc)
	now := time.Now()

	_, err := svc.CreateQuotation(context.Background(), QuotationInput{
		PurchaseRequestID: request.ID,
		SupplierID:        10,
		QuotationDate:     now,
		ValidUntil:        now.AddDate(0, 0, -1),
		Items:             []QuotationItemInput{{InventoryItemID: 100, Quantity: 1, UnitPrice: 1}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateQuotation(context.Background(), QuotationInput{
		PurchaseRequestID: request.ID,
		SupplierID:        10,
		QuotationDate:     now,
		ValidUntil:        now.AddDate(0, 1, 0),
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateQuotation(context.Background(), QuotationInput{
		PurchaseRequestID: request.ID,
		SupplierID:        99,
		QuotationDate:     now,
		ValidUntil:        now.AddDate(0, 1, 0),
		Items:             []QuotationItemInput{{InventoryItemID: 100, Quantity: 1, UnitPrice: 1}},
	})
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.CreateQuotation(context.Background(), QuotationInput{
		PurchaseRequestID: request.ID,
		SupplierID:        10,
		QuotationDate:     now,
		ValidUntil:        now.AddDate(0, 1, 0),
		Items:             []QuotationItemInput{{InventoryItemID: 100, Quantity: 1, UnitPrice: -5}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAcceptQuotationRejectsPendingSiblings(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil, nil)
	request := makeRequest(t, svc)

	q1 := makeQuotation(t, svc, request.ID, 10, 100)
	q2 := makeQuotation(t, svc, request.ID, 11, 90)

	require.NoError(t, svc.AcceptQuotation(context.Background(), q2.ID, 1))

	require.Equal(t, QuotationStatusAccepted, repo.quotations[q2.ID].Status)
	require.Equal(t, QuotationStatusRejected, repo.quotations[q1.ID].Status)

	// the rejected sibling can no longer be accepted
	err := svc.AcceptQuotation(context.Background(), q1.ID, 1)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestAcceptQuotationTwiceFails(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil, nil)
	request := makeRequest(t, svc)
	q := makeQuotation(t, svc, request.ID, 10, 50)

	require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))
	err := svc.AcceptQuotation(context.Background(), q.ID, 1)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreatePORequiresAcceptedQuotation(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil, nil)
	request := makeRequest(t, svc)
	q := makeQuotation(t, svc, request.ID, 10, 25)

	_, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.ErrorIs(t, err, shared.ErrConflict)

	require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))

	order, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.NoError(t, err)
	require.Equal(t, POStatusPending, order.Status)
	require.Equal(t, 250.0, order.TotalAmount)
	require.Len(t, order.Items, 1)
	require.Equal(t, int64(100), order.Items[0].InventoryItemID)

	// a quotation converts once
	_, err = svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestQuotationSpecificationsCarryToOrder(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil, nil)
	request := makeRequest(t, svc)
	now := time.Now()

	quotation, err := svc.CreateQuotation(context.Background(), QuotationInput{
		PurchaseRequestID: request.ID,
		SupplierID:        10,
		QuotationDate:     now,
		ValidUntil:        now.AddDate(0, 1, 0),
		Items: []QuotationItemInput{
			{InventoryItemID: 100, Quantity: 10, UnitPrice: 25, Specifications: "  Grade 8.8, hot-dip galvanized  "},
		},
		ActorID: 1,
	})
	require.NoError(t, err)
	require.Equal(t, "Grade 8.8, hot-dip galvanized", quotation.Items[0].Specifications)

	require.NoError(t, svc.AcceptQuotation(context.Background(), quotation.ID, 1))
	order, err := svc.CreatePOFromQuotation(context.Background(), quotation.ID, POInput{ActorID: 1})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	require.Equal(t, "Grade 8.8, hot-dip galvanized", order.Items[0].Specifications)
}

func TestApprovePurchaseOrderTransitions(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil, nil)
	request := makeRequest(t, svc)
	q := makeQuotation(t, svc, request.ID, 10, 10)
	require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))
	order, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.NoError(t, err)

	require.NoError(t, svc.ApprovePurchaseOrder(context.Background(), order.ID, 7))
	stored := repo.orders[order.ID]
	require.Equal(t, POStatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedBy)
	require.Equal(t, int64(7), *stored.ApprovedBy)
	require.NotNil(t, stored.ApprovedAt)

	err = svc.ApprovePurchaseOrder(context.Background(), order.ID, 7)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteQuotationGuardedByOrder(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil, nil)
	request := makeRequest(t, svc)
	q := makeQuotation(t, svc, request.ID, 10, 10)
	require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))
	_, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.NoError(t, err)

	err = svc.DeleteQuotation(context.Background(), q.ID, 1)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeletePurchaseOrderGuardedByApprovedReceipt(t *testing.T) {
	repo := seededRepo()
	stock := &fakeStock{}
	svc := NewService(repo, stock, nil)
	request := makeRequest(t, svc)
	q := makeQuotation(t, svc, request.ID, 10, 10)
	require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))
	order, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.ApprovePurchaseOrder(context.Background(), order.ID, 7))

	receipt, err := svc.CreateGoodsReceipt(context.Background(), order.ID, ReceiptInput{
		Items:   []ReceiptItemInput{{InventoryItemID: 100, Quantity: 10}},
		ActorID: 2,
	})
	require.NoError(t, err)
	require.NoError(t, svc.ApproveGoodsReceipt(context.Background(), receipt.ID, 7))

	err = svc.DeletePurchaseOrder(context.Background(), order.ID, 1)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeletePurchaseOrderWithoutReceipt(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo, nil, nil)
	request := makeRequest(t, svc)
	q := makeQuotation(t, svc, request.ID, 10, 10)
	require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))
	order, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePurchaseOrder(context.Background(), order.ID, 1))
	_, ok := repo.orders[order.ID]
	require.False(t, ok)
}

func TestGoodsReceiptLifecyclePostsStock(t *testing.T) {
	repo := seededRepo()
	stock := &fakeStock{}
	svc := NewService(repo, stock, nil)
	request := makeRequest(t, svc)
	q := makeQuotation(t, svc, request.ID, 10, 10)
	require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))
	order, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.NoError(t, err)

	// receipts need an approved order
	_, err = svc.CreateGoodsReceipt(context.Background(), order.ID, ReceiptInput{
		Items:   []ReceiptItemInput{{InventoryItemID: 100, Quantity: 10}},
		ActorID: 2,
	})
	require.ErrorIs(t, err, shared.ErrConflict)

	require.NoError(t, svc.ApprovePurchaseOrder(context.Background(), order.ID, 7))

	// receipt lines must come from the order
	_, err = svc.CreateGoodsReceipt(context.Background(), order.ID, ReceiptInput{
		Items:   []ReceiptItemInput{{InventoryItemID: 101, Quantity: 1}},
		ActorID: 2,
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	receipt, err := svc.CreateGoodsReceipt(context.Background(), order.ID, ReceiptInput{
		Items:   []ReceiptItemInput{{InventoryItemID: 100, Quantity: 10}},
		ActorID: 2,
	})
	require.NoError(t, err)
	require.Equal(t, ReceiptStatusPending, receipt.Status)

	require.NoError(t, svc.ApproveGoodsReceipt(context.Background(), receipt.ID, 7))
	require.Len(t, stock.movements, 1)
	require.Equal(t, inventory.MovementIn, stock.movements[0].Type)
	require.Equal(t, 10.0, stock.movements[0].Quantity)
	require.Equal(t, receipt.Number, stock.movements[0].Reference)

	err = svc.ApproveGoodsReceipt(context.Background(), receipt.ID, 7)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestApproveGoodsReceiptPostsStockBeforeApproval(t *testing.T) {
	repo := seededRepo()
	stock := &fakeStock{}
	svc := NewService(repo, stock, nil)
	request := makeRequest(t, svc)
	q := makeQuotation(t, svc, request.ID, 10, 10)
	require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))
	order, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
	require.NoError(t, err)
	require.NoError(t, svc.ApprovePurchaseOrder(context.Background(), order.ID, 7))

	receipt, err := svc.CreateGoodsReceipt(context.Background(), order.ID, ReceiptInput{
		Items:   []ReceiptItemInput{{InventoryItemID: 100, Quantity: 10}},
		ActorID: 2,
	})
	require.NoError(t, err)

	// a failed posting leaves the receipt pending and nothing in stock
	stock.failNext = true
	err = svc.ApproveGoodsReceipt(context.Background(), receipt.ID, 7)
	require.Error(t, err)
	require.Empty(t, stock.movements)
	require.Equal(t, ReceiptStatusPending, repo.receipts[receipt.ID].Status)

	// posting succeeds but the approval write fails; the retry must not
	// double the stock
	repo.approveReceiptErr = errors.New("connection reset")
	err = svc.ApproveGoodsReceipt(context.Background(), receipt.ID, 7)
	require.Error(t, err)
	require.Len(t, stock.movements, 1)
	require.Equal(t, ReceiptStatusPending, repo.receipts[receipt.ID].Status)

	require.NoError(t, svc.ApproveGoodsReceipt(context.Background(), receipt.ID, 7))
	require.Len(t, stock.movements, 1)
	require.Equal(t, ReceiptStatusApproved, repo.receipts[receipt.ID].Status)
}

func TestListOpenPurchaseOrdersExcludesReceived(t *testing.T) {
	repo := seededRepo()
	stock := &fakeStock{}
	svc := NewService(repo, stock, nil)

	newOrder := func(supplierID int64) PurchaseOrder {
		request := makeRequest(t, svc)
		q := makeQuotation(t, svc, request.ID, supplierID, 10)
		require.NoError(t, svc.AcceptQuotation(context.Background(), q.ID, 1))
		order, err := svc.CreatePOFromQuotation(context.Background(), q.ID, POInput{ActorID: 1})
		require.NoError(t, err)
		return order
	}

	open := newOrder(10)
	received := newOrder(11)
	require.NoError(t, svc.ApprovePurchaseOrder(context.Background(), received.ID, 7))
	receipt, err := svc.CreateGoodsReceipt(context.Background(), received.ID, ReceiptInput{
		Items:   []ReceiptItemInput{{InventoryItemID: 100, Quantity: 10}},
		ActorID: 2,
	})
	require.NoError(t, err)
	require.NoError(t, svc.ApproveGoodsReceipt(context.Background(), receipt.ID, 7))

	orders, total, err := svc.ListOpenPurchaseOrders(context.Background(), ListFilters{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, orders, 1)
	require.Equal(t, open.ID, orders[0].ID)
}
