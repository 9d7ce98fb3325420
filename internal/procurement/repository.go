package procurement

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/platform/db"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	ListRequests(ctx context.Context, filters ListFilters) ([]PurchaseRequest, int, error)
	GetRequest(ctx context.Context, id int64) (PurchaseRequest, error)

	ListQuotations(ctx context.Context, filters ListFilters) ([]Quotation, int, error)
	GetQuotation(ctx context.Context, id int64) (Quotation, error)
	QuotationsForRequest(ctx context.Context, requestID int64) ([]Quotation, error)

	ListOrders(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error)
	ListOpenOrders(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error)
	GetOrder(ctx context.Context, id int64) (PurchaseOrder, error)

	ListReceipts(ctx context.Context, filters ListFilters) ([]GoodsReceipt, int, error)
	GetReceipt(ctx context.Context, id int64) (GoodsReceipt, error)
}

// TxRepository exposes the writes that must share one transaction.
type TxRepository interface {
	ProjectExists(ctx context.Context, id int64) (bool, error)
	RequestExists(ctx context.Context, id int64) (bool, error)
	SupplierExists(ctx context.Context, id int64) (bool, error)
	ItemExists(ctx context.Context, id int64) (bool, error)

	InsertRequest(ctx context.Context, request PurchaseRequest) (int64, error)
	InsertRequestItems(ctx context.Context, requestID int64, items []PurchaseRequestItem) error

	InsertQuotation(ctx context.Context, quotation Quotation) (int64, error)
	InsertQuotationItems(ctx context.Context, quotationID int64, items []QuotationItem) error
	GetQuotationForUpdate(ctx context.Context, id int64) (Quotation, error)
	UpdateQuotationStatus(ctx context.Context, id int64, status QuotationStatus) error
	RejectPendingSiblings(ctx context.Context, requestID, exceptID int64) error
	QuotationHasOrder(ctx context.Context, quotationID int64) (bool, error)
	DeleteQuotation(ctx context.Context, id int64) error

	InsertOrder(ctx context.Context, order PurchaseOrder) (int64, error)
	InsertOrderItems(ctx context.Context, orderID int64, items []PurchaseOrderItem) error
	GetOrderForUpdate(ctx context.Context, id int64) (PurchaseOrder, error)
	ApproveOrder(ctx context.Context, id, approverID int64, at time.Time) error
	OrderHasApprovedReceipt(ctx context.Context, orderID int64) (bool, error)
	DeleteOrder(ctx context.Context, id int64) error

	InsertReceipt(ctx context.Context, receipt GoodsReceipt) (int64, error)
	InsertReceiptItems(ctx context.Context, receiptID int64, items []GoodsReceiptItem) error
	GetReceiptForUpdate(ctx context.Context, id int64) (GoodsReceipt, error)
	ApproveReceipt(ctx context.Context, id, approverID int64, at time.Time) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Postgres-backed RepositoryPort.
func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

func (r *repository) ListRequests(ctx context.Context, filters ListFilters) ([]PurchaseRequest, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND r.number ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		where += ` AND r.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_requests r`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT r.id, r.number, r.project_id, COALESCE(p.name, ''), r.requested_by, r.status, r.notes, r.created_at, r.updated_at
		FROM purchase_requests r
		LEFT JOIN projects p ON p.id = r.project_id` + where + ` ORDER BY r.created_at DESC`
	query, args = paginate(query, args, &argCount, filters.Page, filters.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []PurchaseRequest
	for rows.Next() {
		var pr PurchaseRequest
		if err := rows.Scan(&pr.ID, &pr.Number, &pr.ProjectID, &pr.ProjectName, &pr.RequestedBy, &pr.Status, &pr.Notes, &pr.CreatedAt, &pr.UpdatedAt); err != nil {
			return nil, 0, err
		}
		requests = append(requests, pr)
	}
	return requests, total, rows.Err()
}

func (r *repository) GetRequest(ctx context.Context, id int64) (PurchaseRequest, error) {
	var pr PurchaseRequest
	err := r.pool.QueryRow(ctx,
		`SELECT r.id, r.number, r.project_id, COALESCE(p.name, ''), r.requested_by, r.status, r.notes, r.created_at, r.updated_at
		 FROM purchase_requests r
		 LEFT JOIN projects p ON p.id = r.project_id
		 WHERE r.id = $1`, id).
		Scan(&pr.ID, &pr.Number, &pr.ProjectID, &pr.ProjectName, &pr.RequestedBy, &pr.Status, &pr.Notes, &pr.CreatedAt, &pr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseRequest{}, ErrNotFound
	}
	if err != nil {
		return PurchaseRequest{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT ri.id, ri.purchase_request_id, ri.inventory_item_id, i.code, i.name, ri.quantity
		 FROM purchase_request_items ri
		 JOIN inventory_items i ON i.id = ri.inventory_item_id
		 WHERE ri.purchase_request_id = $1 ORDER BY ri.id`, id)
	if err != nil {
		return PurchaseRequest{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item PurchaseRequestItem
		if err := rows.Scan(&item.ID, &item.PurchaseRequestID, &item.InventoryItemID, &item.ItemCode, &item.ItemName, &item.Quantity); err != nil {
			return PurchaseRequest{}, err
		}
		pr.Items = append(pr.Items, item)
	}
	return pr, rows.Err()
}

const quotationSelect = `SELECT q.id, q.number, q.purchase_request_id, COALESCE(r.number, ''), q.supplier_id, COALESCE(s.name, ''),
		q.quotation_date, q.valid_until, q.status, q.notes, q.created_at, q.updated_at
	FROM quotations q
	LEFT JOIN purchase_requests r ON r.id = q.purchase_request_id
	LEFT JOIN suppliers s ON s.id = q.supplier_id`

func (r *repository) ListQuotations(ctx context.Context, filters ListFilters) ([]Quotation, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND (q.number ILIKE $` + strconv.Itoa(argCount) + ` OR s.name ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		where += ` AND q.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM quotations q LEFT JOIN suppliers s ON s.id = q.supplier_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := quotationSelect + where + ` ORDER BY q.created_at DESC`
	query, args = paginate(query, args, &argCount, filters.Page, filters.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	quotations, err := scanQuotations(rows)
	if err != nil {
		return nil, 0, err
	}
	return quotations, total, nil
}

func (r *repository) GetQuotation(ctx context.Context, id int64) (Quotation, error) {
	q, err := scanQuotationRow(r.pool.QueryRow(ctx, quotationSelect+` WHERE q.id = $1`, id))
	if err != nil {
		return Quotation{}, err
	}
	q.Items, err = quotationItems(ctx, r.pool, id)
	return q, err
}

func (r *repository) QuotationsForRequest(ctx context.Context, requestID int64) ([]Quotation, error) {
	rows, err := r.pool.Query(ctx, quotationSelect+` WHERE q.purchase_request_id = $1 ORDER BY q.created_at`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotations, err := scanQuotations(rows)
	if err != nil {
		return nil, err
	}
	for idx := range quotations {
		items, err := quotationItems(ctx, r.pool, quotations[idx].ID)
		if err != nil {
			return nil, err
		}
		quotations[idx].Items = items
	}
	return quotations, nil
}

const orderSelect = `SELECT o.id, o.number, o.quotation_id, COALESCE(q.number, ''), o.supplier_id, COALESCE(s.name, ''),
		o.status, o.total_amount, o.expected_delivery_date, o.terms, o.delivery_address,
		o.prepared_by, COALESCE(pu.name, ''), o.approved_by, COALESCE(au.name, ''), o.approved_at,
		o.created_at, o.updated_at
	FROM purchase_orders o
	LEFT JOIN quotations q ON q.id = o.quotation_id
	LEFT JOIN suppliers s ON s.id = o.supplier_id
	LEFT JOIN users pu ON pu.id = o.prepared_by
	LEFT JOIN users au ON au.id = o.approved_by`

func (r *repository) ListOrders(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error) {
	return r.listOrders(ctx, filters, false)
}

func (r *repository) ListOpenOrders(ctx context.Context, filters ListFilters) ([]PurchaseOrder, int, error) {
	return r.listOrders(ctx, filters, true)
}

func (r *repository) listOrders(ctx context.Context, filters ListFilters, openOnly bool) ([]PurchaseOrder, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND (o.number ILIKE $` + strconv.Itoa(argCount) + ` OR s.name ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		where += ` AND o.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if openOnly {
		where += ` AND NOT EXISTS (SELECT 1 FROM goods_receipts gr WHERE gr.purchase_order_id = o.id AND gr.status = 'approved')`
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM purchase_orders o LEFT JOIN suppliers s ON s.id = o.supplier_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := orderSelect + where + ` ORDER BY o.created_at DESC`
	query, args = paginate(query, args, &argCount, filters.Page, filters.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	return orders, total, rows.Err()
}

func (r *repository) GetOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, ErrNotFound
	}
	if err != nil {
		return PurchaseOrder{}, err
	}
	order.Items, err = orderItems(ctx, r.pool, id)
	return order, err
}

const receiptSelect = `SELECT g.id, g.number, g.purchase_order_id, COALESCE(o.number, ''), g.received_date, g.status,
		g.notes, g.received_by, g.approved_by, g.approved_at, g.created_at, g.updated_at
	FROM goods_receipts g
	LEFT JOIN purchase_orders o ON o.id = g.purchase_order_id`

func (r *repository) ListReceipts(ctx context.Context, filters ListFilters) ([]GoodsReceipt, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		where += ` AND g.number ILIKE $` + strconv.Itoa(argCount)
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Status != "" {
		argCount++
		where += ` AND g.status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM goods_receipts g`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := receiptSelect + where + ` ORDER BY g.created_at DESC`
	query, args = paginate(query, args, &argCount, filters.Page, filters.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var receipts []GoodsReceipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, 0, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, total, rows.Err()
}

func (r *repository) GetReceipt(ctx context.Context, id int64) (GoodsReceipt, error) {
	receipt, err := scanReceipt(r.pool.QueryRow(ctx, receiptSelect+` WHERE g.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return GoodsReceipt{}, ErrNotFound
	}
	if err != nil {
		return GoodsReceipt{}, err
	}
	receipt.Items, err = receiptItems(ctx, r.pool, id)
	return receipt, err
}

// txRepository runs the same queries against one transaction.
type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) ProjectExists(ctx context.Context, id int64) (bool, error) {
	return existsQuery(ctx, r.tx, `SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, id)
}

func (r *txRepository) RequestExists(ctx context.Context, id int64) (bool, error) {
	return existsQuery(ctx, r.tx, `SELECT EXISTS (SELECT 1 FROM purchase_requests WHERE id = $1)`, id)
}

func (r *txRepository) SupplierExists(ctx context.Context, id int64) (bool, error) {
	return existsQuery(ctx, r.tx, `SELECT EXISTS (SELECT 1 FROM suppliers WHERE id = $1)`, id)
}

func (r *txRepository) ItemExists(ctx context.Context, id int64) (bool, error) {
	return existsQuery(ctx, r.tx, `SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1)`, id)
}

func (r *txRepository) InsertRequest(ctx context.Context, request PurchaseRequest) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx,
		`INSERT INTO purchase_requests (number, project_id, requested_by, status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, now(), now()) RETURNING id`,
		request.Number, request.ProjectID, request.RequestedBy, request.Status, request.Notes).Scan(&id)
	return id, err
}

func (r *txRepository) InsertRequestItems(ctx context.Context, requestID int64, items []PurchaseRequestItem) error {
	for _, item := range items {
		if _, err := r.tx.Exec(ctx,
			`INSERT INTO purchase_request_items (purchase_request_id, inventory_item_id, quantity) VALUES ($1, $2, $3)`,
			requestID, item.InventoryItemID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) InsertQuotation(ctx context.Context, quotation Quotation) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx,
		`INSERT INTO quotations (number, purchase_request_id, supplier_id, quotation_date, valid_until, status, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now()) RETURNING id`,
		quotation.Number, quotation.PurchaseRequestID, quotation.SupplierID,
		quotation.QuotationDate, quotation.ValidUntil, quotation.Status, quotation.Notes).Scan(&id)
	return id, err
}

func (r *txRepository) InsertQuotationItems(ctx context.Context, quotationID int64, items []QuotationItem) error {
	for _, item := range items {
		if _, err := r.tx.Exec(ctx,
			`INSERT INTO quotation_items (quotation_id, inventory_item_id, quantity, unit_price, specifications) VALUES ($1, $2, $3, $4, $5)`,
			quotationID, item.InventoryItemID, item.Quantity, item.UnitPrice, item.Specifications); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetQuotationForUpdate(ctx context.Context, id int64) (Quotation, error) {
	var q Quotation
	err := r.tx.QueryRow(ctx,
		`SELECT id, number, purchase_request_id, supplier_id, quotation_date, valid_until, status, notes, created_at, updated_at
		 FROM quotations WHERE id = $1 FOR UPDATE`, id).
		Scan(&q.ID, &q.Number, &q.PurchaseRequestID, &q.SupplierID, &q.QuotationDate, &q.ValidUntil, &q.Status, &q.Notes, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quotation{}, ErrNotFound
	}
	if err != nil {
		return Quotation{}, err
	}
	q.Items, err = quotationItems(ctx, r.tx, id)
	return q, err
}

func (r *txRepository) UpdateQuotationStatus(ctx context.Context, id int64, status QuotationStatus) error {
	tag, err := r.tx.Exec(ctx, `UPDATE quotations SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepository) RejectPendingSiblings(ctx context.Context, requestID, exceptID int64) error {
	_, err := r.tx.Exec(ctx,
		`UPDATE quotations SET status = 'rejected', updated_at = now()
		 WHERE purchase_request_id = $1 AND id <> $2 AND status = 'pending'`, requestID, exceptID)
	return err
}

func (r *txRepository) QuotationHasOrder(ctx context.Context, quotationID int64) (bool, error) {
	return existsQuery(ctx, r.tx, `SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE quotation_id = $1)`, quotationID)
}

func (r *txRepository) DeleteQuotation(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepository) InsertOrder(ctx context.Context, order PurchaseOrder) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx,
		`INSERT INTO purchase_orders (number, quotation_id, supplier_id, status, total_amount, expected_delivery_date, terms, delivery_address, prepared_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now()) RETURNING id`,
		order.Number, order.QuotationID, order.SupplierID, order.Status, order.TotalAmount,
		order.ExpectedDeliveryDate, order.Terms, order.DeliveryAddress, order.PreparedBy).Scan(&id)
	return id, err
}

func (r *txRepository) InsertOrderItems(ctx context.Context, orderID int64, items []PurchaseOrderItem) error {
	for _, item := range items {
		if _, err := r.tx.Exec(ctx,
			`INSERT INTO purchase_order_items (purchase_order_id, inventory_item_id, quantity, unit_price, specifications) VALUES ($1, $2, $3, $4, $5)`,
			orderID, item.InventoryItemID, item.Quantity, item.UnitPrice, item.Specifications); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetOrderForUpdate(ctx context.Context, id int64) (PurchaseOrder, error) {
	var o PurchaseOrder
	err := r.tx.QueryRow(ctx,
		`SELECT id, number, quotation_id, supplier_id, status, total_amount, expected_delivery_date, terms, delivery_address,
			prepared_by, approved_by, approved_at, created_at, updated_at
		 FROM purchase_orders WHERE id = $1 FOR UPDATE`, id).
		Scan(&o.ID, &o.Number, &o.QuotationID, &o.SupplierID, &o.Status, &o.TotalAmount, &o.ExpectedDeliveryDate,
			&o.Terms, &o.DeliveryAddress, &o.PreparedBy, &o.ApprovedBy, &o.ApprovedAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, ErrNotFound
	}
	if err != nil {
		return PurchaseOrder{}, err
	}
	o.Items, err = orderItems(ctx, r.tx, id)
	return o, err
}

func (r *txRepository) ApproveOrder(ctx context.Context, id, approverID int64, at time.Time) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE purchase_orders SET status = 'approved', approved_by = $1, approved_at = $2, updated_at = now() WHERE id = $3`,
		approverID, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepository) OrderHasApprovedReceipt(ctx context.Context, orderID int64) (bool, error) {
	return existsQuery(ctx, r.tx,
		`SELECT EXISTS (SELECT 1 FROM goods_receipts WHERE purchase_order_id = $1 AND status = 'approved')`, orderID)
}

func (r *txRepository) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM purchase_order_items WHERE purchase_order_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *txRepository) InsertReceipt(ctx context.Context, receipt GoodsReceipt) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx,
		`INSERT INTO goods_receipts (number, purchase_order_id, received_date, status, notes, received_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now(), now()) RETURNING id`,
		receipt.Number, receipt.PurchaseOrderID, receipt.ReceivedDate, receipt.Status, receipt.Notes, receipt.ReceivedBy).Scan(&id)
	return id, err
}

func (r *txRepository) InsertReceiptItems(ctx context.Context, receiptID int64, items []GoodsReceiptItem) error {
	for _, item := range items {
		if _, err := r.tx.Exec(ctx,
			`INSERT INTO goods_receipt_items (goods_receipt_id, inventory_item_id, quantity) VALUES ($1, $2, $3)`,
			receiptID, item.InventoryItemID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *txRepository) GetReceiptForUpdate(ctx context.Context, id int64) (GoodsReceipt, error) {
	var g GoodsReceipt
	err := r.tx.QueryRow(ctx,
		`SELECT id, number, purchase_order_id, received_date, status, notes, received_by, approved_by, approved_at, created_at, updated_at
		 FROM goods_receipts WHERE id = $1 FOR UPDATE`, id).
		Scan(&g.ID, &g.Number, &g.PurchaseOrderID, &g.ReceivedDate, &g.Status, &g.Notes, &g.ReceivedBy, &g.ApprovedBy, &g.ApprovedAt, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return GoodsReceipt{}, ErrNotFound
	}
	if err != nil {
		return GoodsReceipt{}, err
	}
	g.Items, err = receiptItems(ctx, r.tx, id)
	return g, err
}

func (r *txRepository) ApproveReceipt(ctx context.Context, id, approverID int64, at time.Time) error {
	tag, err := r.tx.Exec(ctx,
		`UPDATE goods_receipts SET status = 'approved', approved_by = $1, approved_at = $2, updated_at = now() WHERE id = $3`,
		approverID, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Shared scan helpers.

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func existsQuery(ctx context.Context, q rowQuerier, sql string, id int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, sql, id).Scan(&exists)
	return exists, err
}

func quotationItems(ctx context.Context, q rowQuerier, quotationID int64) ([]QuotationItem, error) {
	rows, err := q.Query(ctx,
		`SELECT qi.id, qi.quotation_id, qi.inventory_item_id, i.code, i.name, qi.quantity, qi.unit_price, qi.specifications
		 FROM quotation_items qi
		 JOIN inventory_items i ON i.id = qi.inventory_item_id
		 WHERE qi.quotation_id = $1 ORDER BY qi.id`, quotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []QuotationItem
	for rows.Next() {
		var item QuotationItem
		if err := rows.Scan(&item.ID, &item.QuotationID, &item.InventoryItemID, &item.ItemCode, &item.ItemName, &item.Quantity, &item.UnitPrice, &item.Specifications); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func orderItems(ctx context.Context, q rowQuerier, orderID int64) ([]PurchaseOrderItem, error) {
	rows, err := q.Query(ctx,
		`SELECT oi.id, oi.purchase_order_id, oi.inventory_item_id, i.code, i.name, oi.quantity, oi.unit_price, oi.specifications
		 FROM purchase_order_items oi
		 JOIN inventory_items i ON i.id = oi.inventory_item_id
		 WHERE oi.purchase_order_id = $1 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []PurchaseOrderItem
	for rows.Next() {
		var item PurchaseOrderItem
		if err := rows.Scan(&item.ID, &item.PurchaseOrderID, &item.InventoryItemID, &item.ItemCode, &item.ItemName, &item.Quantity, &item.UnitPrice, &item.Specifications); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func receiptItems(ctx context.Context, q rowQuerier, receiptID int64) ([]GoodsReceiptItem, error) {
	rows, err := q.Query(ctx,
		`SELECT gi.id, gi.goods_receipt_id, gi.inventory_item_id, i.code, i.name, gi.quantity
		 FROM goods_receipt_items gi
		 JOIN inventory_items i ON i.id = gi.inventory_item_id
		 WHERE gi.goods_receipt_id = $1 ORDER BY gi.id`, receiptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GoodsReceiptItem
	for rows.Next() {
		var item GoodsReceiptItem
		if err := rows.Scan(&item.ID, &item.GoodsReceiptID, &item.InventoryItemID, &item.ItemCode, &item.ItemName, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanQuotations(rows pgx.Rows) ([]Quotation, error) {
	var quotations []Quotation
	for rows.Next() {
		q, err := scanQuotationRow(rows)
		if err != nil {
			return nil, err
		}
		quotations = append(quotations, q)
	}
	return quotations, rows.Err()
}

func scanQuotationRow(row pgx.Row) (Quotation, error) {
	var q Quotation
	err := row.Scan(&q.ID, &q.Number, &q.PurchaseRequestID, &q.RequestNumber, &q.SupplierID, &q.SupplierName,
		&q.QuotationDate, &q.ValidUntil, &q.Status, &q.Notes, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quotation{}, ErrNotFound
	}
	return q, err
}

func scanOrder(row pgx.Row) (PurchaseOrder, error) {
	var o PurchaseOrder
	err := row.Scan(&o.ID, &o.Number, &o.QuotationID, &o.QuotationNumber, &o.SupplierID, &o.SupplierName,
		&o.Status, &o.TotalAmount, &o.ExpectedDeliveryDate, &o.Terms, &o.DeliveryAddress,
		&o.PreparedBy, &o.PreparedByName, &o.ApprovedBy, &o.ApprovedByName, &o.ApprovedAt,
		&o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanReceipt(row pgx.Row) (GoodsReceipt, error) {
	var g GoodsReceipt
	err := row.Scan(&g.ID, &g.Number, &g.PurchaseOrderID, &g.OrderNumber, &g.ReceivedDate, &g.Status,
		&g.Notes, &g.ReceivedBy, &g.ApprovedBy, &g.ApprovedAt, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

func paginate(query string, args []interface{}, argCount *int, page, limit int) (string, []interface{}) {
	if limit <= 0 {
		return query, args
	}
	*argCount++
	query += ` LIMIT $` + strconv.Itoa(*argCount)
	args = append(args, limit)

	*argCount++
	query += ` OFFSET $` + strconv.Itoa(*argCount)
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	args = append(args, offset)
	return query, args
}
