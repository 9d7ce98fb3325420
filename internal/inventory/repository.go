package inventory

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
	ListMovements(ctx context.Context, filters MovementFilters) ([]StockMovement, int, error)
	StockLevels(ctx context.Context) ([]StockLevel, error)
	StockLevel(ctx context.Context, itemID int64) (StockLevel, error)
	LowStock(ctx context.Context) ([]StockLevel, error)
	LowStockCount(ctx context.Context) (int, error)
}

// TxRepository exposes the writes that must share one transaction.
type TxRepository interface {
	ItemExists(ctx context.Context, itemID int64) (bool, error)
	GetBalanceForUpdate(ctx context.Context, itemID int64) (Balance, error)
	InsertMovement(ctx context.Context, m StockMovement) (int64, error)
	UpsertBalance(ctx context.Context, b Balance) error
	HasMovementWithReference(ctx context.Context, reference string) (bool, error)
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

func (r *repository) ListMovements(ctx context.Context, filters MovementFilters) ([]StockMovement, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.ItemID > 0 {
		argCount++
		where += ` AND m.inventory_item_id = $` + strconv.Itoa(argCount)
		args = append(args, filters.ItemID)
	}
	if filters.Type != "" {
		argCount++
		where += ` AND m.movement_type = $` + strconv.Itoa(argCount)
		args = append(args, filters.Type)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements m`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT m.id, m.inventory_item_id, i.code, i.name, m.movement_type, m.quantity, m.occurred_at, m.reference, m.created_by, m.created_at
		FROM stock_movements m
		JOIN inventory_items i ON i.id = m.inventory_item_id` + where + ` ORDER BY m.occurred_at DESC, m.id DESC`

	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		args = append(args, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.InventoryItemID, &m.ItemCode, &m.ItemName, &m.Type, &m.Quantity, &m.OccurredAt, &m.Reference, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, 0, err
		}
		movements = append(movements, m)
	}
	return movements, total, rows.Err()
}

const stockLevelSelect = `SELECT i.id, i.code, i.name, i.unit, COALESCE(b.on_hand, 0), i.reorder_level
	FROM inventory_items i
	LEFT JOIN stock_balances b ON b.inventory_item_id = i.id`

func (r *repository) StockLevels(ctx context.Context) ([]StockLevel, error) {
	rows, err := r.pool.Query(ctx, stockLevelSelect+` ORDER BY i.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStockLevels(rows)
}

func (r *repository) StockLevel(ctx context.Context, itemID int64) (StockLevel, error) {
	var l StockLevel
	err := r.pool.QueryRow(ctx, stockLevelSelect+` WHERE i.id = $1`, itemID).
		Scan(&l.InventoryItemID, &l.ItemCode, &l.ItemName, &l.Unit, &l.OnHand, &l.ReorderLevel)
	if errors.Is(err, pgx.ErrNoRows) {
		return StockLevel{}, ErrItemNotFound
	}
	return l, err
}

func (r *repository) LowStock(ctx context.Context) ([]StockLevel, error) {
	rows, err := r.pool.Query(ctx, stockLevelSelect+` WHERE COALESCE(b.on_hand, 0) <= i.reorder_level ORDER BY i.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStockLevels(rows)
}

func (r *repository) LowStockCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM inventory_items i
		 LEFT JOIN stock_balances b ON b.inventory_item_id = i.id
		 WHERE COALESCE(b.on_hand, 0) <= i.reorder_level`).Scan(&count)
	return count, err
}

func scanStockLevels(rows pgx.Rows) ([]StockLevel, error) {
	var levels []StockLevel
	for rows.Next() {
		var l StockLevel
		if err := rows.Scan(&l.InventoryItemID, &l.ItemCode, &l.ItemName, &l.Unit, &l.OnHand, &l.ReorderLevel); err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) ItemExists(ctx context.Context, itemID int64) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM inventory_items WHERE id = $1)`, itemID).Scan(&exists)
	return exists, err
}

func (r *txRepository) GetBalanceForUpdate(ctx context.Context, itemID int64) (Balance, error) {
	var b Balance
	err := r.tx.QueryRow(ctx,
		`SELECT inventory_item_id, on_hand, updated_at FROM stock_balances WHERE inventory_item_id = $1 FOR UPDATE`, itemID).
		Scan(&b.InventoryItemID, &b.OnHand, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrBalanceNotFound
	}
	return b, err
}

func (r *txRepository) InsertMovement(ctx context.Context, m StockMovement) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx,
		`INSERT INTO stock_movements (inventory_item_id, movement_type, quantity, occurred_at, reference, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		m.InventoryItemID, m.Type, m.Quantity, m.OccurredAt, m.Reference, m.CreatedBy, time.Now()).Scan(&id)
	return id, err
}

func (r *txRepository) HasMovementWithReference(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_movements WHERE reference = $1)`, reference).Scan(&exists)
	return exists, err
}

func (r *txRepository) UpsertBalance(ctx context.Context, b Balance) error {
	_, err := r.tx.Exec(ctx,
		`INSERT INTO stock_balances (inventory_item_id, on_hand, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (inventory_item_id) DO UPDATE SET on_hand = EXCLUDED.on_hand, updated_at = EXCLUDED.updated_at`,
		b.InventoryItemID, b.OnHand, time.Now())
	return err
}
