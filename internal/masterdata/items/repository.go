package items

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-erp/meridian-erp/internal/masterdata/shared"
	internalShared "github.com/meridian-erp/meridian-erp/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]InventoryItem, int, error)
	Get(ctx context.Context, id int64) (InventoryItem, error)
	GetMany(ctx context.Context, ids []int64) ([]InventoryItem, error)
	Create(ctx context.Context, item InventoryItem) (InventoryItem, error)
	Update(ctx context.Context, id int64, item InventoryItem) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const itemColumns = `id, code, name, description, unit, reorder_level, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]InventoryItem, int, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		query += ` AND (name ILIKE $` + strconv.Itoa(argCount) + ` OR code ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM inventory_items WHERE 1=1`
	countArgs := []interface{}{}
	if filters.Search != "" {
		countQuery += ` AND (name ILIKE $1 OR code ILIKE $1)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY " + sortOrder(filters.SortBy, filters.SortDir)

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

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (InventoryItem, error) {
	row := r.db.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return InventoryItem{}, internalShared.ErrNotFound
	}
	return item, err
}

func (r *repository) GetMany(ctx context.Context, ids []int64) ([]InventoryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = ANY($1) ORDER BY name`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *repository) Create(ctx context.Context, item InventoryItem) (InventoryItem, error) {
	query := `INSERT INTO inventory_items (code, name, description, unit, reorder_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRow(ctx, query, item.Code, item.Name, item.Description, item.Unit, item.ReorderLevel, now, now).Scan(&item.ID)
	if err != nil {
		return InventoryItem{}, err
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return item, nil
}

func (r *repository) Update(ctx context.Context, id int64, item InventoryItem) error {
	query := `UPDATE inventory_items SET code = $1, name = $2, description = $3, unit = $4, reorder_level = $5, updated_at = $6 WHERE id = $7`
	tag, err := r.db.Exec(ctx, query, item.Code, item.Name, item.Description, item.Unit, item.ReorderLevel, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return internalShared.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (InventoryItem, error) {
	var item InventoryItem
	err := row.Scan(&item.ID, &item.Code, &item.Name, &item.Description, &item.Unit, &item.ReorderLevel, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}

func sortOrder(sortBy, sortDir string) string {
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	switch sortBy {
	case "code":
		return "code " + dir
	case "name":
		return "name " + dir
	case "reorder_level":
		return "reorder_level " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name " + dir
	}
}
