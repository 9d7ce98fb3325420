package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort exposes the read queries behind the dashboard summary.
type RepositoryPort interface {
	Counters(ctx context.Context) (Counters, error)
	ProjectStatusCounts(ctx context.Context) (map[string]int, error)
	OrderStatusCounts(ctx context.Context) (map[string]int, error)
	JobStatusCounts(ctx context.Context) (map[string]int, error)
	RecentProjects(ctx context.Context, limit int) ([]ProjectSummary, error)
	RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error)
	RecentJobs(ctx context.Context, limit int) ([]JobSummary, error)
	MonthlyOrderTotals(ctx context.Context, from time.Time) (map[string]float64, error)
	MonthlyOrderCounts(ctx context.Context, from time.Time) (map[string]int, error)
	MonthlyProjectCounts(ctx context.Context, from time.Time) (map[string]int, error)
	DailyMovementTotals(ctx context.Context, from time.Time) ([]MovementDay, error)
	TopSuppliers(ctx context.Context, limit int) ([]SupplierRank, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryPort {
	return &repository{pool: pool}
}

func (r *repository) Counters(ctx context.Context) (Counters, error) {
	var c Counters
	err := r.pool.QueryRow(ctx, `SELECT
		(SELECT COUNT(*) FROM projects),
		(SELECT COUNT(*) FROM projects WHERE status = 'active'),
		(SELECT COUNT(*) FROM purchase_orders),
		(SELECT COUNT(*) FROM purchase_orders WHERE status = 'pending'),
		(SELECT COUNT(*) FROM inventory_items),
		(SELECT COUNT(*) FROM inventory_items i
			LEFT JOIN stock_balances b ON b.inventory_item_id = i.id
			WHERE COALESCE(b.on_hand, 0) <= i.reorder_level)`).
		Scan(&c.TotalProjects, &c.ActiveProjects, &c.TotalOrders, &c.PendingOrders, &c.ItemCount, &c.LowStockCount)
	return c, err
}

func (r *repository) ProjectStatusCounts(ctx context.Context) (map[string]int, error) {
	return r.statusCounts(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
}

func (r *repository) OrderStatusCounts(ctx context.Context) (map[string]int, error) {
	return r.statusCounts(ctx, `SELECT status, COUNT(*) FROM purchase_orders GROUP BY status`)
}

func (r *repository) JobStatusCounts(ctx context.Context) (map[string]int, error) {
	return r.statusCounts(ctx, `SELECT status, COUNT(*) FROM fabrication_jobs GROUP BY status`)
}

func (r *repository) statusCounts(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *repository) RecentProjects(ctx context.Context, limit int) ([]ProjectSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, status, created_at FROM projects ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []ProjectSummary
	for rows.Next() {
		var p ProjectSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *repository) RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.number, COALESCE(s.name, ''), o.status, o.total_amount, o.created_at
		 FROM purchase_orders o
		 LEFT JOIN suppliers s ON s.id = o.supplier_id
		 ORDER BY o.created_at DESC, o.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []OrderSummary
	for rows.Next() {
		var o OrderSummary
		if err := rows.Scan(&o.ID, &o.Number, &o.SupplierName, &o.Status, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) RecentJobs(ctx context.Context, limit int) ([]JobSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT j.id, j.job_number, COALESCE(p.name, ''), j.status, j.created_at
		 FROM fabrication_jobs j
		 LEFT JOIN projects p ON p.id = j.project_id
		 ORDER BY j.created_at DESC, j.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []JobSummary
	for rows.Next() {
		var j JobSummary
		if err := rows.Scan(&j.ID, &j.Number, &j.ProjectName, &j.Status, &j.CreatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *repository) MonthlyOrderTotals(ctx context.Context, from time.Time) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT to_char(created_at, 'YYYY-MM') AS month, SUM(total_amount)::double precision
		 FROM purchase_orders
		 WHERE created_at >= $1
		 GROUP BY month`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var month string
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		totals[month] = total
	}
	return totals, rows.Err()
}

func (r *repository) MonthlyOrderCounts(ctx context.Context, from time.Time) (map[string]int, error) {
	return r.monthlyCounts(ctx,
		`SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		 FROM purchase_orders
		 WHERE created_at >= $1
		 GROUP BY month`, from)
}

func (r *repository) MonthlyProjectCounts(ctx context.Context, from time.Time) (map[string]int, error) {
	return r.monthlyCounts(ctx,
		`SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		 FROM projects
		 WHERE created_at >= $1
		 GROUP BY month`, from)
}

func (r *repository) monthlyCounts(ctx context.Context, query string, from time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var month string
		var count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, err
		}
		counts[month] = count
	}
	return counts, rows.Err()
}

func (r *repository) DailyMovementTotals(ctx context.Context, from time.Time) ([]MovementDay, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT to_char(occurred_at, 'YYYY-MM-DD') AS day, movement_type, SUM(quantity)::double precision
		 FROM stock_movements
		 WHERE occurred_at >= $1
		 GROUP BY day, movement_type
		 ORDER BY day, movement_type`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []MovementDay
	for rows.Next() {
		var d MovementDay
		if err := rows.Scan(&d.Day, &d.Type, &d.Total); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *repository) TopSuppliers(ctx context.Context, limit int) ([]SupplierRank, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.name, COUNT(o.id), SUM(o.total_amount)::double precision
		 FROM purchase_orders o
		 JOIN suppliers s ON s.id = o.supplier_id
		 GROUP BY s.id, s.name
		 ORDER BY COUNT(o.id) DESC, s.id ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []SupplierRank
	for rows.Next() {
		var rank SupplierRank
		if err := rows.Scan(&rank.SupplierID, &rank.Name, &rank.OrderCount, &rank.TotalAmount); err != nil {
			return nil, err
		}
		ranks = append(ranks, rank)
	}
	return ranks, rows.Err()
}
