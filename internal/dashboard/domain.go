package dashboard

import "time"

// Counters holds the headline numbers at the top of the dashboard.
type Counters struct {
	TotalProjects  int `json:"total_projects"`
	ActiveProjects int `json:"active_projects"`
	TotalOrders    int `json:"total_orders"`
	PendingOrders  int `json:"pending_orders"`
	ItemCount      int `json:"item_count"`
	LowStockCount  int `json:"low_stock_count"`
}

// ProjectSummary is a compact project row for recent listings.
type ProjectSummary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderSummary is a compact purchase order row for recent listings.
type OrderSummary struct {
	ID           int64     `json:"id"`
	Number       string    `json:"number"`
	SupplierName string    `json:"supplier_name"`
	Status       string    `json:"status"`
	TotalAmount  float64   `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
}

// JobSummary is a compact fabrication job row for recent listings.
type JobSummary struct {
	ID          int64     `json:"id"`
	Number      string    `json:"number"`
	ProjectName string    `json:"project_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// MonthPoint is one month of purchase order spend.
type MonthPoint struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// MonthCount is one month of document counts.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// MovementDay aggregates stock movement quantity for one day and type.
type MovementDay struct {
	Day   string  `json:"day"`
	Type  string  `json:"type"`
	Total float64 `json:"total"`
}

// SupplierRank ranks a supplier by purchase order count and total spend.
type SupplierRank struct {
	SupplierID  int64   `json:"supplier_id"`
	Name        string  `json:"name"`
	OrderCount  int     `json:"order_count"`
	TotalAmount float64 `json:"total_amount"`
}

// Summary is the full dashboard payload.
type Summary struct {
	Counters        Counters         `json:"counters"`
	ProjectStatus   map[string]int   `json:"project_status"`
	OrderStatus     map[string]int   `json:"order_status"`
	JobStatus       map[string]int   `json:"job_status"`
	RecentProjects  []ProjectSummary `json:"recent_projects"`
	RecentOrders    []OrderSummary   `json:"recent_orders"`
	RecentJobs      []JobSummary     `json:"recent_jobs"`
	MonthlySpend    []MonthPoint     `json:"monthly_spend"`
	MonthlyOrders   []MonthCount     `json:"monthly_orders"`
	MonthlyProjects []MonthCount     `json:"monthly_projects"`
	DailyMovements  []MovementDay    `json:"daily_movements"`
	TopSuppliers    []SupplierRank   `json:"top_suppliers"`
	GeneratedAt     time.Time        `json:"generated_at"`
}
