package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskInventoryReorderScan walks stock levels and flags items at or
	// below their reorder level.
	TaskInventoryReorderScan = "inventory:reorder_scan"
	// TaskDashboardWarmup rebuilds the cached dashboard summary.
	TaskDashboardWarmup = "dashboard:warmup"
)

// ReorderScanPayload configures a reorder scan run.
type ReorderScanPayload struct {
	// Limit caps how many low stock items are logged per run. Zero means
	// no cap.
	Limit int `json:"limit"`
}

// NewReorderScanTask constructs an Asynq task for the reorder scan.
func NewReorderScanTask(payload ReorderScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInventoryReorderScan, data), nil
}

// DashboardWarmupPayload configures a dashboard warmup run.
type DashboardWarmupPayload struct {
	Reason string `json:"reason"`
}

// NewDashboardWarmupTask constructs an Asynq task for the dashboard warmup.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
