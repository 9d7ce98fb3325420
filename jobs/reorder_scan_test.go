package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/inventory"
	jobmetrics "github.com/meridian-erp/meridian-erp/internal/jobs"
)

type fakeScanner struct {
	levels []inventory.StockLevel
	err    error
	calls  int
}

func (f *fakeScanner) LowStock(ctx context.Context) ([]inventory.StockLevel, error) {
	f.calls++
	return f.levels, f.err
}

type fakeWarmer struct {
	err   error
	calls int
}

func (f *fakeWarmer) Warm(ctx context.Context) error {
	f.calls++
	return f.err
}

func testMetrics() *jobmetrics.Metrics {
	return jobmetrics.NewMetrics(prometheus.NewRegistry())
}

func reorderTask(t *testing.T, payload ReorderScanPayload) *asynq.Task {
	t.Helper()
	task, err := NewReorderScanTask(payload)
	require.NoError(t, err)
	return task
}

func TestReorderScanHandle(t *testing.T) {
	scanner := &fakeScanner{levels: []inventory.StockLevel{
		{InventoryItemID: 1, ItemCode: "STL-BEAM-200", OnHand: 2, ReorderLevel: 10},
		{InventoryItemID: 2, ItemCode: "CEM-40", OnHand: 0, ReorderLevel: 5},
	}}
	job := NewReorderScanJob(scanner, slog.Default(), testMetrics())

	err := job.Handle(context.Background(), reorderTask(t, ReorderScanPayload{}))
	require.NoError(t, err)
	require.Equal(t, 1, scanner.calls)
}

func TestReorderScanPropagatesScanError(t *testing.T) {
	scanner := &fakeScanner{err: errors.New("db down")}
	job := NewReorderScanJob(scanner, slog.Default(), testMetrics())

	err := job.Handle(context.Background(), reorderTask(t, ReorderScanPayload{}))
	require.Error(t, err)
}

func TestReorderScanRejectsMalformedPayload(t *testing.T) {
	job := NewReorderScanJob(&fakeScanner{}, slog.Default(), testMetrics())

	task := asynq.NewTask(TaskInventoryReorderScan, []byte("{not-json"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestDashboardWarmupHandle(t *testing.T) {
	warmer := &fakeWarmer{}
	job := NewDashboardWarmupJob(warmer, slog.Default(), testMetrics())

	payload, err := json.Marshal(DashboardWarmupPayload{Reason: "cron"})
	require.NoError(t, err)

	err = job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, payload))
	require.NoError(t, err)
	require.Equal(t, 1, warmer.calls)
}

func TestDashboardWarmupPropagatesError(t *testing.T) {
	warmer := &fakeWarmer{err: errors.New("redis down")}
	job := NewDashboardWarmupJob(warmer, slog.Default(), testMetrics())

	err := job.Handle(context.Background(), asynq.NewTask(TaskDashboardWarmup, []byte(`{}`)))
	require.Error(t, err)
}
