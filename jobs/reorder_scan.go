package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/meridian-erp/meridian-erp/internal/inventory"
	jobmetrics "github.com/meridian-erp/meridian-erp/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// StockScanner reports stock levels at or below the reorder threshold.
type StockScanner interface {
	LowStock(ctx context.Context) ([]inventory.StockLevel, error)
}

// ReorderScanJob flags inventory items whose on-hand balance dropped to the
// reorder level or below.
type ReorderScanJob struct {
	Stock   StockScanner
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReorderScanJob initialises the reorder scan handler.
func NewReorderScanJob(stock StockScanner, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReorderScanJob {
	return &ReorderScanJob{
		Stock:   stock,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the reorder scan.
func (j *ReorderScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("reorder scan: handler not configured")
	}
	var payload ReorderScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := j.now()
	tracker := j.metrics().Track(TaskInventoryReorderScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting reorder scan")

	if j.Stock == nil {
		resultErr = errors.New("reorder scan: stock service not configured")
		return resultErr
	}

	levels, err := j.Stock.LowStock(ctx)
	if err != nil {
		resultErr = err
		logger.Error("scan failed", slog.Any("error", err))
		return resultErr
	}

	logged := 0
	for _, level := range levels {
		if payload.Limit > 0 && logged >= payload.Limit {
			break
		}
		logger.Warn("item at or below reorder level",
			slog.Int64("item_id", level.InventoryItemID),
			slog.String("item_code", level.ItemCode),
			slog.Float64("on_hand", level.OnHand),
			slog.Float64("reorder_level", level.ReorderLevel),
		)
		logged++
	}
	j.metrics().SetLowStock(len(levels))

	logger.Info("completed reorder scan",
		slog.Int("low_stock_items", len(levels)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *ReorderScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskInventoryReorderScan))
	}
	return slog.Default().With(slog.String("job", TaskInventoryReorderScan))
}

func (j *ReorderScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReorderScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
