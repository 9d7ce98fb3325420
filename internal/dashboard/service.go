package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	cacheKey     = "dashboard:summary"
	recentLimit  = 5
	topSuppliers = 5
	spendMonths  = 6
	movementDays = 30
)

// Service assembles the dashboard summary with a Redis cache in front of the
// repository. Concurrent cache misses collapse into one load.
type Service struct {
	repo  RepositoryPort
	redis *redis.Client
	ttl   time.Duration
	group singleflight.Group
	clock func() time.Time
}

func NewService(repo RepositoryPort, client *redis.Client, ttl time.Duration) *Service {
	return &Service{
		repo:  repo,
		redis: client,
		ttl:   ttl,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// Load returns the dashboard summary, from cache when fresh.
func (s *Service) Load(ctx context.Context) (Summary, error) {
	if s.redis != nil {
		payload, err := s.redis.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var summary Summary
			if err := json.Unmarshal(payload, &summary); err == nil {
				return summary, nil
			}
		} else if err != redis.Nil {
			return Summary{}, fmt.Errorf("dashboard: cache read: %w", err)
		}
	}

	resultChan := s.group.DoChan(cacheKey, func() (interface{}, error) {
		return s.build(ctx)
	})
	select {
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Summary{}, res.Err
		}
		summary := res.Val.(Summary)
		if s.redis != nil {
			if raw, err := json.Marshal(summary); err == nil {
				_ = s.redis.Set(ctx, cacheKey, raw, s.ttl).Err()
			}
		}
		return summary, nil
	}
}

// Warm rebuilds the summary and refreshes the cache unconditionally.
func (s *Service) Warm(ctx context.Context) error {
	summary, err := s.build(ctx)
	if err != nil {
		return err
	}
	if s.redis == nil {
		return nil
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, cacheKey, raw, s.ttl).Err()
}

// Invalidate drops the cached summary.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, cacheKey).Err()
}

func (s *Service) build(ctx context.Context) (Summary, error) {
	now := s.clock()

	counters, err := s.repo.Counters(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: counters: %w", err)
	}
	projectStatus, err := s.repo.ProjectStatusCounts(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: project status: %w", err)
	}
	orderStatus, err := s.repo.OrderStatusCounts(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: order status: %w", err)
	}
	jobStatus, err := s.repo.JobStatusCounts(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: job status: %w", err)
	}
	recentProjects, err := s.repo.RecentProjects(ctx, recentLimit)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: recent projects: %w", err)
	}
	recentOrders, err := s.repo.RecentOrders(ctx, recentLimit)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: recent orders: %w", err)
	}
	recentJobs, err := s.repo.RecentJobs(ctx, recentLimit)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: recent jobs: %w", err)
	}

	spendFrom := monthStart(now).AddDate(0, -(spendMonths - 1), 0)
	monthlyTotals, err := s.repo.MonthlyOrderTotals(ctx, spendFrom)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: monthly spend: %w", err)
	}
	monthlyOrderCounts, err := s.repo.MonthlyOrderCounts(ctx, spendFrom)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: monthly orders: %w", err)
	}
	monthlyProjectCounts, err := s.repo.MonthlyProjectCounts(ctx, spendFrom)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: monthly projects: %w", err)
	}

	movementFrom := now.AddDate(0, 0, -movementDays).Truncate(24 * time.Hour)
	dailyMovements, err := s.repo.DailyMovementTotals(ctx, movementFrom)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: daily movements: %w", err)
	}

	suppliers, err := s.repo.TopSuppliers(ctx, topSuppliers)
	if err != nil {
		return Summary{}, fmt.Errorf("dashboard: top suppliers: %w", err)
	}

	return Summary{
		Counters:       counters,
		ProjectStatus:  projectStatus,
		OrderStatus:    orderStatus,
		JobStatus:      jobStatus,
		RecentProjects: recentProjects,
		RecentOrders:   recentOrders,
		RecentJobs:     recentJobs,
		MonthlySpend:    fillMonths(monthlyTotals, now, spendMonths),
		MonthlyOrders:   fillMonthCounts(monthlyOrderCounts, now, spendMonths),
		MonthlyProjects: fillMonthCounts(monthlyProjectCounts, now, spendMonths),
		DailyMovements:  dailyMovements,
		TopSuppliers:   suppliers,
		GeneratedAt:    now,
	}, nil
}

// fillMonths expands the sparse month totals into a dense ascending series so
// charts always show the full window.
func fillMonths(totals map[string]float64, now time.Time, months int) []MonthPoint {
	series := make([]MonthPoint, 0, months)
	start := monthStart(now).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		series = append(series, MonthPoint{Month: key, Total: totals[key]})
	}
	return series
}

// fillMonthCounts is the count-series counterpart of fillMonths.
func fillMonthCounts(counts map[string]int, now time.Time, months int) []MonthCount {
	series := make([]MonthCount, 0, months)
	start := monthStart(now).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		series = append(series, MonthCount{Month: key, Count: counts[key]})
	}
	return series
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
