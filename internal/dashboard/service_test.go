package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	counters      Counters
	monthlyTotals map[string]float64
	orderCounts   map[string]int
	projectCounts map[string]int
	suppliers     []SupplierRank
	buildCalls    int
}

func (f *fakeRepo) Counters(ctx context.Context) (Counters, error) {
	f.buildCalls++
	return f.counters, nil
}

func (f *fakeRepo) ProjectStatusCounts(ctx context.Context) (map[string]int, error) {
	return map[string]int{"active": 2, "planned": 1}, nil
}

func (f *fakeRepo) OrderStatusCounts(ctx context.Context) (map[string]int, error) {
	return map[string]int{"pending": 3, "approved": 4}, nil
}

func (f *fakeRepo) JobStatusCounts(ctx context.Context) (map[string]int, error) {
	return map[string]int{"in_progress": 1}, nil
}

func (f *fakeRepo) RecentProjects(ctx context.Context, limit int) ([]ProjectSummary, error) {
	return []ProjectSummary{{ID: 1, Name: "Harbor Crane", Status: "active"}}, nil
}

func (f *fakeRepo) RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	return []OrderSummary{{ID: 9, Number: "PO-1", SupplierName: "Steel Supply Co", Status: "pending", TotalAmount: 500}}, nil
}

func (f *fakeRepo) RecentJobs(ctx context.Context, limit int) ([]JobSummary, error) {
	return []JobSummary{{ID: 4, Number: "FAB-1", ProjectName: "Harbor Crane", Status: "in_progress"}}, nil
}

func (f *fakeRepo) MonthlyOrderTotals(ctx context.Context, from time.Time) (map[string]float64, error) {
	return f.monthlyTotals, nil
}

func (f *fakeRepo) MonthlyOrderCounts(ctx context.Context, from time.Time) (map[string]int, error) {
	return f.orderCounts, nil
}

func (f *fakeRepo) MonthlyProjectCounts(ctx context.Context, from time.Time) (map[string]int, error) {
	return f.projectCounts, nil
}

func (f *fakeRepo) DailyMovementTotals(ctx context.Context, from time.Time) ([]MovementDay, error) {
	return []MovementDay{{Day: "2026-08-30", Type: "in", Total: 12}}, nil
}

func (f *fakeRepo) TopSuppliers(ctx context.Context, limit int) ([]SupplierRank, error) {
	if limit < len(f.suppliers) {
		return f.suppliers[:limit], nil
	}
	return f.suppliers, nil
}

func newTestService(t *testing.T, repo RepositoryPort) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(repo, client, time.Minute)
	svc.clock = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}
	return svc, mr
}

func TestLoadFillsMissingMonths(t *testing.T) {
	repo := &fakeRepo{
		counters:      Counters{TotalProjects: 3, LowStockCount: 1},
		monthlyTotals: map[string]float64{"2026-08": 1500, "2026-05": 200},
	}
	svc, _ := newTestService(t, repo)

	summary, err := svc.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.MonthlySpend, 6)
	require.Equal(t, "2026-03", summary.MonthlySpend[0].Month)
	require.Equal(t, "2026-08", summary.MonthlySpend[5].Month)
	require.Equal(t, 0.0, summary.MonthlySpend[0].Total)
	require.Equal(t, 200.0, summary.MonthlySpend[2].Total)
	require.Equal(t, 1500.0, summary.MonthlySpend[5].Total)
}

func TestLoadFillsMonthlyCountSeries(t *testing.T) {
	repo := &fakeRepo{
		orderCounts:   map[string]int{"2026-08": 4, "2026-06": 1},
		projectCounts: map[string]int{"2026-07": 2},
	}
	svc, _ := newTestService(t, repo)

	summary, err := svc.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.MonthlyOrders, 6)
	require.Equal(t, "2026-03", summary.MonthlyOrders[0].Month)
	require.Equal(t, 0, summary.MonthlyOrders[0].Count)
	require.Equal(t, 1, summary.MonthlyOrders[3].Count)
	require.Equal(t, 4, summary.MonthlyOrders[5].Count)

	require.Len(t, summary.MonthlyProjects, 6)
	require.Equal(t, 2, summary.MonthlyProjects[4].Count)
	require.Equal(t, 0, summary.MonthlyProjects[5].Count)
}

func TestLoadCachesSummary(t *testing.T) {
	repo := &fakeRepo{counters: Counters{TotalOrders: 7}}
	svc, _ := newTestService(t, repo)

	first, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, first.Counters.TotalOrders)
	require.Equal(t, 1, repo.buildCalls)

	second, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, second.Counters.TotalOrders)
	require.Equal(t, 1, repo.buildCalls, "second load should hit the cache")
}

func TestInvalidateForcesRebuild(t *testing.T) {
	repo := &fakeRepo{counters: Counters{TotalOrders: 7}}
	svc, _ := newTestService(t, repo)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background()))

	_, err = svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, repo.buildCalls)
}

func TestWarmPopulatesCache(t *testing.T) {
	repo := &fakeRepo{counters: Counters{ItemCount: 11}}
	svc, _ := newTestService(t, repo)

	require.NoError(t, svc.Warm(context.Background()))
	require.Equal(t, 1, repo.buildCalls)

	summary, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 11, summary.Counters.ItemCount)
	require.Equal(t, 1, repo.buildCalls, "load after warm should hit the cache")
}

func TestTopSuppliersLimit(t *testing.T) {
	repo := &fakeRepo{
		suppliers: []SupplierRank{
			{SupplierID: 1, Name: "Steel Supply Co", OrderCount: 9, TotalAmount: 4500},
			{SupplierID: 2, Name: "Cement Works", OrderCount: 9, TotalAmount: 3100},
			{SupplierID: 3, Name: "Bolt Traders", OrderCount: 4},
			{SupplierID: 4, Name: "Pipe Masters", OrderCount: 3},
			{SupplierID: 5, Name: "Glass Depot", OrderCount: 2},
			{SupplierID: 6, Name: "Paint House", OrderCount: 1},
		},
	}
	svc, _ := newTestService(t, repo)

	summary, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.TopSuppliers, 5)
	require.Equal(t, int64(1), summary.TopSuppliers[0].SupplierID)
	require.Equal(t, 4500.0, summary.TopSuppliers[0].TotalAmount)
}
