package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

type memoryRepo struct {
	nextID    int64
	items     map[int64]StockLevel
	balances  map[int64]Balance
	movements []StockMovement
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		nextID:   1,
		items:    map[int64]StockLevel{},
		balances: map[int64]Balance{},
	}
}

func (m *memoryRepo) addItem(id int64, reorderLevel float64) {
	m.items[id] = StockLevel{InventoryItemID: id, ReorderLevel: reorderLevel}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) ItemExists(_ context.Context, itemID int64) (bool, error) {
	_, ok := m.items[itemID]
	return ok, nil
}

func (m *memoryRepo) GetBalanceForUpdate(_ context.Context, itemID int64) (Balance, error) {
	b, ok := m.balances[itemID]
	if !ok {
		return Balance{}, ErrBalanceNotFound
	}
	return b, nil
}

func (m *memoryRepo) InsertMovement(_ context.Context, mv StockMovement) (int64, error) {
	mv.ID = m.nextID
	m.nextID++
	m.movements = append(m.movements, mv)
	return mv.ID, nil
}

func (m *memoryRepo) UpsertBalance(_ context.Context, b Balance) error {
	m.balances[b.InventoryItemID] = b
	return nil
}

func (m *memoryRepo) HasMovementWithReference(_ context.Context, reference string) (bool, error) {
	for _, mv := range m.movements {
		if mv.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) ListMovements(_ context.Context, _ MovementFilters) ([]StockMovement, int, error) {
	return m.movements, len(m.movements), nil
}

func (m *memoryRepo) StockLevels(_ context.Context) ([]StockLevel, error) {
	var out []StockLevel
	for id, item := range m.items {
		item.OnHand = m.balances[id].OnHand
		out = append(out, item)
	}
	return out, nil
}

func (m *memoryRepo) StockLevel(_ context.Context, itemID int64) (StockLevel, error) {
	item, ok := m.items[itemID]
	if !ok {
		return StockLevel{}, ErrItemNotFound
	}
	item.OnHand = m.balances[itemID].OnHand
	return item, nil
}

func (m *memoryRepo) LowStock(ctx context.Context) ([]StockLevel, error) {
	levels, _ := m.StockLevels(ctx)
	var out []StockLevel
	for _, l := range levels {
		if l.NeedsReorder() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memoryRepo) LowStockCount(ctx context.Context) (int, error) {
	low, _ := m.LowStock(ctx)
	return len(low), nil
}

func TestRecordMovementMaintainsBalance(t *testing.T) {
	repo := newMemoryRepo()
	repo.addItem(1, 5)
	svc := NewService(repo, nil)

	_, err := svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementIn, Quantity: 10})
	require.NoError(t, err)
	require.Equal(t, 10.0, repo.balances[1].OnHand)

	_, err = svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementOut, Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, 6.0, repo.balances[1].OnHand)

	_, err = svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementAdjustment, Quantity: -1})
	require.NoError(t, err)
	require.Equal(t, 5.0, repo.balances[1].OnHand)
}

func TestRecordMovementRejectsOverdraw(t *testing.T) {
	repo := newMemoryRepo()
	repo.addItem(1, 0)
	svc := NewService(repo, nil)

	_, err := svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementIn, Quantity: 3})
	require.NoError(t, err)

	_, err = svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementOut, Quantity: 5})
	require.ErrorIs(t, err, shared.ErrConflict)
	require.Equal(t, 3.0, repo.balances[1].OnHand)
}

func TestRecordMovementRejectsUnknownItem(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	_, err := svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 99, Type: MovementIn, Quantity: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecordMovementRejectsBadQuantities(t *testing.T) {
	repo := newMemoryRepo()
	repo.addItem(1, 0)
	svc := NewService(repo, nil)

	_, err := svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementIn, Quantity: 0})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementOut, Quantity: -2})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementAdjustment, Quantity: 0})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: "transfer", Quantity: 1})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestRecordMovementSetAppliesAllLines(t *testing.T) {
	repo := newMemoryRepo()
	repo.addItem(1, 0)
	repo.addItem(2, 0)
	svc := NewService(repo, nil)

	err := svc.RecordMovementSet(context.Background(), "GR-100", []MovementInput{
		{InventoryItemID: 1, Type: MovementIn, Quantity: 10},
		{InventoryItemID: 2, Type: MovementIn, Quantity: 4},
	})
	require.NoError(t, err)
	require.Equal(t, 10.0, repo.balances[1].OnHand)
	require.Equal(t, 4.0, repo.balances[2].OnHand)
	require.Len(t, repo.movements, 2)
	require.Equal(t, "GR-100", repo.movements[0].Reference)
	require.Equal(t, "GR-100", repo.movements[1].Reference)
}

func TestRecordMovementSetReplayIsNoOp(t *testing.T) {
	repo := newMemoryRepo()
	repo.addItem(1, 0)
	svc := NewService(repo, nil)

	inputs := []MovementInput{{InventoryItemID: 1, Type: MovementIn, Quantity: 10}}
	require.NoError(t, svc.RecordMovementSet(context.Background(), "GR-200", inputs))
	require.NoError(t, svc.RecordMovementSet(context.Background(), "GR-200", inputs))

	require.Equal(t, 10.0, repo.balances[1].OnHand)
	require.Len(t, repo.movements, 1)
}

func TestRecordMovementSetValidatesBeforePosting(t *testing.T) {
	repo := newMemoryRepo()
	repo.addItem(1, 0)
	svc := NewService(repo, nil)

	err := svc.RecordMovementSet(context.Background(), "", []MovementInput{
		{InventoryItemID: 1, Type: MovementIn, Quantity: 1},
	})
	require.ErrorIs(t, err, shared.ErrValidation)

	err = svc.RecordMovementSet(context.Background(), "GR-300", nil)
	require.ErrorIs(t, err, shared.ErrValidation)

	err = svc.RecordMovementSet(context.Background(), "GR-300", []MovementInput{
		{InventoryItemID: 1, Type: MovementIn, Quantity: 1},
		{InventoryItemID: 1, Type: MovementIn, Quantity: 0},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Empty(t, repo.movements)
}

func TestCheckReorderLevelBoundary(t *testing.T) {
	repo := newMemoryRepo()
	repo.addItem(1, 5)
	svc := NewService(repo, nil)

	_, err := svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementIn, Quantity: 5})
	require.NoError(t, err)

	// on-hand equal to reorder level counts as low
	low, err := svc.CheckReorderLevel(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, low)

	_, err = svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 1, Type: MovementIn, Quantity: 0.5})
	require.NoError(t, err)

	low, err = svc.CheckReorderLevel(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, low)
}

func TestLowStockBatch(t *testing.T) {
	repo := newMemoryRepo()
	repo.addItem(1, 5)
	repo.addItem(2, 5)
	svc := NewService(repo, nil)

	_, err := svc.RecordMovement(context.Background(), MovementInput{InventoryItemID: 2, Type: MovementIn, Quantity: 20})
	require.NoError(t, err)

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, int64(1), low[0].InventoryItemID)

	count, err := svc.LowStockCount(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
