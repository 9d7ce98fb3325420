package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meridian-erp/meridian-erp/internal/shared"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service coordinates stock movements and reorder checks.
type Service struct {
	repo  RepositoryPort
	audit AuditPort
}

func NewService(repo RepositoryPort, audit AuditPort) *Service {
	return &Service{repo: repo, audit: audit}
}

// RecordMovement appends one ledger row and updates the item balance in a
// single transaction. Outbound movements that would drive the balance negative
// are rejected.
func (s *Service) RecordMovement(ctx context.Context, input MovementInput) (StockMovement, error) {
	if input.InventoryItemID <= 0 {
		return StockMovement{}, fmt.Errorf("%w: item is required", shared.ErrValidation)
	}
	delta, err := signedQuantity(input.Type, input.Quantity)
	if err != nil {
		return StockMovement{}, err
	}
	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	movement := StockMovement{
		InventoryItemID: input.InventoryItemID,
		Type:            input.Type,
		Quantity:        delta,
		OccurredAt:      occurredAt,
		Reference:       input.Reference,
		CreatedBy:       input.ActorID,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		applied, err := applyMovement(ctx, tx, movement)
		if err != nil {
			return err
		}
		movement = applied
		return nil
	})
	if err != nil {
		return StockMovement{}, err
	}

	s.auditMovement(ctx, movement)
	return movement, nil
}

// RecordMovementSet applies a group of movements in one transaction under a
// shared reference. A reference already present in the ledger short-circuits
// to a no-op, so an interrupted caller can replay the posting without
// doubling stock.
func (s *Service) RecordMovementSet(ctx context.Context, reference string, inputs []MovementInput) error {
	if strings.TrimSpace(reference) == "" {
		return fmt.Errorf("%w: reference is required", shared.ErrValidation)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: at least one movement is required", shared.ErrValidation)
	}

	movements := make([]StockMovement, 0, len(inputs))
	for _, input := range inputs {
		if input.InventoryItemID <= 0 {
			return fmt.Errorf("%w: item is required", shared.ErrValidation)
		}
		delta, err := signedQuantity(input.Type, input.Quantity)
		if err != nil {
			return err
		}
		occurredAt := input.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = time.Now().UTC()
		}
		movements = append(movements, StockMovement{
			InventoryItemID: input.InventoryItemID,
			Type:            input.Type,
			Quantity:        delta,
			OccurredAt:      occurredAt,
			Reference:       reference,
			CreatedBy:       input.ActorID,
		})
	}

	var posted bool
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		exists, err := tx.HasMovementWithReference(ctx, reference)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		for i := range movements {
			applied, err := applyMovement(ctx, tx, movements[i])
			if err != nil {
				return err
			}
			movements[i] = applied
		}
		posted = true
		return nil
	})
	if err != nil {
		return err
	}

	if posted {
		for _, movement := range movements {
			s.auditMovement(ctx, movement)
		}
	}
	return nil
}

// applyMovement inserts one ledger row and moves the balance inside the
// caller's transaction.
func applyMovement(ctx context.Context, tx TxRepository, movement StockMovement) (StockMovement, error) {
	exists, err := tx.ItemExists(ctx, movement.InventoryItemID)
	if err != nil {
		return StockMovement{}, err
	}
	if !exists {
		return StockMovement{}, ErrItemNotFound
	}

	balance, err := tx.GetBalanceForUpdate(ctx, movement.InventoryItemID)
	if err != nil && !errors.Is(err, ErrBalanceNotFound) {
		return StockMovement{}, err
	}
	if errors.Is(err, ErrBalanceNotFound) {
		balance = Balance{InventoryItemID: movement.InventoryItemID}
	}

	newOnHand := balance.OnHand + movement.Quantity
	if newOnHand < -0.0001 {
		return StockMovement{}, ErrNegativeStock
	}
	if math.Abs(newOnHand) < 0.0001 {
		newOnHand = 0
	}

	id, err := tx.InsertMovement(ctx, movement)
	if err != nil {
		return StockMovement{}, err
	}
	movement.ID = id

	balance.OnHand = newOnHand
	if err := tx.UpsertBalance(ctx, balance); err != nil {
		return StockMovement{}, err
	}
	return movement, nil
}

func (s *Service) auditMovement(ctx context.Context, movement StockMovement) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  movement.CreatedBy,
		Action:   fmt.Sprintf("inventory:%s", movement.Type),
		Entity:   "stock_movement",
		EntityID: fmt.Sprintf("%d", movement.ID),
		Meta: map[string]any{
			"item_id":   movement.InventoryItemID,
			"quantity":  movement.Quantity,
			"reference": movement.Reference,
		},
	})
}

// CheckReorderLevel reports whether the item's on-hand quantity sits at or
// below its reorder level. Equality counts as low.
func (s *Service) CheckReorderLevel(ctx context.Context, itemID int64) (bool, error) {
	if itemID <= 0 {
		return false, fmt.Errorf("%w: invalid item id", shared.ErrValidation)
	}
	level, err := s.repo.StockLevel(ctx, itemID)
	if err != nil {
		return false, err
	}
	return level.NeedsReorder(), nil
}

// LowStock returns every item at or below its reorder level in one query.
func (s *Service) LowStock(ctx context.Context) ([]StockLevel, error) {
	return s.repo.LowStock(ctx)
}

// LowStockCount returns the number of low-stock items.
func (s *Service) LowStockCount(ctx context.Context) (int, error) {
	return s.repo.LowStockCount(ctx)
}

// StockLevels returns the balance of every item.
func (s *Service) StockLevels(ctx context.Context) ([]StockLevel, error) {
	return s.repo.StockLevels(ctx)
}

// ListMovements pages through the movement ledger.
func (s *Service) ListMovements(ctx context.Context, filters MovementFilters) ([]StockMovement, int, error) {
	return s.repo.ListMovements(ctx, filters)
}

func signedQuantity(t MovementType, qty float64) (float64, error) {
	switch t {
	case MovementIn:
		if qty <= 0 {
			return 0, ErrInvalidQuantity
		}
		return qty, nil
	case MovementOut:
		if qty <= 0 {
			return 0, ErrInvalidQuantity
		}
		return -qty, nil
	case MovementAdjustment:
		if math.Abs(qty) < 1e-9 {
			return 0, ErrInvalidQuantity
		}
		return qty, nil
	}
	return 0, fmt.Errorf("%w: unknown movement type %q", shared.ErrValidation, t)
}
