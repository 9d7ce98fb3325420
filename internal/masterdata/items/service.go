package items

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridian-erp/meridian-erp/internal/masterdata/shared"
	internalShared "github.com/meridian-erp/meridian-erp/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]InventoryItem, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (InventoryItem, error) {
	if id <= 0 {
		return InventoryItem{}, fmt.Errorf("%w: invalid item id", internalShared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) GetMany(ctx context.Context, ids []int64) ([]InventoryItem, error) {
	return s.repo.GetMany(ctx, ids)
}

func (s *Service) Create(ctx context.Context, item InventoryItem) (InventoryItem, error) {
	if err := s.validate(item); err != nil {
		return InventoryItem{}, err
	}
	return s.repo.Create(ctx, item)
}

func (s *Service) Update(ctx context.Context, id int64, item InventoryItem) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid item id", internalShared.ErrValidation)
	}
	if err := s.validate(item); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, item)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid item id", internalShared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) validate(item InventoryItem) error {
	if strings.TrimSpace(item.Code) == "" {
		return fmt.Errorf("%w: item code is required", internalShared.ErrValidation)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item name is required", internalShared.ErrValidation)
	}
	if strings.TrimSpace(item.Unit) == "" {
		return fmt.Errorf("%w: item unit is required", internalShared.ErrValidation)
	}
	if item.ReorderLevel < 0 {
		return fmt.Errorf("%w: reorder level cannot be negative", internalShared.ErrValidation)
	}
	return nil
}
