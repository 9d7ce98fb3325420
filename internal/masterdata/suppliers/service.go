package suppliers

import (
	"context"
	"fmt"

	"github.com/meridian-erp/meridian-erp/internal/masterdata/shared"
	internalShared "github.com/meridian-erp/meridian-erp/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("%w: invalid supplier id", internalShared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := s.validate(&supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, id int64, supplier Supplier) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", internalShared.ErrValidation)
	}
	if err := s.validate(&supplier); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, supplier)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", internalShared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

// PricesForItems returns one quote per requested item, preserving the request
// order. Items without a list price come back with HasPrice false so forms can
// leave the field blank instead of defaulting to zero.
func (s *Service) PricesForItems(ctx context.Context, supplierID int64, itemIDs []int64) ([]PriceQuote, error) {
	if supplierID <= 0 {
		return nil, fmt.Errorf("%w: invalid supplier id", internalShared.ErrValidation)
	}
	prices, err := s.repo.PricesForItems(ctx, supplierID, itemIDs)
	if err != nil {
		return nil, err
	}
	byItem := make(map[int64]float64, len(prices))
	for _, p := range prices {
		byItem[p.InventoryItemID] = p.UnitPrice
	}
	quotes := make([]PriceQuote, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		q := PriceQuote{InventoryItemID: itemID}
		if price, ok := byItem[itemID]; ok {
			v := price
			q.UnitPrice = &v
			q.HasPrice = true
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (s *Service) SetPrice(ctx context.Context, price ItemPrice) error {
	if price.SupplierID <= 0 || price.InventoryItemID <= 0 {
		return fmt.Errorf("%w: supplier and item are required", internalShared.ErrValidation)
	}
	if price.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price cannot be negative", internalShared.ErrValidation)
	}
	return s.repo.UpsertPrice(ctx, price)
}
