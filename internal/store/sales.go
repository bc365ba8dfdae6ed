package store

import (
	"context"

	"pos-service/internal/models"
)

// ListSales returns every recorded sale in insertion order, which is also
// chronological since sales are only ever appended.
func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadSales(ctx)
}

// RecordSale appends a completed transaction to the ledger and decrements
// catalog stock for every referenced non-service product, clamped at zero.
// The cart carries its own name/price snapshots; the store does not check
// them against the catalog.
//
// Both writes happen inside the store mutex, so concurrent checkouts are
// serialized rather than racing the catalog read-modify-write.
func (s *Store) RecordSale(ctx context.Context, items []models.SaleItem) (*models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	sale := models.Sale{
		ID:        s.newID(),
		Items:     items,
		Total:     total,
		Timestamp: s.now(),
	}

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		for i := range products {
			if products[i].ID != item.ProductID || products[i].IsService() {
				continue
			}
			products[i].Stock -= item.Quantity
			if products[i].Stock < 0 {
				products[i].Stock = 0
			}
		}
	}

	if err := s.saveProducts(ctx, products); err != nil {
		return nil, err
	}

	sales, err := s.loadSales(ctx)
	if err != nil {
		return nil, err
	}
	sales = append(sales, sale)

	if err := s.saveSales(ctx, sales); err != nil {
		return nil, err
	}

	return &sale, nil
}

// ClearSales wipes the ledger. The catalog is untouched. This is the bulk
// data-clear action; individual sales are never deleted.
func (s *Store) ClearSales(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveSales(ctx, []models.Sale{})
}
