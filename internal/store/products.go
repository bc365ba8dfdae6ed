package store

import (
	"context"

	"pos-service/internal/models"
)

// normalize applies read-time invariants: service products always report
// zero stock, whatever happens to be stored.
func normalize(p models.Product) models.Product {
	if p.IsService() {
		p.Stock = 0
	}
	return p
}

// ListProducts returns the full catalog in storage order.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = normalize(p)
	}
	return out, nil
}

// GetProduct returns the product with the given id, or ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.ID == id {
			p = normalize(p)
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

// AddProduct assigns a new id, appends the product to the catalog and
// persists it. The store performs no validation; range and required-field
// checks are the caller's job.
func (s *Store) AddProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	product.ID = s.newID()
	products = append(products, product)

	if err := s.saveProducts(ctx, products); err != nil {
		return nil, err
	}

	created := normalize(product)
	return &created, nil
}

// UpdateProduct replaces every field of the product with the given id,
// preserving the id. An unknown id is a silent no-op.
func (s *Store) UpdateProduct(ctx context.Context, id string, product models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return err
	}

	for i := range products {
		if products[i].ID == id {
			product.ID = id
			products[i] = product
			return s.saveProducts(ctx, products)
		}
	}
	return nil
}

// RemoveProduct deletes the product with the given id. An unknown id is a
// silent no-op. Historical sales keep their own name/price snapshots, so
// nothing cascades.
func (s *Store) RemoveProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.loadProducts(ctx)
	if err != nil {
		return err
	}

	kept := products[:0]
	removed := false
	for _, p := range products {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}

	if !removed {
		return nil
	}
	return s.saveProducts(ctx, kept)
}
