package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"pos-service/internal/kv"
	"pos-service/internal/models"
)

// Persisted record names
const (
	productsKey = "pos_products"
	salesKey    = "pos_sales"
)

// Store is the inventory and sales ledger. It is constructed once at
// startup and injected into every consumer; all access to the persisted
// records goes through it.
//
// A single mutex serializes every read-modify-write cycle. Concurrent
// checkouts therefore cannot lose stock updates, but the semantics inside
// the critical section are unchanged: stock still clamps at zero and the
// store still trusts its callers to validate input.
type Store struct {
	kv kv.Store

	mu     sync.Mutex
	now    func() time.Time
	lastID int64
}

// NewStore creates a ledger on top of the given key-value backend.
func NewStore(backend kv.Store) *Store {
	return &Store{
		kv:  backend,
		now: time.Now,
	}
}

// Close releases the backend. Every mutation is persisted synchronously,
// so there is nothing to flush.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Initialize seeds the catalog with the given products if no catalog has
// ever been persisted. Called once by the application bootstrap; the store
// itself carries no embedded sample data.
func (s *Store) Initialize(ctx context.Context, seed []models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.kv.Get(ctx, productsKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return &PersistenceError{Op: "read catalog", Err: err}
	}

	return s.saveProducts(ctx, seed)
}

// newID returns a time-derived id. The caller must hold s.mu; the bump
// keeps ids unique and monotonic when two writes land in the same
// millisecond.
func (s *Store) newID() string {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// loadProducts reads the raw catalog. A missing record is an empty catalog.
func (s *Store) loadProducts(ctx context.Context) ([]models.Product, error) {
	data, err := s.kv.Get(ctx, productsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read catalog", Err: err}
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, &PersistenceError{Op: "decode catalog", Err: err}
	}
	return products, nil
}

func (s *Store) saveProducts(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return &PersistenceError{Op: "encode catalog", Err: err}
	}
	if err := s.kv.Set(ctx, productsKey, data); err != nil {
		return &PersistenceError{Op: "write catalog", Err: err}
	}
	return nil
}

// loadSales reads the ledger. Timestamps come back as time.Time from their
// RFC 3339 text form. A missing record is an empty ledger.
func (s *Store) loadSales(ctx context.Context) ([]models.Sale, error) {
	data, err := s.kv.Get(ctx, salesKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "read sales", Err: err}
	}

	var sales []models.Sale
	if err := json.Unmarshal(data, &sales); err != nil {
		return nil, &PersistenceError{Op: "decode sales", Err: err}
	}
	return sales, nil
}

func (s *Store) saveSales(ctx context.Context, sales []models.Sale) error {
	data, err := json.Marshal(sales)
	if err != nil {
		return &PersistenceError{Op: "encode sales", Err: err}
	}
	if err := s.kv.Set(ctx, salesKey, data); err != nil {
		return &PersistenceError{Op: "write sales", Err: err}
	}
	return nil
}
