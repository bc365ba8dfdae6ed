package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos-service/internal/kv"
	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(kv.NewMemory())
}

func seedCatalog() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Pen", Price: 1.50, Stock: 50, Category: models.CategoryStationaries},
		{ID: "2", Name: "Hammer", Price: 22.50, Stock: 8, Category: models.CategoryTools},
		{ID: "3", Name: "Chess Tournament", Price: 29.99, Stock: 0, Category: models.CategoryGames},
	}
}

func TestInitializeSeedsOnce(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()

	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	products, err := st.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Pen", products[0].Name)

	// A second initialize must not overwrite the persisted catalog.
	require.NoError(t, st.RemoveProduct(ctx, "1"))
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	products, err = st.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestAddProductAssignsUniqueIDsInOrder(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, nil))

	names := []string{"Pen", "Notebook", "Ruler"}
	seen := make(map[string]bool)
	for _, name := range names {
		created, err := st.AddProduct(ctx, models.Product{
			Name:     name,
			Price:    2.0,
			Stock:    10,
			Category: models.CategoryStationaries,
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, seen[created.ID], "duplicate id %s", created.ID)
		seen[created.ID] = true
	}

	products, err := st.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i, name := range names {
		assert.Equal(t, name, products[i].Name)
	}
}

func TestIDsMonotonicWithinMillisecond(t *testing.T) {
	st := newTestStore()
	st.now = func() time.Time { return time.UnixMilli(1700000000000) }
	ctx := context.Background()

	first, err := st.AddProduct(ctx, models.Product{Name: "A", Price: 1, Category: models.CategoryTools})
	require.NoError(t, err)
	second, err := st.AddProduct(ctx, models.Product{Name: "B", Price: 1, Category: models.CategoryTools})
	require.NoError(t, err)

	assert.Equal(t, "1700000000000", first.ID)
	assert.Equal(t, "1700000000001", second.ID)
}

func TestUpdateProductReplacesFieldsKeepsID(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	err := st.UpdateProduct(ctx, "1", models.Product{
		Name:     "Gel Pen",
		Price:    2.25,
		Stock:    40,
		Category: models.CategoryStationaries,
	})
	require.NoError(t, err)

	p, err := st.GetProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)
	assert.Equal(t, "Gel Pen", p.Name)
	assert.Equal(t, 2.25, p.Price)
	assert.Equal(t, 40, p.Stock)
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	err := st.UpdateProduct(ctx, "missing", models.Product{Name: "X", Price: 1, Category: models.CategoryTools})
	require.NoError(t, err)

	products, err := st.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)
	for _, p := range products {
		assert.NotEqual(t, "X", p.Name)
	}
}

func TestRemoveProduct(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	require.NoError(t, st.RemoveProduct(ctx, "2"))

	products, err := st.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.NotEqual(t, "2", p.ID)
	}

	// Removing a nonexistent id is a no-op.
	require.NoError(t, st.RemoveProduct(ctx, "missing"))
	products, err = st.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestGetProductNotFound(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	_, err := st.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordSaleDecrementsStockAndTotals(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	sale, err := st.RecordSale(ctx, []models.SaleItem{
		{ProductID: "1", ProductName: "Pen", Quantity: 3, Price: 1.50},
	})
	require.NoError(t, err)

	assert.InDelta(t, 4.50, sale.Total, 1e-9)
	assert.NotEmpty(t, sale.ID)
	assert.False(t, sale.Timestamp.IsZero())

	p, err := st.GetProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 47, p.Stock)
}

func TestRecordSaleClampsStockAtZero(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	sale, err := st.RecordSale(ctx, []models.SaleItem{
		{ProductID: "2", ProductName: "Hammer", Quantity: 20, Price: 22.50},
	})
	require.NoError(t, err)
	assert.InDelta(t, 450.0, sale.Total, 1e-9)

	p, err := st.GetProduct(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestRecordSaleNeverDecrementsServices(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	sale, err := st.RecordSale(ctx, []models.SaleItem{
		{ProductID: "3", ProductName: "Chess Tournament", Quantity: 2, Price: 29.99},
	})
	require.NoError(t, err)
	assert.InDelta(t, 59.98, sale.Total, 1e-9)

	p, err := st.GetProduct(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestServiceStockAlwaysReportedZero(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, []models.Product{
		{ID: "9", Name: "Tournament", Price: 10, Stock: 7, Category: models.CategoryGames},
	}))

	products, err := st.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 0, products[0].Stock)

	p, err := st.GetProduct(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestRecordSaleUnknownProductStillRecorded(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	// The ledger does not enforce the product reference at write time.
	sale, err := st.RecordSale(ctx, []models.SaleItem{
		{ProductID: "gone", ProductName: "Discontinued", Quantity: 1, Price: 9.99},
	})
	require.NoError(t, err)
	assert.InDelta(t, 9.99, sale.Total, 1e-9)

	sales, err := st.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestListSalesInsertionOrderAndTimestamps(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		tick := base.Add(time.Duration(i) * time.Hour)
		st.now = func() time.Time { return tick }
		_, err := st.RecordSale(ctx, []models.SaleItem{
			{ProductID: "1", ProductName: "Pen", Quantity: 1, Price: 1.50},
		})
		require.NoError(t, err)
	}

	sales, err := st.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 3)
	for i := 1; i < len(sales); i++ {
		assert.True(t, sales[i].Timestamp.After(sales[i-1].Timestamp))
	}
	// Timestamps survive the RFC 3339 round trip through the backend.
	assert.True(t, sales[0].Timestamp.Equal(base))
}

func TestClearSalesKeepsCatalog(t *testing.T) {
	st := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Initialize(ctx, seedCatalog()))

	_, err := st.RecordSale(ctx, []models.SaleItem{
		{ProductID: "1", ProductName: "Pen", Quantity: 1, Price: 1.50},
	})
	require.NoError(t, err)

	require.NoError(t, st.ClearSales(ctx))

	sales, err := st.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)

	products, err := st.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

func TestStateSurvivesStoreRestart(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	first := NewStore(backend)
	require.NoError(t, first.Initialize(ctx, seedCatalog()))
	_, err := first.RecordSale(ctx, []models.SaleItem{
		{ProductID: "1", ProductName: "Pen", Quantity: 5, Price: 1.50},
	})
	require.NoError(t, err)

	// A new store over the same backend sees the same state.
	second := NewStore(backend)
	products, err := second.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, 45, products[0].Stock)

	sales, err := second.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

// failingKV fails every operation, for exercising PersistenceError paths.
type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("backend down") }
func (failingKV) Set(context.Context, string, []byte) error   { return errors.New("backend down") }
func (failingKV) Delete(context.Context, string) error        { return errors.New("backend down") }
func (failingKV) Close() error                                { return nil }

func TestBackendFailureSurfacesPersistenceError(t *testing.T) {
	st := NewStore(failingKV{})
	ctx := context.Background()

	_, err := st.ListProducts(ctx)
	require.Error(t, err)
	assert.True(t, IsPersistence(err))

	_, err = st.RecordSale(ctx, []models.SaleItem{
		{ProductID: "1", ProductName: "Pen", Quantity: 1, Price: 1.50},
	})
	require.Error(t, err)
	assert.True(t, IsPersistence(err))
}

func TestMalformedDataSurfacesPersistenceError(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, productsKey, []byte("not json")))

	st := NewStore(backend)
	_, err := st.ListProducts(ctx)
	require.Error(t, err)
	assert.True(t, IsPersistence(err))
}
