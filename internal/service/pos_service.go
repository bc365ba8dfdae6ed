package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ValidationError reports caller-supplied data that fails a required-field
// or range check. Validation happens here, before the store is touched;
// the store itself trusts its input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// POSService orchestrates catalog management and checkout on top of the
// ledger store.
type POSService struct {
	store     *store.Store
	publisher *broker.EventPublisher // nil when Kafka is not configured
	logger    *zap.Logger
}

// NewPOSService creates a new POS service
func NewPOSService(st *store.Store, publisher *broker.EventPublisher) *POSService {
	return &POSService{
		store:     st,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// ProductRequest carries the caller-supplied fields of a product, for both
// create and update.
type ProductRequest struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	BuyingPrice  *float64 `json:"buyingPrice,omitempty"`
	SellingPrice *float64 `json:"sellingPrice,omitempty"`
	Stock        int      `json:"stock"`
	Category     string   `json:"category"`
}

func validateProduct(req *ProductRequest) error {
	if req.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if req.Price <= 0 {
		return &ValidationError{Field: "price", Message: "price must be greater than zero"}
	}
	if !models.ValidCategory(req.Category) {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", req.Category)}
	}
	if req.Category != models.CategoryGames && req.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "stock must not be negative"}
	}
	return nil
}

func (req *ProductRequest) toProduct() models.Product {
	return models.Product{
		Name:         req.Name,
		Price:        req.Price,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
		Stock:        req.Stock,
		Category:     req.Category,
	}
}

// ListProducts returns the full catalog.
func (s *POSService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// CreateProduct validates and adds a new product to the catalog.
func (s *POSService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product, err := s.store.AddProduct(ctx, req.toProduct())
	if err != nil {
		return nil, err
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.String("product_id", product.ID),
		zap.String("name", product.Name))
	return product, nil
}

// UpdateProduct validates and replaces the product with the given id. An
// unknown id leaves the catalog untouched.
func (s *POSService) UpdateProduct(ctx context.Context, id string, req *ProductRequest) error {
	if err := validateProduct(req); err != nil {
		return err
	}

	if err := s.store.UpdateProduct(ctx, id, req.toProduct()); err != nil {
		return err
	}

	util.ProductsUpdatedTotal.Inc()
	return nil
}

// DeleteProduct removes the product with the given id. Unknown ids are a
// no-op, mirroring the store.
func (s *POSService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.RemoveProduct(ctx, id); err != nil {
		return err
	}

	util.ProductsRemovedTotal.Inc()
	return nil
}

// CheckoutItem is one cart line by product reference.
type CheckoutItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest represents a cart to be recorded as a sale.
type CheckoutRequest struct {
	Items []CheckoutItem `json:"items" binding:"required,min=1"`
}

// Checkout validates the cart, snapshots the current product name and
// price into sale items and records the sale. Stock availability is
// checked here; the store itself only clamps.
func (s *POSService) Checkout(ctx context.Context, req *CheckoutRequest) (*models.Sale, error) {
	ctx, span := util.StartSpan(ctx, "POSService.Checkout")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CheckoutLatency.Observe(time.Since(start).Seconds())
	}()

	if len(req.Items) == 0 {
		util.SalesFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, &ValidationError{Field: "items", Message: "cart is empty"}
	}

	items := make([]models.SaleItem, 0, len(req.Items))
	requested := make(map[string]int)
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			util.SalesFailedTotal.WithLabelValues("invalid_quantity").Inc()
			return nil, &ValidationError{Field: "quantity", Message: "quantity must be greater than zero"}
		}

		product, err := s.store.GetProduct(ctx, item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			util.SalesFailedTotal.WithLabelValues("unknown_product").Inc()
			return nil, &ValidationError{Field: "productId", Message: fmt.Sprintf("unknown product %q", item.ProductID)}
		}
		if err != nil {
			util.SalesFailedTotal.WithLabelValues("persistence_error").Inc()
			return nil, err
		}

		requested[product.ID] += item.Quantity
		if !product.IsService() && requested[product.ID] > product.Stock {
			util.SalesFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, &ValidationError{
				Field:   "quantity",
				Message: fmt.Sprintf("only %d %s(s) available", product.Stock, product.Name),
			}
		}

		items = append(items, models.SaleItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Price:       product.Price,
		})
	}

	sale, err := s.store.RecordSale(ctx, items)
	if err != nil {
		util.SalesFailedTotal.WithLabelValues("persistence_error").Inc()
		return nil, err
	}

	util.SalesRecordedTotal.Inc()
	util.SaleRevenueTotal.Add(sale.Total)
	for _, item := range sale.Items {
		util.ItemsSoldTotal.Add(float64(item.Quantity))
	}

	s.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID),
		zap.Float64("total", sale.Total),
		zap.Int("items", len(sale.Items)))

	if s.publisher != nil {
		if err := s.publisher.PublishSaleRecorded(ctx, sale); err != nil {
			s.logger.Error("Failed to publish SaleRecorded event", zap.Error(err))
		}
	}

	return sale, nil
}

// ListSales returns the full sale history.
func (s *POSService) ListSales(ctx context.Context) ([]models.Sale, error) {
	return s.store.ListSales(ctx)
}

// ClearSales wipes the sale history.
func (s *POSService) ClearSales(ctx context.Context) error {
	if err := s.store.ClearSales(ctx); err != nil {
		return err
	}

	s.logger.Warn("Sale history cleared")
	return nil
}
