package worker

import (
	"context"
	"log"
	"time"

	"pos-service/internal/broker"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// LowStockWorker periodically scans the catalog and flags non-service
// products at or below the configured threshold: a warn log, the low-stock
// gauge, and a LowStock event when a publisher is configured.
type LowStockWorker struct {
	store     *store.Store
	publisher *broker.EventPublisher // nil when Kafka is not configured
	threshold int
	interval  time.Duration
	logger    *zap.Logger
	quit      chan struct{}
}

// NewLowStockWorker creates a new low-stock worker
func NewLowStockWorker(
	st *store.Store,
	publisher *broker.EventPublisher,
	threshold int,
	interval time.Duration,
) *LowStockWorker {
	return &LowStockWorker{
		store:     st,
		publisher: publisher,
		threshold: threshold,
		interval:  interval,
		logger:    util.GetLogger(),
		quit:      make(chan struct{}),
	}
}

// Start runs the scan loop until the context is cancelled or Stop is
// called. One scan runs immediately on start.
func (w *LowStockWorker) Start(ctx context.Context) error {
	log.Println("Starting low-stock worker...")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.quit:
			return nil
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// Stop stops the worker
func (w *LowStockWorker) Stop() error {
	log.Println("Stopping low-stock worker...")
	close(w.quit)
	return nil
}

func (w *LowStockWorker) scan(ctx context.Context) {
	products, err := w.store.ListProducts(ctx)
	if err != nil {
		w.logger.Error("Low-stock scan failed", zap.Error(err))
		return
	}

	low := 0
	for i := range products {
		p := products[i]
		if p.IsService() || p.Stock > w.threshold {
			continue
		}
		low++

		w.logger.Warn("Product low on stock",
			zap.String("product_id", p.ID),
			zap.String("name", p.Name),
			zap.Int("stock", p.Stock))

		if w.publisher != nil {
			if err := w.publisher.PublishLowStock(ctx, &p); err != nil {
				w.logger.Error("Failed to publish LowStock event", zap.Error(err))
			}
		}
	}

	util.LowStockProducts.Set(float64(low))
}
