package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_recorded_total",
		Help: "Total number of sales recorded",
	})

	SalesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sales_failed_total",
		Help: "Total number of failed checkout attempts",
	}, []string{"reason"})

	SaleRevenueTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sale_revenue_total",
		Help: "Cumulative revenue of recorded sales",
	})

	ItemsSoldTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_items_sold_total",
		Help: "Total quantity of items sold across all sales",
	})

	CheckoutLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_checkout_latency_seconds",
		Help:    "Latency of checkout operations",
		Buckets: prometheus.DefBuckets,
	})

	ProductsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_products_created_total",
		Help: "Total number of products added to the catalog",
	})

	ProductsUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_products_updated_total",
		Help: "Total number of product updates",
	})

	ProductsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_products_removed_total",
		Help: "Total number of products removed from the catalog",
	})

	LowStockProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pos_low_stock_products",
		Help: "Number of products at or below the low-stock threshold",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
