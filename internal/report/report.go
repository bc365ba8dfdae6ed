// Package report derives read-only dashboard and report views from the
// ledger. Nothing is cached: every call re-reads the full sale history and
// catalog, which is cheap at the volumes a single register produces.
package report

import (
	"context"
	"sort"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
)

const topProductsLimit = 5

const (
	dayKeyFormat   = "2006-01-02"
	monthKeyFormat = "2006-01"
)

// Aggregator computes report views from a ledger.
type Aggregator struct {
	store             *store.Store
	lowStockThreshold int
	now               func() time.Time
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(st *store.Store, lowStockThreshold int) *Aggregator {
	return &Aggregator{
		store:             st,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// Summary holds the dashboard rollups: fixed trailing windows plus
// all-time and today's figures.
type Summary struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalSales     int     `json:"totalSales"`
	TotalProducts  int     `json:"totalProducts"`
	TodayRevenue   float64 `json:"todayRevenue"`
	TodaySales     int     `json:"todaySales"`
	WeeklyRevenue  float64 `json:"weeklyRevenue"`
	WeeklySales    int     `json:"weeklySales"`
	MonthlyRevenue float64 `json:"monthlyRevenue"`
	MonthlySales   int     `json:"monthlySales"`
}

// Summary computes revenue/count rollups over the trailing 7 and 30 days,
// all time, and the current calendar day.
func (a *Aggregator) Summary(ctx context.Context) (*Summary, error) {
	sales, err := a.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	products, err := a.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	now := a.now()
	weekAgo := now.Add(-7 * 24 * time.Hour)
	monthAgo := now.Add(-30 * 24 * time.Hour)

	summary := &Summary{TotalProducts: len(products)}
	for _, sale := range sales {
		summary.TotalRevenue += sale.Total
		summary.TotalSales++

		if sameDay(sale.Timestamp, now) {
			summary.TodayRevenue += sale.Total
			summary.TodaySales++
		}
		if !sale.Timestamp.Before(weekAgo) {
			summary.WeeklyRevenue += sale.Total
			summary.WeeklySales++
		}
		if !sale.Timestamp.Before(monthAgo) {
			summary.MonthlyRevenue += sale.Total
			summary.MonthlySales++
		}
	}
	return summary, nil
}

// ProductRank is one row of the top-products report.
type ProductRank struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// TopProducts aggregates quantity and revenue per product over the
// trailing 7 days and returns the top 5 by quantity. The sort is stable:
// ties keep the order in which a product was first encountered in the
// ledger.
func (a *Aggregator) TopProducts(ctx context.Context) ([]ProductRank, error) {
	sales, err := a.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	weekAgo := a.now().Add(-7 * 24 * time.Hour)

	byProduct := make(map[string]*ProductRank)
	var order []string

	for _, sale := range sales {
		if sale.Timestamp.Before(weekAgo) {
			continue
		}
		for _, item := range sale.Items {
			rank, ok := byProduct[item.ProductID]
			if !ok {
				rank = &ProductRank{ProductID: item.ProductID, Name: item.ProductName}
				byProduct[item.ProductID] = rank
				order = append(order, item.ProductID)
			}
			rank.Quantity += item.Quantity
			rank.Revenue += float64(item.Quantity) * item.Price
		}
	}

	ranks := make([]ProductRank, 0, len(order))
	for _, id := range order {
		ranks = append(ranks, *byProduct[id])
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Quantity > ranks[j].Quantity
	})

	if len(ranks) > topProductsLimit {
		ranks = ranks[:topProductsLimit]
	}
	return ranks, nil
}

// DayRevenue is one zero-seeded per-day revenue bucket.
type DayRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// DailyRevenue buckets revenue per calendar date over the trailing 7 days.
// Every day in the range appears, with zero revenue for days without
// sales.
func (a *Aggregator) DailyRevenue(ctx context.Context) ([]DayRevenue, error) {
	now := a.now()
	start := now.AddDate(0, 0, -6)
	return a.dayBuckets(ctx, start, now)
}

// MonthDailyRevenue buckets revenue per calendar date over the current
// month, from day 1 to the last day, zero-seeded.
func (a *Aggregator) MonthDailyRevenue(ctx context.Context) ([]DayRevenue, error) {
	now := a.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return a.dayBuckets(ctx, first, last)
}

// dayBuckets seeds one bucket per calendar day in [start, end] and adds
// each sale whose date falls on a seeded day.
func (a *Aggregator) dayBuckets(ctx context.Context, start, end time.Time) ([]DayRevenue, error) {
	sales, err := a.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	var buckets []DayRevenue
	index := make(map[string]int)
	for d := dateOf(start); !d.After(dateOf(end)); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayKeyFormat)
		index[key] = len(buckets)
		buckets = append(buckets, DayRevenue{Date: key})
	}

	for _, sale := range sales {
		key := sale.Timestamp.Format(dayKeyFormat)
		if i, ok := index[key]; ok {
			buckets[i].Revenue += sale.Total
		}
	}
	return buckets, nil
}

// MonthRevenue is one per-month bucket across all recorded history.
type MonthRevenue struct {
	Month   string  `json:"month"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}

// MonthlyRevenue buckets sale count and revenue by year-month over the
// whole ledger, in ascending month order. Only months with sales appear.
func (a *Aggregator) MonthlyRevenue(ctx context.Context) ([]MonthRevenue, error) {
	sales, err := a.store.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthRevenue)
	for _, sale := range sales {
		key := sale.Timestamp.Format(monthKeyFormat)
		bucket, ok := byMonth[key]
		if !ok {
			bucket = &MonthRevenue{Month: key}
			byMonth[key] = bucket
		}
		bucket.Sales++
		bucket.Revenue += sale.Total
	}

	months := make([]MonthRevenue, 0, len(byMonth))
	for _, bucket := range byMonth {
		months = append(months, *bucket)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})
	return months, nil
}

// LowStock returns non-service products at or below the configured stock
// threshold, in catalog order.
func (a *Aggregator) LowStock(ctx context.Context) ([]models.Product, error) {
	products, err := a.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]models.Product, 0)
	for _, p := range products {
		if !p.IsService() && p.Stock <= a.lowStockThreshold {
			low = append(low, p)
		}
	}
	return low, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
