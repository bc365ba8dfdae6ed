package models

import "time"

// Product categories
const (
	CategoryStationaries = "stationaries"
	CategoryAccessories  = "accessories"
	CategoryTools        = "tools"
	CategoryGames        = "games"
)

// Categories lists every valid product category.
var Categories = []string{
	CategoryStationaries,
	CategoryAccessories,
	CategoryTools,
	CategoryGames,
}

// Product represents a catalog entry. JSON tags match the persisted
// pos_products record layout.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	BuyingPrice  *float64 `json:"buyingPrice,omitempty"`
	SellingPrice *float64 `json:"sellingPrice,omitempty"`
	Stock        int      `json:"stock"`
	Category     string   `json:"category"`
}

// IsService reports whether the product is sold as a service. Services
// (the games category) carry no stock: checkout never decrements them and
// their stock is always reported as zero.
func (p *Product) IsService() bool {
	return p.Category == CategoryGames
}

// ValidCategory reports whether c is a known product category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SaleItem is a line in a recorded sale. Name and price are snapshots taken
// at sale time so later catalog edits never rewrite history; the product
// reference is not enforced at write time.
type SaleItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Sale is one completed transaction. Immutable once recorded. Total always
// equals the sum of item price times quantity. The timestamp is persisted
// as RFC 3339 text in the pos_sales record.
type Sale struct {
	ID        string     `json:"id"`
	Items     []SaleItem `json:"items"`
	Total     float64    `json:"total"`
	Timestamp time.Time  `json:"timestamp"`
}
