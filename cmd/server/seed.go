package main

import "pos-service/internal/models"

// defaultCatalog is the sample catalog seeded on first start, when no
// pos_products record has ever been persisted. The store carries no sample
// data of its own.
func defaultCatalog() []models.Product {
	return []models.Product{
		{ID: "1", Name: "Pen", Price: 1.50, BuyingPrice: f(0.80), SellingPrice: f(1.50), Stock: 50, Category: models.CategoryStationaries},
		{ID: "2", Name: "Notebook", Price: 3.20, BuyingPrice: f(2.00), SellingPrice: f(3.20), Stock: 25, Category: models.CategoryStationaries},
		{ID: "3", Name: "Phone Case", Price: 15.99, BuyingPrice: f(10.00), SellingPrice: f(15.99), Stock: 12, Category: models.CategoryAccessories},
		{ID: "4", Name: "Hammer", Price: 22.50, BuyingPrice: f(15.00), SellingPrice: f(22.50), Stock: 8, Category: models.CategoryTools},
		{ID: "5", Name: "Screwdriver Set", Price: 18.75, BuyingPrice: f(12.00), SellingPrice: f(18.75), Stock: 15, Category: models.CategoryTools},
		{ID: "6", Name: "Chess Tournament", Price: 29.99, Stock: 0, Category: models.CategoryGames},
	}
}

func f(v float64) *float64 {
	return &v
}
