package models

import "github.com/shopspring/decimal"

// Summary aggregates inventory-wide figures for a list of products.
type Summary struct {
	TotalValue    float64 `json:"totalValue"`
	TotalProducts int     `json:"totalProducts"`
	LowStockCount int     `json:"lowStockCount"`
}

// TotalValue returns the sum of price × quantity over products.
func TotalValue(products []Product) float64 {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total.InexactFloat64()
}

// LowStockCount returns how many products are at or below their minimum stock.
func LowStockCount(products []Product) int {
	n := 0
	for _, p := range products {
		if p.IsLowStock() {
			n++
		}
	}
	return n
}

func Summarize(products []Product) Summary {
	return Summary{
		TotalValue:    TotalValue(products),
		TotalProducts: len(products),
		LowStockCount: LowStockCount(products),
	}
}
