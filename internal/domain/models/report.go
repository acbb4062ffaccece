package models

import "time"

// StockReport is the daily inventory digest produced by the reporting service.
type StockReport struct {
	Date       time.Time `json:"date"`
	TotalCount int       `json:"total_count"`
	TotalValue float64   `json:"total_value"`
	LowStock   []string  `json:"low_stock"`
	Summary    string    `json:"summary"`

	// FromFallback is set when the backend was unreachable and the figures
	// describe fallback data.
	FromFallback bool `json:"from_fallback"`

	Products []Product `json:"-"`
}

// InventorySnapshot is a point-in-time copy of the product list stored in MongoDB.
type InventorySnapshot struct {
	TakenAt       time.Time `bson:"taken_at" json:"taken_at"`
	Products      []Product `bson:"products" json:"products"`
	TotalCount    int       `bson:"total_count" json:"total_count"`
	TotalValue    float64   `bson:"total_value" json:"total_value"`
	LowStockCount int       `bson:"low_stock_count" json:"low_stock_count"`
}
