package models

import "strconv"

// DefaultMinStock is the reorder threshold applied when none is supplied.
const DefaultMinStock = 5

// Product is an inventory item as served by the backend.
type Product struct {
	ID       int     `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
	MinStock int     `json:"minStock" bson:"min_stock"`
}

// LowStock reports whether the product is at or below its reorder threshold.
func (p Product) LowStock() bool {
	return p.Quantity <= p.MinStock
}

// Value is the stock value of the product (quantity times unit price).
func (p Product) Value() float64 {
	return float64(p.Quantity) * p.Price
}

// ProductInput is the body sent to create or replace a product.
type ProductInput struct {
	Name     string  `json:"name" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	MinStock int     `json:"minStock" validate:"gte=0"`
}

// Input returns the writable fields of the product.
func (p Product) Input() ProductInput {
	return ProductInput{Name: p.Name, Quantity: p.Quantity, Price: p.Price, MinStock: p.MinStock}
}

// DraftForm holds the raw text of an add/edit form before it is parsed.
type DraftForm struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	MinStock string `json:"minStock"`
}

// DraftFromProduct fills a form with the product's current values.
func DraftFromProduct(p Product) DraftForm {
	return DraftForm{
		Name:     p.Name,
		Quantity: strconv.Itoa(p.Quantity),
		Price:    strconv.FormatFloat(p.Price, 'f', -1, 64),
		MinStock: strconv.Itoa(p.MinStock),
	}
}

// InventoryStats are the aggregates shown on the summary cards.
type InventoryStats struct {
	TotalCount int       `json:"totalCount"`
	TotalValue float64   `json:"totalValue"`
	LowStock   []Product `json:"lowStock"`
}
