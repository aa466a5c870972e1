package models

import (
	"strings"
	"time"
)

const (
	DefaultSKU         = "SKU-000"
	DefaultDescription = "No description"
	DefaultMinStock    = 5
)

// Product represents a product entity in the inventory system.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	SKU         string    `json:"sku" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gte=0"`
	Price       float64   `json:"price" validate:"gte=0"`
	Description string    `json:"description" validate:"required"`
	MinStock    int       `json:"minStock" validate:"gte=0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductFields carries a partial set of product attributes. A nil field was not supplied.
type ProductFields struct {
	Name        *string  `json:"name,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	MinStock    *int     `json:"minStock,omitempty"`
}

// IsLowStock reports whether the quantity has reached the minimum stock threshold.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}

// NewProduct builds a product from the supplied fields, filling in store defaults.
// The result is not validated.
func NewProduct(f ProductFields, now time.Time) Product {
	p := Product{
		SKU:         DefaultSKU,
		Description: DefaultDescription,
		MinStock:    DefaultMinStock,
	}
	p.Apply(f)
	ts := Timestamp(now)
	p.CreatedAt = ts
	p.UpdatedAt = ts
	return p
}

// Apply merges the non-nil fields into p, trimming string values. A blank SKU falls back
// to the placeholder.
func (p *Product) Apply(f ProductFields) {
	if f.Name != nil {
		p.Name = strings.TrimSpace(*f.Name)
	}
	if f.SKU != nil {
		p.SKU = strings.TrimSpace(*f.SKU)
		if p.SKU == "" {
			p.SKU = DefaultSKU
		}
	}
	if f.Category != nil {
		p.Category = strings.TrimSpace(*f.Category)
	}
	if f.Quantity != nil {
		p.Quantity = *f.Quantity
	}
	if f.Price != nil {
		p.Price = *f.Price
	}
	if f.Description != nil {
		p.Description = strings.TrimSpace(*f.Description)
	}
	if f.MinStock != nil {
		p.MinStock = *f.MinStock
	}
}

// Touch sets the modification timestamp.
func (p *Product) Touch(now time.Time) {
	p.UpdatedAt = Timestamp(now)
}

// Timestamp normalizes t to the precision every store keeps (UTC milliseconds).
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
