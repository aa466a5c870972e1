package models

import (
	"errors"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestNewProduct_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 123456789, time.FixedZone("X", 3600))
	p := NewProduct(ProductFields{
		Name:     ptr("  Phone "),
		Category: ptr("Mobile"),
		Price:    ptr(199.5),
	}, now)

	if p.Name != "Phone" {
		t.Errorf("expected trimmed name 'Phone', got %q", p.Name)
	}
	if p.SKU != DefaultSKU {
		t.Errorf("expected sku %q, got %q", DefaultSKU, p.SKU)
	}
	if p.Description != DefaultDescription {
		t.Errorf("expected description %q, got %q", DefaultDescription, p.Description)
	}
	if p.MinStock != DefaultMinStock {
		t.Errorf("expected minStock %d, got %d", DefaultMinStock, p.MinStock)
	}
	if p.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", p.Quantity)
	}
	want := time.Date(2025, 3, 1, 9, 0, 0, 123000000, time.UTC)
	if !p.CreatedAt.Equal(want) || p.CreatedAt.Location() != time.UTC {
		t.Errorf("expected createdAt %v, got %v", want, p.CreatedAt)
	}
	if !p.UpdatedAt.Equal(p.CreatedAt) {
		t.Errorf("expected updatedAt == createdAt, got %v and %v", p.UpdatedAt, p.CreatedAt)
	}
}

func TestApply_PartialUpdateKeepsOtherFields(t *testing.T) {
	p := NewProduct(ProductFields{
		Name:        ptr("Laptop"),
		SKU:         ptr("LP-1"),
		Category:    ptr("Laptop"),
		Quantity:    ptr(7),
		Price:       ptr(1200.0),
		Description: ptr("14 inch"),
		MinStock:    ptr(2),
	}, time.Now())
	before := p

	p.Apply(ProductFields{Quantity: ptr(2)})

	if p.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", p.Quantity)
	}
	before.Quantity = 2
	if p != before {
		t.Errorf("expected only quantity to change, got %+v", p)
	}
}

func TestApply_BlankSKUFallsBackToPlaceholder(t *testing.T) {
	p := Product{SKU: "LP-1"}
	p.Apply(ProductFields{SKU: ptr("   ")})
	if p.SKU != DefaultSKU {
		t.Errorf("expected sku %q, got %q", DefaultSKU, p.SKU)
	}
}

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		minStock int
		want     bool
	}{
		{"below", 1, 5, true},
		{"equal", 5, 5, true},
		{"above", 6, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Quantity: tt.quantity, MinStock: tt.minStock}
			if got := p.IsLowStock(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestValidateProduct(t *testing.T) {
	valid := NewProduct(ProductFields{
		Name:     ptr("Cable"),
		Category: ptr("Parts"),
		Quantity: ptr(3),
		Price:    ptr(4.5),
	}, time.Now())

	if err := ValidateProduct(valid); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}

	tests := []struct {
		name           string
		mutate         func(p *Product)
		expectedFields []string
	}{
		{"empty name", func(p *Product) { p.Name = "" }, []string{"name"}},
		{"empty category", func(p *Product) { p.Category = "" }, []string{"category"}},
		{"empty description", func(p *Product) { p.Description = "" }, []string{"description"}},
		{"negative quantity", func(p *Product) { p.Quantity = -1 }, []string{"quantity"}},
		{"negative price", func(p *Product) { p.Price = -0.01 }, []string{"price"}},
		{"negative minStock", func(p *Product) { p.MinStock = -3 }, []string{"minStock"}},
		{"several", func(p *Product) { p.Name = ""; p.Price = -1 }, []string{"name", "price"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)

			err := ValidateProduct(p)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Fields) != len(tt.expectedFields) {
				t.Fatalf("expected %d field errors, got %+v", len(tt.expectedFields), verr.Fields)
			}
			for _, field := range tt.expectedFields {
				found := false
				for _, fe := range verr.Fields {
					if fe.Field == field {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, got %+v", field, verr.Fields)
				}
			}
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	err := ValidateProduct(Product{SKU: DefaultSKU, Category: "Parts", Description: "x"})
	want := "Product validation failed: name: Please add a name"
	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
}
