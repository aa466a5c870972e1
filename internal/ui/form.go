package ui

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/inventory-flow/internal/models"
)

var Categories = []string{"Mobile", "Laptop", "Accessories", "Parts"}

// ProductForm holds the modal's raw input values.
type ProductForm struct {
	ID          string
	Name        string
	SKU         string
	Category    string
	Price       string
	Quantity    string
	MinStock    string
	Description string
}

func NewProductForm() ProductForm {
	return ProductForm{Category: Categories[0], MinStock: strconv.Itoa(models.DefaultMinStock)}
}

func FormFromProduct(p models.Product) ProductForm {
	return ProductForm{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Quantity:    strconv.Itoa(p.Quantity),
		MinStock:    strconv.Itoa(p.MinStock),
		Description: p.Description,
	}
}

func FormFromRequest(r *http.Request) (ProductForm, error) {
	if err := r.ParseForm(); err != nil {
		return ProductForm{}, fmt.Errorf("parse form: %w", err)
	}
	return ProductForm{
		Name:        r.PostForm.Get("name"),
		SKU:         r.PostForm.Get("sku"),
		Category:    r.PostForm.Get("category"),
		Price:       r.PostForm.Get("price"),
		Quantity:    r.PostForm.Get("quantity"),
		MinStock:    r.PostForm.Get("minStock"),
		Description: r.PostForm.Get("description"),
	}, nil
}

func (f ProductForm) Editing() bool { return f.ID != "" }

// Fields converts the form into an API payload. Every attribute is sent;
// blank numbers become 0.
func (f ProductForm) Fields() (models.ProductFields, error) {
	price, err := number("price", f.Price)
	if err != nil {
		return models.ProductFields{}, err
	}
	quantity, err := wholeNumber("quantity", f.Quantity)
	if err != nil {
		return models.ProductFields{}, err
	}
	minStock, err := wholeNumber("minStock", f.MinStock)
	if err != nil {
		return models.ProductFields{}, err
	}

	name, sku, category, description := f.Name, f.SKU, f.Category, f.Description
	return models.ProductFields{
		Name:        &name,
		SKU:         &sku,
		Category:    &category,
		Quantity:    &quantity,
		Price:       &price,
		Description: &description,
		MinStock:    &minStock,
	}, nil
}

func number(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	return v, nil
}

func wholeNumber(field, raw string) (int, error) {
	v, err := number(field, raw)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%s must be a whole number", field)
	}
	return int(v), nil
}
