package handlers

import models "github.com/rogerio-castellano/inventory-flow/internal/models"

// ProductRequest is the body accepted by create and update. Absent fields stay nil.
type ProductRequest struct {
	Name        *string  `json:"name,omitempty" example:"iPhone 15"`
	SKU         *string  `json:"sku,omitempty" example:"APL-IP15"`
	Category    *string  `json:"category,omitempty" example:"Mobile"`
	Quantity    *int     `json:"quantity,omitempty" example:"12"`
	Price       *float64 `json:"price,omitempty" example:"999.99"`
	Description *string  `json:"description,omitempty" example:"128GB, black"`
	MinStock    *int     `json:"minStock,omitempty" example:"5"`
}

func (r ProductRequest) fields() models.ProductFields {
	return models.ProductFields{
		Name:        r.Name,
		SKU:         r.SKU,
		Category:    r.Category,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Description: r.Description,
		MinStock:    r.MinStock,
	}
}

type UpdateProductResponse struct {
	Message        string         `json:"message"`
	UpdatedProduct models.Product `json:"updatedProduct"`
}

type DeleteProductResponse struct {
	Message        string         `json:"message"`
	DeletedProduct models.Product `json:"deletedProduct"`
}

type ErrorResponse struct {
	Message string                   `json:"message"`
	Errors  []ProductValidationError `json:"errors,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
