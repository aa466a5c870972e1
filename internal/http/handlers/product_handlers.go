package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory. sku, minStock are optional.
// @Tags products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	if errs := validateCreateRequest(req); len(errs) > 0 {
		respond(w, r, http.StatusBadRequest, ErrorResponse{Message: msgFillAllFields, Errors: errs})
		return
	}

	created, err := productRepo.Create(r.Context(), req.fields())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, created)
}

// GetProductsHandler godoc
// @Summary List all products
// @Description Newest first
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Failure 500 {object} ErrorResponse
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.ListAll(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, products)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, err := productRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, product)
}

// UpdateProductHandler godoc
// @Summary Update a product
// @Description Applies only the supplied fields and refreshes updatedAt
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body ProductRequest true "Fields to change"
// @Success 200 {object} UpdateProductResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		writeDecodeError(w, r, err)
		return
	}

	updated, err := productRepo.UpdateByID(r.Context(), chi.URLParam(r, "id"), req.fields())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, UpdateProductResponse{
		Message:        "Product updated successfully.",
		UpdatedProduct: updated,
	})
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} DeleteProductResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	deleted, err := productRepo.DeleteByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, DeleteProductResponse{
		Message:        "Product is deleted successfully.",
		DeletedProduct: deleted,
	})
}
