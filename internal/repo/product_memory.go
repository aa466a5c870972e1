package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/inventory-flow/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// Products are kept in creation order.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	now      func() time.Time
}

type MemoryOption func(*InMemoryProductRepository)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) MemoryOption {
	return func(r *InMemoryProductRepository) {
		r.now = now
	}
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository(opts ...MemoryOption) *InMemoryProductRepository {
	r := &InMemoryProductRepository{
		products: []models.Product{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create validates and stores a new product.
func (r *InMemoryProductRepository) Create(_ context.Context, fields models.ProductFields) (models.Product, error) {
	product := models.NewProduct(fields, r.now())
	if err := models.ValidateProduct(product); err != nil {
		return models.Product{}, err
	}
	product.ID = uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, product)
	return product, nil
}

// ListAll returns every product, newest first.
func (r *InMemoryProductRepository) ListAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.products))
	for i := len(r.products) - 1; i >= 0; i-- {
		out = append(out, r.products[i])
	}
	return out, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// UpdateByID merges fields into an existing product.
func (r *InMemoryProductRepository) UpdateByID(_ context.Context, id string, fields models.ProductFields) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}

	updated := r.products[i]
	updated.Apply(fields)
	if err := models.ValidateProduct(updated); err != nil {
		return models.Product{}, err
	}
	updated.Touch(r.now())
	r.products[i] = updated
	return updated, nil
}

// DeleteByID removes a product and returns it.
func (r *InMemoryProductRepository) DeleteByID(_ context.Context, id string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	deleted := r.products[i]
	r.products = append(r.products[:i], r.products[i+1:]...)
	return deleted, nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}

func (r *InMemoryProductRepository) indexOf(id string) int {
	for i, p := range r.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
