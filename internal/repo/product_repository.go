package repo

import (
	"context"
	"errors"
	"time"

	"github.com/rogerio-castellano/inventory-flow/internal/models"
)

// ErrProductNotFound is returned when no product has the requested identifier.
var ErrProductNotFound = errors.New("product not found")

// queryTimeout bounds every single store round trip.
const queryTimeout = 3 * time.Second

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, fields models.ProductFields) (models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	UpdateByID(ctx context.Context, id string, fields models.ProductFields) (models.Product, error)
	DeleteByID(ctx context.Context, id string) (models.Product, error)
}
