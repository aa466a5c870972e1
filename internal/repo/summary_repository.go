package repo

import (
	"context"

	"github.com/rogerio-castellano/inventory-flow/internal/models"
)

type SummaryRepository interface {
	GetSummary(ctx context.Context) (models.Summary, error)
}

// ProductSummaryRepository derives the summary from whatever a ProductRepository lists.
type ProductSummaryRepository struct {
	products ProductRepository
}

func NewProductSummaryRepository(products ProductRepository) *ProductSummaryRepository {
	return &ProductSummaryRepository{products: products}
}

// GetSummary implements SummaryRepository.
func (r *ProductSummaryRepository) GetSummary(ctx context.Context) (models.Summary, error) {
	products, err := r.products.ListAll(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	return models.Summarize(products), nil
}
