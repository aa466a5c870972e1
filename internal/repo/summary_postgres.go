package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rogerio-castellano/inventory-flow/internal/models"
)

type PostgresSummaryRepository struct {
	db *sql.DB
}

func NewPostgresSummaryRepository(db *sql.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: db}
}

func (r *PostgresSummaryRepository) GetSummary(ctx context.Context) (models.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var s models.Summary
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(price * quantity), 0),
		       COUNT(*) FILTER (WHERE quantity <= min_stock)
		FROM products
	`).Scan(&s.TotalProducts, &s.TotalValue, &s.LowStockCount)
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarize products: %w", err)
	}
	return s, nil
}
