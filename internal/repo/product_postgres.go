package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/inventory-flow/internal/models"
)

const productColumns = `id, name, sku, category, quantity, price, description, min_stock, created_at, updated_at`

type PostgresProductRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Category, &p.Quantity, &p.Price, &p.Description, &p.MinStock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Product{}, err
	}
	p.CreatedAt = models.Timestamp(p.CreatedAt)
	p.UpdatedAt = models.Timestamp(p.UpdatedAt)
	return p, nil
}

func (r *PostgresProductRepository) Create(ctx context.Context, fields models.ProductFields) (models.Product, error) {
	p := models.NewProduct(fields, r.now())
	if err := models.ValidateProduct(p); err != nil {
		return models.Product{}, err
	}
	p.ID = uuid.NewString()

	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.SKU, p.Category, p.Quantity, p.Price, p.Description, p.MinStock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, seq DESC`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// validID reports whether id can name a row; anything else cannot exist.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	if !validID(id) {
		return models.Product{}, ErrProductNotFound
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// UpdateByID locks the row, merges and validates in Go, then writes the full record back.
func (r *PostgresProductRepository) UpdateByID(ctx context.Context, id string, fields models.ProductFields) (models.Product, error) {
	if !validID(id) {
		return models.Product{}, ErrProductNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Product{}, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	p, err := scanProduct(tx.QueryRowContext(ctx, selectQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("load product: %w", err)
	}

	p.Apply(fields)
	if err := models.ValidateProduct(p); err != nil {
		return models.Product{}, err
	}
	p.Touch(r.now())

	updateQuery := `UPDATE products SET name = $1, sku = $2, category = $3, quantity = $4, price = $5, description = $6, min_stock = $7, updated_at = $8 WHERE id = $9`
	_, err = tx.ExecContext(ctx, updateQuery, p.Name, p.SKU, p.Category, p.Quantity, p.Price, p.Description, p.MinStock, p.UpdatedAt, p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Product{}, fmt.Errorf("commit update: %w", err)
	}
	return p, nil
}

func (r *PostgresProductRepository) DeleteByID(ctx context.Context, id string) (models.Product, error) {
	if !validID(id) {
		return models.Product{}, ErrProductNotFound
	}
	query := `DELETE FROM products WHERE id = $1 RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("delete product: %w", err)
	}
	return p, nil
}
