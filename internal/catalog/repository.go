package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/db"
)

var ErrNotFound = errors.New("product not found")

type Repository struct {
	pool db.DBTX
}

func NewRepository(pool db.DBTX) *Repository {
	return &Repository{pool: pool}
}

// GetProduct reads a product through the pool, outside any transaction.
func (r *Repository) GetProduct(ctx context.Context, id string) (Product, error) {
	return r.getProduct(ctx, r.pool, id)
}

// GetProductTx reads a product on the caller's transaction so checkout
// validation and the stock decrement observe the same snapshot.
func (r *Repository) GetProductTx(ctx context.Context, q db.DBTX, id string) (Product, error) {
	return r.getProduct(ctx, q, id)
}

func (r *Repository) getProduct(ctx context.Context, q db.DBTX, id string) (Product, error) {
	var p Product
	err := q.QueryRow(ctx, `
		SELECT id, name, price, stock, is_available, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.IsAvailable, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

// List returns every product for the storefront, available or not.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, stock, is_available, created_at
		FROM products
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.IsAvailable, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return products, nil
}
