package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avrele/storefront/internal/catalog/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, COALESCE(description, ''), price, category, inventory, COALESCE(image, '')
		FROM products WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category, &p.Inventory, &p.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context, query string) ([]domain.Product, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if query != "" {
		rows, err = r.pool.Query(ctx, `
			SELECT id, title, COALESCE(description, ''), price, category, inventory, COALESCE(image, '')
			FROM products
			WHERE title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
			ORDER BY id
		`, query)
	} else {
		rows, err = r.pool.Query(ctx, `
			SELECT id, title, COALESCE(description, ''), price, category, inventory, COALESCE(image, '')
			FROM products ORDER BY id
		`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Category, &p.Inventory, &p.Image); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
