package categories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Category struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"product_count"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// ListActive returns the categories that have at least one active product.
func (r *Repo) ListActive(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT min(category), category_slug, count(*)
		FROM products
		WHERE is_active = true
		GROUP BY category_slug
		ORDER BY category_slug ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.Slug, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
