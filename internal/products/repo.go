package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"sportsstore/internal/domain/product"
	"sportsstore/internal/util"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const productCols = `
	id, name, COALESCE(description,''), category, category_slug,
	price::text, is_active, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (product.Product, error) {
	var (
		p     product.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.CategorySlug,
		&price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return product.Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return product.Product{}, fmt.Errorf("price %q: %w", price, err)
	}
	p.Price = d
	return p, nil
}

type ProductInput struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
}

// ListPublic returns one page of active products, optionally narrowed to a
// category slug. page is 1-based.
func (r *Repo) ListPublic(ctx context.Context, categorySlug string, page, pageSize int) (product.Page, error) {
	out := product.Page{CurrentPage: page, PageSize: pageSize, Items: []product.Product{}}

	where := ` WHERE is_active = true `
	args := []any{}
	if categorySlug != "" {
		where += ` AND category_slug = $1 `
		args = append(args, categorySlug)
	}

	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM products`+where, args...).Scan(&out.TotalItems); err != nil {
		return product.Page{}, err
	}

	q := `SELECT` + productCols + ` FROM products` + where +
		fmt.Sprintf(` ORDER BY id ASC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return product.Page{}, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return product.Page{}, err
		}
		out.Items = append(out.Items, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetPublic(ctx context.Context, id int64) (product.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT`+productCols+` FROM products WHERE id = $1 AND is_active = true`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, product.ErrNotFound
	}
	return p, err
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (product.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, category, category_slug, price, is_active)
		VALUES ($1,$2,$3,$4,$5::numeric,true)
		RETURNING`+productCols,
		in.Name, in.Description, in.Category, util.Slugify(in.Category), in.Price.String()))
}

func (r *Repo) Update(ctx context.Context, id int64, in ProductInput) (product.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, category = $4, category_slug = $5,
		    price = $6::numeric, updated_at = now()
		WHERE id = $1
		RETURNING`+productCols,
		id, in.Name, in.Description, in.Category, util.Slugify(in.Category), in.Price.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return product.Product{}, product.ErrNotFound
	}
	return p, err
}

// Delete hides the product from the catalog. Order lines keep their own copy
// of name and price, so rows are never physically removed.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `UPDATE products SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}
