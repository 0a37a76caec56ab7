package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"sportsstore/internal/domain/cart"
	"sportsstore/internal/domain/product"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) getOrCreateCartID(ctx context.Context, userID int64) (int64, error) {
	var cartID int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO carts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id
	`, userID).Scan(&cartID)
	return cartID, err
}

func (r *Repo) AddItem(ctx context.Context, userID, productID int64, qty int) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND is_active = true)
	`, productID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return product.ErrNotFound
	}

	cartID, err := r.getOrCreateCartID(ctx, userID)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO cart_items (cart_id, product_id, qty)
		VALUES ($1,$2,$3)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET qty = cart_items.qty + EXCLUDED.qty
	`, cartID, productID, qty)
	return err
}

func (r *Repo) UpdateQty(ctx context.Context, userID, productID int64, qty int) error {
	cartID, err := r.getOrCreateCartID(ctx, userID)
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, `
		UPDATE cart_items
		SET qty = $3
		WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (r *Repo) RemoveLine(ctx context.Context, userID, productID int64) error {
	cartID, err := r.getOrCreateCartID(ctx, userID)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`, cartID, productID)
	return err
}

func (r *Repo) Clear(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id = (SELECT id FROM carts WHERE user_id = $1)
	`, userID)
	return err
}

func (r *Repo) GetCart(ctx context.Context, userID int64) (cart.Cart, error) {
	cartID, err := r.getOrCreateCartID(ctx, userID)
	if err != nil {
		return cart.Cart{}, err
	}

	out := cart.Cart{ID: cartID, UserID: userID}

	rows, err := r.db.Query(ctx, `
		SELECT
		  ci.id, ci.qty,
		  p.id, p.name, COALESCE(p.description,''), p.category, p.category_slug,
		  p.price::text, p.is_active, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id AND p.is_active = true
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC, ci.id ASC
	`, cartID)
	if err != nil {
		return cart.Cart{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l     cart.Line
			p     = &l.Product
			price string
		)
		if err := rows.Scan(
			&l.ID, &l.Quantity,
			&p.ID, &p.Name, &p.Description, &p.Category, &p.CategorySlug,
			&price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return cart.Cart{}, err
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return cart.Cart{}, fmt.Errorf("price %q: %w", price, err)
		}
		out.Lines = append(out.Lines, l)
	}
	return out, rows.Err()
}
