package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"sportsstore/internal/domain/cart"
	"sportsstore/internal/domain/order"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) SaveOrder(ctx context.Context, o *order.Order) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s := o.Shipping
	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, name, line1, line2, line3, city, state, zip, country, gift_wrap, shipped, created_at)
		VALUES ($1::uuid,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, o.ID.String(), o.UserID, s.Name, s.Line1, s.Line2, s.Line3, s.City, s.State, s.Zip, s.Country,
		o.GiftWrap, o.Shipped, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, l := range o.Lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, product_id, product_name, unit_price, quantity)
			VALUES ($1::uuid,$2,$3,$4::numeric,$5)
		`, o.ID.String(), l.Product.ID, l.Product.Name, l.Product.Price.String(), l.Quantity)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *Repo) List(ctx context.Context, shipped bool) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, user_id, name, line1, line2, line3, city, state, zip, country,
		       gift_wrap, shipped, created_at
		FROM orders
		WHERE shipped = $1
		ORDER BY created_at ASC
	`, shipped)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []order.Order{}
	byID := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			o  order.Order
			id string
			s  = &o.Shipping
		)
		if err := rows.Scan(&id, &o.UserID, &s.Name, &s.Line1, &s.Line2, &s.Line3, &s.City, &s.State,
			&s.Zip, &s.Country, &o.GiftWrap, &o.Shipped, &o.CreatedAt); err != nil {
			return nil, err
		}
		if o.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("order id %q: %w", id, err)
		}
		byID[o.ID] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(out))
	for _, o := range out {
		ids = append(ids, o.ID.String())
	}

	lineRows, err := r.db.Query(ctx, `
		SELECT id, order_id::text, product_id, product_name, unit_price::text, quantity
		FROM order_lines
		WHERE order_id = ANY($1::uuid[])
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var (
			l       cart.Line
			orderID string
			price   string
		)
		if err := lineRows.Scan(&l.ID, &orderID, &l.Product.ID, &l.Product.Name, &price, &l.Quantity); err != nil {
			return nil, err
		}
		if l.Product.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("line price %q: %w", price, err)
		}
		oid, err := uuid.Parse(orderID)
		if err != nil {
			return nil, err
		}
		if i, ok := byID[oid]; ok {
			out[i].Lines = append(out[i].Lines, l)
		}
	}
	return out, lineRows.Err()
}

func (r *Repo) OwnedBy(ctx context.Context, id uuid.UUID, userID int64) error {
	var ok bool
	if err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1::uuid AND user_id = $2)
	`, id.String(), userID).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return order.ErrNotFound
	}
	return nil
}

func (r *Repo) MarkShipped(ctx context.Context, id uuid.UUID) error {
	ct, err := r.db.Exec(ctx, `UPDATE orders SET shipped = true WHERE id = $1::uuid`, id.String())
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}
