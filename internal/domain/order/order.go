package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sportsstore/internal/domain/cart"
)

var ErrNotFound = errors.New("order not found")

// Order is the shipping request captured at checkout. Lines are a copy of the
// cart at submission time.
type Order struct {
	ID        uuid.UUID   `json:"id"`
	UserID    int64       `json:"user_id"`
	Lines     []cart.Line `json:"lines"`
	Shipping  Shipping    `json:"shipping"`
	GiftWrap  bool        `json:"gift_wrap"`
	Shipped   bool        `json:"shipped"`
	CreatedAt time.Time   `json:"created_at"`
}

type Shipping struct {
	Name    string `json:"name"`
	Line1   string `json:"line1"`
	Line2   string `json:"line2,omitempty"`
	Line3   string `json:"line3,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country"`
}

func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
