package cart

import (
	"github.com/shopspring/decimal"

	"sportsstore/internal/domain/product"
)

type Cart struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Lines  []Line `json:"lines"`
}

type Line struct {
	ID       int64           `json:"id"`
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// AddItem merges quantities for a product already in the cart.
func (c *Cart) AddItem(p product.Product, qty int) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == p.ID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, Line{Product: p, Quantity: qty})
}

func (c *Cart) RemoveLine(productID int64) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.Product.ID != productID {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
}

// RemoveInactive drops lines whose product has been delisted and returns them.
func (c *Cart) RemoveInactive() []Line {
	var removed []Line
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.Product.IsActive {
			kept = append(kept, l)
		} else {
			removed = append(removed, l)
		}
	}
	c.Lines = kept
	return removed
}

func (c *Cart) ComputeTotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
