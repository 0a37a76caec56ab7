package mail

import (
	"context"
	"fmt"
	"strings"

	"sportsstore/internal/domain/order"
)

// OrderNotifier emails the store's order inbox whenever an order is placed.
type OrderNotifier struct {
	mailer Mailer
	to     string
}

func NewOrderNotifier(m Mailer, to string) *OrderNotifier {
	return &OrderNotifier{mailer: m, to: to}
}

func (n *OrderNotifier) OrderPlaced(ctx context.Context, o order.Order) error {
	subject := "New order " + o.ID.String()
	return n.mailer.Send(ctx, n.to, subject, orderBody(o))
}

func orderBody(o order.Order) string {
	var b strings.Builder
	s := o.Shipping

	fmt.Fprintf(&b, "Order %s placed at %s\n\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04 MST"))
	for _, l := range o.Lines {
		fmt.Fprintf(&b, "%d x %s @ %s = %s\n", l.Quantity, l.Product.Name, l.Product.Price.StringFixed(2), l.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", o.Total().StringFixed(2))

	b.WriteString("Ship to:\n")
	for _, line := range []string{s.Name, s.Line1, s.Line2, s.Line3, s.City, s.State, s.Zip, s.Country} {
		if line != "" {
			b.WriteString(line + "\n")
		}
	}
	if o.GiftWrap {
		b.WriteString("\nGift wrap requested.\n")
	}
	return b.String()
}
