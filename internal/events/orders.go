package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sportsstore/internal/domain/order"
)

const TypeOrderPlaced = "order.placed"

type Event struct {
	EventID   string      `json:"event_id"`
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	CreatedAt time.Time   `json:"created_at"`
	Payload   OrderPlaced `json:"payload"`
}

type OrderPlaced struct {
	UserID   int64           `json:"user_id"`
	Lines    []PlacedLine    `json:"lines"`
	Total    decimal.Decimal `json:"total"`
	Country  string          `json:"country"`
	GiftWrap bool            `json:"gift_wrap"`
}

type PlacedLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderPublisher writes order.placed events keyed by order ID.
type OrderPublisher struct {
	w messageWriter
}

func NewOrderPublisher(w messageWriter) *OrderPublisher {
	return &OrderPublisher{w: w}
}

func (p *OrderPublisher) OrderPlaced(ctx context.Context, o order.Order) error {
	ev := NewOrderPlacedEvent(o)
	return publishJSON(ctx, p.w, ev.OrderID, ev)
}

func NewOrderPlacedEvent(o order.Order) Event {
	lines := make([]PlacedLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, PlacedLine{
			ProductID: l.Product.ID,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
		})
	}
	return Event{
		EventID:   uuid.NewString(),
		Type:      TypeOrderPlaced,
		OrderID:   o.ID.String(),
		CreatedAt: o.CreatedAt,
		Payload: OrderPlaced{
			UserID:   o.UserID,
			Lines:    lines,
			Total:    o.Total(),
			Country:  o.Shipping.Country,
			GiftWrap: o.GiftWrap,
		},
	}
}
