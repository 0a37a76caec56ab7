package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"sportsstore/internal/domain/cart"
	"sportsstore/internal/domain/order"
	"sportsstore/internal/domain/product"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestOrderPublisher_OrderPlaced(t *testing.T) {
	t.Parallel()

	o := order.Order{
		ID:     uuid.New(),
		UserID: 42,
		Lines: []cart.Line{
			{Product: product.Product{ID: 3, Price: decimal.RequireFromString("19.50")}, Quantity: 2},
		},
		Shipping:  order.Shipping{Country: "USA"},
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	w := &captureWriter{}
	if err := NewOrderPublisher(w).OrderPlaced(context.Background(), o); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	if string(w.msgs[0].Key) != o.ID.String() {
		t.Fatalf("expected message keyed by order id, got %q", w.msgs[0].Key)
	}

	var ev Event
	if err := json.Unmarshal(w.msgs[0].Value, &ev); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if ev.Type != TypeOrderPlaced || ev.OrderID != o.ID.String() || ev.EventID == "" {
		t.Fatalf("unexpected event envelope %+v", ev)
	}
	if ev.Payload.UserID != 42 || len(ev.Payload.Lines) != 1 || ev.Payload.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected payload %+v", ev.Payload)
	}
	if !ev.Payload.Total.Equal(decimal.RequireFromString("39")) {
		t.Fatalf("expected total 39, got %s", ev.Payload.Total)
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	if NewClient("").Enabled() {
		t.Fatalf("expected empty broker list to disable kafka")
	}
	c := NewClient(" kafka-1:9092, ,kafka-2:9092 ")
	if len(c.Brokers) != 2 || c.Brokers[0] != "kafka-1:9092" || c.Brokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", c.Brokers)
	}

	w := c.NewWriter("orders")
	defer w.Close()
	if w.BatchTimeout > 50*time.Millisecond {
		t.Fatalf("writer would hold each order for %s", w.BatchTimeout)
	}
	if w.WriteTimeout <= 0 {
		t.Fatalf("expected a bounded write timeout")
	}
}
