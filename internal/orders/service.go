package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"sportsstore/internal/domain/cart"
	"sportsstore/internal/domain/order"
	"sportsstore/internal/validation"
)

const (
	MsgEmptyCart = "Sorry, your cart is empty!"

	ActionCompleted = "Completed"

	// NotifyTimeout bounds each notifier so a slow mail server or broker
	// cannot hold the shopper's redirect.
	NotifyTimeout = 5 * time.Second
)

type Repository interface {
	SaveOrder(ctx context.Context, o *order.Order) error
}

// Notifier is told about every order that was persisted.
type Notifier interface {
	OrderPlaced(ctx context.Context, o order.Order) error
}

type ResultKind int

const (
	// ResultView re-renders the checkout form.
	ResultView ResultKind = iota
	ResultRedirect
)

type Result struct {
	Kind       ResultKind
	ViewName   string
	Action     string
	ModelState validation.ModelState
	Order      order.Order
}

type Service struct {
	repo          Repository
	notifiers     []Notifier
	log           *slog.Logger
	now           func() time.Time
	notifyTimeout time.Duration
}

func NewService(repo Repository, log *slog.Logger, notifiers ...Notifier) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:          repo,
		notifiers:     notifiers,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
		notifyTimeout: NotifyTimeout,
	}
}

// Checkout validates the cart and the bound shipping details and, when both are
// acceptable, saves the order exactly once. Lines for delisted products are
// never ordered.
func (s *Service) Checkout(ctx context.Context, crt cart.Cart, draft order.Order, ms validation.ModelState) (Result, error) {
	if ms == nil {
		ms = validation.New()
	}
	crt.Lines = append([]cart.Line(nil), crt.Lines...)
	if dropped := crt.RemoveInactive(); len(dropped) > 0 {
		s.log.InfoContext(ctx, "delisted products left out of checkout",
			"user_id", crt.UserID,
			"lines", len(dropped),
		)
	}
	if crt.IsEmpty() {
		ms.AddError(validation.ModelKey, MsgEmptyCart)
	}
	if !ms.IsValid() {
		return Result{Kind: ResultView, ModelState: ms, Order: draft}, nil
	}

	o := draft
	o.ID = uuid.New()
	o.UserID = crt.UserID
	o.Lines = crt.Lines
	o.Shipped = false
	o.CreatedAt = s.now()

	if err := s.repo.SaveOrder(ctx, &o); err != nil {
		return Result{}, fmt.Errorf("save order: %w", err)
	}

	s.notify(ctx, o)

	return Result{Kind: ResultRedirect, Action: ActionCompleted, ModelState: ms, Order: o}, nil
}

func (s *Service) notify(ctx context.Context, o order.Order) {
	for _, n := range s.notifiers {
		nctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
		err := n.OrderPlaced(nctx, o)
		cancel()
		if err != nil {
			s.log.WarnContext(ctx, "order notification failed",
				"order_id", o.ID.String(),
				"error", err,
			)
		}
	}
}
