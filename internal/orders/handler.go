package orders

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"sportsstore/internal/auth"
	"sportsstore/internal/domain/cart"
	"sportsstore/internal/domain/order"
	"sportsstore/internal/validation"
)

const CompletedPath = "/api/checkout/completed"

type CartStore interface {
	GetCart(ctx context.Context, userID int64) (cart.Cart, error)
	Clear(ctx context.Context, userID int64) error
}

// OrderLookup confirms an order was placed by the given user.
type OrderLookup interface {
	OwnedBy(ctx context.Context, id uuid.UUID, userID int64) error
}

type AdminStore interface {
	List(ctx context.Context, shipped bool) ([]order.Order, error)
	MarkShipped(ctx context.Context, id uuid.UUID) error
}

// Recorder counts checkout outcomes.
type Recorder interface {
	CheckoutOutcome(outcome string)
}

type Dependencies struct {
	Service *Service
	Carts   CartStore
	Orders  OrderLookup
	Admin   AdminStore
	Metrics Recorder
	Log     *slog.Logger
}

type Handler struct {
	deps Dependencies
}

func NewHandler(d Dependencies) *Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Handler{deps: d}
}

type checkoutReq struct {
	Name     string `json:"name" form:"name" binding:"required,max=100"`
	Line1    string `json:"line1" form:"line1" binding:"required,max=200"`
	Line2    string `json:"line2" form:"line2" binding:"max=200"`
	Line3    string `json:"line3" form:"line3" binding:"max=200"`
	City     string `json:"city" form:"city" binding:"required,max=100"`
	State    string `json:"state" form:"state" binding:"required,max=100"`
	Zip      string `json:"zip" form:"zip" binding:"max=20"`
	Country  string `json:"country" form:"country" binding:"required,max=100"`
	GiftWrap bool   `json:"gift_wrap" form:"gift_wrap"`
}

func (r checkoutReq) toOrder() order.Order {
	return order.Order{
		Shipping: order.Shipping{
			Name:    r.Name,
			Line1:   r.Line1,
			Line2:   r.Line2,
			Line3:   r.Line3,
			City:    r.City,
			State:   r.State,
			Zip:     r.Zip,
			Country: r.Country,
		},
		GiftWrap: r.GiftWrap,
	}
}

func (h *Handler) CheckoutForm(c *gin.Context) {
	render(c, http.StatusOK, "checkout.tmpl", gin.H{
		"order":  order.Order{},
		"errors": []string{},
	})
}

func (h *Handler) Checkout(c *gin.Context) {
	userID := c.GetInt64(auth.CtxUserIDKey)

	var req checkoutReq
	ms := validation.FromBinding(c.ShouldBind(&req))

	crt, err := h.deps.Carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.deps.Log.ErrorContext(c.Request.Context(), "load cart failed", "user_id", userID, "error", err)
		h.record("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}

	res, err := h.deps.Service.Checkout(c.Request.Context(), crt, req.toOrder(), ms)
	if err != nil {
		h.deps.Log.ErrorContext(c.Request.Context(), "checkout failed", "user_id", userID, "error", err)
		h.record("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place order"})
		return
	}

	switch res.Kind {
	case ResultRedirect:
		h.record("completed")
		h.deps.Log.InfoContext(c.Request.Context(), "order placed",
			"order_id", res.Order.ID.String(),
			"user_id", userID,
			"lines", len(res.Order.Lines),
		)
		c.Redirect(http.StatusSeeOther, CompletedPath+"?order_id="+res.Order.ID.String())
	default:
		h.record("form")
		render(c, http.StatusUnprocessableEntity, "checkout.tmpl", gin.H{
			"order":       res.Order,
			"errors":      res.ModelState.Errors(),
			"model_state": res.ModelState,
		})
	}
}

// Completed empties the cart once the shopper lands on the confirmation page
// of an order they placed.
func (h *Handler) Completed(c *gin.Context) {
	userID := c.GetInt64(auth.CtxUserIDKey)

	orderID, err := uuid.Parse(c.Query("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	if err := h.deps.Orders.OwnedBy(c.Request.Context(), orderID, userID); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.deps.Log.ErrorContext(c.Request.Context(), "load order failed", "order_id", orderID.String(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}

	if err := h.deps.Carts.Clear(c.Request.Context(), userID); err != nil {
		h.deps.Log.ErrorContext(c.Request.Context(), "clear cart failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear cart"})
		return
	}

	render(c, http.StatusOK, "completed.tmpl", gin.H{
		"ok":       true,
		"order_id": orderID.String(),
	})
}

func (h *Handler) AdminList(c *gin.Context) {
	shipped, _ := strconv.ParseBool(c.DefaultQuery("shipped", "false"))

	items, err := h.deps.Admin.List(c.Request.Context(), shipped)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	if items == nil {
		items = []order.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) AdminMarkShipped(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	if err := h.deps.Admin.MarkShipped(c.Request.Context(), id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) record(outcome string) {
	if h.deps.Metrics != nil {
		h.deps.Metrics.CheckoutOutcome(outcome)
	}
}

func render(c *gin.Context, status int, tmpl string, data gin.H) {
	switch c.NegotiateFormat(binding.MIMEJSON, binding.MIMEHTML) {
	case binding.MIMEHTML:
		c.HTML(status, tmpl, data)
	default:
		c.JSON(status, data)
	}
}
