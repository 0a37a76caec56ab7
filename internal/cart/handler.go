package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"sportsstore/internal/auth"
	"sportsstore/internal/domain/cart"
	"sportsstore/internal/domain/product"
)

type Store interface {
	GetCart(ctx context.Context, userID int64) (cart.Cart, error)
	AddItem(ctx context.Context, userID, productID int64, qty int) error
	UpdateQty(ctx context.Context, userID, productID int64, qty int) error
	RemoveLine(ctx context.Context, userID, productID int64) error
}

type Handler struct {
	repo Store
}

func NewHandler(repo Store) *Handler {
	return &Handler{repo: repo}
}

type cartResp struct {
	cart.Cart
	Total decimal.Decimal `json:"total"`
}

func (h *Handler) GetMyCart(c *gin.Context) {
	userID := c.GetInt64(auth.CtxUserIDKey)

	crt, err := h.repo.GetCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	if crt.Lines == nil {
		crt.Lines = []cart.Line{}
	}
	c.JSON(http.StatusOK, cartResp{Cart: crt, Total: crt.ComputeTotalValue()})
}

type ItemReq struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Qty       int   `json:"qty" binding:"required,gt=0"`
}

func (h *Handler) AddItem(c *gin.Context) {
	userID := c.GetInt64(auth.CtxUserIDKey)

	var req ItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.repo.AddItem(c.Request.Context(), userID, req.ProductID, req.Qty); err != nil {
		writeItemErr(c, err, "failed to add item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) UpdateQty(c *gin.Context) {
	userID := c.GetInt64(auth.CtxUserIDKey)

	var req ItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.repo.UpdateQty(c.Request.Context(), userID, req.ProductID, req.Qty); err != nil {
		writeItemErr(c, err, "failed to update qty")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type RemoveLineReq struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

func (h *Handler) RemoveLine(c *gin.Context) {
	userID := c.GetInt64(auth.CtxUserIDKey)

	var req RemoveLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.repo.RemoveLine(c.Request.Context(), userID, req.ProductID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func writeItemErr(c *gin.Context, err error, msg string) {
	if errors.Is(err, product.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
