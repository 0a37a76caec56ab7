package products

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"sportsstore/internal/domain/product"
)

type Store interface {
	ListPublic(ctx context.Context, categorySlug string, page, pageSize int) (product.Page, error)
	GetPublic(ctx context.Context, id int64) (product.Product, error)
	Create(ctx context.Context, in ProductInput) (product.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (product.Product, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	repo     Store
	pageSize int
}

func NewHandler(repo Store, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 4
	}
	return &Handler{repo: repo, pageSize: pageSize}
}

// Public: list products (optional category=slug, page=N)
func (h *Handler) ListPublic(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	res, err := h.repo.ListPublic(c.Request.Context(), c.Query("category"), page, h.pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":        res.Items,
		"current_page": res.CurrentPage,
		"page_size":    res.PageSize,
		"total_items":  res.TotalItems,
		"total_pages":  res.TotalPages(),
	})
}

func (h *Handler) GetPublic(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.repo.GetPublic(c.Request.Context(), id)
	if err != nil {
		writeErr(c, err, "failed to load product")
		return
	}
	c.JSON(http.StatusOK, p)
}

type ProductReq struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Price       decimal.Decimal `json:"price"`
}

func (r ProductReq) input() (ProductInput, bool) {
	if !r.Price.IsPositive() {
		return ProductInput{}, false
	}
	return ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price.Round(2),
	}, true
}

func (h *Handler) AdminCreate(c *gin.Context) {
	var req ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	in, ok := req.input()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}

	p, err := h.repo.Create(c.Request.Context(), in)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) AdminUpdate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req ProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	in, ok := req.input()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}

	p, err := h.repo.Update(c.Request.Context(), id, in)
	if err != nil {
		writeErr(c, err, "failed to update product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) AdminDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeErr(c, err, "failed to delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func writeErr(c *gin.Context, err error, msg string) {
	if errors.Is(err, product.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
