package categories

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Lister interface {
	ListActive(ctx context.Context) ([]Category, error)
}

type Handler struct {
	repo Lister
}

func NewHandler(repo Lister) *Handler {
	return &Handler{repo: repo}
}

// ListPublic feeds the navigation menu; selected echoes the active slug back.
func (h *Handler) ListPublic(c *gin.Context) {
	items, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "selected": c.Query("category")})
}
