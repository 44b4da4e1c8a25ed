package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"repair-shop-backend/internal/store"
)

// Search handles GET /search?query=&type=.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("query")
	kind, ok := store.ParseSearchKind(c.Query("type"))
	if !ok {
		badRequest(c, "Invalid search type")
		return
	}
	h.log.Debug("search", zap.String("query", query), zap.String("type", string(kind)))

	result, err := h.store.Search(c.Request.Context(), query, kind)
	if err != nil {
		h.fail(c, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, result)
}
