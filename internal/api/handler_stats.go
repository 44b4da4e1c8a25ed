package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats handles GET /stats.
func (h *Handler) GetStats(c *gin.Context) {
	totals, err := h.store.Totals(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch stats")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// ranking adapts a top-N store query to a handler.
func ranking[T any](h *Handler, fetch func(ctx context.Context) ([]T, error), failMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := fetch(c.Request.Context())
		if err != nil {
			h.fail(c, err, failMsg)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
