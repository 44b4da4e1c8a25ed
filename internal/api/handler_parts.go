package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/store"
)

type partRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

// ListParts handles GET /parts.
func (h *Handler) ListParts(c *gin.Context) {
	page, err := h.store.ListParts(c.Request.Context(), listParams(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch parts")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetPart handles GET /parts/:id.
func (h *Handler) GetPart(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	part, err := h.store.GetPart(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch part")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": part})
}

// CreatePart handles POST /parts.
func (h *Handler) CreatePart(c *gin.Context) {
	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid part data")
		return
	}
	part := &model.Part{Name: deref(req.Name), Description: deref(req.Description)}
	if req.Price != nil {
		part.Price = *req.Price
	}
	if err := h.store.CreatePart(c.Request.Context(), part); err != nil {
		h.fail(c, err, "Failed to create part")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Part added", "part": part})
}

// UpdatePart handles PUT /parts/:id.
func (h *Handler) UpdatePart(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid part data")
		return
	}
	part, err := h.store.UpdatePart(c.Request.Context(), id, store.PartPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		h.fail(c, err, "Failed to update part")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Part updated", "part": part})
}

// DeletePart handles DELETE /parts/:id.
func (h *Handler) DeletePart(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeletePart(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete part")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Part deleted successfully"})
}

// PartRepairs handles GET /parts/:id/repairs.
func (h *Handler) PartRepairs(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	repairs, err := h.store.RepairsForPart(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch repairs for part")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": repairs})
}
