package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/store"
)

type clientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Notes   *string `json:"notes"`
}

func (r clientRequest) patch() store.ClientPatch {
	return store.ClientPatch{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		City:    r.City,
		Country: r.Country,
		Notes:   r.Notes,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// ListClients handles GET /clients.
func (h *Handler) ListClients(c *gin.Context) {
	page, err := h.store.ListClients(c.Request.Context(), listParams(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch clients")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetClient handles GET /clients/:id.
func (h *Handler) GetClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	client, err := h.store.GetClient(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": client})
}

// CreateClient handles POST /clients.
func (h *Handler) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid client data")
		return
	}
	client := &model.Client{
		Name:    deref(req.Name),
		Email:   deref(req.Email),
		Phone:   deref(req.Phone),
		Address: deref(req.Address),
		City:    deref(req.City),
		Country: deref(req.Country),
		Notes:   deref(req.Notes),
	}
	if client.Name == "" || client.Email == "" {
		badRequest(c, "Name and email are required")
		return
	}
	if err := h.store.CreateClient(c.Request.Context(), client); err != nil {
		h.fail(c, err, "Failed to create client")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Client added", "client": client})
}

// UpdateClient handles PUT /clients/:id. Fields missing from the body are kept.
func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid client data")
		return
	}
	if req.Name != nil && deref(req.Name) == "" {
		badRequest(c, "Name must not be empty")
		return
	}
	client, err := h.store.UpdateClient(c.Request.Context(), id, req.patch())
	if err != nil {
		h.fail(c, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client updated", "client": client})
}

// DeleteClient handles DELETE /clients/:id.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteClient(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
