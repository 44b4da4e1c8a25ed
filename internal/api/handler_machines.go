package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair-shop-backend/internal/model"
	"repair-shop-backend/internal/store"
)

type machineRequest struct {
	ModelName     *string   `json:"model_name"`
	CatalogNumber *string   `json:"catalog_number"`
	DateOfAdding  *flexTime `json:"date_of_adding"`
	Notes         *string   `json:"notes"`
	URL           *string   `json:"url" binding:"omitempty,url"`
}

// ListMachines handles GET /machines.
func (h *Handler) ListMachines(c *gin.Context) {
	page, err := h.store.ListMachines(c.Request.Context(), listParams(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch machines")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetMachine handles GET /machines/:id.
func (h *Handler) GetMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	machine, err := h.store.GetMachine(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch machine")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": machine})
}

// CreateMachine handles POST /machines.
func (h *Handler) CreateMachine(c *gin.Context) {
	var req machineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid machine data")
		return
	}
	machine := &model.Machine{
		ModelName:     deref(req.ModelName),
		CatalogNumber: deref(req.CatalogNumber),
		DateOfAdding:  req.DateOfAdding.ptr(),
		Notes:         deref(req.Notes),
		URL:           deref(req.URL),
	}
	if err := h.store.CreateMachine(c.Request.Context(), machine); err != nil {
		h.fail(c, err, "Failed to create machine")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Machine added", "machine": machine})
}

// UpdateMachine handles PUT /machines/:id.
func (h *Handler) UpdateMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req machineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid machine data")
		return
	}
	machine, err := h.store.UpdateMachine(c.Request.Context(), id, store.MachinePatch{
		ModelName:     req.ModelName,
		CatalogNumber: req.CatalogNumber,
		DateOfAdding:  req.DateOfAdding.ptr(),
		Notes:         req.Notes,
		URL:           req.URL,
	})
	if err != nil {
		h.fail(c, err, "Failed to update machine")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Machine updated", "machine": machine})
}

// DeleteMachine handles DELETE /machines/:id.
func (h *Handler) DeleteMachine(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteMachine(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete machine")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Machine deleted successfully"})
}

// MachinesForClient handles GET /machines/for-client/:client_id.
func (h *Handler) MachinesForClient(c *gin.Context) {
	clientID, ok := idParam(c, "client_id")
	if !ok {
		return
	}
	machines, err := h.store.MachinesForClient(c.Request.Context(), clientID)
	if err != nil {
		h.fail(c, err, "Failed to fetch machines for client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": machines})
}

// SerialsForClientMachine handles GET /machines/serials/:client_id/:machine_id.
func (h *Handler) SerialsForClientMachine(c *gin.Context) {
	clientID, ok := idParam(c, "client_id")
	if !ok {
		return
	}
	machineID, ok := idParam(c, "machine_id")
	if !ok {
		return
	}
	serials, err := h.store.SerialsForClientMachine(c.Request.Context(), clientID, machineID)
	if err != nil {
		h.fail(c, err, "Failed to fetch serial numbers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": serials})
}
