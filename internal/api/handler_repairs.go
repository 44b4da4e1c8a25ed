package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair-shop-backend/internal/store"
)

type repairRequest struct {
	ClientID        *int64            `json:"client_id"`
	RepairedMachine *int64            `json:"repaired_machine"`
	RepairedBy      *int64            `json:"repaired_by"`
	SerialNumberID  nullableID        `json:"serial_number_id"`
	RepairDate      *flexTime         `json:"repair_date"`
	Description     *string           `json:"description"`
	PartsUsed       *[]store.PartLine `json:"parts_used"`
}

type repairPartRequest struct {
	RepairID int64 `json:"repair_id" binding:"required"`
	PartID   int64 `json:"part_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

func valueOr(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}

// ListRepairs handles GET /repairs.
func (h *Handler) ListRepairs(c *gin.Context) {
	page, err := h.store.ListRepairs(c.Request.Context(), listParams(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch repairs")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetRepair handles GET /repairs/:id.
func (h *Handler) GetRepair(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	repair, err := h.store.GetRepair(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch repair")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": repair})
}

// CreateRepair handles POST /repairs. The technician defaults to the caller
// and the repair date to now.
func (h *Handler) CreateRepair(c *gin.Context) {
	var req repairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid repair data")
		return
	}
	in := store.RepairInput{
		ClientID:       valueOr(req.ClientID, 0),
		MachineID:      valueOr(req.RepairedMachine, 0),
		RepairedBy:     valueOr(req.RepairedBy, caller(c).UserID),
		SerialNumberID: req.SerialNumberID.Value,
		RepairDate:     req.RepairDate.ptr(),
		Description:    deref(req.Description),
	}
	if req.PartsUsed != nil {
		in.Parts = *req.PartsUsed
	}
	repair, err := h.store.CreateRepair(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "Failed to add repair")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Repair added successfully!",
		"repair_id":   repair.ID,
		"repair_name": repair.RepairName,
	})
}

// UpdateRepair handles PUT /repairs/:id. A parts_used array replaces every
// part of the repair; "serial_number_id": null detaches the serial.
func (h *Handler) UpdateRepair(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req repairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid repair data")
		return
	}
	repair, err := h.store.UpdateRepair(c.Request.Context(), id, store.RepairPatch{
		ClientID:       req.ClientID,
		MachineID:      req.RepairedMachine,
		RepairedBy:     req.RepairedBy,
		SerialNumberID: req.SerialNumberID.Value,
		ClearSerial:    req.SerialNumberID.Set && req.SerialNumberID.Value == nil,
		RepairDate:     req.RepairDate.ptr(),
		Description:    req.Description,
		Parts:          req.PartsUsed,
	})
	if err != nil {
		h.fail(c, err, "Failed to update repair")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Repair updated successfully!", "repair": repair})
}

// DeleteRepair handles DELETE /repairs/:id.
func (h *Handler) DeleteRepair(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteRepair(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete repair")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Repair deleted successfully!"})
}

// RepairsForMachine handles GET /repairs/for-machine/:machine_id/client/:client_id.
func (h *Handler) RepairsForMachine(c *gin.Context) {
	machineID, ok := idParam(c, "machine_id")
	if !ok {
		return
	}
	clientID, ok := idParam(c, "client_id")
	if !ok {
		return
	}
	rows, err := h.store.RepairsForMachineClient(c.Request.Context(), machineID, clientID)
	if err != nil {
		h.fail(c, err, "Failed to fetch repairs for machine")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// ListRepairParts handles GET /repair_parts?repair_id=.
func (h *Handler) ListRepairParts(c *gin.Context) {
	repairID, ok := optionalIDQuery(c, "repair_id")
	if !ok {
		return
	}
	if repairID == nil {
		badRequest(c, "repair_id is required")
		return
	}
	lines, err := h.store.ListRepairParts(c.Request.Context(), *repairID)
	if err != nil {
		h.fail(c, err, "Failed to fetch repair parts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": lines})
}

// AddRepairPart handles POST /repair_parts.
func (h *Handler) AddRepairPart(c *gin.Context) {
	var req repairPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Repair ID and Part ID are required")
		return
	}
	link, err := h.store.AddRepairPart(c.Request.Context(), req.RepairID, req.PartID, req.Quantity)
	if err != nil {
		h.fail(c, err, "Failed to add part to repair")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Part added to repair", "repair_part": link})
}

// DeleteRepairPart handles DELETE /repair_parts/:id.
func (h *Handler) DeleteRepairPart(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteRepairPart(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete repair part")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Repair part deleted"})
}
