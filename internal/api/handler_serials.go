package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair-shop-backend/internal/store"
)

type assignSerialRequest struct {
	ClientID   int64     `json:"client_id"`
	MachineID  int64     `json:"machine_id"`
	Serial     string    `json:"serial"`
	DateOfSale *flexTime `json:"date_of_sale"`
}

// AssignSerial handles POST /serial_numbers/assign.
func (h *Handler) AssignSerial(c *gin.Context) {
	var req assignSerialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "All fields are required")
		return
	}
	sn, err := h.store.AssignSerial(c.Request.Context(), store.SerialInput{
		ClientID:   req.ClientID,
		MachineID:  req.MachineID,
		Serial:     req.Serial,
		DateOfSale: req.DateOfSale.ptr(),
	})
	if err != nil {
		h.fail(c, err, "Failed to assign machine")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Machine assigned successfully!", "serialNumber": sn})
}

// ListSerials handles GET /serial_numbers.
func (h *Handler) ListSerials(c *gin.Context) {
	machineID, ok := optionalIDQuery(c, "machine_id")
	if !ok {
		return
	}
	clientID, ok := optionalIDQuery(c, "client_id")
	if !ok {
		return
	}
	page, err := h.store.ListSerials(c.Request.Context(), store.SerialFilter{
		ListParams: listParams(c),
		MachineID:  machineID,
		ClientID:   clientID,
	})
	if err != nil {
		h.fail(c, err, "Failed to fetch serial numbers")
		return
	}
	c.JSON(http.StatusOK, page)
}

// SerialsForClient handles GET /serial_numbers/client?client_id=.
func (h *Handler) SerialsForClient(c *gin.Context) {
	clientID, ok := optionalIDQuery(c, "client_id")
	if !ok {
		return
	}
	if clientID == nil {
		badRequest(c, "client_id is required")
		return
	}
	serials, err := h.store.SerialsForClient(c.Request.Context(), *clientID)
	if err != nil {
		h.fail(c, err, "Failed to fetch serial numbers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": serials})
}

// DeleteSerial handles DELETE /serial_numbers/:id.
func (h *Handler) DeleteSerial(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteSerial(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete serial number")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Serial number deleted"})
}
