package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair-shop-backend/internal/model"
)

type admissionRequest struct {
	ClientID            int64  `json:"client_id"`
	MachineID           int64  `json:"machine_id"`
	SerialNumber        string `json:"serial_number"`
	CatalogNumber       string `json:"catalog_number"`
	DeviceStatus        string `json:"device_status"`
	ProblemDescription  string `json:"problem_description"`
	AdditionalEquipment string `json:"additional_equipment"`
	Notes               string `json:"notes"`
}

// CreateAdmission handles POST /admissions. The caller is recorded as the receiver.
func (h *Handler) CreateAdmission(c *gin.Context) {
	var req admissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid admission data")
		return
	}
	receiver := caller(c).UserID
	a := &model.Admission{
		ClientID:            req.ClientID,
		MachineID:           req.MachineID,
		SerialNumber:        req.SerialNumber,
		CatalogNumber:       req.CatalogNumber,
		DeviceStatus:        req.DeviceStatus,
		ProblemDescription:  req.ProblemDescription,
		AdditionalEquipment: req.AdditionalEquipment,
		Notes:               req.Notes,
		ReceivedBy:          &receiver,
	}
	if err := h.store.CreateAdmission(c.Request.Context(), a); err != nil {
		h.fail(c, err, "Failed to create admission")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Admission created successfully!",
		"admission_id":   a.ID,
		"admission_name": a.AdmissionName,
	})
}

// ListAdmissions handles GET /admissions.
func (h *Handler) ListAdmissions(c *gin.Context) {
	page, err := h.store.ListAdmissions(c.Request.Context(), listParams(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch admissions")
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetAdmission handles GET /admissions/:id.
func (h *Handler) GetAdmission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	a, err := h.store.GetAdmission(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to fetch admission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": a})
}
