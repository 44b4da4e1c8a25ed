package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair-shop-backend/internal/auth"
)

type updateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type assignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// GetMe handles GET /profiles/me.
func (h *Handler) GetMe(c *gin.Context) {
	profile, err := h.store.GetProfile(c.Request.Context(), caller(c).UserID)
	if err != nil {
		h.fail(c, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// UpdateMe handles PUT /profiles/me.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	profile, err := h.store.UpdateProfile(c.Request.Context(), caller(c).UserID, req.FullName, req.Phone)
	if err != nil {
		h.fail(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": profile})
}

// ListProfiles handles GET /profiles.
func (h *Handler) ListProfiles(c *gin.Context) {
	page, err := h.store.ListProfiles(c.Request.Context(), listParams(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch profiles")
		return
	}
	c.JSON(http.StatusOK, page)
}

// AssignRole handles PUT /profiles/:id/role.
func (h *Handler) AssignRole(c *gin.Context) {
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Role is required")
		return
	}
	role, ok := auth.ParseRole(req.Role)
	if !ok {
		badRequest(c, "Invalid role")
		return
	}
	if err := h.store.AssignRole(c.Request.Context(), userID, role); err != nil {
		h.fail(c, err, "Failed to assign role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user_id": userID, "role": role})
}
