package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"repair-shop-backend/internal/auth"
	"repair-shop-backend/internal/mw"
)

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	profile, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err, "Server error during registration")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully!",
		"user": gin.H{
			"user_id":   profile.UserID,
			"full_name": profile.FullName,
			"email":     profile.Email,
			"phone":     profile.Phone,
		},
	})
}

// Login handles POST /auth/login. The token is returned in the body and set
// as an HTTP-only cookie.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err, "Server error during login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.authCfg.CookieName, session.Token, int(h.auth.TokenTTL().Seconds()), "/", "", h.authCfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"token":   session.Token,
		"user": gin.H{
			"user_id":   session.Profile.UserID,
			"full_name": session.Profile.FullName,
			"email":     session.Profile.Email,
			"role":      session.Role,
		},
	})
}

// Logout handles POST /auth/logout: it revokes the presented token, if any,
// and clears the cookie.
func (h *Handler) Logout(c *gin.Context) {
	if raw := mw.TokenFromRequest(c, h.authCfg.CookieName); raw != "" {
		if err := h.auth.Logout(c.Request.Context(), raw); err != nil {
			h.fail(c, err, "Server error during logout")
			return
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.authCfg.CookieName, "", -1, "/", "", h.authCfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful!"})
}
