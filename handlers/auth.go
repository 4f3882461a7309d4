package handlers

import (
	"net/http"
	"time"

	"restaurant-storefront/middleware"
	"restaurant-storefront/models"
	"restaurant-storefront/service"
	"restaurant-storefront/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) setSessionCookie(c *gin.Context, s *session.Session) {
	maxAge := int(time.Until(s.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, s.Token, maxAge, "/", "", h.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, "", -1, "/", "", h.CookieSecure, true)
}

func sessionResponse(message string, user *models.User, s *session.Session) gin.H {
	return gin.H{
		"message":    message,
		"token":      s.Token,
		"expires_at": s.ExpiresAt,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	}
}

// Register creates a new user account and signs it in
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, s, err := h.Auth.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create account")
		return
	}
	h.setSessionCookie(c, s)
	c.JSON(http.StatusCreated, sessionResponse("Account created successfully", user, s))
}

// Login authenticates a user and returns a session token
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	user, s, err := h.Auth.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to sign in")
		return
	}
	h.setSessionCookie(c, s)
	c.JSON(http.StatusOK, sessionResponse("Login successful", user, s))
}

// Logout revokes the current session
func (h *Handler) Logout(c *gin.Context) {
	s := middleware.GetSession(c)
	if err := h.Auth.Logout(c.Request.Context(), s); err != nil {
		h.fail(c, err, "Failed to sign out")
		return
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

type navLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// GetSession reports navbar state for the caller.
func (h *Handler) GetSession(c *gin.Context) {
	s := middleware.GetSession(c)
	links := []navLink{{"Menu", "/"}, {"Feedback", "/feedback"}}
	if s == nil {
		links = append(links, navLink{"Sign in", "/auth"})
		c.JSON(http.StatusOK, gin.H{"signed_in": false, "links": links})
		return
	}

	user, err := h.Auth.User(c.Request.Context(), s.UserID)
	if err != nil {
		h.fail(c, err, "Failed to load session")
		return
	}

	links = append(links, navLink{"Dashboard", "/dashboard"}, navLink{"Profile", "/profile"})
	if s.Role == models.RoleAdmin {
		links = append(links, navLink{"Admin", "/api/admin/orders"})
	}
	links = append(links, navLink{"Sign out", "/api/auth/logout"})
	c.JSON(http.StatusOK, gin.H{
		"signed_in":  true,
		"name":       user.Name,
		"email":      s.Email,
		"role":       s.Role,
		"expires_at": s.ExpiresAt,
		"links":      links,
	})
}
