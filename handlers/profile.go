package handlers

import (
	"net/http"

	"restaurant-storefront/middleware"
	"restaurant-storefront/service"

	"github.com/gin-gonic/gin"
)

// DashboardPage renders the order history view for the signed-in user.
func (h *Handler) DashboardPage(c *gin.Context) {
	s := middleware.GetSession(c)
	views, err := h.Orders.History(c.Request.Context(), s.UserID)
	if err != nil {
		h.fail(c, err, "Failed to load orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":   "dashboard",
		"email":  s.Email,
		"count":  len(views),
		"orders": views,
	})
}

func (h *Handler) ProfilePage(c *gin.Context) {
	s := middleware.GetSession(c)
	p, err := h.Profiles.Get(c.Request.Context(), s.UserID)
	if err != nil {
		h.fail(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"page":    "profile",
		"email":   s.Email,
		"profile": p,
		"update":  gin.H{"method": "PUT", "path": "/api/profile"},
	})
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.Profiles.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Profiles.Update(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.fail(c, err, "Failed to update profile. Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "profile": p})
}
