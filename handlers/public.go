package handlers

import (
	"net/http"

	"restaurant-storefront/service"
	"restaurant-storefront/statemachine"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Restaurant Storefront API",
		"menu":    "/api/menu",
		"session": "/api/session",
		"health":  "/health",
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Restaurant Storefront API",
		"version": "1.0.0",
	})
}

// AuthPage is where anonymous visitors of protected pages are sent.
func (h *Handler) AuthPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":     "auth",
		"register": gin.H{"method": "POST", "path": "/api/auth/register", "fields": []string{"name", "email", "password"}},
		"login":    gin.H{"method": "POST", "path": "/api/auth/login", "fields": []string{"email", "password"}},
	})
}

func (h *Handler) FeedbackPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":   "feedback",
		"submit": gin.H{"method": "POST", "path": "/api/feedback", "fields": []string{"name", "email", "message", "rating"}},
		"rating": gin.H{"min": 1, "max": 5, "default": 5},
	})
}

// GetMenu returns the available menu grouped by category (public)
func (h *Handler) GetMenu(c *gin.Context) {
	groups, err := h.Menu.Grouped(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load menu")
		return
	}
	count := 0
	for _, g := range groups {
		count += len(g.Items)
	}
	c.JSON(http.StatusOK, gin.H{
		"count":      count,
		"categories": groups,
	})
}

// GetStateMachineInfo returns the full state machine for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	var terminal []string
	for _, s := range statemachine.Statuses {
		if statemachine.IsTerminal(s) {
			terminal = append(terminal, string(s))
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"statuses":        statemachine.Statuses,
		"terminal_states": terminal,
		"description":     "Storefront Order Lifecycle State Machine",
	})
}

func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req service.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	f, err := h.Feedback.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to send feedback. Please try again.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Thank you for your feedback!",
		"feedback": f,
	})
}
