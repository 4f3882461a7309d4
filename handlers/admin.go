package handlers

import (
	"net/http"
	"strconv"

	"restaurant-storefront/models"
	"restaurant-storefront/service"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders returns all orders with a per-status summary (admin only)
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	overview, err := h.Orders.AdminOverview(c.Request.Context(), models.OrderStatus(c.Query("status")))
	if err != nil {
		h.fail(c, err, "Failed to load orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": overview.Summary,
		"count":         overview.Total,
		"orders":        overview.Orders,
	})
}

// AdminListMenu returns every menu item, including unavailable ones
func (h *Handler) AdminListMenu(c *gin.Context) {
	items, err := h.Menu.All(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load menu")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// AddMenuItem adds a menu item
func (h *Handler) AddMenuItem(c *gin.Context) {
	var req service.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.Menu.AddItem(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to add menu item")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem edits a menu item, e.g. to toggle availability
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	var req service.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.Menu.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Failed to update menu item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a menu item
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	if err := h.Menu.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete menu item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// AdminListFeedback returns the most recent feedback entries
func (h *Handler) AdminListFeedback(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := h.Feedback.Recent(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "Failed to load feedback")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(entries), "feedback": entries})
}
