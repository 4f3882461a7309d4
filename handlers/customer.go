package handlers

import (
	"net/http"

	"restaurant-storefront/middleware"
	"restaurant-storefront/service"

	"github.com/gin-gonic/gin"
)

type AddToCartRequest struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.Cart.View(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err, "Failed to load cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.Cart.Add(c.Request.Context(), middleware.GetUserID(c), req.MenuItemID)
	if err != nil {
		h.fail(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to cart", "cart": view})
}

// UpdateCartItem sets a line's quantity; zero or below removes it.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.Cart.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), *req.Quantity)
	if err != nil {
		h.fail(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func (h *Handler) DecrementCartItem(c *gin.Context) {
	view, err := h.Cart.Decrement(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": view})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	view, err := h.Cart.Remove(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from cart", "cart": view})
}

func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Cart.Clear(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.fail(c, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// PlaceOrder places an order from the caller's cart
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.Checkout.Checkout(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.fail(c, err, "Failed to place order. Please try again.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   service.NewOrderView(*order),
		"next":    "/api/orders/" + order.ID + "/pay",
	})
}

// GetMyOrders returns the caller's orders, newest first
func (h *Handler) GetMyOrders(c *gin.Context) {
	views, err := h.Orders.History(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err, "Failed to load orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "orders": views})
}

// GetOrderDetail returns a single order with its status history
func (h *Handler) GetOrderDetail(c *gin.Context) {
	view, err := h.Orders.Detail(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to load order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": view})
}

func (h *Handler) GetReceipt(c *gin.Context) {
	png, err := h.Orders.Receipt(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to render receipt")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// PayOrder records the payment of a pending order
func (h *Handler) PayOrder(c *gin.Context) {
	var req service.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.Payment.Pay(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err, "Payment failed. Please try again.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful",
		"order":   service.NewOrderView(*order),
		"next":    "/dashboard",
	})
}
