package routes

import (
	"restaurant-storefront/handlers"
	"restaurant-storefront/middleware"
	"restaurant-storefront/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, resolver middleware.Resolver, limiter *middleware.RateLimiter) {
	r.Use(middleware.Authenticate(resolver, h.CookieName))

	// ── Pages ──────────────────────────────────────────────────────
	r.GET("/", h.Welcome)
	r.GET("/health", h.Health)
	r.GET("/auth", h.AuthPage)
	r.GET("/feedback", h.FeedbackPage)
	r.GET("/dashboard", middleware.PageGate("/auth"), h.DashboardPage)
	r.GET("/profile", middleware.PageGate("/auth"), h.ProfilePage)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", middleware.RateLimit(limiter), h.Register)
		public.POST("/auth/login", middleware.RateLimit(limiter), h.Login)
		public.GET("/session", h.GetSession)

		public.GET("/menu", h.GetMenu)
		public.GET("/state-machine", h.GetStateMachineInfo)
		public.POST("/feedback", h.SubmitFeedback)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.POST("/auth/logout", h.Logout)

		auth.GET("/cart", h.GetCart)
		auth.DELETE("/cart", h.ClearCart)
		auth.POST("/cart/items", h.AddToCart)
		auth.PUT("/cart/items/:id", h.UpdateCartItem)
		auth.POST("/cart/items/:id/decrement", h.DecrementCartItem)
		auth.DELETE("/cart/items/:id", h.RemoveCartItem)
		auth.POST("/checkout", middleware.RateLimit(limiter), h.PlaceOrder)

		auth.GET("/orders", h.GetMyOrders)
		auth.GET("/orders/:id", h.GetOrderDetail)
		auth.GET("/orders/:id/receipt.png", h.GetReceipt)
		auth.POST("/orders/:id/pay", h.PayOrder)

		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", h.AdminGetAllOrders)
		admin.GET("/menu", h.AdminListMenu)
		admin.POST("/menu", h.AddMenuItem)
		admin.PUT("/menu/:id", h.UpdateMenuItem)
		admin.DELETE("/menu/:id", h.DeleteMenuItem)
		admin.GET("/feedback", h.AdminListFeedback)
	}
}
