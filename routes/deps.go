package routes

import (
	"time"

	"restaurant-storefront/cache"
	"restaurant-storefront/cart"
	"restaurant-storefront/config"
	"restaurant-storefront/events"
	"restaurant-storefront/handlers"
	"restaurant-storefront/receipt"
	"restaurant-storefront/repository"
	"restaurant-storefront/service"
	"restaurant-storefront/session"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the external resources the API is built on.
type Deps struct {
	DB        *gorm.DB
	Carts     cart.Store
	MenuCache cache.MenuCache
	Publisher events.Publisher
	QR        receipt.QRGenerator
	Auth      config.AuthConfig
	Log       *zap.Logger
}

// Build wires repositories and services into a Handler. The returned
// manager resolves session tokens; carts are dropped on sign-out.
func Build(d Deps) (*handlers.Handler, *session.Manager) {
	menuRepo := repository.NewMenuRepository(d.DB)
	orderRepo := repository.NewOrderRepository(d.DB)

	ttl := d.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	sessions := session.NewManager(repository.NewSessionRepository(d.DB), []byte(d.Auth.JWTSecret), ttl)

	menu := service.NewMenuService(menuRepo, d.MenuCache, d.Log)
	carts := service.NewCartService(d.Carts, menu, d.Log)
	sessions.Subscribe(carts.HandleSessionEvent)

	h := &handlers.Handler{
		Menu:     menu,
		Cart:     carts,
		Checkout: service.NewCheckoutService(orderRepo, d.Carts, d.Publisher, d.Log),
		Payment:  service.NewPaymentService(orderRepo, d.Publisher, d.Log),
		Orders:   service.NewOrderService(orderRepo, d.QR),
		Profiles: service.NewProfileService(repository.NewProfileRepository(d.DB)),
		Auth:     service.NewAuthService(repository.NewUserRepository(d.DB), sessions, d.Auth.AdminEmails, d.Log),
		Feedback: service.NewFeedbackService(repository.NewFeedbackRepository(d.DB)),

		Log:          d.Log,
		CookieName:   d.Auth.CookieName,
		CookieSecure: d.Auth.CookieSecure,
	}
	return h, sessions
}
