package handlers

import (
	"errors"
	"net/http"
	"strings"

	"restaurant-storefront/models"
	"restaurant-storefront/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler holds the services behind the HTTP API.
type Handler struct {
	Menu     *service.MenuService
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Payment  *service.PaymentService
	Orders   *service.OrderService
	Profiles *service.ProfileService
	Auth     *service.AuthService
	Feedback *service.FeedbackService

	Log          *zap.Logger
	CookieName   string
	CookieSecure bool
}

// RegisterValidators adds the storefront's custom binding tags to gin's
// validator. It must run before the first request is bound.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(fl.Field().String()).Valid()
	})
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrEmptyCart, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrTransition, http.StatusUnprocessableEntity},
}

// fail writes the error response for err. Unexpected errors are logged and
// answered with the generic message.
func (h *Handler) fail(c *gin.Context, err error, generic string) {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			msg := strings.TrimSuffix(err.Error(), ": "+s.err.Error())
			c.JSON(s.status, gin.H{"error": msg})
			return
		}
	}
	h.Log.Error(generic, zap.Error(err), zap.String("path", c.Request.URL.Path))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
