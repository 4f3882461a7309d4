package service

import (
	"context"
	"fmt"
	"strings"

	"restaurant-storefront/cart"
	"restaurant-storefront/events"
	"restaurant-storefront/models"
	"restaurant-storefront/repository"

	"go.uber.org/zap"
)

type CheckoutRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone" binding:"required"`
	CustomerAddress string `json:"customer_address" binding:"required"`
}

func (r *CheckoutRequest) normalize() error {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.CustomerAddress = strings.TrimSpace(r.CustomerAddress)
	if r.CustomerName == "" || r.CustomerPhone == "" || r.CustomerAddress == "" {
		return fmt.Errorf("name, phone and address are required: %w", ErrValidation)
	}
	return nil
}

type CheckoutService struct {
	orders    repository.OrderRepository
	carts     cart.Store
	publisher events.Publisher
	log       *zap.Logger
}

func NewCheckoutService(orders repository.OrderRepository, carts cart.Store, publisher events.Publisher, log *zap.Logger) *CheckoutService {
	return &CheckoutService{orders: orders, carts: carts, publisher: publisher, log: log}
}

// Checkout turns the user's cart into a pending order. The order and its
// items are written atomically; the ordered lines leave the cart only after
// the write committed.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, req CheckoutRequest) (*models.Order, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	c, err := s.carts.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, models.OrderItem{
			MenuItemID: line.ID,
			Quantity:   line.Quantity,
			ItemPrice:  line.Price,
		})
	}

	order := &models.Order{
		UserID:          userID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		TotalAmount:     c.Total(),
		Status:          models.StatusPending,
		Items:           items,
	}
	history := &models.OrderStatusHistory{
		ToStatus:  models.StatusPending,
		ChangedBy: userID,
		Note:      "Order placed by customer",
	}

	if err := s.orders.CreateWithItems(ctx, order, history); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// only the ordered lines leave the cart; anything added meanwhile stays
	_, err = s.carts.Update(ctx, userID, func(cur *cart.Cart) error {
		cur.Subtract(c.Items)
		return nil
	})
	if err != nil {
		s.log.Warn("clear cart after checkout failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	if err := s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderCreated, order)); err != nil {
		s.log.Warn("publish order event failed", zap.String("order_id", order.ID), zap.Error(err))
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Uint("user_id", userID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
	)
	return order, nil
}
