package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-storefront/events"
	"restaurant-storefront/models"
	"restaurant-storefront/repository"
	"restaurant-storefront/statemachine"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required,payment_method"`
	Amount        decimal.Decimal      `json:"amount"`
}

// PaymentService records a payment by flipping the order to paid. No
// payment processor is involved.
type PaymentService struct {
	orders    repository.OrderRepository
	publisher events.Publisher
	log       *zap.Logger
}

func NewPaymentService(orders repository.OrderRepository, publisher events.Publisher, log *zap.Logger) *PaymentService {
	return &PaymentService{orders: orders, publisher: publisher, log: log}
}

func (s *PaymentService) Pay(ctx context.Context, userID uint, orderID string, req PaymentRequest) (*models.Order, error) {
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("unknown payment method %q: %w", req.PaymentMethod, ErrValidation)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %s does not belong to you: %w", orderID, ErrForbidden)
	}
	if !req.Amount.Equal(order.TotalAmount) {
		return nil, fmt.Errorf("amount %s does not match order total %s: %w",
			req.Amount.StringFixed(2), order.TotalAmount.StringFixed(2), ErrValidation)
	}
	if err := statemachine.CanTransition(order.Status, models.StatusPaid, statemachine.ActorCustomer); err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrTransition)
	}

	history := &models.OrderStatusHistory{
		ChangedBy: userID,
		Note:      "Paid via " + string(req.PaymentMethod),
	}
	err = s.orders.UpdateStatus(ctx, order.ID, order.Status, models.StatusPaid,
		map[string]interface{}{"payment_method": req.PaymentMethod}, history)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, fmt.Errorf("order %s was updated concurrently: %w", orderID, ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	paid, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewOrderEvent(events.OrderPaid, paid)); err != nil {
		s.log.Warn("publish order event failed", zap.String("order_id", paid.ID), zap.Error(err))
	}

	s.log.Info("order paid",
		zap.String("order_id", paid.ID),
		zap.String("payment_method", string(req.PaymentMethod)),
		zap.String("amount", paid.TotalAmount.StringFixed(2)),
	)
	return paid, nil
}
