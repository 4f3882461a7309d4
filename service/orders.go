package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"restaurant-storefront/models"
	"restaurant-storefront/receipt"
	"restaurant-storefront/repository"
	"restaurant-storefront/statemachine"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderView is an order as shown on the dashboard.
type OrderView struct {
	models.Order
	Badge string `json:"badge"`
}

func NewOrderView(o models.Order) OrderView {
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	return OrderView{Order: o, Badge: o.Status.Badge()}
}

// StatusSummary counts orders and revenue for one status.
type StatusSummary struct {
	Status models.OrderStatus `json:"status"`
	Count  int                `json:"count"`
	Amount decimal.Decimal    `json:"amount"`
}

type AdminOverview struct {
	Orders  []OrderView     `json:"orders"`
	Summary []StatusSummary `json:"summary"`
	Total   int             `json:"total"`
}

type OrderService struct {
	orders repository.OrderRepository
	qr     receipt.QRGenerator
}

func NewOrderService(orders repository.OrderRepository, qr receipt.QRGenerator) *OrderService {
	return &OrderService{orders: orders, qr: qr}
}

// History returns the user's orders, newest first.
func (s *OrderService) History(ctx context.Context, userID uint) ([]OrderView, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	return views, nil
}

// Detail returns one of the user's orders with its status history.
func (s *OrderService) Detail(ctx context.Context, userID uint, orderID string) (*OrderView, error) {
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
	view := NewOrderView(*order)
	return &view, nil
}

// Receipt renders the order's QR code as PNG.
func (s *OrderService) Receipt(ctx context.Context, userID uint, orderID string) ([]byte, error) {
	view, err := s.Detail(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Generate(view.ID)
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}
	return png, nil
}

// AdminOverview lists every order, optionally filtered by status, with a
// per-status summary over the listed orders.
func (s *OrderService) AdminOverview(ctx context.Context, status models.OrderStatus) (*AdminOverview, error) {
	if status != "" && !slices.Contains(statemachine.Statuses, status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	orders, err := s.orders.ListAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	byStatus := map[models.OrderStatus]*StatusSummary{}
	for _, st := range statemachine.Statuses {
		byStatus[st] = &StatusSummary{Status: st, Amount: decimal.Zero}
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
		if sum, ok := byStatus[o.Status]; ok {
			sum.Count++
			sum.Amount = sum.Amount.Add(o.TotalAmount)
		}
	}

	summary := make([]StatusSummary, 0, len(statemachine.Statuses))
	for _, st := range statemachine.Statuses {
		summary = append(summary, *byStatus[st])
	}
	return &AdminOverview{Orders: views, Summary: summary, Total: len(views)}, nil
}
