package service

import (
	"context"
	"fmt"

	"restaurant-storefront/cart"
	"restaurant-storefront/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartView is the cart as rendered next to the menu.
type CartView struct {
	Items []cart.Item      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func NewCartView(c *cart.Cart) CartView {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return CartView{Items: items, Total: c.Total(), Count: c.Count()}
}

type CartService struct {
	store cart.Store
	menu  *MenuService
	log   *zap.Logger
}

func NewCartService(store cart.Store, menu *MenuService, log *zap.Logger) *CartService {
	return &CartService{store: store, menu: menu, log: log}
}

func (s *CartService) View(ctx context.Context, userID uint) (CartView, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return CartView{}, fmt.Errorf("load cart: %w", err)
	}
	return NewCartView(c), nil
}

// Add puts one more of the menu item into the cart. Only available items
// can be added; the price is captured at this moment.
func (s *CartService) Add(ctx context.Context, userID uint, menuItemID string) (CartView, error) {
	item, err := s.menu.Get(ctx, menuItemID)
	if err != nil {
		return CartView{}, err
	}
	if !item.Available {
		return CartView{}, fmt.Errorf("menu item '%s' is not available: %w", item.Name, ErrValidation)
	}

	c, err := s.store.Update(ctx, userID, func(c *cart.Cart) error {
		c.Add(cart.Item{
			ID:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
		})
		return nil
	})
	if err != nil {
		return CartView{}, fmt.Errorf("update cart: %w", err)
	}
	return NewCartView(c), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID uint, itemID string, quantity int) (CartView, error) {
	c, err := s.store.Update(ctx, userID, func(c *cart.Cart) error {
		if _, ok := c.Find(itemID); !ok {
			return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		c.UpdateQuantity(itemID, quantity)
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return NewCartView(c), nil
}

// Decrement lowers a line by one; the last unit removes the line.
func (s *CartService) Decrement(ctx context.Context, userID uint, itemID string) (CartView, error) {
	c, err := s.store.Update(ctx, userID, func(c *cart.Cart) error {
		if _, ok := c.Find(itemID); !ok {
			return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		c.Decrement(itemID)
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return NewCartView(c), nil
}

func (s *CartService) Remove(ctx context.Context, userID uint, itemID string) (CartView, error) {
	c, err := s.store.Update(ctx, userID, func(c *cart.Cart) error {
		if _, ok := c.Find(itemID); !ok {
			return fmt.Errorf("cart item %s: %w", itemID, ErrNotFound)
		}
		c.Remove(itemID)
		return nil
	})
	if err != nil {
		return CartView{}, err
	}
	return NewCartView(c), nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// HandleSessionEvent drops the cart of a user who signed out.
func (s *CartService) HandleSessionEvent(ev session.Event) {
	if ev.Type != session.EventSignedOut {
		return
	}
	if err := s.Clear(context.Background(), ev.Session.UserID); err != nil {
		s.log.Warn("drop cart on sign-out failed", zap.Uint("user_id", ev.Session.UserID), zap.Error(err))
	}
}
