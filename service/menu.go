package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant-storefront/cache"
	"restaurant-storefront/models"
	"restaurant-storefront/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MenuCategory is one section of the menu page.
type MenuCategory struct {
	Category string            `json:"category"`
	Items    []models.MenuItem `json:"items"`
}

type MenuService struct {
	repo  repository.MenuRepository
	cache cache.MenuCache
	log   *zap.Logger
}

func NewMenuService(repo repository.MenuRepository, c cache.MenuCache, log *zap.Logger) *MenuService {
	if c == nil {
		c = cache.NoopMenuCache{}
	}
	return &MenuService{repo: repo, cache: c, log: log}
}

// Available lists available items ordered by category, reading through the
// cache.
func (s *MenuService) Available(ctx context.Context) ([]models.MenuItem, error) {
	if items, ok := s.cache.Get(ctx); ok {
		return items, nil
	}
	items, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	if err := s.cache.Set(ctx, items); err != nil {
		s.log.Warn("menu cache set failed", zap.Error(err))
	}
	return items, nil
}

// Grouped returns the available menu grouped by category.
func (s *MenuService) Grouped(ctx context.Context) ([]MenuCategory, error) {
	items, err := s.Available(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(items), nil
}

// GroupByCategory groups items by category key, keeping categories in the
// order they first appear and items in input order.
func GroupByCategory(items []models.MenuItem) []MenuCategory {
	groups := []MenuCategory{}
	index := map[string]int{}
	for _, it := range items {
		i, ok := index[it.Category]
		if !ok {
			i = len(groups)
			index[it.Category] = i
			groups = append(groups, MenuCategory{Category: it.Category})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	return item, err
}

// MenuItemInput carries admin edits. Nil fields are left untouched on update.
type MenuItemInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Category    *string          `json:"category"`
	Available   *bool            `json:"available"`
}

func (in MenuItemInput) validate(creating bool) error {
	if creating && (in.Name == nil || in.Price == nil || in.Category == nil) {
		return fmt.Errorf("name, price and category are required: %w", ErrValidation)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return fmt.Errorf("name must not be empty: %w", ErrValidation)
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) == "" {
		return fmt.Errorf("category must not be empty: %w", ErrValidation)
	}
	if in.Price != nil && !in.Price.IsPositive() {
		return fmt.Errorf("price must be > 0: %w", ErrValidation)
	}
	return nil
}

func (s *MenuService) AddItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		Name:      strings.TrimSpace(*in.Name),
		Price:     in.Price.Round(2),
		Category:  strings.TrimSpace(*in.Category),
		Available: true,
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.ImageURL != nil {
		item.ImageURL = *in.ImageURL
	}
	if in.Available != nil {
		item.Available = *in.Available
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *MenuService) UpdateItem(ctx context.Context, id string, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		fields["price"] = in.Price.Round(2)
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	if in.Category != nil {
		fields["category"] = strings.TrimSpace(*in.Category)
	}
	if in.Available != nil {
		fields["available"] = *in.Available
	}

	item, err := s.repo.Update(ctx, id, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("menu item %s: %w", id, ErrNotFound)
	}
	if errors.Is(err, repository.ErrMenuItemInUse) {
		return fmt.Errorf("menu item %s appears in past orders, mark it unavailable instead: %w", id, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("menu cache invalidate failed", zap.Error(err))
	}
}

// All lists every item, available or not, bypassing the cache.
func (s *MenuService) All(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}
