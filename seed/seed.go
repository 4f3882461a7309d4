// Package seed loads the initial menu from a YAML file.
package seed

import (
	"context"
	"fmt"
	"strings"

	"restaurant-storefront/models"
	"restaurant-storefront/repository"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type menuEntry struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Price       string `mapstructure:"price"`
	ImageURL    string `mapstructure:"image_url"`
	Category    string `mapstructure:"category"`
	Available   *bool  `mapstructure:"available"`
}

// LoadFile reads menu items from the "items" list of a YAML file.
func LoadFile(path string) ([]*models.MenuItem, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var entries []menuEntry
	if err := v.UnmarshalKey("items", &entries); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	items := make([]*models.MenuItem, 0, len(entries))
	for i, e := range entries {
		price, err := decimal.NewFromString(strings.TrimSpace(e.Price))
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): bad price %q: %w", i, e.Name, e.Price, err)
		}
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Category) == "" {
			return nil, fmt.Errorf("item %d: name and category are required", i)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("item %d (%s): price must be > 0", i, e.Name)
		}
		item := &models.MenuItem{
			Name:        strings.TrimSpace(e.Name),
			Description: e.Description,
			Price:       price.Round(2),
			ImageURL:    e.ImageURL,
			Category:    strings.TrimSpace(e.Category),
			Available:   true,
		}
		if e.Available != nil {
			item.Available = *e.Available
		}
		items = append(items, item)
	}
	return items, nil
}

// Apply inserts items only into an empty menu and reports how many were
// written.
func Apply(ctx context.Context, repo repository.MenuRepository, items []*models.MenuItem, log *zap.Logger) (int, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count menu items: %w", err)
	}
	if count > 0 {
		log.Info("menu already populated, skipping seed", zap.Int64("items", count))
		return 0, nil
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := repo.Create(ctx, items...); err != nil {
		return 0, fmt.Errorf("seed menu: %w", err)
	}
	log.Info("menu seeded", zap.Int("items", len(items)))
	return len(items), nil
}
