package repository

import (
	"context"

	"restaurant-storefront/models"

	"gorm.io/gorm"
)

// MenuRepository reads and edits menu_items.
type MenuRepository interface {
	// ListAvailable returns available items ordered by category, then name.
	ListAvailable(ctx context.Context) ([]models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id string) (*models.MenuItem, error)
	Create(ctx context.Context, items ...*models.MenuItem) error
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.MenuItem, error)
	// Delete refuses items that order lines still reference with
	// ErrMenuItemInUse.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) ListAvailable(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("category ASC").
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *menuRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).Order("category ASC").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *menuRepository) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) Create(ctx context.Context, items ...*models.MenuItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}

func (r *menuRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.MenuItem, error) {
	item, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(item).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *menuRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrMenuItemInUse
		}
		res := tx.Where("id = ?", id).Delete(&models.MenuItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *menuRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Count(&count).Error
	return count, err
}
