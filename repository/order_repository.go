package repository

import (
	"context"

	"restaurant-storefront/models"

	"gorm.io/gorm"
)

// OrderRepository reads and writes orders together with their items and
// status history.
type OrderRepository interface {
	// CreateWithItems inserts the order, its items and the initial history
	// entry in one transaction.
	CreateWithItems(ctx context.Context, order *models.Order, history *models.OrderStatusHistory) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// ListByUser returns the user's orders newest first, items and menu
	// items preloaded.
	ListByUser(ctx context.Context, userID uint) ([]models.Order, error)
	ListAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	// UpdateStatus moves an order from one status to another only if it is
	// still in from; otherwise ErrStaleStatus.
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, fields map[string]interface{}, history *models.OrderStatusHistory) error
	Count(ctx context.Context) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateWithItems(ctx context.Context, order *models.Order, history *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		if err := tx.Omit("Items", "StatusHistory").Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Omit("MenuItem").Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items

		if history != nil {
			history.OrderID = order.ID
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.MenuItem").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC").Order("id ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.MenuItem").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	query := r.db.WithContext(ctx).Preload("Items.MenuItem")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus, fields map[string]interface{}, history *models.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := map[string]interface{}{"status": to}
		for k, v := range fields {
			update[k] = v
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, from).
			Updates(update)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		if history != nil {
			history.OrderID = id
			history.FromStatus = from
			history.ToStatus = to
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}
