package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// Badge returns the display variant used when rendering the status.
func (s OrderStatus) Badge() string {
	switch s {
	case StatusPending:
		return "secondary"
	case StatusCancelled:
		return "destructive"
	default:
		return "default"
	}
}

// PaymentMethod is the tag chosen in the payment flow.
type PaymentMethod string

const (
	PaymentCard    PaymentMethod = "card"
	PaymentUPI     PaymentMethod = "upi"
	PaymentPayApps PaymentMethod = "payapps"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentPayApps:
		return true
	}
	return false
}

type Order struct {
	ID              string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          uint                 `json:"user_id" gorm:"index;not null"`
	CustomerName    string               `json:"customer_name" gorm:"not null"`
	CustomerPhone   string               `json:"customer_phone" gorm:"not null"`
	CustomerAddress string               `json:"customer_address" gorm:"not null"`
	TotalAmount     decimal.Decimal      `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status          OrderStatus          `json:"status" gorm:"index;not null;default:'pending'"`
	PaymentMethod   *PaymentMethod       `json:"payment_method,omitempty"`
	Items           []OrderItem          `json:"order_items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory   []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time            `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ItemsTotal sums quantity × item price over the order lines.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    string          `json:"order_id" gorm:"type:varchar(36);index;not null"`
	MenuItemID string          `json:"menu_item_id" gorm:"type:varchar(36);not null"`
	MenuItem   *MenuItem       `json:"menu_items,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	ItemPrice  decimal.Decimal `json:"item_price" gorm:"type:decimal(10,2);not null"` // snapshot price at time of order
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.ItemPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderStatusHistory tracks every status change
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    string      `json:"order_id" gorm:"type:varchar(36);index;not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
