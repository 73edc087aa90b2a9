package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending = "pending"

	// PaymentCashOnDelivery is the only payment rail the shop accepts.
	PaymentCashOnDelivery = "Cash on Delivery"
)

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	OrderDate       time.Time       `gorm:"autoCreateTime;index" json:"order_date"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Status          string          `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method"`
	DeliveryAddress string          `gorm:"type:text" json:"delivery_address"`
	Items           []OrderItem     `gorm:"column:items_json;type:text;serializer:json" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is the immutable copy of a cart line taken when the order is placed.
type OrderItem struct {
	ID       uint            `json:"id"`
	Type     ItemKind        `json:"type"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}
