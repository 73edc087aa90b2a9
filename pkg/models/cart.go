package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine holds a snapshot of the item name and final price taken when the
// line was first created. At most one line exists per (user, item, kind).
type CartLine struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	UserID   uint            `gorm:"not null;uniqueIndex:idx_cart_user_item,priority:1" json:"user_id"`
	ItemID   uint            `gorm:"not null;uniqueIndex:idx_cart_user_item,priority:2" json:"item_id"`
	ItemType ItemKind        `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_user_item,priority:3" json:"item_type"`
	ItemName string          `gorm:"type:varchar(100)" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity int             `gorm:"not null;default:1" json:"quantity"`
	AddedAt  time.Time       `gorm:"autoCreateTime" json:"added_at"`
}

func (CartLine) TableName() string {
	return "cart"
}

func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
