package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ItemKind names the catalog table a cart line or order item points at.
type ItemKind string

const (
	KindMenu        ItemKind = "menu"
	KindService     ItemKind = "service"
	KindServiceItem ItemKind = "service_item"
)

func (k ItemKind) Valid() bool {
	switch k {
	case KindMenu, KindService, KindServiceItem:
		return true
	}
	return false
}

var ErrNegativeFinalPrice = errors.New("discount exceeds price")

// finalPrice is the single place the base price minus discount rule lives.
func finalPrice(price, discount decimal.Decimal) (decimal.Decimal, error) {
	final := price.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero, ErrNegativeFinalPrice
	}
	return final, nil
}

type Service struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Category    string          `gorm:"type:varchar(50)" json:"category"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	FinalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"final_price"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	Description string          `gorm:"type:text" json:"description"`
	AddedAt     time.Time       `gorm:"autoCreateTime" json:"added_at"`
	Available   bool            `gorm:"not null;index" json:"available"`
}

func (Service) TableName() string {
	return "services"
}

func (s *Service) BeforeSave(*gorm.DB) error {
	final, err := finalPrice(s.BasePrice, s.Discount)
	if err != nil {
		return err
	}
	s.FinalPrice = final
	return nil
}

type ServiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ServiceID   uint            `gorm:"not null;index" json:"service_id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	AddedAt     time.Time       `gorm:"autoCreateTime" json:"added_at"`
}

func (ServiceItem) TableName() string {
	return "service_items"
}

func (i *ServiceItem) BeforeSave(*gorm.DB) error {
	if i.Price.IsNegative() {
		return ErrNegativeFinalPrice
	}
	return nil
}

type MenuItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount"`
	FinalPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"final_price"`
	AddedAt     time.Time       `gorm:"autoCreateTime" json:"added_at"`
	Category    string          `gorm:"type:varchar(50)" json:"category"`
}

func (MenuItem) TableName() string {
	return "menu"
}

func (m *MenuItem) BeforeSave(*gorm.DB) error {
	final, err := finalPrice(m.Price, m.Discount)
	if err != nil {
		return err
	}
	m.FinalPrice = final
	return nil
}

// ServiceDetail is a service together with the items offered under it.
type ServiceDetail struct {
	Service
	Items []ServiceItem `json:"items"`
}
