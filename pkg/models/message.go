package models

import (
	"time"
)

const (
	SenderWelcome = "BiteBuddy"
	SenderOrders  = "Order System"
)

type Message struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"not null;index" json:"user_id"`
	Sender  string    `gorm:"type:varchar(100);not null" json:"sender"`
	Content string    `gorm:"type:text;not null" json:"content"`
	SentAt  time.Time `gorm:"autoCreateTime;index" json:"sent_at"`
	IsRead  bool      `gorm:"not null;default:false" json:"is_read"`
}

func (Message) TableName() string {
	return "messages"
}
