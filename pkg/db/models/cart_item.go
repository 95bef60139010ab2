package models

import "time"

// CartItem is one line of the shared cart. product_id is unique across lines.
type CartItem struct {
	ID        string    `gorm:"column:id;primaryKey"`
	ProductID string    `gorm:"column:product_id;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`
	AddedAt   time.Time `gorm:"column:added_at;not null"`
}

func (CartItem) TableName() string { return "cart_items" }
