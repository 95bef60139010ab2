package models

import "github.com/shopspring/decimal"

// Product is a catalog entry. Rows are seeded once at startup and never mutated.
type Product struct {
	ID          string          `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Image       string          `gorm:"column:image"`
	Description string          `gorm:"column:description"`
	Position    int             `gorm:"column:position;not null;default:0"`
}

func (Product) TableName() string { return "products" }
