package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is written once at checkout and never updated.
type OrderItem struct {
	gorm.Model
	Quantity       int             `gorm:"not null" json:"quantity"`
	Price          decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"` // dish price at order time
	Specifications string          `gorm:"type:text;not null;default:''" json:"specifications"`

	OrderID uint  `gorm:"index;not null" json:"order_id"`
	Order   Order `json:"-"`

	DishID uint `gorm:"index;not null" json:"dish_id"`
	Dish   Dish `json:"-"` // preload for the dish name
}
