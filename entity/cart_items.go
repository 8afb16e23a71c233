package entity

import (
	"gorm.io/gorm"
)

// CartItem merges on (user, dish, specifications); quantity is always >= 1.
type CartItem struct {
	gorm.Model
	UserID uint `gorm:"index;uniqueIndex:idx_cart_line;not null" json:"user_id"`
	User   User `json:"-"`

	DishID uint `gorm:"index;uniqueIndex:idx_cart_line;not null" json:"dish_id"`
	Dish   Dish `json:"-"`

	Quantity       int    `gorm:"not null;default:1" json:"quantity"`
	Specifications string `gorm:"type:text;uniqueIndex:idx_cart_line;not null;default:''" json:"specifications"`
}
