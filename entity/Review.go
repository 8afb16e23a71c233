package entity

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment string `gorm:"type:text;not null;default:''" json:"comment"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `json:"-"`
	DishID uint `gorm:"index;not null" json:"dish_id"`
	Dish   Dish `json:"-"`
}
