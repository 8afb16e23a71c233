package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:128;not null" json:"-"` // bcrypt hash
	// set only by seeding, never through the API
	IsAdmin bool `gorm:"not null;default:false" json:"is_admin"`

	// Relations, preload only when needed
	CartItems []CartItem `json:"-"`
	Orders    []Order    `json:"-"`
	Reviews   []Review   `json:"-"`
}
