package repository

import (
	"context"
	"errors"

	"github.com/dono45/dishsystem-by-tongyi/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLineLimit is returned when a merge would push a line past its limit.
var ErrLineLimit = errors.New("cart line quantity limit")

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// ListForUser returns the user's cart lines with the dish loaded.
func (r *CartRepository) ListForUser(ctx context.Context, userID uint) ([]entity.CartItem, error) {
	var items []entity.CartItem
	err := r.DB.WithContext(ctx).
		Preload("Dish").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// LockForUser reads the cart inside tx with row locks where the dialect has
// them (SQLite ignores the clause).
func (r *CartRepository) LockForUser(tx *gorm.DB, userID uint) ([]entity.CartItem, error) {
	var items []entity.CartItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

// UpsertItem merges into an existing line with the same dish and
// specifications, otherwise inserts a new one. The merged quantity may not
// exceed limit. A concurrent first insert of the same line surfaces as
// gorm.ErrDuplicatedKey.
func (r *CartRepository) UpsertItem(tx *gorm.DB, row *entity.CartItem, limit int) error {
	var exist entity.CartItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND dish_id = ? AND specifications = ?", row.UserID, row.DishID, row.Specifications).
		First(&exist).Error
	if err == nil {
		add := row.Quantity
		if exist.Quantity > limit-add {
			return ErrLineLimit
		}
		res := tx.Model(&entity.CartItem{}).
			Where("id = ?", exist.ID).
			Update("quantity", gorm.Expr("quantity + ?", add))
		if res.Error != nil {
			return res.Error
		}
		*row = exist
		row.Quantity += add
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Omit("User", "Dish").Create(row).Error
}

func (r *CartRepository) FindForUser(tx *gorm.DB, userID, itemID uint) (*entity.CartItem, error) {
	var it entity.CartItem
	if err := tx.Where("id = ? AND user_id = ?", itemID, userID).First(&it).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// UpdateQty overwrites the quantity; qty <= 0 removes the line. Returns the
// number of rows touched so callers can tell a foreign or missing item.
func (r *CartRepository) UpdateQty(tx *gorm.DB, userID, itemID uint, qty int) (int64, error) {
	if qty <= 0 {
		return r.RemoveItem(tx, userID, itemID)
	}
	res := tx.Model(&entity.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", qty)
	return res.RowsAffected, res.Error
}

func (r *CartRepository) RemoveItem(tx *gorm.DB, userID, itemID uint) (int64, error) {
	res := tx.Unscoped().
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&entity.CartItem{})
	return res.RowsAffected, res.Error
}

// ConsumeItem deletes a line only if it still holds the quantity that was
// read, so a concurrent checkout or add is detected instead of lost.
func (r *CartRepository) ConsumeItem(tx *gorm.DB, it entity.CartItem) (bool, error) {
	res := tx.Unscoped().
		Where("id = ? AND user_id = ? AND quantity = ?", it.ID, it.UserID, it.Quantity).
		Delete(&entity.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
