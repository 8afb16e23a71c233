package repository

import (
	"context"

	"github.com/dono45/dishsystem-by-tongyi/entity"

	"gorm.io/gorm"
)

type DishRepository struct {
	DB *gorm.DB
}

func NewDishRepository(db *gorm.DB) *DishRepository {
	return &DishRepository{DB: db}
}

// List returns every dish with its category loaded.
func (r *DishRepository) List(ctx context.Context) ([]entity.Dish, error) {
	var dishes []entity.Dish
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Order("id ASC").
		Find(&dishes).Error
	return dishes, err
}

func (r *DishRepository) FindByID(ctx context.Context, id uint) (*entity.Dish, error) {
	var dish entity.Dish
	err := r.DB.WithContext(ctx).
		Preload("Category").
		First(&dish, id).Error
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *DishRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var cnt int64
	if err := r.DB.WithContext(ctx).Model(&entity.Dish{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *DishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	return r.DB.WithContext(ctx).Omit("Category").Create(dish).Error
}

func (r *DishRepository) Save(ctx context.Context, dish *entity.Dish) error {
	return r.DB.WithContext(ctx).Omit("Category").Save(dish).Error
}

// DeleteCascade removes the dish with its cart lines, order lines and reviews.
func (r *DishRepository) DeleteCascade(tx *gorm.DB, id uint) error {
	if err := tx.Unscoped().Where("dish_id = ?", id).Delete(&entity.CartItem{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("dish_id = ?", id).Delete(&entity.OrderItem{}).Error; err != nil {
		return err
	}
	if err := tx.Unscoped().Where("dish_id = ?", id).Delete(&entity.Review{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&entity.Dish{}, id).Error
}

// CurrentPrices reads the live price of each dish inside tx.
func (r *DishRepository) CurrentPrices(tx *gorm.DB, ids []uint) (map[uint]entity.Dish, error) {
	out := make(map[uint]entity.Dish, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var dishes []entity.Dish
	if err := tx.Select("id, name, price").Where("id IN ?", ids).Find(&dishes).Error; err != nil {
		return nil, err
	}
	for _, d := range dishes {
		out[d.ID] = d
	}
	return out, nil
}
