package repository

import (
	"context"

	"github.com/dono45/dishsystem-by-tongyi/entity"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var out []entity.Category
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*entity.Category, error) {
	var c entity.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// NameTaken reports whether another category (not excludeID) already uses name.
func (r *CategoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var cnt int64
	q := r.DB.WithContext(ctx).Model(&entity.Category{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) Save(ctx context.Context, c *entity.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

// CountDishes counts dishes still pointing at the category.
func (r *CategoryRepository) CountDishes(tx *gorm.DB, id uint) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.Dish{}).Where("category_id = ?", id).Count(&cnt).Error
	return cnt, err
}

func (r *CategoryRepository) Delete(tx *gorm.DB, id uint) error {
	return tx.Unscoped().Delete(&entity.Category{}, id).Error
}
