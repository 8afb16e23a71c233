package repository

import (
	"context"

	"github.com/dono45/dishsystem-by-tongyi/entity"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(ctx context.Context, rev *entity.Review) error {
	return r.DB.WithContext(ctx).Omit("User", "Dish").Create(rev).Error
}

// ListByDish returns reviews in insertion order with the author loaded.
func (r *ReviewRepository) ListByDish(ctx context.Context, dishID uint) ([]entity.Review, error) {
	var out []entity.Review
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("dish_id = ?", dishID).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

type RatingStat struct {
	DishID uint
	Count  int64
	Sum    int64
}

// RatingStats aggregates ratings per dish in one query. Dishes without
// reviews are absent from the map.
func (r *ReviewRepository) RatingStats(ctx context.Context, dishIDs []uint) (map[uint]RatingStat, error) {
	out := make(map[uint]RatingStat, len(dishIDs))
	if len(dishIDs) == 0 {
		return out, nil
	}
	var rows []RatingStat
	err := r.DB.WithContext(ctx).Model(&entity.Review{}).
		Select("dish_id, COUNT(*) AS count, SUM(rating) AS sum").
		Where("dish_id IN ?", dishIDs).
		Group("dish_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.DishID] = row
	}
	return out, nil
}
