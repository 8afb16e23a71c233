package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/repository"
)

type ReviewService struct {
	Repo     *repository.ReviewRepository
	DishRepo *repository.DishRepository
}

func NewReviewService(r *repository.ReviewRepository, d *repository.DishRepository) *ReviewService {
	return &ReviewService{Repo: r, DishRepo: d}
}

// AddReview always appends; the same user may review a dish many times.
func (s *ReviewService) AddReview(ctx context.Context, userID, dishID uint, rating *int, comment string) (*entity.Review, error) {
	if rating == nil {
		return nil, invalidInput("Rating is required")
	}
	if *rating < 1 || *rating > 5 {
		return nil, invalidInput("Rating must be an integer between 1 and 5")
	}
	ok, err := s.DishRepo.Exists(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("check dish: %w", err)
	}
	if !ok {
		return nil, notFound("Dish not found")
	}

	rev := entity.Review{
		UserID:  userID,
		DishID:  dishID,
		Rating:  *rating,
		Comment: strings.TrimSpace(comment),
	}
	if err := s.Repo.Create(ctx, &rev); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return &rev, nil
}
