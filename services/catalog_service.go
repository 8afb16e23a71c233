package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultRating is shown for dishes nobody has reviewed yet. It is a product
// choice, not a placeholder for missing data.
const DefaultRating = 5.0

// CatalogService serves the public, read-only side of the menu.
type CatalogService struct {
	DishRepo     *repository.DishRepository
	CategoryRepo *repository.CategoryRepository
	ReviewRepo   *repository.ReviewRepository
}

func NewCatalogService(d *repository.DishRepository, c *repository.CategoryRepository, r *repository.ReviewRepository) *CatalogService {
	return &CatalogService{DishRepo: d, CategoryRepo: c, ReviewRepo: r}
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type DishSummary struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Rating      float64         `json:"rating"`
	ReviewCount int64           `json:"reviewCount"`
	Category    *CategoryRef    `json:"category,omitempty"`
}

type DishDetail struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int64           `json:"reviewCount"`
	Category      *CategoryRef    `json:"category,omitempty"`
}

type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type ReviewView struct {
	ID        uint      `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	User      UserRef   `json:"user"`
}

type CategoryView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AverageRating is the mean rating rounded to one decimal, or DefaultRating
// when there are no reviews. Rounding is round-half-even on the float value.
func AverageRating(count, sum int64) float64 {
	if count == 0 {
		return DefaultRating
	}
	mean := float64(sum) / float64(count)
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(mean, 'f', 1, 64), 64)
	return rounded
}

func (s *CatalogService) ListDishes(ctx context.Context) ([]DishSummary, error) {
	dishes, err := s.DishRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	ids := make([]uint, 0, len(dishes))
	for _, d := range dishes {
		ids = append(ids, d.ID)
	}
	stats, err := s.ReviewRepo.RatingStats(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}

	out := make([]DishSummary, 0, len(dishes))
	for _, d := range dishes {
		st := stats[d.ID]
		out = append(out, DishSummary{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Price:       d.Price,
			ImageURL:    d.ImageURL,
			Rating:      AverageRating(st.Count, st.Sum),
			ReviewCount: st.Count,
			Category:    categoryRef(d.Category),
		})
	}
	return out, nil
}

func (s *CatalogService) GetDish(ctx context.Context, id uint) (*DishDetail, error) {
	d, err := s.DishRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Dish not found")
		}
		return nil, fmt.Errorf("find dish: %w", err)
	}
	stats, err := s.ReviewRepo.RatingStats(ctx, []uint{d.ID})
	if err != nil {
		return nil, fmt.Errorf("rating stats: %w", err)
	}
	st := stats[d.ID]
	return &DishDetail{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		ImageURL:      d.ImageURL,
		AverageRating: AverageRating(st.Count, st.Sum),
		ReviewCount:   st.Count,
		Category:      categoryRef(d.Category),
	}, nil
}

// ListReviews returns the dish's reviews in insertion order. An unknown dish
// simply has none.
func (s *CatalogService) ListReviews(ctx context.Context, dishID uint) ([]ReviewView, error) {
	reviews, err := s.ReviewRepo.ListByDish(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	out := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, newReviewView(r))
	}
	return out, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]CategoryView, error) {
	cats, err := s.CategoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]CategoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, newCategoryView(c))
	}
	return out, nil
}

func categoryRef(c *entity.Category) *CategoryRef {
	if c == nil {
		return nil
	}
	return &CategoryRef{ID: c.ID, Name: c.Name}
}

func newCategoryView(c entity.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

func newReviewView(r entity.Review) ReviewView {
	return ReviewView{
		ID:        r.ID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		User:      UserRef{ID: r.User.ID, Username: r.User.Username},
	}
}
