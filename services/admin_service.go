package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AdminService covers catalog management. Order administration lives on
// OrderService.
type AdminService struct {
	DB           *gorm.DB
	DishRepo     *repository.DishRepository
	CategoryRepo *repository.CategoryRepository

	log zerolog.Logger
}

func NewAdminService(db *gorm.DB, d *repository.DishRepository, c *repository.CategoryRepository, log zerolog.Logger) *AdminService {
	return &AdminService{
		DB: db, DishRepo: d, CategoryRepo: c,
		log: log.With().Str("svc", "admin").Logger(),
	}
}

// DishIn carries a create or a partial update; nil fields are left alone.
// CategoryID 0 detaches the dish from its category.
type DishIn struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	CategoryID  *uint            `json:"category_id"`
}

type AdminDish struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Category    *CategoryRef    `json:"category"`
}

func newAdminDish(d entity.Dish) AdminDish {
	return AdminDish{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		Category:    categoryRef(d.Category),
	}
}

func (s *AdminService) ListDishes(ctx context.Context) ([]AdminDish, error) {
	dishes, err := s.DishRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dishes: %w", err)
	}
	out := make([]AdminDish, 0, len(dishes))
	for _, d := range dishes {
		out = append(out, newAdminDish(d))
	}
	return out, nil
}

func (s *AdminService) CreateDish(ctx context.Context, in DishIn) (*AdminDish, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalidInput("Dish name is required")
	}
	if in.Price == nil {
		return nil, invalidInput("Price is required")
	}

	var dish entity.Dish
	if err := s.applyDish(ctx, &dish, in); err != nil {
		return nil, err
	}
	if err := s.DishRepo.Create(ctx, &dish); err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}
	return s.reloadDish(ctx, dish.ID)
}

func (s *AdminService) UpdateDish(ctx context.Context, id uint, in DishIn) (*AdminDish, error) {
	dish, err := s.DishRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Dish not found")
		}
		return nil, fmt.Errorf("find dish: %w", err)
	}
	if err := s.applyDish(ctx, dish, in); err != nil {
		return nil, err
	}
	dish.Category = nil
	if err := s.DishRepo.Save(ctx, dish); err != nil {
		return nil, fmt.Errorf("save dish: %w", err)
	}
	return s.reloadDish(ctx, dish.ID)
}

// DeleteDish removes the dish and everything hanging off it, order lines
// included.
func (s *AdminService) DeleteDish(ctx context.Context, id uint) error {
	ok, err := s.DishRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check dish: %w", err)
	}
	if !ok {
		return notFound("Dish not found")
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.DishRepo.DeleteCascade(tx, id)
	})
	if err != nil {
		return fmt.Errorf("delete dish: %w", err)
	}
	s.log.Info().Uint("dish_id", id).Msg("dish deleted")
	return nil
}

func (s *AdminService) applyDish(ctx context.Context, dish *entity.Dish, in DishIn) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return invalidInput("Dish name is required")
		}
		dish.Name = name
	}
	if in.Description != nil {
		dish.Description = *in.Description
	}
	if in.Price != nil {
		price := in.Price.Round(2)
		if !price.IsPositive() {
			return invalidInput("Price must be greater than 0")
		}
		dish.Price = price
	}
	if in.ImageURL != nil {
		dish.ImageURL = *in.ImageURL
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			dish.CategoryID = nil
		} else {
			if _, err := s.CategoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("Category not found")
				}
				return fmt.Errorf("find category: %w", err)
			}
			cid := *in.CategoryID
			dish.CategoryID = &cid
		}
	}
	return nil
}

func (s *AdminService) reloadDish(ctx context.Context, id uint) (*AdminDish, error) {
	d, err := s.DishRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload dish: %w", err)
	}
	v := newAdminDish(*d)
	return &v, nil
}

type CategoryIn struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (s *AdminService) ListCategories(ctx context.Context) ([]CategoryView, error) {
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

func (s *AdminService) CreateCategory(ctx context.Context, in CategoryIn) (*CategoryView, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalidInput("Category name is required")
	}
	name := strings.TrimSpace(*in.Name)
	if err := s.ensureCategoryName(ctx, name, 0); err != nil {
		return nil, err
	}

	c := entity.Category{Name: name}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if err := s.CategoryRepo.Create(ctx, &c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Category name already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	v := newCategoryView(c)
	return &v, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id uint, in CategoryIn) (*CategoryView, error) {
	c, err := s.CategoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Category not found")
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalidInput("Category name is required")
		}
		if name != c.Name {
			if err := s.ensureCategoryName(ctx, name, c.ID); err != nil {
				return nil, err
			}
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if err := s.CategoryRepo.Save(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflict("Category name already exists")
		}
		return nil, fmt.Errorf("save category: %w", err)
	}
	v := newCategoryView(*c)
	return &v, nil
}

// DeleteCategory refuses while any dish still points at the category and
// reports how many do.
func (s *AdminService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.CategoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Category not found")
		}
		return fmt.Errorf("find category: %w", err)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.CategoryRepo.CountDishes(tx, id)
		if err != nil {
			return fmt.Errorf("count dishes: %w", err)
		}
		if n > 0 {
			return conflict(fmt.Sprintf("Cannot delete category: %d dishes still reference it", n))
		}
		if err := s.CategoryRepo.Delete(tx, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

func (s *AdminService) ensureCategoryName(ctx context.Context, name string, excludeID uint) error {
	taken, err := s.CategoryRepo.NameTaken(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if taken {
		return conflict("Category name already exists")
	}
	return nil
}
