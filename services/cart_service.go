package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxLineQuantity bounds a single cart line.
const MaxLineQuantity = 999

type CartService struct {
	DB       *gorm.DB
	CartRepo *repository.CartRepository
	DishRepo *repository.DishRepository
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, dr *repository.DishRepository) *CartService {
	return &CartService{DB: db, CartRepo: cr, DishRepo: dr}
}

type CartDish struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

type CartLine struct {
	ID             uint     `json:"id"`
	Dish           CartDish `json:"dish"`
	Quantity       int      `json:"quantity"`
	Specifications string   `json:"specifications"`
}

func (s *CartService) ListItems(ctx context.Context, userID uint) ([]CartLine, error) {
	items, err := s.CartRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	out := make([]CartLine, 0, len(items))
	for _, it := range items {
		out = append(out, CartLine{
			ID: it.ID,
			Dish: CartDish{
				ID: it.Dish.ID, Name: it.Dish.Name, Price: it.Dish.Price, ImageURL: it.Dish.ImageURL,
			},
			Quantity:       it.Quantity,
			Specifications: it.Specifications,
		})
	}
	return out, nil
}

// AddItem adds qty more of the dish. The same dish with the same
// specifications lands on one line, so a retried call adds again.
func (s *CartService) AddItem(ctx context.Context, userID, dishID uint, qty int, specifications string) (*entity.CartItem, error) {
	if qty <= 0 {
		return nil, invalidInput("Quantity must be a positive integer")
	}
	if qty > MaxLineQuantity {
		return nil, lineLimit()
	}
	ok, err := s.DishRepo.Exists(ctx, dishID)
	if err != nil {
		return nil, fmt.Errorf("check dish: %w", err)
	}
	if !ok {
		return nil, notFound("Dish not found")
	}

	// a lost race on the first insert of a line is retried as a merge
	var line *entity.CartItem
	for attempt := 0; attempt < 2; attempt++ {
		line = &entity.CartItem{
			UserID: userID, DishID: dishID, Quantity: qty, Specifications: specifications,
		}
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.CartRepo.UpsertItem(tx, line, MaxLineQuantity)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	switch {
	case errors.Is(err, repository.ErrLineLimit):
		return nil, lineLimit()
	case err != nil:
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return line, nil
}

func lineLimit() error {
	return invalidInput(fmt.Sprintf("Quantity per item cannot exceed %d", MaxLineQuantity))
}

// UpdateItem sets the quantity of one of the user's lines; qty <= 0 removes it.
// Lines of other users are reported as not found.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, qty int) error {
	if qty > MaxLineQuantity {
		return lineLimit()
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.CartRepo.FindForUser(tx, userID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Cart item not found")
			}
			return err
		}
		_, err := s.CartRepo.UpdateQty(tx, userID, itemID, qty)
		return err
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.CartRepo.RemoveItem(tx, userID, itemID)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound("Cart item not found")
		}
		return nil
	})
}
