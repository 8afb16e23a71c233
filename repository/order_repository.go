package repository

import (
	"context"

	"github.com/dono45/dishsystem-by-tongyi/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Omit("User", "OrderItems").Create(o).Error
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.WithContext(ctx).First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListForUser returns the user's orders, newest first, each with its frozen
// line items and their dishes.
func (r *OrderRepository) ListForUser(ctx context.Context, userID uint) ([]entity.Order, error) {
	var out []entity.Order
	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

// GetOrderForUser hides orders of other users behind ErrRecordNotFound.
func (r *OrderRepository) GetOrderForUser(ctx context.Context, userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.withItems(ctx).Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListAll is the admin view: every order with its customer and items.
func (r *OrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	var out []entity.Order
	err := r.withItems(ctx).
		Preload("User").
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uint, status entity.OrderStatus) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("OrderItems.Dish")
}

// ---------------- Order Items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Omit("Order", "Dish").Create(oi).Error
}
