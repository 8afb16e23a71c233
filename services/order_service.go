package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is emitted after a checkout or status change has committed.
type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     uint               `json:"order_id"`
	UserID      uint               `json:"user_id"`
	Status      entity.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	At          time.Time          `json:"at"`
}

// OrderPublisher receives committed order events. Publish must not block.
type OrderPublisher interface {
	Publish(ev OrderEvent)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	CartRepo *repository.CartRepository
	DishRepo *repository.DishRepository

	log        zerolog.Logger
	publishers []OrderPublisher
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	dishRepo *repository.DishRepository,
	log zerolog.Logger,
	publishers ...OrderPublisher,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, CartRepo: cartRepo, DishRepo: dishRepo,
		log:        log.With().Str("svc", "order").Logger(),
		publishers: publishers,
	}
}

type CreateOrderRes struct {
	OrderID     uint            `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CreateOrder turns the user's cart into a pending order in one transaction:
// the order row, one line per cart item with the dish price of this instant,
// and the removal of the consumed cart lines. Any failure leaves no order and
// an untouched cart.
func (s *OrderService) CreateOrder(ctx context.Context, userID uint) (*CreateOrderRes, error) {
	var out CreateOrderRes
	var created entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items, err := s.CartRepo.LockForUser(tx, userID)
		if err != nil {
			return fmt.Errorf("read cart: %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		dishIDs := make([]uint, 0, len(items))
		for _, it := range items {
			dishIDs = append(dishIDs, it.DishID)
		}
		dishes, err := s.DishRepo.CurrentPrices(tx, dishIDs)
		if err != nil {
			return fmt.Errorf("read prices: %w", err)
		}

		total := decimal.Zero
		for _, it := range items {
			d, ok := dishes[it.DishID]
			if !ok {
				return notFound("Dish not found")
			}
			total = total.Add(d.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}

		order := entity.Order{
			UserID:      userID,
			TotalAmount: total,
			Status:      entity.OrderStatusPending,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, it := range items {
			oi := entity.OrderItem{
				OrderID:        order.ID,
				DishID:         it.DishID,
				Quantity:       it.Quantity,
				Price:          dishes[it.DishID].Price,
				Specifications: it.Specifications,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		for _, it := range items {
			ok, err := s.CartRepo.ConsumeItem(tx, it)
			if err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
			if !ok {
				return conflict("Cart changed, please retry")
			}
		}

		created = order
		out = CreateOrderRes{OrderID: order.ID, TotalAmount: order.TotalAmount}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Uint("order_id", created.ID).
		Uint("user_id", userID).
		Str("total_amount", created.TotalAmount.StringFixed(2)).
		Msg("order created")
	s.publish(EventOrderCreated, created)
	return &out, nil
}

type OrderDishRef struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type OrderLine struct {
	Dish           OrderDishRef    `json:"dish"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Specifications string          `json:"specifications"`
}

type OrderView struct {
	ID          uint               `json:"id"`
	User        *UserRef           `json:"user,omitempty"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      entity.OrderStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
	Items       []OrderLine        `json:"items"`
}

// ListOrders returns only the caller's orders with their frozen lines.
func (s *OrderService) ListOrders(ctx context.Context, userID uint) ([]OrderView, error) {
	orders, err := s.Repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return newOrderViews(orders, false), nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*OrderView, error) {
	o, err := s.Repo.GetOrderForUser(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Order not found")
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	v := newOrderView(*o, false)
	return &v, nil
}

// ListAllOrders is the admin listing, customers included.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]OrderView, error) {
	orders, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	return newOrderViews(orders, true), nil
}

// UpdateStatus lets an admin move an order to any valid status; transitions
// are not restricted to moving forward.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	st := entity.OrderStatus(status)
	if !st.Valid() {
		return invalidInput("Invalid status")
	}
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Order not found")
		}
		return fmt.Errorf("get order: %w", err)
	}
	if _, err := s.Repo.UpdateStatus(ctx, orderID, st); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().
		Uint("order_id", o.ID).
		Str("from", string(o.Status)).
		Str("to", string(st)).
		Msg("order status changed")
	o.Status = st
	s.publish(EventOrderStatusChanged, *o)
	return nil
}

func (s *OrderService) publish(typ string, o entity.Order) {
	ev := OrderEvent{
		Type:        typ,
		OrderID:     o.ID,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		At:          time.Now().UTC(),
	}
	for _, p := range s.publishers {
		p.Publish(ev)
	}
}

func newOrderViews(orders []entity.Order, withUser bool) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderView(o, withUser))
	}
	return out
}

func newOrderView(o entity.Order, withUser bool) OrderView {
	v := OrderView{
		ID:          o.ID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		Items:       make([]OrderLine, 0, len(o.OrderItems)),
	}
	if withUser {
		v.User = &UserRef{ID: o.User.ID, Username: o.User.Username}
	}
	for _, it := range o.OrderItems {
		v.Items = append(v.Items, OrderLine{
			Dish:           OrderDishRef{ID: it.Dish.ID, Name: it.Dish.Name, Price: it.Dish.Price},
			Quantity:       it.Quantity,
			Price:          it.Price,
			Specifications: it.Specifications,
		})
	}
	return v
}
