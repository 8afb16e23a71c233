package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dono45/dishsystem-by-tongyi/configs"
	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

var bg = context.Background()

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := configs.Open("sqlite", dsn, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, configs.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db *gorm.DB

	users      *repository.UserRepository
	categories *repository.CategoryRepository
	dishes     *repository.DishRepository
	carts      *repository.CartRepository
	orders     *repository.OrderRepository
	reviews    *repository.ReviewRepository
}

func newFixture(t *testing.T) *fixture {
	db := newTestDB(t)
	return &fixture{
		db:         db,
		users:      repository.NewUserRepository(db),
		categories: repository.NewCategoryRepository(db),
		dishes:     repository.NewDishRepository(db),
		carts:      repository.NewCartRepository(db),
		orders:     repository.NewOrderRepository(db),
		reviews:    repository.NewReviewRepository(db),
	}
}

func (f *fixture) user(t *testing.T, name string) *entity.User {
	t.Helper()
	u := &entity.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) category(t *testing.T, name string) *entity.Category {
	t.Helper()
	c := &entity.Category{Name: name}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func (f *fixture) dish(t *testing.T, name, price string, cat *entity.Category) *entity.Dish {
	t.Helper()
	d := &entity.Dish{Name: name, Price: decimal.RequireFromString(price)}
	if cat != nil {
		d.CategoryID = &cat.ID
	}
	require.NoError(t, f.db.Omit("Category").Create(d).Error)
	return d
}

func (f *fixture) review(t *testing.T, u *entity.User, d *entity.Dish, rating int) {
	t.Helper()
	require.NoError(t, f.reviews.Create(bg, &entity.Review{UserID: u.ID, DishID: d.ID, Rating: rating}))
}

func (f *fixture) cartService() *CartService {
	return NewCartService(f.db, f.carts, f.dishes)
}

func (f *fixture) orderService(pubs ...OrderPublisher) *OrderService {
	return NewOrderService(f.db, f.orders, f.carts, f.dishes, zerolog.Nop(), pubs...)
}

type recordingPublisher struct{ events []OrderEvent }

func (p *recordingPublisher) Publish(ev OrderEvent) { p.events = append(p.events, ev) }
