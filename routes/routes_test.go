package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dono45/dishsystem-by-tongyi/configs"
	"github.com/dono45/dishsystem-by-tongyi/entity"
	"github.com/dono45/dishsystem-by-tongyi/pkg/metrics"
	"github.com/dono45/dishsystem-by-tongyi/repository"
	"github.com/dono45/dishsystem-by-tongyi/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const secret = "routes-test-secret"

type APISuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	adminToken string
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	decimal.MarshalJSONWithoutQuotes = true
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := zerolog.Nop()

	db, err := configs.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), log)
	s.Require().NoError(err)
	s.Require().NoError(configs.Migrate(db))
	cfg := &configs.Config{AdminUsername: "admin", AdminEmail: "admin@example.com", AdminPassword: "admin123"}
	s.Require().NoError(configs.SeedAdmin(db, cfg, log))
	s.db = db

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	dishRepo := repository.NewDishRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	m := metrics.New()

	s.router = gin.New()
	RegisterRoutes(s.router, Deps{
		Auth:        services.NewAuthService(userRepo, secret, time.Hour, log),
		Catalog:     services.NewCatalogService(dishRepo, categoryRepo, reviewRepo),
		Cart:        services.NewCartService(db, cartRepo, dishRepo),
		Orders:      services.NewOrderService(db, orderRepo, cartRepo, dishRepo, log, m),
		Reviews:     services.NewReviewService(reviewRepo, dishRepo),
		Admin:       services.NewAdminService(db, dishRepo, categoryRepo, log),
		Metrics:     m,
		Log:         log,
		CORSOrigins: []string{"*"},
	})

	s.adminToken = s.login("admin", "admin123")
}

func (s *APISuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

type envelope struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *APISuite) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *APISuite) login(username, password string) string {
	w, env := s.do(http.MethodPost, "/api/login", "", gin.H{"username": username, "password": password})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var out struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &out))
	return out.AccessToken
}

func (s *APISuite) register(username string) string {
	w, _ := s.do(http.MethodPost, "/api/register", "", gin.H{
		"username": username, "email": username + "@example.com", "password": "pw",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return s.login(username, "pw")
}

func (s *APISuite) createDish(name string, price float64, categoryID uint) uint {
	body := gin.H{"name": name, "price": price}
	if categoryID != 0 {
		body["category_id"] = categoryID
	}
	w, env := s.do(http.MethodPost, "/api/admin/dishes", s.adminToken, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		ID uint `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &out))
	return out.ID
}

func (s *APISuite) TestCheckoutFlow() {
	noodles := s.createDish("Noodles", 10.00, 0)
	dumplings := s.createDish("Dumplings", 5.50, 0)
	tok := s.register("alice")

	w, _ := s.do(http.MethodPost, "/api/cart", tok, gin.H{"dish_id": noodles, "quantity": 2})
	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	w, _ = s.do(http.MethodPost, "/api/cart", tok, gin.H{"dish_id": dumplings})
	s.Equal(http.StatusCreated, w.Code)

	w, env := s.do(http.MethodGet, "/api/cart", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var lines []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &lines))
	s.Len(lines, 2)

	w, env = s.do(http.MethodPost, "/api/orders", tok, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		OrderID     uint    `json:"order_id"`
		TotalAmount float64 `json:"total_amount"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &created))
	s.NotZero(created.OrderID)
	s.Equal(25.5, created.TotalAmount)

	w, env = s.do(http.MethodPost, "/api/orders", tok, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Cart is empty", env.Message)

	w, env = s.do(http.MethodGet, "/api/orders", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var orders []struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
		Items  []struct {
			Quantity int     `json:"quantity"`
			Price    float64 `json:"price"`
		} `json:"items"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &orders))
	s.Require().Len(orders, 1)
	s.Equal("pending", orders[0].Status)
	s.Len(orders[0].Items, 2)

	other := s.register("mallory")
	w, _ = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.OrderID), other, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPut, fmt.Sprintf("/api/admin/orders/%d/status", created.OrderID), s.adminToken, gin.H{"status": "confirmed"})
	s.Equal(http.StatusOK, w.Code)
	w, env = s.do(http.MethodPut, fmt.Sprintf("/api/admin/orders/%d/status", created.OrderID), s.adminToken, gin.H{"status": "lost"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Invalid status", env.Message)
}

func (s *APISuite) TestRegisterDuplicate() {
	s.register("bob")
	w, env := s.do(http.MethodPost, "/api/register", "", gin.H{
		"username": "bob", "email": "bob2@example.com", "password": "pw",
	})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Username already exists", env.Message)
	s.False(env.OK)

	var n int64
	s.db.Model(&entity.User{}).Where("username = ?", "bob").Count(&n)
	s.EqualValues(1, n)
}

func (s *APISuite) TestLoginFailure() {
	w, env := s.do(http.MethodPost, "/api/login", "", gin.H{"username": "admin", "password": "nope"})
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("Invalid credentials", env.Message)
}

func (s *APISuite) TestInvalidIdentityOnEveryProtectedEndpoint() {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-number",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	bad, err := tok.SignedString([]byte(secret))
	s.Require().NoError(err)

	endpoints := [][2]string{
		{http.MethodGet, "/api/me"},
		{http.MethodPost, "/api/dishes/1/reviews"},
		{http.MethodGet, "/api/cart"},
		{http.MethodPost, "/api/cart"},
		{http.MethodPut, "/api/cart/1"},
		{http.MethodDelete, "/api/cart/1"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/1"},
		{http.MethodGet, "/api/admin/dishes"},
		{http.MethodPost, "/api/admin/dishes"},
		{http.MethodPut, "/api/admin/dishes/1"},
		{http.MethodDelete, "/api/admin/dishes/1"},
		{http.MethodGet, "/api/admin/categories"},
		{http.MethodPost, "/api/admin/categories"},
		{http.MethodPut, "/api/admin/categories/1"},
		{http.MethodDelete, "/api/admin/categories/1"},
		{http.MethodGet, "/api/admin/orders"},
		{http.MethodGet, "/api/admin/orders/export"},
		{http.MethodPut, "/api/admin/orders/1/status"},
	}
	for _, ep := range endpoints {
		w, env := s.do(ep[0], ep[1], bad, gin.H{})
		s.Equal(http.StatusUnprocessableEntity, w.Code, "%s %s", ep[0], ep[1])
		s.Equal("Invalid user ID in token", env.Message, "%s %s", ep[0], ep[1])
	}
}

func (s *APISuite) TestAccessTiers() {
	w, _ := s.do(http.MethodGet, "/api/cart", "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/cart", "garbage", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	tok := s.register("carol")
	w, env := s.do(http.MethodGet, "/api/admin/orders", tok, nil)
	s.Equal(http.StatusForbidden, w.Code)
	s.Equal("Admin access required", env.Message)

	w, env = s.do(http.MethodGet, "/api/me", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var me map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &me))
	s.Equal("carol", me["username"])
	s.Equal(false, me["is_admin"])
	s.NotContains(me, "password")
}

func (s *APISuite) TestCategoryDeleteGuard() {
	w, env := s.do(http.MethodPost, "/api/admin/categories", s.adminToken, gin.H{"name": "Sichuan"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var cat struct {
		ID uint `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &cat))

	w, env = s.do(http.MethodPost, "/api/admin/categories", s.adminToken, gin.H{"name": "Sichuan"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Category name already exists", env.Message)

	dish := s.createDish("Mapo Tofu", 18.8, cat.ID)
	s.createDish("Kung Pao Chicken", 28.8, cat.ID)

	w, env = s.do(http.MethodDelete, fmt.Sprintf("/api/admin/categories/%d", cat.ID), s.adminToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(env.Message, "2 dishes")

	w, env = s.do(http.MethodGet, fmt.Sprintf("/api/dishes/%d", dish), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var detail map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &detail))
	s.Equal(5.0, detail["averageRating"])
	s.EqualValues(0, detail["reviewCount"])
	s.Equal(18.8, detail["price"])
}

func (s *APISuite) TestReviews() {
	dish := s.createDish("Har Gow", 22.8, 0)
	tok := s.register("dan")

	w, env := s.do(http.MethodPost, fmt.Sprintf("/api/dishes/%d/reviews", dish), tok, gin.H{"comment": "meh"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Rating is required", env.Message)

	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/dishes/%d/reviews", dish), tok, gin.H{"rating": 4.5})
	s.Equal(http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/dishes/%d/reviews", dish+100), tok, gin.H{"rating": 4})
	s.Equal(http.StatusNotFound, w.Code)

	for _, r := range []int{5, 4, 5} {
		w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/dishes/%d/reviews", dish), tok, gin.H{"rating": r})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	w, env = s.do(http.MethodGet, "/api/dishes", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Require().Len(list, 1)
	s.Equal(4.7, list[0]["rating"])
	s.EqualValues(3, list[0]["reviewCount"])

	w, env = s.do(http.MethodGet, fmt.Sprintf("/api/dishes/%d/reviews", dish), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var reviews []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &reviews))
	s.Len(reviews, 3)
}

func (s *APISuite) TestExportAndMetrics() {
	w, _ := s.do(http.MethodGet, "/api/admin/orders/export", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Type"), "spreadsheetml")
	s.NotEmpty(w.Body.Bytes())

	w, _ = s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "dishsystem_http_requests_total")
	s.NotEmpty(rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{Log: zerolog.Nop()})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
