package routes

import (
	"net/http"

	"github.com/dono45/dishsystem-by-tongyi/controllers"
	"github.com/dono45/dishsystem-by-tongyi/middlewares"
	"github.com/dono45/dishsystem-by-tongyi/pkg/metrics"
	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Deps is everything the router needs, built once in main.
type Deps struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService
	Cart    *services.CartService
	Orders  *services.OrderService
	Reviews *services.ReviewService
	Admin   *services.AdminService

	Feed        *ws.OrderFeed
	Metrics     *metrics.Metrics
	Log         zerolog.Logger
	CORSOrigins []string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	if d.Metrics != nil {
		r.Use(middlewares.Metrics(d.Metrics))
	}
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	authCtrl := controllers.NewAuthController(d.Auth)
	dishCtrl := controllers.NewDishController(d.Catalog, d.Reviews)
	cartCtrl := controllers.NewCartController(d.Cart)
	orderCtrl := controllers.NewOrderController(d.Orders)
	adminCtrl := controllers.NewAdminController(d.Admin, d.Orders)

	requireUser := middlewares.RequireUser(d.Auth)
	requireAdmin := middlewares.RequireAdmin(d.Auth)

	api := r.Group("/api")

	// Auth (public)
	api.POST("/register", authCtrl.Register)
	api.POST("/login", authCtrl.Login)
	api.POST("/forgot-password", authCtrl.ForgotPassword)

	// Catalog (public)
	api.GET("/dishes", dishCtrl.List)
	api.GET("/dishes/:id", dishCtrl.Detail)
	api.GET("/dishes/:id/reviews", dishCtrl.Reviews)
	api.GET("/categories", dishCtrl.Categories)

	// User
	u := api.Group("", requireUser)
	{
		u.GET("/me", authCtrl.Me)

		u.POST("/dishes/:id/reviews", dishCtrl.AddReview)

		u.GET("/cart", cartCtrl.List)
		u.POST("/cart", cartCtrl.Add)
		u.PUT("/cart/:id", cartCtrl.Update)
		u.DELETE("/cart/:id", cartCtrl.Remove)

		u.POST("/orders", orderCtrl.Create)
		u.GET("/orders", orderCtrl.ListForMe)
		u.GET("/orders/:id", orderCtrl.Detail)
	}

	// Websocket feed authenticates on its own so the token may ride in the query.
	if d.Feed != nil {
		api.GET("/admin/orders/feed", middlewares.WSAdminAuth(d.Auth), d.Feed.HandleWebSocket)
	}

	// Admin (admin only)
	admin := api.Group("/admin", requireAdmin)
	{
		admin.GET("/dishes", adminCtrl.Dishes)
		admin.POST("/dishes", adminCtrl.CreateDish)
		admin.PUT("/dishes/:id", adminCtrl.UpdateDish)
		admin.DELETE("/dishes/:id", adminCtrl.DeleteDish)

		admin.GET("/categories", adminCtrl.Categories)
		admin.POST("/categories", adminCtrl.CreateCategory)
		admin.PUT("/categories/:id", adminCtrl.UpdateCategory)
		admin.DELETE("/categories/:id", adminCtrl.DeleteCategory)

		admin.GET("/orders", adminCtrl.Orders)
		admin.GET("/orders/export", adminCtrl.ExportOrders)
		admin.PUT("/orders/:id/status", adminCtrl.UpdateOrderStatus)
	}
}
