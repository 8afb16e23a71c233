package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dono45/dishsystem-by-tongyi/pkg/resp"
	"github.com/dono45/dishsystem-by-tongyi/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Admin    *services.AdminService
	OrderSvc *services.OrderService
}

func NewAdminController(a *services.AdminService, o *services.OrderService) *AdminController {
	return &AdminController{Admin: a, OrderSvc: o}
}

// ===== Dishes =====

// GET /api/admin/dishes
func (ac *AdminController) Dishes(c *gin.Context) {
	dishes, err := ac.Admin.ListDishes(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, dishes)
}

// POST /api/admin/dishes
func (ac *AdminController) CreateDish(c *gin.Context) {
	var in services.DishIn
	if !bindJSON(c, &in) {
		return
	}
	dish, err := ac.Admin.CreateDish(c.Request.Context(), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, dish)
}

// PUT /api/admin/dishes/:id
func (ac *AdminController) UpdateDish(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.DishIn
	if !bindJSON(c, &in) {
		return
	}
	dish, err := ac.Admin.UpdateDish(c.Request.Context(), id, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, dish)
}

// DELETE /api/admin/dishes/:id
func (ac *AdminController) DeleteDish(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ac.Admin.DeleteDish(c.Request.Context(), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "Dish deleted successfully")
}

// ===== Categories =====

// GET /api/admin/categories
func (ac *AdminController) Categories(c *gin.Context) {
	cats, err := ac.Admin.ListCategories(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cats)
}

// POST /api/admin/categories
func (ac *AdminController) CreateCategory(c *gin.Context) {
	var in services.CategoryIn
	if !bindJSON(c, &in) {
		return
	}
	cat, err := ac.Admin.CreateCategory(c.Request.Context(), in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, cat)
}

// PUT /api/admin/categories/:id
func (ac *AdminController) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in services.CategoryIn
	if !bindJSON(c, &in) {
		return
	}
	cat, err := ac.Admin.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cat)
}

// DELETE /api/admin/categories/:id
func (ac *AdminController) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ac.Admin.DeleteCategory(c.Request.Context(), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "Category deleted successfully")
}

// ===== Orders =====

// GET /api/admin/orders
func (ac *AdminController) Orders(c *gin.Context) {
	orders, err := ac.OrderSvc.ListAllOrders(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, orders)
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/admin/orders/:id/status
func (ac *AdminController) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := ac.OrderSvc.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "Order status updated successfully")
}

// GET /api/admin/orders/export
func (ac *AdminController) ExportOrders(c *gin.Context) {
	file, err := ac.OrderSvc.ExportOrders(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	name := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
