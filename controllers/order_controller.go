package controllers

import (
	"github.com/dono45/dishsystem-by-tongyi/pkg/resp"
	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct{ Orders *services.OrderService }

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Orders: s}
}

// POST /api/orders
func (oc *OrderController) Create(c *gin.Context) {
	out, err := oc.Orders.CreateOrder(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, out)
}

// GET /api/orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	orders, err := oc.Orders.ListOrders(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /api/orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.GetOrder(c.Request.Context(), utils.CurrentUserID(c), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, order)
}
