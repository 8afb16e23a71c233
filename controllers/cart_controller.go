package controllers

import (
	"net/http"

	"github.com/dono45/dishsystem-by-tongyi/pkg/resp"
	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/gin-gonic/gin"
)

type CartController struct{ Cart *services.CartService }

func NewCartController(s *services.CartService) *CartController { return &CartController{Cart: s} }

type AddToCartRequest struct {
	DishID         *uint  `json:"dish_id"`
	Quantity       *int   `json:"quantity"`
	Specifications string `json:"specifications"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity"`
}

// GET /api/cart
func (cc *CartController) List(c *gin.Context) {
	items, err := cc.Cart.ListItems(c.Request.Context(), utils.CurrentUserID(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, items)
}

// POST /api/cart
func (cc *CartController) Add(c *gin.Context) {
	var req AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.DishID == nil {
		resp.BadRequest(c, "Dish ID is required")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	line, err := cc.Cart.AddItem(c.Request.Context(), utils.CurrentUserID(c), *req.DishID, qty, req.Specifications)
	if err != nil {
		resp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "message": "Item added to cart", "data": gin.H{
		"id": line.ID, "dish_id": line.DishID, "quantity": line.Quantity, "specifications": line.Specifications,
	}})
}

// PUT /api/cart/:id
func (cc *CartController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateCartRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity == nil {
		resp.BadRequest(c, "Quantity is required")
		return
	}
	if err := cc.Cart.UpdateItem(c.Request.Context(), utils.CurrentUserID(c), id, *req.Quantity); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "Cart updated")
}

// DELETE /api/cart/:id
func (cc *CartController) Remove(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := cc.Cart.RemoveItem(c.Request.Context(), utils.CurrentUserID(c), id); err != nil {
		resp.Error(c, err)
		return
	}
	resp.Message(c, http.StatusOK, "Item removed from cart")
}
