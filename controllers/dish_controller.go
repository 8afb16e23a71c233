package controllers

import (
	"net/http"

	"github.com/dono45/dishsystem-by-tongyi/pkg/resp"
	"github.com/dono45/dishsystem-by-tongyi/services"
	"github.com/dono45/dishsystem-by-tongyi/utils"

	"github.com/gin-gonic/gin"
)

type DishController struct {
	Catalog   *services.CatalogService
	ReviewSvc *services.ReviewService
}

func NewDishController(cat *services.CatalogService, rev *services.ReviewService) *DishController {
	return &DishController{Catalog: cat, ReviewSvc: rev}
}

// GET /api/dishes
func (d *DishController) List(c *gin.Context) {
	dishes, err := d.Catalog.ListDishes(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, dishes)
}

// GET /api/dishes/:id
func (d *DishController) Detail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dish, err := d.Catalog.GetDish(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, dish)
}

// GET /api/categories
func (d *DishController) Categories(c *gin.Context) {
	cats, err := d.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, cats)
}

// GET /api/dishes/:id/reviews
func (d *DishController) Reviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviews, err := d.Catalog.ListReviews(c.Request.Context(), id)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, reviews)
}

type AddReviewRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

// POST /api/dishes/:id/reviews
func (d *DishController) AddReview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// a fractional or non-numeric rating fails to bind
		resp.BadRequest(c, "Rating must be an integer between 1 and 5")
		return
	}
	rev, err := d.ReviewSvc.AddReview(c.Request.Context(), utils.CurrentUserID(c), id, req.Rating, req.Comment)
	if err != nil {
		resp.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "message": "Review added successfully", "data": gin.H{"id": rev.ID}})
}
