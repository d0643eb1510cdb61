package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/repository"
)

type RestaurantHandler struct {
	restaurants *repository.RestaurantRepository
}

func NewRestaurantHandler(restaurants *repository.RestaurantRepository) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants}
}

// Handles POST /api/restaurants - provisions the caller's tenant
func (h *RestaurantHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Address     string `json:"address"`
		Phone       string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	existing, err := h.restaurants.FindByOwner(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a restaurant"})
		return
	}

	restaurant := &models.Restaurant{
		OwnerID:     userID,
		Name:        req.Name,
		Slug:        slugify(req.Name),
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
	}

	if err := h.restaurants.Create(ctx, restaurant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, restaurant)
}

// Handles GET /api/restaurants/me
func (h *RestaurantHandler) Get(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, restaurant)
}

// Handles PUT /api/restaurants/me
func (h *RestaurantHandler) Update(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Address     *string `json:"address"`
		Phone       *string `json:"phone"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	ctx := c.Request.Context()
	if err := h.restaurants.Update(ctx, restaurant.ID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated successfully"})
}
