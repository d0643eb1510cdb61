package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/quota"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/tier"
)

type LocationHandler struct {
	restaurants *repository.RestaurantRepository
	locations   *repository.LocationRepository
	quota       *quota.Enforcer
}

func NewLocationHandler(
	restaurants *repository.RestaurantRepository,
	locations *repository.LocationRepository,
	enforcer *quota.Enforcer,
) *LocationHandler {
	return &LocationHandler{
		restaurants: restaurants,
		locations:   locations,
		quota:       enforcer,
	}
}

// Handles POST /api/locations
func (h *LocationHandler) Create(c *gin.Context) {
	if !checkQuota(c, h.quota, tier.Locations) {
		return
	}

	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	var req struct {
		Name    string `json:"name" binding:"required"`
		Address string `json:"address"`
		City    string `json:"city"`
		Country string `json:"country"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location := &models.Location{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
	}

	ctx := c.Request.Context()
	if err := h.locations.Create(ctx, location); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, location)
}

// Handles GET /api/locations
func (h *LocationHandler) List(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	locations, err := h.locations.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, locations)
}

// Handles PUT /api/locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	location, ok := h.ownedLocation(c)
	if !ok {
		return
	}

	var req struct {
		Name    *string `json:"name"`
		Address *string `json:"address"`
		City    *string `json:"city"`
		Country *string `json:"country"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	ctx := c.Request.Context()
	if err := h.locations.Update(ctx, location.ID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location updated successfully"})
}

// Handles DELETE /api/locations/:id
func (h *LocationHandler) Delete(c *gin.Context) {
	location, ok := h.ownedLocation(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.locations.Delete(ctx, location.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Location deleted successfully"})
}

func (h *LocationHandler) ownedLocation(c *gin.Context) (*models.Location, bool) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return nil, false
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}

	location, err := h.locations.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if location == nil || location.RestaurantID != restaurant.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return nil, false
	}

	return location, true
}
