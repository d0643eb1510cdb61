package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/cache"
	"github.com/menucraft/menucraft/internal/export"
	"github.com/menucraft/menucraft/internal/metrics"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/quota"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/tier"
)

type MenuHandler struct {
	restaurants *repository.RestaurantRepository
	menus       *repository.MenuRepository
	quota       *quota.Enforcer
	cache       *cache.MenuCache
}

func NewMenuHandler(
	restaurants *repository.RestaurantRepository,
	menus *repository.MenuRepository,
	enforcer *quota.Enforcer,
	menuCache *cache.MenuCache,
) *MenuHandler {
	return &MenuHandler{
		restaurants: restaurants,
		menus:       menus,
		quota:       enforcer,
		cache:       menuCache,
	}
}

// Writes the quota check verdict for a denied creation. Returns true when
// the caller may proceed.
func checkQuota(c *gin.Context, enforcer *quota.Enforcer, resource tier.Resource) bool {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return false
	}

	result, err := enforcer.CheckLimit(c.Request.Context(), userID, resource)
	if err != nil {
		// A failed quota check never defaults to allowed
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}

	if !result.Allowed {
		metrics.QuotaDeniedTotal.WithLabelValues(string(resource)).Inc()
		c.JSON(http.StatusForbidden, gin.H{
			"error":   result.Message,
			"tier":    result.Tier,
			"limit":   result.Limit,
			"current": result.Current,
		})
		return false
	}

	return true
}

// Handles POST /api/menus
func (h *MenuHandler) Create(c *gin.Context) {
	if !checkQuota(c, h.quota, tier.Menus) {
		return
	}

	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Currency    string `json:"currency"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menu := &models.Menu{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Slug:         slugify(req.Name),
		Description:  req.Description,
		IsActive:     true,
	}
	if req.Currency != "" {
		menu.Currency = req.Currency
	}

	ctx := c.Request.Context()
	if err := h.menus.Create(ctx, menu); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, menu)
}

// Handles GET /api/menus
func (h *MenuHandler) List(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	menus, err := h.menus.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, menus)
}

// Handles GET /api/menus/:id
func (h *MenuHandler) Get(c *gin.Context) {
	menu, ok := h.ownedMenu(c)
	if !ok {
		return
	}

	// Reload with categories and items for the editor view
	full, err := h.menus.FindBySlug(c.Request.Context(), menu.Slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, full)
}

// Handles PUT /api/menus/:id
func (h *MenuHandler) Update(c *gin.Context) {
	menu, ok := h.ownedMenu(c)
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Currency    *string `json:"currency"`
		IsActive    *bool   `json:"is_active"`
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
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	ctx := c.Request.Context()
	if err := h.menus.Update(ctx, menu.ID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(ctx, menu.Slug)
	c.JSON(http.StatusOK, gin.H{"message": "Menu updated successfully"})
}

// Handles DELETE /api/menus/:id
func (h *MenuHandler) Delete(c *gin.Context) {
	menu, ok := h.ownedMenu(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.menus.Delete(ctx, menu.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(ctx, menu.Slug)
	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted successfully"})
}

// Handles GET /api/menus/:id/export.pdf
func (h *MenuHandler) ExportPDF(c *gin.Context) {
	menu, ok := h.ownedMenu(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	restaurant, err := h.restaurants.FindByID(ctx, menu.RestaurantID)
	if err != nil || restaurant == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurant"})
		return
	}

	full, err := h.menus.FindBySlug(ctx, menu.Slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pdf, err := export.MenuPDF(restaurant, full)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+menu.Slug+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Handles POST /api/menus/:id/categories
func (h *MenuHandler) CreateCategory(c *gin.Context) {
	menu, ok := h.ownedMenu(c)
	if !ok {
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required"`
		SortOrder int    `json:"sort_order"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.MenuCategory{
		MenuID:    menu.ID,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}

	ctx := c.Request.Context()
	if err := h.menus.CreateCategory(ctx, category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(ctx, menu.Slug)
	c.JSON(http.StatusCreated, category)
}

// Handles POST /api/categories/:id/items
func (h *MenuHandler) CreateItem(c *gin.Context) {
	if !checkQuota(c, h.quota, tier.MenuItems) {
		return
	}

	category, menu, ok := h.ownedCategory(c)
	if !ok {
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		SortOrder   int     `json:"sort_order"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &models.MenuItem{
		CategoryID:  category.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: true,
		SortOrder:   req.SortOrder,
	}

	ctx := c.Request.Context()
	if err := h.menus.CreateItem(ctx, item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(ctx, menu.Slug)
	c.JSON(http.StatusCreated, item)
}

// Handles PUT /api/items/:id
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	item, menu, ok := h.ownedItem(c)
	if !ok {
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		IsAvailable *bool    `json:"is_available"`
		SortOrder   *int     `json:"sort_order"`
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
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	ctx := c.Request.Context()
	if err := h.menus.UpdateItem(ctx, item.ID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(ctx, menu.Slug)
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully"})
}

// Handles DELETE /api/items/:id
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	item, menu, ok := h.ownedItem(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.menus.DeleteItem(ctx, item.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Invalidate(ctx, menu.Slug)
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// ownedMenu resolves :id to a menu belonging to the caller's restaurant.
func (h *MenuHandler) ownedMenu(c *gin.Context) (*models.Menu, bool) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return nil, false
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}

	menu, err := h.menus.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if menu == nil || menu.RestaurantID != restaurant.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
		return nil, false
	}

	return menu, true
}

func (h *MenuHandler) ownedCategory(c *gin.Context) (*models.MenuCategory, *models.Menu, bool) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return nil, nil, false
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, nil, false
	}

	ctx := c.Request.Context()
	category, err := h.menus.FindCategoryByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return nil, nil, false
	}

	menu, err := h.menus.FindByID(ctx, category.MenuID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	if menu == nil || menu.RestaurantID != restaurant.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return nil, nil, false
	}

	return category, menu, true
}

func (h *MenuHandler) ownedItem(c *gin.Context) (*models.MenuItem, *models.Menu, bool) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return nil, nil, false
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, nil, false
	}

	ctx := c.Request.Context()
	item, err := h.menus.FindItemByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return nil, nil, false
	}

	category, err := h.menus.FindCategoryByID(ctx, item.CategoryID)
	if err != nil || category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return nil, nil, false
	}

	menu, err := h.menus.FindByID(ctx, category.MenuID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	if menu == nil || menu.RestaurantID != restaurant.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return nil, nil, false
	}

	return item, menu, true
}
