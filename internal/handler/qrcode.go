package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/config"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/quota"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/tier"
	qrcode "github.com/skip2/go-qrcode"
)

type QRCodeHandler struct {
	restaurants *repository.RestaurantRepository
	menus       *repository.MenuRepository
	qrCodes     *repository.QRCodeRepository
	quota       *quota.Enforcer
	config      *config.Config
}

func NewQRCodeHandler(
	restaurants *repository.RestaurantRepository,
	menus *repository.MenuRepository,
	qrCodes *repository.QRCodeRepository,
	enforcer *quota.Enforcer,
	cfg *config.Config,
) *QRCodeHandler {
	return &QRCodeHandler{
		restaurants: restaurants,
		menus:       menus,
		qrCodes:     qrCodes,
		quota:       enforcer,
		config:      cfg,
	}
}

// Handles POST /api/qrcodes
func (h *QRCodeHandler) Create(c *gin.Context) {
	if !checkQuota(c, h.quota, tier.QRCodes) {
		return
	}

	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	var req struct {
		MenuID string `json:"menu_id" binding:"required"`
		Label  string `json:"label"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	menuID, err := uuid.Parse(req.MenuID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu_id"})
		return
	}

	ctx := c.Request.Context()
	menu, err := h.menus.FindByID(ctx, menuID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if menu == nil || menu.RestaurantID != restaurant.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
		return
	}

	qr := &models.QRCode{
		MenuID: menu.ID,
		Code:   shortCode(4),
		Label:  req.Label,
	}

	if err := h.qrCodes.Create(ctx, qr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"qr_code":  qr,
		"scan_url": h.scanURL(qr.Code),
	})
}

// Handles GET /api/qrcodes
func (h *QRCodeHandler) List(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	codes, err := h.qrCodes.ListByRestaurant(ctx, restaurant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, codes)
}

// Handles GET /api/qrcodes/:id/image - PNG of the scan URL
func (h *QRCodeHandler) Image(c *gin.Context) {
	qr, ok := h.ownedQRCode(c)
	if !ok {
		return
	}

	size := 512
	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s >= 64 && s <= 2048 {
			size = s
		}
	}

	png, err := qrcode.Encode(h.scanURL(qr.Code), qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// Handles DELETE /api/qrcodes/:id
func (h *QRCodeHandler) Delete(c *gin.Context) {
	qr, ok := h.ownedQRCode(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.qrCodes.Delete(ctx, qr.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "QR code deleted successfully"})
}

func (h *QRCodeHandler) ownedQRCode(c *gin.Context) (*models.QRCode, bool) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return nil, false
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}

	ctx := c.Request.Context()
	qr, err := h.qrCodes.FindByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if qr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "QR code not found"})
		return nil, false
	}

	menu, err := h.menus.FindByID(ctx, qr.MenuID)
	if err != nil || menu == nil || menu.RestaurantID != restaurant.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "QR code not found"})
		return nil, false
	}

	return qr, true
}

func (h *QRCodeHandler) scanURL(code string) string {
	return h.config.PublicBaseURL + "/q/" + code
}
