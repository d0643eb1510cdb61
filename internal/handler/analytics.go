package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/export"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/service"
)

type AnalyticsHandler struct {
	restaurants *repository.RestaurantRepository
	menus       *repository.MenuRepository
	qrCodes     *repository.QRCodeRepository
	scans       *repository.ScanRepository
	service     *service.AnalyticsService
}

func NewAnalyticsHandler(
	restaurants *repository.RestaurantRepository,
	menus *repository.MenuRepository,
	qrCodes *repository.QRCodeRepository,
	scans *repository.ScanRepository,
	analytics *service.AnalyticsService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		restaurants: restaurants,
		menus:       menus,
		qrCodes:     qrCodes,
		scans:       scans,
		service:     analytics,
	}
}

// Handles GET /api/analytics/summary
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	summary, err := h.service.GetSummary(ctx, restaurant.ID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Handles GET /api/analytics/timeseries
func (h *AnalyticsHandler) GetTimeSeries(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	series, err := h.service.GetTimeSeries(ctx, restaurant.ID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, series)
}

// Handles GET /api/analytics/qrcodes/:id
func (h *AnalyticsHandler) GetQRCodeStats(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Scan counts are tenant data; the QR code must belong to the caller
	ctx := c.Request.Context()
	qr, err := h.qrCodes.FindByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if qr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "QR code not found"})
		return
	}
	menu, err := h.menus.FindByID(ctx, qr.MenuID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if menu == nil || menu.RestaurantID != restaurant.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "QR code not found"})
		return
	}

	count, err := h.service.GetQRCodeStats(ctx, id, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qr_code_id": id,
		"scans":      count,
	})
}

// Handles GET /api/analytics/scans
func (h *AnalyticsHandler) GetScans(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := 100
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	ctx := c.Request.Context()
	scans, err := h.scans.FindByRestaurant(ctx, restaurant.ID, from, to, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scans":  scans,
		"limit":  limit,
		"offset": offset,
	})
}

// Handles GET /api/analytics/export - CSV download of scan events
func (h *AnalyticsHandler) Export(c *gin.Context) {
	restaurant, ok := restaurantOf(c, h.restaurants)
	if !ok {
		return
	}

	from, to, err := parseTimeRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	scans, err := h.scans.FindByRestaurant(ctx, restaurant.ID, from, to, 10000, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="scans.csv"`)
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)

	if err := export.WriteScanCSV(c.Writer, scans); err != nil {
		// Headers already sent, nothing sensible left to do
		return
	}
}
