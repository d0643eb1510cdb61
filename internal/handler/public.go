package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/cache"
	"github.com/menucraft/menucraft/internal/metrics"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/scan"
)

// Serves the unauthenticated guest-facing endpoints. These live outside the
// /api namespace and are never rate limited.
type PublicHandler struct {
	menus    *repository.MenuRepository
	qrCodes  *repository.QRCodeRepository
	cache    *cache.MenuCache
	recorder *scan.Recorder
}

func NewPublicHandler(
	menus *repository.MenuRepository,
	qrCodes *repository.QRCodeRepository,
	menuCache *cache.MenuCache,
	recorder *scan.Recorder,
) *PublicHandler {
	return &PublicHandler{
		menus:    menus,
		qrCodes:  qrCodes,
		cache:    menuCache,
		recorder: recorder,
	}
}

// Handles GET /m/:slug - the public menu a guest sees after scanning
func (h *PublicHandler) GetMenu(c *gin.Context) {
	slug := c.Param("slug")
	ctx := c.Request.Context()

	if payload, hit := h.cache.Get(ctx, slug); hit {
		c.Data(http.StatusOK, "application/json", payload)
		return
	}

	menu, err := h.menus.FindBySlug(ctx, slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if menu == nil || !menu.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
		return
	}

	payload, err := json.Marshal(menu)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.Set(ctx, slug, payload)
	c.Data(http.StatusOK, "application/json", payload)
}

// Handles GET /q/:code - records the scan and redirects to the menu
func (h *PublicHandler) Scan(c *gin.Context) {
	code := c.Param("code")
	ctx := c.Request.Context()

	qr, err := h.qrCodes.FindByCode(ctx, code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if qr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown code"})
		return
	}

	menu, err := h.menus.FindByID(ctx, qr.MenuID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if menu == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu not found"})
		return
	}

	var referer *string
	if r := c.Request.Referer(); r != "" {
		referer = &r
	}

	h.recorder.Record(models.ScanEvent{
		QRCodeID:  qr.ID,
		Timestamp: time.Now().UTC(),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   referer,
	})
	metrics.ScansRecordedTotal.Inc()

	c.Redirect(http.StatusFound, "/m/"+menu.Slug)
}
