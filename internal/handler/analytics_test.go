package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/service"
	"github.com/menucraft/menucraft/internal/storage"
)

type analyticsFixture struct {
	db          *storage.DB
	restaurants *repository.RestaurantRepository
	menus       *repository.MenuRepository
	qrCodes     *repository.QRCodeRepository
	scans       *repository.ScanRepository
	handler     *AnalyticsHandler
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	restaurants := repository.NewRestaurantRepository(db)
	menus := repository.NewMenuRepository(db)
	qrCodes := repository.NewQRCodeRepository(db)
	scans := repository.NewScanRepository(db)

	return &analyticsFixture{
		db:          db,
		restaurants: restaurants,
		menus:       menus,
		qrCodes:     qrCodes,
		scans:       scans,
		handler: NewAnalyticsHandler(restaurants, menus, qrCodes, scans,
			service.NewAnalyticsService(scans, qrCodes)),
	}
}

// routerAs binds the analytics routes with the given caller identity.
func (f *analyticsFixture) routerAs(userID uuid.UUID) *gin.Engine {
	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Next()
	})
	api.GET("/analytics/qrcodes/:id", f.handler.GetQRCodeStats)
	return router
}

// tenant provisions a user with a restaurant, one menu and one QR code.
func (f *analyticsFixture) tenant(t *testing.T, slug string) (uuid.UUID, *models.QRCode) {
	t.Helper()
	ctx := context.Background()

	owner := uuid.New()
	restaurant := &models.Restaurant{OwnerID: owner, Name: slug, Slug: slug}
	if err := f.restaurants.Create(ctx, restaurant); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	menu := &models.Menu{RestaurantID: restaurant.ID, Name: "Dinner", Slug: slug + "-dinner", IsActive: true}
	if err := f.menus.Create(ctx, menu); err != nil {
		t.Fatalf("create menu: %v", err)
	}

	qr := &models.QRCode{MenuID: menu.ID, Code: slug + "-code"}
	if err := f.qrCodes.Create(ctx, qr); err != nil {
		t.Fatalf("create qr code: %v", err)
	}

	return owner, qr
}

func getStats(router *gin.Engine, qrID uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/qrcodes/"+qrID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQRCodeStatsRequiresOwnership(t *testing.T) {
	f := newAnalyticsFixture(t)

	victim, victimQR := f.tenant(t, "victim")
	attacker, _ := f.tenant(t, "attacker")

	if err := f.scans.Create(context.Background(), &models.ScanEvent{
		QRCodeID:  victimQR.ID,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("record scan: %v", err)
	}

	// The owner sees their own counts
	if w := getStats(f.routerAs(victim), victimQR.ID); w.Code != http.StatusOK {
		t.Fatalf("owner: status %d, body %s", w.Code, w.Body.String())
	}

	// Another tenant must not be able to read them
	w := getStats(f.routerAs(attacker), victimQR.ID)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant read: status %d, body %s", w.Code, w.Body.String())
	}
}

func TestQRCodeStatsUnknownID(t *testing.T) {
	f := newAnalyticsFixture(t)
	owner, _ := f.tenant(t, "solo")

	w := getStats(f.routerAs(owner), uuid.New())
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown qr code: status %d, body %s", w.Code, w.Body.String())
	}
}
