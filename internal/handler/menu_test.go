package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/cache"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/quota"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/storage"
)

func newMenuRouter(t *testing.T, userID uuid.UUID) (*gin.Engine, *storage.DB) {
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

	subs := repository.NewSubscriptionRepository(db)
	rests := repository.NewRestaurantRepository(db)
	menus := repository.NewMenuRepository(db)
	qrCodes := repository.NewQRCodeRepository(db)
	locs := repository.NewLocationRepository(db)
	enforcer := quota.NewEnforcer(subs, rests, menus, qrCodes, locs)

	h := NewMenuHandler(rests, menus, enforcer, cache.NewMenuCache(nil))

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Next()
	})
	api.POST("/menus", h.Create)
	api.GET("/menus", h.List)

	return router, db
}

func createMenu(t *testing.T, router *gin.Engine, name string) *httptest.ResponseRecorder {
	t.Helper()
	body := strings.NewReader(`{"name": "` + name + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/menus", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateMenuEnforcesFreeTierLimit(t *testing.T) {
	userID := uuid.New()
	router, db := newMenuRouter(t, userID)

	rests := repository.NewRestaurantRepository(db)
	restaurant := &models.Restaurant{OwnerID: userID, Name: "Trattoria", Slug: "trattoria"}
	if err := rests.Create(context.Background(), restaurant); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}

	if w := createMenu(t, router, "Dinner"); w.Code != http.StatusCreated {
		t.Fatalf("first menu: status %d, body %s", w.Code, w.Body.String())
	}

	w := createMenu(t, router, "Lunch")
	if w.Code != http.StatusForbidden {
		t.Fatalf("second menu: status %d, want 403", w.Code)
	}

	var resp struct {
		Error   string `json:"error"`
		Tier    string `json:"tier"`
		Current int    `json:"current"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Tier != "FREE" || resp.Current != 1 {
		t.Fatalf("verdict = %+v", resp)
	}
	if !strings.Contains(resp.Error, "menus") {
		t.Fatalf("error %q does not name the resource", resp.Error)
	}
}

func TestCreateMenuWithoutRestaurant(t *testing.T) {
	router, _ := newMenuRouter(t, uuid.New())

	// Quota passes (no tenant, nothing counted) but creation needs a
	// restaurant to attach to
	w := createMenu(t, router, "Dinner")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404 (quota must not deny, creation must not succeed): %s",
			w.Code, w.Body.String())
	}
}
