package quota

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/models"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/storage"
	"github.com/menucraft/menucraft/internal/tier"
)

type fixture struct {
	db       *storage.DB
	enforcer *Enforcer
	menus    *repository.MenuRepository
	subs     *repository.SubscriptionRepository
	rests    *repository.RestaurantRepository
	qrCodes  *repository.QRCodeRepository
	locs     *repository.LocationRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

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

	return &fixture{
		db:       db,
		enforcer: NewEnforcer(subs, rests, menus, qrCodes, locs),
		menus:    menus,
		subs:     subs,
		rests:    rests,
		qrCodes:  qrCodes,
		locs:     locs,
	}
}

func (f *fixture) user() uuid.UUID {
	return uuid.New()
}

func (f *fixture) restaurant(t *testing.T, owner uuid.UUID) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		OwnerID: owner,
		Name:    "Trattoria",
		Slug:    "trattoria-" + uuid.New().String()[:8],
	}
	if err := f.rests.Create(context.Background(), restaurant); err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	return restaurant
}

func (f *fixture) menu(t *testing.T, restaurantID uuid.UUID) *models.Menu {
	t.Helper()
	menu := &models.Menu{
		RestaurantID: restaurantID,
		Name:         "Dinner",
		Slug:         "dinner-" + uuid.New().String()[:8],
		IsActive:     true,
	}
	if err := f.menus.Create(context.Background(), menu); err != nil {
		t.Fatalf("create menu: %v", err)
	}
	return menu
}

func (f *fixture) subscribe(t *testing.T, user uuid.UUID, tierName string) {
	t.Helper()
	sub := &models.Subscription{
		UserID: user,
		Tier:   tierName,
		Status: models.SubscriptionActive,
	}
	if err := f.subs.Create(context.Background(), sub); err != nil {
		t.Fatalf("create subscription: %v", err)
	}
}

func TestNewUserWithoutTenantAlwaysAllowed(t *testing.T) {
	f := newFixture(t)
	user := f.user()

	for _, resource := range []tier.Resource{tier.Menus, tier.MenuItems, tier.QRCodes, tier.Locations} {
		result, err := f.enforcer.CheckLimit(context.Background(), user, resource)
		if err != nil {
			t.Fatalf("CheckLimit(%s): %v", resource, err)
		}
		if !result.Allowed || result.Current != 0 {
			t.Fatalf("CheckLimit(%s) = allowed=%t current=%d, want allowed with current 0",
				resource, result.Allowed, result.Current)
		}
	}
}

func TestFreeTierMenuLimit(t *testing.T) {
	f := newFixture(t)
	user := f.user()
	restaurant := f.restaurant(t, user)

	result, err := f.enforcer.CheckLimit(context.Background(), user, tier.Menus)
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if !result.Allowed || result.Current != 0 {
		t.Fatalf("empty tenant: allowed=%t current=%d, want allowed with 0", result.Allowed, result.Current)
	}

	f.menu(t, restaurant.ID)

	result, err = f.enforcer.CheckLimit(context.Background(), user, tier.Menus)
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if result.Allowed {
		t.Fatal("FREE user at menu limit still allowed")
	}
	if result.Current != 1 {
		t.Fatalf("current = %d, want 1", result.Current)
	}
	if !strings.Contains(result.Message, "menus") || !strings.Contains(result.Message, "FREE") {
		t.Fatalf("denial message %q missing resource or tier name", result.Message)
	}
}

func TestProTierUnlimitedMenus(t *testing.T) {
	f := newFixture(t)
	user := f.user()
	f.subscribe(t, user, "PRO")
	restaurant := f.restaurant(t, user)

	for i := 0; i < 25; i++ {
		f.menu(t, restaurant.ID)
	}

	result, err := f.enforcer.CheckLimit(context.Background(), user, tier.Menus)
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("PRO user denied at %d menus despite unlimited plan", result.Current)
	}
	if !result.Limit.IsUnlimited() {
		t.Fatal("PRO menu limit should report unlimited")
	}
}

func TestMenuItemCountSpansCategories(t *testing.T) {
	f := newFixture(t)
	user := f.user()
	restaurant := f.restaurant(t, user)
	menu := f.menu(t, restaurant.ID)

	ctx := context.Background()
	for c := 0; c < 2; c++ {
		category := &models.MenuCategory{MenuID: menu.ID, Name: "Cat"}
		if err := f.menus.CreateCategory(ctx, category); err != nil {
			t.Fatalf("create category: %v", err)
		}
		for i := 0; i < 5; i++ {
			item := &models.MenuItem{CategoryID: category.ID, Name: "Dish", IsAvailable: true}
			if err := f.menus.CreateItem(ctx, item); err != nil {
				t.Fatalf("create item: %v", err)
			}
		}
	}

	// FREE allows 10 menu items; the tenant now has exactly 10 across
	// two categories of one menu
	result, err := f.enforcer.CheckLimit(ctx, user, tier.MenuItems)
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if result.Current != 10 {
		t.Fatalf("current items = %d, want 10", result.Current)
	}
	if result.Allowed {
		t.Fatal("FREE user at item limit still allowed")
	}
}

func TestQRCodeCountJoinsThroughMenus(t *testing.T) {
	f := newFixture(t)
	user := f.user()
	restaurant := f.restaurant(t, user)
	menu := f.menu(t, restaurant.ID)

	ctx := context.Background()
	qr := &models.QRCode{MenuID: menu.ID, Code: "abc12345"}
	if err := f.qrCodes.Create(ctx, qr); err != nil {
		t.Fatalf("create qr code: %v", err)
	}

	// Another tenant's QR codes must not count
	other := f.restaurant(t, f.user())
	otherMenu := f.menu(t, other.ID)
	otherQR := &models.QRCode{MenuID: otherMenu.ID, Code: "zzz99999"}
	if err := f.qrCodes.Create(ctx, otherQR); err != nil {
		t.Fatalf("create other qr code: %v", err)
	}

	result, err := f.enforcer.CheckLimit(ctx, user, tier.QRCodes)
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if result.Current != 1 {
		t.Fatalf("current qr codes = %d, want 1", result.Current)
	}
	if result.Allowed {
		t.Fatal("FREE user at qr code limit still allowed")
	}
}

func TestLocationLimit(t *testing.T) {
	f := newFixture(t)
	user := f.user()
	f.subscribe(t, user, "BASIC")
	restaurant := f.restaurant(t, user)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		loc := &models.Location{RestaurantID: restaurant.ID, Name: "Branch"}
		if err := f.locs.Create(ctx, loc); err != nil {
			t.Fatalf("create location: %v", err)
		}
	}

	result, err := f.enforcer.CheckLimit(ctx, user, tier.Locations)
	if err != nil {
		t.Fatalf("CheckLimit: %v", err)
	}
	if result.Allowed {
		t.Fatal("BASIC user at location limit still allowed")
	}
	if !strings.Contains(result.Message, "locations") || !strings.Contains(result.Message, "BASIC") {
		t.Fatalf("denial message %q missing resource or tier name", result.Message)
	}
}

func TestTierForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user()
	got, err := f.enforcer.TierForUser(ctx, user)
	if err != nil {
		t.Fatalf("TierForUser: %v", err)
	}
	if got != tier.Free {
		t.Fatalf("tier without subscription = %s, want FREE", got)
	}

	f.subscribe(t, user, "PRO")
	got, err = f.enforcer.TierForUser(ctx, user)
	if err != nil {
		t.Fatalf("TierForUser: %v", err)
	}
	if got != tier.Pro {
		t.Fatalf("tier with PRO subscription = %s, want PRO", got)
	}
}

func TestCanceledSubscriptionFallsBackToFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.user()
	f.subscribe(t, user, "PRO")
	if err := f.subs.Cancel(ctx, user); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	got, err := f.enforcer.TierForUser(ctx, user)
	if err != nil {
		t.Fatalf("TierForUser: %v", err)
	}
	if got != tier.Free {
		t.Fatalf("tier after cancel = %s, want FREE", got)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user()

	// Simulate a store outage: the subscription lookup must fail loudly,
	// never degrade into an allowed/denied verdict
	if err := f.db.DB.Migrator().DropTable(&models.Subscription{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	if _, err := f.enforcer.CheckLimit(ctx, user, tier.Menus); err == nil {
		t.Fatal("CheckLimit returned a verdict despite store failure")
	}
	if _, err := f.enforcer.TierForUser(ctx, user); err == nil {
		t.Fatal("TierForUser returned a tier despite store failure")
	}
}
