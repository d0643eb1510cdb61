package tier

import (
	"math"
	"testing"
)

func TestLimitAllows(t *testing.T) {
	limit := LimitOf(3)

	if !limit.Allows(0) || !limit.Allows(2) {
		t.Fatal("finite limit rejects counts below it")
	}
	if limit.Allows(3) {
		t.Fatal("being exactly at the limit must block the next creation")
	}
	if limit.Allows(4) {
		t.Fatal("limit allows count above it")
	}
}

func TestUnlimitedAllowsAnyFiniteCount(t *testing.T) {
	limit := Unlimited()

	for _, current := range []int{0, 1, 999, math.MaxInt32} {
		if !limit.Allows(current) {
			t.Fatalf("unlimited rejects current = %d", current)
		}
	}
}

func TestLimitMarshalJSON(t *testing.T) {
	finite, err := LimitOf(5).MarshalJSON()
	if err != nil || string(finite) != "5" {
		t.Fatalf("finite limit marshals to %s (%v)", finite, err)
	}

	unlimited, err := Unlimited().MarshalJSON()
	if err != nil || string(unlimited) != `"unlimited"` {
		t.Fatalf("unlimited marshals to %s (%v)", unlimited, err)
	}
}

func TestPlanTable(t *testing.T) {
	free := PlanOf(Free)
	if free.MaxMenus != LimitOf(1) {
		t.Fatalf("FREE menu limit = %v, want 1", free.MaxMenus)
	}

	pro := PlanOf(Pro)
	for _, r := range []Resource{Menus, MenuItems, QRCodes} {
		if !pro.LimitFor(r).IsUnlimited() {
			t.Fatalf("PRO %s limit should be unlimited", r)
		}
	}
	if pro.LimitFor(Locations).IsUnlimited() {
		t.Fatal("PRO locations limit should be finite")
	}

	enterprise := PlanOf(Enterprise)
	for _, r := range []Resource{Menus, MenuItems, QRCodes, Locations} {
		if !enterprise.LimitFor(r).IsUnlimited() {
			t.Fatalf("ENTERPRISE %s limit should be unlimited", r)
		}
	}
}

func TestUnknownTierFallsBackToFree(t *testing.T) {
	plan := PlanOf(Name("PLATINUM"))
	if plan.Name != Free {
		t.Fatalf("unknown tier resolved to %s, want FREE", plan.Name)
	}
}

func TestPriceTotals(t *testing.T) {
	tests := []struct {
		name  Name
		total float64
	}{
		{Free, 0},
		{Basic, 34},
		{Pro, 109},
		{Enterprise, 296},
	}

	for _, tt := range tests {
		got := PlanOf(tt.name).PriceTotal()
		if math.Abs(got-tt.total) > 1.0 {
			t.Errorf("%s total = %.2f, want ~%.0f", tt.name, got, tt.total)
		}
	}
}

func TestVATIsNineteenPercent(t *testing.T) {
	for _, plan := range All() {
		want := plan.PriceNet * 0.19
		if math.Abs(plan.VAT-want) > 0.01 {
			t.Errorf("%s VAT = %.2f, want %.2f", plan.Name, plan.VAT, want)
		}
	}
}

func TestParseResource(t *testing.T) {
	for _, valid := range []string{"menus", "menuItems", "qrCodes", "locations"} {
		if _, err := ParseResource(valid); err != nil {
			t.Errorf("ParseResource(%q) failed: %v", valid, err)
		}
	}

	if _, err := ParseResource("tables"); err == nil {
		t.Error("ParseResource accepted unknown category")
	}
}
