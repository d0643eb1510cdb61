// Package tier holds the static subscription plan table: per-tier resource
// limits, feature flags and pricing. The table is fixed configuration and is
// never mutated at runtime.
package tier

import (
	"fmt"
	"strconv"
)

type Name string

const (
	Free       Name = "FREE"
	Basic      Name = "BASIC"
	Pro        Name = "PRO"
	Enterprise Name = "ENTERPRISE"
)

func Valid(n Name) bool {
	switch n {
	case Free, Basic, Pro, Enterprise:
		return true
	}
	return false
}

// Resource is a tier-limited resource category.
type Resource string

const (
	Menus     Resource = "menus"
	MenuItems Resource = "menuItems"
	QRCodes   Resource = "qrCodes"
	Locations Resource = "locations"
)

// Limit is a resource ceiling: either a finite count or unlimited.
// Modeled as a tagged value instead of a float infinity so comparisons
// cannot go wrong.
type Limit struct {
	value     int
	unlimited bool
}

func LimitOf(n int) Limit {
	return Limit{value: n}
}

func Unlimited() Limit {
	return Limit{unlimited: true}
}

// Allows reports whether one more resource may be created on top of current.
// Being exactly at a finite limit blocks the next creation.
func (l Limit) Allows(current int) bool {
	return l.unlimited || current < l.value
}

func (l Limit) IsUnlimited() bool {
	return l.unlimited
}

// Value returns the finite ceiling; only meaningful when not unlimited.
func (l Limit) Value() int {
	return l.value
}

func (l Limit) String() string {
	if l.unlimited {
		return "unlimited"
	}
	return strconv.Itoa(l.value)
}

func (l Limit) MarshalJSON() ([]byte, error) {
	if l.unlimited {
		return []byte(`"unlimited"`), nil
	}
	return []byte(strconv.Itoa(l.value)), nil
}

// Plan is one row of the tier table.
type Plan struct {
	Name Name `json:"name"`

	MaxMenus     Limit `json:"max_menus"`
	MaxMenuItems Limit `json:"max_menu_items"`
	MaxQRCodes   Limit `json:"max_qr_codes"`
	MaxLocations Limit `json:"max_locations"`

	CustomDomain      bool `json:"custom_domain"`
	AdvancedAnalytics bool `json:"advanced_analytics"`
	RemoveBranding    bool `json:"remove_branding"`
	PrioritySupport   bool `json:"priority_support"`

	// Monthly price, EUR. VAT is the 19% share on top of the net price.
	PriceNet float64 `json:"price_net"`
	VAT      float64 `json:"vat"`
}

func (p Plan) PriceTotal() float64 {
	return p.PriceNet + p.VAT
}

func (p Plan) LimitFor(r Resource) Limit {
	switch r {
	case Menus:
		return p.MaxMenus
	case MenuItems:
		return p.MaxMenuItems
	case QRCodes:
		return p.MaxQRCodes
	case Locations:
		return p.MaxLocations
	}
	// Unknown categories never allow anything
	return LimitOf(0)
}

var plans = map[Name]Plan{
	Free: {
		Name:         Free,
		MaxMenus:     LimitOf(1),
		MaxMenuItems: LimitOf(10),
		MaxQRCodes:   LimitOf(1),
		MaxLocations: LimitOf(1),
	},
	Basic: {
		Name:         Basic,
		MaxMenus:     LimitOf(3),
		MaxMenuItems: LimitOf(100),
		MaxQRCodes:   LimitOf(10),
		MaxLocations: LimitOf(3),
		PriceNet:     29.00,
		VAT:          5.51,
	},
	Pro: {
		Name:              Pro,
		MaxMenus:          Unlimited(),
		MaxMenuItems:      Unlimited(),
		MaxQRCodes:        Unlimited(),
		MaxLocations:      LimitOf(10),
		CustomDomain:      true,
		AdvancedAnalytics: true,
		RemoveBranding:    true,
		PriceNet:          92.00,
		VAT:               17.48,
	},
	Enterprise: {
		Name:              Enterprise,
		MaxMenus:          Unlimited(),
		MaxMenuItems:      Unlimited(),
		MaxQRCodes:        Unlimited(),
		MaxLocations:      Unlimited(),
		CustomDomain:      true,
		AdvancedAnalytics: true,
		RemoveBranding:    true,
		PrioritySupport:   true,
		PriceNet:          249.00,
		VAT:               47.31,
	},
}

// PlanOf returns the plan for a tier name. Unknown names fall back to FREE
// so a corrupt subscription row can never grant more than the lowest tier.
func PlanOf(n Name) Plan {
	if p, ok := plans[n]; ok {
		return p
	}
	return plans[Free]
}

// All returns the plans in ascending order.
func All() []Plan {
	return []Plan{plans[Free], plans[Basic], plans[Pro], plans[Enterprise]}
}

// Label is the human-readable form of a resource category,
// used in quota denial messages.
func (r Resource) Label() string {
	switch r {
	case Menus:
		return "menus"
	case MenuItems:
		return "menu items"
	case QRCodes:
		return "QR codes"
	case Locations:
		return "locations"
	}
	return string(r)
}

func ParseResource(s string) (Resource, error) {
	switch Resource(s) {
	case Menus, MenuItems, QRCodes, Locations:
		return Resource(s), nil
	}
	return "", fmt.Errorf("unknown resource category: %q", s)
}
