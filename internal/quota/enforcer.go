// Package quota decides whether a user's subscription tier permits creating
// one more unit of a resource. It is a pure read-and-decide query: the
// enforcer owns no state beyond the static tier table and never mutates
// anything. Callers abort the creation when a check comes back denied.
package quota

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/tier"
)

// Result is the answer to a single quota check. Produced fresh on every
// call, never persisted.
type Result struct {
	Allowed bool       `json:"allowed"`
	Tier    tier.Name  `json:"tier"`
	Limit   tier.Limit `json:"limit"`
	Current int        `json:"current"`
	Message string     `json:"message,omitempty"`
}

type Enforcer struct {
	subscriptions *repository.SubscriptionRepository
	restaurants   *repository.RestaurantRepository
	menus         *repository.MenuRepository
	qrCodes       *repository.QRCodeRepository
	locations     *repository.LocationRepository
}

func NewEnforcer(
	subscriptions *repository.SubscriptionRepository,
	restaurants *repository.RestaurantRepository,
	menus *repository.MenuRepository,
	qrCodes *repository.QRCodeRepository,
	locations *repository.LocationRepository,
) *Enforcer {
	return &Enforcer{
		subscriptions: subscriptions,
		restaurants:   restaurants,
		menus:         menus,
		qrCodes:       qrCodes,
		locations:     locations,
	}
}

// TierForUser resolves the user's tier from their active subscription.
// Users without one are on FREE. Store errors propagate; the caller must
// not treat a failed lookup as any particular tier.
func (e *Enforcer) TierForUser(ctx context.Context, userID uuid.UUID) (tier.Name, error) {
	sub, err := e.subscriptions.FindActiveByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	if sub == nil {
		return tier.Free, nil
	}

	return tier.Name(sub.Tier), nil
}

// CheckLimit reports whether the user may create one more unit of the given
// resource category under their tier. A user with no restaurant yet is
// always allowed: their first creation provisions the tenant itself.
func (e *Enforcer) CheckLimit(ctx context.Context, userID uuid.UUID, resource tier.Resource) (*Result, error) {
	tierName, err := e.TierForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	limit := tier.PlanOf(tierName).LimitFor(resource)

	restaurant, err := e.restaurants.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return &Result{Allowed: true, Tier: tierName, Limit: limit, Current: 0}, nil
	}

	var current int64
	switch resource {
	case tier.Menus:
		current, err = e.menus.CountByRestaurant(ctx, restaurant.ID)
	case tier.MenuItems:
		current, err = e.menus.CountItemsByRestaurant(ctx, restaurant.ID)
	case tier.QRCodes:
		current, err = e.qrCodes.CountByRestaurant(ctx, restaurant.ID)
	case tier.Locations:
		current, err = e.locations.CountByRestaurant(ctx, restaurant.ID)
	default:
		return nil, fmt.Errorf("unknown resource category: %q", resource)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Allowed: limit.Allows(int(current)),
		Tier:    tierName,
		Limit:   limit,
		Current: int(current),
	}

	if !result.Allowed {
		result.Message = fmt.Sprintf(
			"You have reached the limit of %d %s on the %s plan. Upgrade your plan to add more.",
			limit.Value(), resource.Label(), tierName,
		)
	}

	return result, nil
}
