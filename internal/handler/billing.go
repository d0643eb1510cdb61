package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/quota"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/tier"
)

// Surfaces the plan table and the caller's subscription. Actual payment
// processing happens in the external billing provider, not here.
type BillingHandler struct {
	subscriptions *repository.SubscriptionRepository
	quota         *quota.Enforcer
}

func NewBillingHandler(subscriptions *repository.SubscriptionRepository, enforcer *quota.Enforcer) *BillingHandler {
	return &BillingHandler{
		subscriptions: subscriptions,
		quota:         enforcer,
	}
}

// Handles GET /api/billing/plans
func (h *BillingHandler) Plans(c *gin.Context) {
	plans := tier.All()

	out := make([]gin.H, 0, len(plans))
	for _, plan := range plans {
		out = append(out, gin.H{
			"name":               plan.Name,
			"max_menus":          plan.MaxMenus,
			"max_menu_items":     plan.MaxMenuItems,
			"max_qr_codes":       plan.MaxQRCodes,
			"max_locations":      plan.MaxLocations,
			"custom_domain":      plan.CustomDomain,
			"advanced_analytics": plan.AdvancedAnalytics,
			"remove_branding":    plan.RemoveBranding,
			"priority_support":   plan.PrioritySupport,
			"price_net":          plan.PriceNet,
			"vat":                plan.VAT,
			"price_total":        plan.PriceTotal(),
		})
	}

	c.JSON(http.StatusOK, out)
}

// Handles GET /api/billing/subscription
func (h *BillingHandler) Subscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	ctx := c.Request.Context()
	tierName, err := h.quota.TierForUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subscriptions.FindActiveByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tier":         tierName,
		"subscription": sub,
	})
}

// Handles PUT /api/billing/subscription
func (h *BillingHandler) ChangeTier(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Tier string `json:"tier" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !tier.Valid(tier.Name(req.Tier)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tier"})
		return
	}

	ctx := c.Request.Context()
	sub, err := h.subscriptions.SetTier(ctx, userID, req.Tier)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sub)
}
