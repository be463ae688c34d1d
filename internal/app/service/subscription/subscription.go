// Package subscription classifies orders as subscription-relevant and
// groups them per buyer for the member subscription reports.
package subscription

import (
	"time"

	"github.com/samber/lo"

	"github.com/fatflowers/siteexport/internal/models"
	"github.com/fatflowers/siteexport/pkg/types"
)

// UnnamedPlan is the plan-name fallback at the end of the resolution chain
// (index hit, then the order's own planName, then this literal).
const UnnamedPlan = "Unnamed Plan"

// IsSubscription reports whether an order counts as a subscription.
// Deliberately permissive: PENDING orders count, and a recurring flag keeps
// an order in regardless of status, canceled ones included.
func IsSubscription(o *models.Order) bool {
	return o.Status == types.OrderStatusActive ||
		o.Status == types.OrderStatusPending ||
		o.Recurring
}

// Filter keeps subscription orders, preserving input order.
func Filter(orders []*models.Order) []*models.Order {
	return lo.Filter(orders, func(o *models.Order, _ int) bool {
		return IsSubscription(o)
	})
}

// PlanName resolves an order's plan name through the fixed fallback chain.
func PlanName(o *models.Order, planIdx map[string]string) string {
	if name, ok := planIdx[o.PlanID]; ok && name != "" {
		return name
	}
	if o.PlanName != "" {
		return o.PlanName
	}
	return UnnamedPlan
}

// Summary is one order reduced to the fields the member reports consume.
type Summary struct {
	OrderID   string
	PlanID    string
	PlanName  string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Price     string
	Currency  string
	AutoRenew bool
}

// Summarize projects one subscription order against the plan index.
func Summarize(o *models.Order, planIdx map[string]string) *Summary {
	s := &Summary{
		OrderID:   o.ID,
		PlanID:    o.PlanID,
		PlanName:  PlanName(o, planIdx),
		Status:    string(o.Status),
		StartDate: o.StartDate,
		EndDate:   o.EndDate,
		AutoRenew: o.AutoRenew,
	}
	if s.Status == "" {
		s.Status = "Unknown Status"
	}
	if o.Price != nil {
		s.Price = o.Price.Value
		s.Currency = o.Price.Currency
	}
	return s
}
