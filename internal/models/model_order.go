package models

import (
	"time"

	"github.com/fatflowers/siteexport/pkg/types"
)

// Order is one pricing-plan order from the subscription ledger. PlanName is
// a provider-supplied denormalized fallback; the plan index takes precedence
// when it has the plan id.
type Order struct {
	ID            string            `json:"id"`
	PlanID        string            `json:"planId"`
	PlanName      string            `json:"planName,omitempty"`
	Status        types.OrderStatus `json:"status"`
	Recurring     bool              `json:"recurring"`
	AutoRenew     bool              `json:"autoRenew"`
	StartDate     *time.Time        `json:"startDate,omitempty"`
	EndDate       *time.Time        `json:"endDate,omitempty"`
	Buyer         *Buyer            `json:"buyer,omitempty"`
	MemberID      string            `json:"memberId,omitempty"` // legacy field, superseded by Buyer.MemberID
	Price         *Money            `json:"price,omitempty"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
}

type Buyer struct {
	MemberID string `json:"memberId,omitempty"`
}

// Money keeps the amount as the provider's decimal string; parsing is the
// aggregation layer's concern.
type Money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// BuyerMemberID resolves the buyer identity: buyer.memberId first, the
// legacy top-level memberId second, empty when the order has neither.
func (o *Order) BuyerMemberID() string {
	if o.Buyer != nil && o.Buyer.MemberID != "" {
		return o.Buyer.MemberID
	}
	return o.MemberID
}
