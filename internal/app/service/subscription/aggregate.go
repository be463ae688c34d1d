package subscription

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatflowers/siteexport/internal/app/service/refindex"
	"github.com/fatflowers/siteexport/internal/models"
	"github.com/fatflowers/siteexport/pkg/types"
)

// MemberGroup is the aggregation group for one buyer: the member's
// denormalized identity plus every subscription order attributed to them.
type MemberGroup struct {
	MemberID      string
	Info          refindex.MemberInfo
	Subscriptions []*Summary
}

// GroupByMember groups subscription orders by resolved buyer member id.
// Orders without a resolvable buyer are dropped from this stage only (they
// still appear in the flat subscription export). Groups come out in
// first-seen buyer order so repeated runs produce identical files.
func GroupByMember(orders []*models.Order, planIdx map[string]string, memberIdx map[string]refindex.MemberInfo) []*MemberGroup {
	byID := make(map[string]*MemberGroup)
	var ordered []*MemberGroup

	for _, o := range orders {
		memberID := o.BuyerMemberID()
		if memberID == "" {
			continue
		}
		g, ok := byID[memberID]
		if !ok {
			info, found := memberIdx[memberID]
			if !found {
				info = refindex.MemberInfo{FullName: "Unknown Member", Email: "Unknown Email"}
			}
			g = &MemberGroup{MemberID: memberID, Info: info}
			byID[memberID] = g
			ordered = append(ordered, g)
		}
		g.Subscriptions = append(g.Subscriptions, Summarize(o, planIdx))
	}
	return ordered
}

// Totals are the derived per-group metrics.
type Totals struct {
	SubscriptionCount int
	ActivePlans       string // ACTIVE plan names joined by ", "
	TotalValue        string // sum of parsable ACTIVE prices, two decimals
	Currency          string // from the last ACTIVE row whose price parsed
}

// Totals computes the group's metrics. Only rows with status exactly ACTIVE
// contribute plans and value; a price that does not parse as a float
// contributes 0 without erroring. With mixed currencies the last one wins —
// a documented limitation, not reconciled here.
func (g *MemberGroup) Totals() Totals {
	var total float64
	var currency string
	var activePlans []string

	for _, sub := range g.Subscriptions {
		if sub.Status != string(types.OrderStatusActive) {
			continue
		}
		if v, err := strconv.ParseFloat(sub.Price, 64); err == nil {
			total += v
			currency = sub.Currency
		}
		activePlans = append(activePlans, sub.PlanName)
	}

	return Totals{
		SubscriptionCount: len(g.Subscriptions),
		ActivePlans:       strings.Join(activePlans, ", "),
		TotalValue:        fmt.Sprintf("%.2f", total),
		Currency:          currency,
	}
}
