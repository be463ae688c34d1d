// Package projection maps joined records into the flat rows each export
// schema expects. Every row builder fills every column of its schema; absent
// source data becomes a defined default, never a missing key.
package projection

import (
	"strconv"
	"strings"
	"time"

	"github.com/fatflowers/siteexport/internal/app/service/refindex"
	"github.com/fatflowers/siteexport/internal/app/service/subscription"
	"github.com/fatflowers/siteexport/internal/models"
	"github.com/fatflowers/siteexport/pkg/tabular"
)

// Field-specific fallback literals. Each field keeps its own literal because
// downstream consumers match exact text; a shared generic default would
// change file contents.
const (
	UnknownStatus        = "Unknown Status"
	UnknownMember        = "Unknown Member"
	UnknownService       = "Unknown Service"
	UnknownCustomer      = "Unknown Customer"
	UnknownPaymentStatus = "Unknown Payment Status"
	UnknownID            = "Unknown ID"
	UnknownTime          = "Unknown Time"
	UnknownAmount        = "Unknown Amount"
	UnknownCurrency      = "Unknown Currency"
	UnknownEmail         = "Unknown Email"

	NoStartDate = "N/A"     // console rendering of a missing start date
	Ongoing     = "Ongoing" // console rendering of a missing end date
)

// ISO renders a timestamp for machine columns (UTC, millisecond precision),
// empty string when absent.
func ISO(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// LocaleDate renders a date for console display, or fallback when absent.
func LocaleDate(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format("1/2/2006")
}

// LocaleDateTime renders a timestamp for console display.
func LocaleDateTime(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format("1/2/2006, 3:04:05 PM")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

var ServiceColumns = []tabular.Column{
	{ID: "_id", Title: "ID"},
	{ID: "name", Title: "Service Name"},
	{ID: "type", Title: "Type"},
	{ID: "categoryId", Title: "Category ID"},
	{ID: "slug", Title: "Slug"},
	{ID: "status", Title: "Status"},
}

func ServiceRow(s *models.Service) tabular.Row {
	return tabular.Row{
		"_id":        s.ID,
		"name":       s.Name,
		"type":       s.Type,
		"categoryId": s.CategoryID,
		"slug":       s.Slug,
		"status":     s.Status,
	}
}

var MemberColumns = []tabular.Column{
	{ID: "id", Title: "ID"},
	{ID: "email", Title: "Email"},
	{ID: "firstName", Title: "First Name"},
	{ID: "lastName", Title: "Last Name"},
	{ID: "slug", Title: "Slug"},
	{ID: "status", Title: "Status"},
	{ID: "createdDate", Title: "Created Date"},
}

func MemberRow(m *models.Member) tabular.Row {
	return tabular.Row{
		"id":          m.ID,
		"email":       m.LoginEmail,
		"firstName":   m.FirstName(),
		"lastName":    m.LastName(),
		"slug":        m.Slug(),
		"status":      m.Status,
		"createdDate": ISO(m.CreatedDate),
	}
}

var OrderColumns = []tabular.Column{
	{ID: "_id", Title: "Order ID"},
	{ID: "planId", Title: "Plan ID"},
	{ID: "planName", Title: "Plan Name"},
	{ID: "status", Title: "Status"},
	{ID: "startDate", Title: "Start Date"},
	{ID: "endDate", Title: "End Date"},
	{ID: "memberId", Title: "Member ID"},
	{ID: "price", Title: "Price"},
	{ID: "currency", Title: "Currency"},
}

// OrderRow projects one order for the flat ledger export. The legacy
// top-level memberId is exported as-is here; buyer resolution only applies
// to the subscription shapes.
func OrderRow(o *models.Order) tabular.Row {
	row := tabular.Row{
		"_id":       o.ID,
		"planId":    o.PlanID,
		"planName":  o.PlanName,
		"status":    string(o.Status),
		"startDate": ISO(o.StartDate),
		"endDate":   ISO(o.EndDate),
		"memberId":  o.MemberID,
		"price":     "",
		"currency":  "",
	}
	if row["planName"] == "" {
		row["planName"] = subscription.UnnamedPlan
	}
	if row["status"] == "" {
		row["status"] = UnknownStatus
	}
	if o.Price != nil {
		row["price"] = o.Price.Value
		row["currency"] = o.Price.Currency
	}
	return row
}

var BookingColumns = []tabular.Column{
	{ID: "bookingId", Title: "Booking ID"},
	{ID: "serviceName", Title: "Service Name"},
	{ID: "customerName", Title: "Customer Name"},
	{ID: "customerEmail", Title: "Customer Email"},
	{ID: "startTime", Title: "Start Time"},
	{ID: "endTime", Title: "End Time"},
	{ID: "status", Title: "Status"},
	{ID: "paymentStatus", Title: "Payment Status"},
	{ID: "price", Title: "Price"},
	{ID: "currency", Title: "Currency"},
}

// CustomerName resolves a booking's contact to a display name. A booking
// without a contact first name is an anonymous walk-in record.
func CustomerName(b *models.ExtendedBooking) string {
	d := b.Details()
	if d == nil || d.FirstName == "" {
		return UnknownCustomer
	}
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func BookingRow(b *models.ExtendedBooking) tabular.Row {
	row := tabular.Row{
		"bookingId":     b.BookingID(),
		"serviceName":   b.ServiceName(),
		"customerName":  CustomerName(b),
		"customerEmail": "",
		"startTime":     ISO(b.StartDate()),
		"endTime":       ISO(b.EndDate()),
		"status":        b.BookingStatus(),
		"paymentStatus": b.PaymentStatus(),
		"price":         "",
		"currency":      "",
	}
	if row["bookingId"] == "" {
		row["bookingId"] = UnknownID
	}
	if row["serviceName"] == "" {
		row["serviceName"] = UnknownService
	}
	if row["status"] == "" {
		row["status"] = UnknownStatus
	}
	if row["paymentStatus"] == "" {
		row["paymentStatus"] = UnknownPaymentStatus
	}
	if d := b.Details(); d != nil {
		row["customerEmail"] = d.Email
	}
	if p := b.Price(); p != nil {
		row["price"] = p.Value
		row["currency"] = p.Currency
	}
	return row
}

var SubscriptionColumns = []tabular.Column{
	{ID: "_id", Title: "Order ID"},
	{ID: "planId", Title: "Plan ID"},
	{ID: "planName", Title: "Plan Name"},
	{ID: "status", Title: "Status"},
	{ID: "startDate", Title: "Start Date"},
	{ID: "endDate", Title: "End Date"},
	{ID: "buyerMemberId", Title: "Buyer Member ID"},
	{ID: "buyerName", Title: "Buyer Name"},
	{ID: "buyerEmail", Title: "Buyer Email"},
	{ID: "price", Title: "Price"},
	{ID: "currency", Title: "Currency"},
	{ID: "paymentMethod", Title: "Payment Method"},
	{ID: "recurring", Title: "Recurring"},
	{ID: "autoRenew", Title: "Auto Renew"},
}

// SubscriptionRow projects one subscription order joined to its plan and
// buyer. An unresolvable buyer leaves the identity columns empty; the row
// itself is still exported.
func SubscriptionRow(o *models.Order, planIdx map[string]string, memberIdx map[string]refindex.MemberInfo) tabular.Row {
	row := tabular.Row{
		"_id":           o.ID,
		"planId":        o.PlanID,
		"planName":      subscription.PlanName(o, planIdx),
		"status":        string(o.Status),
		"startDate":     ISO(o.StartDate),
		"endDate":       ISO(o.EndDate),
		"buyerMemberId": o.BuyerMemberID(),
		"buyerName":     "",
		"buyerEmail":    "",
		"price":         "",
		"currency":      "",
		"paymentMethod": o.PaymentMethod,
		"recurring":     yesNo(o.Recurring),
		"autoRenew":     yesNo(o.AutoRenew),
	}
	if row["status"] == "" {
		row["status"] = UnknownStatus
	}
	if info, ok := memberIdx[o.BuyerMemberID()]; ok {
		row["buyerName"] = info.FullName
		row["buyerEmail"] = info.Email
	}
	if o.Price != nil {
		row["price"] = o.Price.Value
		row["currency"] = o.Price.Currency
	}
	return row
}

var MemberSubscriptionColumns = []tabular.Column{
	{ID: "memberId", Title: "Member ID"},
	{ID: "memberName", Title: "Member Name"},
	{ID: "memberEmail", Title: "Member Email"},
	{ID: "subscriptionCount", Title: "Subscription Count"},
	{ID: "activePlans", Title: "Active Plans"},
	{ID: "totalValue", Title: "Total Value"},
	{ID: "currency", Title: "Currency"},
}

func MemberSubscriptionRow(g *subscription.MemberGroup) tabular.Row {
	totals := g.Totals()
	return tabular.Row{
		"memberId":          g.MemberID,
		"memberName":        g.Info.FullName,
		"memberEmail":       g.Info.Email,
		"subscriptionCount": strconv.Itoa(totals.SubscriptionCount),
		"activePlans":       totals.ActivePlans,
		"totalValue":        totals.TotalValue,
		"currency":          totals.Currency,
	}
}

var MemberSubscriptionDetailColumns = []tabular.Column{
	{ID: "memberId", Title: "Member ID"},
	{ID: "memberName", Title: "Member Name"},
	{ID: "memberEmail", Title: "Member Email"},
	{ID: "orderId", Title: "Order ID"},
	{ID: "planId", Title: "Plan ID"},
	{ID: "planName", Title: "Plan Name"},
	{ID: "status", Title: "Status"},
	{ID: "startDate", Title: "Start Date"},
	{ID: "endDate", Title: "End Date"},
	{ID: "price", Title: "Price"},
	{ID: "currency", Title: "Currency"},
	{ID: "autoRenew", Title: "Auto Renew"},
}

// MemberSubscriptionDetailRows expands one group into per-order rows with
// the member identity repeated on each.
func MemberSubscriptionDetailRows(g *subscription.MemberGroup) []tabular.Row {
	rows := make([]tabular.Row, 0, len(g.Subscriptions))
	for _, sub := range g.Subscriptions {
		rows = append(rows, tabular.Row{
			"memberId":    g.MemberID,
			"memberName":  g.Info.FullName,
			"memberEmail": g.Info.Email,
			"orderId":     sub.OrderID,
			"planId":      sub.PlanID,
			"planName":    sub.PlanName,
			"status":      sub.Status,
			"startDate":   ISO(sub.StartDate),
			"endDate":     ISO(sub.EndDate),
			"price":       sub.Price,
			"currency":    sub.Currency,
			"autoRenew":   yesNo(sub.AutoRenew),
		})
	}
	return rows
}
