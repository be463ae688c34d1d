// Package report runs the export pipelines: fetch, join, project, emit.
// The six pipelines run strictly sequentially; each one owns its failures
// so a denied or broken collection never stops the rest of the run.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/fatflowers/siteexport/internal/app/service/projection"
	"github.com/fatflowers/siteexport/internal/app/service/refindex"
	"github.com/fatflowers/siteexport/internal/app/service/subscription"
	"github.com/fatflowers/siteexport/internal/models"
	"github.com/fatflowers/siteexport/internal/platform/wix"
	"github.com/fatflowers/siteexport/pkg/config"
	"github.com/fatflowers/siteexport/pkg/logctx"
	"github.com/fatflowers/siteexport/pkg/tabular"
	"github.com/fatflowers/siteexport/pkg/tool"
	"github.com/fatflowers/siteexport/pkg/types"
)

// Provider is the slice of the site-data client the pipelines consume.
type Provider interface {
	QueryServices(ctx context.Context) ([]*models.Service, error)
	QueryMembers(ctx context.Context) ([]*models.Member, error)
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	ListOrders(ctx context.Context) ([]*models.Order, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	QueryExtendedBookings(ctx context.Context, opts *types.QueryOptions) ([]*models.ExtendedBooking, error)
}

// Sink writes one finished table.
type Sink interface {
	Write(path string, cols []tabular.Column, rows []tabular.Row) error
}

type Runner struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	provider Provider
	sink     Sink
	out      io.Writer
}

func NewRunner(cfg *config.Config, log *zap.SugaredLogger, provider Provider, sink Sink) *Runner {
	return &Runner{cfg: cfg, log: log, provider: provider, sink: sink, out: os.Stdout}
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// RunAll executes every pipeline in order. Pipeline failures are downgraded
// to logged diagnostics, so a nil return means the run was attempted in
// full, not that every export succeeded.
func (r *Runner) RunAll(ctx context.Context) error {
	ctx = logctx.WithRunID(ctx, tool.GenerateUUIDV7())
	r.printf("Starting site data export...\n")

	pipelines := []struct {
		banner string
		name   string
		fn     func(context.Context) error
	}{
		{"Services", "services", r.runServices},
		{"Members", "members", r.runMembers},
		{"Orders", "orders", r.runOrders},
		{"Extended Bookings", "bookings", r.runBookings},
		{"Subscriptions", "subscriptions", r.runSubscriptions},
		{"Member Subscriptions", "member_subscriptions", r.runMemberSubscriptions},
	}

	for _, p := range pipelines {
		r.printf("\n=== %s ===\n", p.banner)
		r.guarded(logctx.WithPipeline(ctx, p.name), p.name, p.fn)
	}

	r.printf("\nAll exports completed.\n")
	return nil
}

// guarded is the outer recovery tier: nothing a single pipeline does may
// stop the pipelines after it.
func (r *Runner) guarded(ctx context.Context, name string, fn func(context.Context) error) {
	defer func() {
		if rec := recover(); rec != nil {
			logctx.FromCtx(ctx, r.log).Errorf("pipeline %s panicked: %v", name, rec)
		}
	}()
	if err := fn(ctx); err != nil {
		r.reportFetchFailure(ctx, name, err)
	}
}

// reportFetchFailure downgrades a provider failure to diagnostics plus a
// remediation hint. Authorization denials get their own, more specific hint.
func (r *Runner) reportFetchFailure(ctx context.Context, collection string, err error) {
	log := logctx.FromCtx(ctx, r.log)
	log.Errorf("error fetching %s: %v", collection, err)
	if wix.KindOf(err) == wix.KindAuthorizationDenied {
		log.Errorf("permission denied (403) when accessing %s: the API key may lack access to this module, be incorrect, or expired; check the app permissions in the developer center", collection)
		return
	}
	log.Error("make sure the API key is correct and has the necessary permissions")
}

// export writes one table under the configured export directory. A sink
// failure is logged and absorbed: the pipeline's remaining outputs and the
// following pipelines still run.
func (r *Runner) export(ctx context.Context, filename string, cols []tabular.Column, rows []tabular.Row) {
	path := filepath.Join(r.cfg.ExportDir, filename)
	if err := r.sink.Write(path, cols, rows); err != nil {
		logctx.FromCtx(ctx, r.log).Errorf("failed to write %s: %v", path, err)
		return
	}
	r.printf("CSV file created: %s\n", path)
}

func (r *Runner) runServices(ctx context.Context) error {
	services, err := r.provider.QueryServices(ctx)
	if err != nil {
		return err
	}

	r.printf("My Services:\n")
	r.printf("Total: %d\n", len(services))
	for _, s := range services {
		r.printf("%s\n", s.Name)
	}

	if len(services) == 0 {
		return nil
	}
	rows := lo.Map(services, func(s *models.Service, _ int) tabular.Row {
		return projection.ServiceRow(s)
	})
	r.export(ctx, "services.csv", projection.ServiceColumns, rows)
	return nil
}

func (r *Runner) runMembers(ctx context.Context) error {
	members, err := r.provider.QueryMembers(ctx)
	if err != nil {
		return err
	}

	r.printf("My Members:\n")
	r.printf("Total: %d\n", len(members))
	for _, m := range members {
		slug := m.Slug()
		if slug == "" {
			slug = "N/A"
		}
		r.printf("%s %s (%s) - Slug: %s\n", m.FirstName(), m.LastName(), m.LoginEmail, slug)
	}

	if len(members) == 0 {
		return nil
	}
	rows := lo.Map(members, func(m *models.Member, _ int) tabular.Row {
		return projection.MemberRow(m)
	})
	r.export(ctx, "members.csv", projection.MemberColumns, rows)
	return nil
}

func (r *Runner) runOrders(ctx context.Context) error {
	orders, err := r.provider.ListOrders(ctx)
	if err != nil {
		return err
	}

	r.printf("All Orders (Admin Access):\n")
	r.printf("Total Orders: %d\n", len(orders))
	if len(orders) == 0 {
		r.printf("No orders found.\n")
		return nil
	}

	for _, o := range orders {
		r.printf("Plan: %s | Status: %s | Start: %s | End: %s\n",
			orDefault(o.PlanName, subscription.UnnamedPlan),
			orDefault(string(o.Status), projection.UnknownStatus),
			projection.LocaleDate(o.StartDate, projection.NoStartDate),
			projection.LocaleDate(o.EndDate, projection.Ongoing))
	}

	rows := lo.Map(orders, func(o *models.Order, _ int) tabular.Row {
		return projection.OrderRow(o)
	})
	r.export(ctx, "orders.csv", projection.OrderColumns, rows)
	return nil
}

func (r *Runner) runBookings(ctx context.Context) error {
	opts := &types.QueryOptions{
		Limit: r.cfg.BookingLimit,
		Sort:  []types.SortField{{FieldName: "booking.startDate", Order: types.SortOrderDesc}},
	}
	bookings, err := r.provider.QueryExtendedBookings(ctx, opts)
	if err != nil {
		return err
	}

	r.printf("Extended Bookings:\n")
	r.printf("Total: %d\n", len(bookings))
	if len(bookings) == 0 {
		r.printf("No bookings found.\n")
		return nil
	}

	for _, b := range bookings {
		r.printf("ID: %s | Service: %s | Customer: %s | Time: %s | Status: %s | Payment: %s\n",
			orDefault(b.BookingID(), projection.UnknownID),
			orDefault(b.ServiceName(), projection.UnknownService),
			projection.CustomerName(b),
			projection.LocaleDateTime(b.StartDate(), projection.UnknownTime),
			orDefault(b.BookingStatus(), projection.UnknownStatus),
			orDefault(b.PaymentStatus(), projection.UnknownPaymentStatus))
	}

	rows := lo.Map(bookings, func(b *models.ExtendedBooking, _ int) tabular.Row {
		return projection.BookingRow(b)
	})
	r.export(ctx, "bookings.csv", projection.BookingColumns, rows)

	// The first booking also goes out fully flattened, one column per
	// leaf field, for ad-hoc inspection.
	first := bookings[0].Nested()
	if pretty, err := json.MarshalIndent(first, "", "  "); err == nil {
		r.printf("\nDetailed information for first booking:\n%s\n", pretty)
	}
	cols, row := projection.Flatten(first)
	r.export(ctx, "booking_detailed.csv", cols, []tabular.Row{row})
	return nil
}

func (r *Runner) runSubscriptions(ctx context.Context) error {
	plans, err := r.provider.ListPlans(ctx)
	if err != nil {
		return err
	}
	planIdx := refindex.Plans(plans)
	r.printf("Available Plans:\n")
	r.printf("Total Plans: %d\n", len(plans))

	members, err := r.provider.QueryMembers(ctx)
	if err != nil {
		return err
	}
	memberIdx := refindex.Members(members)
	r.printf("Total Members: %d\n", len(members))

	orders, err := r.provider.ListOrders(ctx)
	if err != nil {
		return err
	}
	r.printf("Orders (Including Subscriptions):\n")
	r.printf("Total Orders: %d\n", len(orders))
	if len(orders) == 0 {
		r.printf("No orders found.\n")
		return nil
	}

	subs := subscription.Filter(orders)
	r.printf("Found %d subscription orders\n", len(subs))
	if len(subs) == 0 {
		r.printf("No subscription orders found.\n")
		return nil
	}

	for _, o := range subs {
		info, ok := memberIdx[o.BuyerMemberID()]
		if !ok {
			info = refindex.MemberInfo{FullName: projection.UnknownMember, Email: projection.UnknownEmail}
		}
		price, currency := projection.UnknownAmount, projection.UnknownCurrency
		if o.Price != nil && o.Price.Value != "" {
			price, currency = o.Price.Value, o.Price.Currency
		}
		r.printf("Plan: %s | Status: %s | Start: %s | End: %s | Buyer: %s (%s) | Price: %s %s\n",
			subscription.PlanName(o, planIdx),
			orDefault(string(o.Status), projection.UnknownStatus),
			projection.LocaleDate(o.StartDate, projection.NoStartDate),
			projection.LocaleDate(o.EndDate, projection.Ongoing),
			info.FullName, info.Email, price, currency)
	}

	rows := lo.Map(subs, func(o *models.Order, _ int) tabular.Row {
		return projection.SubscriptionRow(o, planIdx, memberIdx)
	})
	r.export(ctx, "subscriptions.csv", projection.SubscriptionColumns, rows)

	// Detail probe of the first subscription order; failures here are
	// informational only.
	firstID := subs[0].ID
	r.printf("\nFetching detailed information for subscription order: %s\n", firstID)
	if _, err := r.provider.GetOrder(ctx, firstID); err != nil {
		logctx.FromCtx(ctx, r.log).Errorf("error fetching detailed order information: %v", err)
	}
	return nil
}

func (r *Runner) runMemberSubscriptions(ctx context.Context) error {
	plans, err := r.provider.ListPlans(ctx)
	if err != nil {
		return err
	}
	planIdx := refindex.Plans(plans)

	members, err := r.provider.QueryMembers(ctx)
	if err != nil {
		return err
	}
	memberIdx := refindex.Members(members)
	r.printf("Total Members: %d\n", len(members))

	orders, err := r.provider.ListOrders(ctx)
	if err != nil {
		return err
	}

	groups := subscription.GroupByMember(subscription.Filter(orders), planIdx, memberIdx)
	r.printf("\nFound %d members with subscriptions\n", len(groups))
	if len(groups) == 0 {
		r.printf("No members with subscriptions found.\n")
		return nil
	}

	for _, g := range groups {
		r.printf("\n%s (%s)\n", g.Info.FullName, g.Info.Email)
		r.printf("Total Subscriptions: %d\n", len(g.Subscriptions))
		for i, sub := range g.Subscriptions {
			r.printf("  %d. %s | Status: %s | Start: %s | End: %s | Price: %s %s\n",
				i+1, sub.PlanName, sub.Status,
				projection.LocaleDate(sub.StartDate, projection.NoStartDate),
				projection.LocaleDate(sub.EndDate, projection.Ongoing),
				sub.Price, sub.Currency)
		}
	}

	summaryRows := lo.Map(groups, func(g *subscription.MemberGroup, _ int) tabular.Row {
		return projection.MemberSubscriptionRow(g)
	})
	r.printf("\n")
	r.export(ctx, "member_subscriptions.csv", projection.MemberSubscriptionColumns, summaryRows)

	detailRows := lo.FlatMap(groups, func(g *subscription.MemberGroup, _ int) []tabular.Row {
		return projection.MemberSubscriptionDetailRows(g)
	})
	r.export(ctx, "member_subscriptions_detailed.csv", projection.MemberSubscriptionDetailColumns, detailRows)
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
