package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/siteexport/internal/models"
	"github.com/fatflowers/siteexport/internal/platform/wix"
	"github.com/fatflowers/siteexport/pkg/config"
	"github.com/fatflowers/siteexport/pkg/tabular"
	"github.com/fatflowers/siteexport/pkg/types"
)

type fakeProvider struct {
	services []*models.Service
	members  []*models.Member
	plans    []*models.Plan
	orders   []*models.Order
	bookings []*models.ExtendedBooking

	ordersErr   error
	bookingsErr error
}

func (f *fakeProvider) QueryServices(context.Context) ([]*models.Service, error) {
	return f.services, nil
}

func (f *fakeProvider) QueryMembers(context.Context) ([]*models.Member, error) {
	return f.members, nil
}

func (f *fakeProvider) ListPlans(context.Context) ([]*models.Plan, error) {
	return f.plans, nil
}

func (f *fakeProvider) ListOrders(context.Context) ([]*models.Order, error) {
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return f.orders, nil
}

func (f *fakeProvider) GetOrder(_ context.Context, orderID string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, errors.New("order not found")
}

func (f *fakeProvider) QueryExtendedBookings(context.Context, *types.QueryOptions) ([]*models.ExtendedBooking, error) {
	if f.bookingsErr != nil {
		return nil, f.bookingsErr
	}
	return f.bookings, nil
}

func tp(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func fixtureProvider() *fakeProvider {
	return &fakeProvider{
		services: []*models.Service{
			{ID: "s1", Name: "Yoga", Type: "CLASS", Slug: "yoga", Status: "ACTIVE"},
		},
		members: []*models.Member{
			{ID: "m1", LoginEmail: "a@x.com", Profile: &models.MemberProfile{FirstName: "Ann"}, Status: "APPROVED", CreatedDate: tp("2023-01-15T08:00:00Z")},
			{ID: "m2", LoginEmail: "b@x.com", Profile: &models.MemberProfile{FirstName: "Bo", LastName: "Ng"}, Status: "APPROVED"},
		},
		plans: []*models.Plan{
			{ID: "p1", Name: "Gold"},
			{ID: "p2", Name: "Silver"},
		},
		orders: []*models.Order{
			{ID: "o1", PlanID: "p1", Status: types.OrderStatusActive,
				Buyer: &models.Buyer{MemberID: "m1"},
				Price: &models.Money{Value: "9.99", Currency: "USD"},
				StartDate: tp("2024-01-01T00:00:00Z")},
			{ID: "o2", PlanID: "p2", Status: types.OrderStatusCanceled, Recurring: true,
				MemberID: "m2",
				Price:    &models.Money{Value: "5.00", Currency: "USD"}},
			{ID: "o3", PlanID: "p1", Status: types.OrderStatusActive}, // no buyer at all
			{ID: "o4", PlanID: "p2", Status: types.OrderStatusExpired}, // not a subscription
		},
		bookings: []*models.ExtendedBooking{
			{
				Booking: &models.BookingInfo{ID: "b1", StartDate: tp("2024-06-01T09:00:00Z"), Status: "CONFIRMED"},
				Service: &models.BookedService{Name: "Yoga"},
				Contact: &models.BookingContact{ContactDetails: &models.ContactDetails{FirstName: "Ann", Email: "a@x.com"}},
				Payment: &models.BookingPayment{Status: "PAID", Price: &models.Money{Value: "20", Currency: "USD"}},
				Raw: map[string]any{
					"booking": map[string]any{"id": "b1", "status": "CONFIRMED"},
					"service": map[string]any{"name": "Yoga"},
					"tags":    []any{"vip"},
				},
			},
		},
	}
}

func newTestRunner(t *testing.T, p Provider) (*Runner, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	r := NewRunner(&config.Config{ExportDir: dir, BookingLimit: 10}, zap.NewNop().Sugar(), p, tabular.NewFileSink())
	out := &bytes.Buffer{}
	r.out = out
	return r, dir, out
}

var allExports = []string{
	"services.csv", "members.csv", "orders.csv",
	"bookings.csv", "booking_detailed.csv",
	"subscriptions.csv", "member_subscriptions.csv", "member_subscriptions_detailed.csv",
}

func TestRunAllWritesAllExports(t *testing.T) {
	r, dir, out := newTestRunner(t, fixtureProvider())
	require.NoError(t, r.RunAll(context.Background()))

	for _, name := range allExports {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}

	digest := out.String()
	assert.Contains(t, digest, "=== Services ===")
	assert.Contains(t, digest, "Found 3 subscription orders")
	assert.Contains(t, digest, "Found 2 members with subscriptions")
	assert.Contains(t, digest, "All exports completed.")
}

func TestRunAllMemberSubscriptionContents(t *testing.T) {
	r, dir, _ := newTestRunner(t, fixtureProvider())
	require.NoError(t, r.RunAll(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "member_subscriptions.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Member ID,Member Name,Member Email,Subscription Count,Active Plans,Total Value,Currency", lines[0])
	assert.Equal(t, "m1,Ann,a@x.com,1,Gold,9.99,USD", lines[1])
	// Canceled-but-recurring order: counted, but no active plan or value.
	assert.Equal(t, "m2,Bo Ng,b@x.com,1,,0.00,", lines[2])
}

func TestOrderWithoutBuyerStaysInFlatExport(t *testing.T) {
	r, dir, _ := newTestRunner(t, fixtureProvider())
	require.NoError(t, r.RunAll(context.Background()))

	flat, err := os.ReadFile(filepath.Join(dir, "subscriptions.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(flat), "o3", "buyer-less order must appear in the flat subscription export")

	detailed, err := os.ReadFile(filepath.Join(dir, "member_subscriptions_detailed.csv"))
	require.NoError(t, err)
	assert.NotContains(t, string(detailed), "o3", "buyer-less order must be excluded from per-member aggregation")
}

func TestBookingDetailedFlattening(t *testing.T) {
	r, dir, _ := newTestRunner(t, fixtureProvider())
	require.NoError(t, r.RunAll(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "booking_detailed.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "booking.id,booking.status,service.name,tags", lines[0])
	assert.Equal(t, `b1,CONFIRMED,Yoga,"[""vip""]"`, lines[1])
}

func TestRunAllIdempotent(t *testing.T) {
	p := fixtureProvider()
	r, dir, _ := newTestRunner(t, p)

	require.NoError(t, r.RunAll(context.Background()))
	first := map[string][]byte{}
	for _, name := range allExports {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		first[name] = data
	}

	require.NoError(t, r.RunAll(context.Background()))
	for _, name := range allExports {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, first[name], data, "%s changed between identical runs", name)
	}
}

func TestOrdersFailureDoesNotStopOtherPipelines(t *testing.T) {
	p := fixtureProvider()
	p.ordersErr = &wix.ProviderError{
		Collection: "orders",
		StatusCode: 403,
		Kind:       wix.KindAuthorizationDenied,
		Message:    "403 Forbidden: missing permission",
	}
	r, dir, _ := newTestRunner(t, p)

	require.NoError(t, r.RunAll(context.Background()))

	for _, name := range []string{"services.csv", "members.csv", "bookings.csv", "booking_detailed.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s despite orders failure", name)
	}
	for _, name := range []string{"orders.csv", "subscriptions.csv", "member_subscriptions.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err), "did not expect %s when orders cannot be fetched", name)
	}
}

func TestEmptyCollectionsWriteNoFiles(t *testing.T) {
	r, dir, out := newTestRunner(t, &fakeProvider{})
	require.NoError(t, r.RunAll(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Contains(t, out.String(), "No orders found.")
	assert.Contains(t, out.String(), "No bookings found.")
}
