// Package wix is the site-data provider client. It speaks the REST API with
// API-key auth and pages internally, so callers always observe one completed
// collection. No retries here: each report pipeline decides what a failed
// fetch means for itself.
package wix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/fatflowers/siteexport/internal/models"
	"github.com/fatflowers/siteexport/pkg/config"
	"github.com/fatflowers/siteexport/pkg/types"
)

const pageSize = 100

type Client struct {
	baseURL string
	apiKey  string
	siteID  string
	http    *http.Client
	log     *zap.SugaredLogger
}

// NewClient validates credentials and builds the shared client handle.
// Constructed once at startup; a credential failure here aborts the run
// before any pipeline starts.
func NewClient(cfg *config.Config, log *zap.SugaredLogger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed pre-flight credential check: %w", err)
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		siteID:  cfg.SiteID,
		http:    &http.Client{},
		log:     log,
	}, nil
}

type paging struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// QueryServices returns the full services catalog.
func (c *Client) QueryServices(ctx context.Context) ([]*models.Service, error) {
	var all []*models.Service
	for offset := 0; ; offset += pageSize {
		body := map[string]any{"query": map[string]any{"paging": paging{Limit: pageSize, Offset: offset}}}
		var resp struct {
			Services []*models.Service `json:"services"`
		}
		if err := c.doJSON(ctx, http.MethodPost, "/bookings/v2/services/query", "services", body, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Services...)
		if len(resp.Services) < pageSize {
			return all, nil
		}
	}
}

// QueryMembers returns the full member directory.
func (c *Client) QueryMembers(ctx context.Context) ([]*models.Member, error) {
	var all []*models.Member
	for offset := 0; ; offset += pageSize {
		body := map[string]any{"query": map[string]any{"paging": paging{Limit: pageSize, Offset: offset}}}
		var resp struct {
			Members []*models.Member `json:"members"`
		}
		if err := c.doJSON(ctx, http.MethodPost, "/members/v1/members/query", "members", body, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Members...)
		if len(resp.Members) < pageSize {
			return all, nil
		}
	}
}

// ListPlans returns all pricing plans.
func (c *Client) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	var all []*models.Plan
	for offset := 0; ; offset += pageSize {
		path := "/pricing-plans/v2/plans?limit=" + strconv.Itoa(pageSize) + "&offset=" + strconv.Itoa(offset)
		var resp struct {
			Plans []*models.Plan `json:"plans"`
		}
		if err := c.doJSON(ctx, http.MethodGet, path, "plans", nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Plans...)
		if len(resp.Plans) < pageSize {
			return all, nil
		}
	}
}

// ListOrders returns all pricing-plan orders (management access).
func (c *Client) ListOrders(ctx context.Context) ([]*models.Order, error) {
	var all []*models.Order
	for offset := 0; ; offset += pageSize {
		path := "/pricing-plans/v2/orders?limit=" + strconv.Itoa(pageSize) + "&offset=" + strconv.Itoa(offset)
		var resp struct {
			Orders []*models.Order `json:"orders"`
		}
		if err := c.doJSON(ctx, http.MethodGet, path, "orders", nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Orders...)
		if len(resp.Orders) < pageSize {
			return all, nil
		}
	}
}

// GetOrder fetches one order's detail record.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var resp struct {
		Order *models.Order `json:"order"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/pricing-plans/v2/orders/"+orderID, "orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Order, nil
}

// QueryExtendedBookings returns booking records with their nested service,
// contact and payment sub-objects. The raw payload of each item is retained
// for the detailed flattened export. With a positive opts.Limit a single
// page of that size is requested; otherwise the client pages through all.
func (c *Client) QueryExtendedBookings(ctx context.Context, opts *types.QueryOptions) ([]*models.ExtendedBooking, error) {
	limit := 0
	var sort []types.SortField
	if opts != nil {
		limit = opts.Limit
		sort = opts.Sort
	}

	var all []*models.ExtendedBooking
	for offset := 0; ; offset += pageSize {
		pg := paging{Limit: pageSize, Offset: offset}
		if limit > 0 {
			pg.Limit = limit
		}
		query := map[string]any{"paging": pg}
		if len(sort) > 0 {
			query["sort"] = sort
		}
		var resp struct {
			Items []json.RawMessage `json:"extendedBookings"`
		}
		if err := c.doJSON(ctx, http.MethodPost, "/bookings/v2/extended-bookings/query", "bookings", map[string]any{"query": query}, &resp); err != nil {
			return nil, err
		}
		for _, raw := range resp.Items {
			b := &models.ExtendedBooking{}
			if err := json.Unmarshal(raw, b); err != nil {
				c.log.Warnw("skipping undecodable booking record", "err", err)
				continue
			}
			if err := json.Unmarshal(raw, &b.Raw); err != nil {
				b.Raw = nil
			}
			all = append(all, b)
		}
		if limit > 0 || len(resp.Items) < pageSize {
			return all, nil
		}
	}
}

func (c *Client) doJSON(ctx context.Context, method, path, collection string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", collection, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", collection, err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("wix-site-id", c.siteID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ProviderError{Collection: collection, Kind: KindTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The status code stays inside the message text: downstream
		// consumers that only see the string still match on "403".
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &ProviderError{
			Collection: collection,
			StatusCode: resp.StatusCode,
			Kind:       classifyStatus(resp.StatusCode),
			Message:    fmt.Sprintf("%d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), bytes.TrimSpace(detail)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", collection, err)
	}
	return nil
}
