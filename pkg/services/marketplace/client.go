// Package marketplace is the client for the seller-data API: three
// paginated fetchers (finance operations, per-SKU analytics, delivery
// statuses) driving a shared rate-limited gateway.
package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sell-tools/margin-atlas/pkg/gateway"
	"github.com/sell-tools/margin-atlas/pkg/models/domain"
)

const (
	headerAccountID = "X-Account-Id"
	headerAPIKey    = "X-Api-Key"

	defaultPageLimit = 500
)

// Credentials identify one seller account against the seller-data API.
type Credentials struct {
	AccountID string
	APIKey    string
}

// Client issues seller-data API calls for one account through an injected
// gateway. The gateway owns the rate budget; the client owns pagination and
// payload mapping.
type Client struct {
	gw        *gateway.Gateway
	baseURL   string
	creds     Credentials
	pageLimit int
}

// Option tweaks a Client.
type Option func(*Client)

// WithPageLimit overrides the per-page record limit.
func WithPageLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.pageLimit = limit
		}
	}
}

func NewClient(gw *gateway.Gateway, baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		gw:        gw,
		baseURL:   baseURL,
		creds:     creds,
		pageLimit: defaultPageLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Operations fetches all finance operations in the period, offset-paginated.
func (c *Client) Operations(ctx context.Context, period domain.DateRange) ([]domain.Operation, error) {
	raw, err := fetchAllOffset(ctx, c.pageLimit,
		func(ctx context.Context, limit, offset int) ([]rawOperation, error) {
			query := c.periodQuery(period)
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))

			var body operationsResponse
			if err := c.get(ctx, "/api/v1/finance/operations", query, &body); err != nil {
				return nil, err
			}
			return body.Operations, nil
		})
	if err != nil {
		return nil, fmt.Errorf("fetch operations: %w", err)
	}

	ops := make([]domain.Operation, 0, len(raw))
	for _, r := range raw {
		ops = append(ops, r.toDomain())
	}
	return ops, nil
}

// SkuStats fetches per-SKU analytics for the period, cursor-paginated.
func (c *Client) SkuStats(ctx context.Context, period domain.DateRange) ([]domain.SkuStat, error) {
	raw, err := fetchAllCursor(ctx, c.pageLimit,
		func(ctx context.Context, limit int, cursor string) ([]rawSkuStat, string, error) {
			query := c.periodQuery(period)
			query.Set("limit", strconv.Itoa(limit))
			if cursor != "" {
				query.Set("cursor", cursor)
			}

			var body skuStatsResponse
			if err := c.get(ctx, "/api/v2/analytics/sku-stats", query, &body); err != nil {
				return nil, "", err
			}
			return body.Data.Items, body.Data.Cursor.Next, nil
		})
	if err != nil {
		return nil, fmt.Errorf("fetch sku stats: %w", err)
	}

	stats := make([]domain.SkuStat, 0, len(raw))
	for _, r := range raw {
		s := r.toDomain()
		if s.SKU != 0 {
			stats = append(stats, s)
		}
	}
	return stats, nil
}

// Deliveries fetches the current delivery status list, offset-paginated.
func (c *Client) Deliveries(ctx context.Context) ([]domain.DeliveryRecord, error) {
	raw, err := fetchAllOffset(ctx, c.pageLimit,
		func(ctx context.Context, limit, offset int) ([]rawDelivery, error) {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))

			var body deliveriesResponse
			if err := c.get(ctx, "/api/v1/supply/deliveries", query, &body); err != nil {
				return nil, err
			}
			return body.Deliveries, nil
		})
	if err != nil {
		return nil, fmt.Errorf("fetch deliveries: %w", err)
	}

	records := make([]domain.DeliveryRecord, 0, len(raw))
	for _, r := range raw {
		if rec, ok := r.toDomain(); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (c *Client) periodQuery(period domain.DateRange) url.Values {
	query := url.Values{}
	query.Set("from", period.From.Format(time.RFC3339))
	query.Set("to", period.To.Format(time.RFC3339))
	return query
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(headerAccountID, c.creds.AccountID)
	req.Header.Set(headerAPIKey, c.creds.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.gw.Execute(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
