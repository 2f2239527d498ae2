// Package ads is the client for the advertising API. Unlike the seller-data
// API it authenticates with OAuth2 client credentials; a fresh bearer token
// is fetched per logical operation group, never cached across report runs.
package ads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/sell-tools/margin-atlas/pkg/gateway"
	"github.com/sell-tools/margin-atlas/pkg/models/domain"
)

const defaultPageLimit = 100

// Credentials identify one advertiser against the token endpoint.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Client fetches campaign statistics through the shared gateway.
type Client struct {
	gw        *gateway.Gateway
	baseURL   string
	oauth     clientcredentials.Config
	pageLimit int
}

func NewClient(gw *gateway.Gateway, baseURL, tokenURL string, creds Credentials) *Client {
	return &Client{
		gw:      gw,
		baseURL: baseURL,
		oauth: clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     tokenURL,
		},
		pageLimit: defaultPageLimit,
	}
}

// CampaignStats fetches per-campaign aggregates for the period,
// offset-paginated. The bearer token is obtained once for the whole scan.
func (c *Client) CampaignStats(ctx context.Context, period domain.DateRange) ([]domain.CampaignStats, error) {
	token, err := c.oauth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch ads token: %w", err)
	}

	raw, err := fetchPages(ctx, c.pageLimit, func(ctx context.Context, limit, offset int) ([]rawCampaign, error) {
		query := url.Values{}
		query.Set("from", period.From.Format(time.RFC3339))
		query.Set("to", period.To.Format(time.RFC3339))
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			c.baseURL+"/api/v1/campaigns/stats?"+query.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		token.SetAuthHeader(req)
		req.Header.Set("Accept", "application/json")

		resp, err := c.gw.Execute(ctx, req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var body campaignStatsResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode campaign stats: %w", err)
		}
		return body.Campaigns, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch campaign stats: %w", err)
	}

	campaigns := make([]domain.CampaignStats, 0, len(raw))
	for _, r := range raw {
		campaigns = append(campaigns, r.toDomain())
	}
	return campaigns, nil
}

// fetchPages drains an offset-paginated ads endpoint, stopping on an empty
// or short page.
func fetchPages(
	ctx context.Context,
	limit int,
	page func(ctx context.Context, limit, offset int) ([]rawCampaign, error),
) ([]rawCampaign, error) {
	var out []rawCampaign
	for offset := 0; ; {
		batch, err := page(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < limit {
			return out, nil
		}
		offset += len(batch)
	}
}
