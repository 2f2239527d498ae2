package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sell-tools/margin-atlas/pkg/gateway"
	"github.com/sell-tools/margin-atlas/pkg/models/domain"
	"github.com/sell-tools/margin-atlas/pkg/services/ads"
	"github.com/sell-tools/margin-atlas/pkg/services/config"
	"github.com/sell-tools/margin-atlas/pkg/services/marketplace"
)

// Service resolves accounts from the profile registry and runs the report
// pipeline for them over a shared gateway.
type Service interface {
	BuildReport(ctx context.Context, account string, days int) (*domain.SkuReport, error)
}

// Endpoints are the upstream API locations, shared by every account.
type Endpoints struct {
	MarketBaseURL string
	AdsBaseURL    string
	AdsTokenURL   string
}

type service struct {
	registry  config.Registry
	costs     CostStore
	gw        *gateway.Gateway
	endpoints Endpoints
	pageLimit int
}

func NewService(
	registry config.Registry,
	costs CostStore,
	gw *gateway.Gateway,
	endpoints Endpoints,
	pageLimit int,
) Service {
	return &service{
		registry:  registry,
		costs:     costs,
		gw:        gw,
		endpoints: endpoints,
		pageLimit: pageLimit,
	}
}

func (s *service) BuildReport(ctx context.Context, account string, days int) (*domain.SkuReport, error) {
	profile, err := s.registry.GetAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}

	var opts []marketplace.Option
	if s.pageLimit > 0 {
		opts = append(opts, marketplace.WithPageLimit(s.pageLimit))
	}
	market := marketplace.NewClient(s.gw, s.endpoints.MarketBaseURL, marketplace.Credentials{
		AccountID: profile.AccountID,
		APIKey:    profile.APIKey,
	}, opts...)

	var adsClient AdsClient
	if profile.HasAds() {
		adsClient = ads.NewClient(s.gw, s.endpoints.AdsBaseURL, s.endpoints.AdsTokenURL, ads.Credentials{
			ClientID:     profile.AdsClientID,
			ClientSecret: profile.AdsClientSecret,
		})
	}

	builder := NewBuilder(market, adsClient, s.costs)
	return builder.BuildReport(ctx, account, domain.LastDays(days, time.Now()))
}
