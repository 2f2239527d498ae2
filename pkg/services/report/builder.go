// Package report assembles per-SKU profit reports: it drives the paginated
// fetchers, folds their output through the aggregator and allocators, joins
// externally supplied unit costs and emits one structured row per tracked
// SKU plus totals.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sell-tools/margin-atlas/pkg/models/domain"
	"github.com/sell-tools/margin-atlas/pkg/services/abc"
	"github.com/sell-tools/margin-atlas/pkg/services/aggregate"
	"github.com/sell-tools/margin-atlas/pkg/services/allocate"
)

// MarketClient is the seller-data API surface the builder consumes.
type MarketClient interface {
	Operations(ctx context.Context, period domain.DateRange) ([]domain.Operation, error)
	SkuStats(ctx context.Context, period domain.DateRange) ([]domain.SkuStat, error)
	Deliveries(ctx context.Context) ([]domain.DeliveryRecord, error)
}

// AdsClient is the advertising API surface. May be nil when the account has
// no advertising credentials.
type AdsClient interface {
	CampaignStats(ctx context.Context, period domain.DateRange) ([]domain.CampaignStats, error)
}

// CostStore is the external storage collaborator: unit costs and the
// tracked SKU set per account. Absent cost entries default to zero.
type CostStore interface {
	GetUnitCosts(ctx context.Context, account string) (map[domain.SKU]float64, error)
	GetTrackedSkus(ctx context.Context, account string) (map[domain.SKU]struct{}, error)
}

// Builder runs one report pipeline per call. All aggregate state is created
// fresh per run; nothing is cached between runs.
type Builder struct {
	market MarketClient
	ads    AdsClient
	costs  CostStore
}

func NewBuilder(market MarketClient, ads AdsClient, costs CostStore) *Builder {
	return &Builder{market: market, ads: ads, costs: costs}
}

// BuildReport produces the per-SKU profit report for one account and period.
// Fetch failures degrade the report instead of aborting it: the failed
// source is listed in Unavailable and its fields render as nil. Only the
// tracked SKU set and unit cost lookups are fatal.
func (b *Builder) BuildReport(ctx context.Context, account string, period domain.DateRange) (*domain.SkuReport, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("account", account).
		Str("run_id", uuid.NewString()).
		Logger()
	ctx = logger.WithContext(ctx)

	tracked, err := b.costs.GetTrackedSkus(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("get tracked skus: %w", err)
	}
	unitCosts, err := b.costs.GetUnitCosts(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("get unit costs: %w", err)
	}

	agg := aggregate.NewAggregator(tracked)
	var unavailable []string

	ops, err := b.market.Operations(ctx, period)
	if err != nil {
		unavailable = append(unavailable, domain.SourceTransactions)
		logFetchFailure(&logger, domain.SourceTransactions, err)
	} else {
		agg.AddOperations(ops)
	}

	stats, err := b.market.SkuStats(ctx, period)
	if err != nil {
		unavailable = append(unavailable, domain.SourceAnalytics)
		logFetchFailure(&logger, domain.SourceAnalytics, err)
	} else {
		agg.ApplySkuStats(stats)
	}

	deliveries, err := b.market.Deliveries(ctx)
	if err != nil {
		unavailable = append(unavailable, domain.SourceDeliveries)
		logFetchFailure(&logger, domain.SourceDeliveries, err)
	} else {
		agg.ApplyDeliveries(deliveries)
	}

	adTotals, adsOK := b.fetchAds(ctx, &logger, agg, tracked, period)
	if !adsOK {
		unavailable = append(unavailable, domain.SourceAds)
	}

	report := assemble(account, period, tracked, agg.Aggregates(), unitCosts, adTotals, adsOK)
	report.Unavailable = unavailable

	logger.Info().
		Int("skus", len(report.Rows)).
		Float64("total_profit", report.TotalProfit).
		Strs("unavailable", unavailable).
		Msg("report built")
	return report, nil
}

func (b *Builder) fetchAds(
	ctx context.Context,
	logger *zerolog.Logger,
	agg *aggregate.Aggregator,
	tracked map[domain.SKU]struct{},
	period domain.DateRange,
) (map[domain.SKU]allocate.AdTotals, bool) {
	if b.ads == nil {
		logger.Debug().Msg("no advertising credentials, skipping ads fetch")
		return nil, false
	}
	campaigns, err := b.ads.CampaignStats(ctx, period)
	if err != nil {
		logFetchFailure(logger, domain.SourceAds, err)
		return nil, false
	}
	return allocate.Campaigns(campaigns, tracked, agg.GrossRevenueWeights()), true
}

// assemble computes the derived per-SKU metrics and the totals row input.
func assemble(
	account string,
	period domain.DateRange,
	tracked map[domain.SKU]struct{},
	aggs map[domain.SKU]*domain.SkuAggregate,
	unitCosts map[domain.SKU]float64,
	adTotals map[domain.SKU]allocate.AdTotals,
	adsOK bool,
) *domain.SkuReport {
	rows := make([]domain.SkuReportRow, 0, len(tracked))
	profitBySku := make(map[domain.SKU]float64, len(tracked))

	for sku := range tracked {
		agg := aggs[sku]
		if agg == nil {
			agg = &domain.SkuAggregate{}
		}

		row := domain.SkuReportRow{
			SKU:            sku,
			Name:           agg.Name,
			OrderedUnits:   agg.OrderedUnits,
			OrderedRevenue: agg.OrderedRevenue,
			GrossUnits:     agg.GrossUnits,
			ReturnedUnits:  agg.ReturnedUnits,
			NetMonetary:    agg.NetMonetary,
			InTransitUnits: agg.InTransitUnits,
			ReturnUnits:    agg.ReturnUnits,
			DefectUnits:    agg.DefectUnits,
			UnitCost:       unitCosts[sku],
		}
		row.CostOfGoods = float64(row.GrossUnits) * row.UnitCost

		var adSpend float64
		if adsOK {
			totals := adTotals[sku]
			adSpend = totals.Spend
			row.AdSpend = ptr(totals.Spend)
			row.AdViews = ptr(totals.Views)
			row.AdClicks = ptr(totals.Clicks)
		}

		if denom := row.OrderedUnits - row.InTransitUnits; denom > 0 {
			row.BuyoutRate = ptr(float64(row.GrossUnits) / float64(denom))
		}

		row.Profit = row.NetMonetary - row.CostOfGoods - adSpend
		if row.GrossUnits > 0 {
			row.ProfitPerUnit = ptr(row.Profit / float64(row.GrossUnits))
		}
		if row.CostOfGoods > 0 {
			row.ROI = ptr((row.Profit + row.CostOfGoods) / row.CostOfGoods * 100)
		}

		profitBySku[sku] = row.Profit
		rows = append(rows, row)
	}

	classes := abc.Classify(profitBySku)
	var totalProfit float64
	for i := range rows {
		rows[i].Class = classes[rows[i].SKU]
		totalProfit += rows[i].Profit
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Profit != rows[j].Profit {
			return rows[i].Profit > rows[j].Profit
		}
		return rows[i].SKU < rows[j].SKU
	})

	return &domain.SkuReport{
		Account:     account,
		Period:      period,
		Rows:        rows,
		TotalProfit: totalProfit,
	}
}

func logFetchFailure(logger *zerolog.Logger, source string, err error) {
	perr := &PartialDataError{Source: source, Err: err}
	logger.Warn().Err(perr).Str("source", source).Msg("fetch failed, continuing with partial data")
}

func ptr(f float64) *float64 { return &f }
