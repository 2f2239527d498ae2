package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sell-tools/margin-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMarket struct {
	mock.Mock
}

func (m *mockMarket) Operations(ctx context.Context, period domain.DateRange) ([]domain.Operation, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Operation), args.Error(1)
}

func (m *mockMarket) SkuStats(ctx context.Context, period domain.DateRange) ([]domain.SkuStat, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SkuStat), args.Error(1)
}

func (m *mockMarket) Deliveries(ctx context.Context) ([]domain.DeliveryRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeliveryRecord), args.Error(1)
}

type mockAds struct {
	mock.Mock
}

func (m *mockAds) CampaignStats(ctx context.Context, period domain.DateRange) ([]domain.CampaignStats, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CampaignStats), args.Error(1)
}

type mockCosts struct {
	mock.Mock
}

func (m *mockCosts) GetUnitCosts(ctx context.Context, account string) (map[domain.SKU]float64, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SKU]float64), args.Error(1)
}

func (m *mockCosts) GetTrackedSkus(ctx context.Context, account string) (map[domain.SKU]struct{}, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.SKU]struct{}), args.Error(1)
}

func period() domain.DateRange {
	return domain.DateRange{
		From: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
	}
}

func anyCtx() interface{} { return mock.Anything }

func TestBuildReport_FullPipeline(t *testing.T) {
	market := new(mockMarket)
	adsAPI := new(mockAds)
	costs := new(mockCosts)

	costs.On("GetTrackedSkus", anyCtx(), "acc").Return(map[domain.SKU]struct{}{111: {}, 222: {}}, nil)
	costs.On("GetUnitCosts", anyCtx(), "acc").Return(map[domain.SKU]float64{111: 50}, nil)

	market.On("Operations", anyCtx(), period()).Return([]domain.Operation{
		{Accrual: 500, Amount: 450, Items: []domain.LineItem{
			{SKU: 111, Qty: 2, Name: "Mug"},
			{SKU: 222, Qty: 1},
		}},
	}, nil)
	market.On("SkuStats", anyCtx(), period()).Return([]domain.SkuStat{
		{SKU: 111, OrderedUnits: 10, OrderedRevenue: 2500},
	}, nil)
	market.On("Deliveries", anyCtx()).Return([]domain.DeliveryRecord{
		{SKU: 111, Status: domain.DeliveryInTransit, Qty: 2},
	}, nil)
	adsAPI.On("CampaignStats", anyCtx(), period()).Return([]domain.CampaignStats{
		{CampaignID: 1, Spend: 100, SKUs: []domain.SKU{111}},
	}, nil)

	b := NewBuilder(market, adsAPI, costs)
	got, err := b.BuildReport(context.Background(), "acc", period())
	require.NoError(t, err)

	require.Len(t, got.Rows, 2)
	assert.Empty(t, got.Unavailable)

	rows := make(map[domain.SKU]domain.SkuReportRow, len(got.Rows))
	for _, r := range got.Rows {
		rows[r.SKU] = r
	}

	r111 := rows[111]
	assert.Equal(t, 2, r111.GrossUnits)
	assert.InDelta(t, 300, r111.NetMonetary, 1e-9)
	assert.InDelta(t, 100, r111.CostOfGoods, 1e-9) // 2 units × 50
	require.NotNil(t, r111.AdSpend)
	assert.InDelta(t, 100, *r111.AdSpend, 1e-9)
	// profit = 300 − 100 − 100
	assert.InDelta(t, 100, r111.Profit, 1e-9)
	require.NotNil(t, r111.ProfitPerUnit)
	assert.InDelta(t, 50, *r111.ProfitPerUnit, 1e-9)
	require.NotNil(t, r111.ROI)
	assert.InDelta(t, 200, *r111.ROI, 1e-9) // (100+100)/100·100
	require.NotNil(t, r111.BuyoutRate)
	assert.InDelta(t, 0.25, *r111.BuyoutRate, 1e-9) // 2/(10−2)

	r222 := rows[222]
	assert.InDelta(t, 150, r222.NetMonetary, 1e-9)
	assert.Zero(t, r222.CostOfGoods) // no cost entry defaults to zero
	assert.Nil(t, r222.ROI)
	assert.Nil(t, r222.BuyoutRate) // ordered−inTransit = 0
	require.NotNil(t, r222.AdSpend)
	assert.Zero(t, *r222.AdSpend)

	assert.InDelta(t, 250, got.TotalProfit, 1e-9)

	// Rows are ranked by profit: 222 (150) ahead of 111 (100).
	assert.Equal(t, domain.SKU(222), got.Rows[0].SKU)
	assert.Equal(t, domain.AbcA, rows[222].Class)
	assert.Equal(t, domain.AbcA, rows[111].Class)
}

func TestBuildReport_AdsFailureDegradesGracefully(t *testing.T) {
	market := new(mockMarket)
	adsAPI := new(mockAds)
	costs := new(mockCosts)

	costs.On("GetTrackedSkus", anyCtx(), "acc").Return(map[domain.SKU]struct{}{111: {}}, nil)
	costs.On("GetUnitCosts", anyCtx(), "acc").Return(map[domain.SKU]float64{}, nil)
	market.On("Operations", anyCtx(), period()).Return([]domain.Operation{
		{Accrual: 100, Amount: 100, Items: []domain.LineItem{{SKU: 111, Qty: 1}}},
	}, nil)
	market.On("SkuStats", anyCtx(), period()).Return([]domain.SkuStat{}, nil)
	market.On("Deliveries", anyCtx()).Return([]domain.DeliveryRecord{}, nil)
	adsAPI.On("CampaignStats", anyCtx(), period()).Return(nil, errors.New("ads api down"))

	b := NewBuilder(market, adsAPI, costs)
	got, err := b.BuildReport(context.Background(), "acc", period())
	require.NoError(t, err)

	assert.Contains(t, got.Unavailable, domain.SourceAds)
	require.Len(t, got.Rows, 1)
	// Unavailable ad spend renders as nil, not zero.
	assert.Nil(t, got.Rows[0].AdSpend)
	assert.Nil(t, got.Rows[0].AdViews)
	// Profit is computed without the missing contribution.
	assert.InDelta(t, 100, got.Rows[0].Profit, 1e-9)
}

func TestBuildReport_NoAdsClientMarksSourceUnavailable(t *testing.T) {
	market := new(mockMarket)
	costs := new(mockCosts)

	costs.On("GetTrackedSkus", anyCtx(), "acc").Return(map[domain.SKU]struct{}{111: {}}, nil)
	costs.On("GetUnitCosts", anyCtx(), "acc").Return(map[domain.SKU]float64{}, nil)
	market.On("Operations", anyCtx(), period()).Return([]domain.Operation{}, nil)
	market.On("SkuStats", anyCtx(), period()).Return([]domain.SkuStat{}, nil)
	market.On("Deliveries", anyCtx()).Return([]domain.DeliveryRecord{}, nil)

	b := NewBuilder(market, nil, costs)
	got, err := b.BuildReport(context.Background(), "acc", period())
	require.NoError(t, err)

	assert.Equal(t, []string{domain.SourceAds}, got.Unavailable)
}

func TestBuildReport_TransactionsFailureStillRenders(t *testing.T) {
	market := new(mockMarket)
	costs := new(mockCosts)

	costs.On("GetTrackedSkus", anyCtx(), "acc").Return(map[domain.SKU]struct{}{111: {}}, nil)
	costs.On("GetUnitCosts", anyCtx(), "acc").Return(map[domain.SKU]float64{111: 10}, nil)
	market.On("Operations", anyCtx(), period()).Return(nil, errors.New("timeout"))
	market.On("SkuStats", anyCtx(), period()).Return([]domain.SkuStat{
		{SKU: 111, OrderedUnits: 5, OrderedRevenue: 500},
	}, nil)
	market.On("Deliveries", anyCtx()).Return([]domain.DeliveryRecord{}, nil)

	b := NewBuilder(market, nil, costs)
	got, err := b.BuildReport(context.Background(), "acc", period())
	require.NoError(t, err)

	assert.Contains(t, got.Unavailable, domain.SourceTransactions)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, 5, got.Rows[0].OrderedUnits)
	assert.Zero(t, got.Rows[0].GrossUnits)
}

func TestBuildReport_TrackedSkusFailureIsFatal(t *testing.T) {
	market := new(mockMarket)
	costs := new(mockCosts)

	costs.On("GetTrackedSkus", anyCtx(), "acc").Return(nil, errors.New("db down"))

	b := NewBuilder(market, nil, costs)
	_, err := b.BuildReport(context.Background(), "acc", period())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracked skus")
}

func TestBuildReport_SkuWithNoActivityGetsZeroRow(t *testing.T) {
	market := new(mockMarket)
	costs := new(mockCosts)

	costs.On("GetTrackedSkus", anyCtx(), "acc").Return(map[domain.SKU]struct{}{111: {}, 999: {}}, nil)
	costs.On("GetUnitCosts", anyCtx(), "acc").Return(map[domain.SKU]float64{}, nil)
	market.On("Operations", anyCtx(), period()).Return([]domain.Operation{
		{Accrual: 100, Amount: 100, Items: []domain.LineItem{{SKU: 111, Qty: 1}}},
	}, nil)
	market.On("SkuStats", anyCtx(), period()).Return([]domain.SkuStat{}, nil)
	market.On("Deliveries", anyCtx()).Return([]domain.DeliveryRecord{}, nil)

	b := NewBuilder(market, nil, costs)
	got, err := b.BuildReport(context.Background(), "acc", period())
	require.NoError(t, err)

	require.Len(t, got.Rows, 2)
	var zeroRow domain.SkuReportRow
	for _, r := range got.Rows {
		if r.SKU == 999 {
			zeroRow = r
		}
	}
	assert.Zero(t, zeroRow.Profit)
	assert.Nil(t, zeroRow.BuyoutRate)
	assert.Nil(t, zeroRow.ProfitPerUnit)
	assert.Equal(t, domain.AbcC, zeroRow.Class)
}
