package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sell-tools/margin-atlas/pkg/models/api"
	"github.com/sell-tools/margin-atlas/pkg/models/domain"
	"github.com/sell-tools/margin-atlas/pkg/services/config"
)

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) BuildReport(ctx context.Context, account string, days int) (*domain.SkuReport, error) {
	args := m.Called(ctx, account, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SkuReport), args.Error(1)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) GetAccounts(ctx context.Context) ([]config.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]config.Account), args.Error(1)
}

func (m *mockRegistry) GetAccount(ctx context.Context, name string) (*config.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*config.Account), args.Error(1)
}

func setupAPI(t *testing.T, reports *mockReportService, registry *mockRegistry) *httptest.Server {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))

	webAPI := NewWebAPI(logger, Config{
		Addr:              ":0",
		RequestsPerSecond: 1000,
		Burst:             1000,
		Dependencies: Dependencies{
			Reports:  reports,
			Registry: registry,
		},
	})

	srv := httptest.NewServer(webAPI.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestWebAPI_ListAccounts(t *testing.T) {
	reports := new(mockReportService)
	registry := new(mockRegistry)
	registry.On("GetAccounts", mock.Anything).Return([]config.Account{
		{Name: "shop-a", AccountID: "1", APIKey: "k", AdsClientID: "c", AdsClientSecret: "s"},
		{Name: "shop-b", AccountID: "2", APIKey: "k"},
	}, nil)

	srv := setupAPI(t, reports, registry)

	resp, err := http.Get(srv.URL + "/api/v1/accounts")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var accounts []api.Account
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accounts))
	assert.Equal(t, []api.Account{
		{Name: "shop-a", Ads: true},
		{Name: "shop-b", Ads: false},
	}, accounts)
}

func TestWebAPI_GetReport(t *testing.T) {
	reports := new(mockReportService)
	registry := new(mockRegistry)

	adSpend := 120.0
	reports.On("BuildReport", mock.Anything, "shop-a", 14).Return(&domain.SkuReport{
		Account: "shop-a",
		Period: domain.DateRange{
			From: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		Rows: []domain.SkuReportRow{
			{SKU: 111, GrossUnits: 3, NetMonetary: 900, AdSpend: &adSpend, Profit: 600, Class: domain.AbcA},
		},
		TotalProfit: 600,
		Unavailable: []string{domain.SourceDeliveries},
	}, nil)

	srv := setupAPI(t, reports, registry)

	resp, err := http.Get(srv.URL + "/api/v1/accounts/shop-a/report?days=14")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report api.SkuReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "shop-a", report.Account)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, int64(111), report.Rows[0].Sku)
	require.NotNil(t, report.Rows[0].AdSpend)
	assert.InDelta(t, 120, *report.Rows[0].AdSpend, 1e-9)
	assert.Equal(t, "A", report.Rows[0].AbcClass)
	assert.Equal(t, []string{domain.SourceDeliveries}, report.Unavailable)
}

func TestWebAPI_GetReportDefaultsAndValidation(t *testing.T) {
	reports := new(mockReportService)
	registry := new(mockRegistry)
	reports.On("BuildReport", mock.Anything, "shop-a", 7).Return(&domain.SkuReport{Account: "shop-a"}, nil)

	srv := setupAPI(t, reports, registry)

	resp, err := http.Get(srv.URL + "/api/v1/accounts/shop-a/report")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	reports.AssertCalled(t, "BuildReport", mock.Anything, "shop-a", 7)

	resp, err = http.Get(srv.URL + "/api/v1/accounts/shop-a/report?days=zero")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebAPI_GetReportUnknownAccount(t *testing.T) {
	reports := new(mockReportService)
	registry := new(mockRegistry)
	reports.On("BuildReport", mock.Anything, "ghost", 7).
		Return(nil, fmt.Errorf("resolve account: %w", config.ErrAccountNotFound))

	srv := setupAPI(t, reports, registry)

	resp, err := http.Get(srv.URL + "/api/v1/accounts/ghost/report")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebAPI_GetReportFailure(t *testing.T) {
	reports := new(mockReportService)
	registry := new(mockRegistry)
	reports.On("BuildReport", mock.Anything, "shop-a", 7).Return(nil, errors.New("upstream down"))

	srv := setupAPI(t, reports, registry)

	resp, err := http.Get(srv.URL + "/api/v1/accounts/shop-a/report")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "failed to build report")
}

func TestWebAPI_RateLimitRejectsBursts(t *testing.T) {
	reports := new(mockReportService)
	registry := new(mockRegistry)
	registry.On("GetAccounts", mock.Anything).Return([]config.Account{}, nil)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	webAPI := NewWebAPI(logger, Config{
		RequestsPerSecond: 1,
		Burst:             2,
		Dependencies:      Dependencies{Reports: reports, Registry: registry},
	})
	srv := httptest.NewServer(webAPI.Router())
	defer srv.Close()

	statuses := make(map[int]int)
	for i := 0; i < 5; i++ {
		resp, err := http.Get(srv.URL + "/api/v1/accounts")
		require.NoError(t, err)
		resp.Body.Close()
		statuses[resp.StatusCode]++
	}

	assert.Positive(t, statuses[http.StatusOK])
	assert.Positive(t, statuses[http.StatusTooManyRequests])
}
