// Package adapters maps between the domain, store and api model layers.
package adapters

import (
	"time"

	"github.com/sell-tools/margin-atlas/pkg/models/api"
	"github.com/sell-tools/margin-atlas/pkg/models/domain"
	"github.com/sell-tools/margin-atlas/pkg/services/config"
)

func MapSkuReportDomainToApi(r *domain.SkuReport) api.SkuReport {
	rows := make([]api.SkuReportRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, MapSkuReportRowDomainToApi(row))
	}

	return api.SkuReport{
		Account:     r.Account,
		From:        r.Period.From.Format(time.RFC3339),
		To:          r.Period.To.Format(time.RFC3339),
		Rows:        rows,
		TotalProfit: r.TotalProfit,
		Unavailable: r.Unavailable,
	}
}

func MapSkuReportRowDomainToApi(row domain.SkuReportRow) api.SkuReportRow {
	return api.SkuReportRow{
		Sku:            int64(row.SKU),
		Name:           row.Name,
		OrderedUnits:   row.OrderedUnits,
		OrderedRevenue: row.OrderedRevenue,
		GrossUnits:     row.GrossUnits,
		ReturnedUnits:  row.ReturnedUnits,
		NetMonetary:    row.NetMonetary,
		InTransitUnits: row.InTransitUnits,
		ReturnUnits:    row.ReturnUnits,
		DefectUnits:    row.DefectUnits,
		UnitCost:       row.UnitCost,
		CostOfGoods:    row.CostOfGoods,
		AdSpend:        row.AdSpend,
		AdViews:        row.AdViews,
		AdClicks:       row.AdClicks,
		BuyoutRate:     row.BuyoutRate,
		Profit:         row.Profit,
		ProfitPerUnit:  row.ProfitPerUnit,
		ROI:            row.ROI,
		AbcClass:       string(row.Class),
	}
}

func MapAccountConfigToApi(acc config.Account) api.Account {
	return api.Account{
		Name: acc.Name,
		Ads:  acc.HasAds(),
	}
}
