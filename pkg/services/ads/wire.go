package ads

import "github.com/sell-tools/margin-atlas/pkg/models/domain"

// Wire types for the advertising API. Campaign targets arrive either as an
// explicit SKU list or as an "all products" flag with an empty list; the
// mapping keeps both so the allocator can tell them apart.

type rawCampaign struct {
	ID          int64   `json:"id"`
	Views       float64 `json:"views"`
	Clicks      float64 `json:"clicks"`
	Spend       float64 `json:"spend"`
	SKUs        []int64 `json:"skus"`
	AllProducts bool    `json:"all_products"`
}

func (r rawCampaign) toDomain() domain.CampaignStats {
	skus := make([]domain.SKU, 0, len(r.SKUs))
	for _, s := range r.SKUs {
		if s != 0 {
			skus = append(skus, domain.SKU(s))
		}
	}
	return domain.CampaignStats{
		CampaignID:  r.ID,
		Views:       r.Views,
		Clicks:      r.Clicks,
		Spend:       r.Spend,
		SKUs:        skus,
		AllProducts: r.AllProducts,
	}
}

type campaignStatsResponse struct {
	Campaigns []rawCampaign `json:"campaigns"`
}
