package allocate

import "github.com/sell-tools/margin-atlas/pkg/models/domain"

// AdTotals is the advertising contribution attributed to one SKU.
type AdTotals struct {
	Views  float64
	Clicks float64
	Spend  float64
}

// Campaigns attributes per-campaign advertising metrics to tracked SKUs.
//
// A campaign with an explicit SKU list is split evenly across the part of
// that list that is tracked. A catch-all campaign (AllProducts, empty list)
// is split across the whole tracked set proportionally to revenueWeights,
// falling back to an even split when every weight is zero. A campaign with
// no resolvable target is dropped: its spend stays unattributed rather than
// being smeared over the wrong SKUs.
func Campaigns(
	campaigns []domain.CampaignStats,
	tracked map[domain.SKU]struct{},
	revenueWeights map[domain.SKU]float64,
) map[domain.SKU]AdTotals {
	out := make(map[domain.SKU]AdTotals)

	for _, c := range campaigns {
		weights := campaignWeights(c, tracked, revenueWeights)
		if len(weights) == 0 {
			continue
		}

		views := Split(c.Views, weights)
		clicks := Split(c.Clicks, weights)
		spend := Split(c.Spend, weights)

		for sku := range weights {
			totals := out[sku]
			totals.Views += views[sku]
			totals.Clicks += clicks[sku]
			totals.Spend += spend[sku]
			out[sku] = totals
		}
	}
	return out
}

func campaignWeights(
	c domain.CampaignStats,
	tracked map[domain.SKU]struct{},
	revenueWeights map[domain.SKU]float64,
) map[domain.SKU]float64 {
	if len(c.SKUs) > 0 {
		targets := make([]domain.SKU, 0, len(c.SKUs))
		for _, sku := range c.SKUs {
			if _, ok := tracked[sku]; ok {
				targets = append(targets, sku)
			}
		}
		return EvenWeights(targets)
	}

	if !c.AllProducts || len(tracked) == 0 {
		return nil
	}

	weights := make(map[domain.SKU]float64, len(tracked))
	var sum float64
	for sku := range tracked {
		w := revenueWeights[sku]
		if w < 0 {
			w = 0
		}
		weights[sku] = w
		sum += w
	}
	if sum <= 0 {
		// No revenue this period: fall back to an even split.
		for sku := range weights {
			weights[sku] = 1
		}
	}
	return weights
}
