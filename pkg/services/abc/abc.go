// Package abc assigns ABC classes to SKUs by their cumulative share of total
// positive profit: the SKUs producing the first 80% are A, the next 15% B,
// the rest C.
package abc

import (
	"sort"

	"github.com/sell-tools/margin-atlas/pkg/models/domain"
)

const (
	classAShare = 0.80
	classBShare = 0.95
)

// Classify ranks SKUs descending by profit and assigns classes by the share
// of total positive profit accumulated before each SKU. Non-positive profit
// is always C; if nothing is profitable, everything is C. Ties are broken by
// the sort order, which is stable (profit descending, then SKU ascending).
func Classify(profit map[domain.SKU]float64) map[domain.SKU]domain.AbcClass {
	classes := make(map[domain.SKU]domain.AbcClass, len(profit))

	skus := make([]domain.SKU, 0, len(profit))
	var totalPositive float64
	for sku, p := range profit {
		skus = append(skus, sku)
		if p > 0 {
			totalPositive += p
		}
	}
	sort.Slice(skus, func(i, j int) bool {
		pi, pj := profit[skus[i]], profit[skus[j]]
		if pi != pj {
			return pi > pj
		}
		return skus[i] < skus[j]
	})

	if totalPositive <= 0 {
		for _, sku := range skus {
			classes[sku] = domain.AbcC
		}
		return classes
	}

	var accumulated float64
	for _, sku := range skus {
		p := profit[sku]
		if p <= 0 {
			classes[sku] = domain.AbcC
			continue
		}
		share := accumulated / totalPositive
		switch {
		case share <= classAShare:
			classes[sku] = domain.AbcA
		case share <= classBShare:
			classes[sku] = domain.AbcB
		default:
			classes[sku] = domain.AbcC
		}
		accumulated += p
	}
	return classes
}
