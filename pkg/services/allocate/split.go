// Package allocate splits shared monetary totals across SKUs: proportional
// splitting for transaction amounts and campaign-to-SKU attribution for
// advertising metrics.
package allocate

import "github.com/sell-tools/margin-atlas/pkg/models/domain"

// Split distributes total across keys proportionally to their weights:
// share[k] = total·w[k]/Σw. A missing, empty or non-positive weight set
// yields an empty map — the caller treats that as "not allocable". Shares
// are not rounded; rounding happens only at display time.
func Split(total float64, weights map[domain.SKU]float64) map[domain.SKU]float64 {
	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	if sum <= 0 {
		return map[domain.SKU]float64{}
	}

	shares := make(map[domain.SKU]float64, len(weights))
	for sku, w := range weights {
		if w > 0 {
			shares[sku] = total * w / sum
		}
	}
	return shares
}

// EvenWeights builds a unit-weight map over the given SKUs, for even splits
// through Split.
func EvenWeights(skus []domain.SKU) map[domain.SKU]float64 {
	weights := make(map[domain.SKU]float64, len(skus))
	for _, sku := range skus {
		weights[sku] = 1
	}
	return weights
}
