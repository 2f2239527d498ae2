// Package aggregate folds raw marketplace records into per-SKU accumulators
// for one report run.
package aggregate

import (
	"github.com/sell-tools/margin-atlas/pkg/models/domain"
	"github.com/sell-tools/margin-atlas/pkg/services/allocate"
)

// Aggregator accumulates SkuAggregates from operations, analytics rows and
// delivery records. It is per-run state: build one, feed it a full scan,
// read the aggregates, discard it.
type Aggregator struct {
	tracked map[domain.SKU]struct{}
	aggs    map[domain.SKU]*domain.SkuAggregate

	// groupWeights remembers the item weights seen under each posting
	// identifier. Upstream splits some orders into a "money" record and an
	// "items" record sharing one posting id; the cache lets the money
	// record reuse the items record's weights. It spans the whole scan,
	// not a single page.
	groupWeights map[string]map[domain.SKU]float64
}

func NewAggregator(tracked map[domain.SKU]struct{}) *Aggregator {
	return &Aggregator{
		tracked:      tracked,
		aggs:         make(map[domain.SKU]*domain.SkuAggregate),
		groupWeights: make(map[string]map[domain.SKU]float64),
	}
}

// AddOperations feeds a full operation scan in upstream order.
func (a *Aggregator) AddOperations(ops []domain.Operation) {
	for _, op := range ops {
		a.AddOperation(op)
	}
}

// AddOperation allocates the operation's amount across its tracked SKUs by
// item quantity and updates unit counters by accrual sign. The sign is
// classified once per operation: positive adds gross units, negative adds
// returned units, zero touches money only.
func (a *Aggregator) AddOperation(op domain.Operation) {
	weights := a.operationWeights(op)
	shares := allocate.Split(op.Amount, weights)
	if len(shares) == 0 {
		return
	}

	for sku, share := range shares {
		agg := a.aggregate(sku)
		agg.NetMonetary += share

		w := weights[sku]
		switch {
		case op.Accrual > 0:
			agg.GrossUnits += int(w)
			agg.GrossRevenue += share
		case op.Accrual < 0:
			agg.ReturnedUnits += int(w)
		}
	}

	a.rememberNames(op.Items)
}

// operationWeights builds the allocation weight map for one operation:
// line-item quantities restricted to tracked SKUs, or the cached weights of
// the operation's posting group when the record carries no items.
func (a *Aggregator) operationWeights(op domain.Operation) map[domain.SKU]float64 {
	if len(op.Items) == 0 {
		if op.PostingID == "" {
			return nil
		}
		return a.groupWeights[op.PostingID]
	}

	weights := make(map[domain.SKU]float64)
	for _, item := range op.Items {
		if _, ok := a.tracked[item.SKU]; !ok {
			continue
		}
		if item.Qty > 0 {
			weights[item.SKU] += float64(item.Qty)
		}
	}
	if len(weights) > 0 && op.PostingID != "" {
		a.groupWeights[op.PostingID] = weights
	}
	return weights
}

// ApplySkuStats records ordered units/revenue from the analytics endpoint.
func (a *Aggregator) ApplySkuStats(stats []domain.SkuStat) {
	for _, s := range stats {
		if _, ok := a.tracked[s.SKU]; !ok {
			continue
		}
		agg := a.aggregate(s.SKU)
		agg.OrderedUnits += s.OrderedUnits
		agg.OrderedRevenue += s.OrderedRevenue
		if agg.Name == "" {
			agg.Name = s.Name
		}
	}
}

// ApplyDeliveries records in-transit/return/defect unit counts.
func (a *Aggregator) ApplyDeliveries(records []domain.DeliveryRecord) {
	for _, r := range records {
		if _, ok := a.tracked[r.SKU]; !ok {
			continue
		}
		agg := a.aggregate(r.SKU)
		switch r.Status {
		case domain.DeliveryInTransit:
			agg.InTransitUnits += r.Qty
		case domain.DeliveryReturn:
			agg.ReturnUnits += r.Qty
		case domain.DeliveryDefect:
			agg.DefectUnits += r.Qty
		}
	}
}

// Aggregates returns the accumulated per-SKU state. Tracked SKUs with no
// activity have no entry; the report assembler fills those in.
func (a *Aggregator) Aggregates() map[domain.SKU]*domain.SkuAggregate {
	return a.aggs
}

// GrossRevenueWeights returns each SKU's gross revenue, the default weight
// set for attributing catch-all advertising campaigns.
func (a *Aggregator) GrossRevenueWeights() map[domain.SKU]float64 {
	weights := make(map[domain.SKU]float64, len(a.aggs))
	for sku, agg := range a.aggs {
		weights[sku] = agg.GrossRevenue
	}
	return weights
}

func (a *Aggregator) aggregate(sku domain.SKU) *domain.SkuAggregate {
	agg, ok := a.aggs[sku]
	if !ok {
		agg = &domain.SkuAggregate{}
		a.aggs[sku] = agg
	}
	return agg
}

func (a *Aggregator) rememberNames(items []domain.LineItem) {
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		if agg, ok := a.aggs[item.SKU]; ok && agg.Name == "" {
			agg.Name = item.Name
		}
	}
}
