package domain

// SkuAggregate accumulates per-SKU counters for one report run. Instances are
// created fresh per run and discarded after the report is assembled.
//
// GrossUnits and ReturnedUnits are derived only from operations whose accrual
// is strictly positive/negative; zero-accrual operations touch NetMonetary
// only. Ordered* come from the analytics endpoint, the status counters from
// the delivery endpoint.
type SkuAggregate struct {
	Name string

	OrderedUnits   int
	OrderedRevenue float64

	GrossUnits    int
	GrossRevenue  float64
	ReturnedUnits int
	NetMonetary   float64

	InTransitUnits int
	ReturnUnits    int
	DefectUnits    int
}
