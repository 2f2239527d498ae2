package domain

import "time"

// SKU is the canonical product identifier. Upstream payloads carry it under
// several key names and sometimes as a string; it is normalized to this type
// once, at parse time.
type SKU int64

// LineItem is a single product position attached to an Operation. Qty doubles
// as the allocation weight for this SKU within the Operation.
type LineItem struct {
	SKU  SKU
	Qty  int
	Name string
}

// Operation is one financial transaction record from the marketplace.
// Accrual determines how the operation affects unit counters: positive means
// a completed sale, negative a return, zero a fee or service charge that
// carries money but no units.
type Operation struct {
	Time      time.Time
	Type      string
	Amount    float64
	Accrual   float64
	PostingID string
	Items     []LineItem
}

// SkuStat is a per-SKU row from the analytics endpoint.
type SkuStat struct {
	SKU            SKU
	Name           string
	OrderedUnits   int
	OrderedRevenue float64
}

// Delivery statuses reported by the supply endpoint.
const (
	DeliveryInTransit = "in_transit"
	DeliveryReturn    = "return"
	DeliveryDefect    = "defect"
)

// DeliveryRecord is a per-SKU entry from the delivery status endpoint.
type DeliveryRecord struct {
	SKU    SKU
	Status string
	Qty    int
}

// CampaignStats is a per-campaign aggregate from the advertising API.
// SKUs lists the campaign's declared targets; AllProducts marks catch-all
// campaigns that run against the whole catalog with no explicit list.
type CampaignStats struct {
	CampaignID  int64
	Views       float64
	Clicks      float64
	Spend       float64
	SKUs        []SKU
	AllProducts bool
}

// DateRange is a half-open reporting period [From, To).
type DateRange struct {
	From time.Time
	To   time.Time
}

// Days returns the period length in whole days, never less than 1.
func (r DateRange) Days() int {
	d := int(r.To.Sub(r.From).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

// LastDays builds a range covering the n days up to now.
func LastDays(n int, now time.Time) DateRange {
	if n < 1 {
		n = 1
	}
	return DateRange{From: now.AddDate(0, 0, -n), To: now}
}
