package domain

// AbcClass ranks a SKU by its cumulative share of total positive profit.
type AbcClass string

const (
	AbcA AbcClass = "A"
	AbcB AbcClass = "B"
	AbcC AbcClass = "C"
)

// Data sources a report draws from. A source that failed to fetch is listed
// in SkuReport.Unavailable and its contribution rendered as nil, not zero.
const (
	SourceTransactions = "transactions"
	SourceAnalytics    = "analytics"
	SourceDeliveries   = "deliveries"
	SourceAds          = "ads"
)

// SkuReportRow is the per-SKU output of a report run. Pointer fields are nil
// when the value is undefined (division by zero) or its source was
// unavailable for the run.
type SkuReportRow struct {
	SKU  SKU
	Name string

	OrderedUnits   int
	OrderedRevenue float64
	GrossUnits     int
	ReturnedUnits  int
	NetMonetary    float64

	InTransitUnits int
	ReturnUnits    int
	DefectUnits    int

	UnitCost    float64
	CostOfGoods float64

	AdSpend  *float64
	AdViews  *float64
	AdClicks *float64

	BuyoutRate    *float64
	Profit        float64
	ProfitPerUnit *float64
	ROI           *float64

	Class AbcClass
}

// SkuReport is the complete output of one report run.
type SkuReport struct {
	Account     string
	Period      DateRange
	Rows        []SkuReportRow
	TotalProfit float64
	Unavailable []string
}
