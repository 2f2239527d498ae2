package api

// SkuReportRow mirrors domain.SkuReportRow for JSON responses. Nullable
// metrics are pointers so "unavailable" serializes as null, not 0.
type SkuReportRow struct {
	Sku            int64    `json:"sku"`
	Name           string   `json:"name,omitempty"`
	OrderedUnits   int      `json:"ordered_units"`
	OrderedRevenue float64  `json:"ordered_revenue"`
	GrossUnits     int      `json:"gross_units"`
	ReturnedUnits  int      `json:"returned_units"`
	NetMonetary    float64  `json:"net_monetary"`
	InTransitUnits int      `json:"in_transit_units"`
	ReturnUnits    int      `json:"return_units"`
	DefectUnits    int      `json:"defect_units"`
	UnitCost       float64  `json:"unit_cost"`
	CostOfGoods    float64  `json:"cost_of_goods"`
	AdSpend        *float64 `json:"ad_spend"`
	AdViews        *float64 `json:"ad_views"`
	AdClicks       *float64 `json:"ad_clicks"`
	BuyoutRate     *float64 `json:"buyout_rate"`
	Profit         float64  `json:"profit"`
	ProfitPerUnit  *float64 `json:"profit_per_unit"`
	ROI            *float64 `json:"roi"`
	AbcClass       string   `json:"abc_class"`
}

// SkuReport is the JSON body returned by the report endpoint.
type SkuReport struct {
	Account     string         `json:"account"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Rows        []SkuReportRow `json:"rows"`
	TotalProfit float64        `json:"total_profit"`
	Unavailable []string       `json:"unavailable,omitempty"`
}

// Account is a configured seller profile as exposed by the accounts endpoint.
type Account struct {
	Name string `json:"name"`
	Ads  bool   `json:"ads"`
}
