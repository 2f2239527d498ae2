package marketplace

import (
	"strconv"
	"time"

	"github.com/sell-tools/margin-atlas/pkg/models/domain"
)

// Wire types for the seller-data API. Upstream payloads are loosely shaped:
// several generations of field names coexist, SKUs arrive as numbers or
// strings, quantities under two different keys. Each endpoint has exactly
// one mapping function here that applies the documented fallbacks once;
// nothing downstream looks at raw payloads.

// flexSKU accepts a SKU encoded as a JSON number or string.
type flexSKU int64

func (s *flexSKU) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		if unquoted == "" {
			*s = 0
			return nil
		}
		n, err := strconv.ParseInt(unquoted, 10, 64)
		if err != nil {
			return err
		}
		*s = flexSKU(n)
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*s = flexSKU(n)
	return nil
}

type rawLineItem struct {
	SKU      flexSKU `json:"sku"`
	NmID     flexSKU `json:"nm_id"`
	Qty      int     `json:"qty"`
	Quantity int     `json:"quantity"`
	Name     string  `json:"name"`
	Subject  string  `json:"subject_name"`
}

func (r rawLineItem) toDomain() domain.LineItem {
	sku := domain.SKU(r.SKU)
	if sku == 0 {
		sku = domain.SKU(r.NmID)
	}
	qty := r.Qty
	if qty == 0 {
		qty = r.Quantity
	}
	name := r.Name
	if name == "" {
		name = r.Subject
	}
	return domain.LineItem{SKU: sku, Qty: qty, Name: name}
}

type rawOperation struct {
	Date          string        `json:"date"`
	OperationType string        `json:"operation_type"`
	Amount        *float64      `json:"amount"`
	Total         *float64      `json:"total"`
	Accrual       float64       `json:"accrual_amount"`
	PostingNumber string        `json:"posting_number"`
	OrderID       string        `json:"order_id"`
	Items         []rawLineItem `json:"items"`
}

func (r rawOperation) toDomain() domain.Operation {
	var amount float64
	switch {
	case r.Amount != nil:
		amount = *r.Amount
	case r.Total != nil:
		amount = *r.Total
	}

	posting := r.PostingNumber
	if posting == "" {
		posting = r.OrderID
	}

	ts, _ := time.Parse(time.RFC3339, r.Date)

	items := make([]domain.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		item := it.toDomain()
		if item.SKU != 0 {
			items = append(items, item)
		}
	}

	return domain.Operation{
		Time:      ts,
		Type:      r.OperationType,
		Amount:    amount,
		Accrual:   r.Accrual,
		PostingID: posting,
		Items:     items,
	}
}

type operationsResponse struct {
	Operations []rawOperation `json:"operations"`
}

type rawSkuStat struct {
	SKU            flexSKU  `json:"sku"`
	NmID           flexSKU  `json:"nm_id"`
	Name           string   `json:"name"`
	OrderedUnits   int      `json:"ordered_units"`
	OrderedRevenue *float64 `json:"ordered_revenue"`
	OrderedAmount  *float64 `json:"ordered_amount"`
}

func (r rawSkuStat) toDomain() domain.SkuStat {
	sku := domain.SKU(r.SKU)
	if sku == 0 {
		sku = domain.SKU(r.NmID)
	}
	var revenue float64
	switch {
	case r.OrderedRevenue != nil:
		revenue = *r.OrderedRevenue
	case r.OrderedAmount != nil:
		revenue = *r.OrderedAmount
	}
	return domain.SkuStat{
		SKU:            sku,
		Name:           r.Name,
		OrderedUnits:   r.OrderedUnits,
		OrderedRevenue: revenue,
	}
}

type skuStatsResponse struct {
	Data struct {
		Items  []rawSkuStat `json:"items"`
		Cursor struct {
			Next string `json:"next"`
		} `json:"cursor"`
	} `json:"data"`
}

type rawDelivery struct {
	SKU    flexSKU `json:"sku"`
	NmID   flexSKU `json:"nm_id"`
	Status string  `json:"status"`
	Qty    int     `json:"qty"`
}

// Upstream delivery status vocabulary, mapped to the domain constants.
var deliveryStatuses = map[string]string{
	"in_transit":      domain.DeliveryInTransit,
	"to_client":       domain.DeliveryInTransit,
	"return":          domain.DeliveryReturn,
	"from_client":     domain.DeliveryReturn,
	"defect":          domain.DeliveryDefect,
	"marriage_defect": domain.DeliveryDefect,
}

func (r rawDelivery) toDomain() (domain.DeliveryRecord, bool) {
	sku := domain.SKU(r.SKU)
	if sku == 0 {
		sku = domain.SKU(r.NmID)
	}
	status, ok := deliveryStatuses[r.Status]
	if !ok || sku == 0 {
		return domain.DeliveryRecord{}, false
	}
	return domain.DeliveryRecord{SKU: sku, Status: status, Qty: r.Qty}, true
}

type deliveriesResponse struct {
	Deliveries []rawDelivery `json:"deliveries"`
}
