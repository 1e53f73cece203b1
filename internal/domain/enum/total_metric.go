package enum

import (
	"encoding/json"
)

// TotalMetric selects which bills a day total counts
type TotalMetric int

const (
	// TotalMetricTotal counts regular sales
	TotalMetricTotal TotalMetric = 0
	// TotalMetricPromoTotal counts bills given away as free promotion
	TotalMetricPromoTotal TotalMetric = 1
)

func (m TotalMetric) String() string {
	return [...]string{"total", "promo_total"}[m]
}

// ParseTotalMetric reads the query form of a metric
func ParseTotalMetric(s string) (TotalMetric, bool) {
	switch s {
	case "", "total":
		return TotalMetricTotal, true
	case "promo_total":
		return TotalMetricPromoTotal, true
	}
	return 0, false
}

func (m TotalMetric) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}
