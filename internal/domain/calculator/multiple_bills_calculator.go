package calculator

import (
	"sort"

	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/pkg/money"
)

// MultipleBillsCalculator totals a set of bills, such as one business day.
// The metric selects regular sales or free promotions.
type MultipleBillsCalculator struct {
	metric   enum.TotalMetric
	bills    []*BillCalculator
	currency string
}

// NewMultipleBills snapshots the bills counted by metric
func NewMultipleBills(bills []*entity.Bill, metric enum.TotalMetric) *MultipleBillsCalculator {
	m := &MultipleBillsCalculator{metric: metric}
	for _, b := range bills {
		if !counts(b, metric) {
			continue
		}
		if m.currency == "" {
			m.currency = b.Currency()
		}
		m.bills = append(m.bills, New(b))
	}
	return m
}

func counts(b *entity.Bill, metric enum.TotalMetric) bool {
	switch metric {
	case enum.TotalMetricPromoTotal:
		return b.FreePromotion
	default:
		return !b.FreePromotion
	}
}

// Close releases every bill snapshot
func (m *MultipleBillsCalculator) Close() {
	for _, c := range m.bills {
		c.Close()
	}
	m.bills = nil
}

func (m *MultipleBillsCalculator) Metric() enum.TotalMetric {
	return m.metric
}

// BillCount is the number of bills counted
func (m *MultipleBillsCalculator) BillCount() int {
	return len(m.bills)
}

func (m *MultipleBillsCalculator) TotalGross() money.Money {
	total := money.Zero(m.currency)
	for _, c := range m.bills {
		total = total.Add(c.TotalGross())
	}
	return total
}

func (m *MultipleBillsCalculator) AllFoundVATClasses() []rune {
	seen := make(map[rune]bool)
	var found []rune
	for _, c := range m.bills {
		for _, r := range c.AllFoundVATClasses() {
			if !seen[r] {
				seen[r] = true
				found = append(found, r)
			}
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	return found
}

func (m *MultipleBillsCalculator) VATClassForAbbreviation(abbreviation rune) (*entity.VATClass, bool) {
	for _, c := range m.bills {
		if class, ok := c.VATClassForAbbreviation(abbreviation); ok {
			return class, true
		}
	}
	return nil, false
}

func (m *MultipleBillsCalculator) TotalGrossFor(class *entity.VATClass) money.Money {
	total := money.Zero(m.currency)
	for _, c := range m.bills {
		total = total.Add(c.TotalGrossFor(class))
	}
	return total
}

func (m *MultipleBillsCalculator) TotalNetFor(class *entity.VATClass) money.Money {
	total := money.Zero(m.currency)
	for _, c := range m.bills {
		total = total.Add(c.TotalNetFor(class))
	}
	return total
}

func (m *MultipleBillsCalculator) TotalVATFor(class *entity.VATClass) money.Money {
	return m.TotalGrossFor(class).Sub(m.TotalNetFor(class))
}

// Totals returns the breakdown for every VAT class found
func (m *MultipleBillsCalculator) Totals() []ClassTotal {
	return breakdown(m)
}
