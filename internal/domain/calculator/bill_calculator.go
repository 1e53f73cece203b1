// Package calculator derives net, VAT and gross totals from bills. It does
// no I/O and never mutates the bills it is given.
package calculator

import (
	"sort"

	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/pkg/money"
	"github.com/shopspring/decimal"
)

// BillCalculator works on a private snapshot of one bill. Close releases
// the snapshot; using the calculator afterwards panics.
type BillCalculator struct {
	bill *entity.Bill
}

// ClassTotal is the per VAT class breakdown of a bill or a set of bills
type ClassTotal struct {
	Abbreviation string          `json:"abbreviation"`
	Name         string          `json:"name"`
	Rate         decimal.Decimal `json:"rate"`
	Net          money.Money     `json:"net"`
	VAT          money.Money     `json:"vat"`
	Gross        money.Money     `json:"gross"`
}

// New snapshots bill for calculation
func New(bill *entity.Bill) *BillCalculator {
	return &BillCalculator{bill: bill.Clone()}
}

// Close releases the snapshot
func (c *BillCalculator) Close() {
	c.bill = nil
}

// NetFor splits VAT out of the item's gross price
func (c *BillCalculator) NetFor(item *entity.BillItem) money.Money {
	return item.PriceGross().NetOf(rateOf(c.vatClassFor(item)))
}

// VATClassAbbreviationFor returns the letter of the VAT class applied to item
func (c *BillCalculator) VATClassAbbreviationFor(item *entity.BillItem) rune {
	if class := c.vatClassFor(item); class != nil {
		return class.Symbol()
	}
	return 0
}

// AllFoundVATClasses returns the distinct VAT class letters on the bill,
// sorted
func (c *BillCalculator) AllFoundVATClasses() []rune {
	seen := make(map[rune]bool)
	var found []rune
	for _, item := range c.snapshot().Items {
		r := c.VATClassAbbreviationFor(item)
		if !seen[r] {
			seen[r] = true
			found = append(found, r)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i] < found[j] })
	return found
}

// VATClassForAbbreviation looks up a class found on the bill by its letter
func (c *BillCalculator) VATClassForAbbreviation(abbreviation rune) (*entity.VATClass, bool) {
	for _, item := range c.snapshot().Items {
		if class := c.vatClassFor(item); class != nil && class.Symbol() == abbreviation {
			return class, true
		}
	}
	return nil, false
}

// TotalGross sums every item's gross price
func (c *BillCalculator) TotalGross() money.Money {
	bill := c.snapshot()
	total := money.Zero(bill.Currency())
	for _, item := range bill.Items {
		total = total.Add(item.PriceGross())
	}
	return total
}

// TotalGrossFor sums the gross price of the items in class
func (c *BillCalculator) TotalGrossFor(class *entity.VATClass) money.Money {
	bill := c.snapshot()
	total := money.Zero(bill.Currency())
	for _, item := range c.itemsIn(class) {
		total = total.Add(item.PriceGross())
	}
	return total
}

// TotalNetFor sums the rounded per-item net prices of the items in class
func (c *BillCalculator) TotalNetFor(class *entity.VATClass) money.Money {
	bill := c.snapshot()
	total := money.Zero(bill.Currency())
	for _, item := range c.itemsIn(class) {
		total = total.Add(c.NetFor(item))
	}
	return total
}

// TotalVATFor is the difference between gross and net so the three totals
// always reconcile
func (c *BillCalculator) TotalVATFor(class *entity.VATClass) money.Money {
	return c.TotalGrossFor(class).Sub(c.TotalNetFor(class))
}

// Totals returns the breakdown for every VAT class found, ordered by letter
func (c *BillCalculator) Totals() []ClassTotal {
	return breakdown(c)
}

func (c *BillCalculator) snapshot() *entity.Bill {
	if c.bill == nil {
		panic("calculator: bill calculator used after Close")
	}
	return c.bill
}

// vatClassFor resolves the class applied to an item. All items of a bill
// share the bill's global tax info.
func (c *BillCalculator) vatClassFor(_ *entity.BillItem) *entity.VATClass {
	info := c.snapshot().GlobalTaxInfo
	if info == nil {
		return nil
	}
	return info.VATClass
}

func (c *BillCalculator) itemsIn(class *entity.VATClass) []*entity.BillItem {
	var items []*entity.BillItem
	for _, item := range c.snapshot().Items {
		if sameClass(c.vatClassFor(item), class) {
			items = append(items, item)
		}
	}
	return items
}

func sameClass(a, b *entity.VATClass) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Symbol() == b.Symbol()
}

func rateOf(class *entity.VATClass) decimal.Decimal {
	if class == nil {
		return decimal.Zero
	}
	return class.Rate
}

type classAggregate interface {
	AllFoundVATClasses() []rune
	VATClassForAbbreviation(rune) (*entity.VATClass, bool)
	TotalNetFor(*entity.VATClass) money.Money
	TotalVATFor(*entity.VATClass) money.Money
	TotalGrossFor(*entity.VATClass) money.Money
}

func breakdown(a classAggregate) []ClassTotal {
	var totals []ClassTotal
	for _, r := range a.AllFoundVATClasses() {
		class, ok := a.VATClassForAbbreviation(r)
		if !ok {
			continue
		}
		totals = append(totals, ClassTotal{
			Abbreviation: class.Abbreviation,
			Name:         class.Name,
			Rate:         class.Rate,
			Net:          a.TotalNetFor(class),
			VAT:          a.TotalVATFor(class),
			Gross:        a.TotalGrossFor(class),
		})
	}
	return totals
}
