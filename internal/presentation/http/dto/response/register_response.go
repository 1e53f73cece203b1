package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/calculator"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/pkg/money"
	"github.com/shopspring/decimal"
)

// OfferResponse is one offer version as shown to the register
type OfferResponse struct {
	ID          uuid.UUID      `json:"id"`
	SalesItemID uuid.UUID      `json:"sales_item_id"`
	Name        string         `json:"name"`
	Kind        enum.OfferKind `json:"kind"`
	Price       money.Money    `json:"price"`
	ValidFrom   *time.Time     `json:"valid_from,omitempty"`
	ValidTo     *time.Time     `json:"valid_to,omitempty"`
}

// NewOfferResponse maps an offer
func NewOfferResponse(o *entity.Offer) *OfferResponse {
	return &OfferResponse{
		ID:          o.ID,
		SalesItemID: o.SalesItemID,
		Name:        o.Name(),
		Kind:        o.Kind,
		Price:       o.Price,
		ValidFrom:   o.ValidFrom,
		ValidTo:     o.ValidTo,
	}
}

// NewOfferList maps offers in order
func NewOfferList(offers []*entity.Offer) []*OfferResponse {
	out := make([]*OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, NewOfferResponse(o))
	}
	return out
}

// BillItemResponse is one sold product with its attachments and the
// figures the calculator derives for it
type BillItemResponse struct {
	ID          uuid.UUID        `json:"id"`
	Position    int              `json:"position"`
	Offer       *OfferResponse   `json:"offer"`
	Attachments []*OfferResponse `json:"attachments"`
	Gross       money.Money      `json:"gross"`
	Net         money.Money      `json:"net"`
	VATClass    string           `json:"vat_class"`
}

// BillResponse is a bill together with its totals
type BillResponse struct {
	ID            uuid.UUID               `json:"id"`
	OpenedAt      time.Time               `json:"opened_at"`
	ClosedAt      *time.Time              `json:"closed_at,omitempty"`
	Cashier       string                  `json:"cashier,omitempty"`
	StaffConsumer string                  `json:"staff_consumer,omitempty"`
	FreePromotion bool                    `json:"free_promotion"`
	ToGo          bool                    `json:"to_go"`
	TaxUsage      *enum.TaxUsage          `json:"tax_usage,omitempty"`
	Items         []*BillItemResponse     `json:"items"`
	Totals        []calculator.ClassTotal `json:"totals"`
	TotalGross    money.Money             `json:"total_gross"`
}

// NewBillResponse runs the bill through a calculator. A nil bill maps to nil
// so an empty register answers with no data.
func NewBillResponse(b *entity.Bill) *BillResponse {
	if b == nil {
		return nil
	}

	calc := calculator.New(b)
	defer calc.Close()

	out := &BillResponse{
		ID:            b.ID,
		OpenedAt:      b.OpenedAt,
		ClosedAt:      b.ClosedAt,
		FreePromotion: b.FreePromotion,
		ToGo:          b.ToGo,
		Items:         make([]*BillItemResponse, 0, len(b.Items)),
		Totals:        calc.Totals(),
		TotalGross:    calc.TotalGross(),
	}
	if b.Cashier != nil {
		out.Cashier = b.Cashier.Name
	}
	if b.StaffConsumer != nil {
		out.StaffConsumer = b.StaffConsumer.Name
	}
	if b.GlobalTaxInfo != nil {
		usage := b.GlobalTaxInfo.Usage
		out.TaxUsage = &usage
	}

	for _, item := range b.Items {
		view := &BillItemResponse{
			ID:          item.ID,
			Position:    item.Position,
			Offer:       NewOfferResponse(item.Offer),
			Attachments: NewOfferList(item.AttachedOffers()),
			Gross:       item.PriceGross(),
			Net:         calc.NetFor(item),
		}
		if r := calc.VATClassAbbreviationFor(item); r != 0 {
			view.VATClass = string(r)
		}
		out.Items = append(out.Items, view)
	}
	return out
}

// NewBillList maps bills in order
func NewBillList(bills []*entity.Bill) []*BillResponse {
	out := make([]*BillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, NewBillResponse(b))
	}
	return out
}

// TotalsResponse is the summary of a business day
type TotalsResponse struct {
	Period     enum.Period             `json:"period"`
	Metric     enum.TotalMetric        `json:"metric"`
	BillCount  int                     `json:"bill_count"`
	Totals     []calculator.ClassTotal `json:"totals"`
	TotalGross money.Money             `json:"total_gross"`
}

// NewTotalsResponse reads a multiple bills calculator and releases it
func NewTotalsResponse(period enum.Period, calc *calculator.MultipleBillsCalculator) *TotalsResponse {
	defer calc.Close()
	return &TotalsResponse{
		Period:     period,
		Metric:     calc.Metric(),
		BillCount:  calc.BillCount(),
		Totals:     calc.Totals(),
		TotalGross: calc.TotalGross(),
	}
}

// TaxInfoResponse is one global tax setting
type TaxInfoResponse struct {
	ID           uuid.UUID       `json:"id"`
	Usage        enum.TaxUsage   `json:"usage"`
	ClassName    string          `json:"class_name"`
	Rate         decimal.Decimal `json:"rate"`
	Abbreviation string          `json:"abbreviation"`
	ValidFrom    *time.Time      `json:"valid_from,omitempty"`
	ValidTo      *time.Time      `json:"valid_to,omitempty"`
}

// NewTaxInfoResponse maps a tax info with its VAT class
func NewTaxInfoResponse(t *entity.TaxInfo) *TaxInfoResponse {
	view := &TaxInfoResponse{
		ID:        t.ID,
		Usage:     t.Usage,
		ValidFrom: t.ValidFrom,
		ValidTo:   t.ValidTo,
	}
	if t.VATClass != nil {
		view.ClassName = t.VATClass.Name
		view.Rate = t.VATClass.Rate
		view.Abbreviation = t.VATClass.Abbreviation
	}
	return view
}

// NewTaxInfoList maps tax infos in order
func NewTaxInfoList(infos []*entity.TaxInfo) []*TaxInfoResponse {
	out := make([]*TaxInfoResponse, 0, len(infos))
	for _, t := range infos {
		out = append(out, NewTaxInfoResponse(t))
	}
	return out
}

// UserResponse is an operator version without credentials
type UserResponse struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Role      enum.UserRole `json:"role"`
	ValidFrom *time.Time    `json:"valid_from,omitempty"`
	ValidTo   *time.Time    `json:"valid_to,omitempty"`
}

// NewUserResponse maps an operator
func NewUserResponse(u *entity.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		ValidFrom: u.ValidFrom,
		ValidTo:   u.ValidTo,
	}
}
