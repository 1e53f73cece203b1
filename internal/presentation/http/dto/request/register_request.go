package request

import (
	"time"
)

// OfferRequest names the offer a register command applies
type OfferRequest struct {
	OfferID string `json:"offer_id" binding:"required,uuid"`
}

// StaffConsumerRequest names the staff member a bill is for
type StaffConsumerRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// ToGoRequest sets the take-away flag
type ToGoRequest struct {
	ToGo bool `json:"to_go"`
}

// BillsQuery selects the closed bills of one day
type BillsQuery struct {
	Day     string `form:"day" binding:"required,datetime=2006-01-02"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// TotalsQuery selects a day summary
type TotalsQuery struct {
	Period string `form:"period" binding:"omitempty,oneof=today yesterday"`
	Metric string `form:"metric" binding:"omitempty,oneof=total promo_total"`
}

// OffersQuery filters the active offers
type OffersQuery struct {
	Kind string `form:"kind" binding:"omitempty,oneof=product extra variation promo Product Extra Variation Promo"`
	At   string `form:"at" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// CreateSalesItemRequest represents a new sales item
type CreateSalesItemRequest struct {
	Kind      string     `json:"kind" binding:"required"`
	Name      string     `json:"name" binding:"required,max=255"`
	ValidFrom *time.Time `json:"valid_from"`
}

// CreateOfferRequest prices a sales item
type CreateOfferRequest struct {
	SalesItemID string     `json:"sales_item_id" binding:"required,uuid"`
	Amount      int64      `json:"amount"`
	ValidFrom   *time.Time `json:"valid_from"`
	ValidTo     *time.Time `json:"valid_to"`
}

// ReplacePriceRequest continues an offer at a new price. Without an instant
// the change takes effect now.
type ReplacePriceRequest struct {
	Amount int64      `json:"amount"`
	At     *time.Time `json:"at"`
}

// ReplaceRateRequest continues a tax usage at a new rate
type ReplaceRateRequest struct {
	Rate string     `json:"rate" binding:"required,numeric"`
	At   *time.Time `json:"at"`
}
