package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/sangkips/oscr-register/pkg/money"
	"gorm.io/gorm"
)

// BillItem is one sold product offer plus the extras, variations and the
// promotion attached to it
type BillItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position int       `gorm:"not null" json:"position"`
	OfferID  uuid.UUID `gorm:"type:uuid;not null" json:"offer_id"`

	// Relationships
	Offer       *Offer           `gorm:"foreignKey:OfferID" json:"offer"`
	Attachments []*BillItemOffer `gorm:"foreignKey:BillItemID;constraint:OnDelete:CASCADE" json:"attachments"`
}

// BillItemOffer is an extra, variation or promo offer attached to an item
type BillItemOffer struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillItemID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Position   int       `gorm:"not null" json:"position"`
	OfferID    uuid.UUID `gorm:"type:uuid;not null" json:"offer_id"`

	// Relationships
	Offer *Offer `gorm:"foreignKey:OfferID" json:"offer"`
}

func newBillItem(billID uuid.UUID, position int, offer *Offer) *BillItem {
	return &BillItem{
		ID:       uuid.New(),
		BillID:   billID,
		Position: position,
		OfferID:  offer.ID,
		Offer:    offer,
	}
}

// Attach dispatches an attachment offer to the matching operation
func (i *BillItem) Attach(offer *Offer) error {
	switch offer.Kind {
	case enum.OfferKindExtra:
		return i.AddExtraOffer(offer)
	case enum.OfferKindVariation:
		return i.ToggleVariationOffer(offer)
	case enum.OfferKindPromo:
		return i.AddPromoOffer(offer)
	case enum.OfferKindProduct:
		return apperror.NewBadRequestError(fmt.Sprintf("%s cannot be attached to a bill item", offer))
	default:
		return apperror.NewBadRequestError(fmt.Sprintf("unknown offer kind %d", offer.Kind))
	}
}

// AddExtraOffer appends an extra; the same extra may be added repeatedly
func (i *BillItem) AddExtraOffer(offer *Offer) error {
	if err := requireKind(offer, enum.OfferKindExtra); err != nil {
		return err
	}
	i.attach(offer)
	return nil
}

// ToggleVariationOffer adds the variation, or removes it when it is
// already attached
func (i *BillItem) ToggleVariationOffer(offer *Offer) error {
	if err := requireKind(offer, enum.OfferKindVariation); err != nil {
		return err
	}
	for idx, a := range i.Attachments {
		if a.Offer != nil && continuance.Equal(a.Offer, offer) {
			i.Attachments = append(i.Attachments[:idx:idx], i.Attachments[idx+1:]...)
			i.renumber()
			return nil
		}
	}
	i.attach(offer)
	return nil
}

// AddPromoOffer attaches a promotion; an item carries at most one
func (i *BillItem) AddPromoOffer(offer *Offer) error {
	if err := requireKind(offer, enum.OfferKindPromo); err != nil {
		return err
	}
	if i.HasPromoOffer() {
		return fmt.Errorf("attach %s: %w", offer, apperror.ErrAlreadyHasPromoOffer)
	}
	i.attach(offer)
	return nil
}

// HasPromoOffer reports whether a promotion is attached
func (i *BillItem) HasPromoOffer() bool {
	for _, a := range i.Attachments {
		if a.Offer != nil && a.Offer.Kind == enum.OfferKindPromo {
			return true
		}
	}
	return false
}

// AttachedOffers returns the attachment offers in attach order
func (i *BillItem) AttachedOffers() []*Offer {
	offers := make([]*Offer, 0, len(i.Attachments))
	for _, a := range i.Attachments {
		offers = append(offers, a.Offer)
	}
	return offers
}

// PriceGross is the product price plus every attached offer's price
func (i *BillItem) PriceGross() money.Money {
	total := i.Offer.Price
	for _, a := range i.Attachments {
		total = total.Add(a.Offer.Price)
	}
	return total
}

func (i *BillItem) attach(offer *Offer) {
	i.Attachments = append(i.Attachments, &BillItemOffer{
		ID:         uuid.New(),
		BillItemID: i.ID,
		Position:   len(i.Attachments),
		OfferID:    offer.ID,
		Offer:      offer,
	})
}

func (i *BillItem) renumber() {
	for idx, a := range i.Attachments {
		a.Position = idx
	}
}

func (i *BillItem) clone() *BillItem {
	c := *i
	c.Attachments = make([]*BillItemOffer, len(i.Attachments))
	for idx, a := range i.Attachments {
		ac := *a
		c.Attachments[idx] = &ac
	}
	return &c
}

func requireKind(offer *Offer, kind enum.OfferKind) error {
	if offer == nil {
		return apperror.NewBadRequestError("offer is required")
	}
	if offer.Kind != kind {
		return apperror.NewBadRequestError(fmt.Sprintf("%s is not a %s offer", offer, kind))
	}
	return nil
}

// BeforeCreate generates a UUID before creating a new bill item
func (i *BillItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// BeforeCreate generates a UUID before creating a new attachment
func (a *BillItemOffer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItemOffer model
func (BillItemOffer) TableName() string {
	return "bill_item_offers"
}
