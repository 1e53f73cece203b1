package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/sangkips/oscr-register/pkg/money"
	"gorm.io/gorm"
)

// Offer is a time-versioned price for a sales item. Kind selects the
// variant: product offers form bill items, the others attach to one.
// ItemName is the sales item's name at pricing time; versions of the item
// share it, so the price history survives a new sales item version.
type Offer struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Kind        enum.OfferKind `gorm:"not null;index:idx_offers_key" json:"kind"`
	ItemName    string         `gorm:"size:255;not null;index:idx_offers_key" json:"item_name"`
	SalesItemID uuid.UUID      `gorm:"type:uuid;not null;index" json:"sales_item_id"`
	Price       money.Money    `gorm:"embedded;embeddedPrefix:price_" json:"price"`
	continuance.Validity
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	SalesItem *SalesItem `gorm:"foreignKey:SalesItemID" json:"sales_item,omitempty"`
}

// NewOffer prices a sales item. The item's kind decides the offer variant.
func NewOffer(item *SalesItem, price money.Money, from, to *time.Time) (*Offer, error) {
	if item == nil {
		return nil, apperror.NewBadRequestError("Offer needs a sales item")
	}
	if !item.Kind.IsValid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown offer kind %d", item.Kind))
	}
	return &Offer{
		ID:          uuid.New(),
		Kind:        item.Kind,
		ItemName:    item.Name,
		SalesItemID: item.ID,
		SalesItem:   item,
		Price:       price,
		Validity:    continuance.NewValidity(from, to),
	}, nil
}

// NaturalKey identifies an offer across price changes
func (o *Offer) NaturalKey() []string {
	return []string{o.Kind.String(), o.ItemName}
}

// Name returns the offered item's name
func (o *Offer) Name() string {
	if o.SalesItem != nil {
		return o.SalesItem.Name
	}
	return o.ItemName
}

// Supersede returns the next version of this offer at a new price,
// starting at the given instant.
func (o *Offer) Supersede(price money.Money, at time.Time) *Offer {
	return &Offer{
		ID:          uuid.New(),
		Kind:        o.Kind,
		ItemName:    o.ItemName,
		SalesItemID: o.SalesItemID,
		SalesItem:   o.SalesItem,
		Price:       price,
		Validity:    continuance.NewValidity(&at, nil),
	}
}

func (o *Offer) String() string {
	return fmt.Sprintf("%s offer %q (%s)", o.Kind, o.Name(), o.Price)
}

// BeforeCreate generates a UUID before creating a new offer
func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Offer model
func (Offer) TableName() string {
	return "offers"
}
