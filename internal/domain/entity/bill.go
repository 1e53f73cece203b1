package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"gorm.io/gorm"
)

// Bill is one sales transaction. Items are kept in sale order; a closed
// bill is immutable.
type Bill struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	StaffConsumerID *uuid.UUID `gorm:"type:uuid;index" json:"staff_consumer_id,omitempty"`
	FreePromotion   bool       `gorm:"not null;default:false" json:"free_promotion"`
	ToGo            bool       `gorm:"not null;default:false" json:"to_go"`
	GlobalTaxInfoID uuid.UUID  `gorm:"type:uuid;not null" json:"global_tax_info_id"`
	OpenedAt        time.Time  `gorm:"not null;index" json:"opened_at"`
	ClosedAt        *time.Time `gorm:"index" json:"closed_at,omitempty"`
	CashierID       *uuid.UUID `gorm:"type:uuid" json:"cashier_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relationships
	Items         []*BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items"`
	StaffConsumer *User       `gorm:"foreignKey:StaffConsumerID" json:"staff_consumer,omitempty"`
	GlobalTaxInfo *TaxInfo    `gorm:"foreignKey:GlobalTaxInfoID" json:"global_tax_info,omitempty"`
	Cashier       *User       `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
}

// NewBill opens an empty bill
func NewBill(taxInfo *TaxInfo, openedAt time.Time) *Bill {
	b := &Bill{
		ID:       uuid.New(),
		OpenedAt: openedAt,
	}
	b.SetGlobalTaxInfo(taxInfo)
	return b
}

// AddProductOffer appends a new item for the offer and returns it
func (b *Bill) AddProductOffer(offer *Offer) (*BillItem, error) {
	if err := b.requireOpen(); err != nil {
		return nil, err
	}
	if err := requireKind(offer, enum.OfferKindProduct); err != nil {
		return nil, err
	}
	item := newBillItem(b.ID, len(b.Items), offer)
	b.Items = append(b.Items, item)
	return item, nil
}

// UndoLastAction removes the most recently added item
func (b *Bill) UndoLastAction() error {
	if err := b.requireOpen(); err != nil {
		return err
	}
	if len(b.Items) == 0 {
		return nil
	}
	b.Items[len(b.Items)-1] = nil
	b.Items = b.Items[:len(b.Items)-1]
	return nil
}

// LastItem returns the most recently added item, or nil
func (b *Bill) LastItem() *BillItem {
	if len(b.Items) == 0 {
		return nil
	}
	return b.Items[len(b.Items)-1]
}

// IsEmpty reports whether the bill has no items
func (b *Bill) IsEmpty() bool {
	return len(b.Items) == 0
}

// IsClosed reports whether the bill has been closed
func (b *Bill) IsClosed() bool {
	return b.ClosedAt != nil
}

// IsStaffBill reports whether a staff member consumed the bill
func (b *Bill) IsStaffBill() bool {
	return b.StaffConsumerID != nil
}

// Close stamps the cashier and closing time
func (b *Bill) Close(cashier *User, at time.Time) error {
	if err := b.requireOpen(); err != nil {
		return err
	}
	b.ClosedAt = &at
	b.Cashier = cashier
	if cashier != nil {
		id := cashier.ID
		b.CashierID = &id
	}
	return nil
}

func (b *Bill) SetStaffConsumer(u *User) {
	b.StaffConsumer = u
	if u == nil {
		b.StaffConsumerID = nil
		return
	}
	id := u.ID
	b.StaffConsumerID = &id
}

func (b *Bill) ClearStaffConsumer() {
	b.SetStaffConsumer(nil)
}

func (b *Bill) SetFreePromotion(free bool) {
	b.FreePromotion = free
}

func (b *Bill) SetToGo(toGo bool) {
	b.ToGo = toGo
}

func (b *Bill) SetGlobalTaxInfo(t *TaxInfo) {
	b.GlobalTaxInfo = t
	if t != nil {
		b.GlobalTaxInfoID = t.ID
	}
}

// Currency of the bill, taken from its first item
func (b *Bill) Currency() string {
	for _, item := range b.Items {
		if item.Offer != nil && item.Offer.Price.Currency != "" {
			return item.Offer.Price.Currency
		}
	}
	return ""
}

// Clone copies the bill together with the items and attachments it owns.
// Offers, tax infos and users are shared references.
func (b *Bill) Clone() *Bill {
	if b == nil {
		return nil
	}
	c := *b
	if b.ClosedAt != nil {
		at := *b.ClosedAt
		c.ClosedAt = &at
	}
	if b.StaffConsumerID != nil {
		id := *b.StaffConsumerID
		c.StaffConsumerID = &id
	}
	if b.CashierID != nil {
		id := *b.CashierID
		c.CashierID = &id
	}
	c.Items = make([]*BillItem, len(b.Items))
	for idx, item := range b.Items {
		c.Items[idx] = item.clone()
	}
	return &c
}

func (b *Bill) requireOpen() error {
	if b.IsClosed() {
		return fmt.Errorf("bill %s: %w", b.ID, apperror.ErrBillClosed)
	}
	return nil
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}
