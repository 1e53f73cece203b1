package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"gorm.io/gorm"
)

// SalesItem is something the register can sell or attach: a product, an
// extra, a variation or a promotion. Offers put a price on it.
type SalesItem struct {
	ID   uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Kind enum.OfferKind `gorm:"not null;index:idx_sales_items_key" json:"kind"`
	Name string         `gorm:"size:255;not null;index:idx_sales_items_key" json:"name"`
	continuance.Validity
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NaturalKey identifies a sales item across versions
func (s *SalesItem) NaturalKey() []string {
	return []string{s.Kind.String(), s.Name}
}

// BeforeCreate generates a UUID before creating a new sales item
func (s *SalesItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalesItem model
func (SalesItem) TableName() string {
	return "sales_items"
}
