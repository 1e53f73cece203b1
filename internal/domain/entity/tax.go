package entity

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VATClass is a named tax rate bucket. Rate is a percentage, e.g. 7 or 19.
type VATClass struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name         string          `gorm:"size:100;not null;index" json:"name"`
	Rate         decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"rate"`
	Abbreviation string          `gorm:"size:1;not null" json:"abbreviation"`
	continuance.Validity
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewVATClass validates the abbreviation is a single character
func NewVATClass(name string, rate decimal.Decimal, abbreviation rune, from *time.Time) (*VATClass, error) {
	if name == "" {
		return nil, fmt.Errorf("vat class needs a name")
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("vat class %s: negative rate %s", name, rate)
	}
	return &VATClass{
		ID:           uuid.New(),
		Name:         name,
		Rate:         rate,
		Abbreviation: string(abbreviation),
		Validity:     continuance.NewValidity(from, nil),
	}, nil
}

// Symbol returns the abbreviation letter printed next to prices
func (c *VATClass) Symbol() rune {
	r, _ := utf8.DecodeRuneInString(c.Abbreviation)
	return r
}

// NaturalKey identifies a VAT class across rate changes
func (c *VATClass) NaturalKey() []string {
	return []string{c.Name}
}

// BeforeCreate generates a UUID before creating a new VAT class
func (c *VATClass) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the VATClass model
func (VATClass) TableName() string {
	return "vat_classes"
}

// TaxInfo binds a usage to the VAT class applied under it
type TaxInfo struct {
	ID         uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	Usage      enum.TaxUsage `gorm:"not null;index" json:"usage"`
	VATClassID uuid.UUID     `gorm:"type:uuid;not null" json:"vat_class_id"`
	continuance.Validity
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	VATClass *VATClass `gorm:"foreignKey:VATClassID" json:"vat_class,omitempty"`
}

// NewTaxInfo binds a usage to a VAT class
func NewTaxInfo(usage enum.TaxUsage, class *VATClass, from *time.Time) *TaxInfo {
	return &TaxInfo{
		ID:         uuid.New(),
		Usage:      usage,
		VATClassID: class.ID,
		VATClass:   class,
		Validity:   continuance.NewValidity(from, nil),
	}
}

// NaturalKey identifies a tax info across versions
func (t *TaxInfo) NaturalKey() []string {
	return []string{t.Usage.String()}
}

// SameAs compares tax infos by identity rather than pointer
func (t *TaxInfo) SameAs(o *TaxInfo) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.ID == o.ID
}

// BeforeCreate generates a UUID before creating a new tax info
func (t *TaxInfo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TaxInfo model
func (TaxInfo) TableName() string {
	return "tax_infos"
}
