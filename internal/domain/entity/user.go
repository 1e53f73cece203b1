package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"gorm.io/gorm"
)

// User is a register operator. Users are versioned by name: archiving ends
// an operator's validity and re-hiring creates a new version.
type User struct {
	ID      uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	Name    string        `gorm:"size:255;not null;index" json:"name"`
	PINHash string        `gorm:"size:255" json:"-"`
	Role    enum.UserRole `gorm:"size:20;not null;default:'cashier'" json:"role"`
	continuance.Validity
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NaturalKey identifies a user across versions
func (u *User) NaturalKey() []string {
	return []string{u.Name}
}

// IsManager reports whether the user may change catalog and tax data
func (u *User) IsManager() bool {
	return u.Role == enum.UserRoleManager
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
