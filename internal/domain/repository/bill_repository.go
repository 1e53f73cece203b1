package repository

//go:generate mockgen -source=bill_repository.go -destination=mocks/mock_bill_repository.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
)

// BillRepository stores bills together with their items and attachments.
// Implementations must return items and attachments in position order.
type BillRepository interface {
	// Save inserts or updates the bill and returns its stored form
	Save(ctx context.Context, bill *entity.Bill) (*entity.Bill, error)
	// Delete removes the bill and everything it owns
	Delete(ctx context.Context, bill *entity.Bill) error
	// GetByID returns nil when the bill does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	// FindOpen returns every bill that has not been closed yet
	FindOpen(ctx context.Context) ([]*entity.Bill, error)
	// FindInRange returns bills closed in [from, to)
	FindInRange(ctx context.Context, from, to time.Time) ([]*entity.Bill, error)
	// FindInRangeWithoutStaff is FindInRange minus bills consumed by staff
	FindInRangeWithoutStaff(ctx context.Context, from, to time.Time) ([]*entity.Bill, error)
}
