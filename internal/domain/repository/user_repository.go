package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
)

// UserRepository defines the interface for operator versions
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// GetActiveByName returns the version of the named user valid at the instant
	GetActiveByName(ctx context.Context, name string, at time.Time) (*entity.User, error)
	// History returns every version of the named user ordered by valid_from
	History(ctx context.Context, name string) ([]*entity.User, error)
	ListActive(ctx context.Context, at time.Time) ([]*entity.User, error)
	// Append stores an archived version and/or its successor atomically
	Append(ctx context.Context, archived, next *entity.User) error
}
