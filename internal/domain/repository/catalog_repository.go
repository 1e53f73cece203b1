package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
)

// SalesItemRepository defines the interface for sales item versions
type SalesItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesItem, error)
	// History returns every version of the item ordered by valid_from
	History(ctx context.Context, kind enum.OfferKind, name string) ([]*entity.SalesItem, error)
	// ListActive returns items valid at the instant, optionally of one kind
	ListActive(ctx context.Context, at time.Time, kind *enum.OfferKind) ([]*entity.SalesItem, error)
	// Append stores an archived version and/or its successor atomically
	Append(ctx context.Context, archived, next *entity.SalesItem) error
}

// OfferRepository defines the interface for offer versions. Offers are
// returned with their sales item loaded.
type OfferRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error)
	// History returns every price offered for the named item ordered by
	// valid_from, across all versions of the sales item
	History(ctx context.Context, kind enum.OfferKind, itemName string) ([]*entity.Offer, error)
	// ListActive returns offers valid at the instant, optionally of one kind
	ListActive(ctx context.Context, at time.Time, kind *enum.OfferKind) ([]*entity.Offer, error)
	// Append stores an archived version and/or its successor atomically
	Append(ctx context.Context, archived, next *entity.Offer) error
}
