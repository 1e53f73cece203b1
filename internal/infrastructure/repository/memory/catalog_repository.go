package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
)

type salesItemRepository struct {
	s *Store
}

// NewSalesItemRepository creates a sales item repository on the store
func NewSalesItemRepository(s *Store) domainRepo.SalesItemRepository {
	return &salesItemRepository{s: s}
}

func (r *salesItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	item, ok := r.s.salesItems[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *salesItemRepository) History(ctx context.Context, kind enum.OfferKind, name string) ([]*entity.SalesItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []*entity.SalesItem
	for _, item := range r.s.salesItems {
		if item.Kind == kind && item.Name == name {
			items = append(items, &item)
		}
	}
	continuance.Sort(items)
	return items, nil
}

func (r *salesItemRepository) ListActive(ctx context.Context, at time.Time, kind *enum.OfferKind) ([]*entity.SalesItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var items []*entity.SalesItem
	for _, item := range r.s.salesItems {
		if kind != nil && item.Kind != *kind {
			continue
		}
		if activeAt(item, at) {
			items = append(items, &item)
		}
	}
	slices.SortFunc(items, func(a, b *entity.SalesItem) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return strings.Compare(a.Name, b.Name)
	})
	return items, nil
}

func (r *salesItemRepository) Append(ctx context.Context, archived, next *entity.SalesItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return appendVersion(r.s.salesItems, func(s *entity.SalesItem) uuid.UUID { return s.ID }, archived, next)
}

type offerRepository struct {
	s *Store
}

// NewOfferRepository creates an offer repository on the store
func NewOfferRepository(s *Store) domainRepo.OfferRepository {
	return &offerRepository{s: s}
}

func (r *offerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	offer, ok := r.s.offers[id]
	if !ok {
		return nil, nil
	}
	return r.withSalesItem(offer), nil
}

func (r *offerRepository) History(ctx context.Context, kind enum.OfferKind, itemName string) ([]*entity.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var offers []*entity.Offer
	for _, offer := range r.s.offers {
		if offer.Kind == kind && offer.ItemName == itemName {
			offers = append(offers, r.withSalesItem(offer))
		}
	}
	continuance.Sort(offers)
	return offers, nil
}

func (r *offerRepository) ListActive(ctx context.Context, at time.Time, kind *enum.OfferKind) ([]*entity.Offer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var offers []*entity.Offer
	for _, offer := range r.s.offers {
		if kind != nil && offer.Kind != *kind {
			continue
		}
		if activeAt(offer, at) {
			offers = append(offers, r.withSalesItem(offer))
		}
	}
	slices.SortFunc(offers, func(a, b *entity.Offer) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		return strings.Compare(a.Name(), b.Name())
	})
	return offers, nil
}

func (r *offerRepository) Append(ctx context.Context, archived, next *entity.Offer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := appendVersion(r.s.offers, func(o *entity.Offer) uuid.UUID { return o.ID }, archived, next); err != nil {
		return err
	}
	if next != nil {
		stored := r.s.offers[next.ID]
		stored.SalesItem = nil
		r.s.offers[next.ID] = stored
	}
	return nil
}

// withSalesItem returns a copy of the offer with its sales item loaded.
// Callers must hold the store lock.
func (r *offerRepository) withSalesItem(offer entity.Offer) *entity.Offer {
	if item, ok := r.s.salesItems[offer.SalesItemID]; ok {
		offer.SalesItem = &item
	}
	return &offer
}
