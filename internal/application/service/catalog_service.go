package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/sangkips/oscr-register/pkg/money"
)

// CatalogService maintains sales items and their priced offers. Every
// insert is checked against the entity's history first, so a rejected
// version leaves the catalog untouched.
type CatalogService struct {
	salesItemRepo repository.SalesItemRepository
	offerRepo     repository.OfferRepository
	clock         Clock
	currency      string
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	salesItemRepo repository.SalesItemRepository,
	offerRepo repository.OfferRepository,
	clock Clock,
	currency string,
) *CatalogService {
	return &CatalogService{
		salesItemRepo: salesItemRepo,
		offerRepo:     offerRepo,
		clock:         clock,
		currency:      currency,
	}
}

// CreateSalesItemInput represents the create sales item input
type CreateSalesItemInput struct {
	Kind      enum.OfferKind
	Name      string
	ValidFrom *time.Time
}

// CreateSalesItem stores a new version of a sales item
func (s *CatalogService) CreateSalesItem(ctx context.Context, input *CreateSalesItemInput) (*entity.SalesItem, error) {
	if !input.Kind.IsValid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown offer kind %d", input.Kind))
	}
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Sales item name is required")
	}

	item := &entity.SalesItem{
		ID:       uuid.New(),
		Kind:     input.Kind,
		Name:     input.Name,
		Validity: continuance.NewValidity(input.ValidFrom, nil),
	}

	history, err := s.salesItemRepo.History(ctx, input.Kind, input.Name)
	if err != nil {
		return nil, err
	}
	if err := continuance.CheckInsert(history, item); err != nil {
		return nil, err
	}
	if err := s.salesItemRepo.Append(ctx, nil, item); err != nil {
		return nil, err
	}

	log.Printf("[catalog] created %s %q", item.Kind, item.Name)
	return item, nil
}

// CreateOfferInput represents the create offer input. Amount is in minor
// units of the register's currency.
type CreateOfferInput struct {
	SalesItemID uuid.UUID
	Amount      int64
	ValidFrom   *time.Time
	ValidTo     *time.Time
}

// CreateOffer prices a sales item. When the item already has prices, the
// new offer must start where the latest one ends.
func (s *CatalogService) CreateOffer(ctx context.Context, input *CreateOfferInput) (*entity.Offer, error) {
	item, err := s.salesItemRepo.GetByID(ctx, input.SalesItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Sales item")
	}

	offer, err := entity.NewOffer(item, money.New(input.Amount, s.currency), input.ValidFrom, input.ValidTo)
	if err != nil {
		return nil, err
	}
	if offer.ValidFrom != nil && offer.ValidTo != nil && !offer.ValidTo.After(*offer.ValidFrom) {
		return nil, apperror.NewBadRequestError("valid_to must be after valid_from")
	}

	history, err := s.offerRepo.History(ctx, offer.Kind, offer.ItemName)
	if err != nil {
		return nil, err
	}
	if err := continuance.CheckInsert(history, offer); err != nil {
		return nil, err
	}
	if err := s.offerRepo.Append(ctx, nil, offer); err != nil {
		return nil, err
	}

	log.Printf("[catalog] created %s", offer)
	return offer, nil
}

// ReplaceOfferPrice archives the current version of the offer at the given
// instant and continues it with a new price.
func (s *CatalogService) ReplaceOfferPrice(ctx context.Context, offerID uuid.UUID, amount int64, at time.Time) (*entity.Offer, error) {
	current, history, err := s.latestOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	archived := *current
	if err := archived.Archive(at); err != nil {
		if errors.Is(err, apperror.ErrAlreadyArchived) {
			log.Printf("[catalog] data integrity: %s: %v", current, err)
		}
		return nil, err
	}
	next := current.Supersede(money.New(amount, s.currency), at)

	history[len(history)-1] = &archived
	if err := continuance.CheckInsert(history, next); err != nil {
		return nil, err
	}
	if err := s.offerRepo.Append(ctx, &archived, next); err != nil {
		return nil, err
	}

	log.Printf("[catalog] %s replaced by %s from %s", current, next.Price, at.Format(time.RFC3339))
	return next, nil
}

// ArchiveOffer ends the current version of the offer at the given instant
func (s *CatalogService) ArchiveOffer(ctx context.Context, offerID uuid.UUID, at time.Time) (*entity.Offer, error) {
	current, _, err := s.latestOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}

	archived := *current
	if err := archived.Archive(at); err != nil {
		if errors.Is(err, apperror.ErrAlreadyArchived) {
			log.Printf("[catalog] data integrity: %s: %v", current, err)
		}
		return nil, err
	}
	if err := s.offerRepo.Append(ctx, &archived, nil); err != nil {
		return nil, err
	}
	return &archived, nil
}

// latestOffer returns the most recent version of the offer's history
// together with the sorted history.
func (s *CatalogService) latestOffer(ctx context.Context, offerID uuid.UUID) (*entity.Offer, []*entity.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, nil, err
	}
	if offer == nil {
		return nil, nil, apperror.NewNotFoundError("Offer")
	}
	history, err := s.offerRepo.History(ctx, offer.Kind, offer.ItemName)
	if err != nil {
		return nil, nil, err
	}
	continuance.Sort(history)
	latest, ok := continuance.Latest(history)
	if !ok {
		return nil, nil, apperror.NewNotFoundError("Offer")
	}
	return latest, history, nil
}

// ResolveOffer returns the offer if it is valid at the given instant
func (s *CatalogService) ResolveOffer(ctx context.Context, offerID uuid.UUID, at time.Time) (*entity.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, apperror.NewNotFoundError("Offer")
	}
	if !offer.IsActiveAt(at) {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Offer valid at %s", at.Format(time.RFC3339)))
	}
	return offer, nil
}

// ResolveCurrentOffer resolves the offer against the service clock
func (s *CatalogService) ResolveCurrentOffer(ctx context.Context, offerID uuid.UUID) (*entity.Offer, error) {
	return s.ResolveOffer(ctx, offerID, s.clock.Now())
}

// ListActiveOffers returns the offers valid at the instant, optionally of
// one kind only
func (s *CatalogService) ListActiveOffers(ctx context.Context, at time.Time, kind *enum.OfferKind) ([]*entity.Offer, error) {
	return s.offerRepo.ListActive(ctx, at, kind)
}

// ListActiveSalesItems returns the sales items valid at the instant
func (s *CatalogService) ListActiveSalesItems(ctx context.Context, at time.Time, kind *enum.OfferKind) ([]*entity.SalesItem, error) {
	return s.salesItemRepo.ListActive(ctx, at, kind)
}

// OfferHistory returns every price of the offer's sales item
func (s *CatalogService) OfferHistory(ctx context.Context, offerID uuid.UUID) ([]*entity.Offer, error) {
	_, history, err := s.latestOffer(ctx, offerID)
	return history, err
}
