package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"gorm.io/gorm"
)

type salesItemRepository struct {
	db *gorm.DB
}

// NewSalesItemRepository creates a new sales item repository
func NewSalesItemRepository(db *gorm.DB) domainRepo.SalesItemRepository {
	return &salesItemRepository{db: db}
}

func (r *salesItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SalesItem, error) {
	var item entity.SalesItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *salesItemRepository) History(ctx context.Context, kind enum.OfferKind, name string) ([]*entity.SalesItem, error) {
	var items []*entity.SalesItem
	err := r.db.WithContext(ctx).
		Where("kind = ? AND name = ?", kind, name).
		Scopes(ByValidFrom).
		Find(&items).Error
	return items, err
}

func (r *salesItemRepository) ListActive(ctx context.Context, at time.Time, kind *enum.OfferKind) ([]*entity.SalesItem, error) {
	var items []*entity.SalesItem
	err := r.db.WithContext(ctx).
		Scopes(ActiveAt(at), OfKind(kind)).
		Order("kind ASC, name ASC").
		Find(&items).Error
	return items, err
}

func (r *salesItemRepository) Append(ctx context.Context, archived, next *entity.SalesItem) error {
	if archived == nil && next == nil {
		return apperror.NewBadRequestError("nothing to append")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if archived != nil {
			if err := archiveVersion(tx, &entity.SalesItem{}, archived.ID, archived.ValidTo); err != nil {
				return err
			}
		}
		if next != nil {
			if err := tx.Create(next).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}

type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *gorm.DB) domainRepo.OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	var offer entity.Offer
	err := r.db.WithContext(ctx).
		Preload("SalesItem").
		First(&offer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) History(ctx context.Context, kind enum.OfferKind, itemName string) ([]*entity.Offer, error) {
	var offers []*entity.Offer
	err := r.db.WithContext(ctx).
		Preload("SalesItem").
		Where("kind = ? AND item_name = ?", kind, itemName).
		Scopes(ByValidFrom).
		Find(&offers).Error
	return offers, err
}

func (r *offerRepository) ListActive(ctx context.Context, at time.Time, kind *enum.OfferKind) ([]*entity.Offer, error) {
	var offers []*entity.Offer
	err := r.db.WithContext(ctx).
		Preload("SalesItem").
		Scopes(ActiveAt(at), OfKind(kind)).
		Order("kind ASC, created_at ASC").
		Find(&offers).Error
	return offers, err
}

func (r *offerRepository) Append(ctx context.Context, archived, next *entity.Offer) error {
	if archived == nil && next == nil {
		return apperror.NewBadRequestError("nothing to append")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if archived != nil {
			if err := archiveVersion(tx, &entity.Offer{}, archived.ID, archived.ValidTo); err != nil {
				return err
			}
		}
		if next != nil {
			if err := tx.Omit("SalesItem").Create(next).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}
