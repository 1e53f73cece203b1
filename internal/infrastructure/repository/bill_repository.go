package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// withBillGraph preloads everything a bill owns or references, in sale order
func withBillGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("bill_items.position ASC")
		}).
		Preload("Items.Offer.SalesItem").
		Preload("Items.Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("bill_item_offers.position ASC")
		}).
		Preload("Items.Attachments.Offer.SalesItem").
		Preload("GlobalTaxInfo.VATClass").
		Preload("StaffConsumer").
		Preload("Cashier")
}

func (r *billRepository) Save(ctx context.Context, bill *entity.Bill) (*entity.Bill, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(bill).Error; err != nil {
			return err
		}
		// Owned rows are rewritten so undone items and toggled variations
		// disappear from storage too.
		if err := deleteOwnedRows(tx, bill.ID); err != nil {
			return err
		}
		for _, item := range bill.Items {
			item.BillID = bill.ID
			if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
				return err
			}
			for _, a := range item.Attachments {
				a.BillItemID = item.ID
				if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved, err := r.GetByID(ctx, bill.ID)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, errors.New("saved bill could not be read back")
	}
	return saved, nil
}

func (r *billRepository) Delete(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteOwnedRows(tx, bill.ID); err != nil {
			return err
		}
		return tx.Delete(&entity.Bill{}, "id = ?", bill.ID).Error
	})
}

func deleteOwnedRows(tx *gorm.DB, billID uuid.UUID) error {
	itemIDs := tx.Model(&entity.BillItem{}).Select("id").Where("bill_id = ?", billID)
	if err := tx.Where("bill_item_id IN (?)", itemIDs).Delete(&entity.BillItemOffer{}).Error; err != nil {
		return err
	}
	return tx.Where("bill_id = ?", billID).Delete(&entity.BillItem{}).Error
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(withBillGraph).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) FindOpen(ctx context.Context) ([]*entity.Bill, error) {
	var bills []*entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(withBillGraph).
		Where("closed_at IS NULL").
		Order("opened_at ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) FindInRange(ctx context.Context, from, to time.Time) ([]*entity.Bill, error) {
	var bills []*entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(withBillGraph).
		Where("closed_at >= ? AND closed_at < ?", from, to).
		Order("closed_at ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) FindInRangeWithoutStaff(ctx context.Context, from, to time.Time) ([]*entity.Bill, error) {
	var bills []*entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(withBillGraph).
		Where("closed_at >= ? AND closed_at < ?", from, to).
		Where("staff_consumer_id IS NULL").
		Order("closed_at ASC").
		Find(&bills).Error
	return bills, err
}
