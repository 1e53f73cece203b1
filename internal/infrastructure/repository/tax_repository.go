package repository

import (
	"context"
	"time"

	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"gorm.io/gorm"
)

type taxRepository struct {
	db *gorm.DB
}

// NewTaxRepository creates a new tax repository
func NewTaxRepository(db *gorm.DB) domainRepo.TaxRepository {
	return &taxRepository{db: db}
}

func (r *taxRepository) ListActiveTaxInfos(ctx context.Context, at time.Time) ([]*entity.TaxInfo, error) {
	var infos []*entity.TaxInfo
	err := r.db.WithContext(ctx).
		Preload("VATClass").
		Scopes(ActiveAt(at)).
		Order("usage ASC").
		Find(&infos).Error
	return infos, err
}

func (r *taxRepository) TaxInfoHistory(ctx context.Context, usage enum.TaxUsage) ([]*entity.TaxInfo, error) {
	var infos []*entity.TaxInfo
	err := r.db.WithContext(ctx).
		Preload("VATClass").
		Where("usage = ?", usage).
		Scopes(ByValidFrom).
		Find(&infos).Error
	return infos, err
}

func (r *taxRepository) VATClassHistory(ctx context.Context, name string) ([]*entity.VATClass, error) {
	var classes []*entity.VATClass
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Scopes(ByValidFrom).
		Find(&classes).Error
	return classes, err
}

func (r *taxRepository) Append(ctx context.Context, archived, next *entity.TaxInfo) error {
	if archived == nil && next == nil {
		return apperror.NewBadRequestError("nothing to append")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if archived != nil {
			if err := archiveVersion(tx, &entity.TaxInfo{}, archived.ID, archived.ValidTo); err != nil {
				return err
			}
			if class := archived.VATClass; class != nil && class.ValidTo != nil && !sharesClass(archived, next) {
				if err := archiveVersion(tx, &entity.VATClass{}, class.ID, class.ValidTo); err != nil {
					return err
				}
			}
		}
		if next == nil {
			return nil
		}
		if class := next.VATClass; class != nil {
			var count int64
			if err := tx.Model(&entity.VATClass{}).Where("id = ?", class.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				if err := tx.Create(class).Error; err != nil {
					return translateError(err)
				}
			}
			next.VATClassID = class.ID
		}
		if err := tx.Omit("VATClass").Create(next).Error; err != nil {
			return translateError(err)
		}
		return nil
	})
}

func sharesClass(a, b *entity.TaxInfo) bool {
	return b != nil && a.VATClassID == b.VATClassID
}
