package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"gorm.io/gorm"
)

// ActiveAt returns a GORM scope that keeps versions valid at the instant
func ActiveAt(at time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("valid_from IS NULL OR valid_from <= ?", at).
			Where("valid_to IS NULL OR valid_to > ?", at)
	}
}

// ByValidFrom orders versions oldest first, the unbounded-past one leading
func ByValidFrom(db *gorm.DB) *gorm.DB {
	return db.Order("valid_from ASC NULLS FIRST")
}

// OfKind filters by offer kind when one is given
func OfKind(kind *enum.OfferKind) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if kind == nil {
			return db
		}
		return db.Where("kind = ?", *kind)
	}
}

// archiveVersion sets valid_to on a version that is still open. The
// condition on valid_to makes a concurrent second archive fail instead of
// overwriting the first.
func archiveVersion(tx *gorm.DB, model any, id uuid.UUID, validTo *time.Time) error {
	if validTo == nil {
		return apperror.NewBadRequestError("archived version needs valid_to")
	}
	res := tx.Model(model).
		Where("id = ? AND valid_to IS NULL", id).
		Update("valid_to", *validTo)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("archive %s: %w", id, apperror.ErrAlreadyArchived)
	}
	return nil
}

// translateError maps constraint violations on version tables to domain
// errors. The partial unique indexes only allow one open version per key.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, apperror.ErrContinuityViolation)
	}
	return err
}
