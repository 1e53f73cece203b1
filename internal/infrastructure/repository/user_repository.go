package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetActiveByName(ctx context.Context, name string, at time.Time) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Scopes(ActiveAt(at)).
		First(&user, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) History(ctx context.Context, name string) ([]*entity.User, error) {
	var users []*entity.User
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Scopes(ByValidFrom).
		Find(&users).Error
	return users, err
}

func (r *userRepository) ListActive(ctx context.Context, at time.Time) ([]*entity.User, error) {
	var users []*entity.User
	err := r.db.WithContext(ctx).
		Scopes(ActiveAt(at)).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Append(ctx context.Context, archived, next *entity.User) error {
	if archived == nil && next == nil {
		return apperror.NewBadRequestError("nothing to append")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if archived != nil {
			if err := archiveVersion(tx, &entity.User{}, archived.ID, archived.ValidTo); err != nil {
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
