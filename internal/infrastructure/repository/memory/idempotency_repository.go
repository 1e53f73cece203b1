package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
)

type idempotencyRepository struct {
	s *Store
}

// NewIdempotencyRepository creates an idempotency repository on the store
func NewIdempotencyRepository(s *Store) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{s: s}
}

func scopeKey(key string, userID uuid.UUID) string {
	return userID.String() + "/" + key
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ikey, ok := r.s.idempotency[scopeKey(key, userID)]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *idempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := scopeKey(ikey.Key, ikey.UserID)
	if _, exists := r.s.idempotency[k]; exists {
		return apperror.NewConflictError("Idempotency key already used")
	}
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	if ikey.CreatedAt.IsZero() {
		ikey.CreatedAt = time.Now()
	}
	r.s.idempotency[k] = *ikey
	return nil
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, ikey := range r.s.idempotency {
		if ikey.ExpiresAt.Before(before) {
			delete(r.s.idempotency, k)
		}
	}
	return nil
}
