package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
)

type contextKey string

const userIDKey contextKey = "user_id"

// WithUserID stores the authenticated operator's ID in the context
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the operator ID set by WithUserID
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// CurrentUserProvider resolves the operator acting in a request
type CurrentUserProvider interface {
	CurrentUser(ctx context.Context) (*entity.User, error)
}

// ContextUserProvider loads the operator whose ID is in the context
type ContextUserProvider struct {
	userRepo repository.UserRepository
}

// NewContextUserProvider creates a new context user provider
func NewContextUserProvider(userRepo repository.UserRepository) *ContextUserProvider {
	return &ContextUserProvider{userRepo: userRepo}
}

func (p *ContextUserProvider) CurrentUser(ctx context.Context) (*entity.User, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}
