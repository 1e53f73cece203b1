package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/sangkips/oscr-register/pkg/utils"
)

// UserService handles register operators
type UserService struct {
	userRepo repository.UserRepository
	clock    Clock
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, clock Clock) *UserService {
	return &UserService{userRepo: userRepo, clock: clock}
}

// CreateOperatorInput represents the create operator input. A nil
// ValidFrom makes the operator valid since forever.
type CreateOperatorInput struct {
	Name      string
	PIN       string
	Role      enum.UserRole
	ValidFrom *time.Time
}

// CreateOperator stores a new operator. A name whose history ended can
// only continue exactly where it ended.
func (s *UserService) CreateOperator(ctx context.Context, input *CreateOperatorInput) (*entity.User, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if input.Role == "" {
		input.Role = enum.UserRoleCashier
	}
	if !input.Role.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown role " + input.Role.String())
	}

	hash, err := utils.HashPIN(input.PIN)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:       uuid.New(),
		Name:     input.Name,
		PINHash:  hash,
		Role:     input.Role,
		Validity: continuance.NewValidity(input.ValidFrom, nil),
	}

	history, err := s.userRepo.History(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if err := continuance.CheckInsert(history, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Append(ctx, nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateOperatorInput represents the update operator input
type UpdateOperatorInput struct {
	PIN  *string
	Role *enum.UserRole
}

// UpdateOperator continues the operator's current version with a new PIN
// or role, starting now.
func (s *UserService) UpdateOperator(ctx context.Context, id uuid.UUID, input *UpdateOperatorInput) (*entity.User, error) {
	current, err := s.activeUser(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	next := &entity.User{
		ID:       uuid.New(),
		Name:     current.Name,
		PINHash:  current.PINHash,
		Role:     current.Role,
		Validity: continuance.NewValidity(&now, nil),
	}
	if input.PIN != nil {
		hash, err := utils.HashPIN(*input.PIN)
		if err != nil {
			return nil, err
		}
		next.PINHash = hash
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperror.NewBadRequestError("Unknown role " + input.Role.String())
		}
		next.Role = *input.Role
	}

	archived := *current
	if err := archived.Archive(now); err != nil {
		if errors.Is(err, apperror.ErrAlreadyArchived) {
			log.Printf("[users] data integrity: %s: %v", current.Name, err)
		}
		return nil, err
	}
	history, err := s.userRepo.History(ctx, current.Name)
	if err != nil {
		return nil, err
	}
	continuance.Sort(history)
	if n := len(history); n > 0 && history[n-1].ID == archived.ID {
		history[n-1] = &archived
	}
	if err := continuance.CheckInsert(history, next); err != nil {
		return nil, err
	}
	if err := s.userRepo.Append(ctx, &archived, next); err != nil {
		return nil, err
	}
	return next, nil
}

// ArchiveOperator ends the operator's validity now
func (s *UserService) ArchiveOperator(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	archived := *user
	if err := archived.Archive(s.clock.Now()); err != nil {
		if errors.Is(err, apperror.ErrAlreadyArchived) {
			log.Printf("[users] data integrity: %s: %v", user.Name, err)
		}
		return nil, err
	}
	if err := s.userRepo.Append(ctx, &archived, nil); err != nil {
		return nil, err
	}
	return &archived, nil
}

// GetByID returns the operator version with the given ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// ResolveActive returns the operator if the version is valid now
func (s *UserService) ResolveActive(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.activeUser(ctx, id)
}

// ListActive returns the operators valid now
func (s *UserService) ListActive(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.ListActive(ctx, s.clock.Now())
}

// History returns every version of the named operator
func (s *UserService) History(ctx context.Context, name string) ([]*entity.User, error) {
	return s.userRepo.History(ctx, name)
}

func (s *UserService) activeUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActiveAt(s.clock.Now()) {
		return nil, apperror.NewNotFoundError("Active user")
	}
	return user, nil
}
