package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
)

type userRepository struct {
	s *Store
}

// NewUserRepository creates a user repository on the store
func NewUserRepository(s *Store) domainRepo.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepository) GetActiveByName(ctx context.Context, name string, at time.Time) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, user := range r.s.users {
		if user.Name == name && activeAt(user, at) {
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepository) History(ctx context.Context, name string) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var users []*entity.User
	for _, user := range r.s.users {
		if user.Name == name {
			users = append(users, &user)
		}
	}
	continuance.Sort(users)
	return users, nil
}

func (r *userRepository) ListActive(ctx context.Context, at time.Time) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var users []*entity.User
	for _, user := range r.s.users {
		if activeAt(user, at) {
			users = append(users, &user)
		}
	}
	slices.SortFunc(users, func(a, b *entity.User) int {
		return strings.Compare(a.Name, b.Name)
	})
	return users, nil
}

func (r *userRepository) Append(ctx context.Context, archived, next *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return appendVersion(r.s.users, func(u *entity.User) uuid.UUID { return u.ID }, archived, next)
}
