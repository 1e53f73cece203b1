// Package memory keeps register data in process memory. It backs the
// register when no database is configured and is used by service tests.
package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/pkg/apperror"
)

// Store holds every table behind one lock. Repositories created from the
// same store see each other's writes.
type Store struct {
	mu          sync.RWMutex
	bills       map[uuid.UUID]*entity.Bill
	salesItems  map[uuid.UUID]entity.SalesItem
	offers      map[uuid.UUID]entity.Offer
	users       map[uuid.UUID]entity.User
	taxInfos    map[uuid.UUID]entity.TaxInfo
	vatClasses  map[uuid.UUID]entity.VATClass
	idempotency map[string]entity.IdempotencyKey
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		bills:       map[uuid.UUID]*entity.Bill{},
		salesItems:  map[uuid.UUID]entity.SalesItem{},
		offers:      map[uuid.UUID]entity.Offer{},
		users:       map[uuid.UUID]entity.User{},
		taxInfos:    map[uuid.UUID]entity.TaxInfo{},
		vatClasses:  map[uuid.UUID]entity.VATClass{},
		idempotency: map[string]entity.IdempotencyKey{},
	}
}

// versionOf constrains P to a pointer to a versioned entity T
type versionOf[T any] interface {
	*T
	continuance.Record
}

// appendVersion applies an archive and/or insert to a version table. Both
// halves are validated before anything is written. At most one version
// per key may be open and at most one may start in the unbounded past.
func appendVersion[T any, P versionOf[T]](table map[uuid.UUID]T, idOf func(P) uuid.UUID, archived, next P) error {
	if archived == nil && next == nil {
		return apperror.NewBadRequestError("nothing to append")
	}

	if archived != nil {
		stored, ok := table[idOf(archived)]
		if !ok {
			return apperror.NewNotFoundError("Version")
		}
		if P(&stored).Period().IsArchived() {
			return fmt.Errorf("archive %s: %w", idOf(archived), apperror.ErrAlreadyArchived)
		}
		if archived.Period().ValidTo == nil {
			return apperror.NewBadRequestError("archived version needs valid_to")
		}
	}

	if next != nil {
		if _, exists := table[idOf(next)]; exists {
			return apperror.NewConflictError(fmt.Sprintf("version %s already stored", idOf(next)))
		}
		for id, v := range table {
			if archived != nil && id == idOf(archived) {
				continue
			}
			p := P(&v)
			if !continuance.SameKey(p, next) {
				continue
			}
			if !p.Period().IsArchived() && !next.Period().IsArchived() {
				return fmt.Errorf("%v has an open version: %w", next.NaturalKey(), apperror.ErrContinuityViolation)
			}
			if p.Period().ValidFrom == nil && next.Period().ValidFrom == nil {
				return fmt.Errorf("%v already starts unbounded: %w", next.NaturalKey(), apperror.ErrContinuityViolation)
			}
		}
	}

	if archived != nil {
		id := idOf(archived)
		stored := table[id]
		to := *archived.Period().ValidTo
		P(&stored).Period().ValidTo = &to
		table[id] = stored
	}
	if next != nil {
		table[idOf(next)] = *next
	}
	return nil
}

func activeAt[T any, P versionOf[T]](v T, at time.Time) bool {
	return P(&v).Period().IsActiveAt(at)
}
