// Package continuance implements validity intervals for records that change
// over time. A record is valid over [ValidFrom, ValidTo); nil bounds are
// open-ended.
package continuance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/pkg/apperror"
)

// identityNamespace scopes the name-based UUIDs returned by Identity.
var identityNamespace = uuid.MustParse("6f1c2a9e-4b7d-5e3f-9a8b-2c1d0e4f6a7b")

// Validity is embedded into every versioned entity.
type Validity struct {
	ValidFrom *time.Time `gorm:"index" json:"valid_from,omitempty"`
	ValidTo   *time.Time `gorm:"index" json:"valid_to,omitempty"`
}

// NewValidity copies the given bounds
func NewValidity(from, to *time.Time) Validity {
	return Validity{ValidFrom: copyTime(from), ValidTo: copyTime(to)}
}

// Period gives generic code access to the embedded bounds.
func (v *Validity) Period() *Validity {
	return v
}

// Archive closes the record at the given instant. It can only happen once,
// and only after the record started.
func (v *Validity) Archive(at time.Time) error {
	if v.ValidTo != nil {
		return fmt.Errorf("archive at %s, valid to %s: %w",
			at.Format(time.RFC3339), v.ValidTo.Format(time.RFC3339), apperror.ErrAlreadyArchived)
	}
	if v.ValidFrom != nil && !at.After(*v.ValidFrom) {
		return fmt.Errorf("archive at %s, valid from %s: %w",
			at.Format(time.RFC3339), v.ValidFrom.Format(time.RFC3339), apperror.ErrContinuityViolation)
	}
	v.ValidTo = &at
	return nil
}

// IsArchived reports whether the closing bound is set
func (v Validity) IsArchived() bool {
	return v.ValidTo != nil
}

// IsActiveAt reports whether t falls inside [ValidFrom, ValidTo)
func (v Validity) IsActiveAt(t time.Time) bool {
	if v.ValidFrom != nil && t.Before(*v.ValidFrom) {
		return false
	}
	if v.ValidTo != nil && !t.Before(*v.ValidTo) {
		return false
	}
	return true
}

// Record is a versioned entity. NaturalKey returns the immutable fields that
// identify the entity across its versions.
type Record interface {
	Period() *Validity
	NaturalKey() []string
}

// Equal compares two records by ValidFrom and natural key. ValidTo is
// ignored because archiving mutates it.
func Equal(a, b Record) bool {
	if !sameInstant(a.Period().ValidFrom, b.Period().ValidFrom) {
		return false
	}
	return SameKey(a, b)
}

// SameKey reports whether both records are versions of the same entity
func SameKey(a, b Record) bool {
	ka, kb := a.NaturalKey(), b.NaturalKey()
	if len(ka) != len(kb) {
		return false
	}
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

// Identity is a stable hash of the fields Equal compares.
func Identity(r Record) uuid.UUID {
	from := "-"
	if vf := r.Period().ValidFrom; vf != nil {
		from = vf.UTC().Format(time.RFC3339Nano)
	}
	name := from + "\x1f" + strings.Join(r.NaturalKey(), "\x1f")
	return uuid.NewSHA1(identityNamespace, []byte(name))
}

// Sort orders versions by ValidFrom; the unbounded-past version comes first.
func Sort[T Record](history []T) {
	sort.SliceStable(history, func(i, j int) bool {
		fi, fj := history[i].Period().ValidFrom, history[j].Period().ValidFrom
		switch {
		case fi == nil:
			return fj != nil
		case fj == nil:
			return false
		default:
			return fi.Before(*fj)
		}
	})
}

// Latest returns the most recent version of an already sorted history
func Latest[T Record](history []T) (T, bool) {
	var zero T
	if len(history) == 0 {
		return zero, false
	}
	return history[len(history)-1], true
}

// ActiveAt returns the version valid at t
func ActiveAt[T Record](history []T, t time.Time) (T, bool) {
	for _, r := range history {
		if r.Period().IsActiveAt(t) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// CheckInsert validates that next may be appended to a sorted history of the
// same entity: the latest version must be archived after it started and next
// must start exactly where it ends.
func CheckInsert[T Record](history []T, next T) error {
	latest, ok := Latest(history)
	if !ok {
		return nil
	}
	if !SameKey(latest, next) {
		return fmt.Errorf("key %v does not match history key %v: %w",
			next.NaturalKey(), latest.NaturalKey(), apperror.ErrContinuityViolation)
	}
	prevTo := latest.Period().ValidTo
	if prevTo == nil {
		return fmt.Errorf("current version of %v is still open: %w",
			next.NaturalKey(), apperror.ErrContinuityViolation)
	}
	if prevFrom := latest.Period().ValidFrom; prevFrom != nil && !prevTo.After(*prevFrom) {
		return fmt.Errorf("current version of %v ends at %s before it starts at %s: %w",
			next.NaturalKey(), prevTo.Format(time.RFC3339), prevFrom.Format(time.RFC3339), apperror.ErrContinuityViolation)
	}
	nextFrom := next.Period().ValidFrom
	if nextFrom == nil || !nextFrom.Equal(*prevTo) {
		return fmt.Errorf("version of %v must start at %s: %w",
			next.NaturalKey(), prevTo.Format(time.RFC3339), apperror.ErrContinuityViolation)
	}
	if next.Period().ValidTo != nil && !next.Period().ValidTo.After(*nextFrom) {
		return fmt.Errorf("version of %v ends before it starts: %w",
			next.NaturalKey(), apperror.ErrContinuityViolation)
	}
	return nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
