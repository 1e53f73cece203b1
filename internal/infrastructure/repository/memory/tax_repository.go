package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
)

type taxRepository struct {
	s *Store
}

// NewTaxRepository creates a tax repository on the store
func NewTaxRepository(s *Store) domainRepo.TaxRepository {
	return &taxRepository{s: s}
}

func (r *taxRepository) ListActiveTaxInfos(ctx context.Context, at time.Time) ([]*entity.TaxInfo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var infos []*entity.TaxInfo
	for _, usage := range []enum.TaxUsage{enum.TaxUsageGlobalStandardVAT, enum.TaxUsageGlobalReducedVAT} {
		for _, info := range r.s.taxInfos {
			if info.Usage == usage && activeAt(info, at) {
				infos = append(infos, r.withClass(info))
			}
		}
	}
	return infos, nil
}

func (r *taxRepository) TaxInfoHistory(ctx context.Context, usage enum.TaxUsage) ([]*entity.TaxInfo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var infos []*entity.TaxInfo
	for _, info := range r.s.taxInfos {
		if info.Usage == usage {
			infos = append(infos, r.withClass(info))
		}
	}
	continuance.Sort(infos)
	return infos, nil
}

func (r *taxRepository) VATClassHistory(ctx context.Context, name string) ([]*entity.VATClass, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var classes []*entity.VATClass
	for _, class := range r.s.vatClasses {
		if class.Name == name {
			classes = append(classes, &class)
		}
	}
	continuance.Sort(classes)
	return classes, nil
}

func (r *taxRepository) Append(ctx context.Context, archived, next *entity.TaxInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	classID := func(c *entity.VATClass) uuid.UUID { return c.ID }

	// Class changes go first so a rejected class leaves the tax infos alone.
	var archivedClass, nextClass *entity.VATClass
	if archived != nil && archived.VATClass != nil && archived.VATClass.IsArchived() {
		if next == nil || next.VATClassID != archived.VATClassID {
			archivedClass = archived.VATClass
		}
	}
	if next != nil && next.VATClass != nil {
		if _, exists := r.s.vatClasses[next.VATClass.ID]; !exists {
			nextClass = next.VATClass
		}
	}

	snapshot := make(map[uuid.UUID]entity.VATClass, len(r.s.vatClasses))
	for id, c := range r.s.vatClasses {
		snapshot[id] = c
	}
	if archivedClass != nil || nextClass != nil {
		if err := appendVersion(r.s.vatClasses, classID, archivedClass, nextClass); err != nil {
			return err
		}
	}
	if err := appendVersion(r.s.taxInfos, func(t *entity.TaxInfo) uuid.UUID { return t.ID }, archived, next); err != nil {
		r.s.vatClasses = snapshot
		return err
	}
	if next != nil {
		stored := r.s.taxInfos[next.ID]
		if next.VATClass != nil {
			stored.VATClassID = next.VATClass.ID
		}
		stored.VATClass = nil
		r.s.taxInfos[next.ID] = stored
	}
	return nil
}

// withClass returns a copy of the tax info with its VAT class loaded.
// Callers must hold the store lock.
func (r *taxRepository) withClass(info entity.TaxInfo) *entity.TaxInfo {
	if class, ok := r.s.vatClasses[info.VATClassID]; ok {
		info.VATClass = &class
	}
	return &info
}
