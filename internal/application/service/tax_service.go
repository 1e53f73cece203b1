package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/shopspring/decimal"
)

// TaxService maintains the two global tax infos and the VAT classes they
// apply.
type TaxService struct {
	taxRepo repository.TaxRepository
	clock   Clock
	known   *globalTaxInfos
}

// NewTaxService creates a new tax service. Bills only see tax infos the
// service ensured or replaced, so EnsureTaxInfo must run for both usages
// before the register opens bills.
func NewTaxService(taxRepo repository.TaxRepository, clock Clock) *TaxService {
	return &TaxService{taxRepo: taxRepo, clock: clock, known: newGlobalTaxInfos()}
}

// GlobalTaxInfo returns the tax info for usage valid at the instant
// without reading the repository
func (s *TaxService) GlobalTaxInfo(usage enum.TaxUsage, at time.Time) (*entity.TaxInfo, error) {
	return s.known.activeAt(usage, at)
}

// reload refreshes the versions of usage that bills resolve against
func (s *TaxService) reload(ctx context.Context, usage enum.TaxUsage) error {
	history, err := s.taxRepo.TaxInfoHistory(ctx, usage)
	if err != nil {
		return err
	}
	s.known.set(usage, history)
	return nil
}

// VATClassInput describes the VAT class a tax info should apply
type VATClassInput struct {
	Name         string
	Rate         decimal.Decimal
	Abbreviation rune
}

// ListActive returns the global tax infos valid at the instant
func (s *TaxService) ListActive(ctx context.Context, at time.Time) ([]*entity.TaxInfo, error) {
	return s.taxRepo.ListActiveTaxInfos(ctx, at)
}

// History returns every version of the tax info for usage
func (s *TaxService) History(ctx context.Context, usage enum.TaxUsage) ([]*entity.TaxInfo, error) {
	return s.taxRepo.TaxInfoHistory(ctx, usage)
}

// EnsureTaxInfo returns the open tax info for usage, creating it from the
// input when the usage has none yet.
func (s *TaxService) EnsureTaxInfo(ctx context.Context, usage enum.TaxUsage, input VATClassInput) (*entity.TaxInfo, error) {
	history, err := s.taxRepo.TaxInfoHistory(ctx, usage)
	if err != nil {
		return nil, err
	}
	continuance.Sort(history)
	latest, ok := continuance.Latest(history)
	if ok && !latest.IsArchived() {
		s.known.set(usage, history)
		return latest, nil
	}

	var from *time.Time
	if ok {
		from = latest.ValidTo
	}

	class, err := s.openClass(ctx, input, from)
	if err != nil {
		return nil, err
	}
	info := entity.NewTaxInfo(usage, class, from)
	if err := continuance.CheckInsert(history, info); err != nil {
		return nil, err
	}
	if err := s.taxRepo.Append(ctx, nil, info); err != nil {
		return nil, err
	}
	if err := s.reload(ctx, usage); err != nil {
		return nil, err
	}

	log.Printf("[bootstrap] %s uses VAT class %s (%s%%)", usage, class.Name, class.Rate)
	return info, nil
}

// openClass reuses the open VAT class with the input's name or builds a
// new one starting at from.
func (s *TaxService) openClass(ctx context.Context, input VATClassInput, from *time.Time) (*entity.VATClass, error) {
	classes, err := s.taxRepo.VATClassHistory(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	continuance.Sort(classes)
	if latest, ok := continuance.Latest(classes); ok {
		if !latest.IsArchived() {
			return latest, nil
		}
		from = latest.ValidTo
	}

	class, err := entity.NewVATClass(input.Name, input.Rate, input.Abbreviation, from)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	if err := continuance.CheckInsert(classes, class); err != nil {
		return nil, err
	}
	return class, nil
}

// ReplaceVATRate archives the usage's tax info and VAT class at the given
// instant and continues both with the new rate.
func (s *TaxService) ReplaceVATRate(ctx context.Context, usage enum.TaxUsage, rate decimal.Decimal, at time.Time) (*entity.TaxInfo, error) {
	infos, err := s.taxRepo.TaxInfoHistory(ctx, usage)
	if err != nil {
		return nil, err
	}
	continuance.Sort(infos)
	current, ok := continuance.Latest(infos)
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Tax info %s", usage))
	}
	if current.VATClass == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("VAT class of %s", usage))
	}

	archivedInfo := *current
	if err := archivedInfo.Archive(at); err != nil {
		if errors.Is(err, apperror.ErrAlreadyArchived) {
			log.Printf("[catalog] data integrity: tax info %s: %v", usage, err)
		}
		return nil, err
	}
	archivedClass := *current.VATClass
	if err := archivedClass.Archive(at); err != nil {
		if errors.Is(err, apperror.ErrAlreadyArchived) {
			log.Printf("[catalog] data integrity: VAT class %s: %v", archivedClass.Name, err)
		}
		return nil, err
	}
	archivedInfo.VATClass = &archivedClass

	nextClass, err := entity.NewVATClass(archivedClass.Name, rate, archivedClass.Symbol(), &at)
	if err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}
	classes, err := s.taxRepo.VATClassHistory(ctx, archivedClass.Name)
	if err != nil {
		return nil, err
	}
	continuance.Sort(classes)
	replaceLatest(classes, &archivedClass)
	if err := continuance.CheckInsert(classes, nextClass); err != nil {
		return nil, err
	}

	next := entity.NewTaxInfo(usage, nextClass, &at)
	infos[len(infos)-1] = &archivedInfo
	if err := continuance.CheckInsert(infos, next); err != nil {
		return nil, err
	}

	if err := s.taxRepo.Append(ctx, &archivedInfo, next); err != nil {
		return nil, err
	}
	if err := s.reload(ctx, usage); err != nil {
		return nil, err
	}

	log.Printf("[catalog] %s: VAT class %s now %s%% from %s", usage, nextClass.Name, rate, at.Format(time.RFC3339))
	return next, nil
}

func replaceLatest(classes []*entity.VATClass, archived *entity.VATClass) {
	if n := len(classes); n > 0 && classes[n-1].ID == archived.ID {
		classes[n-1] = archived
	}
}
