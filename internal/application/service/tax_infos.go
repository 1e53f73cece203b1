package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/pkg/apperror"
)

// TaxInfoSource resolves the global tax info a bill applies at an instant
type TaxInfoSource interface {
	GlobalTaxInfo(usage enum.TaxUsage, at time.Time) (*entity.TaxInfo, error)
}

// globalTaxInfos keeps every version of the two global tax infos in memory,
// so register commands never read them from the repository.
type globalTaxInfos struct {
	mu      sync.RWMutex
	history map[enum.TaxUsage][]*entity.TaxInfo
}

func newGlobalTaxInfos() *globalTaxInfos {
	return &globalTaxInfos{history: make(map[enum.TaxUsage][]*entity.TaxInfo)}
}

// set replaces the known versions of usage with a sorted history
func (g *globalTaxInfos) set(usage enum.TaxUsage, history []*entity.TaxInfo) {
	sorted := append([]*entity.TaxInfo(nil), history...)
	continuance.Sort(sorted)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.history[usage] = sorted
}

func (g *globalTaxInfos) activeAt(usage enum.TaxUsage, at time.Time) (*entity.TaxInfo, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	info, ok := continuance.ActiveAt(g.history[usage], at)
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Tax info %s", usage))
	}
	c := *info
	return &c, nil
}
