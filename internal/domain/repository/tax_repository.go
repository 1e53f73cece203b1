package repository

import (
	"context"
	"time"

	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
)

// TaxRepository stores tax info versions and the VAT classes they bind.
// Tax infos are returned with their VAT class loaded.
type TaxRepository interface {
	ListActiveTaxInfos(ctx context.Context, at time.Time) ([]*entity.TaxInfo, error)
	// TaxInfoHistory returns every version for usage ordered by valid_from
	TaxInfoHistory(ctx context.Context, usage enum.TaxUsage) ([]*entity.TaxInfo, error)
	// VATClassHistory returns every version of the named class ordered by valid_from
	VATClassHistory(ctx context.Context, name string) ([]*entity.VATClass, error)
	// Append atomically stores an archived tax info and its class, and the
	// successor together with its class when that class is new
	Append(ctx context.Context, archived, next *entity.TaxInfo) error
}
