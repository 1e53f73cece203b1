package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/infrastructure/repository/memory"
	"github.com/sangkips/oscr-register/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type staticUser struct {
	user *entity.User
}

func (p staticUser) CurrentUser(context.Context) (*entity.User, error) {
	return p.user, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func offerOf(t *testing.T, kind enum.OfferKind, name string, cents int64) *entity.Offer {
	t.Helper()
	item := &entity.SalesItem{ID: uuid.New(), Kind: kind, Name: name}
	offer, err := entity.NewOffer(item, money.New(cents, "EUR"), nil, nil)
	require.NoError(t, err)
	return offer
}

// seededTaxes returns a tax service with standard 19% (A) and reduced
// 7% (B) tax infos valid since forever.
func seededTaxes(t *testing.T) *TaxService {
	t.Helper()
	taxes := NewTaxService(memory.NewTaxRepository(memory.NewStore()), &fixedClock{now: date(2024, 1, 1)})
	_, err := taxes.EnsureTaxInfo(ctx, enum.TaxUsageGlobalStandardVAT, VATClassInput{Name: "Standard", Rate: decimal.NewFromInt(19), Abbreviation: 'A'})
	require.NoError(t, err)
	_, err = taxes.EnsureTaxInfo(ctx, enum.TaxUsageGlobalReducedVAT, VATClassInput{Name: "Reduced", Rate: decimal.NewFromInt(7), Abbreviation: 'B'})
	require.NoError(t, err)
	return taxes
}
