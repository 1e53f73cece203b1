package service

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/internal/domain/repository/mocks"
	"github.com/sangkips/oscr-register/internal/infrastructure/repository/memory"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// countingTaxes counts every read that reaches the tax repository
type countingTaxes struct {
	repository.TaxRepository
	reads int
}

func (c *countingTaxes) ListActiveTaxInfos(ctx context.Context, at time.Time) ([]*entity.TaxInfo, error) {
	c.reads++
	return c.TaxRepository.ListActiveTaxInfos(ctx, at)
}

func (c *countingTaxes) TaxInfoHistory(ctx context.Context, usage enum.TaxUsage) ([]*entity.TaxInfo, error) {
	c.reads++
	return c.TaxRepository.TaxInfoHistory(ctx, usage)
}

func (c *countingTaxes) VATClassHistory(ctx context.Context, name string) ([]*entity.VATClass, error) {
	c.reads++
	return c.TaxRepository.VATClassHistory(ctx, name)
}

func TestBillService_CommandsOnlySaveTheBill(t *testing.T) {
	clock := &fixedClock{now: date(2024, time.May, 3)}
	counted := &countingTaxes{TaxRepository: memory.NewTaxRepository(memory.NewStore())}
	taxes := NewTaxService(counted, clock)
	_, err := taxes.EnsureTaxInfo(ctx, enum.TaxUsageGlobalStandardVAT, VATClassInput{Name: "Standard", Rate: decimal.NewFromInt(19), Abbreviation: 'A'})
	require.NoError(t, err)
	_, err = taxes.EnsureTaxInfo(ctx, enum.TaxUsageGlobalReducedVAT, VATClassInput{Name: "Reduced", Rate: decimal.NewFromInt(7), Abbreviation: 'B'})
	require.NoError(t, err)

	repo := mocks.NewMockBillRepository(gomock.NewController(t))
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, b *entity.Bill) (*entity.Bill, error) {
			return b.Clone(), nil
		}).
		Times(3)
	bills := NewBillService(repo, taxes, staticUser{}, clock)
	session := NewSession("front")

	counted.reads = 0
	_, err = bills.AddProductOffer(ctx, session, offerOf(t, enum.OfferKindProduct, "Espresso", 130))
	require.NoError(t, err)
	require.NoError(t, bills.ToggleStandardAndReducedVAT(ctx, session))
	assert.Zero(t, counted.reads)
	assert.Equal(t, enum.TaxUsageGlobalReducedVAT, bills.GlobalTaxInfo(session).Usage)

	change := clock.now.Add(time.Hour)
	_, err = taxes.ReplaceVATRate(ctx, enum.TaxUsageGlobalStandardVAT, decimal.NewFromInt(20), change)
	require.NoError(t, err)

	clock.now = change
	counted.reads = 0
	require.NoError(t, bills.ToggleStandardAndReducedVAT(ctx, session))
	assert.Zero(t, counted.reads)
	standard := bills.GlobalTaxInfo(session)
	assert.Equal(t, enum.TaxUsageGlobalStandardVAT, standard.Usage)
	assert.True(t, decimal.NewFromInt(20).Equal(standard.VATClass.Rate))
}

func TestTaxService_GlobalTaxInfoNeedsEnsure(t *testing.T) {
	taxes := NewTaxService(memory.NewTaxRepository(memory.NewStore()), &fixedClock{now: date(2024, 1, 1)})

	_, err := taxes.GlobalTaxInfo(enum.TaxUsageGlobalStandardVAT, date(2024, 1, 1))
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	_, err = taxes.EnsureTaxInfo(ctx, enum.TaxUsageGlobalStandardVAT, VATClassInput{Name: "Standard", Rate: decimal.NewFromInt(19), Abbreviation: 'A'})
	require.NoError(t, err)
	info, err := taxes.GlobalTaxInfo(enum.TaxUsageGlobalStandardVAT, date(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 'A', info.VATClass.Symbol())
}
