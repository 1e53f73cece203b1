package memory

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/oscr-register/internal/domain/continuance"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/sangkips/oscr-register/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ctx  = context.Background()
	t0   = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	t1   = t0.Add(24 * time.Hour)
	t2   = t1.Add(24 * time.Hour)
	noon = t0.Add(4 * time.Hour)
)

func seedOffer(t *testing.T, s *Store, name string, cents int64) *entity.Offer {
	t.Helper()
	item := &entity.SalesItem{Kind: enum.OfferKindProduct, Name: name, Validity: continuance.NewValidity(nil, nil)}
	item.ID = continuance.Identity(item)
	require.NoError(t, NewSalesItemRepository(s).Append(ctx, nil, item))

	offer, err := entity.NewOffer(item, money.New(cents, "EUR"), nil, nil)
	require.NoError(t, err)
	require.NoError(t, NewOfferRepository(s).Append(ctx, nil, offer))
	return offer
}

func seedTax(t *testing.T, s *Store) *entity.TaxInfo {
	t.Helper()
	class, err := entity.NewVATClass("Standard", decimal.NewFromInt(7), 'A', nil)
	require.NoError(t, err)
	info := entity.NewTaxInfo(enum.TaxUsageGlobalStandardVAT, class, nil)
	require.NoError(t, NewTaxRepository(s).Append(ctx, nil, info))
	return info
}

func TestBillRepository_SaveIsolatesCaller(t *testing.T) {
	s := NewStore()
	repo := NewBillRepository(s)
	espresso := seedOffer(t, s, "Espresso", 130)

	bill := entity.NewBill(seedTax(t, s), t0)
	_, err := bill.AddProductOffer(espresso)
	require.NoError(t, err)

	saved, err := repo.Save(ctx, bill)
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)

	// Mutating the caller's copy must not leak into storage.
	_, err = bill.AddProductOffer(espresso)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, bill.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Len(t, loaded.Items, 1)
	assert.Equal(t, bill.ID, loaded.Items[0].BillID)
}

func TestBillRepository_GetByIDMissing(t *testing.T) {
	repo := NewBillRepository(NewStore())
	bill, err := repo.GetByID(ctx, entity.NewBill(nil, t0).ID)
	require.NoError(t, err)
	assert.Nil(t, bill)
}

func TestBillRepository_FindInRange(t *testing.T) {
	s := NewStore()
	repo := NewBillRepository(s)
	tax := seedTax(t, s)
	staff := &entity.User{Name: "Ana"}
	staff.ID = continuance.Identity(staff)

	closeAt := func(at time.Time, consumer *entity.User) *entity.Bill {
		b := entity.NewBill(tax, t0)
		if consumer != nil {
			b.SetStaffConsumer(consumer)
		}
		require.NoError(t, b.Close(nil, at))
		_, err := repo.Save(ctx, b)
		require.NoError(t, err)
		return b
	}

	early := closeAt(t0, nil)
	late := closeAt(noon, nil)
	staffBill := closeAt(noon.Add(time.Minute), staff)
	closeAt(t1, nil)
	open := entity.NewBill(tax, t0)
	_, err := repo.Save(ctx, open)
	require.NoError(t, err)

	all, err := repo.FindInRange(ctx, t0, t1)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, early.ID, all[0].ID)
	assert.Equal(t, late.ID, all[1].ID)
	assert.Equal(t, staffBill.ID, all[2].ID)

	withoutStaff, err := repo.FindInRangeWithoutStaff(ctx, t0, t1)
	require.NoError(t, err)
	assert.Len(t, withoutStaff, 2)

	openBills, err := repo.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, openBills, 1)
	assert.Equal(t, open.ID, openBills[0].ID)

	require.NoError(t, repo.Delete(ctx, open))
	openBills, err = repo.FindOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, openBills)
}

func TestOfferRepository_Append(t *testing.T) {
	s := NewStore()
	repo := NewOfferRepository(s)
	espresso := seedOffer(t, s, "Espresso", 130)

	t.Run("second open version is rejected", func(t *testing.T) {
		dup := espresso.Supersede(money.New(150, "EUR"), t1)
		err := repo.Append(ctx, nil, dup)
		assert.ErrorIs(t, err, apperror.ErrContinuityViolation)
	})

	t.Run("archive and replace", func(t *testing.T) {
		archived := *espresso
		require.NoError(t, archived.Archive(t1))
		next := espresso.Supersede(money.New(150, "EUR"), t1)
		require.NoError(t, repo.Append(ctx, &archived, next))

		history, err := repo.History(ctx, enum.OfferKindProduct, "Espresso")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Nil(t, history[0].ValidFrom)
		assert.Equal(t, t1, *history[0].ValidTo)
		assert.Equal(t, int64(150), history[1].Price.Amount)
		assert.Equal(t, "Espresso", history[1].Name())
	})

	t.Run("archiving twice fails", func(t *testing.T) {
		archived := *espresso
		require.NoError(t, archived.Archive(t2))
		err := repo.Append(ctx, &archived, nil)
		assert.ErrorIs(t, err, apperror.ErrAlreadyArchived)
	})

	t.Run("active lookup follows validity", func(t *testing.T) {
		before, err := repo.ListActive(ctx, t0, nil)
		require.NoError(t, err)
		require.Len(t, before, 1)
		assert.Equal(t, int64(130), before[0].Price.Amount)

		kind := enum.OfferKindProduct
		after, err := repo.ListActive(ctx, t2, &kind)
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.Equal(t, int64(150), after[0].Price.Amount)

		extra := enum.OfferKindExtra
		none, err := repo.ListActive(ctx, t2, &extra)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func activeTaxInfo(t *testing.T, repo domainRepo.TaxRepository, at time.Time) *entity.TaxInfo {
	t.Helper()
	history, err := repo.TaxInfoHistory(ctx, enum.TaxUsageGlobalStandardVAT)
	require.NoError(t, err)
	info, ok := continuance.ActiveAt(history, at)
	require.True(t, ok)
	return info
}

func TestTaxRepository_ReplaceClass(t *testing.T) {
	s := NewStore()
	repo := NewTaxRepository(s)
	info := seedTax(t, s)

	active := activeTaxInfo(t, repo, t0)
	require.NotNil(t, active.VATClass)
	assert.Equal(t, 'A', active.VATClass.Symbol())

	archived := *active
	require.NoError(t, archived.Archive(t1))
	oldClass := *active.VATClass
	require.NoError(t, oldClass.Archive(t1))
	archived.VATClass = &oldClass

	newClass, err := entity.NewVATClass("Standard", decimal.NewFromInt(19), 'A', &t1)
	require.NoError(t, err)
	next := entity.NewTaxInfo(enum.TaxUsageGlobalStandardVAT, newClass, &t1)
	require.NoError(t, repo.Append(ctx, &archived, next))

	current := activeTaxInfo(t, repo, t2)
	assert.True(t, decimal.NewFromInt(19).Equal(current.VATClass.Rate))

	past := activeTaxInfo(t, repo, noon)
	assert.Equal(t, info.ID, past.ID)

	classes, err := repo.VATClassHistory(ctx, "Standard")
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.True(t, classes[0].IsArchived())
	assert.False(t, classes[1].IsArchived())
}

func TestUserRepository_GetActiveByName(t *testing.T) {
	s := NewStore()
	repo := NewUserRepository(s)
	ana := &entity.User{Name: "Ana", Role: enum.UserRoleCashier, Validity: continuance.NewValidity(&t0, nil)}
	ana.ID = continuance.Identity(ana)
	require.NoError(t, repo.Append(ctx, nil, ana))

	found, err := repo.GetActiveByName(ctx, "Ana", noon)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ana.ID, found.ID)

	gone := *ana
	require.NoError(t, gone.Archive(t1))
	require.NoError(t, repo.Append(ctx, &gone, nil))

	found, err = repo.GetActiveByName(ctx, "Ana", t2)
	require.NoError(t, err)
	assert.Nil(t, found)

	users, err := repo.ListActive(ctx, noon)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
