package service

import (
	"testing"
	"time"

	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/infrastructure/repository/memory"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog() *CatalogService {
	store := memory.NewStore()
	return NewCatalogService(
		memory.NewSalesItemRepository(store),
		memory.NewOfferRepository(store),
		&fixedClock{now: date(2012, time.March, 1)},
		"EUR",
	)
}

func TestCatalogService_EspressoHistory(t *testing.T) {
	catalog := newCatalog()
	start := date(2010, time.January, 1)
	espresso, err := catalog.CreateSalesItem(ctx, &CreateSalesItemInput{Kind: enum.OfferKindProduct, Name: "Espresso", ValidFrom: &start})
	require.NoError(t, err)

	june10, june11 := date(2010, time.June, 1), date(2011, time.June, 1)
	v1, err := catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: espresso.ID, Amount: 110, ValidFrom: &start, ValidTo: &june10})
	require.NoError(t, err)
	v2, err := catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: espresso.ID, Amount: 120, ValidFrom: &june10, ValidTo: &june11})
	require.NoError(t, err)
	v3, err := catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: espresso.ID, Amount: 130, ValidFrom: &june11})
	require.NoError(t, err)

	july := date(2010, time.July, 1)
	active, err := catalog.ResolveOffer(ctx, v2.ID, july)
	require.NoError(t, err)
	assert.Equal(t, int64(120), active.Price.Amount)
	_, err = catalog.ResolveOffer(ctx, v1.ID, july)
	assert.Error(t, err)

	current, err := catalog.ResolveCurrentOffer(ctx, v3.ID)
	require.NoError(t, err)
	assert.Equal(t, "Espresso", current.Name())

	history, err := catalog.OfferHistory(ctx, v1.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []int64{110, 120, 130}, []int64{history[0].Price.Amount, history[1].Price.Amount, history[2].Price.Amount})
}

func TestCatalogService_RejectsGaps(t *testing.T) {
	catalog := newCatalog()
	item, err := catalog.CreateSalesItem(ctx, &CreateSalesItemInput{Kind: enum.OfferKindExtra, Name: "Syrup"})
	require.NoError(t, err)

	jan, feb, mar := date(2011, time.January, 1), date(2011, time.February, 1), date(2011, time.March, 1)
	first, err := catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: item.ID, Amount: 30, ValidFrom: &jan, ValidTo: &feb})
	require.NoError(t, err)

	_, err = catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: item.ID, Amount: 40, ValidFrom: &mar})
	assert.ErrorIs(t, err, apperror.ErrContinuityViolation)

	history, err := catalog.OfferHistory(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = catalog.CreateSalesItem(ctx, &CreateSalesItemInput{Kind: enum.OfferKindExtra, Name: "Syrup"})
	assert.ErrorIs(t, err, apperror.ErrContinuityViolation)
}

func TestCatalogService_ReplaceAndArchive(t *testing.T) {
	catalog := newCatalog()
	item, err := catalog.CreateSalesItem(ctx, &CreateSalesItemInput{Kind: enum.OfferKindProduct, Name: "Latte"})
	require.NoError(t, err)
	first, err := catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: item.ID, Amount: 300})
	require.NoError(t, err)

	change := date(2012, time.January, 1)
	next, err := catalog.ReplaceOfferPrice(ctx, first.ID, 320, change)
	require.NoError(t, err)
	assert.Equal(t, change, *next.ValidFrom)

	old, err := catalog.ResolveOffer(ctx, first.ID, change.Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(300), old.Price.Amount)
	_, err = catalog.ResolveOffer(ctx, first.ID, change)
	assert.Error(t, err)

	kind := enum.OfferKindProduct
	offers, err := catalog.ListActiveOffers(ctx, change, &kind)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, next.ID, offers[0].ID)

	end := date(2013, time.January, 1)
	archived, err := catalog.ArchiveOffer(ctx, next.ID, end)
	require.NoError(t, err)
	assert.Equal(t, end, *archived.ValidTo)

	_, err = catalog.ArchiveOffer(ctx, next.ID, end.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, apperror.ErrAlreadyArchived)

	items, err := catalog.ListActiveSalesItems(ctx, end, nil)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCatalogService_RejectsBackdatedChanges(t *testing.T) {
	catalog := newCatalog()
	start := date(2010, time.January, 1)
	espresso, err := catalog.CreateSalesItem(ctx, &CreateSalesItemInput{Kind: enum.OfferKindProduct, Name: "Espresso", ValidFrom: &start})
	require.NoError(t, err)

	june10, june11 := date(2010, time.June, 1), date(2011, time.June, 1)
	_, err = catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: espresso.ID, Amount: 110, ValidFrom: &start, ValidTo: &june10})
	require.NoError(t, err)
	_, err = catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: espresso.ID, Amount: 120, ValidFrom: &june10, ValidTo: &june11})
	require.NoError(t, err)
	current, err := catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: espresso.ID, Amount: 130, ValidFrom: &june11})
	require.NoError(t, err)

	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "price replaced before the current version started",
			call: func() error {
				_, err := catalog.ReplaceOfferPrice(ctx, current.ID, 999, date(2010, time.March, 1))
				return err
			},
		},
		{
			name: "price replaced at the current version's start",
			call: func() error {
				_, err := catalog.ReplaceOfferPrice(ctx, current.ID, 999, june11)
				return err
			},
		},
		{
			name: "archived before the current version started",
			call: func() error {
				_, err := catalog.ArchiveOffer(ctx, current.ID, date(2011, time.January, 1))
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), apperror.ErrContinuityViolation)

			history, err := catalog.OfferHistory(ctx, current.ID)
			require.NoError(t, err)
			require.Len(t, history, 3)
			assert.Equal(t, []int64{110, 120, 130}, []int64{history[0].Price.Amount, history[1].Price.Amount, history[2].Price.Amount})
			assert.Nil(t, history[2].ValidTo)

			active, err := catalog.ListActiveOffers(ctx, date(2010, time.April, 1), nil)
			require.NoError(t, err)
			require.Len(t, active, 1)
			assert.Equal(t, int64(110), active[0].Price.Amount)
		})
	}
}

func TestCatalogService_PriceHistorySpansSalesItemVersions(t *testing.T) {
	store := memory.NewStore()
	items := memory.NewSalesItemRepository(store)
	catalog := NewCatalogService(items, memory.NewOfferRepository(store), &fixedClock{now: date(2012, time.March, 1)}, "EUR")

	first, err := catalog.CreateSalesItem(ctx, &CreateSalesItemInput{Kind: enum.OfferKindProduct, Name: "Mocha"})
	require.NoError(t, err)
	june := date(2011, time.June, 1)
	old, err := catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: first.ID, Amount: 250, ValidTo: &june})
	require.NoError(t, err)

	archived := *first
	require.NoError(t, archived.Archive(june))
	require.NoError(t, items.Append(ctx, &archived, nil))
	second, err := catalog.CreateSalesItem(ctx, &CreateSalesItemInput{Kind: enum.OfferKindProduct, Name: "Mocha", ValidFrom: &june})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	_, err = catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: second.ID, Amount: 260})
	assert.ErrorIs(t, err, apperror.ErrContinuityViolation)

	next, err := catalog.CreateOffer(ctx, &CreateOfferInput{SalesItemID: second.ID, Amount: 280, ValidFrom: &june})
	require.NoError(t, err)

	history, err := catalog.OfferHistory(ctx, old.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, old.ID, history[0].ID)
	assert.Equal(t, next.ID, history[1].ID)
	assert.Equal(t, "Mocha", history[1].Name())
}
