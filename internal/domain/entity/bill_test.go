package entity

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/pkg/apperror"
	"github.com/sangkips/oscr-register/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var opened = time.Date(2011, 6, 1, 9, 0, 0, 0, time.UTC)

func offerOf(t *testing.T, kind enum.OfferKind, name string, cents int64) *Offer {
	t.Helper()
	item := &SalesItem{ID: uuid.New(), Kind: kind, Name: name}
	o, err := NewOffer(item, money.New(cents, "EUR"), &opened, nil)
	require.NoError(t, err)
	return o
}

func standardTax(t *testing.T) *TaxInfo {
	t.Helper()
	class, err := NewVATClass("reduced", decimal.NewFromInt(7), 'B', nil)
	require.NoError(t, err)
	return NewTaxInfo(enum.TaxUsageGlobalStandardVAT, class, nil)
}

func TestBill_AddProductOffer(t *testing.T) {
	bill := NewBill(standardTax(t), opened)
	espresso := offerOf(t, enum.OfferKindProduct, "Espresso", 130)
	latte := offerOf(t, enum.OfferKindProduct, "Latte", 250)

	first, err := bill.AddProductOffer(espresso)
	require.NoError(t, err)
	second, err := bill.AddProductOffer(latte)
	require.NoError(t, err)
	third, err := bill.AddProductOffer(espresso)
	require.NoError(t, err)

	require.Len(t, bill.Items, 3)
	assert.Same(t, first, bill.Items[0])
	assert.Same(t, second, bill.Items[1])
	assert.Same(t, third, bill.LastItem())
	for i, item := range bill.Items {
		assert.Equal(t, i, item.Position)
		assert.Equal(t, bill.ID, item.BillID)
	}
	assert.Equal(t, "EUR", bill.Currency())

	_, err = bill.AddProductOffer(offerOf(t, enum.OfferKindExtra, "Syrup", 30))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
	assert.Len(t, bill.Items, 3)
}

func TestBill_UndoLastAction(t *testing.T) {
	bill := NewBill(standardTax(t), opened)
	_, err := bill.AddProductOffer(offerOf(t, enum.OfferKindProduct, "Espresso", 130))
	require.NoError(t, err)
	second, err := bill.AddProductOffer(offerOf(t, enum.OfferKindProduct, "Latte", 250))
	require.NoError(t, err)

	require.NoError(t, bill.UndoLastAction())
	assert.Len(t, bill.Items, 1)
	assert.NotSame(t, second, bill.LastItem())

	require.NoError(t, bill.UndoLastAction())
	assert.True(t, bill.IsEmpty())
	assert.Nil(t, bill.LastItem())

	require.NoError(t, bill.UndoLastAction())
	assert.True(t, bill.IsEmpty())
}

func TestBill_Close(t *testing.T) {
	bill := NewBill(standardTax(t), opened)
	_, err := bill.AddProductOffer(offerOf(t, enum.OfferKindProduct, "Espresso", 130))
	require.NoError(t, err)

	cashier := &User{ID: uuid.New(), Name: "anna"}
	closedAt := opened.Add(5 * time.Minute)
	require.NoError(t, bill.Close(cashier, closedAt))

	assert.True(t, bill.IsClosed())
	assert.Equal(t, closedAt, *bill.ClosedAt)
	assert.Equal(t, cashier.ID, *bill.CashierID)

	err = bill.Close(cashier, closedAt.Add(time.Minute))
	assert.True(t, errors.Is(err, apperror.ErrBillClosed))
	assert.Equal(t, closedAt, *bill.ClosedAt)

	_, err = bill.AddProductOffer(offerOf(t, enum.OfferKindProduct, "Latte", 250))
	assert.True(t, errors.Is(err, apperror.ErrBillClosed))
	assert.True(t, errors.Is(bill.UndoLastAction(), apperror.ErrBillClosed))
	assert.Len(t, bill.Items, 1)
}

func TestBill_StaffAndTaxInfo(t *testing.T) {
	tax := standardTax(t)
	bill := NewBill(tax, opened)
	assert.Equal(t, tax.ID, bill.GlobalTaxInfoID)

	staff := &User{ID: uuid.New(), Name: "ben"}
	bill.SetStaffConsumer(staff)
	require.NotNil(t, bill.StaffConsumerID)
	assert.Equal(t, staff.ID, *bill.StaffConsumerID)
	assert.True(t, bill.IsStaffBill())

	bill.ClearStaffConsumer()
	assert.Nil(t, bill.StaffConsumerID)
	assert.Nil(t, bill.StaffConsumer)
	assert.False(t, bill.IsStaffBill())
}

func TestBillItem_Attachments(t *testing.T) {
	bill := NewBill(standardTax(t), opened)
	item, err := bill.AddProductOffer(offerOf(t, enum.OfferKindProduct, "Espresso", 130))
	require.NoError(t, err)

	syrup := offerOf(t, enum.OfferKindExtra, "Syrup", 30)
	decaf := offerOf(t, enum.OfferKindVariation, "Decaf", 10)
	happyHour := offerOf(t, enum.OfferKindPromo, "Happy hour", -50)
	staffPromo := offerOf(t, enum.OfferKindPromo, "Staff", -130)

	t.Run("extras accumulate", func(t *testing.T) {
		require.NoError(t, item.AddExtraOffer(syrup))
		require.NoError(t, item.AddExtraOffer(syrup))
		assert.Len(t, item.Attachments, 2)
	})

	t.Run("variation toggles", func(t *testing.T) {
		require.NoError(t, item.ToggleVariationOffer(decaf))
		assert.Len(t, item.Attachments, 3)
		require.NoError(t, item.ToggleVariationOffer(decaf))
		assert.Len(t, item.Attachments, 2)
		require.NoError(t, item.Attach(decaf))
		assert.Len(t, item.Attachments, 3)
	})

	t.Run("second promo fails and leaves attachments unchanged", func(t *testing.T) {
		require.NoError(t, item.AddPromoOffer(happyHour))
		before := item.AttachedOffers()

		err := item.AddPromoOffer(staffPromo)
		assert.True(t, errors.Is(err, apperror.ErrAlreadyHasPromoOffer))
		assert.Equal(t, before, item.AttachedOffers())
		assert.True(t, item.HasPromoOffer())
	})

	t.Run("wrong kind is rejected", func(t *testing.T) {
		assert.Error(t, item.AddExtraOffer(decaf))
		assert.Error(t, item.Attach(offerOf(t, enum.OfferKindProduct, "Latte", 250)))
	})

	t.Run("price includes attachments", func(t *testing.T) {
		// 130 + 30 + 30 + 10 - 50
		assert.Equal(t, money.New(150, "EUR"), item.PriceGross())
	})

	for i, a := range item.Attachments {
		assert.Equal(t, i, a.Position)
	}
}

func TestBill_Clone(t *testing.T) {
	bill := NewBill(standardTax(t), opened)
	item, err := bill.AddProductOffer(offerOf(t, enum.OfferKindProduct, "Espresso", 130))
	require.NoError(t, err)
	require.NoError(t, item.AddExtraOffer(offerOf(t, enum.OfferKindExtra, "Syrup", 30)))

	clone := bill.Clone()
	require.NoError(t, clone.LastItem().AddExtraOffer(offerOf(t, enum.OfferKindExtra, "Cream", 20)))
	_, err = clone.AddProductOffer(offerOf(t, enum.OfferKindProduct, "Latte", 250))
	require.NoError(t, err)
	clone.SetFreePromotion(true)

	assert.Len(t, bill.Items, 1)
	assert.Len(t, bill.Items[0].Attachments, 1)
	assert.False(t, bill.FreePromotion)
	assert.Same(t, bill.Items[0].Offer, clone.Items[0].Offer)
	assert.Same(t, bill.GlobalTaxInfo, clone.GlobalTaxInfo)
	assert.Equal(t, bill.ID, clone.ID)

	assert.Nil(t, (*Bill)(nil).Clone())
}
