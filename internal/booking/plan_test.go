package booking_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/booking"
	"github.com/srvk/hardware-rental/internal/model"
)

func TestBuildPlanMixedCart(t *testing.T) {
	products := []booking.ProductSelection{
		{AssetID: 1, AssetName: "Cordless Drill", UnitPriceCents: 12900, AvailableStock: 10, Quantity: 2},
	}
	rentals := []booking.RentalSelection{
		{
			AssetID: 2, AssetName: "Concrete Mixer", DailyRateCents: 4500,
			TotalStock: 3, OverlappingQty: 1, Quantity: 2,
			StartDate: day(t, "2026-03-01"), EndDate: day(t, "2026-03-04"),
		},
	}

	plan, err := booking.BuildPlan(products, rentals)
	assert.NoError(t, err)
	assert.Len(t, plan.Lines, 2)

	// 2 × 12900 product + 4500 × 2 × 3 days rental
	assert.Equal(t, int64(25800), plan.Lines[0].SubtotalCents)
	assert.Equal(t, int64(27000), plan.Lines[1].SubtotalCents)
	assert.Equal(t, int64(52800), plan.TotalCents)

	assert.Equal(t, model.CartKindProduct, plan.Lines[0].Kind)
	assert.Nil(t, plan.Lines[0].StartDate)
	assert.Equal(t, model.CartKindRental, plan.Lines[1].Kind)
	assert.Equal(t, 3, plan.Lines[1].Days)
}

func TestBuildPlanProductShortfall(t *testing.T) {
	products := []booking.ProductSelection{
		{AssetID: 1, AssetName: "Cordless Drill", UnitPriceCents: 12900, AvailableStock: 1, Quantity: 2},
	}
	plan, err := booking.BuildPlan(products, nil)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, booking.ErrInsufficientStock)

	var ise *booking.InsufficientStockError
	assert.True(t, errors.As(err, &ise))
	assert.Equal(t, uint64(1), ise.AssetID)
	assert.Equal(t, 1, ise.Available)
}

func TestBuildPlanRentalOverCapacity(t *testing.T) {
	rentals := []booking.RentalSelection{
		{
			AssetID: 2, DailyRateCents: 4500,
			TotalStock: 3, OverlappingQty: 3, Quantity: 1,
			StartDate: day(t, "2026-03-01"), EndDate: day(t, "2026-03-04"),
		},
	}
	plan, err := booking.BuildPlan(nil, rentals)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, booking.ErrInsufficientStock)
}

// One bad line poisons the whole plan, even when earlier lines were
// fine on their own.
func TestBuildPlanAllOrNothing(t *testing.T) {
	products := []booking.ProductSelection{
		{AssetID: 1, UnitPriceCents: 1000, AvailableStock: 5, Quantity: 1},
		{AssetID: 2, UnitPriceCents: 1000, AvailableStock: 5, Quantity: 0},
	}
	plan, err := booking.BuildPlan(products, nil)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, booking.ErrInvalidQuantity)
}

func TestBuildPlanRejectsBadDates(t *testing.T) {
	rentals := []booking.RentalSelection{
		{
			AssetID: 2, DailyRateCents: 4500, TotalStock: 3, Quantity: 1,
			StartDate: day(t, "2026-03-04"), EndDate: day(t, "2026-03-01"),
		},
	}
	plan, err := booking.BuildPlan(nil, rentals)
	assert.Nil(t, plan)
	assert.ErrorIs(t, err, booking.ErrInvalidDateRange)
}

func TestBuildPlanEmpty(t *testing.T) {
	plan, err := booking.BuildPlan(nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, plan.Lines)
	assert.Zero(t, plan.TotalCents)
}
