package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/booking"
	"github.com/srvk/hardware-rental/internal/model"
)

func TestStockDelta(t *testing.T) {
	// Returning a rental restores its units.
	d, err := booking.StockDelta(model.ReservationActive, model.ReservationReturned, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, d)

	// Reactivating takes them again.
	d, err = booking.StockDelta(model.ReservationReturned, model.ReservationActive, 3)
	assert.NoError(t, err)
	assert.Equal(t, -3, d)
}

func TestStockDeltaIdempotent(t *testing.T) {
	for _, s := range []string{model.ReservationActive, model.ReservationReturned} {
		d, err := booking.StockDelta(s, s, 5)
		assert.NoError(t, err)
		assert.Zero(t, d, "repeating %s must not move stock", s)
	}
}

func TestStockDeltaInvalidStatus(t *testing.T) {
	_, err := booking.StockDelta(model.ReservationActive, "CANCELLED", 1)
	assert.ErrorIs(t, err, booking.ErrInvalidStatus)

	_, err = booking.StockDelta("", model.ReservationReturned, 1)
	assert.ErrorIs(t, err, booking.ErrInvalidStatus)
}
