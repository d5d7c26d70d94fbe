package booking_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/booking"
	"github.com/srvk/hardware-rental/internal/model"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical", "2026-03-01", "2026-03-05", "2026-03-01", "2026-03-05", true},
		{"contained", "2026-03-01", "2026-03-10", "2026-03-03", "2026-03-05", true},
		{"partial", "2026-03-01", "2026-03-05", "2026-03-04", "2026-03-09", true},
		{"shared single day", "2026-03-01", "2026-03-05", "2026-03-05", "2026-03-09", true},
		{"disjoint", "2026-03-01", "2026-03-05", "2026-03-06", "2026-03-09", false},
		{"disjoint reversed", "2026-03-06", "2026-03-09", "2026-03-01", "2026-03-05", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := booking.Overlaps(day(t, tc.aStart), day(t, tc.aEnd), day(t, tc.bStart), day(t, tc.bEnd))
			assert.Equal(t, tc.want, got)
		})
	}
}

func reservation(id uint64, qty int, status, start, end string, t *testing.T) model.Reservation {
	return model.Reservation{
		ID:        id,
		Quantity:  qty,
		Status:    status,
		StartDate: day(t, start),
		EndDate:   day(t, end),
	}
}

func TestUsedCapacity(t *testing.T) {
	existing := []model.Reservation{
		reservation(1, 3, model.ReservationActive, "2026-03-01", "2026-03-05", t),
		reservation(2, 2, model.ReservationActive, "2026-03-10", "2026-03-12", t),
		reservation(3, 4, model.ReservationReturned, "2026-03-01", "2026-03-05", t),
	}

	// RETURNED reservations never count.
	assert.Equal(t, 3, booking.UsedCapacity(existing, day(t, "2026-03-02"), day(t, "2026-03-04"), 0))

	// A window bridging both active bookings counts both.
	assert.Equal(t, 5, booking.UsedCapacity(existing, day(t, "2026-03-04"), day(t, "2026-03-11"), 0))

	// Excluding a reservation removes its load, so a date edit does
	// not compete with itself.
	assert.Equal(t, 2, booking.UsedCapacity(existing, day(t, "2026-03-04"), day(t, "2026-03-11"), 1))

	// Fully disjoint window sees no load at all.
	assert.Equal(t, 0, booking.UsedCapacity(existing, day(t, "2026-03-20"), day(t, "2026-03-25"), 0))
}

// Two bookings of 3 units on a 5-unit fleet over the same window:
// the first fits, the second must be refused.
func TestCheckCapacityOverlappingWindows(t *testing.T) {
	existing := []model.Reservation{}
	start, end := day(t, "2026-03-01"), day(t, "2026-03-05")

	used := booking.UsedCapacity(existing, start, end, 0)
	assert.NoError(t, booking.CheckCapacity(7, 5, used, 3))

	existing = append(existing, reservation(1, 3, model.ReservationActive, "2026-03-01", "2026-03-05", t))
	used = booking.UsedCapacity(existing, start, end, 0)
	err := booking.CheckCapacity(7, 5, used, 3)
	assert.ErrorIs(t, err, booking.ErrInsufficientStock)

	var ise *booking.InsufficientStockError
	assert.True(t, errors.As(err, &ise))
	assert.Equal(t, 2, ise.Available)
	assert.Equal(t, 3, ise.Requested)
}

// Disjoint windows each get the whole fleet: three bookings of 3 on
// a 3-unit fleet succeed as long as their windows never intersect.
func TestCheckCapacityDisjointWindows(t *testing.T) {
	existing := []model.Reservation{
		reservation(1, 3, model.ReservationActive, "2026-03-01", "2026-03-05", t),
		reservation(2, 3, model.ReservationActive, "2026-03-06", "2026-03-10", t),
	}

	used := booking.UsedCapacity(existing, day(t, "2026-03-11"), day(t, "2026-03-15"), 0)
	assert.NoError(t, booking.CheckCapacity(7, 3, used, 3))

	// But a window bridging two full bookings finds nothing left.
	used = booking.UsedCapacity(existing, day(t, "2026-03-04"), day(t, "2026-03-07"), 0)
	err := booking.CheckCapacity(7, 3, used, 1)
	assert.ErrorIs(t, err, booking.ErrInsufficientStock)
}

func TestCheckCapacityInvalidQuantity(t *testing.T) {
	assert.ErrorIs(t, booking.CheckCapacity(7, 5, 0, 0), booking.ErrInvalidQuantity)
	assert.ErrorIs(t, booking.CheckCapacity(7, 5, 0, -2), booking.ErrInvalidQuantity)
}

// Available never reports negative even if the ledger was somehow
// overcommitted.
func TestCheckCapacityOvercommitted(t *testing.T) {
	err := booking.CheckCapacity(7, 3, 5, 1)
	var ise *booking.InsufficientStockError
	assert.True(t, errors.As(err, &ise))
	assert.Equal(t, 0, ise.Available)
}
