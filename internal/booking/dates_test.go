package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/booking"
)

func TestParseDate(t *testing.T) {
	d, err := booking.ParseDate("2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, time.UTC, d.Location())

	for _, bad := range []string{"", "15-03-2026", "2026-13-01", "2026-03-15T10:00:00Z", "soon"} {
		_, err := booking.ParseDate(bad)
		assert.ErrorIs(t, err, booking.ErrInvalidDateRange, "input %q", bad)
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	d, err := booking.ParseDate("2026-07-04")
	assert.NoError(t, err)
	assert.Equal(t, "2026-07-04", booking.FormatDate(d))
}

func TestValidateRange(t *testing.T) {
	day := func(s string) time.Time {
		d, err := booking.ParseDate(s)
		assert.NoError(t, err)
		return d
	}

	assert.NoError(t, booking.ValidateRange(day("2026-03-01"), day("2026-03-02")))

	// Same-day ranges are rejected; the one-day minimum comes from
	// pricing, not from widening the range.
	assert.ErrorIs(t, booking.ValidateRange(day("2026-03-01"), day("2026-03-01")), booking.ErrInvalidDateRange)
	assert.ErrorIs(t, booking.ValidateRange(day("2026-03-02"), day("2026-03-01")), booking.ErrInvalidDateRange)
	assert.ErrorIs(t, booking.ValidateRange(time.Time{}, day("2026-03-01")), booking.ErrInvalidDateRange)
}
