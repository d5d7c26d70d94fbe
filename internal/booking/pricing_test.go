package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/booking"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := booking.ParseDate(s)
	assert.NoError(t, err)
	return d
}

func TestDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2026-03-01", "2026-03-02", 1}, // single day, end exclusive
		{"2026-03-01", "2026-03-08", 7},
		{"2026-02-27", "2026-03-02", 3}, // spans a month boundary
		{"2026-03-01", "2026-03-01", 1}, // degenerate range still bills one day
	}
	for _, tc := range cases {
		got := booking.Days(day(t, tc.start), day(t, tc.end))
		assert.Equal(t, tc.want, got, "%s..%s", tc.start, tc.end)
	}
}

func TestCost(t *testing.T) {
	start, end := day(t, "2026-03-01"), day(t, "2026-03-04")

	// 1500 cents/day × 2 units × 3 days
	assert.Equal(t, int64(9000), booking.Cost(1500, 2, start, end))

	// a sub-day range bills the one-day minimum
	assert.Equal(t, int64(1500), booking.Cost(1500, 1, start, start))
}
