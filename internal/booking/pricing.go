package booking

import "time"

// Days returns the number of billable rental days for a range. The
// end date is exclusive and the count is floored to one day, so
// [Jan 1, Jan 2) bills one day and ranges shorter than a day never
// bill zero. Callers must have validated start < end beforehand.
func Days(start, end time.Time) int {
	d := int(end.Sub(start).Hours() / 24)
	if d < 1 {
		d = 1
	}
	return d
}

// Cost prices a rental: dailyRate × quantity × billable days.
func Cost(dailyRateCents int64, quantity int, start, end time.Time) int64 {
	return dailyRateCents * int64(quantity) * int64(Days(start, end))
}
