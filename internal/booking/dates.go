package booking

import "time"

// DateLayout is the wire format for rental dates. Dates are calendar
// days without a time component; all of them are interpreted in UTC.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
// Malformed input yields ErrInvalidDateRange so callers surface one
// consistent error for any bad date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDateRange
	}
	return t.UTC(), nil
}

// FormatDate renders a date back into the YYYY-MM-DD wire format.
func FormatDate(t time.Time) string { return t.UTC().Format(DateLayout) }

// ValidateRange enforces start < end. Same-day and inverted ranges
// are rejected; the one-day minimum is applied later by Days, not by
// stretching the range itself.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return ErrInvalidDateRange
	}
	return nil
}
