package booking

import "time"

// ValidateStay checks that a candidate stay range is well formed and
// not in the past.  All three inputs are compared at day granularity;
// today is injected rather than read from the system clock so the
// check is a pure function.  A stay of zero nights (start == end) is
// invalid regardless of room availability.
func ValidateStay(start, end, today time.Time) error {
	start, end, today = DateOnly(start), DateOnly(end), DateOnly(today)
	if !start.Before(end) {
		return ErrInvalidRange
	}
	if start.Before(today) {
		return ErrPastDate
	}
	return nil
}

// ValidateStayLength rejects stays longer than maxDays nights.  A
// maxDays of zero disables the bound.  The limit exists to keep the
// availability sweep horizon finite for hosted callers; it is checked
// after ValidateStay so the range is known to be well formed.
func ValidateStayLength(start, end time.Time, maxDays int) error {
	if maxDays <= 0 {
		return nil
	}
	nights := int(DateOnly(end).Sub(DateOnly(start)) / (24 * time.Hour))
	if nights > maxDays {
		return ErrStayTooLong
	}
	return nil
}

// ValidateGuests checks the guest count is positive.
func ValidateGuests(n int) error {
	if n <= 0 {
		return ErrInvalidPeopleCount
	}
	return nil
}
