package booking

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateStay(t *testing.T) {
	today := date(2025, time.January, 10)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{
			name:  "valid future stay",
			start: date(2025, time.January, 12),
			end:   date(2025, time.January, 15),
		},
		{
			name:  "stay starting today",
			start: date(2025, time.January, 10),
			end:   date(2025, time.January, 11),
		},
		{
			name:    "zero-night stay",
			start:   date(2025, time.January, 12),
			end:     date(2025, time.January, 12),
			wantErr: ErrInvalidRange,
		},
		{
			name:    "end before start",
			start:   date(2025, time.January, 15),
			end:     date(2025, time.January, 12),
			wantErr: ErrInvalidRange,
		},
		{
			name:    "start in the past",
			start:   date(2025, time.January, 9),
			end:     date(2025, time.January, 12),
			wantErr: ErrPastDate,
		},
		{
			name:    "inverted range in the past reports range first",
			start:   date(2025, time.January, 5),
			end:     date(2025, time.January, 3),
			wantErr: ErrInvalidRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStay(tt.start, tt.end, today)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateStay() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStayIgnoresTimeOfDay(t *testing.T) {
	// A stay starting later today must not be rejected just because
	// the clock has already passed the requested hour.
	today := time.Date(2025, time.January, 10, 23, 30, 0, 0, time.UTC)
	start := time.Date(2025, time.January, 10, 14, 0, 0, 0, time.UTC)
	end := date(2025, time.January, 12)
	if err := ValidateStay(start, end, today); err != nil {
		t.Errorf("ValidateStay() error = %v, want nil", err)
	}
}

func TestValidateStayLength(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		maxDays int
		wantErr error
	}{
		{
			name:    "within limit",
			start:   date(2025, time.March, 1),
			end:     date(2025, time.March, 8),
			maxDays: 7,
		},
		{
			name:    "over limit",
			start:   date(2025, time.March, 1),
			end:     date(2025, time.March, 9),
			maxDays: 7,
			wantErr: ErrStayTooLong,
		},
		{
			name:    "zero disables the bound",
			start:   date(2025, time.March, 1),
			end:     date(2026, time.March, 1),
			maxDays: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStayLength(tt.start, tt.end, tt.maxDays)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateStayLength() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateGuests(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr error
	}{
		{name: "one guest", n: 1},
		{name: "many guests", n: 8},
		{name: "zero guests", n: 0, wantErr: ErrInvalidPeopleCount},
		{name: "negative guests", n: -3, wantErr: ErrInvalidPeopleCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGuests(tt.n)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateGuests(%d) error = %v, want %v", tt.n, err, tt.wantErr)
			}
		})
	}
}
