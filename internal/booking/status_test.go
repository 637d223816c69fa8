package booking

import (
	"errors"
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from model.ReservationStatus
		to   model.ReservationStatus
		want bool
	}{
		{"pending to confirmed", model.StatusPending, model.StatusConfirmed, true},
		{"pending to cancelled", model.StatusPending, model.StatusCancelled, true},
		{"confirmed to cancelled", model.StatusConfirmed, model.StatusCancelled, true},
		{"confirmed to pending", model.StatusConfirmed, model.StatusPending, false},
		{"cancelled to pending", model.StatusCancelled, model.StatusPending, false},
		{"cancelled to confirmed", model.StatusCancelled, model.StatusConfirmed, false},
		{"same status not in table", model.StatusPending, model.StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestGuardTransition(t *testing.T) {
	tests := []struct {
		name      string
		from      model.ReservationStatus
		to        model.ReservationStatus
		wantWrite bool
		wantErr   bool
	}{
		{"legal move writes", model.StatusPending, model.StatusConfirmed, true, false},
		{"cancel from confirmed writes", model.StatusConfirmed, model.StatusCancelled, true, false},
		{"same status is a no-op", model.StatusConfirmed, model.StatusConfirmed, false, false},
		{"cancelled is terminal", model.StatusCancelled, model.StatusConfirmed, false, true},
		{"no un-confirming", model.StatusConfirmed, model.StatusPending, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			write, err := GuardTransition(tt.from, tt.to)
			if write != tt.wantWrite {
				t.Errorf("GuardTransition(%s, %s) write = %v, want %v", tt.from, tt.to, write, tt.wantWrite)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("GuardTransition(%s, %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
			if err != nil {
				var terr *TransitionError
				if !errors.As(err, &terr) {
					t.Fatalf("error type = %T, want *TransitionError", err)
				}
				if terr.From != tt.from || terr.To != tt.to {
					t.Errorf("TransitionError carries %s -> %s, want %s -> %s", terr.From, terr.To, tt.from, tt.to)
				}
			}
		})
	}
}
