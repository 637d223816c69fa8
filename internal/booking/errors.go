// Package booking implements the reservation availability and
// lifecycle engine: stay validation, per-day availability checking,
// the status transition guard and the orchestrator that ties them to
// an inventory provider and a reservation store.  The package is
// storage and transport agnostic; persistence adapters live in the
// repository package and HTTP mapping in the handler package.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Sentinel errors returned by the engine.  Handlers translate these
// into HTTP status codes; the engine itself never logs or swallows
// them.
var (
	// ErrInvalidRange is returned when a stay's start date is not
	// strictly before its end date.
	ErrInvalidRange = errors.New("start date must be before end date")

	// ErrPastDate is returned when a stay starts before today.
	ErrPastDate = errors.New("start date is in the past")

	// ErrStayTooLong is returned when a stay exceeds the configured
	// maximum length in days.
	ErrStayTooLong = errors.New("stay exceeds maximum length")

	// ErrInvalidPeopleCount is returned when the guest count is not
	// positive.
	ErrInvalidPeopleCount = errors.New("people count must be positive")

	// ErrUnknownStatus is returned when a caller supplies a status
	// string outside the known enumeration.
	ErrUnknownStatus = errors.New("unknown reservation status")

	// ErrHotelNotFound is returned when the inventory provider has no
	// record of the requested hotel.
	ErrHotelNotFound = errors.New("hotel not found")

	// ErrReservationNotFound is returned when a status change targets
	// a reservation that does not exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrVersionConflict is returned by a ReservationStore when a
	// compare-and-set status update lost a race: the row no longer
	// carries the expected previous status.  The engine retries these.
	ErrVersionConflict = errors.New("reservation status version conflict")

	// ErrConcurrentUpdate is returned after the engine has exhausted
	// its retries against concurrent status updates on the same row.
	ErrConcurrentUpdate = errors.New("reservation updated concurrently")
)

// NoRoomsError reports the first saturated day found during an
// availability check.  Callers use Date to build a precise message
// for the client.
type NoRoomsError struct {
	Date time.Time
}

func (e *NoRoomsError) Error() string {
	return fmt.Sprintf("no rooms available on %s", e.Date.Format("2006-01-02"))
}

// TransitionError reports a status change forbidden by the transition
// table, carrying both ends of the attempted move.
type TransitionError struct {
	From model.ReservationStatus
	To   model.ReservationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}
