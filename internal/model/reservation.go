package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
// New reservations start as PENDING unless explicitly created as
// CONFIRMED.  CANCELLED is terminal; cancelled rows are kept for
// history and no longer count against hotel inventory.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// ParseStatus converts a raw string into a ReservationStatus.  It
// returns false when the value is not one of the known statuses.  An
// empty string is not a valid status; callers that treat "absent" as
// PENDING must decide that before calling ParseStatus.
func ParseStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return ReservationStatus(s), true
	}
	return "", false
}

// Reservation records a user's stay at a hotel over a half-open date
// range [StartDate, EndDate): the checkout day is not occupied.  Dates
// are stored at UTC midnight; time of day is irrelevant to booking.
// HotelID is nil when the reservation was made through a package whose
// hotel has not been resolved yet; such rows carry no inventory claim.
//
// Fields:
//  ID          – primary key identifier, assigned on creation.
//  RefCode     – opaque public handle returned to clients.
//  HotelID     – hotel being booked (nullable, see above).
//  UserID      – user who made the reservation.
//  StartDate   – check-in day (inclusive), UTC midnight.
//  EndDate     – checkout day (exclusive), UTC midnight.
//  PeopleCount – number of guests, positive.
//  Status      – lifecycle state, see ReservationStatus.
//  CreatedAt   – creation timestamp, write-once.
//  UpdatedAt   – last modification timestamp.
type Reservation struct {
	ID          uint64            // reservations.id
	RefCode     string            // reservations.ref_code
	HotelID     *uint64           // reservations.hotel_id (nullable)
	UserID      uint64            // reservations.user_id
	StartDate   time.Time         // reservations.start_date
	EndDate     time.Time         // reservations.end_date
	PeopleCount int               // reservations.people_count
	Status      ReservationStatus // reservations.status
	CreatedAt   time.Time         // reservations.created_at
	UpdatedAt   time.Time         // reservations.updated_at
}
