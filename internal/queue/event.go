// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation reaches
// CONFIRMED, either at creation or through a status change.  It
// carries enough for downstream consumers to audit or trigger
// analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64  `json:"reservation_id"`
	RefCode       string  `json:"ref_code"`
	UserID        uint64  `json:"user_id"`
	HotelID       *uint64 `json:"hotel_id,omitempty"`
	HotelName     string  `json:"hotel_name,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	PeopleCount   int     `json:"people_count"`
	ConfirmedAt   string  `json:"confirmed_at"`
}
