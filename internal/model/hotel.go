package model

import "time"

// Hotel is the inventory fact for a property: the total number of
// rooms that may be occupied on any single calendar day.  Hotels are
// owned by the user who registered them and can be deactivated
// without deleting their booking history.
//
// Fields:
//  ID          – primary key identifier.
//  OwnerID     – user who manages the hotel.
//  Name        – human readable hotel name.
//  Description – optional free text about the hotel.
//  TotalRooms  – number of rooms; the per-day occupancy ceiling.
//  IsActive    – whether the hotel currently accepts reservations.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Hotel struct {
	ID          uint64    // hotels.id
	OwnerID     uint64    // hotels.owner_id
	Name        string    // hotels.name
	Description *string   // hotels.description (nullable)
	TotalRooms  int       // hotels.total_rooms
	IsActive    bool      // hotels.is_active
	CreatedAt   time.Time // hotels.created_at
	UpdatedAt   time.Time // hotels.updated_at
}
