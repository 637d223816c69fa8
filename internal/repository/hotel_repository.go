package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo provides data access to the hotels table.  A hotel row is
// the inventory fact consumed by the booking engine: its total_rooms
// column is the per-day occupancy ceiling for the property.  All
// timestamps are stored in UTC.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span both the hotel and reservation repositories.
func (r *HotelRepo) DB() *sql.DB { return r.db }

// Create inserts a hotel and reads the row back so DB-assigned
// defaults (is_active, timestamps) are populated on the model.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const qInsert = `INSERT INTO hotels (owner_id, name, description, total_rooms) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, h.OwnerID, h.Name, h.Description, h.TotalRooms)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, total_rooms, is_active, created_at, updated_at FROM hotels WHERE id = ?`,
		h.ID,
	).Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.TotalRooms, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID retrieves a hotel by its ID.  It returns
// booking.ErrHotelNotFound when no row exists.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT id, owner_id, name, description, total_rooms, is_active, created_at, updated_at FROM hotels WHERE id = ?`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.TotalRooms, &h.IsActive, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// GetByIDAndOwner retrieves a hotel and enforces ownership.  It
// returns booking.ErrHotelNotFound when the hotel does not exist and
// ErrForbidden when it belongs to a different owner.
func (r *HotelRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Hotel, error) {
	h, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return h, nil
}

// List returns all active hotels ordered by name.
func (r *HotelRepo) List(ctx context.Context) ([]model.Hotel, error) {
	const q = `SELECT id, owner_id, name, description, total_rooms, is_active, created_at, updated_at
			   FROM hotels WHERE is_active = 1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.TotalRooms, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hotels, nil
}

// Update modifies a hotel's name, description, room count or active
// flag.  Ownership must have been verified by the caller (via
// GetByIDAndOwner).  The updated row is read back into h.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	const q = `UPDATE hotels SET name = ?, description = ?, total_rooms = ?, is_active = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, h.Name, h.Description, h.TotalRooms, h.IsActive, h.ID); err != nil {
		return err
	}
	return r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, total_rooms, is_active, created_at, updated_at FROM hotels WHERE id = ?`,
		h.ID,
	).Scan(&h.ID, &h.OwnerID, &h.Name, &h.Description, &h.TotalRooms, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
}

// RoomCount implements booking.InventoryProvider.  Inactive hotels
// are reported as not found so new reservations cannot target them.
func (r *HotelRepo) RoomCount(ctx context.Context, hotelID uint64) (int, error) {
	const q = `SELECT total_rooms FROM hotels WHERE id = ? AND is_active = 1`
	var n int
	err := r.db.QueryRowContext(ctx, q, hotelID).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, booking.ErrHotelNotFound
		}
		return 0, err
	}
	return n, nil
}

// RoomCountTx reads a hotel's room count inside a transaction while
// taking a row lock (SELECT ... FOR UPDATE).  Holding the lock for the
// duration of a check-and-insert serializes concurrent reservation
// writes for the same hotel at the database level, in addition to the
// engine's in-process critical section.
func (r *HotelRepo) RoomCountTx(ctx context.Context, tx *sql.Tx, hotelID uint64) (int, error) {
	const q = `SELECT total_rooms FROM hotels WHERE id = ? AND is_active = 1 FOR UPDATE`
	var n int
	err := tx.QueryRowContext(ctx, q, hotelID).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, booking.ErrHotelNotFound
		}
		return 0, err
	}
	return n, nil
}
