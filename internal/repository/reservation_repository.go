package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo provides data access to the reservations table and
// implements booking.ReservationStore.  Reservations are never
// physically deleted; cancellation is a status change so history and
// occupancy reports stay intact.  All timestamp fields are stored in
// UTC and date columns at day granularity.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, ref_code, hotel_id, user_id, start_date, end_date, people_count, status, created_at, updated_at`

// scanReservation reads one reservation row from a row scanner.
func scanReservation(row interface {
	Scan(dest ...interface{}) error
}) (*model.Reservation, error) {
	var r model.Reservation
	var hotelID sql.NullInt64
	var status string
	if err := row.Scan(&r.ID, &r.RefCode, &hotelID, &r.UserID, &r.StartDate, &r.EndDate, &r.PeopleCount, &status, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if hotelID.Valid {
		hid := uint64(hotelID.Int64)
		r.HotelID = &hid
	}
	r.Status = model.ReservationStatus(status)
	return &r, nil
}

// ActiveByHotel implements booking.ReservationStore.  It returns all
// non-cancelled reservations for a hotel; the engine filters and
// counts them per day.
func (r *ReservationRepo) ActiveByHotel(ctx context.Context, hotelID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE hotel_id = ? AND status <> 'CANCELLED'`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// activeByHotelTx is ActiveByHotel inside an existing transaction,
// used by Insert while the hotel row lock is held.
func (r *ReservationRepo) activeByHotelTx(ctx context.Context, tx *sql.Tx, hotelID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE hotel_id = ? AND status <> 'CANCELLED'`
	rows, err := tx.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Insert implements booking.ReservationStore.  For stays with a hotel
// it runs the insert in a transaction that first locks the hotel's
// inventory row (SELECT ... FOR UPDATE) and re-checks availability
// under that lock.  The engine already serializes check-and-insert
// per hotel within one process; the row lock extends the same
// discipline across processes sharing the database, so the second
// check only fails when another process won the race.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if res.HotelID != nil && res.Status != model.StatusCancelled {
		rooms, err := hotelRoomCountTx(ctx, tx, *res.HotelID)
		if err != nil {
			return err
		}
		existing, err := r.activeByHotelTx(ctx, tx, *res.HotelID)
		if err != nil {
			return err
		}
		if ok, conflict := booking.CheckAvailability(res.StartDate, res.EndDate, rooms, existing); !ok {
			return &booking.NoRoomsError{Date: conflict}
		}
	}

	const q = `INSERT INTO reservations (ref_code, hotel_id, user_id, start_date, end_date, people_count, status)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	var hotelID interface{}
	if res.HotelID != nil {
		hotelID = *res.HotelID
	}
	result, err := tx.ExecContext(ctx, q,
		res.RefCode, hotelID, res.UserID,
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"),
		res.PeopleCount, string(res.Status),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	// Query back the full row to populate timestamps and defaults.
	stored, err := scanReservation(tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID))
	if err != nil {
		return err
	}
	*res = *stored

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// hotelRoomCountTx mirrors HotelRepo.RoomCountTx without requiring a
// HotelRepo instance; both repositories read the same table.
func hotelRoomCountTx(ctx context.Context, tx *sql.Tx, hotelID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT total_rooms FROM hotels WHERE id = ? AND is_active = 1 FOR UPDATE`, hotelID,
	).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, booking.ErrHotelNotFound
		}
		return 0, err
	}
	return n, nil
}

// GetByID implements booking.ReservationStore.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// GetByIDForUser returns a reservation and enforces that it belongs to
// the given user.  Missing rows and rows owned by someone else both
// surface as booking.ErrReservationNotFound so the API does not leak
// which reservation IDs exist.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// UpdateStatus implements booking.ReservationStore with
// compare-and-set semantics: the update applies only when the row
// still carries the expected previous status.  A lost race returns
// booking.ErrVersionConflict so the engine can reload and retry.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.ReservationStatus) (*model.Reservation, error) {
	const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, string(to), id, string(from))
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Distinguish a missing row from a concurrent status change.
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		if err != nil {
			return nil, err
		}
		return nil, booking.ErrVersionConflict
	}
	return r.GetByID(ctx, id)
}

// ReservationDetail is the joined view returned to customers: the
// reservation plus the hotel's display name when one is linked.
type ReservationDetail struct {
	ID          uint64  `json:"id"`
	RefCode     string  `json:"ref_code"`
	HotelID     *uint64 `json:"hotel_id,omitempty"`
	HotelName   *string `json:"hotel_name,omitempty"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	PeopleCount int     `json:"people_count"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// ListByUser returns all reservations for the given user, newest
// first, with hotel names resolved via LEFT JOIN (package stays may
// have no hotel yet).  When no reservations exist an empty slice is
// returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.ref_code, r.hotel_id, h.name, r.start_date, r.end_date, r.people_count, r.status, r.created_at
			   FROM reservations r
			   LEFT JOIN hotels h ON h.id = r.hotel_id
			   WHERE r.user_id = ?
			   ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDetails(rows)
}

// ListByHotelForOwner returns all reservations for a hotel when
// accessed by its owner.  It verifies ownership first and returns
// ErrForbidden when the hotel belongs to someone else and
// booking.ErrHotelNotFound when it does not exist.
func (r *ReservationRepo) ListByHotelForOwner(ctx context.Context, hotelID, ownerID uint64) ([]ReservationDetail, error) {
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM hotels WHERE id = ?`, hotelID).Scan(&actualOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrHotelNotFound
		}
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}
	const q = `SELECT r.id, r.ref_code, r.hotel_id, h.name, r.start_date, r.end_date, r.people_count, r.status, r.created_at
			   FROM reservations r
			   LEFT JOIN hotels h ON h.id = r.hotel_id
			   WHERE r.hotel_id = ?
			   ORDER BY r.start_date, r.created_at`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDetails(rows)
}

// collectDetails scans joined reservation rows into detail structs,
// formatting dates at day granularity and timestamps as RFC3339-like
// strings for JSON output.
func collectDetails(rows *sql.Rows) ([]ReservationDetail, error) {
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var hotelID sql.NullInt64
		var hotelName sql.NullString
		var start, end, created sql.NullTime
		if err := rows.Scan(&d.ID, &d.RefCode, &hotelID, &hotelName, &start, &end, &d.PeopleCount, &d.Status, &created); err != nil {
			return nil, err
		}
		if hotelID.Valid {
			hid := uint64(hotelID.Int64)
			d.HotelID = &hid
		}
		if hotelName.Valid {
			hn := hotelName.String
			d.HotelName = &hn
		}
		if start.Valid {
			d.StartDate = start.Time.UTC().Format("2006-01-02")
		}
		if end.Valid {
			d.EndDate = end.Time.UTC().Format("2006-01-02")
		}
		if created.Valid {
			d.CreatedAt = created.Time.UTC().Format("2006-01-02T15:04:05Z")
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
