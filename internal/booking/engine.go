package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// InventoryProvider supplies the room count for a hotel.  It returns
// ErrHotelNotFound when the hotel does not exist.
type InventoryProvider interface {
	RoomCount(ctx context.Context, hotelID uint64) (int, error)
}

// ReservationStore persists reservations.  Implementations must
// return committed state from ActiveByHotel: the engine serializes the
// check-and-insert sequence per hotel, and a store that returns stale
// reads from inside that critical section would reintroduce the
// overbooking race.
//
// UpdateStatus is compare-and-set: it applies the new status only when
// the row still carries the expected previous status, returning
// ErrVersionConflict otherwise and ErrReservationNotFound when the row
// does not exist.
type ReservationStore interface {
	ActiveByHotel(ctx context.Context, hotelID uint64) ([]model.Reservation, error)
	Insert(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.ReservationStatus) (*model.Reservation, error)
}

// DecisionRecorder is an optional observability hook.  The engine
// reports availability decisions and status changes through it; the
// hook carries no control flow and a nil recorder disables it.
type DecisionRecorder interface {
	AvailabilityChecked(hotelID uint64, start, end time.Time, ok bool, conflict time.Time)
	StatusChanged(reservationID uint64, from, to model.ReservationStatus)
}

// statusRetries bounds automatic retries of compare-and-set status
// updates before the failure surfaces as ErrConcurrentUpdate.
const statusRetries = 3

// Engine orchestrates the reservation lifecycle.  It is the only
// writer of reservation state; write paths that bypass it can silently
// violate the per-day inventory invariant.
type Engine struct {
	inv   InventoryProvider
	store ReservationStore
	clock Clock
	locks *hotelLocks

	// MaxStayDays bounds the length of a stay in nights; zero
	// disables the bound.
	MaxStayDays int

	// Recorder receives decision events when non-nil.
	Recorder DecisionRecorder
}

// NewEngine constructs an Engine.  Inventory and store must be
// non-nil; a nil clock falls back to the real clock.
func NewEngine(inv InventoryProvider, store ReservationStore, clock Clock) *Engine {
	if inv == nil || store == nil {
		panic("nil dependency passed to NewEngine")
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &Engine{inv: inv, store: store, clock: clock, locks: newHotelLocks()}
}

// CreateInput carries a candidate reservation.  Status is an explicit
// optional: the empty string means "not set" and defaults to PENDING,
// so the enumeration's values can never be confused with absence.
type CreateInput struct {
	HotelID     *uint64
	UserID      uint64
	StartDate   time.Time
	EndDate     time.Time
	PeopleCount int
	Status      model.ReservationStatus
}

// CreateReservation validates the candidate stay, checks hotel
// availability and persists the reservation.  For stays with a
// resolved hotel the availability check and the insert run inside that
// hotel's critical section, so two concurrent requests for the last
// room cannot both succeed.  Stays without a hotel (unresolved
// packages) skip the inventory check entirely.
//
// A cancelled context aborts before the insert; no partial state is
// left behind.
func (e *Engine) CreateReservation(ctx context.Context, in CreateInput) (*model.Reservation, error) {
	today := e.clock.Now()
	if err := ValidateStay(in.StartDate, in.EndDate, today); err != nil {
		return nil, err
	}
	if err := ValidateStayLength(in.StartDate, in.EndDate, e.MaxStayDays); err != nil {
		return nil, err
	}
	if err := ValidateGuests(in.PeopleCount); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = model.StatusPending
	} else if _, ok := model.ParseStatus(string(status)); !ok {
		return nil, ErrUnknownStatus
	}

	res := &model.Reservation{
		RefCode:     uuid.NewString(),
		HotelID:     in.HotelID,
		UserID:      in.UserID,
		StartDate:   DateOnly(in.StartDate),
		EndDate:     DateOnly(in.EndDate),
		PeopleCount: in.PeopleCount,
		Status:      status,
		CreatedAt:   e.clock.Now(),
	}

	if in.HotelID != nil && status != model.StatusCancelled {
		lock := e.locks.get(*in.HotelID)
		lock.Lock()
		defer lock.Unlock()

		rooms, err := e.inv.RoomCount(ctx, *in.HotelID)
		if err != nil {
			return nil, err
		}
		existing, err := e.store.ActiveByHotel(ctx, *in.HotelID)
		if err != nil {
			return nil, err
		}
		ok, conflict := CheckAvailability(res.StartDate, res.EndDate, rooms, existing)
		if e.Recorder != nil {
			e.Recorder.AvailabilityChecked(*in.HotelID, res.StartDate, res.EndDate, ok, conflict)
		}
		if !ok {
			return nil, &NoRoomsError{Date: conflict}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.store.Insert(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ChangeStatus moves a reservation to a new status under the
// transition guard.  A request for the current status is a no-op
// success.  PENDING -> CONFIRMED re-validates availability under the
// hotel's critical section, since capacity may have shrunk between
// creation and confirmation.  Lost compare-and-set races are retried a
// bounded number of times before surfacing as ErrConcurrentUpdate.
func (e *Engine) ChangeStatus(ctx context.Context, id uint64, to model.ReservationStatus) (*model.Reservation, error) {
	if _, ok := model.ParseStatus(string(to)); !ok {
		return nil, ErrUnknownStatus
	}
	for attempt := 0; attempt < statusRetries; attempt++ {
		res, err := e.tryChangeStatus(ctx, id, to)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return res, nil
	}
	return nil, ErrConcurrentUpdate
}

// Cancel is shorthand for a transition into CANCELLED.
func (e *Engine) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	return e.ChangeStatus(ctx, id, model.StatusCancelled)
}

// tryChangeStatus performs one load-guard-update round.  A
// same-status request returns the current row without writing.
func (e *Engine) tryChangeStatus(ctx context.Context, id uint64, to model.ReservationStatus) (*model.Reservation, error) {
	cur, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	write, err := GuardTransition(cur.Status, to)
	if err != nil {
		return nil, err
	}
	if !write {
		return cur, nil
	}

	// Confirmation re-checks availability: the pending row already
	// counts toward occupancy, so it is excluded from its own check.
	// Moves into CANCELLED only free capacity and skip the check.
	if cur.Status == model.StatusPending && to == model.StatusConfirmed && cur.HotelID != nil {
		lock := e.locks.get(*cur.HotelID)
		lock.Lock()
		defer lock.Unlock()

		rooms, err := e.inv.RoomCount(ctx, *cur.HotelID)
		if err != nil {
			return nil, err
		}
		existing, err := e.store.ActiveByHotel(ctx, *cur.HotelID)
		if err != nil {
			return nil, err
		}
		others := existing[:0:0]
		for _, r := range existing {
			if r.ID != cur.ID {
				others = append(others, r)
			}
		}
		ok, conflict := CheckAvailability(cur.StartDate, cur.EndDate, rooms, others)
		if e.Recorder != nil {
			e.Recorder.AvailabilityChecked(*cur.HotelID, cur.StartDate, cur.EndDate, ok, conflict)
		}
		if !ok {
			return nil, &NoRoomsError{Date: conflict}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := e.store.UpdateStatus(ctx, id, cur.Status, to)
	if err != nil {
		return nil, err
	}
	if e.Recorder != nil {
		e.Recorder.StatusChanged(res.ID, cur.Status, to)
	}
	return res, nil
}
