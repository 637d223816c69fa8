package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// recordingHook counts decision events so tests can assert that the
// engine reports what it did.
type recordingHook struct {
	mu        sync.Mutex
	checks    int
	conflicts int
	changes   []string
}

func (r *recordingHook) AvailabilityChecked(hotelID uint64, start, end time.Time, ok bool, conflict time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks++
	if !ok {
		r.conflicts++
	}
}

func (r *recordingHook) StatusChanged(reservationID uint64, from, to model.ReservationStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, string(from)+"->"+string(to))
}

// flakyStore wraps a ReservationStore and fails UpdateStatus with
// ErrVersionConflict a fixed number of times before delegating.
type flakyStore struct {
	ReservationStore
	failures int
}

func (f *flakyStore) UpdateStatus(ctx context.Context, id uint64, from, to model.ReservationStatus) (*model.Reservation, error) {
	if f.failures > 0 {
		f.failures--
		return nil, ErrVersionConflict
	}
	return f.ReservationStore.UpdateStatus(ctx, id, from, to)
}

func newTestEngine(t *testing.T, rooms int) (*Engine, *MemStore, *recordingHook) {
	t.Helper()
	store := NewMemStore()
	store.PutHotel(1, rooms)
	hook := &recordingHook{}
	eng := NewEngine(store, store, fixedClock{now: date(2025, time.January, 1)})
	eng.Recorder = hook
	return eng, store, hook
}

func hotelRef(id uint64) *uint64 { return &id }

func TestCreateReservationDefaults(t *testing.T) {
	eng, _, _ := newTestEngine(t, 5)

	res, err := eng.CreateReservation(context.Background(), CreateInput{
		HotelID:     hotelRef(1),
		UserID:      42,
		StartDate:   time.Date(2025, time.January, 10, 16, 30, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.January, 15, 11, 0, 0, 0, time.UTC),
		PeopleCount: 2,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
	if res.Status != model.StatusPending {
		t.Errorf("status = %s, want %s when omitted", res.Status, model.StatusPending)
	}
	if res.RefCode == "" {
		t.Error("RefCode is empty")
	}
	if !res.StartDate.Equal(date(2025, time.January, 10)) || !res.EndDate.Equal(date(2025, time.January, 15)) {
		t.Errorf("dates not truncated to midnight: %v .. %v", res.StartDate, res.EndDate)
	}
	if res.ID == 0 {
		t.Error("reservation was not assigned an id")
	}
}

func TestCreateReservationStatusHandling(t *testing.T) {
	tests := []struct {
		name       string
		status     model.ReservationStatus
		wantStatus model.ReservationStatus
		wantErr    error
	}{
		{name: "explicit confirmed", status: model.StatusConfirmed, wantStatus: model.StatusConfirmed},
		{name: "explicit pending", status: model.StatusPending, wantStatus: model.StatusPending},
		{name: "unknown status", status: "ABANDONED", wantErr: ErrUnknownStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, _, _ := newTestEngine(t, 5)
			res, err := eng.CreateReservation(context.Background(), CreateInput{
				HotelID:     hotelRef(1),
				UserID:      1,
				StartDate:   date(2025, time.January, 10),
				EndDate:     date(2025, time.January, 12),
				PeopleCount: 1,
				Status:      tt.status,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateReservation() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && res.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", res.Status, tt.wantStatus)
			}
		})
	}
}

func TestCreateReservationHotelNotFound(t *testing.T) {
	eng, _, _ := newTestEngine(t, 1)

	_, err := eng.CreateReservation(context.Background(), CreateInput{
		HotelID:     hotelRef(99),
		UserID:      1,
		StartDate:   date(2025, time.January, 10),
		EndDate:     date(2025, time.January, 12),
		PeopleCount: 1,
	})
	if !errors.Is(err, ErrHotelNotFound) {
		t.Errorf("CreateReservation() error = %v, want %v", err, ErrHotelNotFound)
	}
}

func TestCreateReservationWithoutHotel(t *testing.T) {
	// A reservation with no resolved hotel skips the inventory check.
	eng, _, hook := newTestEngine(t, 1)

	res, err := eng.CreateReservation(context.Background(), CreateInput{
		UserID:      7,
		StartDate:   date(2025, time.January, 10),
		EndDate:     date(2025, time.January, 12),
		PeopleCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
	if res.HotelID != nil {
		t.Errorf("HotelID = %v, want nil", *res.HotelID)
	}
	if hook.checks != 0 {
		t.Errorf("availability checks = %d, want 0", hook.checks)
	}
}

func TestCreateReservationConflict(t *testing.T) {
	eng, _, hook := newTestEngine(t, 1)
	ctx := context.Background()

	if _, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 15),
		PeopleCount: 1, Status: model.StatusConfirmed,
	}); err != nil {
		t.Fatalf("first CreateReservation() error = %v", err)
	}

	_, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 2,
		StartDate: date(2025, time.January, 12), EndDate: date(2025, time.January, 18),
		PeopleCount: 1,
	})
	var noRooms *NoRoomsError
	if !errors.As(err, &noRooms) {
		t.Fatalf("CreateReservation() error = %v, want *NoRoomsError", err)
	}
	if !noRooms.Date.Equal(date(2025, time.January, 12)) {
		t.Errorf("conflict date = %v, want 2025-01-12", noRooms.Date)
	}
	if hook.conflicts != 1 {
		t.Errorf("recorded conflicts = %d, want 1", hook.conflicts)
	}
}

func TestCreateCancelledSkipsAvailability(t *testing.T) {
	// Importing an already-cancelled reservation must not consume a
	// room or fail when the hotel is full.
	eng, _, hook := newTestEngine(t, 1)
	ctx := context.Background()

	if _, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 15),
		PeopleCount: 1, Status: model.StatusConfirmed,
	}); err != nil {
		t.Fatalf("setup CreateReservation() error = %v", err)
	}

	checksBefore := hook.checks
	res, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 2,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 15),
		PeopleCount: 1, Status: model.StatusCancelled,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
	if res.Status != model.StatusCancelled {
		t.Errorf("status = %s, want %s", res.Status, model.StatusCancelled)
	}
	if hook.checks != checksBefore {
		t.Errorf("availability was checked for a cancelled insert")
	}
}

func TestCreateReservationCancelledContext(t *testing.T) {
	eng, store, _ := newTestEngine(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 12),
		PeopleCount: 1,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("CreateReservation() error = %v, want context.Canceled", err)
	}
	active, _ := store.ActiveByHotel(context.Background(), 1)
	if len(active) != 0 {
		t.Errorf("store holds %d reservations after aborted create, want 0", len(active))
	}
}

func TestChangeStatusConfirm(t *testing.T) {
	eng, _, hook := newTestEngine(t, 1)
	ctx := context.Background()

	res, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 12),
		PeopleCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}

	got, err := eng.ChangeStatus(ctx, res.ID, model.StatusConfirmed)
	if err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	if got.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want %s", got.Status, model.StatusConfirmed)
	}
	if len(hook.changes) != 1 || hook.changes[0] != "PENDING->CONFIRMED" {
		t.Errorf("recorded changes = %v, want [PENDING->CONFIRMED]", hook.changes)
	}

	// Confirming again is an idempotent no-op, not an error and not a
	// second recorded change.
	again, err := eng.ChangeStatus(ctx, res.ID, model.StatusConfirmed)
	if err != nil {
		t.Fatalf("repeat ChangeStatus() error = %v", err)
	}
	if again.Status != model.StatusConfirmed {
		t.Errorf("repeat status = %s, want %s", again.Status, model.StatusConfirmed)
	}
	if len(hook.changes) != 1 {
		t.Errorf("recorded changes = %v, want exactly one", hook.changes)
	}
}

func TestChangeStatusValidation(t *testing.T) {
	eng, _, _ := newTestEngine(t, 1)
	ctx := context.Background()

	if _, err := eng.ChangeStatus(ctx, 1, "NONSENSE"); !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("ChangeStatus(unknown) error = %v, want %v", err, ErrUnknownStatus)
	}
	if _, err := eng.ChangeStatus(ctx, 999, model.StatusConfirmed); !errors.Is(err, ErrReservationNotFound) {
		t.Errorf("ChangeStatus(missing) error = %v, want %v", err, ErrReservationNotFound)
	}
}

func TestChangeStatusIllegalTransition(t *testing.T) {
	eng, _, _ := newTestEngine(t, 1)
	ctx := context.Background()

	res, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 12),
		PeopleCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}
	if _, err := eng.Cancel(ctx, res.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	_, err = eng.ChangeStatus(ctx, res.ID, model.StatusConfirmed)
	var terr *TransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("ChangeStatus() error = %v, want *TransitionError", err)
	}
	if terr.From != model.StatusCancelled || terr.To != model.StatusConfirmed {
		t.Errorf("TransitionError = %s -> %s, want CANCELLED -> CONFIRMED", terr.From, terr.To)
	}
}

func TestConfirmRevalidatesAfterInventoryShrink(t *testing.T) {
	eng, store, _ := newTestEngine(t, 1)
	ctx := context.Background()

	res, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 12),
		PeopleCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}

	// The owner takes the last room out of service before the guest
	// confirms.
	store.PutHotel(1, 0)

	_, err = eng.ChangeStatus(ctx, res.ID, model.StatusConfirmed)
	var noRooms *NoRoomsError
	if !errors.As(err, &noRooms) {
		t.Fatalf("ChangeStatus() error = %v, want *NoRoomsError", err)
	}

	// The reservation itself does not block its own confirmation when
	// capacity is restored.
	store.PutHotel(1, 1)
	if _, err := eng.ChangeStatus(ctx, res.ID, model.StatusConfirmed); err != nil {
		t.Fatalf("ChangeStatus() after restore error = %v", err)
	}
}

func TestCancelFreesCapacity(t *testing.T) {
	eng, _, _ := newTestEngine(t, 1)
	ctx := context.Background()

	first, err := eng.CreateReservation(ctx, CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 15),
		PeopleCount: 1, Status: model.StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}

	blocked := CreateInput{
		HotelID: hotelRef(1), UserID: 2,
		StartDate: date(2025, time.January, 11), EndDate: date(2025, time.January, 14),
		PeopleCount: 1,
	}
	var noRooms *NoRoomsError
	if _, err := eng.CreateReservation(ctx, blocked); !errors.As(err, &noRooms) {
		t.Fatalf("CreateReservation() error = %v, want *NoRoomsError", err)
	}

	if _, err := eng.Cancel(ctx, first.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if _, err := eng.CreateReservation(ctx, blocked); err != nil {
		t.Errorf("CreateReservation() after cancel error = %v", err)
	}
}

func TestChangeStatusRetriesVersionConflicts(t *testing.T) {
	store := NewMemStore()
	store.PutHotel(1, 1)
	flaky := &flakyStore{ReservationStore: store, failures: 2}
	eng := NewEngine(store, flaky, fixedClock{now: date(2025, time.January, 1)})

	res, err := eng.CreateReservation(context.Background(), CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 12),
		PeopleCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}

	// Two lost races fit inside the retry budget.
	if _, err := eng.ChangeStatus(context.Background(), res.ID, model.StatusConfirmed); err != nil {
		t.Errorf("ChangeStatus() error = %v, want success after retries", err)
	}
}

func TestChangeStatusGivesUpAfterRetries(t *testing.T) {
	store := NewMemStore()
	store.PutHotel(1, 1)
	flaky := &flakyStore{ReservationStore: store, failures: statusRetries}
	eng := NewEngine(store, flaky, fixedClock{now: date(2025, time.January, 1)})

	res, err := eng.CreateReservation(context.Background(), CreateInput{
		HotelID: hotelRef(1), UserID: 1,
		StartDate: date(2025, time.January, 10), EndDate: date(2025, time.January, 12),
		PeopleCount: 1,
	})
	if err != nil {
		t.Fatalf("CreateReservation() error = %v", err)
	}

	if _, err := eng.ChangeStatus(context.Background(), res.ID, model.StatusConfirmed); !errors.Is(err, ErrConcurrentUpdate) {
		t.Errorf("ChangeStatus() error = %v, want %v", err, ErrConcurrentUpdate)
	}
}

func TestConcurrentCreatesNeverOverbook(t *testing.T) {
	const rooms = 3
	const attempts = 10

	eng, store, _ := newTestEngine(t, rooms)
	in := CreateInput{
		HotelID:     hotelRef(1),
		StartDate:   date(2025, time.January, 10),
		EndDate:     date(2025, time.January, 15),
		PeopleCount: 2,
		Status:      model.StatusConfirmed,
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := in
			req.UserID = uint64(i + 1)
			_, errs[i] = eng.CreateReservation(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded, conflicted := 0, 0
	for _, err := range errs {
		var noRooms *NoRoomsError
		switch {
		case err == nil:
			succeeded++
		case errors.As(err, &noRooms):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != rooms {
		t.Errorf("successes = %d, want exactly %d", succeeded, rooms)
	}
	if conflicted != attempts-rooms {
		t.Errorf("conflicts = %d, want %d", conflicted, attempts-rooms)
	}

	active, _ := store.ActiveByHotel(context.Background(), 1)
	if len(active) != rooms {
		t.Errorf("store holds %d active reservations, want %d", len(active), rooms)
	}
}
