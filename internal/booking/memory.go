package booking

import (
	"context"
	"sync"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// MemStore is an in-memory InventoryProvider and ReservationStore.
// It backs the engine's tests and is usable as-is for single-process
// deployments; the MySQL repository replaces it in production.
type MemStore struct {
	mu      sync.RWMutex
	nextID  uint64
	rooms   map[uint64]int
	byID    map[uint64]*model.Reservation
	byHotel map[uint64][]uint64
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		rooms:   make(map[uint64]int),
		byID:    make(map[uint64]*model.Reservation),
		byHotel: make(map[uint64][]uint64),
	}
}

// PutHotel registers or updates a hotel's room count.
func (m *MemStore) PutHotel(hotelID uint64, totalRooms int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[hotelID] = totalRooms
}

// RoomCount implements InventoryProvider.
func (m *MemStore) RoomCount(ctx context.Context, hotelID uint64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.rooms[hotelID]
	if !ok {
		return 0, ErrHotelNotFound
	}
	return n, nil
}

// ActiveByHotel implements ReservationStore.  It returns copies of all
// non-cancelled reservations for the hotel.
func (m *MemStore) ActiveByHotel(ctx context.Context, hotelID uint64) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Reservation, 0)
	for _, id := range m.byHotel[hotelID] {
		r := m.byID[id]
		if r.Status == model.StatusCancelled {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

// Insert implements ReservationStore, assigning the next ID.
func (m *MemStore) Insert(ctx context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	cp := *r
	m.byID[r.ID] = &cp
	if r.HotelID != nil {
		m.byHotel[*r.HotelID] = append(m.byHotel[*r.HotelID], r.ID)
	}
	return nil
}

// GetByID implements ReservationStore.
func (m *MemStore) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

// UpdateStatus implements ReservationStore with compare-and-set
// semantics on the previous status.
func (m *MemStore) UpdateStatus(ctx context.Context, id uint64, from, to model.ReservationStatus) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if r.Status != from {
		return nil, ErrVersionConflict
	}
	r.Status = to
	cp := *r
	return &cp, nil
}
