package booking

import "sync"

// hotelLocks hands out one mutex per hotel so that "check availability
// then insert" runs as a single critical section for that hotel while
// unrelated hotels proceed in parallel.  The inventory invariant is
// scoped per hotel, so per-hotel serialization is sufficient.  Lock
// entries are never removed; the set of hotels a single process
// touches is small and bounded.
type hotelLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newHotelLocks() *hotelLocks {
	return &hotelLocks{locks: make(map[uint64]*sync.Mutex)}
}

// get returns the mutex for a hotel, creating it on first use.
func (h *hotelLocks) get(hotelID uint64) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.locks[hotelID]
	if !ok {
		l = &sync.Mutex{}
		h.locks[hotelID] = l
	}
	return l
}
