package booking

import (
	"sort"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// CheckAvailability decides whether a hotel with totalRooms rooms has a
// free room on every day of the candidate stay [start, end), given the
// hotel's existing reservations.  Cancelled reservations never occupy a
// room.  Both the candidate and existing stays use half-open ranges, so
// a reservation ending on day X and another starting on day X do not
// conflict.
//
// The check runs an event sweep rather than a per-day count: each
// existing reservation contributes +1 at its (clipped) start and -1 at
// its (clipped) end, and a prefix sum over the sorted boundary days
// yields the occupancy on every sub-interval of the candidate range.
// Occupancy only rises on boundary days, so the first saturated day is
// always a boundary day, which keeps the scan O(n log n) in the number
// of overlapping reservations regardless of stay length.
//
// On success ok is true and conflictDate is the zero time.  On failure
// conflictDate is the first day whose occupancy already equals or
// exceeds totalRooms.
func CheckAvailability(start, end time.Time, totalRooms int, existing []model.Reservation) (ok bool, conflictDate time.Time) {
	start, end = DateOnly(start), DateOnly(end)
	if totalRooms <= 0 {
		// A hotel with no rooms is saturated from the first night.
		return false, start
	}
	deltas := make(map[time.Time]int)
	for _, r := range existing {
		if r.Status == model.StatusCancelled {
			continue
		}
		s, e := DateOnly(r.StartDate), DateOnly(r.EndDate)
		if s.Before(start) {
			s = start
		}
		if e.After(end) {
			e = end
		}
		if !s.Before(e) {
			continue // no overlap with the candidate range
		}
		deltas[s]++
		deltas[e]--
	}
	if len(deltas) == 0 {
		return true, time.Time{}
	}
	days := make([]time.Time, 0, len(deltas))
	for d := range deltas {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	occupied := 0
	for _, d := range days {
		occupied += deltas[d]
		if d.Before(end) && occupied >= totalRooms {
			return false, d
		}
	}
	return true, time.Time{}
}

// DayOccupancy is one row of an occupancy report: how many rooms are
// taken on a given day.
type DayOccupancy struct {
	Date     time.Time `json:"date"`
	Occupied int       `json:"occupied"`
}

// OccupancyByDay reports the number of occupied rooms for every day in
// [start, end).  It uses the straightforward per-day count; report
// horizons are bounded by the caller so the O(days x reservations)
// cost is acceptable.
func OccupancyByDay(start, end time.Time, existing []model.Reservation) []DayOccupancy {
	start, end = DateOnly(start), DateOnly(end)
	out := make([]DayOccupancy, 0)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		n := 0
		for _, r := range existing {
			if r.Status == model.StatusCancelled {
				continue
			}
			if !DateOnly(r.StartDate).After(d) && d.Before(DateOnly(r.EndDate)) {
				n++
			}
		}
		out = append(out, DayOccupancy{Date: d, Occupied: n})
	}
	return out
}
