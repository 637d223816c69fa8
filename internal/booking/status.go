package booking

import "github.com/iliyamo/hotel-reservation/internal/model"

// transitions is the full set of legal status moves.  Adding a state
// means adding one entry here; nothing else in the package branches on
// concrete statuses.  CANCELLED has no entry because it is terminal.
var transitions = map[model.ReservationStatus][]model.ReservationStatus{
	model.StatusPending:   {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed: {model.StatusCancelled},
}

// CanTransition reports whether a reservation may move from one status
// to another.  A same-status move is not listed in the table; callers
// that want idempotent status changes must short-circuit it before
// consulting the guard (GuardTransition does so).
func CanTransition(from, to model.ReservationStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// GuardTransition validates a requested status change.  It returns
// (true, nil) when the move is legal and requires a write, (false, nil)
// when from == to (a no-op for the caller), and a *TransitionError when
// the table forbids the move.
func GuardTransition(from, to model.ReservationStatus) (bool, error) {
	if from == to {
		return false, nil
	}
	if !CanTransition(from, to) {
		return false, &TransitionError{From: from, To: to}
	}
	return true, nil
}
