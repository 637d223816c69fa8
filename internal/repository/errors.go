// Package repository implements MySQL-backed persistence for hotels
// and reservations.  Sentinel values shared between repositories live
// here; not-found errors tied to one table sit next to their
// repository.  The reservation repository is also the booking
// engine's store adapter, so lifecycle-relevant failures (not found,
// version conflict) are reported with the booking package's
// sentinels rather than package-local ones.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else. Handlers should translate this into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")
