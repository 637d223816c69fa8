package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// ReservationHandler exposes the reservation lifecycle to customers.
// All writes go through the booking engine; the handler only binds
// requests, enforces ownership and maps engine errors to HTTP codes.
// Methods assume JWT authentication and role validation have already
// been performed by middleware.
type ReservationHandler struct {
	Engine          *booking.Engine
	ReservationRepo *repository.ReservationRepo
	HotelRepo       *repository.HotelRepo
}

// NewReservationHandler constructs a ReservationHandler.  All
// dependencies must be non-nil.
func NewReservationHandler(engine *booking.Engine, resRepo *repository.ReservationRepo, hotelRepo *repository.HotelRepo) *ReservationHandler {
	if engine == nil || resRepo == nil || hotelRepo == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine, ReservationRepo: resRepo, HotelRepo: hotelRepo}
}

// HotelHandler exposes hotel inventory management to owners and
// read-only hotel views to the public.
type HotelHandler struct {
	HotelRepo       *repository.HotelRepo
	ReservationRepo *repository.ReservationRepo
}

// NewHotelHandler constructs a HotelHandler.  All dependencies must be
// non-nil.
func NewHotelHandler(hotelRepo *repository.HotelRepo, resRepo *repository.ReservationRepo) *HotelHandler {
	if hotelRepo == nil || resRepo == nil {
		panic("nil dependency passed to NewHotelHandler")
	}
	return &HotelHandler{HotelRepo: hotelRepo, ReservationRepo: resRepo}
}

// getUserID extracts the user_id placed in context by the JWT
// middleware and converts it to uint64.  JWT numeric claims arrive as
// float64 after JSON decoding, hence the type switch.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
