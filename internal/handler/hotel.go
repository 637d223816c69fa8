package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// occupancyHorizonDays caps the span of an occupancy report so the
// per-day count stays bounded.
const occupancyHorizonDays = 366

// CreateHotel handles POST /v1/hotels.  Owners register a property
// with its room count; total_rooms is the per-day ceiling the booking
// engine enforces and must be positive.
func (h *HotelHandler) CreateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		TotalRooms  int     `json:"total_rooms"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" || body.TotalRooms <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a positive total_rooms are required"})
	}
	var desc *string
	if body.Description != nil && strings.TrimSpace(*body.Description) != "" {
		d := strings.TrimSpace(*body.Description)
		desc = &d
	}
	hotel := &model.Hotel{
		OwnerID:     ownerID,
		Name:        name,
		Description: desc,
		TotalRooms:  body.TotalRooms,
	}
	if err := h.HotelRepo.Create(c.Request().Context(), hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hotel"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": hotel})
}

// UpdateHotel handles PATCH /v1/hotels/:id.  Owners may rename the
// hotel, change its description, resize its room count or toggle its
// active flag.  Shrinking total_rooms does not cancel existing
// reservations; it only tightens future availability checks (and
// confirmation re-checks).
func (h *HotelHandler) UpdateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, booking.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		TotalRooms  *int    `json:"total_rooms"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
		hotel.Name = name
	}
	if body.Description != nil {
		d := strings.TrimSpace(*body.Description)
		if d == "" {
			hotel.Description = nil
		} else {
			hotel.Description = &d
		}
	}
	if body.TotalRooms != nil {
		if *body.TotalRooms <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_rooms must be positive"})
		}
		hotel.TotalRooms = *body.TotalRooms
	}
	if body.IsActive != nil {
		hotel.IsActive = *body.IsActive
	}
	if err := h.HotelRepo.Update(ctx, hotel); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update hotel"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": hotel})
}

// GetHotel handles GET /v1/hotels/:id.  Public; no authentication.
func (h *HotelHandler) GetHotel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	hotel, err := h.HotelRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": hotel})
}

// ListHotels handles GET /v1/hotels.  Public; returns active hotels.
func (h *HotelHandler) ListHotels(c echo.Context) error {
	hotels, err := h.HotelRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": hotels})
}

// ListHotelReservations handles GET /v1/hotels/:id/reservations for
// the hotel's owner.  It returns all reservations, cancelled included,
// ordered by check-in day.
func (h *HotelHandler) ListHotelReservations(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	details, err := h.ReservationRepo.ListByHotelForOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		if errors.Is(err, booking.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// HotelOccupancy handles GET /v1/hotels/:id/occupancy?from=&to=.
// Public; it reports the number of occupied rooms for every day in
// [from, to) along with the hotel's capacity, so clients can render a
// calendar of free days.
func (h *HotelHandler) HotelOccupancy(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	from, err := time.Parse("2006-01-02", c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be YYYY-MM-DD"})
	}
	to, err := time.Parse("2006-01-02", c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be YYYY-MM-DD"})
	}
	if !from.Before(to) || to.Sub(from) > occupancyHorizonDays*24*time.Hour {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report range"})
	}
	ctx := c.Request().Context()
	hotel, err := h.HotelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrHotelNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	existing, err := h.ReservationRepo.ActiveByHotel(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	days := booking.OccupancyByDay(from, to, existing)
	return c.JSON(http.StatusOK, echo.Map{
		"hotel_id":    hotel.ID,
		"total_rooms": hotel.TotalRooms,
		"days":        days,
	})
}
