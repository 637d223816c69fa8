package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	queuepublisher "github.com/iliyamo/hotel-reservation/internal/service"
)

const dateLayout = "2006-01-02"

// CreateReservation handles POST /v1/reservations.  The body carries
// the stay dates at day granularity, the guest count and optionally a
// hotel ID and an initial status.  A missing status field means "not
// set" and defaults to PENDING inside the engine; an unknown status
// string is rejected.  On success it returns 201 with the stored
// reservation; a saturated day returns 409 naming the first day with
// no free rooms.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		HotelID     *uint64 `json:"hotel_id"`
		StartDate   string  `json:"start_date"`
		EndDate     string  `json:"end_date"`
		PeopleCount int     `json:"people_count"`
		Status      *string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := time.Parse(dateLayout, body.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := time.Parse(dateLayout, body.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}
	in := booking.CreateInput{
		HotelID:     body.HotelID,
		UserID:      userID,
		StartDate:   start,
		EndDate:     end,
		PeopleCount: body.PeopleCount,
	}
	if body.Status != nil {
		in.Status = model.ReservationStatus(*body.Status)
	}
	res, err := h.Engine.CreateReservation(c.Request().Context(), in)
	if err != nil {
		return reservationError(c, err)
	}
	if res.Status == model.StatusConfirmed {
		h.publishConfirmed(res)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": reservationJSON(res)})
}

// ChangeStatus handles PATCH /v1/reservations/:id/status.  The target
// status must be one of the known enumeration values; the transition
// guard decides whether the move is legal.  Requesting the current
// status is a no-op success.
func (h *ReservationHandler) ChangeStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil || body.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}
	ctx := c.Request().Context()
	// Ownership check before touching the lifecycle; a foreign
	// reservation is indistinguishable from a missing one.
	prev, err := h.ReservationRepo.GetByIDForUser(ctx, resID, userID)
	if err != nil {
		return reservationError(c, err)
	}
	res, err := h.Engine.ChangeStatus(ctx, resID, model.ReservationStatus(body.Status))
	if err != nil {
		return reservationError(c, err)
	}
	if prev.Status != model.StatusConfirmed && res.Status == model.StatusConfirmed {
		h.publishConfirmed(res)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": reservationJSON(res)})
}

// CancelReservation handles DELETE /v1/reservations/:id.  Deleting a
// reservation means cancelling it: the row survives with status
// CANCELLED and stops counting against hotel inventory.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	if _, err := h.ReservationRepo.GetByIDForUser(ctx, resID, userID); err != nil {
		return reservationError(c, err)
	}
	res, err := h.Engine.Cancel(ctx, resID)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": reservationJSON(res)})
}

// GetReservation handles GET /v1/reservations/:id for the
// authenticated user.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.ReservationRepo.GetByIDForUser(c.Request().Context(), resID, userID)
	if err != nil {
		return reservationError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": reservationJSON(res)})
}

// ListReservations handles GET /v1/my-reservations.  It returns all
// reservations created by the current user, newest first, with hotel
// names resolved.  When none exist it returns an empty array.
func (h *ReservationHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.ReservationRepo.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// publishConfirmed emits a reservation.confirmed event.  Publishing is
// best-effort and runs off the request goroutine; a broker outage
// never fails the booking itself.
func (h *ReservationHandler) publishConfirmed(res *model.Reservation) {
	ev := queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		RefCode:       res.RefCode,
		UserID:        res.UserID,
		HotelID:       res.HotelID,
		StartDate:     res.StartDate.Format(dateLayout),
		EndDate:       res.EndDate.Format(dateLayout),
		PeopleCount:   res.PeopleCount,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if res.HotelID != nil {
		if hotel, err := h.HotelRepo.GetByID(context.Background(), *res.HotelID); err == nil {
			ev.HotelName = hotel.Name
		}
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queuepublisher.PublishReservationConfirmed(ctx, ev); err != nil {
			log.Printf("reservation %d: confirm event not published: %v", res.ID, err)
		}
	}()
}

// reservationJSON shapes a reservation for API responses.
func reservationJSON(res *model.Reservation) echo.Map {
	m := echo.Map{
		"id":           res.ID,
		"ref_code":     res.RefCode,
		"start_date":   res.StartDate.Format(dateLayout),
		"end_date":     res.EndDate.Format(dateLayout),
		"people_count": res.PeopleCount,
		"status":       string(res.Status),
		"created_at":   res.CreatedAt.UTC().Format(time.RFC3339),
	}
	if res.HotelID != nil {
		m["hotel_id"] = *res.HotelID
	}
	return m
}

// reservationError maps booking errors onto HTTP responses.
// Validation mistakes are 400, missing resources 404 and business
// conflicts 409 with enough detail for a precise client message.
func reservationError(c echo.Context, err error) error {
	var noRooms *booking.NoRoomsError
	var illegal *booking.TransitionError
	switch {
	case errors.Is(err, booking.ErrInvalidRange),
		errors.Is(err, booking.ErrPastDate),
		errors.Is(err, booking.ErrStayTooLong),
		errors.Is(err, booking.ErrInvalidPeopleCount),
		errors.Is(err, booking.ErrUnknownStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrHotelNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	case errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.As(err, &noRooms):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":         "no rooms available",
			"conflict_date": noRooms.Date.Format(dateLayout),
		})
	case errors.As(err, &illegal):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "illegal status transition",
			"from":  string(illegal.From),
			"to":    string(illegal.To),
		})
	case errors.Is(err, booking.ErrConcurrentUpdate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation was updated concurrently, retry"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
