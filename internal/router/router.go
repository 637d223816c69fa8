// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers and
// monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers unauthenticated browse endpoints: the hotel
// list, hotel details and the per-day occupancy report.  Responses are
// cached in Redis when a client is available; rate limiting applies to
// the whole group.
func RegisterPublic(e *echo.Echo, h *handler.HotelHandler, rdb *redis.Client) {
	g := e.Group("/v1",
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)
	g.GET("/hotels", h.ListHotels)
	g.GET("/hotels/:id", h.GetHotel)
	g.GET("/hotels/:id/occupancy", h.HotelOccupancy)
}

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers create
// reservations, inspect and list their own, change their status and
// cancel them; every write goes through the booking engine.
func RegisterCustomer(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1",
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	g.POST("/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListReservations)
	g.GET("/reservations/:id", h.GetReservation)
	g.PATCH("/reservations/:id/status", h.ChangeStatus)
	g.DELETE("/reservations/:id", h.CancelReservation)
}

// RegisterOwner registers owner-scoped endpoints under /v1.  Owners
// manage hotel inventory facts and inspect the reservations booked
// against their properties.
func RegisterOwner(e *echo.Echo, h *handler.HotelHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1",
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	g.POST("/hotels", h.CreateHotel)
	g.PATCH("/hotels/:id", h.UpdateHotel)
	g.GET("/hotels/:id/reservations", h.ListHotelReservations)
}
