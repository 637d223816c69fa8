package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/booking"
	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
)

// decisionLog writes booking engine decisions to the standard logger so
// every availability verdict and status change is traceable.
type decisionLog struct{}

func (decisionLog) AvailabilityChecked(hotelID uint64, start, end time.Time, ok bool, conflict time.Time) {
	if ok {
		log.Printf("availability: hotel=%d %s..%s ok", hotelID, start.Format("2006-01-02"), end.Format("2006-01-02"))
		return
	}
	log.Printf("availability: hotel=%d %s..%s full on %s", hotelID, start.Format("2006-01-02"), end.Format("2006-01-02"), conflict.Format("2006-01-02"))
}

func (decisionLog) StatusChanged(reservationID uint64, from, to model.ReservationStatus) {
	log.Printf("status: reservation=%d %s -> %s", reservationID, from, to)
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}

	// Consumer appends confirmed reservations to the audit log and
	// reconnects on its own, so a failure here is not fatal.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	hotelRepo := repository.NewHotelRepo(db)
	resRepo := repository.NewReservationRepo(db)

	engine := booking.NewEngine(hotelRepo, resRepo, booking.RealClock{})
	engine.MaxStayDays = cfg.MaxStayDays
	engine.Recorder = decisionLog{}

	resHandler := handler.NewReservationHandler(engine, resRepo, hotelRepo)
	hotelHandler := handler.NewHotelHandler(hotelRepo, resRepo)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterPublic(e, hotelHandler, rdb)
	router.RegisterCustomer(e, resHandler, cfg.JWTSecret, rdb)
	router.RegisterOwner(e, hotelHandler, cfg.JWTSecret, rdb)

	log.Printf("listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
