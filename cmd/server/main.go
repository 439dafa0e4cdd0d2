package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/avelor/dinner-show-reservation/internal/billing"
	"github.com/avelor/dinner-show-reservation/internal/booking"
	"github.com/avelor/dinner-show-reservation/internal/config"
	"github.com/avelor/dinner-show-reservation/internal/database"
	"github.com/avelor/dinner-show-reservation/internal/handler"
	"github.com/avelor/dinner-show-reservation/internal/middleware"
	"github.com/avelor/dinner-show-reservation/internal/queue"
	"github.com/avelor/dinner-show-reservation/internal/repository"
	"github.com/avelor/dinner-show-reservation/internal/router"
	queue_publisher "github.com/avelor/dinner-show-reservation/internal/service"
	"github.com/avelor/dinner-show-reservation/migrations"
)

func main() {
	// Load a local .env file when present; real deployments set the
	// environment directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrations.Apply(ctx, db); err != nil {
		cancel()
		log.Fatalf("migrations: %v", err)
	}
	cancel()

	// Repositories over the shared connection pool, plus the Store adapter
	// the transactional services run on.
	store := repository.NewStore(db)
	slots := repository.NewShowSlotRepo(db)
	bookingsRepo := repository.NewBookingRepo(db)
	packages := repository.NewPackageRepo(db)
	merch := repository.NewMerchandiseRepo(db)
	promos := repository.NewPromoCodeRepo(db)
	waiting := repository.NewWaitingListRepo(db)
	invoices := repository.NewInvoiceRepo(db)
	settings := repository.NewSettingsRepo(db)
	staff := repository.NewStaffRepo(db)
	shifts := repository.NewShiftRepo(db)
	tokens := repository.NewTokenRepo(db)
	audit := repository.NewAuditRepo(db)
	customers := repository.NewCustomerRepo(db)

	bookingSvc := booking.NewService(store, queue_publisher.Publisher{})
	billingSvc := billing.NewService(store)

	e := echo.New() // Create Echo instance

	// Redis-backed response cache and rate limiter are optional: when the
	// client cannot be reached both middlewares stay nil and the routes are
	// registered without them.
	var cacheMW, rateMW echo.MiddlewareFunc
	if rdb := config.NewRedisClient(); rdb != nil {
		cacheMW = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		rateMW = middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, staff, tokens), cfg.JWTSecret)
	router.RegisterPublic(e,
		handler.NewPublicBrowseHandler(slots, packages, merch, promos, waiting),
		handler.NewPublicBookingHandler(bookingSvc),
		cacheMW, rateMW,
	)
	router.RegisterAdmin(e, router.AdminHandlers{
		Bookings: handler.NewAdminBookingHandler(bookingSvc, bookingsRepo, slots),
		Shows:    handler.NewAdminShowHandler(slots, bookingsRepo),
		Waitlist: handler.NewAdminWaitlistHandler(bookingSvc, waiting),
		Packages: handler.NewAdminPackageHandler(packages),
		Merch:    handler.NewAdminMerchandiseHandler(merch),
		Promos:   handler.NewAdminPromoHandler(promos),
		Invoices: handler.NewAdminInvoiceHandler(billingSvc, invoices),
		Settings: handler.NewAdminSettingsHandler(settings),
		Staff:    handler.NewAdminStaffHandler(cfg, staff, shifts, tokens),
		Audit:    handler.NewAdminAuditHandler(audit, customers),
	}, cfg.JWTSecret)

	// The notification consumer renders guest and back-office messages from
	// booking events.  It reconnects on its own; a startup failure only
	// means notifications are delayed until the broker is reachable.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
