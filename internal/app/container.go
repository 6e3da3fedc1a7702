package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/api"
	"github.com/nekogravitycat/salon-booking-backend/internal/auth"
	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
	"github.com/nekogravitycat/salon-booking-backend/internal/calendar"
	"github.com/nekogravitycat/salon-booking-backend/internal/checkout"
	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
	"github.com/nekogravitycat/salon-booking-backend/internal/draft"
	"github.com/nekogravitycat/salon-booking-backend/internal/hold"
	"github.com/nekogravitycat/salon-booking-backend/internal/session"
	"github.com/nekogravitycat/salon-booking-backend/internal/shift"
	"github.com/nekogravitycat/salon-booking-backend/internal/slot"
	"github.com/nekogravitycat/salon-booking-backend/internal/stylist"
	"github.com/nekogravitycat/salon-booking-backend/internal/treatment"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger
	Clock        clock.Clock

	DBPool *pgxpool.Pool
	// Redis is optional; without it drafts live in process memory.
	Redis *redis.Client

	JWTSecret string
	JWTTTL    time.Duration

	Location        *time.Location
	SlotGranularity time.Duration
	SessionIdleTTL  time.Duration
	Breaker         calendar.BreakerConfig
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Sessions   *session.Registry
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Catalog Modules
	stylistService := stylist.NewService(stylist.NewPgxRepository(cfg.DBPool))
	treatmentService := treatment.NewService(treatment.NewPgxRepository(cfg.DBPool))

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo)

	// Calendar (shifts + bookings behind a circuit breaker)
	shiftRepo := shift.NewPgxRepository(cfg.DBPool)
	backend := calendar.NewBackend(shiftRepo, bookingRepo, cfg.Location, cfg.Breaker, log)

	// Booking Flow
	builder := slot.NewBuilder(backend, cfg.Location, cfg.SlotGranularity, log)
	finalizer := checkout.NewFinalizer(backend, treatmentService, builder.Windows, log)

	var drafts draft.Store
	if cfg.Redis != nil {
		drafts = draft.NewRedisStore(cfg.Redis, cfg.SessionIdleTTL)
	} else {
		drafts = draft.NewMemoryStore()
	}

	sessions := session.NewRegistry(session.Config{
		IdleTTL: cfg.SessionIdleTTL,
		HoldTTL: hold.DefaultTTL,
	}, clk, builder, finalizer, drafts, log)

	healthChecks := map[string]api.HealthCheck{
		"database": func(ctx context.Context) error { return cfg.DBPool.Ping(ctx) },
	}
	if cfg.Redis != nil {
		healthChecks["redis"] = func(ctx context.Context) error { return cfg.Redis.Ping(ctx).Err() }
	}

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		Logger:           log,
		JWTManager:       jwtManager,
		StylistService:   stylistService,
		TreatmentService: treatmentService,
		BookingService:   bookingService,
		ShiftFetcher:     backend,
		Sessions:         sessions,
		Clock:            clk,
		Location:         cfg.Location,
		HealthChecks:     healthChecks,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Sessions:   sessions,
	}
}
