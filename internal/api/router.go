package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/salon-booking-backend/internal/auth"
	"github.com/nekogravitycat/salon-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/salon-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/salon-booking-backend/internal/clock"
	"github.com/nekogravitycat/salon-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/salon-booking-backend/internal/session"
	sessionHttp "github.com/nekogravitycat/salon-booking-backend/internal/session/http"
	shiftHttp "github.com/nekogravitycat/salon-booking-backend/internal/shift/http"
	"github.com/nekogravitycat/salon-booking-backend/internal/stylist"
	stylistHttp "github.com/nekogravitycat/salon-booking-backend/internal/stylist/http"
	"github.com/nekogravitycat/salon-booking-backend/internal/treatment"
	treatmentHttp "github.com/nekogravitycat/salon-booking-backend/internal/treatment/http"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Config holds everything the router needs to build its handlers.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	JWTManager       *auth.JWTManager
	StylistService   stylist.Service
	TreatmentService treatment.Service
	BookingService   booking.Service
	ShiftFetcher     shiftHttp.Fetcher
	Sessions         *session.Registry

	Clock    clock.Clock
	Location *time.Location

	HealthChecks map[string]HealthCheck
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: structured access log with a request ID.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.Middleware(cfg.Logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.IsProduction, cfg.ProdOrigins)))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// optionalAuth: Identifies the customer when a token is present.
	optionalAuth := auth.OptionalAuth(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	stylistHandler := stylistHttp.NewHandler(cfg.StylistService)
	treatmentHandler := treatmentHttp.NewHandler(cfg.TreatmentService)
	shiftHandler := shiftHttp.NewHandler(cfg.ShiftFetcher, cfg.Location)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	sessionHandler := sessionHttp.NewHandler(cfg.Sessions, cfg.StylistService, cfg.Clock, cfg.Location)

	r.GET("/healthz", healthHandler(cfg.HealthChecks))

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		stylistHttp.RegisterRoutes(v1, stylistHandler)
		treatmentHttp.RegisterRoutes(v1, treatmentHandler)
		shiftHttp.RegisterRoutes(v1, shiftHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		sessionHttp.RegisterRoutes(v1, sessionHandler, optionalAuth)
	}

	return r
}

// corsConfig allows the configured origins in production and local front-ends otherwise.
func corsConfig(isProduction bool, prodOrigins string) cors.Config {
	config := cors.DefaultConfig()
	if isProduction {
		var origins []string
		for _, o := range strings.Split(prodOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.AllowOrigins = origins
		if len(origins) == 0 {
			// Same-origin only.
			config.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000", // Web front-end
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader}
	config.ExposeHeaders = []string{logger.RequestIDHeader}
	return config
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.FromGin(c).Warn("health check failed", zap.String("check", name), zap.Error(err))
				results[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "up"
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		c.JSON(status, gin.H{"status": overall, "checks": results})
	}
}
