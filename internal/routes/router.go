package routes

import (
	"net/http"
	"time"

	"clubaereo/bitacora/internal/api"
	"clubaereo/bitacora/internal/db"
	"clubaereo/bitacora/internal/logging"
	"clubaereo/bitacora/internal/metrics"
	"clubaereo/bitacora/internal/middleware"
	"clubaereo/bitacora/internal/workers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func RegisterRoutes(upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, deps.Services.RedisQueue, upSince))

	// Initialize handlers with dependencies
	handlers := api.NewHandlers(deps)

	// Background submission workers and queue monitor
	workers.InitWorkers(deps.Services.RedisQueue, deps.Services.Submission, metricsReg)

	RegisterAPIRoutes(r, handlers)

	return r
}
