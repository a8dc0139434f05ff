package routes

import (
	"clubaereo/bitacora/internal/api"
	"clubaereo/bitacora/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers.
// This keeps API route registration separate from the main router setup.
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware()) // global: all routes must be authenticated

		// Aircraft read surfaces
		v1.Get("/aircraft", handlers.ListAircraft())
		v1.Get("/aircraft/{aircraft_id}/flights", handlers.ListFlights())
		v1.Get("/aircraft/{aircraft_id}/components", handlers.GetComponentStatus())
		v1.Get("/aircraft/{aircraft_id}/activity", handlers.GetMonthlyActivity())
		v1.Get("/aircraft/{aircraft_id}/ratio/predict", handlers.PredictHobbs())
		v1.Get("/aircraft/{aircraft_id}/ratio/buckets", handlers.GetRatioBuckets())

		// Submission lifecycle
		v1.Post("/submissions", handlers.CreateSubmission())
		v1.Get("/submissions/{submission_id}", handlers.GetSubmissionStatus())
		v1.Post("/submissions/{submission_id}/process", handlers.ProcessSubmission())
		v1.Post("/submissions/{submission_id}/enqueue", handlers.EnqueueSubmission())

		// Pilot account
		v1.Get("/pilots/{pilot_id}/statement", handlers.GetPilotStatement())

		// Admin-only group
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.IsAdminMiddleware())

			admin.Post("/submissions/{submission_id}/review", handlers.SubmitReview())
			admin.Post("/flights", handlers.ManualFlightEntry())
			admin.Put("/flights/{flight_id}/counters", handlers.EditFlightCounters())
			admin.Delete("/flights/{flight_id}", handlers.DeleteFlight())
			admin.Post("/overhauls", handlers.RegisterOverhaul())
		})
	})
}
