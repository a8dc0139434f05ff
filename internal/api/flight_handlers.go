package api

import (
	"encoding/json"
	"net/http"
	"time"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// ManualFlightEntry handles POST /api/v1/flights
// Admin-only: commits a flight with no photo submission.
func (h *Handlers) ManualFlightEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.ManualFlightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.FlightDate.IsZero() {
			req.FlightDate = time.Now()
		}

		response, err := h.deps.Services.Review.ManualFlightEntry(r.Context(), claims, &req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to commit flight", statusForError(err))
			return
		}

		if response.Success {
			h.deps.Metrics.FlightsCommittedTotal.Inc()
			common.RespondSuccess(w, initTime, "Flight committed", response, http.StatusCreated)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// EditFlightCounters handles PUT /api/v1/flights/{flight_id}/counters
// Admin-only: rewrites the end counters and ripples the delta downstream.
func (h *Handlers) EditFlightCounters() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		flightID := chi.URLParam(r, "flight_id")
		if flightID == "" {
			common.RespondError(w, initTime, nil, "Missing flight_id", http.StatusBadRequest)
			return
		}

		var req dtos.FlightCounterEditRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		flight, err := h.deps.Services.Ledger.EditFlightCounters(r.Context(), flightID, req.HobbsFin, req.TachFin)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to edit flight counters", statusForError(err))
			return
		}

		common.RespondSuccess(w, initTime, "Flight counters updated", map[string]interface{}{
			"id":         flight.ID,
			"hobbs_fin":  flight.HobbsFin,
			"tach_fin":   flight.TachFin,
			"diff_hobbs": flight.DiffHobbs,
			"diff_tach":  flight.DiffTach,
			"costo":      flight.Costo,
		})
	}
}

// DeleteFlight handles DELETE /api/v1/flights/{flight_id}
// Admin-only: reverses every ledger effect of the flight.
func (h *Handlers) DeleteFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		flightID := chi.URLParam(r, "flight_id")
		if flightID == "" {
			common.RespondError(w, initTime, nil, "Missing flight_id", http.StatusBadRequest)
			return
		}

		if err := h.deps.Services.Ledger.DeleteFlight(r.Context(), flightID); err != nil {
			common.RespondError(w, initTime, err, "Failed to delete flight", statusForError(err))
			return
		}

		h.deps.Metrics.FlightsDeletedTotal.Inc()
		common.RespondSuccess(w, initTime, "Flight deleted and ledger reversed",
			map[string]string{"flight_id": flightID})
	}
}

// ListFlights handles GET /api/v1/aircraft/{aircraft_id}/flights
func (h *Handlers) ListFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		aircraftID := chi.URLParam(r, "aircraft_id")
		if aircraftID == "" {
			common.RespondError(w, initTime, nil, "Missing aircraft_id", http.StatusBadRequest)
			return
		}

		flights, err := h.deps.Repo.Flight.ListByAircraft(r.Context(), aircraftID, 100)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch flights", statusForError(err))
			return
		}

		common.RespondSuccess(w, initTime, "Flights fetched", flights)
	}
}
