package api

import (
	"encoding/json"
	"net/http"
	"time"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/models/dtos"
)

// RegisterOverhaul handles POST /api/v1/overhauls
// Admin-only: records an overhaul anchor and backfills component-hours
// snapshots on affected flights.
func (h *Handlers) RegisterOverhaul() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.OverhaulRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Date.IsZero() {
			req.Date = time.Now()
		}

		response, err := h.deps.Services.Overhaul.RegisterOverhaul(r.Context(), claims, &req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to register overhaul", statusForError(err))
			return
		}

		if response.Success {
			h.deps.Metrics.OverhaulBackfillFlights.Add(float64(response.FlightsRecomputed))
			common.RespondSuccess(w, initTime, "Overhaul registered", response, http.StatusCreated)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(response)
	}
}
