package api

import (
	"net/http"
	"strconv"
	"time"

	"clubaereo/bitacora/internal/common"

	"github.com/go-chi/chi/v5"
)

// PredictHobbs handles GET /api/v1/aircraft/{aircraft_id}/ratio/predict?tach_delta=1.8
// Estimates the Hobbs delta for a planned Tach delta from the aircraft's
// counter-ratio history.
func (h *Handlers) PredictHobbs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		aircraftID := chi.URLParam(r, "aircraft_id")
		if aircraftID == "" {
			common.RespondError(w, initTime, nil, "Missing aircraft_id", http.StatusBadRequest)
			return
		}

		tachDelta, err := strconv.ParseFloat(r.URL.Query().Get("tach_delta"), 64)
		if err != nil {
			common.RespondError(w, initTime, err, "Invalid tach_delta parameter", http.StatusBadRequest)
			return
		}

		prediction, err := h.deps.Services.Ratio.Predict(r.Context(), aircraftID, tachDelta)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to compute prediction", statusForError(err))
			return
		}

		common.RespondSuccess(w, initTime, "Prediction computed", prediction)
	}
}

// GetRatioBuckets handles GET /api/v1/aircraft/{aircraft_id}/ratio/buckets
func (h *Handlers) GetRatioBuckets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		aircraftID := chi.URLParam(r, "aircraft_id")
		if aircraftID == "" {
			common.RespondError(w, initTime, nil, "Missing aircraft_id", http.StatusBadRequest)
			return
		}

		buckets, err := h.deps.Services.Ratio.Buckets(r.Context(), aircraftID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch ratio buckets", statusForError(err))
			return
		}

		common.RespondSuccess(w, initTime, "Ratio buckets fetched", buckets)
	}
}
