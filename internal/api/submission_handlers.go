package api

import (
	"encoding/json"
	"net/http"
	"time"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// CreateSubmission handles POST /api/v1/submissions
// Opens a new meter-photo submission in PENDIENTE.
func (h *Handlers) CreateSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		var req dtos.CreateSubmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		// Pilots file for themselves; admins may file on behalf of anyone.
		if req.PilotID == "" {
			req.PilotID = claims.UserID()
		}
		if req.PilotID != claims.UserID() && claims.Role() != constants.RoleAdmin.String() {
			common.RespondError(w, initTime, nil, "Cannot submit for another pilot", http.StatusForbidden)
			return
		}
		if req.FlightDate.IsZero() {
			req.FlightDate = time.Now()
		}

		submission, err := h.deps.Services.Submission.CreateSubmission(r.Context(), &req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to create submission", statusForError(err))
			return
		}

		common.RespondSuccess(w, initTime, "Submission created",
			map[string]interface{}{
				"id":     submission.ID,
				"estado": submission.Estado.String(),
			},
			http.StatusCreated)
	}
}

// ProcessSubmission handles POST /api/v1/submissions/{submission_id}/process
// Runs the OCR pipeline and confidence gate synchronously.
func (h *Handlers) ProcessSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		submissionID := chi.URLParam(r, "submission_id")
		if submissionID == "" {
			common.RespondError(w, initTime, nil, "Missing submission_id", http.StatusBadRequest)
			return
		}

		status, err := h.deps.Services.Submission.ProcessSubmission(r.Context(), submissionID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to process submission", statusForError(err))
			return
		}

		h.recordSubmissionOutcome(status)
		common.RespondSuccess(w, initTime, "Submission processed", status)
	}
}

// EnqueueSubmission handles POST /api/v1/submissions/{submission_id}/enqueue
// Defers processing to the background workers via the Redis stream.
func (h *Handlers) EnqueueSubmission() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		submissionID := chi.URLParam(r, "submission_id")
		if submissionID == "" {
			common.RespondError(w, initTime, nil, "Missing submission_id", http.StatusBadRequest)
			return
		}

		item := &common.SubmissionQueueItem{
			SubmissionID: submissionID,
			EnqueuedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.deps.Services.RedisQueue.EnqueueSubmission(r.Context(), item); err != nil {
			common.RespondError(w, initTime, err, "Failed to enqueue submission", http.StatusServiceUnavailable)
			return
		}

		common.RespondSuccess(w, initTime, "Submission enqueued for processing",
			map[string]string{"submission_id": submissionID},
			http.StatusAccepted)
	}
}

// GetSubmissionStatus handles GET /api/v1/submissions/{submission_id}
func (h *Handlers) GetSubmissionStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		submissionID := chi.URLParam(r, "submission_id")
		if submissionID == "" {
			common.RespondError(w, initTime, nil, "Missing submission_id", http.StatusBadRequest)
			return
		}

		status, err := h.deps.Services.Submission.GetStatus(r.Context(), submissionID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch submission", statusForError(err))
			return
		}

		common.RespondSuccess(w, initTime, "Submission fetched", status)
	}
}

// SubmitReview handles POST /api/v1/submissions/{submission_id}/review
// Admin-only: applies corrected readings and commits the flight.
func (h *Handlers) SubmitReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		submissionID := chi.URLParam(r, "submission_id")
		if submissionID == "" {
			common.RespondError(w, initTime, nil, "Missing submission_id", http.StatusBadRequest)
			return
		}

		var req dtos.ManualReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.RespondError(w, initTime, err, "Invalid request body", http.StatusBadRequest)
			return
		}

		response, err := h.deps.Services.Review.SubmitReview(r.Context(), claims, submissionID, &req)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to submit review", statusForError(err))
			return
		}

		if response.Success {
			h.deps.Metrics.FlightsCommittedTotal.Inc()
			common.RespondSuccess(w, initTime, "Review committed", response)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func (h *Handlers) recordSubmissionOutcome(status *dtos.SubmissionStatusResponse) {
	h.deps.Metrics.SubmissionsProcessedTotal.WithLabelValues(status.Estado).Inc()
	if status.Estado == constants.StateCompletado.String() {
		h.deps.Metrics.FlightsCommittedTotal.Inc()
	}
	for _, img := range status.Images {
		if img.Confianza == 0 && img.ValorExtraido == nil {
			h.deps.Metrics.OCRFailuresTotal.Inc()
		}
	}
}
