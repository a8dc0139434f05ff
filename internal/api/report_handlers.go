package api

import (
	"net/http"
	"time"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// ListAircraft handles GET /api/v1/aircraft
func (h *Handlers) ListAircraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		aircraft, err := h.deps.Repo.Aircraft.List(r.Context())
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch aircraft", statusForError(err))
			return
		}

		common.RespondSuccess(w, initTime, "Aircraft fetched", aircraft)
	}
}

// GetComponentStatus handles GET /api/v1/aircraft/{aircraft_id}/components
// Reports hours against TBO for every component of the aircraft.
func (h *Handlers) GetComponentStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		aircraftID := chi.URLParam(r, "aircraft_id")
		if aircraftID == "" {
			common.RespondError(w, initTime, nil, "Missing aircraft_id", http.StatusBadRequest)
			return
		}

		components, err := h.deps.Repo.Component.ListByAircraft(r.Context(), aircraftID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch components", statusForError(err))
			return
		}

		out := make([]dtos.ComponentStatusResponse, 0, len(components))
		for _, c := range components {
			status := dtos.ComponentStatusResponse{
				ID:               c.ID,
				Type:             c.Type.String(),
				Name:             c.Name,
				AccumulatedHours: c.AccumulatedHours,
				TBOLimit:         c.TBOLimit,
				RemainingHours:   c.TBOLimit.Sub(c.AccumulatedHours),
				OverhaulDate:     c.OverhaulDate,
			}
			if c.OverhaulHours.Valid {
				v := c.OverhaulHours.Decimal
				status.OverhaulHours = &v
			}
			out = append(out, status)
		}

		common.RespondSuccess(w, initTime, "Component status fetched", out)
	}
}

// GetMonthlyActivity handles GET /api/v1/aircraft/{aircraft_id}/activity
// Aggregates flights, flown hours and billing per calendar month.
func (h *Handlers) GetMonthlyActivity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		aircraftID := chi.URLParam(r, "aircraft_id")
		if aircraftID == "" {
			common.RespondError(w, initTime, nil, "Missing aircraft_id", http.StatusBadRequest)
			return
		}

		rows, err := h.deps.Repo.Stats.GetMonthlyActivity(r.Context(), aircraftID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch monthly activity", statusForError(err))
			return
		}

		common.RespondSuccess(w, initTime, "Monthly activity fetched", rows)
	}
}

// GetPilotStatement handles GET /api/v1/pilots/{pilot_id}/statement
// Pilots see their own statement; admins see anyone's.
func (h *Handlers) GetPilotStatement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		if claims == nil {
			common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
			return
		}

		pilotID := chi.URLParam(r, "pilot_id")
		if pilotID == "" {
			pilotID = claims.UserID()
		}
		if pilotID != claims.UserID() && claims.Role() != constants.RoleAdmin.String() {
			common.RespondError(w, initTime, nil, "Cannot view another pilot's statement", http.StatusForbidden)
			return
		}

		pilot, err := h.deps.Repo.User.GetByID(r.Context(), pilotID)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch pilot", statusForError(err))
			return
		}

		txs, err := h.deps.Repo.Transaction.ListByPilot(r.Context(), pilotID, 200)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch transactions", statusForError(err))
			return
		}

		statement := dtos.StatementResponse{
			PilotID:      pilot.ID,
			Balance:      pilot.Balance,
			Transactions: make([]dtos.StatementRow, 0, len(txs)),
		}
		for _, tx := range txs {
			statement.Transactions = append(statement.Transactions, dtos.StatementRow{
				ID:        tx.ID,
				FlightID:  tx.FlightID,
				Amount:    tx.Amount,
				Concept:   tx.Concept,
				CreatedAt: tx.CreatedAt,
			})
		}

		common.RespondSuccess(w, initTime, "Statement fetched", statement)
	}
}
