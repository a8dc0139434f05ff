package services

import (
	"context"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/logging"
	"clubaereo/bitacora/internal/models/dtos"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OverhaulService registers maintenance overhauls and rewrites historical
// component-hours snapshots relative to the new anchor. Airframe hours are
// the anchor because an engine overhaul resets the Tach meter; only ENGINE
// and PROPELLER anchors trigger the backfill.
type OverhaulService struct {
	db            *gorm.DB
	componentRepo *repositories.ComponentRepository
	flightRepo    *repositories.FlightRepository
}

// NewOverhaulService creates a new OverhaulService with dependencies
func NewOverhaulService(
	db *gorm.DB,
	componentRepo *repositories.ComponentRepository,
	flightRepo *repositories.FlightRepository,
) *OverhaulService {
	return &OverhaulService{
		db:            db,
		componentRepo: componentRepo,
		flightRepo:    flightRepo,
	}
}

// RegisterOverhaul persists the anchor and backfills affected flights in
// chunks. The backfill is a pure function of (airframe_hours, anchor), so
// re-running with the same anchor reproduces identical values and an
// interrupted run can simply be retried.
func (s *OverhaulService) RegisterOverhaul(
	ctx context.Context,
	claims auth.UserClaims,
	req *dtos.OverhaulRequest,
) (*dtos.OverhaulResponse, error) {
	if !isAdmin(claims) {
		return overhaulFailure(constants.NewAuthorizationError("overhaul registration requires administrator role")), nil
	}

	component, err := s.componentRepo.GetByID(ctx, req.ComponentID)
	if err != nil {
		return overhaulFailure(err), nil
	}

	if req.AirframeHours.Cmp(decimal.Zero) <= 0 {
		return overhaulFailure(constants.NewValidationError(
			"overhaul airframe hours must be positive, got %s", req.AirframeHours)), nil
	}

	lastFlight, err := repositories.LatestByAircraft(s.db.WithContext(ctx), component.AircraftID)
	if err != nil {
		return overhaulFailure(&constants.PersistenceError{Op: "load latest flight", Err: err}), nil
	}
	if lastFlight != nil && req.AirframeHours.Cmp(lastFlight.AirframeHours) > 0 {
		return overhaulFailure(constants.NewValidationError(
			"overhaul anchor %s exceeds latest recorded airframe hours %s",
			req.AirframeHours, lastFlight.AirframeHours)), nil
	}

	hoursSince := decimal.Zero
	if lastFlight != nil {
		hoursSince = lastFlight.AirframeHours.Sub(req.AirframeHours).Round(1)
		if hoursSince.IsNegative() {
			hoursSince = decimal.Zero
		}
	}

	err = s.db.WithContext(ctx).Model(component).Updates(map[string]interface{}{
		"overhaul_hours":    decimal.NullDecimal{Decimal: req.AirframeHours, Valid: true},
		"overhaul_date":     req.Date,
		"overhaul_notes":    req.Notes,
		"accumulated_hours": hoursSince,
	}).Error
	if err != nil {
		return overhaulFailure(&constants.PersistenceError{Op: "persist overhaul anchor", Err: err}), nil
	}

	recomputed := 0
	if component.Type != constants.ComponentAirframe {
		recomputed, err = s.backfill(ctx, component, req.AirframeHours)
		if err != nil {
			return overhaulFailure(&constants.PersistenceError{Op: "overhaul backfill", Err: err}), nil
		}
	}

	logging.Info("Overhaul registered",
		"component_id", component.ID,
		"component_type", component.Type.String(),
		"anchor_airframe_hours", req.AirframeHours.String(),
		"flights_recomputed", recomputed,
	)

	return &dtos.OverhaulResponse{
		OperationResult:    dtos.OperationResult{Success: true},
		ComponentID:        component.ID,
		HoursSinceOverhaul: hoursSince,
		FlightsRecomputed:  recomputed,
	}, nil
}

// backfill rewrites the per-type hours snapshot on every flight above the
// anchor, chronologically, one bounded transaction per chunk. Offset paging
// is stable because airframe_hours is never touched by the rewrite.
func (s *OverhaulService) backfill(ctx context.Context, component *gormModels.Component, anchor decimal.Decimal) (int, error) {
	column := "engine_hours"
	if component.Type == constants.ComponentPropeller {
		column = "propeller_hours"
	}

	total := 0
	offset := 0
	for {
		flights, err := s.flightRepo.ListAboveAirframeHours(
			ctx, component.AircraftID, anchor, constants.OverhaulBackfillChunkSize, offset)
		if err != nil {
			return total, err
		}
		if len(flights) == 0 {
			break
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for i := range flights {
				hours := flights[i].AirframeHours.Sub(anchor).Round(1)
				if err := tx.Model(&gormModels.Flight{}).
					Where("id = ?", flights[i].ID).
					Update(column, hours).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return total, err
		}

		total += len(flights)
		offset += len(flights)

		logging.Debug("Overhaul backfill chunk applied",
			"component_id", component.ID,
			"chunk_size", len(flights),
			"total_recomputed", total,
		)

		if len(flights) < constants.OverhaulBackfillChunkSize {
			break
		}
	}

	return total, nil
}

func overhaulFailure(err error) *dtos.OverhaulResponse {
	return &dtos.OverhaulResponse{OperationResult: operationFailure(err)}
}
