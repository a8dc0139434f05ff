package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubaereo/bitacora/internal/common"
	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/logging"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService owns the atomic flight commit and its exact inverse. Both
// the OCR gate and the manual review path go through CommitFlight, so the
// monotonicity and billing invariants are enforced in exactly one place.
type LedgerService struct {
	db    *gorm.DB
	cache common.CacheInterface
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(db *gorm.DB, cache common.CacheInterface) *LedgerService {
	return &LedgerService{db: db, cache: cache}
}

// CommitParams carries everything needed to turn a pair of validated meter
// readings into a committed flight.
type CommitParams struct {
	PilotID        string
	AircraftID     string
	SubmissionID   *string
	FlightDate     time.Time
	NewHobbs       decimal.Decimal
	NewTach        decimal.Decimal
	Tarifa         *decimal.Decimal // defaults to the pilot's hourly rate
	InstructorRate *decimal.Decimal // defaults to zero
}

// CommitFlight validates the new readings against the last recorded flight
// and applies all ledger effects in a single transaction: flight row,
// aircraft counters, component wear, debit transaction, pilot balance, and
// (when present) the originating submission's terminal state.
func (s *LedgerService) CommitFlight(ctx context.Context, params CommitParams) (*gormModels.Flight, error) {
	var committed *gormModels.Flight

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock first: concurrent commits for the same aircraft must not
		// both read the same "last known" counters.
		aircraft, err := repositories.LockForCommit(tx, params.AircraftID)
		if err != nil {
			return err
		}

		var pilot gormModels.User
		if err := tx.Where("id = ?", params.PilotID).First(&pilot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return constants.NewNotFoundError("pilot", params.PilotID)
			}
			return err
		}

		// The flight history is authoritative; the aircraft row is only a
		// fallback for the very first flight.
		lastHobbs := aircraft.CurrentHobbs
		lastTach := aircraft.CurrentTach
		lastFlight, err := repositories.LatestByAircraft(tx, params.AircraftID)
		if err != nil {
			return err
		}
		if lastFlight != nil {
			lastHobbs = lastFlight.HobbsFin
			lastTach = lastFlight.TachFin
		}

		if params.NewHobbs.Cmp(lastHobbs) <= 0 {
			return constants.NewValidationError(
				"hobbs %s must be greater than last recorded %s", params.NewHobbs, lastHobbs)
		}
		if params.NewTach.Cmp(lastTach) <= 0 {
			return constants.NewValidationError(
				"tach %s must be greater than last recorded %s", params.NewTach, lastTach)
		}

		diffHobbs := params.NewHobbs.Sub(lastHobbs)
		diffTach := params.NewTach.Sub(lastTach)

		tarifa := pilot.HourlyRate
		if params.Tarifa != nil {
			tarifa = *params.Tarifa
		}
		instructorRate := decimal.Zero
		if params.InstructorRate != nil {
			instructorRate = *params.InstructorRate
		}
		costo := diffHobbs.Mul(tarifa.Add(instructorRate)).Round(2)

		var components []gormModels.Component
		if err := tx.Where("aircraft_id = ?", params.AircraftID).Find(&components).Error; err != nil {
			return err
		}

		// Airframe hours after this flight anchor the per-type snapshots.
		airframeAfter := decimal.Zero
		hasAirframe := false
		for i := range components {
			if components[i].Type == constants.ComponentAirframe {
				airframeAfter = components[i].AccumulatedHours.Add(diffTach).Round(1)
				hasAirframe = true
				break
			}
		}

		flight := &gormModels.Flight{
			PilotID:        params.PilotID,
			AircraftID:     params.AircraftID,
			SubmissionID:   params.SubmissionID,
			FlightDate:     params.FlightDate,
			HobbsInicio:    lastHobbs,
			HobbsFin:       params.NewHobbs,
			TachInicio:     lastTach,
			TachFin:        params.NewTach,
			DiffHobbs:      diffHobbs,
			DiffTach:       diffTach,
			Costo:          costo,
			Tarifa:         tarifa,
			InstructorRate: instructorRate,
			AirframeHours:  airframeAfter,
		}

		for i := range components {
			c := &components[i]
			if hasAirframe && c.Type != constants.ComponentAirframe && c.OverhaulHours.Valid {
				// Hours since overhaul, anchored to airframe hours.
				c.AccumulatedHours = airframeAfter.Sub(c.OverhaulHours.Decimal).Round(1)
			} else {
				c.AccumulatedHours = c.AccumulatedHours.Add(diffTach).Round(1)
			}

			switch c.Type {
			case constants.ComponentEngine:
				flight.EngineHours = c.AccumulatedHours
			case constants.ComponentPropeller:
				flight.PropellerHours = c.AccumulatedHours
			}

			if err := tx.Model(c).Update("accumulated_hours", c.AccumulatedHours).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(flight).Error; err != nil {
			return err
		}

		// Aircraft counter cache, display-only but kept in step.
		if err := tx.Model(aircraft).Updates(map[string]interface{}{
			"current_hobbs": params.NewHobbs,
			"current_tach":  params.NewTach,
		}).Error; err != nil {
			return err
		}

		charge := &gormModels.Transaction{
			PilotID:  params.PilotID,
			FlightID: &flight.ID,
			Amount:   costo.Neg(),
			Concept:  fmt.Sprintf("Vuelo %s %s", aircraft.TailNumber, params.FlightDate.Format("2006-01-02")),
		}
		if err := tx.Create(charge).Error; err != nil {
			return err
		}

		if err := tx.Model(&pilot).Update("balance", pilot.Balance.Sub(costo)).Error; err != nil {
			return err
		}

		if params.SubmissionID != nil {
			if err := tx.Model(&gormModels.FlightSubmission{}).
				Where("id = ?", *params.SubmissionID).
				Update("estado", constants.StateCompletado).Error; err != nil {
				return err
			}
		}

		committed = flight
		return nil
	})

	if err != nil {
		return nil, s.classify("commit flight", err)
	}

	s.cache.Delete(ratioModelCacheKey(params.AircraftID))

	logging.Info("Flight committed",
		"flight_id", committed.ID,
		"aircraft_id", committed.AircraftID,
		"pilot_id", committed.PilotID,
		"diff_hobbs", committed.DiffHobbs.String(),
		"diff_tach", committed.DiffTach.String(),
		"costo", committed.Costo.String(),
	)

	return committed, nil
}

// DeleteFlight reverses a committed flight: the linked transaction is
// removed, the balance credited back, aircraft counters and component hours
// decremented by the recorded deltas, and the flight row deleted. Component
// hours come back by diff_tach, the exact inverse of accrual.
func (s *LedgerService) DeleteFlight(ctx context.Context, flightID string) error {
	var aircraftID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var flight gormModels.Flight
		if err := tx.Where("id = ?", flightID).First(&flight).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return constants.NewNotFoundError("flight", flightID)
			}
			return err
		}
		aircraftID = flight.AircraftID

		aircraft, err := repositories.LockForCommit(tx, flight.AircraftID)
		if err != nil {
			return err
		}

		if err := tx.Where("flight_id = ?", flight.ID).
			Delete(&gormModels.Transaction{}).Error; err != nil {
			return err
		}

		var pilot gormModels.User
		if err := tx.Where("id = ?", flight.PilotID).First(&pilot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return constants.NewNotFoundError("pilot", flight.PilotID)
			}
			return err
		}
		if err := tx.Model(&pilot).Update("balance", pilot.Balance.Add(flight.Costo)).Error; err != nil {
			return err
		}

		if err := tx.Model(aircraft).Updates(map[string]interface{}{
			"current_hobbs": aircraft.CurrentHobbs.Sub(flight.DiffHobbs),
			"current_tach":  aircraft.CurrentTach.Sub(flight.DiffTach),
		}).Error; err != nil {
			return err
		}

		var components []gormModels.Component
		if err := tx.Where("aircraft_id = ?", flight.AircraftID).Find(&components).Error; err != nil {
			return err
		}
		for i := range components {
			c := &components[i]
			reduced := c.AccumulatedHours.Sub(flight.DiffTach).Round(1)
			if err := tx.Model(c).Update("accumulated_hours", reduced).Error; err != nil {
				return err
			}
		}

		// A deleted flight leaves its submission actionable again.
		if flight.SubmissionID != nil {
			if err := tx.Model(&gormModels.FlightSubmission{}).
				Where("id = ?", *flight.SubmissionID).
				Update("estado", constants.StateRevision).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&flight).Error
	})

	if err != nil {
		return s.classify("delete flight", err)
	}

	s.cache.Delete(ratioModelCacheKey(aircraftID))

	logging.Info("Flight deleted and ledger reversed", "flight_id", flightID)
	return nil
}

// EditFlightCounters rewrites the end counters of a committed flight and
// applies only the delta of the deltas downstream, so unrelated flights are
// never disturbed: component hours and snapshots move by
// (new_diff_tach - old_diff_tach), billing by the recomputed cost difference.
func (s *LedgerService) EditFlightCounters(ctx context.Context, flightID string, newHobbsFin, newTachFin decimal.Decimal) (*gormModels.Flight, error) {
	var edited *gormModels.Flight

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var flight gormModels.Flight
		if err := tx.Where("id = ?", flightID).First(&flight).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return constants.NewNotFoundError("flight", flightID)
			}
			return err
		}

		aircraft, err := repositories.LockForCommit(tx, flight.AircraftID)
		if err != nil {
			return err
		}

		if newHobbsFin.Cmp(flight.HobbsInicio) <= 0 {
			return constants.NewValidationError(
				"hobbs %s must be greater than flight start %s", newHobbsFin, flight.HobbsInicio)
		}
		if newTachFin.Cmp(flight.TachInicio) <= 0 {
			return constants.NewValidationError(
				"tach %s must be greater than flight start %s", newTachFin, flight.TachInicio)
		}

		newDiffHobbs := newHobbsFin.Sub(flight.HobbsInicio)
		newDiffTach := newTachFin.Sub(flight.TachInicio)
		tachAdjustment := newDiffTach.Sub(flight.DiffTach)
		hobbsAdjustment := newDiffHobbs.Sub(flight.DiffHobbs)

		newCosto := newDiffHobbs.Mul(flight.Tarifa.Add(flight.InstructorRate)).Round(2)
		costDelta := newCosto.Sub(flight.Costo)

		var components []gormModels.Component
		if err := tx.Where("aircraft_id = ?", flight.AircraftID).Find(&components).Error; err != nil {
			return err
		}
		for i := range components {
			c := &components[i]
			adjusted := c.AccumulatedHours.Add(tachAdjustment).Round(1)
			if err := tx.Model(c).Update("accumulated_hours", adjusted).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(aircraft).Updates(map[string]interface{}{
			"current_hobbs": aircraft.CurrentHobbs.Add(hobbsAdjustment),
			"current_tach":  aircraft.CurrentTach.Add(tachAdjustment),
		}).Error; err != nil {
			return err
		}

		var charge gormModels.Transaction
		chargeErr := tx.Where("flight_id = ?", flight.ID).First(&charge).Error
		if chargeErr == nil {
			if err := tx.Model(&charge).Update("amount", newCosto.Neg()).Error; err != nil {
				return err
			}
		} else if chargeErr != gorm.ErrRecordNotFound {
			return chargeErr
		}

		var pilot gormModels.User
		if err := tx.Where("id = ?", flight.PilotID).First(&pilot).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return constants.NewNotFoundError("pilot", flight.PilotID)
			}
			return err
		}
		if err := tx.Model(&pilot).Update("balance", pilot.Balance.Sub(costDelta)).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"hobbs_fin":       newHobbsFin,
			"tach_fin":        newTachFin,
			"diff_hobbs":      newDiffHobbs,
			"diff_tach":       newDiffTach,
			"costo":           newCosto,
			"airframe_hours":  flight.AirframeHours.Add(tachAdjustment).Round(1),
			"engine_hours":    flight.EngineHours.Add(tachAdjustment).Round(1),
			"propeller_hours": flight.PropellerHours.Add(tachAdjustment).Round(1),
		}
		if err := tx.Model(&flight).Updates(updates).Error; err != nil {
			return err
		}

		edited = &flight
		return nil
	})

	if err != nil {
		return nil, s.classify("edit flight counters", err)
	}

	s.cache.Delete(ratioModelCacheKey(edited.AircraftID))

	logging.Info("Flight counters edited", "flight_id", flightID)
	return edited, nil
}

// classify passes taxonomy errors through untouched and wraps everything
// else as a PersistenceError.
func (s *LedgerService) classify(op string, err error) error {
	var ve *constants.ValidationError
	var nf *constants.NotFoundError
	var ae *constants.AuthorizationError
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ae) {
		return err
	}
	return &constants.PersistenceError{Op: op, Err: err}
}

func ratioModelCacheKey(aircraftID string) string {
	return "ratio_model:" + aircraftID
}
