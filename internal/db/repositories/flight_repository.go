package repositories

import (
	"context"

	"clubaereo/bitacora/internal/constants"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FlightRepository struct {
	db *gorm.DB
}

// NewFlightRepository creates a new GORM-based flight repository
func NewFlightRepository(db *gorm.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// GetByID retrieves a flight by ID
func (r *FlightRepository) GetByID(ctx context.Context, id string) (*gormModels.Flight, error) {
	var flight gormModels.Flight

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&flight).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, constants.NewNotFoundError("flight", id)
		}
		return nil, err
	}

	return &flight, nil
}

// LatestByAircraft returns the most recent committed flight for an aircraft,
// or nil when none exists. This row is authoritative for counter validation.
func LatestByAircraft(tx *gorm.DB, aircraftID string) (*gormModels.Flight, error) {
	var flight gormModels.Flight

	err := tx.
		Where("aircraft_id = ?", aircraftID).
		Order("flight_date DESC, created_at DESC").
		First(&flight).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &flight, nil
}

// ListAboveAirframeHours pages chronologically through flights whose airframe
// snapshot exceeds the overhaul anchor. Offset paging is safe here because
// the backfill never rewrites airframe_hours, only the per-type snapshots.
func (r *FlightRepository) ListAboveAirframeHours(ctx context.Context, aircraftID string, anchor decimal.Decimal, limit, offset int) ([]gormModels.Flight, error) {
	var flights []gormModels.Flight

	err := r.db.WithContext(ctx).
		Where("aircraft_id = ? AND airframe_hours > ?", aircraftID, anchor).
		Order("flight_date ASC, created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&flights).Error

	if err != nil {
		return nil, err
	}

	return flights, nil
}

// ListByAircraft returns flights for an aircraft, newest first
func (r *FlightRepository) ListByAircraft(ctx context.Context, aircraftID string, limit int) ([]gormModels.Flight, error) {
	var flights []gormModels.Flight

	query := r.db.WithContext(ctx).
		Where("aircraft_id = ?", aircraftID).
		Order("flight_date DESC, created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&flights).Error; err != nil {
		return nil, err
	}

	return flights, nil
}
