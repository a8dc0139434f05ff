package repositories

import (
	"context"

	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/models/dtos"

	"github.com/jmoiron/sqlx"
)

// FlightStatsRepository serves analytical reads over the flights table with
// raw SQL. Kept off GORM so aggregates stay in the database.
type FlightStatsRepository struct {
	db *sqlx.DB
}

// RatioSampleRow is one flight's counter deltas for the ratio predictor.
type RatioSampleRow struct {
	DiffHobbs float64 `db:"diff_hobbs"`
	DiffTach  float64 `db:"diff_tach"`
}

// NewFlightStatsRepository creates a new sqlx-based stats repository
func NewFlightStatsRepository(db *sqlx.DB) *FlightStatsRepository {
	return &FlightStatsRepository{db: db}
}

// GetRatioSamples returns the predictor population for one aircraft:
// committed flights with positive deltas and a live Hobbs sensor.
func (r *FlightStatsRepository) GetRatioSamples(ctx context.Context, aircraftID string) ([]RatioSampleRow, error) {
	var rows []RatioSampleRow

	if err := r.db.SelectContext(ctx, &rows, constants.GetRatioSamplesByAircraft, aircraftID); err != nil {
		return nil, err
	}

	return rows, nil
}

// GetMonthlyActivity aggregates flights, hours and billing per month
func (r *FlightStatsRepository) GetMonthlyActivity(ctx context.Context, aircraftID string) ([]dtos.MonthlyActivityRow, error) {
	var rows []dtos.MonthlyActivityRow

	if err := r.db.SelectContext(ctx, &rows, constants.GetMonthlyActivityByAircraft, aircraftID); err != nil {
		return nil, err
	}

	return rows, nil
}
