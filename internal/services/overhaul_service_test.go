package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/models/dtos"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newOverhaulService(db *gorm.DB) *OverhaulService {
	return NewOverhaulService(db, repositories.NewComponentRepository(db), repositories.NewFlightRepository(db))
}

// seedFlightHistory creates flights with ascending airframe-hours snapshots
// ending at 2750.0.
func seedFlightHistory(t *testing.T, db *gorm.DB, pilotID, aircraftID string) {
	t.Helper()
	hours := []string{"2740.0", "2743.0", "2746.0", "2748.5", "2750.0"}
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	for i, h := range hours {
		flight := &gormModels.Flight{
			PilotID:       pilotID,
			AircraftID:    aircraftID,
			FlightDate:    base.AddDate(0, 0, i),
			HobbsFin:      dec(t, fmt.Sprintf("%d.0", 3000+i)),
			TachFin:       dec(t, h),
			AirframeHours: dec(t, h),
			EngineHours:   dec(t, h), // pre-overhaul: engine tracked airframe
		}
		if err := db.Create(flight).Error; err != nil {
			t.Fatalf("seed flight: %v", err)
		}
	}
}

func TestRegisterOverhaul_BackfillsFlightsAboveAnchor(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	seedFlightHistory(t, db, pilot.ID, aircraft.ID)
	svc := newOverhaulService(db)

	engine := componentByType(t, db, aircraft.ID, constants.ComponentEngine)

	response, err := svc.RegisterOverhaul(context.Background(), adminClaims(), &dtos.OverhaulRequest{
		ComponentID:   engine.ID,
		AirframeHours: dec(t, "2745.5"),
		Date:          time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("overhaul: %v", err)
	}
	if !response.Success {
		t.Fatalf("overhaul rejected: %s", response.ErrorMessage)
	}

	// Latest airframe hours are 2750.0; hours since the 2745.5 anchor.
	if !response.HoursSinceOverhaul.Equal(dec(t, "4.5")) {
		t.Errorf("hours since overhaul = %s, want 4.5", response.HoursSinceOverhaul)
	}
	// Flights at 2746.0, 2748.5 and 2750.0 are above the anchor.
	if response.FlightsRecomputed != 3 {
		t.Errorf("flights recomputed = %d, want 3", response.FlightsRecomputed)
	}

	engine = componentByType(t, db, aircraft.ID, constants.ComponentEngine)
	if !engine.OverhaulHours.Valid || !engine.OverhaulHours.Decimal.Equal(dec(t, "2745.5")) {
		t.Errorf("anchor = %v, want 2745.5", engine.OverhaulHours)
	}
	if !engine.AccumulatedHours.Equal(dec(t, "4.5")) {
		t.Errorf("engine hours = %s, want 4.5", engine.AccumulatedHours)
	}

	// Every rewritten snapshot is airframe_hours - anchor.
	var flights []gormModels.Flight
	if err := db.Where("aircraft_id = ?", aircraft.ID).Order("flight_date ASC").Find(&flights).Error; err != nil {
		t.Fatal(err)
	}
	for _, f := range flights {
		if f.AirframeHours.Cmp(dec(t, "2745.5")) <= 0 {
			// Below the anchor, snapshots are untouched.
			if !f.EngineHours.Equal(f.AirframeHours) {
				t.Errorf("flight at %s should keep its snapshot, got %s", f.AirframeHours, f.EngineHours)
			}
			continue
		}
		want := f.AirframeHours.Sub(dec(t, "2745.5")).Round(1)
		if !f.EngineHours.Equal(want) {
			t.Errorf("flight at %s: engine_hours = %s, want %s", f.AirframeHours, f.EngineHours, want)
		}
	}
}

func TestRegisterOverhaul_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	seedFlightHistory(t, db, pilot.ID, aircraft.ID)
	svc := newOverhaulService(db)

	engine := componentByType(t, db, aircraft.ID, constants.ComponentEngine)
	req := &dtos.OverhaulRequest{
		ComponentID:   engine.ID,
		AirframeHours: dec(t, "2745.5"),
		Date:          time.Now(),
	}

	first, err := svc.RegisterOverhaul(context.Background(), adminClaims(), req)
	if err != nil || !first.Success {
		t.Fatalf("first run failed: %v / %+v", err, first)
	}
	second, err := svc.RegisterOverhaul(context.Background(), adminClaims(), req)
	if err != nil || !second.Success {
		t.Fatalf("second run failed: %v / %+v", err, second)
	}

	// Re-running with the same anchor reproduces identical values.
	if !first.HoursSinceOverhaul.Equal(second.HoursSinceOverhaul) {
		t.Errorf("hours diverged between runs: %s vs %s", first.HoursSinceOverhaul, second.HoursSinceOverhaul)
	}
	engine = componentByType(t, db, aircraft.ID, constants.ComponentEngine)
	if !engine.AccumulatedHours.Equal(dec(t, "4.5")) {
		t.Errorf("engine hours = %s, want 4.5", engine.AccumulatedHours)
	}
}

func TestRegisterOverhaul_RejectsAnchorAboveHistory(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	seedFlightHistory(t, db, pilot.ID, aircraft.ID)
	svc := newOverhaulService(db)

	engine := componentByType(t, db, aircraft.ID, constants.ComponentEngine)

	response, err := svc.RegisterOverhaul(context.Background(), adminClaims(), &dtos.OverhaulRequest{
		ComponentID:   engine.ID,
		AirframeHours: dec(t, "2800.0"), // above the latest 2750.0
		Date:          time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if response.Success {
		t.Fatal("anchor above recorded history must be rejected")
	}
	if response.ErrorType != constants.ErrTypeValidation {
		t.Errorf("error type = %s, want %s", response.ErrorType, constants.ErrTypeValidation)
	}
}

func TestRegisterOverhaul_RejectsNonPositiveAnchor(t *testing.T) {
	db := setupTestDB(t)
	aircraft, _ := seedClub(t, db)
	svc := newOverhaulService(db)

	engine := componentByType(t, db, aircraft.ID, constants.ComponentEngine)

	response, err := svc.RegisterOverhaul(context.Background(), adminClaims(), &dtos.OverhaulRequest{
		ComponentID:   engine.ID,
		AirframeHours: decimal.Zero,
		Date:          time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if response.Success {
		t.Fatal("zero anchor must be rejected")
	}
}

func TestRegisterOverhaul_AirframeSkipsBackfill(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	seedFlightHistory(t, db, pilot.ID, aircraft.ID)
	svc := newOverhaulService(db)

	airframe := componentByType(t, db, aircraft.ID, constants.ComponentAirframe)

	response, err := svc.RegisterOverhaul(context.Background(), adminClaims(), &dtos.OverhaulRequest{
		ComponentID:   airframe.ID,
		AirframeHours: dec(t, "2745.5"),
		Date:          time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !response.Success {
		t.Fatalf("overhaul rejected: %s", response.ErrorMessage)
	}
	if response.FlightsRecomputed != 0 {
		t.Errorf("airframe overhaul recomputed %d flights, want 0", response.FlightsRecomputed)
	}
}

func TestRegisterOverhaul_RequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	svc := newOverhaulService(db)

	engine := componentByType(t, db, aircraft.ID, constants.ComponentEngine)

	response, err := svc.RegisterOverhaul(context.Background(), pilotClaims(pilot.ID), &dtos.OverhaulRequest{
		ComponentID:   engine.ID,
		AirframeHours: dec(t, "2745.5"),
		Date:          time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if response.Success {
		t.Fatal("non-admin overhaul must be rejected")
	}
	if response.ErrorType != constants.ErrTypeAuthorization {
		t.Errorf("error type = %s, want %s", response.ErrorType, constants.ErrTypeAuthorization)
	}
}
