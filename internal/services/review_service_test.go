package services

import (
	"context"
	"testing"
	"time"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/models/dtos"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(repositories.NewSubmissionRepository(db), newLedger(db))
}

func adminClaims() auth.UserClaims {
	return &auth.JWTClaims{UserUUID: "admin-1", RoleValue: constants.RoleAdmin}
}

func pilotClaims(id string) auth.UserClaims {
	return &auth.JWTClaims{UserUUID: id, RoleValue: constants.RolePilot}
}

func seedReviewSubmission(t *testing.T, db *gorm.DB, pilotID, aircraftID string) *gormModels.FlightSubmission {
	t.Helper()
	submission := &gormModels.FlightSubmission{
		PilotID:    pilotID,
		AircraftID: aircraftID,
		Estado:     constants.StateRevision,
		FlightDate: time.Now(),
		Images: []gormModels.ImageLog{
			{Tipo: constants.MeterHobbs, ImageRef: "s3://photos/hobbs.jpg", Confidence: 60},
			{Tipo: constants.MeterTach, ImageRef: "s3://photos/tach.jpg", Confidence: 40},
		},
	}
	if err := db.Create(submission).Error; err != nil {
		t.Fatalf("seed submission: %v", err)
	}
	return submission
}

func TestSubmitReview_RequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	svc := newReviewService(db)
	submission := seedReviewSubmission(t, db, pilot.ID, aircraft.ID)

	response, err := svc.SubmitReview(context.Background(), pilotClaims(pilot.ID), submission.ID, &dtos.ManualReviewRequest{
		Hobbs: dec(t, "1252.5"),
		Tach:  dec(t, "1182.3"),
	})
	if err != nil {
		t.Fatalf("authorization failures are results, not errors: %v", err)
	}

	if response.Success {
		t.Fatal("non-admin review must be rejected")
	}
	if response.ErrorType != constants.ErrTypeAuthorization {
		t.Errorf("error type = %s, want %s", response.ErrorType, constants.ErrTypeAuthorization)
	}
}

func TestSubmitReview_CommitsWithForcedConfidence(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	svc := newReviewService(db)
	submission := seedReviewSubmission(t, db, pilot.ID, aircraft.ID)

	response, err := svc.SubmitReview(context.Background(), adminClaims(), submission.ID, &dtos.ManualReviewRequest{
		Hobbs: dec(t, "1252.5"),
		Tach:  dec(t, "1182.3"),
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !response.Success {
		t.Fatalf("review rejected: %s", response.ErrorMessage)
	}
	if response.Flight == nil {
		t.Fatal("expected committed flight")
	}
	if !response.Flight.DiffHobbs.Equal(dec(t, "2.5")) {
		t.Errorf("diff_hobbs = %s, want 2.5", response.Flight.DiffHobbs)
	}

	// Corrected images carry confidence 100 and the human-validated flag.
	var images []gormModels.ImageLog
	if err := db.Where("submission_id = ?", submission.ID).Find(&images).Error; err != nil {
		t.Fatal(err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	for _, img := range images {
		if img.Confidence != constants.ManualValidationConfidence {
			t.Errorf("image %s confidence = %d, want 100", img.Tipo, img.Confidence)
		}
		if !img.ManuallyValidated {
			t.Errorf("image %s should be marked manually validated", img.Tipo)
		}
		if !img.ExtractedValue.Valid {
			t.Errorf("image %s should carry the corrected value", img.Tipo)
		}
	}

	var freshSubmission gormModels.FlightSubmission
	if err := db.First(&freshSubmission, "id = ?", submission.ID).Error; err != nil {
		t.Fatal(err)
	}
	if freshSubmission.Estado != constants.StateCompletado {
		t.Errorf("estado = %s, want COMPLETADO", freshSubmission.Estado)
	}
}

func TestSubmitReview_CreatesMissingImageLog(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	svc := newReviewService(db)

	// The pilot only photographed the Hobbs meter.
	submission := &gormModels.FlightSubmission{
		PilotID:    pilot.ID,
		AircraftID: aircraft.ID,
		Estado:     constants.StateRevision,
		FlightDate: time.Now(),
		Images: []gormModels.ImageLog{
			{Tipo: constants.MeterHobbs, ImageRef: "s3://photos/hobbs.jpg", Confidence: 60},
		},
	}
	if err := db.Create(submission).Error; err != nil {
		t.Fatal(err)
	}

	response, err := svc.SubmitReview(context.Background(), adminClaims(), submission.ID, &dtos.ManualReviewRequest{
		Hobbs: dec(t, "1252.5"),
		Tach:  dec(t, "1182.3"),
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if !response.Success {
		t.Fatalf("review rejected: %s", response.ErrorMessage)
	}

	var tachCount int64
	db.Model(&gormModels.ImageLog{}).
		Where("submission_id = ? AND tipo = ?", submission.ID, constants.MeterTach).
		Count(&tachCount)
	if tachCount != 1 {
		t.Errorf("expected a TACH image log created by the correction, got %d", tachCount)
	}
}

func TestSubmitReview_RejectsTerminalSubmission(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	svc := newReviewService(db)

	submission := &gormModels.FlightSubmission{
		PilotID:    pilot.ID,
		AircraftID: aircraft.ID,
		Estado:     constants.StateCompletado,
		FlightDate: time.Now(),
	}
	if err := db.Create(submission).Error; err != nil {
		t.Fatal(err)
	}

	response, err := svc.SubmitReview(context.Background(), adminClaims(), submission.ID, &dtos.ManualReviewRequest{
		Hobbs: dec(t, "1252.5"),
		Tach:  dec(t, "1182.3"),
	})
	if err != nil {
		t.Fatalf("terminal-state failures are results, not errors: %v", err)
	}
	if response.Success {
		t.Fatal("terminal submissions cannot be reviewed")
	}
	if response.ErrorType != constants.ErrTypeValidation {
		t.Errorf("error type = %s, want %s", response.ErrorType, constants.ErrTypeValidation)
	}
}

func TestManualFlightEntry_CommitsWithoutSubmission(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	svc := newReviewService(db)

	tarifa := dec(t, "200000")
	response, err := svc.ManualFlightEntry(context.Background(), adminClaims(), &dtos.ManualFlightRequest{
		PilotID:    pilot.ID,
		AircraftID: aircraft.ID,
		FlightDate: time.Now(),
		Hobbs:      dec(t, "1252.0"),
		Tach:       dec(t, "1182.0"),
		Tarifa:     &tarifa,
	})
	if err != nil {
		t.Fatalf("manual entry: %v", err)
	}
	if !response.Success {
		t.Fatalf("manual entry rejected: %s", response.ErrorMessage)
	}

	// 2.0 * 200000, with the explicit tarifa overriding the pilot's rate.
	if !response.Flight.Costo.Equal(dec(t, "400000")) {
		t.Errorf("costo = %s, want 400000", response.Flight.Costo)
	}
}

func TestManualFlightEntry_RequiresAdmin(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)
	svc := newReviewService(db)

	response, err := svc.ManualFlightEntry(context.Background(), pilotClaims(pilot.ID), &dtos.ManualFlightRequest{
		PilotID:    pilot.ID,
		AircraftID: aircraft.ID,
		FlightDate: time.Now(),
		Hobbs:      dec(t, "1252.0"),
		Tach:       dec(t, "1182.0"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if response.Success {
		t.Fatal("non-admin manual entry must be rejected")
	}
}
