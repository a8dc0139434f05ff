package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/models/dtos"
	gormModels "clubaereo/bitacora/internal/models/gorm"
	"clubaereo/bitacora/internal/providers"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Mock OCRProvider
type mockOCRProvider struct {
	extractFunc func(ctx context.Context, imageRef string, meterType constants.MeterType) (*providers.MeterExtraction, error)
}

func (m *mockOCRProvider) Extract(ctx context.Context, imageRef string, meterType constants.MeterType) (*providers.MeterExtraction, error) {
	return m.extractFunc(ctx, imageRef, meterType)
}

func (m *mockOCRProvider) GetProviderType() string {
	return "MOCK"
}

func newSubmissionService(db *gorm.DB, ocr providers.OCRProvider) *SubmissionService {
	return NewSubmissionService(db, repositories.NewSubmissionRepository(db), ocr, newLedger(db))
}

func createSubmission(t *testing.T, svc *SubmissionService, pilotID, aircraftID string) *gormModels.FlightSubmission {
	t.Helper()
	submission, err := svc.CreateSubmission(context.Background(), &dtos.CreateSubmissionRequest{
		PilotID:    pilotID,
		AircraftID: aircraftID,
		FlightDate: time.Now(),
		Images: []dtos.SubmissionImageRef{
			{Tipo: "HOBBS", ImageRef: "s3://photos/hobbs.jpg"},
			{Tipo: "TACH", ImageRef: "s3://photos/tach.jpg"},
		},
	})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
	return submission
}

// ocrReadings returns a mock that answers fixed values and confidences per
// meter type.
func ocrReadings(hobbs, tach string, hobbsConf, tachConf int) *mockOCRProvider {
	return &mockOCRProvider{
		extractFunc: func(ctx context.Context, imageRef string, meterType constants.MeterType) (*providers.MeterExtraction, error) {
			if meterType == constants.MeterHobbs {
				v, _ := decimal.NewFromString(hobbs)
				return &providers.MeterExtraction{Value: v, Confidence: hobbsConf}, nil
			}
			v, _ := decimal.NewFromString(tach)
			return &providers.MeterExtraction{Value: v, Confidence: tachConf}, nil
		},
	}
}

func TestCreateSubmission_RejectsUnknownMeterType(t *testing.T) {
	db := setupTestDB(t)
	_, pilot := seedClub(t, db)
	svc := newSubmissionService(db, ocrReadings("0", "0", 0, 0))

	_, err := svc.CreateSubmission(context.Background(), &dtos.CreateSubmissionRequest{
		PilotID:    pilot.ID,
		AircraftID: "some-aircraft",
		FlightDate: time.Now(),
		Images:     []dtos.SubmissionImageRef{{Tipo: "ALTIMETER", ImageRef: "x"}},
	})

	var ve *constants.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestProcessSubmission_LowConfidenceGoesToReview(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)

	// Tach confidence 80 is below the auto-approval threshold of 85.
	svc := newSubmissionService(db, ocrReadings("1252.5", "1182.3", 90, 80))
	submission := createSubmission(t, svc, pilot.ID, aircraft.ID)

	status, err := svc.ProcessSubmission(context.Background(), submission.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if status.Estado != constants.StateRevision.String() {
		t.Errorf("estado = %s, want REVISION", status.Estado)
	}
	if status.Flight != nil {
		t.Error("no flight should be committed for a gated submission")
	}

	// Extracted values are persisted even when the gate holds the submission.
	var images []gormModels.ImageLog
	if err := db.Where("submission_id = ?", submission.ID).Find(&images).Error; err != nil {
		t.Fatal(err)
	}
	for _, img := range images {
		if !img.ExtractedValue.Valid {
			t.Errorf("image %s should have an extracted value", img.Tipo)
		}
	}

	var flightCount int64
	db.Model(&gormModels.Flight{}).Count(&flightCount)
	if flightCount != 0 {
		t.Errorf("expected 0 flights, got %d", flightCount)
	}
}

func TestProcessSubmission_AutoApprovesAndCommits(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)

	svc := newSubmissionService(db, ocrReadings("1252.5", "1182.3", 95, 97))
	submission := createSubmission(t, svc, pilot.ID, aircraft.ID)

	status, err := svc.ProcessSubmission(context.Background(), submission.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if status.Estado != constants.StateCompletado.String() {
		t.Fatalf("estado = %s, want COMPLETADO", status.Estado)
	}
	if status.Flight == nil {
		t.Fatal("expected committed flight in status")
	}
	if !status.Flight.DiffHobbs.Equal(dec(t, "2.5")) {
		t.Errorf("diff_hobbs = %s, want 2.5", status.Flight.DiffHobbs)
	}

	var freshSubmission gormModels.FlightSubmission
	if err := db.First(&freshSubmission, "id = ?", submission.ID).Error; err != nil {
		t.Fatal(err)
	}
	if freshSubmission.Estado != constants.StateCompletado {
		t.Errorf("persisted estado = %s, want COMPLETADO", freshSubmission.Estado)
	}

	var flight gormModels.Flight
	if err := db.Where("submission_id = ?", submission.ID).First(&flight).Error; err != nil {
		t.Fatalf("flight not linked to submission: %v", err)
	}
}

func TestProcessSubmission_OCRFailureBecomesZeroConfidence(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)

	ocr := &mockOCRProvider{
		extractFunc: func(ctx context.Context, imageRef string, meterType constants.MeterType) (*providers.MeterExtraction, error) {
			if meterType == constants.MeterTach {
				return nil, &constants.ExternalServiceError{Service: "ocr", Err: errors.New("timeout")}
			}
			return &providers.MeterExtraction{Value: dec(t, "1252.5"), Confidence: 95}, nil
		},
	}
	svc := newSubmissionService(db, ocr)
	submission := createSubmission(t, svc, pilot.ID, aircraft.ID)

	status, err := svc.ProcessSubmission(context.Background(), submission.ID)
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	// A failed extraction never aborts the batch; it gates the submission.
	if status.Estado != constants.StateRevision.String() {
		t.Errorf("estado = %s, want REVISION", status.Estado)
	}

	var tachImage gormModels.ImageLog
	if err := db.Where("submission_id = ? AND tipo = ?", submission.ID, constants.MeterTach).First(&tachImage).Error; err != nil {
		t.Fatal(err)
	}
	if tachImage.Confidence != 0 {
		t.Errorf("tach confidence = %d, want 0", tachImage.Confidence)
	}
	if tachImage.ExtractedValue.Valid {
		t.Error("tach extracted value should be null after OCR failure")
	}
}

func TestProcessSubmission_CommitFailureMarksError(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)

	// High confidence but a Hobbs reading below the aircraft's counters:
	// the gate passes, the ledger rejects.
	svc := newSubmissionService(db, ocrReadings("1200.0", "1182.3", 95, 97))
	submission := createSubmission(t, svc, pilot.ID, aircraft.ID)

	status, err := svc.ProcessSubmission(context.Background(), submission.ID)
	if err != nil {
		t.Fatalf("commit failures should be reflected in the status, got err %v", err)
	}

	if status.Estado != constants.StateError.String() {
		t.Fatalf("estado = %s, want ERROR", status.Estado)
	}
	if status.ErrorMessage == nil || *status.ErrorMessage == "" {
		t.Error("expected a captured error message")
	}

	var freshSubmission gormModels.FlightSubmission
	if err := db.First(&freshSubmission, "id = ?", submission.ID).Error; err != nil {
		t.Fatal(err)
	}
	if freshSubmission.Estado != constants.StateError {
		t.Errorf("persisted estado = %s, want ERROR", freshSubmission.Estado)
	}
}

func TestProcessSubmission_OnlyPendienteIsProcessable(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)

	svc := newSubmissionService(db, ocrReadings("1252.5", "1182.3", 95, 97))
	submission := createSubmission(t, svc, pilot.ID, aircraft.ID)

	if _, err := svc.ProcessSubmission(context.Background(), submission.ID); err != nil {
		t.Fatalf("first process: %v", err)
	}

	_, err := svc.ProcessSubmission(context.Background(), submission.ID)
	var ve *constants.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError on reprocessing, got %v", err)
	}
}

func TestGetStatus_IncludesCommittedFlight(t *testing.T) {
	db := setupTestDB(t)
	aircraft, pilot := seedClub(t, db)

	svc := newSubmissionService(db, ocrReadings("1252.5", "1182.3", 95, 97))
	submission := createSubmission(t, svc, pilot.ID, aircraft.ID)

	if _, err := svc.ProcessSubmission(context.Background(), submission.ID); err != nil {
		t.Fatalf("process: %v", err)
	}

	status, err := svc.GetStatus(context.Background(), submission.ID)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}

	if status.Flight == nil {
		t.Fatal("expected flight in status read model")
	}
	if len(status.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(status.Images))
	}
	for _, img := range status.Images {
		if img.ValorExtraido == nil {
			t.Errorf("image %s missing extracted value", img.Tipo)
		}
		if img.Confianza < constants.AutoApprovalConfidence {
			t.Errorf("image %s confidence %d below threshold", img.Tipo, img.Confianza)
		}
	}
}
