package services

import (
	"context"

	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/logging"
	"clubaereo/bitacora/internal/models/dtos"
	gormModels "clubaereo/bitacora/internal/models/gorm"
	"clubaereo/bitacora/internal/providers"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SubmissionService drives a submission through
// PENDIENTE → PROCESANDO → {REVISION | COMPLETADO | ERROR}: per-image OCR
// extraction, the confidence gate, and the conditional ledger commit.
type SubmissionService struct {
	db             *gorm.DB
	submissionRepo *repositories.SubmissionRepository
	ocr            providers.OCRProvider
	ledger         *LedgerService
}

// NewSubmissionService creates a new SubmissionService with dependencies
func NewSubmissionService(
	db *gorm.DB,
	submissionRepo *repositories.SubmissionRepository,
	ocr providers.OCRProvider,
	ledger *LedgerService,
) *SubmissionService {
	return &SubmissionService{
		db:             db,
		submissionRepo: submissionRepo,
		ocr:            ocr,
		ledger:         ledger,
	}
}

// CreateSubmission opens a new submission in PENDIENTE with its image logs
func (s *SubmissionService) CreateSubmission(ctx context.Context, req *dtos.CreateSubmissionRequest) (*gormModels.FlightSubmission, error) {
	if req.PilotID == "" || req.AircraftID == "" {
		return nil, constants.NewValidationError("pilot_id and aircraft_id are required")
	}
	if len(req.Images) == 0 {
		return nil, constants.NewValidationError("at least one image is required")
	}

	submission := &gormModels.FlightSubmission{
		PilotID:    req.PilotID,
		AircraftID: req.AircraftID,
		Estado:     constants.StatePendiente,
		FlightDate: req.FlightDate,
	}
	for _, img := range req.Images {
		tipo := constants.MeterType(img.Tipo)
		if tipo != constants.MeterHobbs && tipo != constants.MeterTach {
			return nil, constants.NewValidationError("unknown meter type: %s", img.Tipo)
		}
		submission.Images = append(submission.Images, gormModels.ImageLog{
			Tipo:     tipo,
			ImageRef: img.ImageRef,
		})
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, &constants.PersistenceError{Op: "create submission", Err: err}
	}

	return submission, nil
}

// ProcessSubmission runs the full automatic pipeline for one submission.
// Unexpected failures move the submission to ERROR for operator attention;
// they are reflected in the returned status, never raised to the caller.
func (s *SubmissionService) ProcessSubmission(ctx context.Context, submissionID string) (*dtos.SubmissionStatusResponse, error) {
	submission, err := s.submissionRepo.GetWithImages(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if submission.Estado != constants.StatePendiente {
		return nil, constants.NewValidationError(
			"submission %s is %s, only PENDIENTE submissions can be processed",
			submissionID, submission.Estado)
	}

	if err := s.submissionRepo.UpdateEstado(ctx, submissionID, constants.StateProcesando); err != nil {
		return nil, &constants.PersistenceError{Op: "mark submission processing", Err: err}
	}

	s.extractAll(ctx, submission)

	for i := range submission.Images {
		if err := s.submissionRepo.SaveImage(ctx, &submission.Images[i]); err != nil {
			return s.failSubmission(ctx, submission, err)
		}
	}

	if !gateApproves(submission.Images) {
		if err := s.submissionRepo.UpdateEstado(ctx, submissionID, constants.StateRevision); err != nil {
			return s.failSubmission(ctx, submission, err)
		}
		submission.Estado = constants.StateRevision
		logging.Info("Submission sent to manual review", "submission_id", submissionID)
		return s.buildStatus(submission, nil), nil
	}

	hobbs, tach, ok := extractedReadings(submission.Images)
	if !ok {
		// Gate passed but a meter is missing entirely; a human must decide.
		if err := s.submissionRepo.UpdateEstado(ctx, submissionID, constants.StateRevision); err != nil {
			return s.failSubmission(ctx, submission, err)
		}
		submission.Estado = constants.StateRevision
		return s.buildStatus(submission, nil), nil
	}

	flight, err := s.ledger.CommitFlight(ctx, CommitParams{
		PilotID:      submission.PilotID,
		AircraftID:   submission.AircraftID,
		SubmissionID: &submission.ID,
		FlightDate:   submission.FlightDate,
		NewHobbs:     hobbs,
		NewTach:      tach,
	})
	if err != nil {
		return s.failSubmission(ctx, submission, err)
	}

	submission.Estado = constants.StateCompletado
	logging.Info("Submission auto-approved and committed",
		"submission_id", submissionID,
		"flight_id", flight.ID,
	)
	return s.buildStatus(submission, flight), nil
}

// extractAll runs OCR for every image concurrently. A per-image failure or
// timeout is captured as confidence 0 and never aborts the batch.
func (s *SubmissionService) extractAll(ctx context.Context, submission *gormModels.FlightSubmission) {
	g, gctx := errgroup.WithContext(ctx)

	for i := range submission.Images {
		img := &submission.Images[i]
		g.Go(func() error {
			result, err := s.ocr.Extract(gctx, img.ImageRef, img.Tipo)
			if err != nil {
				logging.Warn("OCR extraction failed",
					"submission_id", submission.ID,
					"image_ref", img.ImageRef,
					"tipo", img.Tipo.String(),
					"error", err.Error(),
				)
				img.ExtractedValue = decimal.NullDecimal{}
				img.Confidence = 0
				return nil
			}

			img.ExtractedValue = decimal.NullDecimal{Decimal: result.Value, Valid: true}
			img.Confidence = result.Confidence
			return nil
		})
	}

	_ = g.Wait()
}

// gateApproves implements the confidence gate: auto-approve iff every image
// has a non-null extracted value and confidence at or above the threshold.
func gateApproves(images []gormModels.ImageLog) bool {
	if len(images) == 0 {
		return false
	}
	for _, img := range images {
		if !img.ExtractedValue.Valid {
			return false
		}
		if img.Confidence < constants.AutoApprovalConfidence {
			return false
		}
	}
	return true
}

// extractedReadings pulls the HOBBS and TACH values out of the image set
func extractedReadings(images []gormModels.ImageLog) (hobbs, tach decimal.Decimal, ok bool) {
	var haveHobbs, haveTach bool
	for _, img := range images {
		if !img.ExtractedValue.Valid {
			continue
		}
		switch img.Tipo {
		case constants.MeterHobbs:
			hobbs = img.ExtractedValue.Decimal
			haveHobbs = true
		case constants.MeterTach:
			tach = img.ExtractedValue.Decimal
			haveTach = true
		}
	}
	return hobbs, tach, haveHobbs && haveTach
}

// failSubmission downgrades the submission to ERROR with the captured
// message and reports the terminal status to the caller.
func (s *SubmissionService) failSubmission(ctx context.Context, submission *gormModels.FlightSubmission, cause error) (*dtos.SubmissionStatusResponse, error) {
	logging.Error("Submission processing failed",
		"submission_id", submission.ID,
		"error", cause.Error(),
	)

	if err := s.submissionRepo.SetError(ctx, submission.ID, cause.Error()); err != nil {
		return nil, &constants.PersistenceError{Op: "mark submission error", Err: err}
	}

	msg := cause.Error()
	submission.Estado = constants.StateError
	submission.ErrorMessage = &msg
	return s.buildStatus(submission, nil), nil
}

// GetStatus returns the read model for presentation layers
func (s *SubmissionService) GetStatus(ctx context.Context, submissionID string) (*dtos.SubmissionStatusResponse, error) {
	submission, err := s.submissionRepo.GetWithImages(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	var flight *gormModels.Flight
	var found gormModels.Flight
	err = s.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&found).Error
	if err == nil {
		flight = &found
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	return s.buildStatus(submission, flight), nil
}

func (s *SubmissionService) buildStatus(submission *gormModels.FlightSubmission, flight *gormModels.Flight) *dtos.SubmissionStatusResponse {
	resp := &dtos.SubmissionStatusResponse{
		ID:           submission.ID,
		Estado:       submission.Estado.String(),
		ErrorMessage: submission.ErrorMessage,
		Images:       make([]dtos.ImageStatus, 0, len(submission.Images)),
		Flight:       flightResponse(flight),
	}

	for _, img := range submission.Images {
		status := dtos.ImageStatus{
			Tipo:           img.Tipo.String(),
			Confianza:      img.Confidence,
			ValidadoManual: img.ManuallyValidated,
		}
		if img.ExtractedValue.Valid {
			v := img.ExtractedValue.Decimal
			status.ValorExtraido = &v
		}
		resp.Images = append(resp.Images, status)
	}

	return resp
}
