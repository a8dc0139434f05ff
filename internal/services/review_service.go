package services

import (
	"context"
	"errors"

	"clubaereo/bitacora/internal/auth"
	"clubaereo/bitacora/internal/constants"
	"clubaereo/bitacora/internal/db/repositories"
	"clubaereo/bitacora/internal/logging"
	"clubaereo/bitacora/internal/models/dtos"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"github.com/shopspring/decimal"
)

// ReviewService is the administrator's entry point into the ledger: it
// overrides OCR output with corrected readings (or enters them from
// scratch) and then drives the exact same commit procedure as the gate.
type ReviewService struct {
	submissionRepo *repositories.SubmissionRepository
	ledger         *LedgerService
}

// NewReviewService creates a new ReviewService with dependencies
func NewReviewService(submissionRepo *repositories.SubmissionRepository, ledger *LedgerService) *ReviewService {
	return &ReviewService{
		submissionRepo: submissionRepo,
		ledger:         ledger,
	}
}

// SubmitReview applies corrected HOBBS/TACH values to a submission and
// commits the flight. Images touched by the correction are marked
// human-validated with confidence forced to 100.
func (s *ReviewService) SubmitReview(
	ctx context.Context,
	claims auth.UserClaims,
	submissionID string,
	req *dtos.ManualReviewRequest,
) (*dtos.ReviewResponse, error) {
	if !isAdmin(claims) {
		return reviewFailure(constants.NewAuthorizationError("manual review requires administrator role")), nil
	}

	submission, err := s.submissionRepo.GetWithImages(ctx, submissionID)
	if err != nil {
		return reviewFailure(err), nil
	}

	if submission.Estado.IsTerminal() {
		return reviewFailure(constants.NewValidationError(
			"submission %s is already %s", submissionID, submission.Estado)), nil
	}

	corrections := map[constants.MeterType]decimal.Decimal{
		constants.MeterHobbs: req.Hobbs,
		constants.MeterTach:  req.Tach,
	}

	for tipo, value := range corrections {
		if err := s.applyCorrection(ctx, submission, tipo, value); err != nil {
			return reviewFailure(err), nil
		}
	}

	flight, err := s.ledger.CommitFlight(ctx, CommitParams{
		PilotID:        submission.PilotID,
		AircraftID:     submission.AircraftID,
		SubmissionID:   &submission.ID,
		FlightDate:     submission.FlightDate,
		NewHobbs:       req.Hobbs,
		NewTach:        req.Tach,
		Tarifa:         req.Tarifa,
		InstructorRate: req.InstructorRate,
	})
	if err != nil {
		return reviewFailure(err), nil
	}

	logging.Info("Manual review committed",
		"submission_id", submissionID,
		"flight_id", flight.ID,
		"reviewer", claims.UserID(),
	)

	return &dtos.ReviewResponse{
		OperationResult: dtos.OperationResult{Success: true},
		Flight:          flightResponse(flight),
	}, nil
}

// applyCorrection overrides the matching image log, creating one when the
// pilot never photographed that meter.
func (s *ReviewService) applyCorrection(
	ctx context.Context,
	submission *gormModels.FlightSubmission,
	tipo constants.MeterType,
	value decimal.Decimal,
) error {
	for i := range submission.Images {
		img := &submission.Images[i]
		if img.Tipo != tipo {
			continue
		}
		img.ExtractedValue = decimal.NullDecimal{Decimal: value, Valid: true}
		img.Confidence = constants.ManualValidationConfidence
		img.ManuallyValidated = true
		return s.submissionRepo.SaveImage(ctx, img)
	}

	img := gormModels.ImageLog{
		SubmissionID:      submission.ID,
		Tipo:              tipo,
		ExtractedValue:    decimal.NullDecimal{Decimal: value, Valid: true},
		Confidence:        constants.ManualValidationConfidence,
		ManuallyValidated: true,
	}
	submission.Images = append(submission.Images, img)
	return s.submissionRepo.SaveImage(ctx, &submission.Images[len(submission.Images)-1])
}

// ManualFlightEntry commits a flight with no photo submission at all
func (s *ReviewService) ManualFlightEntry(
	ctx context.Context,
	claims auth.UserClaims,
	req *dtos.ManualFlightRequest,
) (*dtos.ReviewResponse, error) {
	if !isAdmin(claims) {
		return reviewFailure(constants.NewAuthorizationError("manual flight entry requires administrator role")), nil
	}

	flight, err := s.ledger.CommitFlight(ctx, CommitParams{
		PilotID:        req.PilotID,
		AircraftID:     req.AircraftID,
		FlightDate:     req.FlightDate,
		NewHobbs:       req.Hobbs,
		NewTach:        req.Tach,
		Tarifa:         req.Tarifa,
		InstructorRate: req.InstructorRate,
	})
	if err != nil {
		return reviewFailure(err), nil
	}

	return &dtos.ReviewResponse{
		OperationResult: dtos.OperationResult{Success: true},
		Flight:          flightResponse(flight),
	}, nil
}

func isAdmin(claims auth.UserClaims) bool {
	return claims != nil && claims.Role() == constants.RoleAdmin.String()
}

func reviewFailure(err error) *dtos.ReviewResponse {
	return &dtos.ReviewResponse{OperationResult: operationFailure(err)}
}

// operationFailure maps a taxonomy error to the structured result shape
// operators see.
func operationFailure(err error) dtos.OperationResult {
	return dtos.OperationResult{
		Success:      false,
		ErrorType:    errorTypeOf(err),
		ErrorMessage: err.Error(),
	}
}

// errorTypeOf labels an error with its taxonomy bucket
func errorTypeOf(err error) string {
	var ve *constants.ValidationError
	var nf *constants.NotFoundError
	var ae *constants.AuthorizationError
	var ee *constants.ExternalServiceError

	switch {
	case errors.As(err, &ve):
		return constants.ErrTypeValidation
	case errors.As(err, &nf):
		return constants.ErrTypeNotFound
	case errors.As(err, &ae):
		return constants.ErrTypeAuthorization
	case errors.As(err, &ee):
		return constants.ErrTypeExternalService
	default:
		return constants.ErrTypePersistence
	}
}
