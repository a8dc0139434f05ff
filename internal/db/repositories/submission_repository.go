package repositories

import (
	"context"

	"clubaereo/bitacora/internal/constants"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new GORM-based submission repository
func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create persists a new submission with its image logs
func (r *SubmissionRepository) Create(ctx context.Context, submission *gormModels.FlightSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// GetWithImages retrieves a submission with image logs preloaded
func (r *SubmissionRepository) GetWithImages(ctx context.Context, id string) (*gormModels.FlightSubmission, error) {
	var submission gormModels.FlightSubmission

	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("id = ?", id).
		First(&submission).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, constants.NewNotFoundError("submission", id)
		}
		return nil, err
	}

	return &submission, nil
}

// UpdateEstado transitions a submission to a new lifecycle state
func (r *SubmissionRepository) UpdateEstado(ctx context.Context, id string, estado constants.SubmissionState) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.FlightSubmission{}).
		Where("id = ?", id).
		Update("estado", estado).Error
}

// SetError moves a submission to ERROR with the captured message
func (r *SubmissionRepository) SetError(ctx context.Context, id string, message string) error {
	return r.db.WithContext(ctx).
		Model(&gormModels.FlightSubmission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"estado":        constants.StateError,
			"error_message": message,
		}).Error
}

// SaveImage persists OCR extraction results or manual corrections on an image log
func (r *SubmissionRepository) SaveImage(ctx context.Context, image *gormModels.ImageLog) error {
	return r.db.WithContext(ctx).Save(image).Error
}
