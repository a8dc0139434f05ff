package repositories

import (
	"context"

	"clubaereo/bitacora/internal/constants"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AircraftRepository struct {
	db *gorm.DB
}

// NewAircraftRepository creates a new GORM-based aircraft repository
func NewAircraftRepository(db *gorm.DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// GetByID retrieves an aircraft by ID
func (r *AircraftRepository) GetByID(ctx context.Context, id string) (*gormModels.Aircraft, error) {
	var aircraft gormModels.Aircraft

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&aircraft).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, constants.NewNotFoundError("aircraft", id)
		}
		return nil, err
	}

	return &aircraft, nil
}

// GetByTailNumber retrieves an aircraft by tail number
func (r *AircraftRepository) GetByTailNumber(ctx context.Context, tail string) (*gormModels.Aircraft, error) {
	var aircraft gormModels.Aircraft

	err := r.db.WithContext(ctx).
		Where("tail_number = ?", tail).
		First(&aircraft).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, constants.NewNotFoundError("aircraft", tail)
		}
		return nil, err
	}

	return &aircraft, nil
}

// LockForCommit loads an aircraft inside tx, taking a FOR UPDATE row lock on
// Postgres so concurrent ledger commits for the same aircraft serialize.
// SQLite (tests) has no row locks; its single-writer model covers the same
// guarantee there.
func LockForCommit(tx *gorm.DB, aircraftID string) (*gormModels.Aircraft, error) {
	var aircraft gormModels.Aircraft

	query := tx.Where("id = ?", aircraftID)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := query.First(&aircraft).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, constants.NewNotFoundError("aircraft", aircraftID)
		}
		return nil, err
	}

	return &aircraft, nil
}

// List returns all active aircraft with components preloaded
func (r *AircraftRepository) List(ctx context.Context) ([]gormModels.Aircraft, error) {
	var aircraft []gormModels.Aircraft

	err := r.db.WithContext(ctx).
		Preload("Components").
		Where("is_active = ?", true).
		Order("tail_number ASC").
		Find(&aircraft).Error

	if err != nil {
		return nil, err
	}

	return aircraft, nil
}
