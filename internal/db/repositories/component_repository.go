package repositories

import (
	"context"

	"clubaereo/bitacora/internal/constants"
	gormModels "clubaereo/bitacora/internal/models/gorm"

	"gorm.io/gorm"
)

type ComponentRepository struct {
	db *gorm.DB
}

// NewComponentRepository creates a new GORM-based component repository
func NewComponentRepository(db *gorm.DB) *ComponentRepository {
	return &ComponentRepository{db: db}
}

// GetByID retrieves a component by ID
func (r *ComponentRepository) GetByID(ctx context.Context, id string) (*gormModels.Component, error) {
	var component gormModels.Component

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&component).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, constants.NewNotFoundError("component", id)
		}
		return nil, err
	}

	return &component, nil
}

// ListByAircraft returns all components for an aircraft ordered by type
func (r *ComponentRepository) ListByAircraft(ctx context.Context, aircraftID string) ([]gormModels.Component, error) {
	var components []gormModels.Component

	err := r.db.WithContext(ctx).
		Where("aircraft_id = ?", aircraftID).
		Order("type ASC").
		Find(&components).Error

	if err != nil {
		return nil, err
	}

	return components, nil
}
