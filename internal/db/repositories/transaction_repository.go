package repositories

import (
	"context"

	gormModels "clubaereo/bitacora/internal/models/gorm"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new GORM-based transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListByPilot returns a pilot's transactions, newest first
func (r *TransactionRepository) ListByPilot(ctx context.Context, pilotID string, limit int) ([]gormModels.Transaction, error) {
	var txs []gormModels.Transaction

	query := r.db.WithContext(ctx).
		Where("pilot_id = ?", pilotID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}

	return txs, nil
}

// GetByFlight returns the transaction linked to a flight, or nil
func (r *TransactionRepository) GetByFlight(ctx context.Context, flightID string) (*gormModels.Transaction, error) {
	var tx gormModels.Transaction

	err := r.db.WithContext(ctx).
		Where("flight_id = ?", flightID).
		First(&tx).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &tx, nil
}
