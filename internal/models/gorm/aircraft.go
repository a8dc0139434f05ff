package gorm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Aircraft holds the denormalized "current" counters. The Flight history is
// authoritative for validation; these fields exist for display only.
type Aircraft struct {
	ID           string          `gorm:"column:id;primaryKey;type:uuid"`
	TailNumber   string          `gorm:"column:tail_number;uniqueIndex"`
	CurrentHobbs decimal.Decimal `gorm:"column:current_hobbs;type:decimal(12,1)"`
	CurrentTach  decimal.Decimal `gorm:"column:current_tach;type:decimal(12,1)"`
	IsActive     bool            `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Components []Component `gorm:"foreignKey:AircraftID"`
}

// TableName specifies the table name for GORM
func (Aircraft) TableName() string {
	return "aircraft"
}

// BeforeCreate assigns a UUID so both Postgres and SQLite tests behave alike
func (a *Aircraft) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
