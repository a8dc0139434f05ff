package gorm

import (
	"time"

	"clubaereo/bitacora/internal/constants"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Component is a trackable aircraft subsystem with its own wear clock.
// When an overhaul anchor is set, AccumulatedHours means "hours since
// overhaul" and is derived from airframe hours relative to the anchor.
type Component struct {
	ID               string                  `gorm:"column:id;primaryKey;type:uuid"`
	AircraftID       string                  `gorm:"column:aircraft_id;type:uuid;index"`
	Type             constants.ComponentType `gorm:"column:type;type:component_type"`
	Name             string                  `gorm:"column:name"`
	AccumulatedHours decimal.Decimal         `gorm:"column:accumulated_hours;type:decimal(12,1)"`
	TBOLimit         decimal.Decimal         `gorm:"column:tbo_limit;type:decimal(12,1)"`
	OverhaulHours    decimal.NullDecimal     `gorm:"column:overhaul_hours;type:decimal(12,1)"`
	OverhaulDate     *time.Time              `gorm:"column:overhaul_date"`
	OverhaulNotes    *string                 `gorm:"column:overhaul_notes"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Aircraft Aircraft `gorm:"foreignKey:AircraftID"`
}

// TableName specifies the table name for GORM
func (Component) TableName() string {
	return "components"
}

// BeforeCreate assigns a UUID so both Postgres and SQLite tests behave alike
func (c *Component) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
