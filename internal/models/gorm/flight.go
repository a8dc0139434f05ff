package gorm

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Flight is the committed, billable unit of aircraft usage. Diffs, cost and
// the component-hours snapshots are computed at commit time and never
// re-derived on read.
type Flight struct {
	ID             string          `gorm:"column:id;primaryKey;type:uuid"`
	PilotID        string          `gorm:"column:pilot_id;type:uuid;index"`
	AircraftID     string          `gorm:"column:aircraft_id;type:uuid;index"`
	SubmissionID   *string         `gorm:"column:submission_id;type:uuid"`
	FlightDate     time.Time       `gorm:"column:flight_date;index"`
	HobbsInicio    decimal.Decimal `gorm:"column:hobbs_inicio;type:decimal(12,1)"`
	HobbsFin       decimal.Decimal `gorm:"column:hobbs_fin;type:decimal(12,1)"`
	TachInicio     decimal.Decimal `gorm:"column:tach_inicio;type:decimal(12,1)"`
	TachFin        decimal.Decimal `gorm:"column:tach_fin;type:decimal(12,1)"`
	DiffHobbs      decimal.Decimal `gorm:"column:diff_hobbs;type:decimal(12,1)"`
	DiffTach       decimal.Decimal `gorm:"column:diff_tach;type:decimal(12,1)"`
	Costo          decimal.Decimal `gorm:"column:costo;type:decimal(14,2)"`
	Tarifa         decimal.Decimal `gorm:"column:tarifa;type:decimal(14,2)"`
	InstructorRate decimal.Decimal `gorm:"column:instructor_rate;type:decimal(14,2)"`
	AirframeHours  decimal.Decimal `gorm:"column:airframe_hours;type:decimal(12,1)"`
	EngineHours    decimal.Decimal `gorm:"column:engine_hours;type:decimal(12,1)"`
	PropellerHours decimal.Decimal `gorm:"column:propeller_hours;type:decimal(12,1)"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Pilot    User     `gorm:"foreignKey:PilotID"`
	Aircraft Aircraft `gorm:"foreignKey:AircraftID"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

// BeforeCreate assigns a UUID so both Postgres and SQLite tests behave alike
func (f *Flight) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
