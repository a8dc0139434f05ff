package gorm

import (
	"time"

	"clubaereo/bitacora/internal/constants"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FlightSubmission is one pilot-initiated meter-photo upload working its way
// through PENDIENTE → PROCESANDO → {REVISION | COMPLETADO | ERROR}.
type FlightSubmission struct {
	ID           string                    `gorm:"column:id;primaryKey;type:uuid"`
	PilotID      string                    `gorm:"column:pilot_id;type:uuid;index"`
	AircraftID   string                    `gorm:"column:aircraft_id;type:uuid;index"`
	Estado       constants.SubmissionState `gorm:"column:estado;type:submission_state;default:PENDIENTE"`
	ErrorMessage *string                   `gorm:"column:error_message"`
	FlightDate   time.Time                 `gorm:"column:flight_date"`
	CreatedAt    time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                 `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Images   []ImageLog `gorm:"foreignKey:SubmissionID"`
	Pilot    User       `gorm:"foreignKey:PilotID"`
	Aircraft Aircraft   `gorm:"foreignKey:AircraftID"`
}

// TableName specifies the table name for GORM
func (FlightSubmission) TableName() string {
	return "flight_submissions"
}

// BeforeCreate assigns a UUID so both Postgres and SQLite tests behave alike
func (s *FlightSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ImageLog records one meter photo and what the recognizer extracted from it.
type ImageLog struct {
	ID                string              `gorm:"column:id;primaryKey;type:uuid"`
	SubmissionID      string              `gorm:"column:submission_id;type:uuid;index"`
	Tipo              constants.MeterType `gorm:"column:tipo"`
	ImageRef          string              `gorm:"column:image_ref"`
	ExtractedValue    decimal.NullDecimal `gorm:"column:extracted_value;type:decimal(12,1)"`
	Confidence        int                 `gorm:"column:confidence;default:0"`
	ManuallyValidated bool                `gorm:"column:manually_validated;default:false"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ImageLog) TableName() string {
	return "image_logs"
}

// BeforeCreate assigns a UUID so both Postgres and SQLite tests behave alike
func (i *ImageLog) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
