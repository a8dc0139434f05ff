package dtos

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSubmissionRequest opens a new meter-photo submission in PENDIENTE.
type CreateSubmissionRequest struct {
	PilotID    string               `json:"pilot_id"`
	AircraftID string               `json:"aircraft_id"`
	FlightDate time.Time            `json:"flight_date"`
	Images     []SubmissionImageRef `json:"images"`
}

type SubmissionImageRef struct {
	Tipo     string `json:"tipo"` // HOBBS | TACH
	ImageRef string `json:"image_ref"`
}

// ManualReviewRequest carries an administrator's corrected readings for a
// submission sitting in REVISION (or PENDIENTE when OCR was skipped).
type ManualReviewRequest struct {
	Hobbs          decimal.Decimal  `json:"hobbs"`
	Tach           decimal.Decimal  `json:"tach"`
	Tarifa         *decimal.Decimal `json:"tarifa,omitempty"`
	InstructorRate *decimal.Decimal `json:"instructor_rate,omitempty"`
}

// ManualFlightRequest is a direct flight entry with no photo submission.
type ManualFlightRequest struct {
	PilotID        string           `json:"pilot_id"`
	AircraftID     string           `json:"aircraft_id"`
	FlightDate     time.Time        `json:"flight_date"`
	Hobbs          decimal.Decimal  `json:"hobbs"`
	Tach           decimal.Decimal  `json:"tach"`
	Tarifa         *decimal.Decimal `json:"tarifa,omitempty"`
	InstructorRate *decimal.Decimal `json:"instructor_rate,omitempty"`
}

// FlightCounterEditRequest rewrites the end counters of a committed flight.
type FlightCounterEditRequest struct {
	HobbsFin decimal.Decimal `json:"hobbs_fin"`
	TachFin  decimal.Decimal `json:"tach_fin"`
}

// OverhaulRequest registers a maintenance overhaul anchored to airframe hours.
type OverhaulRequest struct {
	ComponentID   string          `json:"component_id"`
	AirframeHours decimal.Decimal `json:"airframe_hours"`
	Date          time.Time       `json:"date"`
	Notes         *string         `json:"notes,omitempty"`
}
