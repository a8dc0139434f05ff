package dtos

import (
	"time"

	"github.com/shopspring/decimal"
)

// APIResponse is the standard JSON envelope for all handlers.
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
	Data         any    `json:"data,omitempty"`
}

// SubmissionStatusResponse is the read model consumed by presentation layers.
type SubmissionStatusResponse struct {
	ID           string               `json:"id"`
	Estado       string               `json:"estado"`
	ErrorMessage *string              `json:"errorMessage,omitempty"`
	Images       []ImageStatus        `json:"images"`
	Flight       *FlightResponse      `json:"flight,omitempty"`
}

type ImageStatus struct {
	Tipo           string           `json:"tipo"`
	ValorExtraido  *decimal.Decimal `json:"valorExtraido"`
	Confianza      int              `json:"confianza"`
	ValidadoManual bool             `json:"validadoManual"`
}

// FlightResponse mirrors a committed flight row for read surfaces.
type FlightResponse struct {
	ID             string          `json:"id"`
	PilotID        string          `json:"pilot_id"`
	AircraftID     string          `json:"aircraft_id"`
	FlightDate     time.Time       `json:"flight_date"`
	HobbsInicio    decimal.Decimal `json:"hobbs_inicio"`
	HobbsFin       decimal.Decimal `json:"hobbs_fin"`
	TachInicio     decimal.Decimal `json:"tach_inicio"`
	TachFin        decimal.Decimal `json:"tach_fin"`
	DiffHobbs      decimal.Decimal `json:"diff_hobbs"`
	DiffTach       decimal.Decimal `json:"diff_tach"`
	Costo          decimal.Decimal `json:"costo"`
	AirframeHours  decimal.Decimal `json:"airframe_hours"`
	EngineHours    decimal.Decimal `json:"engine_hours"`
	PropellerHours decimal.Decimal `json:"propeller_hours"`
}

// OperationResult is the structured outcome of manual/administrative
// operations: a human operator sees an actionable message, never a crash.
type OperationResult struct {
	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// ReviewResponse reports the result of a manual review commit.
type ReviewResponse struct {
	OperationResult
	Flight *FlightResponse `json:"flight,omitempty"`
}

// OverhaulResponse reports the registered anchor and the hours the component
// has accrued since it, for display.
type OverhaulResponse struct {
	OperationResult
	ComponentID        string          `json:"component_id,omitempty"`
	HoursSinceOverhaul decimal.Decimal `json:"hours_since_overhaul"`
	FlightsRecomputed  int             `json:"flights_recomputed"`
}

// RatioBucketResponse is one predictor bucket.
type RatioBucketResponse struct {
	Bucket      string  `json:"bucket"`
	Samples     int     `json:"samples"`
	AvgRatio    float64 `json:"avg_ratio"`
	MedianRatio float64 `json:"median_ratio"`
	Confidence  string  `json:"confidence"`
}

// RatioPredictionResponse answers a predict(tach_delta) query.
type RatioPredictionResponse struct {
	TachDelta      float64 `json:"tach_delta"`
	ExpectedRatio  float64 `json:"expected_ratio"`
	PredictedHobbs float64 `json:"predicted_hobbs"`
	Bucket         string  `json:"bucket"`
	Confidence     string  `json:"confidence"`
	UsedFallback   bool    `json:"used_fallback"`
	BandLow        float64 `json:"band_low"`
	BandHigh       float64 `json:"band_high"`
}

// ComponentStatusResponse is the TBO read model.
type ComponentStatusResponse struct {
	ID                 string           `json:"id"`
	Type               string           `json:"type"`
	Name               string           `json:"name"`
	AccumulatedHours   decimal.Decimal  `json:"accumulated_hours"`
	TBOLimit           decimal.Decimal  `json:"tbo_limit"`
	RemainingHours     decimal.Decimal  `json:"remaining_hours"`
	OverhaulHours      *decimal.Decimal `json:"overhaul_hours,omitempty"`
	OverhaulDate       *time.Time       `json:"overhaul_date,omitempty"`
}

// MonthlyActivityRow aggregates flying per calendar month (sqlx read).
type MonthlyActivityRow struct {
	Month      string          `db:"month" json:"month"`
	Flights    int             `db:"flights" json:"flights"`
	HobbsHours decimal.Decimal `db:"hobbs_hours" json:"hobbs_hours"`
	TachHours  decimal.Decimal `db:"tach_hours" json:"tach_hours"`
	Billed     decimal.Decimal `db:"billed" json:"billed"`
}

// StatementResponse lists a pilot's transactions with the running balance.
type StatementResponse struct {
	PilotID      string          `json:"pilot_id"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []StatementRow  `json:"transactions"`
}

type StatementRow struct {
	ID        string          `json:"id"`
	FlightID  *string         `json:"flight_id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Concept   string          `json:"concept"`
	CreatedAt time.Time       `json:"created_at"`
}
