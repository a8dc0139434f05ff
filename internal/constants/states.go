package constants

import (
	"database/sql/driver"
	"fmt"
)

// SubmissionState mirrors the Postgres ENUM 'submission_state'
type SubmissionState string

const (
	StatePendiente  SubmissionState = "PENDIENTE"
	StateProcesando SubmissionState = "PROCESANDO"
	StateRevision   SubmissionState = "REVISION"
	StateCompletado SubmissionState = "COMPLETADO"
	StateError      SubmissionState = "ERROR"
)

func (s SubmissionState) String() string { return string(s) }

// IsTerminal reports whether no further transitions are allowed from s.
func (s SubmissionState) IsTerminal() bool {
	return s == StateCompletado || s == StateError
}

// Scan implements the sql.Scanner interface
func (s *SubmissionState) Scan(src interface{}) error {
	if src == nil {
		*s = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*s = SubmissionState(v)
	case []byte:
		*s = SubmissionState(v)
	default:
		return fmt.Errorf("SubmissionState: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s SubmissionState) Value() (driver.Value, error) { return string(s), nil }

// MeterType identifies which physical counter an image captures
type MeterType string

const (
	MeterHobbs MeterType = "HOBBS"
	MeterTach  MeterType = "TACH"
)

func (m MeterType) String() string { return string(m) }

// ComponentType mirrors the Postgres ENUM 'component_type'
type ComponentType string

const (
	ComponentAirframe  ComponentType = "AIRFRAME"
	ComponentEngine    ComponentType = "ENGINE"
	ComponentPropeller ComponentType = "PROPELLER"
)

func (c ComponentType) String() string { return string(c) }

// Scan implements the sql.Scanner interface
func (c *ComponentType) Scan(src interface{}) error {
	if src == nil {
		*c = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*c = ComponentType(v)
	case []byte:
		*c = ComponentType(v)
	default:
		return fmt.Errorf("ComponentType: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (c ComponentType) Value() (driver.Value, error) { return string(c), nil }
