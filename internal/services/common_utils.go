package services

import (
	gormModels "clubaereo/bitacora/internal/models/gorm"
	"clubaereo/bitacora/internal/models/dtos"
)

// flightResponse maps a committed flight row to its read model
func flightResponse(f *gormModels.Flight) *dtos.FlightResponse {
	if f == nil {
		return nil
	}
	return &dtos.FlightResponse{
		ID:             f.ID,
		PilotID:        f.PilotID,
		AircraftID:     f.AircraftID,
		FlightDate:     f.FlightDate,
		HobbsInicio:    f.HobbsInicio,
		HobbsFin:       f.HobbsFin,
		TachInicio:     f.TachInicio,
		TachFin:        f.TachFin,
		DiffHobbs:      f.DiffHobbs,
		DiffTach:       f.DiffTach,
		Costo:          f.Costo,
		AirframeHours:  f.AirframeHours,
		EngineHours:    f.EngineHours,
		PropellerHours: f.PropellerHours,
	}
}
