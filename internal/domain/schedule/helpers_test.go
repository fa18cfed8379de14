package schedule

import (
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

var brt = time.FixedZone("BRT", -3*60*60)

func day() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, brt)
}

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, brt)
}

func appt(id string, prof uint, start time.Time, dur int, status string) models.Appointment {
	ap := models.Appointment{
		ID:              id,
		ProfessionalID:  prof,
		StartAt:         start,
		DurationMinutes: dur,
		Status:          status,
	}
	ap.EndAt = ap.End()
	return ap
}

func blackout(prof uint, from, to, timeStart, timeEnd string) models.Blackout {
	return models.Blackout{
		ID:             "bl-" + timeStart,
		ProfessionalID: prof,
		DateStart:      from,
		DateEnd:        to,
		TimeStart:      timeStart,
		TimeEnd:        timeEnd,
		Reason:         "Almoço",
	}
}

func stateAt(states []SlotState, label string) SlotState {
	for _, s := range states {
		if s.Time.String() == label {
			return s
		}
	}
	return SlotState{}
}
