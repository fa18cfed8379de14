package appointment

import (
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ChangeStatus aplica a transição e registra o carimbo de data do status.
func ChangeStatus(ap *models.Appointment, next Status, now time.Time) error {
	st, err := Transition(Status(ap.Status), next)
	if err != nil {
		return err
	}

	ap.Status = string(st)
	switch st {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCanceled:
		ap.CanceledAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	return ChangeStatus(ap, StatusCanceled, now)
}

func Complete(ap *models.Appointment, now time.Time) error {
	return ChangeStatus(ap, StatusCompleted, now)
}

// Reschedule move o agendamento; a checagem de conflito é do chamador.
func Reschedule(ap *models.Appointment, start time.Time, durationMinutes int) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}
	ap.StartAt = start
	if durationMinutes > 0 {
		ap.DurationMinutes = durationMinutes
	}
	ap.EndAt = ap.End()
	return nil
}
