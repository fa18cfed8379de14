package appointment

import "github.com/BruksfildServices01/gestao-agenda/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusNoShow    Status = "no_show"
)

var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCompleted, StatusCanceled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCanceled, StatusNoShow},
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// Terminal indica que nenhuma transição sai deste status.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// ===============================
// Validations
// ===============================

// Transition valida a mudança de status e devolve o novo status.
func Transition(current, next Status) (Status, error) {
	if !next.Valid() {
		return current, httperr.ErrBusiness("invalid_status")
	}
	for _, allowed := range transitions[current] {
		if allowed == next {
			return next, nil
		}
	}
	return current, httperr.ErrBusiness("invalid_transition")
}

// CanReschedule: só agendamentos ainda em aberto podem mudar de horário.
func CanReschedule(current Status) error {
	if current != StatusScheduled && current != StatusConfirmed {
		return httperr.ErrBusiness("not_reschedulable")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}
