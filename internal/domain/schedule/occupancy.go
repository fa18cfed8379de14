package schedule

import (
	"time"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type SlotStatus string

const (
	SlotFree     SlotStatus = "free"
	SlotOccupied SlotStatus = "occupied"
	SlotBlocked  SlotStatus = "blocked"
)

type SlotState struct {
	Time   TimeOfDay  `json:"time"`
	Status SlotStatus `json:"status"`

	// Anchor marca o slot em que o agendamento começa exatamente; só ele
	// carrega o agendamento. Os slots seguintes ficam apenas "occupied".
	Anchor      bool                `json:"anchor"`
	SpanMinutes int                 `json:"span_minutes,omitempty"`
	Appointment *models.Appointment `json:"appointment,omitempty"`

	BlackoutReason string `json:"blackout_reason,omitempty"`
}

// Redacted remove os dados do agendamento, mantendo só a ocupação.
func (s SlotState) Redacted() SlotState {
	s.Appointment = nil
	s.BlackoutReason = ""
	return s
}

// Snapshot é o recorte de dados que o motor consome para um dia.
type Snapshot struct {
	Appointments []models.Appointment `json:"appointments"`
	Blackouts    []models.Blackout    `json:"blackouts"`
}

// window é um bloqueio com os horários já convertidos.
type window struct {
	blackout *models.Blackout
	from, to TimeOfDay
}

func parseWindows(blackouts []models.Blackout) []window {
	out := make([]window, 0, len(blackouts))
	for i := range blackouts {
		b := &blackouts[i]
		from, err1 := ParseTimeOfDay(b.TimeStart)
		to, err2 := ParseTimeOfDay(b.TimeEnd)
		if err1 != nil || err2 != nil || from >= to {
			continue
		}
		out = append(out, window{blackout: b, from: from, to: to})
	}
	return out
}

func (w window) coversDate(dateKey string) bool {
	return w.blackout.DateStart <= dateKey && dateKey <= w.blackout.DateEnd
}

// covers usa intervalo semiaberto [from, to): um bloqueio até 18:00 não
// bloqueia o slot das 18:00.
func (w window) covers(dateKey string, t TimeOfDay) bool {
	return w.coversDate(dateKey) && t >= w.from && t < w.to
}

func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func isActive(ap *models.Appointment) bool {
	return domain.Status(ap.Status) != domain.StatusCanceled
}

// ResolveOccupancy classifica cada slot do dia como livre, ocupado ou
// bloqueado. Ocupado tem precedência sobre bloqueado.
func ResolveOccupancy(
	date time.Time,
	slots []TimeOfDay,
	appointments []models.Appointment,
	blackouts []models.Blackout,
) []SlotState {

	dateKey := DateKey(date)
	windows := parseWindows(blackouts)

	out := make([]SlotState, 0, len(slots))
	for _, t := range slots {
		instant := t.On(date)
		state := SlotState{Time: t, Status: SlotFree}

		for i := range appointments {
			ap := &appointments[i]
			if !isActive(ap) {
				continue
			}
			if instant.Before(ap.StartAt) || !instant.Before(ap.End()) {
				continue
			}

			state.Status = SlotOccupied
			if ap.StartAt.Equal(instant) && !state.Anchor {
				state.Anchor = true
				state.SpanMinutes = ap.DurationMinutes
				state.Appointment = ap
			}
		}

		if state.Status != SlotOccupied {
			for _, w := range windows {
				if w.covers(dateKey, t) {
					state.Status = SlotBlocked
					state.BlackoutReason = w.blackout.Reason
					break
				}
			}
		}

		out = append(out, state)
	}

	return out
}
