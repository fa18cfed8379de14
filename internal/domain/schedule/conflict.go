package schedule

import (
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type ConflictReason string

const (
	ReasonOverlapsAppointment ConflictReason = "overlaps_appointment"
	ReasonOverlapsBlackout    ConflictReason = "overlaps_blackout"
)

// Candidate é um agendamento novo ou remarcado ainda não gravado.
type Candidate struct {
	ProfessionalID  uint
	StartAt         time.Time
	DurationMinutes int

	// ExcludeID ignora o próprio agendamento numa remarcação.
	ExcludeID string
}

func (c Candidate) End() time.Time {
	return c.StartAt.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

func (c Candidate) Validate() error {
	if c.StartAt.IsZero() {
		return httperr.ErrBusiness("invalid_date_or_time")
	}
	if c.DurationMinutes <= 0 {
		return httperr.ErrBusiness("invalid_duration")
	}
	return nil
}

type ConflictResult struct {
	Accepted    bool                `json:"accepted"`
	Reason      ConflictReason      `json:"reason,omitempty"`
	Appointment *models.Appointment `json:"appointment,omitempty"`
	Blackout    *models.Blackout    `json:"blackout,omitempty"`
}

// Err converte uma rejeição em erro de negócio.
func (r ConflictResult) Err() error {
	if r.Accepted {
		return nil
	}
	return httperr.ErrBusiness(string(r.Reason))
}

// Overlaps testa intervalos semiabertos [aStart, aEnd) e [bStart, bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CheckConflict decide se o candidato pode ser gravado. Conflito com
// agendamento é reportado antes de conflito com bloqueio.
func CheckConflict(
	c Candidate,
	appointments []models.Appointment,
	blackouts []models.Blackout,
) ConflictResult {

	start, end := c.StartAt, c.End()

	for i := range appointments {
		ap := &appointments[i]
		if ap.ProfessionalID != c.ProfessionalID || !isActive(ap) {
			continue
		}
		if c.ExcludeID != "" && ap.ID == c.ExcludeID {
			continue
		}
		if Overlaps(start, end, ap.StartAt, ap.End()) {
			return ConflictResult{Reason: ReasonOverlapsAppointment, Appointment: ap}
		}
	}

	windows := parseWindows(blackouts)
	for day := startOfDay(start); day.Before(end); day = day.AddDate(0, 0, 1) {
		key := DateKey(day)
		for _, w := range windows {
			if w.blackout.ProfessionalID != c.ProfessionalID || !w.coversDate(key) {
				continue
			}
			if Overlaps(start, end, w.from.On(day), w.to.On(day)) {
				return ConflictResult{Reason: ReasonOverlapsBlackout, Blackout: w.blackout}
			}
		}
	}

	return ConflictResult{Accepted: true}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
