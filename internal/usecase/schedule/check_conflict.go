package schedule

import (
	"context"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	engine "github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

type CheckConflictInput struct {
	EstablishmentID uint
	ProfessionalID  uint

	Date string
	Time string

	// DurationMinutes 0 usa a duração do serviço.
	DurationMinutes int
	ServiceID       uint

	// ExcludeID ignora o próprio agendamento (remarcação).
	ExcludeID string
}

// CheckConflict é a checagem sem gravação, usada pela tela antes de
// confirmar um horário.
type CheckConflict struct {
	repo    domain.Repository
	metrics *metrics.Metrics
}

func NewCheckConflict(repo domain.Repository, m *metrics.Metrics) *CheckConflict {
	return &CheckConflict{repo: repo, metrics: m}
}

func (uc *CheckConflict) Execute(
	ctx context.Context,
	in CheckConflictInput,
) (engine.ConflictResult, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return engine.ConflictResult{}, httperr.ErrBusiness("establishment_not_found")
	}

	start, err := timezone.ParseDateTime(in.Date, in.Time, timezone.Location(est.Timezone))
	if err != nil {
		return engine.ConflictResult{}, httperr.ErrBusiness("invalid_date_or_time")
	}

	if _, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, in.ProfessionalID); err != nil {
		return engine.ConflictResult{}, httperr.ErrBusiness("professional_not_found")
	}

	duration := in.DurationMinutes
	if duration == 0 && in.ServiceID != 0 {
		svc, err := uc.repo.GetService(ctx, in.EstablishmentID, in.ServiceID)
		if err != nil {
			return engine.ConflictResult{}, httperr.ErrBusiness("service_not_found")
		}
		duration = svc.DurationMinutes
	}

	return Guard(ctx, uc.repo, in.EstablishmentID, engine.Candidate{
		ProfessionalID:  in.ProfessionalID,
		StartAt:         start,
		DurationMinutes: duration,
		ExcludeID:       in.ExcludeID,
	}, uc.metrics)
}
