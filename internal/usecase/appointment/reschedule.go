package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	engine "github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
	scheduleuc "github.com/BruksfildServices01/gestao-agenda/internal/usecase/schedule"
)

type RescheduleAppointmentInput struct {
	EstablishmentID uint
	ActorID         *uint

	// ProfessionalScope restringe a um profissional (papel professional).
	ProfessionalScope *uint

	AppointmentID string

	Date string
	Time string

	// DurationMinutes 0 mantém a duração atual.
	DurationMinutes int

	// ProfessionalID nil mantém o profissional atual.
	ProfessionalID *uint

	AllowBlackout bool
}

type RescheduleAppointment struct {
	repo    domain.Repository
	cache   domain.SnapshotCache
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

func NewRescheduleAppointment(
	repo domain.Repository,
	cache domain.SnapshotCache,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
) *RescheduleAppointment {
	if cache == nil {
		cache = domain.NoopSnapshotCache{}
	}
	return &RescheduleAppointment{
		repo:    repo,
		cache:   cache,
		audit:   audit,
		metrics: m,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	start, err := timezone.ParseDateTime(in.Date, in.Time, timezone.Location(est.Timezone))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if in.DurationMinutes < 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	if in.ProfessionalID != nil {
		if in.ProfessionalScope != nil && *in.ProfessionalID != *in.ProfessionalScope {
			return nil, httperr.ErrBusiness("professional_not_found")
		}
		if _, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, *in.ProfessionalID); err != nil {
			return nil, httperr.ErrBusiness("professional_not_found")
		}
	}

	var (
		ap       *models.Appointment
		res      engine.ConflictResult
		oldStart time.Time
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointment(ctx, in.EstablishmentID, in.AppointmentID)
		if err != nil || !inScope(ap, in.ProfessionalScope) {
			return httperr.ErrBusiness("appointment_not_found")
		}

		if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
			return err
		}

		professionalID := ap.ProfessionalID
		if in.ProfessionalID != nil {
			professionalID = *in.ProfessionalID
		}
		duration := ap.DurationMinutes
		if in.DurationMinutes > 0 {
			duration = in.DurationMinutes
		}

		end := start.Add(time.Duration(duration) * time.Minute)
		if err := checkWorkingHours(ctx, tx, professionalID, start, end); err != nil {
			return err
		}

		res, err = scheduleuc.Guard(ctx, tx, in.EstablishmentID, engine.Candidate{
			ProfessionalID:  professionalID,
			StartAt:         start,
			DurationMinutes: duration,
			ExcludeID:       ap.ID,
		}, uc.metrics)
		if err != nil {
			return err
		}
		if !res.Accepted && !(res.Reason == engine.ReasonOverlapsBlackout && in.AllowBlackout) {
			return res.Err()
		}

		oldStart = ap.StartAt
		ap.ProfessionalID = professionalID
		if err := domain.Reschedule(ap, start, duration); err != nil {
			return err
		}

		return tx.UpdateAppointment(ctx, ap)
	})

	if err != nil {
		if httperr.IsExclusionConflict(err) {
			err = httperr.ErrBusiness(string(engine.ReasonOverlapsAppointment))
		}
		if code := httperr.CodeOf(err); code == string(engine.ReasonOverlapsAppointment) || code == string(engine.ReasonOverlapsBlackout) {
			uc.audit.Dispatch(audit.Event{
				EstablishmentID: in.EstablishmentID,
				UserID:          in.ActorID,
				Action:          audit.ActionAppointmentConflict,
				Entity:          "appointment",
				EntityID:        in.AppointmentID,
				Metadata:        map[string]any{"reason": code, "start": start},
			})
		}
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.EstablishmentID)

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          in.ActorID,
		Action:          audit.ActionAppointmentRescheduled,
		Entity:          "appointment",
		EntityID:        ap.ID,
		Metadata: map[string]any{
			"from":              oldStart,
			"to":                ap.StartAt,
			"blackout_override": !res.Accepted,
		},
	})

	return ap, nil
}

func inScope(ap *models.Appointment, scope *uint) bool {
	return scope == nil || ap.ProfessionalID == *scope
}
