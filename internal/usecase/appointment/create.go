package appointment

import (
	"context"
	"strings"
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

const defaultMinAdvanceMinutes = 120

type Source string

const (
	SourceStaff  Source = "staff"
	SourcePublic Source = "public"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	EstablishmentID uint
	ActorID         *uint
	Source          Source

	ProfessionalID uint
	ServiceID      uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date string
	Time string

	// DurationMinutes 0 usa a duração do serviço; Value nil usa o preço.
	DurationMinutes int
	Value           *float64
	Prepaid         bool
	Notes           string

	// AllowBlackout deixa a equipe agendar por cima de um bloqueio.
	// Nunca vale para conflito com outro agendamento.
	AllowBlackout bool
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	cache   domain.SnapshotCache
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	cache domain.SnapshotCache,
	audit *audit.Dispatcher,
	m *metrics.Metrics,
) *CreateAppointment {
	if cache == nil {
		cache = domain.NoopSnapshotCache{}
	}
	return &CreateAppointment{
		repo:    repo,
		cache:   cache,
		audit:   audit,
		metrics: m,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Estabelecimento / data no fuso dele
	// --------------------------------------------------
	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	loc := timezone.Location(est.Timezone)

	start, err := timezone.ParseDateTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// Antecedência mínima (só agendamento do cliente)
	// --------------------------------------------------
	if in.Source == SourcePublic {
		in.AllowBlackout = false

		minAdvance := est.MinAdvanceMinutes
		if minAdvance <= 0 {
			minAdvance = defaultMinAdvanceMinutes
		}
		if start.Before(uc.now().Add(time.Duration(minAdvance) * time.Minute)) {
			return nil, httperr.ErrBusiness("too_soon")
		}
	}

	// --------------------------------------------------
	// Serviço / profissional
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.EstablishmentID, in.ServiceID)
	if err != nil || !svc.Active {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	if _, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = svc.DurationMinutes
	}
	if duration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	end := start.Add(time.Duration(duration) * time.Minute)

	// --------------------------------------------------
	// Expediente + almoço (quando configurado)
	// --------------------------------------------------
	if err := checkWorkingHours(ctx, uc.repo, in.ProfessionalID, start, end); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.ClientName)
	phone := strings.TrimSpace(in.ClientPhone)
	if name == "" || phone == "" {
		return nil, httperr.ErrBusiness("invalid_client")
	}

	value := svc.Value
	if in.Value != nil {
		value = *in.Value
	}

	paymentStatus := "pending"
	if in.Prepaid {
		paymentStatus = "paid"
	}

	ap := &models.Appointment{
		EstablishmentID: in.EstablishmentID,
		ProfessionalID:  in.ProfessionalID,
		ServiceID:       svc.ID,
		StartAt:         start,
		DurationMinutes: duration,
		Status:          string(domain.InitialStatus()),
		Value:           value,
		Prepaid:         in.Prepaid,
		PaymentStatus:   paymentStatus,
		Notes:           in.Notes,
	}

	// --------------------------------------------------
	// Conflito, cliente e gravação na mesma transação.
	// O cliente só é criado depois que o horário é aceito.
	// --------------------------------------------------
	var (
		res    engine.ConflictResult
		client *models.Client
	)
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		res, err = scheduleuc.Guard(ctx, tx, in.EstablishmentID, engine.Candidate{
			ProfessionalID:  in.ProfessionalID,
			StartAt:         start,
			DurationMinutes: duration,
		}, uc.metrics)
		if err != nil {
			return err
		}

		if !res.Accepted && !(res.Reason == engine.ReasonOverlapsBlackout && in.AllowBlackout) {
			return res.Err()
		}

		client, err = tx.GetOrCreateClient(ctx, in.EstablishmentID, name, phone, strings.TrimSpace(in.ClientEmail))
		if err != nil {
			return err
		}
		ap.ClientID = client.ID

		return tx.CreateAppointment(ctx, ap)
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
				Metadata: map[string]any{
					"reason":          code,
					"professional_id": in.ProfessionalID,
					"start":           start,
					"end":             end,
				},
			})
		}
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.EstablishmentID)

	// --------------------------------------------------
	// Auditoria
	// --------------------------------------------------
	meta := map[string]any{"source": in.Source}
	if !res.Accepted {
		meta["blackout_override"] = true
	}
	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          in.ActorID,
		Action:          audit.ActionAppointmentCreated,
		Entity:          "appointment",
		EntityID:        ap.ID,
		Metadata:        meta,
	})

	ap.Client = *client
	ap.Service = *svc
	return ap, nil
}

// checkWorkingHours só reprova quando o profissional configurou o dia da
// semana; sem configuração a grade inteira vale.
func checkWorkingHours(
	ctx context.Context,
	repo domain.Repository,
	professionalID uint,
	start, end time.Time,
) error {

	wh, err := repo.GetWorkingHours(ctx, professionalID, int(start.Weekday()))
	if err != nil {
		return err
	}
	if wh == nil {
		return nil
	}
	if !domain.WithinWorkingHours(wh, start, end) {
		return httperr.ErrBusiness("outside_working_hours")
	}
	return nil
}
