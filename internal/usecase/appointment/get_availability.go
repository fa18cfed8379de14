package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	engine "github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
	scheduleuc "github.com/BruksfildServices01/gestao-agenda/internal/usecase/schedule"
)

type AvailabilityInput struct {
	EstablishmentID uint
	ProfessionalID  uint
	ServiceID       uint
	Date            string

	// Public aplica a antecedência mínima do estabelecimento.
	Public bool
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// GetAvailability lista os horários da grade em que o serviço inteiro cabe
// sem conflito, dentro do expediente e antes do fechamento.
type GetAvailability struct {
	repo        domain.Repository
	snapshots   *scheduleuc.SnapshotLoader
	defaultGrid engine.GridConfig
	now         func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	snapshots *scheduleuc.SnapshotLoader,
	defaultGrid engine.GridConfig,
) *GetAvailability {
	if !defaultGrid.Valid() {
		defaultGrid = engine.DefaultGridConfig
	}
	return &GetAvailability{
		repo:        repo,
		snapshots:   snapshots,
		defaultGrid: defaultGrid,
		now:         time.Now,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]TimeSlot, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	loc := timezone.Location(est.Timezone)
	date, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	svc, err := uc.repo.GetService(ctx, in.EstablishmentID, in.ServiceID)
	if err != nil || !svc.Active {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if svc.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	if _, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	wh, err := uc.repo.GetWorkingHours(ctx, in.ProfessionalID, int(date.Weekday()))
	if err != nil {
		return nil, err
	}

	cfg := engine.GridConfig{
		OpenHour:    est.GridOpenHour,
		CloseHour:   est.GridCloseHour,
		StepMinutes: est.GridStepMinutes,
	}.WithDefaults(uc.defaultGrid)

	profID := in.ProfessionalID
	snap, err := uc.snapshots.Load(ctx, in.EstablishmentID, &profID, date)
	if err != nil {
		return nil, err
	}

	earliest := time.Time{}
	if in.Public {
		minAdvance := est.MinAdvanceMinutes
		if minAdvance <= 0 {
			minAdvance = defaultMinAdvanceMinutes
		}
		earliest = uc.now().Add(time.Duration(minAdvance) * time.Minute)
	}

	closing := engine.TimeOfDay(cfg.CloseHour * 60).On(date)
	slotDuration := time.Duration(svc.DurationMinutes) * time.Minute

	out := []TimeSlot{}
	for _, t := range engine.GenerateSlots(cfg) {
		start := t.On(date)
		end := start.Add(slotDuration)

		if end.After(closing) || start.Before(earliest) {
			continue
		}
		if wh != nil && !domain.WithinWorkingHours(wh, start, end) {
			continue
		}

		res := engine.CheckConflict(engine.Candidate{
			ProfessionalID:  in.ProfessionalID,
			StartAt:         start,
			DurationMinutes: svc.DurationMinutes,
		}, snap.Appointments, snap.Blackouts)
		if !res.Accepted {
			continue
		}

		out = append(out, TimeSlot{
			Start: start.Format("15:04"),
			End:   end.Format("15:04"),
		})
	}

	return out, nil
}
