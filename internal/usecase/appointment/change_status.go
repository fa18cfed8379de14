package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

type ChangeStatusInput struct {
	EstablishmentID   uint
	ActorID           *uint
	ProfessionalScope *uint

	AppointmentID string
	Status        string
}

type ChangeAppointmentStatus struct {
	repo  domain.Repository
	cache domain.SnapshotCache
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewChangeAppointmentStatus(
	repo domain.Repository,
	cache domain.SnapshotCache,
	audit *audit.Dispatcher,
) *ChangeAppointmentStatus {
	if cache == nil {
		cache = domain.NoopSnapshotCache{}
	}
	return &ChangeAppointmentStatus{
		repo:  repo,
		cache: cache,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *ChangeAppointmentStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.EstablishmentID, in.AppointmentID)
	if err != nil || !inScope(ap, in.ProfessionalScope) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	from := ap.Status
	now := uc.now().In(timezone.Location(est.Timezone))
	if err := domain.ChangeStatus(ap, domain.Status(in.Status), now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.EstablishmentID)

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          in.ActorID,
		Action:          audit.ActionAppointmentStatusChanged,
		Entity:          "appointment",
		EntityID:        ap.ID,
		Metadata:        map[string]string{"from": from, "to": ap.Status},
	})

	return ap, nil
}
