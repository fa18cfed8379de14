package waitlist

import (
	"context"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	appointmentuc "github.com/BruksfildServices01/gestao-agenda/internal/usecase/appointment"
)

// booker cria o agendamento passando pela checagem de conflito.
type booker interface {
	Execute(ctx context.Context, in appointmentuc.CreateAppointmentInput) (*models.Appointment, error)
}

type PromoteEntryInput struct {
	EstablishmentID   uint
	ActorID           *uint
	ProfessionalScope *uint

	EntryID string

	// ProfessionalID 0 usa o do item; Date vazio usa a data preferida.
	ProfessionalID uint
	Date           string
	Time           string

	AllowBlackout bool
}

// PromoteEntry transforma um item da fila em agendamento. O item é
// reservado antes de agendar; se o horário for recusado ele volta para a
// fila.
type PromoteEntry struct {
	repo  domain.Repository
	book  booker
	audit *audit.Dispatcher
}

func NewPromoteEntry(
	repo domain.Repository,
	book booker,
	audit *audit.Dispatcher,
) *PromoteEntry {
	return &PromoteEntry{repo: repo, book: book, audit: audit}
}

func (uc *PromoteEntry) Execute(
	ctx context.Context,
	in PromoteEntryInput,
) (*models.WaitlistEntry, *models.Appointment, error) {

	entry, err := uc.repo.GetWaitlistEntry(ctx, in.EstablishmentID, in.EntryID)
	if err != nil || !inScope(entry, in.ProfessionalScope) {
		return nil, nil, httperr.ErrBusiness("waitlist_entry_not_found")
	}
	if entry.Status != models.WaitlistWaiting {
		return nil, nil, httperr.ErrBusiness("waitlist_entry_not_waiting")
	}

	professionalID := in.ProfessionalID
	if professionalID == 0 && entry.ProfessionalID != nil {
		professionalID = *entry.ProfessionalID
	}
	if in.ProfessionalScope != nil {
		if professionalID == 0 {
			professionalID = *in.ProfessionalScope
		}
		if professionalID != *in.ProfessionalScope {
			return nil, nil, httperr.ErrBusiness("professional_not_found")
		}
	}
	if professionalID == 0 {
		return nil, nil, httperr.ErrBusiness("professional_required")
	}

	date := in.Date
	if date == "" {
		date = entry.PreferredDate
	}

	ok, err := uc.repo.TransitionWaitlistEntry(ctx, in.EstablishmentID, entry.ID, models.WaitlistWaiting, models.WaitlistPromoted, nil)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, httperr.ErrBusiness("waitlist_entry_not_waiting")
	}

	ap, err := uc.book.Execute(ctx, appointmentuc.CreateAppointmentInput{
		EstablishmentID: in.EstablishmentID,
		ActorID:         in.ActorID,
		Source:          appointmentuc.SourceStaff,
		ProfessionalID:  professionalID,
		ServiceID:       entry.ServiceID,
		ClientName:      entry.Client.Name,
		ClientPhone:     entry.Client.Phone,
		ClientEmail:     entry.Client.Email,
		Date:            date,
		Time:            in.Time,
		Notes:           entry.Notes,
		AllowBlackout:   in.AllowBlackout,
	})
	if err != nil {
		if _, rerr := uc.repo.TransitionWaitlistEntry(ctx, in.EstablishmentID, entry.ID, models.WaitlistPromoted, models.WaitlistWaiting, nil); rerr != nil {
			return nil, nil, rerr
		}
		return nil, nil, err
	}

	if _, err := uc.repo.TransitionWaitlistEntry(ctx, in.EstablishmentID, entry.ID, models.WaitlistPromoted, models.WaitlistPromoted, &ap.ID); err != nil {
		return nil, nil, err
	}

	entry.Status = models.WaitlistPromoted
	entry.AppointmentID = &ap.ID

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          in.ActorID,
		Action:          audit.ActionWaitlistPromoted,
		Entity:          "waitlist",
		EntityID:        entry.ID,
		Metadata:        map[string]string{"appointment_id": ap.ID},
	})

	return entry, ap, nil
}
