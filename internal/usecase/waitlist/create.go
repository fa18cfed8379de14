package waitlist

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	engine "github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

type CreateEntryInput struct {
	EstablishmentID   uint
	ActorID           *uint
	ProfessionalScope *uint

	// ProfessionalID nil = qualquer profissional.
	ProfessionalID *uint
	ServiceID      uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	PreferredDate   string
	PreferredPeriod string
	Notes           string
}

type CreateEntry struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateEntry(repo domain.Repository, audit *audit.Dispatcher) *CreateEntry {
	return &CreateEntry{repo: repo, audit: audit}
}

func (uc *CreateEntry) Execute(
	ctx context.Context,
	in CreateEntryInput,
) (*models.WaitlistEntry, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	// profissional só coloca gente na própria fila
	if in.ProfessionalScope != nil {
		if in.ProfessionalID != nil && *in.ProfessionalID != *in.ProfessionalScope {
			return nil, httperr.ErrBusiness("professional_not_found")
		}
		in.ProfessionalID = in.ProfessionalScope
	}
	if in.ProfessionalID != nil {
		if _, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, *in.ProfessionalID); err != nil {
			return nil, httperr.ErrBusiness("professional_not_found")
		}
	}

	svc, err := uc.repo.GetService(ctx, in.EstablishmentID, in.ServiceID)
	if err != nil || !svc.Active {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	date := ""
	if in.PreferredDate != "" {
		d, err := timezone.ParseDate(in.PreferredDate, timezone.Location(est.Timezone))
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		date = engine.DateKey(d)
	}

	period := strings.ToLower(strings.TrimSpace(in.PreferredPeriod))
	if !validPeriod(period) {
		return nil, httperr.ErrBusiness("invalid_period")
	}

	name := strings.TrimSpace(in.ClientName)
	phone := strings.TrimSpace(in.ClientPhone)
	if name == "" || phone == "" {
		return nil, httperr.ErrBusiness("invalid_client")
	}

	entry := &models.WaitlistEntry{
		EstablishmentID: in.EstablishmentID,
		ServiceID:       svc.ID,
		ProfessionalID:  in.ProfessionalID,
		PreferredDate:   date,
		PreferredPeriod: period,
		Notes:           strings.TrimSpace(in.Notes),
		Status:          models.WaitlistWaiting,
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		client, err := tx.GetOrCreateClient(ctx, in.EstablishmentID, name, phone, strings.TrimSpace(in.ClientEmail))
		if err != nil {
			return err
		}
		entry.ClientID = client.ID
		entry.Client = *client

		return tx.CreateWaitlistEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	entry.Service = *svc

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          in.ActorID,
		Action:          audit.ActionWaitlistCreated,
		Entity:          "waitlist",
		EntityID:        entry.ID,
		Metadata: map[string]any{
			"service_id":       entry.ServiceID,
			"preferred_date":   entry.PreferredDate,
			"preferred_period": entry.PreferredPeriod,
		},
	})

	return entry, nil
}

func validPeriod(p string) bool {
	switch p {
	case "", models.PeriodMorning, models.PeriodAfternoon, models.PeriodEvening:
		return true
	}
	return false
}

// inScope: item sem profissional é visível para todos da equipe.
func inScope(w *models.WaitlistEntry, scope *uint) bool {
	return scope == nil || w.ProfessionalID == nil || *w.ProfessionalID == *scope
}
