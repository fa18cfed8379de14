package waitlist

import (
	"context"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type CancelEntry struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelEntry(repo domain.Repository, audit *audit.Dispatcher) *CancelEntry {
	return &CancelEntry{repo: repo, audit: audit}
}

func (uc *CancelEntry) Execute(
	ctx context.Context,
	establishmentID uint,
	actorID *uint,
	professionalScope *uint,
	entryID string,
) error {

	entry, err := uc.repo.GetWaitlistEntry(ctx, establishmentID, entryID)
	if err != nil || !inScope(entry, professionalScope) {
		return httperr.ErrBusiness("waitlist_entry_not_found")
	}

	ok, err := uc.repo.TransitionWaitlistEntry(ctx, establishmentID, entryID, models.WaitlistWaiting, models.WaitlistCanceled, nil)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("waitlist_entry_not_waiting")
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          actorID,
		Action:          audit.ActionWaitlistCanceled,
		Entity:          "waitlist",
		EntityID:        entry.ID,
	})

	return nil
}
