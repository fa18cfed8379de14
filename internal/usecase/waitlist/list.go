package waitlist

import (
	"context"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type ListEntries struct {
	repo domain.Repository
}

func NewListEntries(repo domain.Repository) *ListEntries {
	return &ListEntries{repo: repo}
}

// Execute lista a fila em ordem de chegada. status "" = waiting,
// "all" = qualquer status.
func (uc *ListEntries) Execute(
	ctx context.Context,
	establishmentID uint,
	professionalScope *uint,
	status string,
) ([]models.WaitlistEntry, error) {

	switch status {
	case "":
		status = models.WaitlistWaiting
	case "all":
		status = ""
	case models.WaitlistWaiting, models.WaitlistPromoted, models.WaitlistCanceled:
	default:
		return nil, httperr.ErrBusiness("invalid_status")
	}

	return uc.repo.ListWaitlist(ctx, domain.WaitlistFilter{
		EstablishmentID: establishmentID,
		ProfessionalID:  professionalScope,
		Status:          status,
	})
}
