package blackout

import (
	"context"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
)

type DeleteBlackout struct {
	repo  domain.Repository
	cache domain.SnapshotCache
	audit *audit.Dispatcher
}

func NewDeleteBlackout(
	repo domain.Repository,
	cache domain.SnapshotCache,
	audit *audit.Dispatcher,
) *DeleteBlackout {
	if cache == nil {
		cache = domain.NoopSnapshotCache{}
	}
	return &DeleteBlackout{repo: repo, cache: cache, audit: audit}
}

func (uc *DeleteBlackout) Execute(
	ctx context.Context,
	establishmentID uint,
	actorID *uint,
	professionalScope *uint,
	blackoutID string,
) error {

	b, err := uc.repo.GetBlackout(ctx, establishmentID, blackoutID)
	if err != nil || (professionalScope != nil && b.ProfessionalID != *professionalScope) {
		return httperr.ErrBusiness("blackout_not_found")
	}

	if _, err := uc.repo.DeleteBlackout(ctx, establishmentID, blackoutID); err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, establishmentID)

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          actorID,
		Action:          audit.ActionBlackoutDeleted,
		Entity:          "blackout",
		EntityID:        b.ID,
		Metadata:        map[string]string{"reason": b.Reason},
	})

	return nil
}
