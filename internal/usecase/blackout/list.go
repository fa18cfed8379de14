package blackout

import (
	"context"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type ListBlackouts struct {
	repo domain.Repository
}

func NewListBlackouts(repo domain.Repository) *ListBlackouts {
	return &ListBlackouts{repo: repo}
}

// Execute devolve os bloqueios que tocam [from, to]. to vazio = from.
func (uc *ListBlackouts) Execute(
	ctx context.Context,
	establishmentID uint,
	professionalID *uint,
	from string,
	to string,
) ([]models.Blackout, error) {

	if to == "" {
		to = from
	}

	from, to, err := normalizeDates(from, to)
	if err != nil {
		return nil, err
	}

	return uc.repo.ListBlackouts(ctx, establishmentID, from, to, professionalID)
}
