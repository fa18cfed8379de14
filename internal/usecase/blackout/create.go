package blackout

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	engine "github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

type CreateBlackoutInput struct {
	EstablishmentID   uint
	ActorID           *uint
	ProfessionalScope *uint

	ProfessionalID uint

	// DateEnd vazio = só DateStart.
	DateStart string
	DateEnd   string
	TimeStart string
	TimeEnd   string
	Reason    string
}

type CreateBlackout struct {
	repo  domain.Repository
	cache domain.SnapshotCache
	audit *audit.Dispatcher
}

func NewCreateBlackout(
	repo domain.Repository,
	cache domain.SnapshotCache,
	audit *audit.Dispatcher,
) *CreateBlackout {
	if cache == nil {
		cache = domain.NoopSnapshotCache{}
	}
	return &CreateBlackout{repo: repo, cache: cache, audit: audit}
}

func (uc *CreateBlackout) Execute(
	ctx context.Context,
	in CreateBlackoutInput,
) (*models.Blackout, error) {

	if in.DateEnd == "" {
		in.DateEnd = in.DateStart
	}

	dateStart, dateEnd, err := normalizeDates(in.DateStart, in.DateEnd)
	if err != nil {
		return nil, err
	}

	from, err1 := engine.ParseTimeOfDay(in.TimeStart)
	to, err2 := engine.ParseTimeOfDay(in.TimeEnd)
	if err1 != nil || err2 != nil {
		return nil, httperr.ErrBusiness("invalid_time")
	}
	if from >= to {
		return nil, httperr.ErrBusiness("invalid_time_range")
	}

	if in.ProfessionalScope != nil && in.ProfessionalID != *in.ProfessionalScope {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	if _, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	b := &models.Blackout{
		EstablishmentID: in.EstablishmentID,
		ProfessionalID:  in.ProfessionalID,
		DateStart:       dateStart,
		DateEnd:         dateEnd,
		TimeStart:       from.String(),
		TimeEnd:         to.String(),
		Reason:          strings.TrimSpace(in.Reason),
	}

	if err := uc.repo.CreateBlackout(ctx, b); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, in.EstablishmentID)

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          in.ActorID,
		Action:          audit.ActionBlackoutCreated,
		Entity:          "blackout",
		EntityID:        b.ID,
		Metadata: map[string]string{
			"date_start": b.DateStart,
			"date_end":   b.DateEnd,
			"time_start": b.TimeStart,
			"time_end":   b.TimeEnd,
		},
	})

	return b, nil
}

// normalizeDates valida o período e devolve as datas no formato canônico.
func normalizeDates(start, end string) (string, string, error) {
	s, err1 := timezone.ParseDate(start, time.UTC)
	e, err2 := timezone.ParseDate(end, time.UTC)
	if err1 != nil || err2 != nil {
		return "", "", httperr.ErrBusiness("invalid_date")
	}
	if e.Before(s) {
		return "", "", httperr.ErrBusiness("invalid_date_range")
	}
	return engine.DateKey(s), engine.DateKey(e), nil
}
