package schedule

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	engine "github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type GetGridInput struct {
	EstablishmentID uint

	// nil = todos os profissionais
	ProfessionalID *uint

	Date string

	// Redact remove dados de clientes (visão pública).
	Redact bool
}

type Grid struct {
	Date           string             `json:"date"`
	Timezone       string             `json:"timezone"`
	ProfessionalID *uint              `json:"professional_id"`
	Config         engine.GridConfig  `json:"config"`
	Slots          []engine.SlotState `json:"slots"`
}

// ======================================================
// USE CASE
// ======================================================

type GetGrid struct {
	repo        domain.Repository
	snapshots   *SnapshotLoader
	defaultGrid engine.GridConfig
	metrics     *metrics.Metrics
}

func NewGetGrid(
	repo domain.Repository,
	snapshots *SnapshotLoader,
	defaultGrid engine.GridConfig,
	m *metrics.Metrics,
) *GetGrid {
	if !defaultGrid.Valid() {
		defaultGrid = engine.DefaultGridConfig
	}
	return &GetGrid{
		repo:        repo,
		snapshots:   snapshots,
		defaultGrid: defaultGrid,
		metrics:     m,
	}
}

func (uc *GetGrid) Execute(ctx context.Context, in GetGridInput) (*Grid, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, in.EstablishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	loc := timezone.Location(est.Timezone)

	var date time.Time
	if in.Date == "" {
		date, _ = timezone.DayBounds(time.Now().In(loc))
	} else if date, err = timezone.ParseDate(in.Date, loc); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	if in.ProfessionalID != nil {
		if _, err := uc.repo.GetProfessional(ctx, in.EstablishmentID, *in.ProfessionalID); err != nil {
			return nil, httperr.ErrBusiness("professional_not_found")
		}
	}

	cfg := engine.GridConfig{
		OpenHour:    est.GridOpenHour,
		CloseHour:   est.GridCloseHour,
		StepMinutes: est.GridStepMinutes,
	}.WithDefaults(uc.defaultGrid)

	snap, err := uc.snapshots.Load(ctx, in.EstablishmentID, in.ProfessionalID, date)
	if err != nil {
		return nil, err
	}

	slots := engine.ResolveOccupancy(
		date,
		engine.GenerateSlots(cfg),
		snap.Appointments,
		snap.Blackouts,
	)

	view := "staff"
	if in.Redact {
		view = "public"
		for i := range slots {
			slots[i] = slots[i].Redacted()
		}
	}
	uc.metrics.GridRendered(view)

	return &Grid{
		Date:           engine.DateKey(date),
		Timezone:       loc.String(),
		ProfessionalID: in.ProfessionalID,
		Config:         cfg,
		Slots:          slots,
	}, nil
}
