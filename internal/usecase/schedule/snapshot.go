package schedule

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	engine "github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

// SnapshotLoader busca o recorte de um dia, passando pelo cache.
type SnapshotLoader struct {
	repo  domain.Repository
	cache domain.SnapshotCache
}

func NewSnapshotLoader(repo domain.Repository, cache domain.SnapshotCache) *SnapshotLoader {
	if cache == nil {
		cache = domain.NoopSnapshotCache{}
	}
	return &SnapshotLoader{repo: repo, cache: cache}
}

// Load devolve agendamentos e bloqueios que tocam o dia civil de date
// (no fuso de date). professionalID nil = estabelecimento inteiro.
func (l *SnapshotLoader) Load(
	ctx context.Context,
	establishmentID uint,
	professionalID *uint,
	date time.Time,
) (engine.Snapshot, error) {

	key := domain.SnapshotKey{
		EstablishmentID: establishmentID,
		ProfessionalID:  professionalID,
		Date:            engine.DateKey(date),
	}

	var snap engine.Snapshot
	version, hit := l.cache.Get(ctx, key, &snap)
	if hit {
		relocate(&snap, date.Location())
		return snap, nil
	}

	from, to := timezone.DayBounds(date)

	apps, err := l.repo.ListAppointments(ctx, establishmentID, from, to, professionalID)
	if err != nil {
		return engine.Snapshot{}, err
	}

	blackouts, err := l.repo.ListBlackouts(ctx, establishmentID, key.Date, key.Date, professionalID)
	if err != nil {
		return engine.Snapshot{}, err
	}

	snap = engine.Snapshot{Appointments: apps, Blackouts: blackouts}
	l.cache.Set(ctx, key, version, snap)

	relocate(&snap, date.Location())
	return snap, nil
}

// relocate põe os instantes no fuso do estabelecimento; JSON e alguns
// drivers devolvem em UTC ou offset fixo.
func relocate(snap *engine.Snapshot, loc *time.Location) {
	for i := range snap.Appointments {
		ap := &snap.Appointments[i]
		ap.StartAt = ap.StartAt.In(loc)
		ap.EndAt = ap.EndAt.In(loc)
	}
}
