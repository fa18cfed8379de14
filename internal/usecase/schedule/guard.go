package schedule

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	engine "github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
)

// Guard roda a checagem de conflito contra o estado atual do banco.
// Dentro de uma transação as linhas do profissional ficam travadas até
// o commit, então duas gravações concorrentes não passam juntas.
func Guard(
	ctx context.Context,
	repo domain.Repository,
	establishmentID uint,
	c engine.Candidate,
	m *metrics.Metrics,
) (engine.ConflictResult, error) {

	if err := c.Validate(); err != nil {
		return engine.ConflictResult{}, err
	}

	start, end := c.StartAt, c.End()

	apps, err := repo.LockProfessionalAppointments(ctx, c.ProfessionalID, start, end)
	if err != nil {
		return engine.ConflictResult{}, err
	}

	lastDay := end.Add(-time.Nanosecond)
	blackouts, err := repo.ListBlackouts(
		ctx,
		establishmentID,
		engine.DateKey(start),
		engine.DateKey(lastDay),
		&c.ProfessionalID,
	)
	if err != nil {
		return engine.ConflictResult{}, err
	}

	res := engine.CheckConflict(c, apps, blackouts)

	if res.Accepted {
		m.ConflictChecked("accepted")
	} else {
		m.ConflictChecked(string(res.Reason))
	}

	return res, nil
}
