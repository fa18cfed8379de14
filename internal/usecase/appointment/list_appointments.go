package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/dto"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

// ======================================================
// BY DATE
// ======================================================

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lista o dia (formato 2006-01-02) no fuso do estabelecimento.
// professionalID nil = todos.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	establishmentID uint,
	professionalID *uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	est, err := uc.repo.GetEstablishmentByID(ctx, establishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	day, err := timezone.ParseDate(date, timezone.Location(est.Timezone))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	start, end := timezone.DayBounds(day)

	appointments, err := uc.repo.ListAppointments(
		ctx,
		establishmentID,
		start,
		end,
		professionalID,
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}

// ======================================================
// BY MONTH
// ======================================================

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	establishmentID uint,
	professionalID *uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 1970 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	est, err := uc.repo.GetEstablishmentByID(ctx, establishmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("establishment_not_found")
	}

	start, end := timezone.MonthBounds(year, month, timezone.Location(est.Timezone))

	appointments, err := uc.repo.ListAppointments(
		ctx,
		establishmentID,
		start,
		end,
		professionalID,
	)
	if err != nil {
		return nil, err
	}

	return dto.NewAppointmentList(appointments), nil
}
