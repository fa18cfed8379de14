package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type Repository interface {
	// -------- Establishment --------
	GetEstablishmentByID(
		ctx context.Context,
		id uint,
	) (*models.Establishment, error)

	GetEstablishmentBySlug(
		ctx context.Context,
		slug string,
	) (*models.Establishment, error)

	// -------- Service / Professional --------
	GetService(
		ctx context.Context,
		establishmentID uint,
		serviceID uint,
	) (*models.Service, error)

	GetProfessional(
		ctx context.Context,
		establishmentID uint,
		professionalID uint,
	) (*models.User, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		establishmentID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// Transaction executa fn numa transação; o repo recebido deve ser usado
	// para todas as operações dentro dela.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		establishmentID uint,
		appointmentID string,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ListAppointments devolve os agendamentos (de qualquer status) cujo
	// intervalo cruza [from, to). professionalID nil = todos.
	ListAppointments(
		ctx context.Context,
		establishmentID uint,
		from time.Time,
		to time.Time,
		professionalID *uint,
	) ([]models.Appointment, error)

	// LockProfessionalAppointments trava (FOR UPDATE) os agendamentos não
	// cancelados do profissional que cruzam [from, to).
	LockProfessionalAppointments(
		ctx context.Context,
		professionalID uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// -------- Blackout --------
	CreateBlackout(
		ctx context.Context,
		b *models.Blackout,
	) error

	GetBlackout(
		ctx context.Context,
		establishmentID uint,
		blackoutID string,
	) (*models.Blackout, error)

	DeleteBlackout(
		ctx context.Context,
		establishmentID uint,
		blackoutID string,
	) (*models.Blackout, error)

	// ListBlackouts devolve os bloqueios cujo período cruza as datas
	// [fromDate, toDate] (formato 2006-01-02).
	ListBlackouts(
		ctx context.Context,
		establishmentID uint,
		fromDate string,
		toDate string,
		professionalID *uint,
	) ([]models.Blackout, error)

	// -------- Working hours --------
	// GetWorkingHours devolve nil, nil quando o dia não foi configurado.
	GetWorkingHours(
		ctx context.Context,
		professionalID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// -------- Waitlist --------
	CreateWaitlistEntry(
		ctx context.Context,
		w *models.WaitlistEntry,
	) error

	GetWaitlistEntry(
		ctx context.Context,
		establishmentID uint,
		entryID string,
	) (*models.WaitlistEntry, error)

	ListWaitlist(
		ctx context.Context,
		f WaitlistFilter,
	) ([]models.WaitlistEntry, error)

	// TransitionWaitlistEntry muda o status só se o atual for from.
	// Devolve false quando outro pedido chegou antes.
	TransitionWaitlistEntry(
		ctx context.Context,
		establishmentID uint,
		entryID string,
		from string,
		to string,
		appointmentID *string,
	) (bool, error)

	// -------- Rating --------
	CreateRating(
		ctx context.Context,
		r *models.Rating,
	) error

	GetRating(
		ctx context.Context,
		establishmentID uint,
		ratingID string,
	) (*models.Rating, error)

	// GetRatingByAppointment devolve nil, nil quando não há avaliação.
	GetRatingByAppointment(
		ctx context.Context,
		appointmentID string,
	) (*models.Rating, error)

	UpdateRating(
		ctx context.Context,
		r *models.Rating,
	) error

	ListRatings(
		ctx context.Context,
		f RatingFilter,
	) ([]models.Rating, error)
}

// WaitlistFilter: Status vazio = todos. Com ProfessionalID, entram também
// os itens sem profissional definido.
type WaitlistFilter struct {
	EstablishmentID uint
	ProfessionalID  *uint
	Status          string
}

type RatingFilter struct {
	EstablishmentID uint
	ProfessionalID  *uint
	OnlyVisible     bool
}

// SnapshotKey identifica um recorte diário em cache.
type SnapshotKey struct {
	EstablishmentID uint
	ProfessionalID  *uint
	Date            string
}

// SnapshotCache guarda recortes diários já buscados. Falhas viram miss.
//
// Get devolve a versão do estabelecimento que leu; Set grava sob essa
// versão. Um Invalidate entre o miss e o Set deixa o recorte órfão.
// Versão negativa = cache indisponível, Set ignora.
type SnapshotCache interface {
	Get(ctx context.Context, key SnapshotKey, dst any) (version int64, hit bool)
	Set(ctx context.Context, key SnapshotKey, version int64, value any)
	Invalidate(ctx context.Context, establishmentID uint)
}

type NoopSnapshotCache struct{}

func (NoopSnapshotCache) Get(context.Context, SnapshotKey, any) (int64, bool) { return -1, false }
func (NoopSnapshotCache) Set(context.Context, SnapshotKey, int64, any)        {}
func (NoopSnapshotCache) Invalidate(context.Context, uint)                    {}
