package rating

import (
	"context"
	"strings"
	"unicode"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

const (
	MinScore = 1
	MaxScore = 5
)

// CreateRatingInput vem do cliente, sem login: o telefone do agendamento
// serve de prova de que ele foi atendido.
type CreateRatingInput struct {
	EstablishmentID uint
	AppointmentID   string
	ClientPhone     string

	Score   int
	Comment string
}

type CreateRating struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateRating(repo domain.Repository, audit *audit.Dispatcher) *CreateRating {
	return &CreateRating{repo: repo, audit: audit}
}

func (uc *CreateRating) Execute(
	ctx context.Context,
	in CreateRatingInput,
) (*models.Rating, error) {

	if in.Score < MinScore || in.Score > MaxScore {
		return nil, httperr.ErrBusiness("invalid_score")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.EstablishmentID, in.AppointmentID)
	if err != nil || !samePhone(ap.Client.Phone, in.ClientPhone) {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	if domain.Status(ap.Status) != domain.StatusCompleted {
		return nil, httperr.ErrBusiness("appointment_not_completed")
	}

	r := &models.Rating{
		EstablishmentID: in.EstablishmentID,
		AppointmentID:   ap.ID,
		ProfessionalID:  ap.ProfessionalID,
		ClientID:        ap.ClientID,
		ServiceID:       ap.ServiceID,
		Score:           in.Score,
		Comment:         strings.TrimSpace(in.Comment),
		Visible:         true,
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		existing, err := tx.GetRatingByAppointment(ctx, ap.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return httperr.ErrBusiness("rating_already_exists")
		}
		return tx.CreateRating(ctx, r)
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			err = httperr.ErrBusiness("rating_already_exists")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		Action:          audit.ActionRatingCreated,
		Entity:          "rating",
		EntityID:        r.ID,
		Metadata:        map[string]any{"appointment_id": ap.ID, "score": r.Score},
	})

	return r, nil
}

// samePhone compara só os dígitos.
func samePhone(a, b string) bool {
	da, db := digits(a), digits(b)
	return da != "" && da == db
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
