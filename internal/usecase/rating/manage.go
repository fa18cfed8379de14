package rating

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

// ======================================================
// REPLY
// ======================================================

type ReplyRatingInput struct {
	EstablishmentID   uint
	ActorID           *uint
	ProfessionalScope *uint

	RatingID string
	Reply    string
}

type ReplyRating struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewReplyRating(repo domain.Repository, audit *audit.Dispatcher) *ReplyRating {
	return &ReplyRating{repo: repo, audit: audit, now: time.Now}
}

// Execute grava (ou substitui) a resposta. Profissional só responde as
// próprias avaliações.
func (uc *ReplyRating) Execute(
	ctx context.Context,
	in ReplyRatingInput,
) (*models.Rating, error) {

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return nil, httperr.ErrBusiness("invalid_reply")
	}

	r, err := uc.repo.GetRating(ctx, in.EstablishmentID, in.RatingID)
	if err != nil || (in.ProfessionalScope != nil && r.ProfessionalID != *in.ProfessionalScope) {
		return nil, httperr.ErrBusiness("rating_not_found")
	}

	now := uc.now()
	r.Reply = reply
	r.RepliedAt = &now

	if err := uc.repo.UpdateRating(ctx, r); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: in.EstablishmentID,
		UserID:          in.ActorID,
		Action:          audit.ActionRatingReplied,
		Entity:          "rating",
		EntityID:        r.ID,
	})

	return r, nil
}

// ======================================================
// VISIBILITY
// ======================================================

type SetVisibility struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetVisibility(repo domain.Repository, audit *audit.Dispatcher) *SetVisibility {
	return &SetVisibility{repo: repo, audit: audit}
}

func (uc *SetVisibility) Execute(
	ctx context.Context,
	establishmentID uint,
	actorID *uint,
	ratingID string,
	visible bool,
) (*models.Rating, error) {

	r, err := uc.repo.GetRating(ctx, establishmentID, ratingID)
	if err != nil {
		return nil, httperr.ErrBusiness("rating_not_found")
	}

	r.Visible = visible
	if err := uc.repo.UpdateRating(ctx, r); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		EstablishmentID: establishmentID,
		UserID:          actorID,
		Action:          audit.ActionRatingVisibility,
		Entity:          "rating",
		EntityID:        r.ID,
		Metadata:        map[string]bool{"visible": visible},
	})

	return r, nil
}

// ======================================================
// LIST
// ======================================================

// Summary acompanha a lista: média com uma casa decimal, 0 sem avaliações.
type Summary struct {
	Count   int             `json:"count"`
	Average float64         `json:"average"`
	Ratings []models.Rating `json:"ratings"`
}

type ListRatings struct {
	repo domain.Repository
}

func NewListRatings(repo domain.Repository) *ListRatings {
	return &ListRatings{repo: repo}
}

func (uc *ListRatings) Execute(
	ctx context.Context,
	f domain.RatingFilter,
) (Summary, error) {

	ratings, err := uc.repo.ListRatings(ctx, f)
	if err != nil {
		return Summary{}, err
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}

	out := Summary{Count: len(ratings), Ratings: ratings}
	if out.Count > 0 {
		total := 0
		for _, r := range ratings {
			total += r.Score
		}
		out.Average = math.Round(float64(total)/float64(out.Count)*10) / 10
	}

	return out, nil
}
