package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/httpresp"
	"github.com/BruksfildServices01/gestao-agenda/internal/usecase/rating"
)

type RatingHandler struct {
	list       *rating.ListRatings
	reply      *rating.ReplyRating
	visibility *rating.SetVisibility
}

func NewRatingHandler(
	list *rating.ListRatings,
	reply *rating.ReplyRating,
	visibility *rating.SetVisibility,
) *RatingHandler {
	return &RatingHandler{list: list, reply: reply, visibility: visibility}
}

type ReplyRatingRequest struct {
	Reply string `json:"reply" binding:"required"`
}

type RatingVisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// List: GET /me/ratings?professional_id=all|<id>
func (h *RatingHandler) List(c *gin.Context) {
	a := currentActor(c)

	professionalID, ok := professionalFilter(c, a)
	if !ok {
		return
	}

	out, err := h.list.Execute(c.Request.Context(), domain.RatingFilter{
		EstablishmentID: a.EstablishmentID,
		ProfessionalID:  professionalID,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, out)
}

func (h *RatingHandler) Reply(c *gin.Context) {
	a := currentActor(c)

	var req ReplyRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.reply.Execute(c.Request.Context(), rating.ReplyRatingInput{
		EstablishmentID:   a.EstablishmentID,
		ActorID:           a.ID(),
		ProfessionalScope: a.Scope(),
		RatingID:          c.Param("id"),
		Reply:             req.Reply,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, r)
}

func (h *RatingHandler) SetVisibility(c *gin.Context) {
	a := currentActor(c)

	var req RatingVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.visibility.Execute(c.Request.Context(), a.EstablishmentID, a.ID(), c.Param("id"), *req.Visible)
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, r)
}
