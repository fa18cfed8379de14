package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/httpresp"
	"github.com/BruksfildServices01/gestao-agenda/internal/usecase/blackout"
)

type BlackoutHandler struct {
	create *blackout.CreateBlackout
	list   *blackout.ListBlackouts
	remove *blackout.DeleteBlackout
}

func NewBlackoutHandler(
	create *blackout.CreateBlackout,
	list *blackout.ListBlackouts,
	remove *blackout.DeleteBlackout,
) *BlackoutHandler {
	return &BlackoutHandler{create: create, list: list, remove: remove}
}

type CreateBlackoutRequest struct {
	ProfessionalID uint   `json:"professional_id"`
	DateStart      string `json:"date_start" binding:"required"`
	DateEnd        string `json:"date_end"`
	TimeStart      string `json:"time_start" binding:"required"`
	TimeEnd        string `json:"time_end" binding:"required"`
	Reason         string `json:"reason"`
}

func (h *BlackoutHandler) Create(c *gin.Context) {
	a := currentActor(c)

	var req CreateBlackoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	professionalID, ok := targetProfessional(c, a, req.ProfessionalID)
	if !ok {
		return
	}

	b, err := h.create.Execute(c.Request.Context(), blackout.CreateBlackoutInput{
		EstablishmentID:   a.EstablishmentID,
		ActorID:           a.ID(),
		ProfessionalScope: a.Scope(),
		ProfessionalID:    professionalID,
		DateStart:         req.DateStart,
		DateEnd:           req.DateEnd,
		TimeStart:         req.TimeStart,
		TimeEnd:           req.TimeEnd,
		Reason:            req.Reason,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.Created(c, b)
}

// List: GET /me/blackouts?from=2006-01-02&to=2006-01-02&professional_id=
func (h *BlackoutHandler) List(c *gin.Context) {
	a := currentActor(c)

	from := c.Query("from")
	if from == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data inicial.")
		return
	}

	professionalID, ok := professionalFilter(c, a)
	if !ok {
		return
	}

	out, err := h.list.Execute(c.Request.Context(), a.EstablishmentID, professionalID, from, c.Query("to"))
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *BlackoutHandler) Delete(c *gin.Context) {
	a := currentActor(c)

	if err := h.remove.Execute(
		c.Request.Context(),
		a.EstablishmentID,
		a.ID(),
		a.Scope(),
		c.Param("id"),
	); err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.NoContent(c)
}
