package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/gestao-agenda/internal/dto"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/httpresp"
	"github.com/BruksfildServices01/gestao-agenda/internal/usecase/waitlist"
)

type WaitlistHandler struct {
	create  *waitlist.CreateEntry
	list    *waitlist.ListEntries
	promote *waitlist.PromoteEntry
	cancel  *waitlist.CancelEntry
}

func NewWaitlistHandler(
	create *waitlist.CreateEntry,
	list *waitlist.ListEntries,
	promote *waitlist.PromoteEntry,
	cancel *waitlist.CancelEntry,
) *WaitlistHandler {
	return &WaitlistHandler{create: create, list: list, promote: promote, cancel: cancel}
}

type CreateWaitlistRequest struct {
	ProfessionalID  uint   `json:"professional_id"`
	ServiceID       uint   `json:"service_id" binding:"required"`
	ClientName      string `json:"client_name" binding:"required"`
	ClientPhone     string `json:"client_phone" binding:"required"`
	ClientEmail     string `json:"client_email"`
	PreferredDate   string `json:"preferred_date"`
	PreferredPeriod string `json:"preferred_period"`
	Notes           string `json:"notes"`
}

type PromoteWaitlistRequest struct {
	ProfessionalID uint   `json:"professional_id"`
	Date           string `json:"date"`
	Time           string `json:"time" binding:"required"`
	AllowBlackout  bool   `json:"allow_blackout"`
}

// resolveOptional: 0 continua 0 para admin (sem profissional definido);
// profissional sempre cai na própria agenda.
func resolveOptional(c *gin.Context, a actor, requested uint) (uint, bool) {
	if requested == 0 && a.Scope() == nil {
		return 0, true
	}
	return targetProfessional(c, a, requested)
}

func (h *WaitlistHandler) Create(c *gin.Context) {
	a := currentActor(c)

	var req CreateWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	professionalID, ok := resolveOptional(c, a, req.ProfessionalID)
	if !ok {
		return
	}

	in := waitlist.CreateEntryInput{
		EstablishmentID:   a.EstablishmentID,
		ActorID:           a.ID(),
		ProfessionalScope: a.Scope(),
		ServiceID:         req.ServiceID,
		ClientName:        req.ClientName,
		ClientPhone:       req.ClientPhone,
		ClientEmail:       req.ClientEmail,
		PreferredDate:     req.PreferredDate,
		PreferredPeriod:   req.PreferredPeriod,
		Notes:             req.Notes,
	}
	if professionalID != 0 {
		in.ProfessionalID = &professionalID
	}

	entry, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.Created(c, entry)
}

// List: GET /me/waitlist?status=waiting|promoted|canceled|all
func (h *WaitlistHandler) List(c *gin.Context) {
	a := currentActor(c)

	out, err := h.list.Execute(c.Request.Context(), a.EstablishmentID, a.Scope(), c.Query("status"))
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *WaitlistHandler) Promote(c *gin.Context) {
	a := currentActor(c)

	var req PromoteWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	professionalID, ok := resolveOptional(c, a, req.ProfessionalID)
	if !ok {
		return
	}

	entry, ap, err := h.promote.Execute(c.Request.Context(), waitlist.PromoteEntryInput{
		EstablishmentID:   a.EstablishmentID,
		ActorID:           a.ID(),
		ProfessionalScope: a.Scope(),
		EntryID:           c.Param("id"),
		ProfessionalID:    professionalID,
		Date:              req.Date,
		Time:              req.Time,
		AllowBlackout:     req.AllowBlackout,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":       entry,
		"appointment": dto.NewAppointmentListDTO(*ap),
	})
}

func (h *WaitlistHandler) Cancel(c *gin.Context) {
	a := currentActor(c)

	if err := h.cancel.Execute(
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
