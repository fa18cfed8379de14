package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/dto"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/httpresp"
	"github.com/BruksfildServices01/gestao-agenda/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *appointment.CreateAppointment
	reschedule   *appointment.RescheduleAppointment
	changeStatus *appointment.ChangeAppointmentStatus
	listByDate   *appointment.ListAppointmentsByDate
	listByMonth  *appointment.ListAppointmentsByMonth
	availability *appointment.GetAvailability
}

func NewAppointmentHandler(
	create *appointment.CreateAppointment,
	reschedule *appointment.RescheduleAppointment,
	changeStatus *appointment.ChangeAppointmentStatus,
	listByDate *appointment.ListAppointmentsByDate,
	listByMonth *appointment.ListAppointmentsByMonth,
	availability *appointment.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		reschedule:   reschedule,
		changeStatus: changeStatus,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	ClientEmail    string `json:"client_email"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`

	DurationMinutes int      `json:"duration_minutes" binding:"min=0"`
	Value           *float64 `json:"value"`
	Prepaid         bool     `json:"prepaid"`
	Notes           string   `json:"notes"`
	AllowBlackout   bool     `json:"allow_blackout"`
}

type RescheduleAppointmentRequest struct {
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"min=0"`
	ProfessionalID  *uint  `json:"professional_id"`
	AllowBlackout   bool   `json:"allow_blackout"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	a := currentActor(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	professionalID, ok := targetProfessional(c, a, req.ProfessionalID)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		EstablishmentID: a.EstablishmentID,
		ActorID:         a.ID(),
		Source:          appointment.SourceStaff,
		ProfessionalID:  professionalID,
		ServiceID:       req.ServiceID,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ClientEmail:     req.ClientEmail,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		Value:           req.Value,
		Prepaid:         req.Prepaid,
		Notes:           req.Notes,
		AllowBlackout:   req.AllowBlackout,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.Created(c, dto.NewAppointmentListDTO(*ap))
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	a := currentActor(c)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data.")
		return
	}

	professionalID, ok := professionalFilter(c, a)
	if !ok {
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), a.EstablishmentID, professionalID, date)
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	a := currentActor(c)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	professionalID, ok := professionalFilter(c, a)
	if !ok {
		return
	}

	out, err := h.listByMonth.Execute(c.Request.Context(), a.EstablishmentID, professionalID, year, month)
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	a := currentActor(c)

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.ProfessionalID != nil {
		target, ok := targetProfessional(c, a, *req.ProfessionalID)
		if !ok {
			return
		}
		req.ProfessionalID = &target
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), appointment.RescheduleAppointmentInput{
		EstablishmentID:   a.EstablishmentID,
		ActorID:           a.ID(),
		ProfessionalScope: a.Scope(),
		AppointmentID:     c.Param("id"),
		Date:              req.Date,
		Time:              req.Time,
		DurationMinutes:   req.DurationMinutes,
		ProfessionalID:    req.ProfessionalID,
		AllowBlackout:     req.AllowBlackout,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentListDTO(*ap))
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) ChangeStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	h.setStatus(c, req.Status)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.setStatus(c, string(domain.StatusCompleted))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.setStatus(c, string(domain.StatusCanceled))
}

func (h *AppointmentHandler) setStatus(c *gin.Context, status string) {
	a := currentActor(c)

	ap, err := h.changeStatus.Execute(c.Request.Context(), appointment.ChangeStatusInput{
		EstablishmentID:   a.EstablishmentID,
		ActorID:           a.ID(),
		ProfessionalScope: a.Scope(),
		AppointmentID:     c.Param("id"),
		Status:            status,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, dto.NewAppointmentListDTO(*ap))
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	a := currentActor(c)

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil || serviceID == 0 {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	requested, _ := strconv.ParseUint(c.Query("professional_id"), 10, 64)
	professionalID, ok := targetProfessional(c, a, uint(requested))
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		EstablishmentID: a.EstablishmentID,
		ProfessionalID:  professionalID,
		ServiceID:       uint(serviceID),
		Date:            c.Query("date"),
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.List(c, slots)
}
