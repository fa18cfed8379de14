package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/httpresp"
	"github.com/BruksfildServices01/gestao-agenda/internal/usecase/schedule"
)

// ScheduleHandler expõe a grade diária e a checagem de conflito.
type ScheduleHandler struct {
	grid  *schedule.GetGrid
	check *schedule.CheckConflict
}

func NewScheduleHandler(grid *schedule.GetGrid, check *schedule.CheckConflict) *ScheduleHandler {
	return &ScheduleHandler{grid: grid, check: check}
}

type CheckConflictRequest struct {
	ProfessionalID  uint   `json:"professional_id"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"min=0"`
	ServiceID       uint   `json:"service_id"`
	ExcludeID       string `json:"exclude_id"`
}

// Grid: GET /me/grid?date=2006-01-02&professional_id=<id|all>
func (h *ScheduleHandler) Grid(c *gin.Context) {
	a := currentActor(c)

	professionalID, ok := professionalFilter(c, a)
	if !ok {
		return
	}

	grid, err := h.grid.Execute(c.Request.Context(), schedule.GetGridInput{
		EstablishmentID: a.EstablishmentID,
		ProfessionalID:  professionalID,
		Date:            c.Query("date"),
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, grid)
}

// Check responde 200 com accepted=false e o motivo quando há conflito;
// nada é gravado.
func (h *ScheduleHandler) Check(c *gin.Context) {
	a := currentActor(c)

	var req CheckConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.DurationMinutes == 0 && req.ServiceID == 0 {
		httperr.BadRequest(c, "invalid_duration", "Informe a duração ou o serviço.")
		return
	}

	professionalID, ok := targetProfessional(c, a, req.ProfessionalID)
	if !ok {
		return
	}

	res, err := h.check.Execute(c.Request.Context(), schedule.CheckConflictInput{
		EstablishmentID: a.EstablishmentID,
		ProfessionalID:  professionalID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		ServiceID:       req.ServiceID,
		ExcludeID:       req.ExcludeID,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, res)
}
