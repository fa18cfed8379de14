package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type WorkingHoursHandler struct {
	db *gorm.DB
}

func NewWorkingHoursHandler(db *gorm.DB) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required,dive"`
}

func (d WorkingDayConfig) valid() bool {
	if !d.Active {
		return true
	}
	start, err1 := schedule.ParseTimeOfDay(d.StartTime)
	end, err2 := schedule.ParseTimeOfDay(d.EndTime)
	if err1 != nil || err2 != nil || start >= end {
		return false
	}
	if d.LunchStart == "" && d.LunchEnd == "" {
		return true
	}
	ls, err1 := schedule.ParseTimeOfDay(d.LunchStart)
	le, err2 := schedule.ParseTimeOfDay(d.LunchEnd)
	return err1 == nil && err2 == nil && ls < le && ls >= start && le <= end
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	a := currentActor(c)

	var hours []models.WorkingHours
	if err := h.db.
		Where("professional_id = ?", a.UserID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Erro ao buscar horários.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

// Update substitui a semana inteira do profissional logado.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	a := currentActor(c)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	seen := map[int]bool{}
	toCreate := make([]models.WorkingHours, 0, len(req.Days))
	for _, d := range req.Days {
		if !d.valid() {
			httperr.BadRequest(c, "invalid_time", "Horário inválido.")
			return
		}
		if seen[d.Weekday] {
			httperr.BadRequest(c, "duplicated_weekday", "Dia da semana repetido.")
			return
		}
		seen[d.Weekday] = true

		toCreate = append(toCreate, models.WorkingHours{
			ProfessionalID: a.UserID,
			Weekday:        d.Weekday,
			Active:         d.Active,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			LunchStart:     d.LunchStart,
			LunchEnd:       d.LunchEnd,
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("professional_id = ?", a.UserID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) == 0 {
			return nil
		}
		return tx.Create(&toCreate).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Erro ao salvar horários.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
