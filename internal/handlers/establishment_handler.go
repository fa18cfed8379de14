package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
)

type EstablishmentHandler struct {
	db          *gorm.DB
	defaultGrid schedule.GridConfig
}

func NewEstablishmentHandler(db *gorm.DB, defaultGrid schedule.GridConfig) *EstablishmentHandler {
	return &EstablishmentHandler{db: db, defaultGrid: defaultGrid}
}

type UpdateEstablishmentRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`

	GridOpenHour    *int `json:"grid_open_hour"`
	GridCloseHour   *int `json:"grid_close_hour"`
	GridStepMinutes *int `json:"grid_step_minutes"`
}

func (h *EstablishmentHandler) load(c *gin.Context) (*models.Establishment, bool) {
	a := currentActor(c)

	var est models.Establishment
	if err := h.db.First(&est, a.EstablishmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "establishment_not_found", "Estabelecimento não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_establishment", "Erro ao buscar dados do estabelecimento.")
		return nil, false
	}
	return &est, true
}

func (h *EstablishmentHandler) Get(c *gin.Context) {
	est, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"establishment": est,
		"grid":          h.gridOf(est),
	})
}

func (h *EstablishmentHandler) Update(c *gin.Context) {
	est, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateEstablishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Nome não pode ficar vazio.")
			return
		}
		est.Name = name
	}
	if req.Phone != nil {
		est.Phone = *req.Phone
	}
	if req.Address != nil {
		est.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		est.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		est.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if req.GridOpenHour != nil {
		est.GridOpenHour = *req.GridOpenHour
	}
	if req.GridCloseHour != nil {
		est.GridCloseHour = *req.GridCloseHour
	}
	if req.GridStepMinutes != nil {
		est.GridStepMinutes = *req.GridStepMinutes
	}
	if !h.gridOf(est).Valid() {
		httperr.BadRequest(c, "invalid_grid", "Configuração de grade inválida.")
		return
	}

	if err := h.db.Save(est).Error; err != nil {
		httperr.Internal(c, "failed_to_update_establishment", "Erro ao salvar as configurações do estabelecimento.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"establishment": est,
		"grid":          h.gridOf(est),
	})
}

func (h *EstablishmentHandler) gridOf(est *models.Establishment) schedule.GridConfig {
	return schedule.GridConfig{
		OpenHour:    est.GridOpenHour,
		CloseHour:   est.GridCloseHour,
		StepMinutes: est.GridStepMinutes,
	}.WithDefaults(h.defaultGrid)
}
