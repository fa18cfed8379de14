package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	DurationMinutes    int     `json:"duration_minutes" binding:"required,min=1"`
	Value              float64 `json:"value" binding:"min=0"`
	Color              string  `json:"color"`
	Category           string  `json:"category"`
	RequiresPrepayment bool    `json:"requires_prepayment"`
}

type UpdateServiceRequest struct {
	Name               *string  `json:"name,omitempty"`
	Description        *string  `json:"description,omitempty"`
	DurationMinutes    *int     `json:"duration_minutes,omitempty"`
	Value              *float64 `json:"value,omitempty"`
	Color              *string  `json:"color,omitempty"`
	Active             *bool    `json:"active,omitempty"`
	RequiresPrepayment *bool    `json:"requires_prepayment,omitempty"`
}

// --------- Handlers ---------
func (h *ServiceHandler) List(c *gin.Context) {
	a := currentActor(c)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("establishment_id = ?", a.EstablishmentID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	a := currentActor(c)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	svc := models.Service{
		EstablishmentID:    a.EstablishmentID,
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		DurationMinutes:    req.DurationMinutes,
		Value:              req.Value,
		Color:              req.Color,
		Category:           strings.ToLower(req.Category),
		RequiresPrepayment: req.RequiresPrepayment,
		Active:             true,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	a := currentActor(c)

	var svc models.Service
	if err := h.db.
		Where("id = ? AND establishment_id = ?", c.Param("id"), a.EstablishmentID).
		First(&svc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_service", "Erro ao buscar serviço.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duração inválida.")
			return
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Value != nil {
		svc.Value = *req.Value
	}
	if req.Color != nil {
		svc.Color = *req.Color
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	if req.RequiresPrepayment != nil {
		svc.RequiresPrepayment = *req.RequiresPrepayment
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao salvar serviço.")
		return
	}

	c.JSON(http.StatusOK, svc)
}
