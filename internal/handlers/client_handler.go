package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// ======================================================
// LIST CLIENTS
// ======================================================
// Profissional vê apenas clientes que já agendaram com ele.
func (h *ClientHandler) List(c *gin.Context) {
	a := currentActor(c)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Where("establishment_id = ?", a.EstablishmentID)

	if scope := a.Scope(); scope != nil {
		q = q.Where(
			"id IN (?)",
			h.db.Model(&models.Appointment{}).
				Select("client_id").
				Where("professional_id = ?", *scope),
		)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	c.JSON(http.StatusOK, clients)
}
