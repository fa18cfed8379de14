package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/middleware"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

type actor struct {
	UserID          uint
	EstablishmentID uint
	Role            string
}

func currentActor(c *gin.Context) actor {
	return actor{
		UserID:          c.GetUint(middleware.ContextUserID),
		EstablishmentID: c.GetUint(middleware.ContextEstablishmentID),
		Role:            c.GetString(middleware.ContextUserRole),
	}
}

func (a actor) ID() *uint {
	id := a.UserID
	return &id
}

// Scope prende o profissional à própria agenda; admin enxerga tudo.
func (a actor) Scope() *uint {
	if a.Role == models.RoleAdmin {
		return nil
	}
	return a.ID()
}

// professionalFilter lê ?professional_id=. Profissional sempre vê só a
// própria agenda; admin pode pedir um id ou "all" (vazio = todos).
func professionalFilter(c *gin.Context, a actor) (*uint, bool) {
	if scope := a.Scope(); scope != nil {
		return scope, true
	}

	raw := strings.TrimSpace(c.Query("professional_id"))
	if raw == "" || raw == "all" {
		return nil, true
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func bindError(c *gin.Context, err error) {
	httperr.Invalid(c, err)
}

// targetProfessional resolve de quem é a agenda afetada pela escrita.
// Profissional só escreve na própria; admin sem id escreve na própria.
func targetProfessional(c *gin.Context, a actor, requested uint) (uint, bool) {
	if a.Role != models.RoleAdmin && requested != 0 && requested != a.UserID {
		httperr.Forbidden(c, "forbidden", "Sem permissão para a agenda de outro profissional.")
		return 0, false
	}
	if requested == 0 || a.Role != models.RoleAdmin {
		return a.UserID, true
	}
	return requested, true
}
