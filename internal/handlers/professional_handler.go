package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/validators"
)

type ProfessionalHandler struct {
	db *gorm.DB
}

func NewProfessionalHandler(db *gorm.DB) *ProfessionalHandler {
	return &ProfessionalHandler{db: db}
}

type CreateProfessionalRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Phone      string `json:"phone"`
	Profession string `json:"profession"`
	Role       string `json:"role"`
}

type UpdateProfessionalRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Profession *string `json:"profession"`
	Active     *bool   `json:"active"`
}

// List devolve a equipe; profissional vê só o próprio cadastro.
func (h *ProfessionalHandler) List(c *gin.Context) {
	a := currentActor(c)

	q := h.db.Where(
		"establishment_id = ? AND role IN ?",
		a.EstablishmentID,
		[]string{models.RoleAdmin, models.RoleProfessional},
	)
	if scope := a.Scope(); scope != nil {
		q = q.Where("id = ?", *scope)
	}

	var users []models.User
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *ProfessionalHandler) Create(c *gin.Context) {
	a := currentActor(c)

	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleProfessional
	}
	if role != models.RoleAdmin && role != models.RoleProfessional {
		httperr.BadRequest(c, "invalid_role", "Papel inválido.")
		return
	}

	email, err := validators.ValidateEmail(c.Request.Context(), req.Email, nil)
	if err != nil {
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return
	}

	var count int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}
	if count > 0 {
		httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar senha.")
		return
	}

	user := models.User{
		EstablishmentID: a.EstablishmentID,
		Name:            strings.TrimSpace(req.Name),
		Email:           email,
		PasswordHash:    string(hashed),
		Phone:           req.Phone,
		Profession:      req.Profession,
		Role:            role,
		Active:          true,
	}

	if err := h.db.Omit("Establishment").Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_professional", "Erro ao cadastrar profissional.")
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	a := currentActor(c)

	var user models.User
	if err := h.db.
		Where("id = ? AND establishment_id = ? AND role IN ?",
			c.Param("id"), a.EstablishmentID,
			[]string{models.RoleAdmin, models.RoleProfessional}).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	var req UpdateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Profession != nil {
		user.Profession = *req.Profession
	}
	if req.Active != nil {
		if !*req.Active && user.ID == a.UserID {
			httperr.BadRequest(c, "cannot_deactivate_self", "Não é possível desativar o próprio usuário.")
			return
		}
		user.Active = *req.Active
	}

	if err := h.db.Omit("Establishment").Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_professional", "Erro ao salvar profissional.")
		return
	}

	c.JSON(http.StatusOK, user)
}
