package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/authz"
	"github.com/BruksfildServices01/gestao-agenda/internal/config"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/middleware"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/timezone"
	"github.com/BruksfildServices01/gestao-agenda/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config

	// resolveDomain consulta DNS; trocado nos testes.
	resolveDomain validators.DomainResolver
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:            db,
		config:        cfg,
		resolveDomain: validators.ResolveDomain,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	EstablishmentName    string `json:"establishment_name" binding:"required"`
	EstablishmentSlug    string `json:"establishment_slug"`
	EstablishmentPhone   string `json:"establishment_phone"`
	EstablishmentAddress string `json:"establishment_address"`
	Timezone             string `json:"timezone"`

	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Phone      string `json:"phone"`
	Profession string `json:"profession"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register cria o estabelecimento e o usuário administrador.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	slug := validators.Slugify(req.EstablishmentSlug)
	if slug == "" {
		slug = validators.Slugify(req.EstablishmentName)
	}
	if slug == "" {
		httperr.BadRequest(c, "invalid_slug", "Identificador do estabelecimento inválido.")
		return
	}

	email, err := validators.ValidateEmail(c.Request.Context(), req.Email, h.resolveDomain)
	switch {
	case errors.Is(err, validators.ErrEmailFormat):
		httperr.BadRequest(c, "invalid_email", "E-mail inválido.")
		return
	case err != nil:
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	tz := req.Timezone
	if !timezone.IsValid(tz) {
		tz = timezone.DefaultTimezone
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar senha.")
		return
	}

	est := models.Establishment{
		Name:     strings.TrimSpace(req.EstablishmentName),
		Slug:     slug,
		Phone:    req.EstablishmentPhone,
		Address:  req.EstablishmentAddress,
		Email:    email,
		Timezone: tz,
	}
	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Profession:   req.Profession,
		Role:         models.RoleAdmin,
		Active:       true,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Establishment{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("slug_already_exists")
		}

		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_already_exists")
		}

		if err := tx.Create(&est).Error; err != nil {
			return err
		}

		user.EstablishmentID = est.ID
		return tx.Omit("Establishment").Create(&user).Error
	})
	if err != nil {
		switch httperr.CodeOf(err) {
		case "slug_already_exists":
			httperr.Conflict(c, "slug_already_exists", "Já existe um estabelecimento com esse identificador.")
		case "email_already_exists":
			httperr.Conflict(c, "email_already_exists", "E-mail já cadastrado.")
		default:
			httperr.Internal(c, "failed_to_register", "Erro ao criar conta.")
		}
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, user.ID, est.ID, user.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(&user, &est, token))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.Preload("Establishment").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if !user.Active {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, user.ID, user.EstablishmentID, user.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, sessionResponse(&user, &user.Establishment, token))
}

func sessionResponse(user *models.User, est *models.Establishment, token string) gin.H {
	return gin.H{
		"user":          user,
		"establishment": est,
		"permissions":   authz.For(user.Role),
		"token":         token,
	}
}
