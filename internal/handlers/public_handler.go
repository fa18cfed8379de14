package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/dto"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/httpresp"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/usecase/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/usecase/rating"
	"github.com/BruksfildServices01/gestao-agenda/internal/usecase/schedule"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db           *gorm.DB
	grid         *schedule.GetGrid
	availability *appointment.GetAvailability
	create       *appointment.CreateAppointment
	rate         *rating.CreateRating
	ratings      *rating.ListRatings
}

func NewPublicHandler(
	db *gorm.DB,
	grid *schedule.GetGrid,
	availability *appointment.GetAvailability,
	create *appointment.CreateAppointment,
	rate *rating.CreateRating,
	ratings *rating.ListRatings,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		grid:         grid,
		availability: availability,
		create:       create,
		rate:         rate,
		ratings:      ratings,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ProfessionalID uint   `json:"professional_id"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ClientName     string `json:"client_name" binding:"required"`
	ClientPhone    string `json:"client_phone" binding:"required"`
	ClientEmail    string `json:"client_email"`
	Date           string `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes"`
}

type PublicRatingRequest struct {
	ClientPhone string `json:"client_phone" binding:"required"`
	Score       int    `json:"score" binding:"required"`
	Comment     string `json:"comment"`
}

// publicRating omite cliente e visibilidade.
type publicRating struct {
	ID             string    `json:"id"`
	ProfessionalID uint      `json:"professional_id"`
	ServiceID      uint      `json:"service_id"`
	Score          int       `json:"score"`
	Comment        string    `json:"comment"`
	Reply          string    `json:"reply"`
	CreatedAt      time.Time `json:"created_at"`
}

type publicProfessional struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Profession string `json:"profession"`
	PhotoURL   string `json:"photo_url"`
}

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

func (h *PublicHandler) establishment(c *gin.Context) (*models.Establishment, bool) {
	var est models.Establishment
	if err := h.db.Where("slug = ?", c.Param("slug")).First(&est).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "establishment_not_found", "Estabelecimento não encontrado.")
			return nil, false
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return nil, false
	}
	return &est, true
}

// professional usa o id pedido ou, sem id, o primeiro administrador
// (caso do profissional autônomo).
func (h *PublicHandler) professional(c *gin.Context, est *models.Establishment, requested uint) (uint, bool) {
	if requested != 0 {
		return requested, true
	}

	var owner models.User
	if err := h.db.
		Where("establishment_id = ? AND role = ? AND active = ?", est.ID, models.RoleAdmin, true).
		Order("id ASC").
		First(&owner).Error; err != nil {

		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return 0, false
	}
	return owner.ID, true
}

func queryUint(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

////////////////////////////////////////////////////////
// SERVICES / PROFESSIONALS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.Where("establishment_id = ? AND active = ?", est.ID, true)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
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

	var users []models.User
	if err := h.db.
		Where("establishment_id = ? AND role IN ? AND active = ?",
			est.ID, []string{models.RoleAdmin, models.RoleProfessional}, true).
		Order("id ASC").
		Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}

	professionals := make([]publicProfessional, 0, len(users))
	for _, u := range users {
		professionals = append(professionals, publicProfessional{
			ID:         u.ID,
			Name:       u.Name,
			Profession: u.Profession,
			PhotoURL:   u.PhotoURL,
		})
	}

	if services == nil {
		services = []models.Service{}
	}

	httpresp.OK(c, gin.H{
		"establishment": gin.H{
			"name":     est.Name,
			"slug":     est.Slug,
			"phone":    est.Phone,
			"address":  est.Address,
			"timezone": est.Timezone,
		},
		"services":      services,
		"professionals": professionals,
	})
}

////////////////////////////////////////////////////////
// GRID (SEM DADOS DE CLIENTES)
////////////////////////////////////////////////////////

func (h *PublicHandler) Grid(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	requested, valid := queryUint(c, "professional_id")
	if !valid {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return
	}
	professionalID, ok := h.professional(c, est, requested)
	if !ok {
		return
	}

	grid, err := h.grid.Execute(c.Request.Context(), schedule.GetGridInput{
		EstablishmentID: est.ID,
		ProfessionalID:  &professionalID,
		Date:            c.Query("date"),
		Redact:          true,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, grid)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	serviceID, valid := queryUint(c, "service_id")
	if dateStr == "" || !valid || serviceID == 0 {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	requested, valid := queryUint(c, "professional_id")
	if !valid {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return
	}
	professionalID, ok := h.professional(c, est, requested)
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), appointment.AvailabilityInput{
		EstablishmentID: est.ID,
		ProfessionalID:  professionalID,
		ServiceID:       serviceID,
		Date:            dateStr,
		Public:          true,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":            dateStr,
		"professional_id": professionalID,
		"slots":           slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	professionalID, ok := h.professional(c, est, req.ProfessionalID)
	if !ok {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		EstablishmentID: est.ID,
		Source:          appointment.SourcePublic,
		ProfessionalID:  professionalID,
		ServiceID:       req.ServiceID,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ClientEmail:     req.ClientEmail,
		Date:            req.Date,
		Time:            req.Time,
		Notes:           req.Notes,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.Created(c, dto.NewAppointmentListDTO(*ap))
}

////////////////////////////////////////////////////////
// RATINGS
////////////////////////////////////////////////////////

// ListRatings: GET /api/public/:slug/ratings?professional_id=
// Só avaliações visíveis.
func (h *PublicHandler) ListRatings(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	profID, ok := queryUint(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return
	}

	f := domain.RatingFilter{EstablishmentID: est.ID, OnlyVisible: true}
	if profID != 0 {
		f.ProfessionalID = &profID
	}

	sum, err := h.ratings.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	out := make([]publicRating, 0, len(sum.Ratings))
	for _, r := range sum.Ratings {
		out = append(out, publicRating{
			ID:             r.ID,
			ProfessionalID: r.ProfessionalID,
			ServiceID:      r.ServiceID,
			Score:          r.Score,
			Comment:        r.Comment,
			Reply:          r.Reply,
			CreatedAt:      r.CreatedAt,
		})
	}

	httpresp.OK(c, gin.H{
		"count":   sum.Count,
		"average": sum.Average,
		"ratings": out,
	})
}

// RateAppointment: POST /api/public/:slug/appointments/:id/rating
func (h *PublicHandler) RateAppointment(c *gin.Context) {
	est, ok := h.establishment(c)
	if !ok {
		return
	}

	var req PublicRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.rate.Execute(c.Request.Context(), rating.CreateRatingInput{
		EstablishmentID: est.ID,
		AppointmentID:   c.Param("id"),
		ClientPhone:     req.ClientPhone,
		Score:           req.Score,
		Comment:         req.Comment,
	})
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	httpresp.Created(c, publicRating{
		ID:             r.ID,
		ProfessionalID: r.ProfessionalID,
		ServiceID:      r.ServiceID,
		Score:          r.Score,
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt,
	})
}
