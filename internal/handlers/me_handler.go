package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/authz"
	"github.com/BruksfildServices01/gestao-agenda/internal/httperr"
	"github.com/BruksfildServices01/gestao-agenda/internal/media"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

const maxPhotoBytes = 5 << 20

type MeHandler struct {
	db *gorm.DB

	// nil quando o armazenamento de arquivos não está configurado.
	uploader *media.PhotoUploader
}

func NewMeHandler(db *gorm.DB, uploader *media.PhotoUploader) *MeHandler {
	return &MeHandler{db: db, uploader: uploader}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	a := currentActor(c)

	var user models.User
	if err := h.db.Preload("Establishment").First(&user, a.UserID).Error; err != nil {
		httperr.Internal(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":               user.ID,
			"name":             user.Name,
			"email":            user.Email,
			"phone":            user.Phone,
			"role":             user.Role,
			"profession":       user.Profession,
			"photo_url":        user.PhotoURL,
			"establishment_id": user.EstablishmentID,
		},
		"establishment": gin.H{
			"id":                  user.Establishment.ID,
			"name":                user.Establishment.Name,
			"slug":                user.Establishment.Slug,
			"phone":               user.Establishment.Phone,
			"address":             user.Establishment.Address,
			"timezone":            user.Establishment.Timezone,
			"min_advance_minutes": user.Establishment.MinAdvanceMinutes,
		},
		"permissions": authz.For(user.Role),
	})
}

// UploadPhoto recebe multipart "photo", converte para WebP e grava no
// armazenamento de objetos.
func (h *MeHandler) UploadPhoto(c *gin.Context) {
	if h.uploader == nil {
		httperr.ServiceUnavailable(c, "storage_unavailable", "Envio de fotos indisponível.")
		return
	}

	a := currentActor(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)
	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Envie a imagem no campo photo.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Imagem inválida.")
		return
	}
	defer f.Close()

	url, err := h.uploader.Upload(c.Request.Context(), a.EstablishmentID, a.UserID, f)
	if err != nil {
		httperr.MapBusiness(c, err)
		return
	}

	if err := h.db.Model(&models.User{}).
		Where("id = ? AND establishment_id = ?", a.UserID, a.EstablishmentID).
		Update("photo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao salvar foto.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
