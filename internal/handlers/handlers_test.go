package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/gestao-agenda/internal/config"
	"github.com/BruksfildServices01/gestao-agenda/internal/media"
	"github.com/BruksfildServices01/gestao-agenda/internal/middleware"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/testutil"
)

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func newAuthRouter(t *testing.T) (*gin.Engine, testutil.Fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)

	h := NewAuthHandler(db, &config.Config{JWTSecret: "test-secret"})
	h.resolveDomain = func(context.Context, string) bool { return true }

	r := gin.New()
	r.POST("/register", h.Register)
	r.POST("/login", h.Login)
	return r, fx
}

func TestRegister(t *testing.T) {
	r, _ := newAuthRouter(t)

	w := postJSON(r, "/register", map[string]any{
		"establishment_name": "Clínica São João",
		"timezone":           "Mars/Olympus",
		"name":               "João",
		"email":              "Joao@Clinica.com",
		"password":           "segredo123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		User          models.User          `json:"user"`
		Establishment models.Establishment `json:"establishment"`
		Token         string               `json:"token"`
		Permissions   map[string]bool      `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	assert.Equal(t, "clinica-sao-joao", out.Establishment.Slug)
	assert.Equal(t, "America/Sao_Paulo", out.Establishment.Timezone)
	assert.Equal(t, "joao@clinica.com", out.User.Email)
	assert.Equal(t, models.RoleAdmin, out.User.Role)
	assert.True(t, out.Permissions["configure_app"])
	assert.NotEmpty(t, out.Token)

	// slug e e-mail já usados
	w = postJSON(r, "/register", map[string]any{
		"establishment_name": "Clinica Sao Joao",
		"name":               "Outro",
		"email":              "outro@clinica.com",
		"password":           "segredo123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slug_already_exists")

	w = postJSON(r, "/register", map[string]any{
		"establishment_name": "Outra Clínica",
		"name":               "João",
		"email":              "joao@clinica.com",
		"password":           "segredo123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email_already_exists")
}

func TestRegister_RejectsBadDomain(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	h := NewAuthHandler(db, &config.Config{JWTSecret: "x"})
	h.resolveDomain = func(context.Context, string) bool { return false }
	r := gin.New()
	r.POST("/register", h.Register)

	w := postJSON(r, "/register", map[string]any{
		"establishment_name": "Studio",
		"name":               "Ana",
		"email":              "ana@nao-existe.invalid",
		"password":           "segredo123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_email_domain")
}

func TestLogin(t *testing.T) {
	r, fx := newAuthRouter(t)

	w := postJSON(r, "/login", map[string]any{"email": "ana@studio.com", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/login", map[string]any{"email": "ninguem@studio.com", "password": testutil.Password})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/login", map[string]any{"email": "ANA@studio.com", "password": testutil.Password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Token         string               `json:"token"`
		Establishment models.Establishment `json:"establishment"`
		Permissions   map[string]bool      `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, fx.Establishment.Slug, out.Establishment.Slug)
	assert.True(t, out.Permissions["view_own_agenda"])
	assert.False(t, out.Permissions["manage_professionals"])

	// o token emitido passa no middleware
	secured := gin.New()
	secured.GET("/whoami", middleware.AuthMiddleware(&config.Config{JWTSecret: "test-secret"}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetUint(middleware.ContextUserID)})
	})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+out.Token)
	rec := httptest.NewRecorder()
	secured.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":`+jsonUint(fx.Professional.ID)+`}`, rec.Body.String())
}

func TestPhotoUploadWithoutStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	h := NewMeHandler(db, nil)
	r := gin.New()
	r.PUT("/me/photo", h.UploadPhoto)

	req := httptest.NewRequest(http.MethodPut, "/me/photo", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type memStore struct {
	keys []string
}

func (s *memStore) Put(_ context.Context, key, contentType string, body []byte) (string, error) {
	if contentType != "image/webp" || len(body) == 0 {
		return "", errors.New("unexpected object")
	}
	s.keys = append(s.keys, key)
	return "https://cdn.test/" + key, nil
}

func TestPhotoUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)

	store := &memStore{}
	h := NewMeHandler(db, media.NewPhotoUploader(store))
	r := gin.New()
	r.PUT("/me/photo", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, fx.Professional.ID)
		c.Set(middleware.ContextEstablishmentID, fx.Establishment.ID)
		c.Set(middleware.ContextUserRole, models.RoleProfessional)
	}, h.UploadPhoto)

	send := func(field string, payload []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile(field, "foto.png")
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPut, "/me/photo", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 40, 30))))

	w := send("photo", img.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, store.keys, 1)
	assert.Contains(t, w.Body.String(), "https://cdn.test/establishments/")

	var u models.User
	require.NoError(t, db.First(&u, fx.Professional.ID).Error)
	assert.Equal(t, "https://cdn.test/"+store.keys[0], u.PhotoURL)

	w = send("photo", []byte("não é imagem"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_image")

	w = send("arquivo", img.Bytes())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
