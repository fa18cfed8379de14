package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/gestao-agenda/internal/authz"
	"github.com/BruksfildServices01/gestao-agenda/internal/config"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
)

func newRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(cfg.CORSOrigins))

	secured := r.Group("/", AuthMiddleware(cfg))
	secured.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":          c.GetUint(ContextUserID),
			"establishment": c.GetUint(ContextEstablishmentID),
			"role":          c.GetString(ContextUserRole),
		})
	})
	secured.GET("/admin", RequirePermission(authz.CanManageProfessionals), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cr3t"}
	r := newRouter(cfg)

	w := get(r, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(r, "/whoami", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := IssueToken("other-secret", 1, 1, models.RoleAdmin)
	require.NoError(t, err)
	w = get(r, "/whoami", other)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := IssueToken(cfg.JWTSecret, 5, 2, models.RoleProfessional)
	require.NoError(t, err)
	w = get(r, "/whoami", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":5,"establishment":2,"role":"professional"}`, w.Body.String())
}

func TestRequirePermission(t *testing.T) {
	cfg := &config.Config{JWTSecret: "s3cr3t"}
	r := newRouter(cfg)

	pro, _ := IssueToken(cfg.JWTSecret, 5, 2, models.RoleProfessional)
	w := get(r, "/admin", pro)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")

	admin, _ := IssueToken(cfg.JWTSecret, 1, 2, models.RoleAdmin)
	w = get(r, "/admin", admin)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(&config.Config{JWTSecret: "x"})

	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	r := newRouter(&config.Config{JWTSecret: "x", CORSOrigins: []string{"https://app.agenda.com"}})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://app.agenda.com")
	assert.Equal(t, "https://app.agenda.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://evil.example")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer

	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	get(r, "/x", "")

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/x"`)
}
