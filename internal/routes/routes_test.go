package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	"github.com/BruksfildServices01/gestao-agenda/internal/config"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
	"github.com/BruksfildServices01/gestao-agenda/internal/middleware"
	"github.com/BruksfildServices01/gestao-agenda/internal/models"
	"github.com/BruksfildServices01/gestao-agenda/internal/testutil"
)

const testDate = "2030-03-11"

type env struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	fx     testutil.Fixture
	cfg    *config.Config

	admin, pro, other string
}

func newEnv(t *testing.T, mutate func(*Deps)) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	fx := testutil.Seed(t, db)
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		GridOpenHour:    8,
		GridCloseHour:   20,
		GridStepMinutes: 30,
	}

	deps := Deps{DB: db, Config: cfg}
	if mutate != nil {
		mutate(&deps)
	}

	r := gin.New()
	RegisterRoutes(r, deps)

	e := &env{t: t, db: db, router: r, fx: fx, cfg: cfg}
	e.admin = e.token(fx.Admin)
	e.pro = e.token(fx.Professional)
	e.other = e.token(fx.Other)
	return e
}

func (e *env) token(u models.User) string {
	tok, err := middleware.IssueToken(e.cfg.JWTSecret, u.ID, u.EstablishmentID, u.Role)
	require.NoError(e.t, err)
	return tok
}

func (e *env) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type slotJSON struct {
	Time        string         `json:"time"`
	Status      string         `json:"status"`
	Anchor      bool           `json:"anchor"`
	SpanMinutes int            `json:"span_minutes"`
	Appointment map[string]any `json:"appointment"`
}

type gridJSON struct {
	Date  string     `json:"date"`
	Slots []slotJSON `json:"slots"`
}

func (g gridJSON) at(t *testing.T, hm string) slotJSON {
	t.Helper()
	for _, s := range g.Slots {
		if s.Time == hm {
			return s
		}
	}
	t.Fatalf("slot %s not found", hm)
	return slotJSON{}
}

func (e *env) book(token string, body map[string]any) *httptest.ResponseRecorder {
	base := map[string]any{
		"service_id":   e.fx.Service.ID,
		"client_name":  "Carla",
		"client_phone": "11999990000",
		"date":         testDate,
	}
	for k, v := range body {
		base[k] = v
	}
	return e.do(http.MethodPost, "/api/me/appointments", token, base)
}

// ======================================================
// OPERACIONAL
// ======================================================

func TestHealthAndMetrics(t *testing.T) {
	m := metrics.New()
	e := newEnv(t, func(d *Deps) { d.Metrics = m })

	w := e.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate, e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `agenda_grids_rendered_total{view="staff"} 1`)
}

func TestSecuredRoutesRequireToken(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(http.MethodGet, "/api/me/grid", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ======================================================
// GRADE / AGENDAMENTOS
// ======================================================

func TestCreateAndGrid(t *testing.T) {
	e := newEnv(t, nil)

	w := e.book(e.pro, map[string]any{"time": "09:00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, "Corte", created["service_name"])
	assert.Equal(t, float64(e.fx.Professional.ID), created["professional_id"])

	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate, e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)
	grid := decode[gridJSON](t, w)
	assert.Equal(t, testDate, grid.Date)
	assert.Len(t, grid.Slots, 25)

	anchor := grid.at(t, "09:00")
	assert.Equal(t, "occupied", anchor.Status)
	assert.True(t, anchor.Anchor)
	assert.Equal(t, 60, anchor.SpanMinutes)
	assert.Equal(t, created["id"], anchor.Appointment["id"])

	cont := grid.at(t, "09:30")
	assert.Equal(t, "occupied", cont.Status)
	assert.False(t, cont.Anchor)
	assert.Nil(t, cont.Appointment)

	assert.Equal(t, "free", grid.at(t, "10:00").Status)

	// a agenda de outra profissional continua livre
	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate, e.other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "free", decode[gridJSON](t, w).at(t, "09:00").Status)
}

func TestCreateConflicts(t *testing.T) {
	e := newEnv(t, nil)

	require.Equal(t, http.StatusCreated, e.book(e.pro, map[string]any{"time": "09:00"}).Code)

	w := e.book(e.pro, map[string]any{"time": "09:30"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "overlaps_appointment", decode[map[string]any](t, w)["error_code"])

	// encosta no fim: [10:00, 11:00) não cruza [09:00, 10:00)
	w = e.book(e.pro, map[string]any{"time": "10:00"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// mesmo horário em outra agenda
	w = e.book(e.admin, map[string]any{"time": "09:00", "professional_id": e.fx.Other.ID})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestProfessionalCannotWriteOtherAgenda(t *testing.T) {
	e := newEnv(t, nil)

	w := e.book(e.pro, map[string]any{"time": "09:00", "professional_id": e.fx.Other.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodPost, "/api/me/blackouts", e.pro, map[string]any{
		"professional_id": e.fx.Other.ID,
		"date_start":      testDate,
		"time_start":      "12:00",
		"time_end":        "13:00",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminGridAll(t *testing.T) {
	e := newEnv(t, nil)

	require.Equal(t, http.StatusCreated, e.book(e.pro, map[string]any{"time": "09:00"}).Code)
	require.Equal(t, http.StatusCreated,
		e.book(e.admin, map[string]any{"time": "11:00", "professional_id": e.fx.Other.ID}).Code)

	w := e.do(http.MethodGet, "/api/me/grid?date="+testDate+"&professional_id=all", e.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	grid := decode[gridJSON](t, w)
	assert.Equal(t, "occupied", grid.at(t, "09:00").Status)
	assert.Equal(t, "occupied", grid.at(t, "11:00").Status)

	path := fmt.Sprintf("/api/me/grid?date=%s&professional_id=%d", testDate, e.fx.Other.ID)
	w = e.do(http.MethodGet, path, e.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	grid = decode[gridJSON](t, w)
	assert.Equal(t, "free", grid.at(t, "09:00").Status)
	assert.Equal(t, "occupied", grid.at(t, "11:00").Status)

	// profissional pedindo "all" recebe só a própria agenda
	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate+"&professional_id=all", e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "free", decode[gridJSON](t, w).at(t, "11:00").Status)

	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate+"&professional_id=abc", e.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/api/me/grid?date=11/03/2030", e.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlackoutAndCheck(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(http.MethodPost, "/api/me/blackouts", e.pro, map[string]any{
		"date_start": testDate,
		"time_start": "14:00",
		"time_end":   "15:00",
		"reason":     "Curso",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	blackoutID := decode[map[string]any](t, w)["id"].(string)

	w = e.do(http.MethodPost, "/api/me/appointments/check", e.pro, map[string]any{
		"date":             testDate,
		"time":             "14:30",
		"duration_minutes": 30,
	})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[map[string]any](t, w)
	assert.Equal(t, false, res["accepted"])
	assert.Equal(t, "overlaps_blackout", res["reason"])

	w = e.do(http.MethodPost, "/api/me/appointments/check", e.pro, map[string]any{
		"date":       testDate,
		"time":       "15:00",
		"service_id": e.fx.Service.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["accepted"])

	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate, e.pro, nil)
	grid := decode[gridJSON](t, w)
	assert.Equal(t, "blocked", grid.at(t, "14:00").Status)
	assert.Equal(t, "blocked", grid.at(t, "14:30").Status)
	assert.Equal(t, "free", grid.at(t, "15:00").Status)

	w = e.do(http.MethodGet, "/api/me/blackouts?from="+testDate, e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	// outra profissional não enxerga nem remove
	w = e.do(http.MethodDelete, "/api/me/blackouts/"+blackoutID, e.other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodDelete, "/api/me/blackouts/"+blackoutID, e.pro, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate, e.pro, nil)
	assert.Equal(t, "free", decode[gridJSON](t, w).at(t, "14:00").Status)
}

func TestStatusAndReschedule(t *testing.T) {
	e := newEnv(t, nil)

	w := e.book(e.pro, map[string]any{"time": "09:00"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[map[string]any](t, w)["id"].(string)

	w = e.do(http.MethodPatch, "/api/me/appointments/"+id+"/reschedule", e.pro, map[string]any{
		"date": testDate,
		"time": "10:00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate, e.pro, nil)
	grid := decode[gridJSON](t, w)
	assert.Equal(t, "free", grid.at(t, "09:00").Status)
	assert.True(t, grid.at(t, "10:00").Anchor)

	// outra profissional não acha o agendamento
	w = e.do(http.MethodPatch, "/api/me/appointments/"+id+"/cancel", e.other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPatch, "/api/me/appointments/"+id+"/status", e.pro, map[string]any{"status": "canceled"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "canceled", decode[map[string]any](t, w)["status"])

	w = e.do(http.MethodPatch, "/api/me/appointments/"+id+"/complete", e.pro, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", decode[map[string]any](t, w)["error_code"])

	// cancelado não ocupa a grade
	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate, e.pro, nil)
	assert.Equal(t, "free", decode[gridJSON](t, w).at(t, "10:00").Status)

	w = e.do(http.MethodGet, "/api/me/appointments?date="+testDate, e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	w = e.do(http.MethodGet, "/api/me/appointments/month?year=2030&month=3", e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	w = e.do(http.MethodGet, "/api/me/appointments/month?year=2030&month=13", e.pro, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ======================================================
// PÚBLICO
// ======================================================

func TestPublicFlow(t *testing.T) {
	e := newEnv(t, nil)
	pro := e.fx.Professional.ID

	require.Equal(t, http.StatusCreated, e.book(e.pro, map[string]any{"time": "09:00", "notes": "cliente VIP"}).Code)
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/api/me/blackouts", e.pro, map[string]any{
		"date_start": testDate,
		"time_start": "14:00",
		"time_end":   "15:00",
		"reason":     "Particular",
	}).Code)

	w := e.do(http.MethodGet, "/api/public/studio-bela/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	catalog := decode[map[string]any](t, w)
	assert.Len(t, catalog["services"], 1)
	assert.Len(t, catalog["professionals"], 3)

	w = e.do(http.MethodGet, "/api/public/nao-existe/services", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	path := fmt.Sprintf("/api/public/studio-bela/grid?date=%s&professional_id=%d", testDate, pro)
	w = e.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "Carla")
	assert.NotContains(t, body, "cliente VIP")
	assert.NotContains(t, body, "Particular")
	grid := decode[gridJSON](t, w)
	assert.Equal(t, "occupied", grid.at(t, "09:00").Status)
	assert.Nil(t, grid.at(t, "09:00").Appointment)
	assert.Equal(t, "blocked", grid.at(t, "14:00").Status)

	w = e.do(http.MethodPost, "/api/public/studio-bela/appointments", "", map[string]any{
		"professional_id": pro,
		"service_id":      e.fx.Service.ID,
		"client_name":     "Davi",
		"client_phone":    "11988887777",
		"date":            testDate,
		"time":            "14:30",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "overlaps_blackout", decode[map[string]any](t, w)["error_code"])

	w = e.do(http.MethodPost, "/api/public/studio-bela/appointments", "", map[string]any{
		"professional_id": pro,
		"service_id":      e.fx.Service.ID,
		"client_name":     "Davi",
		"client_phone":    "11988887777",
		"date":            testDate,
		"time":            "16:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	path = fmt.Sprintf("/api/public/studio-bela/availability?date=%s&service_id=%d&professional_id=%d",
		testDate, e.fx.Service.ID, pro)
	w = e.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	avail := decode[struct {
		Slots []struct {
			Start string `json:"start"`
		} `json:"slots"`
	}](t, w)

	starts := make([]string, 0, len(avail.Slots))
	for _, s := range avail.Slots {
		starts = append(starts, s.Start)
	}
	assert.NotContains(t, starts, "09:00")
	assert.NotContains(t, starts, "14:00")
	assert.NotContains(t, starts, "16:00")
	assert.Contains(t, starts, "10:00")
	assert.Contains(t, starts, "19:00")
	assert.NotContains(t, starts, "19:30")
}

func TestPublicDefaultsToOwner(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(http.MethodPost, "/api/public/studio-bela/appointments", "", map[string]any{
		"service_id":   e.fx.Service.ID,
		"client_name":  "Davi",
		"client_phone": "11988887777",
		"date":         testDate,
		"time":         "10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(e.fx.Admin.ID), decode[map[string]any](t, w)["professional_id"])
}

// ======================================================
// PERMISSÕES / CONFIGURAÇÃO
// ======================================================

func TestPermissions(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(http.MethodPatch, "/api/me/establishment", e.pro, map[string]any{"min_advance_minutes": 30})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodPatch, "/api/me/establishment", e.admin, map[string]any{"min_advance_minutes": 30})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPatch, "/api/me/establishment", e.admin, map[string]any{"grid_step_minutes": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	newService := map[string]any{"name": "Escova", "duration_minutes": 45, "value": 60}
	w = e.do(http.MethodPost, "/api/me/services", e.pro, newService)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(http.MethodPost, "/api/me/services", e.admin, newService)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodPost, "/api/me/professionals", e.pro, map[string]any{
		"name": "Caio", "email": "caio@studio.com", "password": "segredo123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodGet, "/api/me/professionals", e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = e.do(http.MethodGet, "/api/me/audit-logs", e.pro, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWorkingHoursEnforced(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(http.MethodPut, "/api/me/working-hours", e.pro, map[string]any{
		"days": []map[string]any{
			{"weekday": 1, "active": true, "start_time": "09:00", "end_time": "18:00", "lunch_start": "12:00", "lunch_end": "13:00"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.book(e.pro, map[string]any{"time": "12:00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "outside_working_hours", decode[map[string]any](t, w)["error_code"])

	w = e.book(e.pro, map[string]any{"time": "13:00"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = e.do(http.MethodPut, "/api/me/working-hours", e.pro, map[string]any{
		"days": []map[string]any{
			{"weekday": 1, "active": true, "start_time": "18:00", "end_time": "09:00"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuditLogsRecorded(t *testing.T) {
	var dispatcher *audit.Dispatcher
	e := newEnv(t, func(d *Deps) {
		d.AuditLogger = audit.New(d.DB)
		dispatcher = audit.NewDispatcher(d.AuditLogger, zerolog.Nop())
		d.Audit = dispatcher
	})

	require.Equal(t, http.StatusCreated, e.book(e.pro, map[string]any{"time": "09:00"}).Code)
	require.Equal(t, http.StatusConflict, e.book(e.pro, map[string]any{"time": "09:30"}).Code)
	dispatcher.Close()

	w := e.do(http.MethodGet, "/api/me/audit-logs", e.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Total int64             `json:"total"`
		Logs  []models.AuditLog `json:"logs"`
	}](t, w)
	assert.Equal(t, int64(2), page.Total)

	w = e.do(http.MethodGet, "/api/me/audit-logs?action="+audit.ActionAppointmentConflict, e.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "overlaps_appointment")
}

// ======================================================
// LISTA DE ESPERA / AVALIAÇÕES
// ======================================================

func TestWaitlistFlow(t *testing.T) {
	e := newEnv(t, nil)

	require.Equal(t, http.StatusCreated, e.book(e.pro, map[string]any{"time": "10:00"}).Code)

	w := e.do(http.MethodPost, "/api/me/waitlist", e.admin, map[string]any{
		"service_id":       e.fx.Service.ID,
		"client_name":      "Davi",
		"client_phone":     "11988887777",
		"preferred_date":   testDate,
		"preferred_period": "morning",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entryID := decode[map[string]any](t, w)["id"].(string)

	// profissional não coloca na fila de outro
	w = e.do(http.MethodPost, "/api/me/waitlist", e.pro, map[string]any{
		"professional_id": e.fx.Other.ID,
		"service_id":      e.fx.Service.ID,
		"client_name":     "Eva",
		"client_phone":    "11977776666",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodGet, "/api/me/waitlist", e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])

	promote := "/api/me/waitlist/" + entryID + "/promote"

	w = e.do(http.MethodPost, promote, e.pro, map[string]any{"time": "10:30"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "overlaps_appointment", decode[map[string]any](t, w)["error_code"])

	w = e.do(http.MethodPost, promote, e.pro, map[string]any{"time": "11:00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode[map[string]map[string]any](t, w)
	assert.Equal(t, "promoted", out["entry"]["status"])
	assert.Equal(t, out["appointment"]["id"], out["entry"]["appointment_id"])

	w = e.do(http.MethodGet, "/api/me/grid?date="+testDate, e.pro, nil)
	assert.True(t, decode[gridJSON](t, w).at(t, "11:00").Anchor)

	w = e.do(http.MethodDelete, "/api/me/waitlist/"+entryID, e.admin, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodGet, "/api/me/waitlist?status=all", e.admin, nil)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])
}

func TestRatingFlow(t *testing.T) {
	e := newEnv(t, nil)

	w := e.book(e.pro, map[string]any{"time": "10:00"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[map[string]any](t, w)["id"].(string)

	ratePath := "/api/public/studio-bela/appointments/" + id + "/rating"
	body := map[string]any{"client_phone": "11999990000", "score": 5, "comment": "Excelente"}

	w = e.do(http.MethodPost, ratePath, "", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "appointment_not_completed", decode[map[string]any](t, w)["error_code"])

	require.Equal(t, http.StatusOK, e.do(http.MethodPatch, "/api/me/appointments/"+id+"/complete", e.pro, nil).Code)

	w = e.do(http.MethodPost, ratePath, "", map[string]any{"client_phone": "11000000000", "score": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPost, ratePath, "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ratingID := decode[map[string]any](t, w)["id"].(string)
	assert.NotContains(t, w.Body.String(), "client_id")

	w = e.do(http.MethodPost, ratePath, "", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(http.MethodPatch, "/api/me/ratings/"+ratingID+"/reply", e.other, map[string]any{"reply": "Oi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPatch, "/api/me/ratings/"+ratingID+"/reply", e.pro, map[string]any{"reply": "Obrigada!"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Obrigada!", decode[map[string]any](t, w)["reply"])

	w = e.do(http.MethodGet, "/api/me/ratings", e.pro, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["count"])

	w = e.do(http.MethodGet, "/api/public/studio-bela/ratings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pub := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, pub["count"])
	assert.EqualValues(t, 5, pub["average"])

	// só admin oculta
	w = e.do(http.MethodPatch, "/api/me/ratings/"+ratingID+"/visibility", e.pro, map[string]any{"visible": false})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodPatch, "/api/me/ratings/"+ratingID+"/visibility", e.admin, map[string]any{"visible": false})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/public/studio-bela/ratings", "", nil)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["count"])
}

func TestPublicRejectedBookingLeavesNoClient(t *testing.T) {
	e := newEnv(t, nil)
	require.Equal(t, http.StatusCreated, e.book(e.pro, map[string]any{"time": "10:00"}).Code)

	var before int64
	require.NoError(t, e.db.Model(&models.Client{}).Count(&before).Error)

	w := e.do(http.MethodPost, "/api/public/studio-bela/appointments", "", map[string]any{
		"professional_id": e.fx.Professional.ID,
		"service_id":      e.fx.Service.ID,
		"client_name":     "Novo",
		"client_phone":    "11777770000",
		"date":            testDate,
		"time":            "10:00",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	var after int64
	require.NoError(t, e.db.Model(&models.Client{}).Count(&after).Error)
	assert.Equal(t, before, after)
}
