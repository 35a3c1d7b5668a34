package routes_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fichas_backend/internals/configs"
	userModel "fichas_backend/internals/features/users/user/model"
	"fichas_backend/internals/middlewares"
	routes "fichas_backend/internals/route"
	routeDetails "fichas_backend/internals/route/details"
	"fichas_backend/internals/testutil"
)

type envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message"`
	Error     string              `json:"error"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Data      map[string]any      `json:"data"`
}

func newApp(t *testing.T) (*fiber.App, *testutil.World) {
	t.Helper()
	t.Setenv("RATE_LIMIT_DISABLED", "true")
	configs.JWTSecret = "secreto-de-pruebas"
	configs.JWTTTL = time.Hour
	configs.InstitutionalEmailDomain = testutil.EmailDomain

	w := testutil.NewWorld(t)
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})
	routes.SetupRoutes(app, routeDetails.NewDeps(w.DB))
	return app, w
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, sonic.Unmarshal(raw, &env), string(raw))
	return env
}

func login(t *testing.T, app *fiber.App, u *userModel.UserModel) string {
	t.Helper()
	status, raw := do(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    u.Email,
		"password": testutil.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, status, string(raw))
	env := decode(t, raw)
	tok, _ := env.Data["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func solicitudBody(w *testutil.World) fiber.Map {
	return fiber.Map{
		"programa_id":        w.Programa.ID.String(),
		"responsable_nombre": "Empresa Aliada",
		"responsable_cedula": "900123456",
		"numero_inscritos":   10,
		"fecha_inicio":       "2030-02-01",
		"fecha_fin":          "2030-03-01",
		"justificacion":      "Formación para el sector productivo",
		"cumple_requisitos":  true,
		"autoriza_datos":     true,
		"confirma_veracidad": true,
		"horarios": []fiber.Map{
			{"dia_semana": 1, "hora_inicio": "08:00", "hora_fin": "12:00"},
		},
	}
}

func TestHealth(t *testing.T) {
	app, _ := newApp(t)

	status, raw := do(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(raw, &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Connected", body["database"])
}

func TestLogin_WrongPasswordIs401(t *testing.T) {
	app, w := newApp(t)

	status, raw := do(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    w.Instructor.Email,
		"password": "otra-clave",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	env := decode(t, raw)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.ErrorCode)
}

func TestSolicitudes_RequireToken(t *testing.T) {
	app, _ := newApp(t)

	status, raw := do(t, app, http.MethodGet, "/solicitudes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	env := decode(t, raw)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestSolicitud_CreateAndReviewFlow(t *testing.T) {
	app, w := newApp(t)
	instrTok := login(t, app, w.Instructor)
	coordTok := login(t, app, w.Coordinador)
	otroTok := login(t, app, w.OtroCoord)

	status, raw := do(t, app, http.MethodPost, "/solicitudes", instrTok, solicitudBody(w))
	require.Equal(t, http.StatusCreated, status, string(raw))
	created := decode(t, raw)
	id, _ := created.Data["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "PENDIENTE", created.Data["estado"])

	// coordinador de otro centro no ve la solicitud
	status, raw = do(t, app, http.MethodPost, "/solicitudes/"+id+"/approve", otroTok, nil)
	assert.Equal(t, http.StatusForbidden, status, string(raw))

	// instructor tidak boleh approve
	status, _ = do(t, app, http.MethodPost, "/solicitudes/"+id+"/approve", instrTok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw = do(t, app, http.MethodPost, "/solicitudes/"+id+"/reject", coordTok, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, status, string(raw))

	status, raw = do(t, app, http.MethodPost, "/solicitudes/"+id+"/approve", coordTok, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	approved := decode(t, raw)
	assert.Equal(t, "APROBADA", approved.Data["estado"])

	status, _ = do(t, app, http.MethodPost, "/solicitudes/"+id+"/reject", coordTok, fiber.Map{"comentarios": "tarde"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSolicitud_UnknownFieldRejected(t *testing.T) {
	app, w := newApp(t)
	tok := login(t, app, w.Instructor)

	body := solicitudBody(w)
	body["campo_raro"] = "x"
	status, raw := do(t, app, http.MethodPost, "/solicitudes", tok, body)
	assert.Equal(t, http.StatusBadRequest, status, string(raw))
}

func TestExportAll_IsNotCapturedByID(t *testing.T) {
	app, w := newApp(t)
	instrTok := login(t, app, w.Instructor)
	coordTok := login(t, app, w.Coordinador)

	status, raw := do(t, app, http.MethodPost, "/solicitudes", instrTok, solicitudBody(w))
	require.Equal(t, http.StatusCreated, status, string(raw))

	req := httptest.NewRequest(http.MethodGet, "/solicitudes/export-all?format=excel", nil)
	req.Header.Set("Authorization", "Bearer "+coordTok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestDashboardStats(t *testing.T) {
	app, w := newApp(t)
	instrTok := login(t, app, w.Instructor)
	coordTok := login(t, app, w.Coordinador)

	status, raw := do(t, app, http.MethodPost, "/solicitudes", instrTok, solicitudBody(w))
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = do(t, app, http.MethodGet, "/dashboard/stats", coordTok, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	env := decode(t, raw)
	assert.EqualValues(t, 1, env.Data["total"])
	assert.EqualValues(t, 1, env.Data["pendientes"])
}

func TestLogout_RevokesToken(t *testing.T) {
	app, w := newApp(t)
	tok := login(t, app, w.Instructor)

	status, _ := do(t, app, http.MethodGet, "/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodPost, "/auth/logout", tok, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodGet, "/auth/me", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestNotificacionSistema_OnlyAdmin(t *testing.T) {
	app, w := newApp(t)
	adminTok := login(t, app, w.Admin)
	instrTok := login(t, app, w.Instructor)
	body := fiber.Map{"usuario_id": w.Instructor.ID.String(), "titulo": "Aviso", "mensaje": "Cierre por mantenimiento"}

	status, _ := do(t, app, http.MethodPost, "/notificaciones", instrTok, body)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := do(t, app, http.MethodPost, "/notificaciones", adminTok, body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	assert.Equal(t, "SISTEMA", decode(t, raw).Data["tipo"])

	status, raw = do(t, app, http.MethodGet, "/notificaciones/no-leidas/count", instrTok, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
}

func TestMe_VanishedUserIs404(t *testing.T) {
	app, w := newApp(t)
	tok := login(t, app, w.Instructor2)

	require.NoError(t, w.DB.Delete(w.Instructor2).Error)

	status, raw := do(t, app, http.MethodGet, "/auth/me", tok, nil)
	assert.Equal(t, http.StatusNotFound, status, string(raw))
	assert.Equal(t, "NOT_FOUND", decode(t, raw).ErrorCode)

	// endpoint lain tetap 401
	status, _ = do(t, app, http.MethodGet, "/solicitudes", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
