package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifService "fichas_backend/internals/features/notificaciones/service"
	"fichas_backend/internals/features/programas/dto"
	"fichas_backend/internals/features/programas/service"
	solDTO "fichas_backend/internals/features/solicitudes/solicitudes/dto"
	solService "fichas_backend/internals/features/solicitudes/solicitudes/service"
	helper "fichas_backend/internals/helpers"
	"fichas_backend/internals/testutil"
)

func programaReq(codigo string) dto.ProgramaRequest {
	return dto.ProgramaRequest{
		Codigo:        codigo,
		Nombre:        "Excel intermedio",
		TipoFormacion: "Complementaria",
		Modalidad:     "virtual",
		DuracionHoras: 48,
		CupoMaximo:    30,
		Objetivos:     []string{" Manejar tablas dinámicas ", "Automatizar reportes"},
		Competencias:  []string{"Procesar información"},
		Resultados:    []string{"Construye informes"},
	}
}

func TestPrograma_CoordinadorCreatesInOwnCentro(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewProgramaService(w.DB)

	m, err := svc.Create(testutil.Ctx(), testutil.Session(w.Coordinador), programaReq("p-300"))
	require.NoError(t, err)
	assert.Equal(t, "P-300", m.Codigo)
	assert.Equal(t, "VIRTUAL", m.Modalidad)
	assert.Equal(t, w.Centro.ID, m.CentroID)
	assert.True(t, m.Activo)
	require.Len(t, m.Objetivos, 2)
	assert.Equal(t, 1, m.Objetivos[0].Orden)
	assert.Equal(t, "Manejar tablas dinámicas", m.Objetivos[0].Descripcion)

	// centro_id dari body diabaikan untuk coordinador
	req := programaReq("P-301")
	req.CentroID = &w.OtroCentro.ID
	m2, err := svc.Create(testutil.Ctx(), testutil.Session(w.Coordinador), req)
	require.NoError(t, err)
	assert.Equal(t, w.Centro.ID, m2.CentroID)
}

func TestPrograma_CreateRules(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewProgramaService(w.DB)

	_, err := svc.Create(testutil.Ctx(), testutil.Session(w.Instructor), programaReq("P-400"))
	assert.True(t, helper.IsKind(err, helper.KindForbidden), "got %v", err)

	_, err = svc.Create(testutil.Ctx(), testutil.Session(w.Admin), programaReq("P-401"))
	assert.True(t, helper.IsKind(err, helper.KindValidation), "admin wajib kirim centro_id")

	ghost := uuid.New()
	req := programaReq("P-402")
	req.CentroID = &ghost
	_, err = svc.Create(testutil.Ctx(), testutil.Session(w.Admin), req)
	assert.True(t, helper.IsKind(err, helper.KindValidation))

	req.CentroID = &w.OtroCentro.ID
	m, err := svc.Create(testutil.Ctx(), testutil.Session(w.Admin), req)
	require.NoError(t, err)
	assert.Equal(t, w.OtroCentro.ID, m.CentroID)

	_, err = svc.Create(testutil.Ctx(), testutil.Session(w.Coordinador), programaReq("P-100"))
	assert.True(t, helper.IsKind(err, helper.KindConflict), "got %v", err)

	bad := programaReq("P-403")
	bad.Modalidad = "HIBRIDA"
	_, err = svc.Create(testutil.Ctx(), testutil.Session(w.Coordinador), bad)
	assert.True(t, helper.IsKind(err, helper.KindValidation))
}

func TestPrograma_UpdateReplacesChildren(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewProgramaService(w.DB)

	req := programaReq("P-100")
	req.Objetivos = []string{"Nuevo objetivo"}
	req.Competencias = nil
	inactivo := false
	req.Activo = &inactivo

	m, err := svc.Update(testutil.Ctx(), testutil.Session(w.Coordinador), w.Programa.ID, req)
	require.NoError(t, err)
	assert.False(t, m.Activo)
	require.Len(t, m.Objetivos, 1)
	assert.Equal(t, "Nuevo objetivo", m.Objetivos[0].Descripcion)
	assert.Empty(t, m.Competencias)
	assert.Len(t, m.Resultados, 1)

	_, err = svc.Update(testutil.Ctx(), testutil.Session(w.OtroCoord), w.Programa.ID, req)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	_, err = svc.Update(testutil.Ctx(), testutil.Session(w.Coordinador), uuid.New(), req)
	assert.True(t, helper.IsKind(err, helper.KindNotFound))
}

func TestPrograma_ListScopeAndStats(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewProgramaService(w.DB)

	sol := solService.NewSolicitudService(w.DB, notifService.NewDispatcher(w.DB))
	sol.Now = func() time.Time { return time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC) }
	in := func() *solDTO.SolicitudInput {
		return &solDTO.SolicitudInput{
			ProgramaID:        w.Programa.ID,
			ResponsableNombre: "Luis Pardo",
			ResponsableCedula: "79000222",
			NumeroInscritos:   15,
			FechaInicio:       "2025-06-01",
			FechaFin:          "2025-06-30",
			Justificacion:     "Demanda del sector",
			CumpleRequisitos:  true,
			AutorizaDatos:     true,
			ConfirmaVeracidad: true,
			Horarios:          []solDTO.HorarioInput{{DiaSemana: 2, HoraInicio: "07:00", HoraFin: "11:00"}},
		}
	}
	a, err := sol.Create(testutil.Ctx(), testutil.Session(w.Instructor), in())
	require.NoError(t, err)
	_, err = sol.Create(testutil.Ctx(), testutil.Session(w.Instructor2), in())
	require.NoError(t, err)
	_, err = sol.Approve(testutil.Ctx(), testutil.Session(w.Coordinador), a.ID, solDTO.ApproveInput{})
	require.NoError(t, err)

	rows, stats, total, err := svc.List(testutil.Ctx(), testutil.Session(w.Coordinador), dto.ProgramaListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	st := stats[w.Programa.ID]
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Aprobadas)
	assert.Equal(t, 1, st.Pendientes)
	assert.Equal(t, 15, st.TotalParticipantes)
	assert.InDelta(t, 50.0, st.TasaAprobacion, 0.001)

	// admin lihat semua, bisa filter centro
	_, _, total, err = svc.List(testutil.Ctx(), testutil.Session(w.Admin), dto.ProgramaListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	_, _, total, err = svc.List(testutil.Ctx(), testutil.Session(w.Admin), dto.ProgramaListQuery{CentroID: w.OtroCentro.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, _, total, err = svc.List(testutil.Ctx(), testutil.Session(w.Coordinador), dto.ProgramaListQuery{Q: "nada-parecido"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestPrograma_GetScope(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewProgramaService(w.DB)

	m, _, err := svc.Get(testutil.Ctx(), testutil.Session(w.Instructor), w.Programa.ID)
	require.NoError(t, err)
	assert.Len(t, m.Objetivos, 1)
	require.NotNil(t, m.Centro)
	assert.Equal(t, "CSF", m.Centro.Codigo)

	_, _, err = svc.Get(testutil.Ctx(), testutil.Session(w.Instructor), w.OtroProg.ID)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
}
