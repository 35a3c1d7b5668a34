package service_test

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notifModel "fichas_backend/internals/features/notificaciones/model"
	notifService "fichas_backend/internals/features/notificaciones/service"
	programaDTO "fichas_backend/internals/features/programas/dto"
	programaService "fichas_backend/internals/features/programas/service"
	"fichas_backend/internals/features/solicitudes/solicitudes/dto"
	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	"fichas_backend/internals/features/solicitudes/solicitudes/service"
	userModel "fichas_backend/internals/features/users/user/model"
	helper "fichas_backend/internals/helpers"
	"fichas_backend/internals/testutil"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newService(w *testutil.World) *service.SolicitudService {
	svc := service.NewSolicitudService(w.DB, notifService.NewDispatcher(w.DB))
	svc.Now = func() time.Time { return fixedNow }
	return svc
}

func completeInput(programaID uuid.UUID) *dto.SolicitudInput {
	return &dto.SolicitudInput{
		ProgramaID:          programaID,
		ResponsableNombre:   "Ana Gómez",
		ResponsableCedula:   "52000111",
		ResponsableEmail:    "ana@empresa.co",
		ResponsableTelefono: "3101234567",
		NumeroInscritos:     20,
		FechaInicio:         "2025-04-01",
		FechaFin:            "2025-04-30",
		Justificacion:       "Necesidad de formación en la región",
		Metodologia:         "Talleres prácticos",
		Evaluacion:          "Prueba final",
		CumpleRequisitos:    true,
		AutorizaDatos:       true,
		ConfirmaVeracidad:   true,
		Horarios: []dto.HorarioInput{
			{DiaSemana: 1, HoraInicio: "08:00", HoraFin: "12:00"},
			{DiaSemana: 3, HoraInicio: "14:00", HoraFin: "18:00"},
		},
	}
}

func create(t *testing.T, svc *service.SolicitudService, w *testutil.World, instr *userModel.UserModel) *model.SolicitudModel {
	t.Helper()
	m, err := svc.Create(testutil.Ctx(), testutil.Session(instr), completeInput(w.Programa.ID))
	require.NoError(t, err)
	return m
}

func estadoOf(t *testing.T, w *testutil.World, id uuid.UUID) model.Estado {
	t.Helper()
	var m model.SolicitudModel
	require.NoError(t, w.DB.First(&m, "id = ?", id).Error)
	return m.Estado
}

func notificacionesFor(t *testing.T, w *testutil.World, userID uuid.UUID) []notifModel.NotificacionModel {
	t.Helper()
	var rows []notifModel.NotificacionModel
	require.NoError(t, w.DB.Where("usuario_id = ?", userID).Find(&rows).Error)
	return rows
}

/* ===================== create ===================== */

func TestCreate_SubmittedNotifiesCoordinadores(t *testing.T) {
	w := testutil.NewWorld(t)
	coord2 := testutil.SeedUser(t, w.DB, "COORDINADOR", w.Centro)
	svc := newService(w)

	m := create(t, svc, w, w.Instructor)

	assert.Equal(t, model.EstadoPendiente, m.Estado)
	assert.Equal(t, "SOL-2025-001", m.Codigo)
	assert.Nil(t, m.NumeroFicha)
	assert.Equal(t, w.Centro.ID, m.CentroID)
	assert.Equal(t, w.Programa.DuracionHoras, m.DuracionHoras)
	require.Len(t, m.Horarios, 2)
	assert.Equal(t, 1, m.Horarios[0].Orden)
	assert.Equal(t, "08:00", m.Horarios[0].HoraInicio.String())

	for _, c := range []*userModel.UserModel{w.Coordinador, coord2} {
		got := notificacionesFor(t, w, c.ID)
		require.Len(t, got, 1)
		assert.Equal(t, notifModel.TipoNuevaSolicitud, got[0].Tipo)
		assert.Contains(t, got[0].Mensaje, m.Codigo)
	}
	// coordinador centro lain tidak ikut
	assert.Empty(t, notificacionesFor(t, w, w.OtroCoord.ID))
}

func TestCreate_CodesIncreaseWithinYear(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)

	prev := 0
	for i := 0; i < 4; i++ {
		m := create(t, svc, w, w.Instructor)
		n, err := strconv.Atoi(strings.TrimPrefix(m.Codigo, "SOL-2025-"))
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestCreate_DraftSkipsCompletenessAndNotifications(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)

	in := &dto.SolicitudInput{IsDraft: true, ProgramaID: w.Programa.ID}
	m, err := svc.Create(testutil.Ctx(), testutil.Session(w.Instructor), in)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoBorrador, m.Estado)
	assert.Empty(t, notificacionesFor(t, w, w.Coordinador.ID))
}

func TestCreate_Rejections(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()

	_, err := svc.Create(ctx, testutil.Session(w.Coordinador), completeInput(w.Programa.ID))
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	_, err = svc.Create(ctx, testutil.Session(w.Instructor), completeInput(w.OtroProg.ID))
	assert.True(t, helper.IsKind(err, helper.KindValidation), "programa de otro centro")

	in := completeInput(w.Programa.ID)
	in.NumeroInscritos = w.Programa.CupoMaximo + 1
	_, err = svc.Create(ctx, testutil.Session(w.Instructor), in)
	assert.True(t, helper.IsKind(err, helper.KindValidation), "supera cupo")

	in = completeInput(w.Programa.ID)
	in.Justificacion = "  "
	in.AutorizaDatos = false
	_, err = svc.Create(ctx, testutil.Session(w.Instructor), in)
	var ae *helper.AppError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, ae.Fields, "justificacion")
	assert.Contains(t, ae.Fields, "autoriza_datos")

	require.NoError(t, w.DB.Model(w.Programa).Update("activo", false).Error)
	_, err = svc.Create(ctx, testutil.Session(w.Instructor), completeInput(w.Programa.ID))
	assert.True(t, helper.IsKind(err, helper.KindValidation), "programa inactivo")

	var n int64
	require.NoError(t, w.DB.Model(&model.SolicitudModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

/* ===================== edit ===================== */

func TestEdit_DraftSubmitNotifies(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()

	draft, err := svc.Create(ctx, testutil.Session(w.Instructor), &dto.SolicitudInput{IsDraft: true, ProgramaID: w.Programa.ID})
	require.NoError(t, err)

	in := completeInput(w.Programa.ID)
	in.Horarios = in.Horarios[:1]
	m, err := svc.Edit(ctx, testutil.Session(w.Instructor), draft.ID, in)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPendiente, m.Estado)
	assert.Equal(t, draft.Codigo, m.Codigo)
	assert.Len(t, m.Horarios, 1)
	assert.Len(t, notificacionesFor(t, w, w.Coordinador.ID), 1)
}

func TestEdit_OnlyOwnerWhileEditable(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	m := create(t, svc, w, w.Instructor)

	for _, u := range []*userModel.UserModel{w.Instructor2, w.Coordinador, w.Admin} {
		_, err := svc.Edit(ctx, testutil.Session(u), m.ID, completeInput(w.Programa.ID))
		assert.True(t, helper.IsKind(err, helper.KindForbidden), u.Rol)
	}

	_, err := svc.StartReview(ctx, testutil.Session(w.Coordinador), m.ID)
	require.NoError(t, err)
	_, err = svc.Edit(ctx, testutil.Session(w.Instructor), m.ID, completeInput(w.Programa.ID))
	assert.True(t, helper.IsKind(err, helper.KindState))
}

/* ===================== review ===================== */

func TestStartReview_Transition(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	m := create(t, svc, w, w.Instructor)

	got, err := svc.StartReview(ctx, testutil.Session(w.Coordinador), m.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoEnRevision, got.Estado)
	require.NotNil(t, got.RevisadoPor)
	assert.Equal(t, w.Coordinador.ID, *got.RevisadoPor)
	assert.NotNil(t, got.FechaRevision)

	notifs := notificacionesFor(t, w, w.Instructor.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, notifModel.TipoSolicitudEnRevision, notifs[0].Tipo)

	_, err = svc.StartReview(ctx, testutil.Session(w.Coordinador), m.ID)
	assert.True(t, helper.IsKind(err, helper.KindState))
}

func TestApprove_AssignsFicha(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	m := create(t, svc, w, w.Instructor)

	comentario := "  Todo en orden "
	got, err := svc.Approve(ctx, testutil.Session(w.Coordinador), m.ID, dto.ApproveInput{Comentarios: &comentario})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAprobada, got.Estado)
	require.NotNil(t, got.NumeroFicha)
	assert.Equal(t, "20250001", *got.NumeroFicha)
	require.NotNil(t, got.ComentariosRevision)
	assert.Equal(t, "Todo en orden", *got.ComentariosRevision)
	assert.NotNil(t, got.FechaAprobacion)

	notifs := notificacionesFor(t, w, w.Instructor.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, notifModel.TipoSolicitudAprobada, notifs[0].Tipo)
	assert.Contains(t, notifs[0].Mensaje, "20250001")
}

func TestApprove_DuplicateFichaRejected(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	a := create(t, svc, w, w.Instructor)
	b := create(t, svc, w, w.Instructor)

	ficha := "9000123"
	_, err := svc.Approve(ctx, testutil.Session(w.Admin), a.ID, dto.ApproveInput{NumeroFicha: &ficha})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, testutil.Session(w.Admin), b.ID, dto.ApproveInput{NumeroFicha: &ficha})
	var ae *helper.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, helper.KindValidation, ae.Kind)
	assert.Contains(t, ae.Fields, "numero_ficha")
	assert.Equal(t, model.EstadoPendiente, estadoOf(t, w, b.ID))
}

func TestApprove_ConcurrentOnlyOneWins(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	m := create(t, svc, w, w.Instructor)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, u := range []*userModel.UserModel{w.Coordinador, w.Admin} {
		wg.Add(1)
		go func(i int, u *userModel.UserModel) {
			defer wg.Done()
			_, errs[i] = svc.Approve(testutil.Ctx(), testutil.Session(u), m.ID, dto.ApproveInput{})
		}(i, u)
	}
	wg.Wait()

	ok, state := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case helper.IsKind(err, helper.KindState):
			state++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, state)

	var fichas []string
	require.NoError(t, w.DB.Model(&model.SolicitudModel{}).Where("numero_ficha IS NOT NULL").Pluck("numero_ficha", &fichas).Error)
	assert.Len(t, fichas, 1)
	assert.Len(t, notificacionesFor(t, w, w.Instructor.ID), 1)
}

func TestReject_RequiresReason(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	m := create(t, svc, w, w.Instructor)

	for _, c := range []string{"", "   ", "\n\t"} {
		_, err := svc.Reject(ctx, testutil.Session(w.Coordinador), m.ID, c)
		assert.True(t, helper.IsKind(err, helper.KindValidation))
	}
	assert.Equal(t, model.EstadoPendiente, estadoOf(t, w, m.ID))

	got, err := svc.Reject(ctx, testutil.Session(w.Coordinador), m.ID, " Fechas no disponibles ")
	require.NoError(t, err)
	assert.Equal(t, model.EstadoRechazada, got.Estado)
	require.NotNil(t, got.ComentariosRevision)
	assert.Equal(t, "Fechas no disponibles", *got.ComentariosRevision)
	assert.Nil(t, got.NumeroFicha)

	notifs := notificacionesFor(t, w, w.Instructor.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, notifModel.TipoSolicitudRechazada, notifs[0].Tipo)
}

func TestTerminalStatesAreFinal(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()

	aprobada := create(t, svc, w, w.Instructor)
	_, err := svc.Approve(ctx, testutil.Session(w.Coordinador), aprobada.ID, dto.ApproveInput{})
	require.NoError(t, err)
	rechazada := create(t, svc, w, w.Instructor)
	_, err = svc.Reject(ctx, testutil.Session(w.Coordinador), rechazada.ID, "No aplica")
	require.NoError(t, err)

	for _, id := range []uuid.UUID{aprobada.ID, rechazada.ID} {
		before := estadoOf(t, w, id)

		_, err := svc.Edit(ctx, testutil.Session(w.Instructor), id, completeInput(w.Programa.ID))
		assert.True(t, helper.IsKind(err, helper.KindState))
		for _, u := range []*userModel.UserModel{w.Coordinador, w.Admin} {
			_, err = svc.Approve(ctx, testutil.Session(u), id, dto.ApproveInput{})
			assert.True(t, helper.IsKind(err, helper.KindState))
			_, err = svc.Reject(ctx, testutil.Session(u), id, "otra vez")
			assert.True(t, helper.IsKind(err, helper.KindState))
		}
		assert.Equal(t, before, estadoOf(t, w, id))
	}
}

func TestReviewRejectsDraft(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	draft, err := svc.Create(ctx, testutil.Session(w.Instructor), &dto.SolicitudInput{IsDraft: true, ProgramaID: w.Programa.ID})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, testutil.Session(w.Coordinador), draft.ID, dto.ApproveInput{})
	assert.True(t, helper.IsKind(err, helper.KindState))
	_, err = svc.Reject(ctx, testutil.Session(w.Coordinador), draft.ID, "motivo")
	assert.True(t, helper.IsKind(err, helper.KindState))
	_, err = svc.StartReview(ctx, testutil.Session(w.Coordinador), draft.ID)
	assert.True(t, helper.IsKind(err, helper.KindState))
}

/* ===================== scope ===================== */

func TestScope_CoordinadorOtherCentroForbidden(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	m := create(t, svc, w, w.Instructor)

	_, err := svc.Approve(ctx, testutil.Session(w.OtroCoord), m.ID, dto.ApproveInput{})
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
	_, err = svc.Reject(ctx, testutil.Session(w.OtroCoord), m.ID, "motivo")
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
	_, err = svc.Get(ctx, testutil.Session(w.OtroCoord), m.ID)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
	assert.Equal(t, model.EstadoPendiente, estadoOf(t, w, m.ID))
}

func TestScope_InstructorSeesOnlyOwn(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	mine := create(t, svc, w, w.Instructor)
	create(t, svc, w, w.Instructor2)

	_, err := svc.Get(ctx, testutil.Session(w.Instructor2), mine.ID)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	rows, total, err := svc.List(ctx, testutil.Session(w.Instructor), dto.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, mine.ID, rows[0].ID)

	// coordinador melihat keduanya, coordinador centro lain tidak melihat apa pun
	_, total, err = svc.List(ctx, testutil.Session(w.Coordinador), dto.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	_, total, err = svc.List(ctx, testutil.Session(w.OtroCoord), dto.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestScope_FollowsProgramaMovedToOtherCentro(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	m := create(t, svc, w, w.Instructor)

	otro := w.OtroCentro.ID
	_, err := programaService.NewProgramaService(w.DB).Update(ctx, testutil.Session(w.Admin), w.Programa.ID, programaDTO.ProgramaRequest{
		Codigo:        w.Programa.Codigo,
		Nombre:        w.Programa.Nombre,
		Modalidad:     w.Programa.Modalidad,
		DuracionHoras: w.Programa.DuracionHoras,
		CupoMaximo:    w.Programa.CupoMaximo,
		CentroID:      &otro,
	})
	require.NoError(t, err)

	// centro lama kehilangan akses
	_, err = svc.Get(ctx, testutil.Session(w.Coordinador), m.ID)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
	_, total, err := svc.List(ctx, testutil.Session(w.Coordinador), dto.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	_, err = svc.Approve(ctx, testutil.Session(w.Coordinador), m.ID, dto.ApproveInput{})
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	// centro baru mengambil alih
	_, err = svc.Get(ctx, testutil.Session(w.OtroCoord), m.ID)
	require.NoError(t, err)
	rows, total, err := svc.List(ctx, testutil.Session(w.OtroCoord), dto.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, m.ID, rows[0].ID)
	_, err = svc.Approve(ctx, testutil.Session(w.OtroCoord), m.ID, dto.ApproveInput{})
	require.NoError(t, err)
	assert.Equal(t, model.EstadoAprobada, estadoOf(t, w, m.ID))
}

func TestList_Filters(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	a := create(t, svc, w, w.Instructor)
	create(t, svc, w, w.Instructor2)
	_, err := svc.Approve(ctx, testutil.Session(w.Coordinador), a.ID, dto.ApproveInput{})
	require.NoError(t, err)

	admin := testutil.Session(w.Admin)
	rows, total, err := svc.List(ctx, admin, dto.ListFilter{Estado: model.EstadoAprobada})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, a.ID, rows[0].ID)

	_, total, err = svc.List(ctx, admin, dto.ListFilter{InstructorID: w.Instructor2.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.List(ctx, admin, dto.ListFilter{Year: 2024})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, total, err = svc.List(ctx, admin, dto.ListFilter{Q: strings.ToLower(a.Codigo)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = svc.List(ctx, admin, dto.ListFilter{CentroID: w.OtroCentro.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
}
