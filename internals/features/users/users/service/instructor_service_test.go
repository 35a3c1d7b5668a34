package service_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fichas_backend/internals/constants"
	notifModel "fichas_backend/internals/features/notificaciones/model"
	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
	"fichas_backend/internals/features/users/user/model"
	"fichas_backend/internals/features/users/users/dto"
	"fichas_backend/internals/features/users/users/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
	"fichas_backend/internals/testutil"
)

func newService(w *testutil.World) *service.InstructorService {
	svc := service.NewInstructorService(w.DB, testutil.EmailDomain)
	svc.Now = func() time.Time { return time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC) }
	return svc
}

func workbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func countInstructores(t *testing.T, w *testutil.World) int64 {
	t.Helper()
	var n int64
	require.NoError(t, w.DB.Model(&model.UserModel{}).Where("rol = ?", constants.RoleInstructor).Count(&n).Error)
	return n
}

/* ===================== import ===================== */

func TestImport_RowWithForeignDomainFails(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	before := countInstructores(t, w)

	r := workbook(t, [][]interface{}{
		{"Nombre", "Email", "Cédula", "Teléfono", "Especialidad"},
		{"Laura Pérez", "laura.perez@sena.edu.co", "1010101010", "3001112233", "Sistemas"},
		{"Mario Ruiz", "mario.ruiz@gmail.com", "2020202020", "", ""},
		{"Sofía Díaz", "SOFIA.DIAZ@sena.edu.co", "3030303030", "", "Electricidad"},
	})

	res, err := svc.Import(testutil.Ctx(), testutil.Session(w.Coordinador), r)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Exitosos)
	assert.Equal(t, 1, res.Fallidos)
	require.Len(t, res.Resultados, 3)

	bad := res.Resultados[1]
	assert.False(t, bad.OK)
	assert.Equal(t, 3, bad.Fila, "fila = nomor baris Excel, header di baris 1")
	assert.Equal(t, "mario.ruiz@gmail.com", bad.Email)
	assert.Contains(t, bad.Error, "institucional")

	assert.Equal(t, before+2, countInstructores(t, w))

	var sofia model.UserModel
	require.NoError(t, w.DB.First(&sofia, "email = ?", "sofia.diaz@sena.edu.co").Error)
	assert.Equal(t, w.Centro.ID, sofia.CentroUUID())
	assert.True(t, helperAuth.CheckPasswordHash(sofia.Password, service.TemporaryPassword("3030303030", 2025)))
}

func TestImport_DuplicatesAndMissingColumns(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)

	r := workbook(t, [][]interface{}{
		{"nombre", "correo", "documento", "centro"},
		{"Uno", "uno@sena.edu.co", "1111111", "csf"},
		{},
		{"Dos", "uno@sena.edu.co", "2222222", "CSF"},
		{"Tres", w.Instructor.Email, "3333333", "CSF"},
		{"", "cuatro@sena.edu.co", "4444444", "CSF"},
	})
	res, err := svc.Import(testutil.Ctx(), testutil.Session(w.Admin), r)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Exitosos)
	assert.Equal(t, 3, res.Fallidos)
	require.Len(t, res.Resultados, 4)
	assert.Equal(t, 4, res.Resultados[1].Fila)
	assert.Contains(t, res.Resultados[1].Error, "fila 2")

	_, err = svc.Import(testutil.Ctx(), testutil.Session(w.Coordinador), workbook(t, [][]interface{}{
		{"nombre", "telefono"},
		{"Sin correo", "300"},
	}))
	assert.True(t, helper.IsKind(err, helper.KindValidation))

	_, err = svc.Import(testutil.Ctx(), testutil.Session(w.Instructor), workbook(t, [][]interface{}{{"nombre"}}))
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
}

/* ===================== create / update ===================== */

func TestCreate_InstitutionalDomainAndScope(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()

	_, err := svc.Create(ctx, testutil.Session(w.Coordinador), dto.CreateInstructorRequest{
		Nombre: "Pedro Gil", Email: "pedro@hotmail.com", Cedula: "99887766",
	})
	assert.True(t, helper.IsKind(err, helper.KindValidation))

	u, err := svc.Create(ctx, testutil.Session(w.Coordinador), dto.CreateInstructorRequest{
		Nombre: "Pedro Gil", Email: "Pedro.Gil@sena.edu.co", Cedula: "99887766",
	})
	require.NoError(t, err)
	assert.Equal(t, "pedro.gil@sena.edu.co", u.Email)
	assert.Equal(t, constants.RoleInstructor, u.Rol)
	assert.Equal(t, w.Centro.ID, u.CentroUUID())

	_, err = svc.Create(ctx, testutil.Session(w.Coordinador), dto.CreateInstructorRequest{
		Nombre: "Otro Pedro", Email: "pedro.gil@sena.edu.co", Cedula: "11223344",
	})
	assert.True(t, helper.IsKind(err, helper.KindValidation), "correo duplicado")

	_, err = svc.Create(ctx, testutil.Session(w.Instructor), dto.CreateInstructorRequest{
		Nombre: "Nuevo", Email: "nuevo@sena.edu.co", Cedula: "55667788",
	})
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
}

func TestUpdate_InstructorOnlyContactFields(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)
	ctx := testutil.Ctx()
	self := testutil.Session(w.Instructor)

	tel := "3209998877"
	u, err := svc.Update(ctx, self, w.Instructor.ID, dto.UpdateInstructorRequest{Telefono: &tel})
	require.NoError(t, err)
	assert.Equal(t, tel, u.Telefono)

	nombre := "Nombre Nuevo"
	_, err = svc.Update(ctx, self, w.Instructor.ID, dto.UpdateInstructorRequest{Nombre: &nombre})
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	_, err = svc.Update(ctx, self, w.Instructor2.ID, dto.UpdateInstructorRequest{Telefono: &tel})
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	otro := w.OtroCentro.ID
	_, err = svc.Update(ctx, testutil.Session(w.Coordinador), w.Instructor.ID, dto.UpdateInstructorRequest{CentroID: &otro})
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	u, err = svc.Update(ctx, testutil.Session(w.Admin), w.Instructor.ID, dto.UpdateInstructorRequest{CentroID: &otro})
	require.NoError(t, err)
	assert.Equal(t, otro, u.CentroUUID())
}

/* ===================== delete ===================== */

func TestDelete_HardWithoutHistory(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)

	soft, err := svc.Delete(testutil.Ctx(), testutil.Session(w.Coordinador), w.Instructor2.ID)
	require.NoError(t, err)
	assert.False(t, soft)

	var n int64
	require.NoError(t, w.DB.Unscoped().Model(&model.UserModel{}).Where("id = ?", w.Instructor2.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDelete_SoftWhenHistoryExists(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)

	sol := &solModel.SolicitudModel{
		Codigo:       "SOL-2025-001",
		Estado:       solModel.EstadoPendiente,
		InstructorID: w.Instructor.ID,
		ProgramaID:   w.Programa.ID,
		CentroID:     w.Centro.ID,
	}
	require.NoError(t, w.DB.Omit("Instructor", "Programa", "Centro", "Horarios").Create(sol).Error)
	require.NoError(t, w.DB.Create(&notifModel.NotificacionModel{
		Tipo: notifModel.TipoSistema, Titulo: "x", Mensaje: "y", UsuarioID: w.Instructor2.ID,
	}).Error)

	for _, id := range []uuid.UUID{w.Instructor.ID, w.Instructor2.ID} {
		soft, err := svc.Delete(testutil.Ctx(), testutil.Session(w.Admin), id)
		require.NoError(t, err)
		assert.True(t, soft)

		var u model.UserModel
		require.NoError(t, w.DB.Unscoped().First(&u, "id = ?", id).Error)
		assert.False(t, u.Activo)
		assert.True(t, u.DeletedAt.Valid)
	}

	// solicitud tetap ada dan menunjuk instructor yang sama
	var got solModel.SolicitudModel
	require.NoError(t, w.DB.First(&got, "id = ?", sol.ID).Error)
	assert.Equal(t, w.Instructor.ID, got.InstructorID)

	// email bebas dipakai lagi setelah soft delete
	_, err := svc.Create(testutil.Ctx(), testutil.Session(w.Admin), dto.CreateInstructorRequest{
		Nombre: "Reingreso", Email: w.Instructor.Email, Cedula: "77777777", CentroID: &w.Centro.ID,
	})
	require.NoError(t, err)
}

func TestDelete_ScopeChecks(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := newService(w)

	_, err := svc.Delete(testutil.Ctx(), testutil.Session(w.OtroCoord), w.Instructor.ID)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
	_, err = svc.Delete(testutil.Ctx(), testutil.Session(w.Coordinador), uuid.New())
	assert.True(t, helper.IsKind(err, helper.KindNotFound))
}
