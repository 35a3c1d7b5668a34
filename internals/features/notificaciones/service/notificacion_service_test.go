package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fichas_backend/internals/features/notificaciones/dto"
	"fichas_backend/internals/features/notificaciones/model"
	"fichas_backend/internals/features/notificaciones/service"
	helper "fichas_backend/internals/helpers"
	"fichas_backend/internals/testutil"
)

func enqueue(t *testing.T, db *gorm.DB, dest ...uuid.UUID) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = service.Enqueue(tx, model.TipoSistema, model.OutboxPayload{
			Titulo:        "Aviso",
			Mensaje:       "Mensaje de prueba",
			Destinatarios: dest,
		})
		return err
	}))
	return id
}

func TestEnqueue_NoRecipientsWritesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	id := enqueue(t, db)
	assert.Equal(t, uuid.Nil, id)

	var n int64
	require.NoError(t, db.Model(&model.OutboxModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEnqueue_RolledBackWithTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := service.Enqueue(tx, model.TipoSistema, model.OutboxPayload{
			Titulo: "x", Mensaje: "y", Destinatarios: []uuid.UUID{uuid.New()},
		}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var n int64
	require.NoError(t, db.Model(&model.OutboxModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDispatcher_Idempotent(t *testing.T) {
	w := testutil.NewWorld(t)
	d := service.NewDispatcher(w.DB)
	id := enqueue(t, w.DB, w.Instructor.ID, w.Coordinador.ID)

	sent, err := d.DispatchPending(testutil.Ctx(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// sapuan ulang dan dispatch eksplisit kedua tidak menggandakan notifikasi
	sent, err = d.DispatchPending(testutil.Ctx())
	require.NoError(t, err)
	assert.Zero(t, sent)
	sent, err = d.DispatchPending(testutil.Ctx(), id)
	require.NoError(t, err)
	assert.Zero(t, sent)

	var rows []model.NotificacionModel
	require.NoError(t, w.DB.Find(&rows).Error)
	assert.Len(t, rows, 2)

	var ob model.OutboxModel
	require.NoError(t, w.DB.First(&ob, "id = ?", id).Error)
	assert.NotNil(t, ob.DespachadoAt)
}

func TestDispatcher_SweepPicksPending(t *testing.T) {
	w := testutil.NewWorld(t)
	d := service.NewDispatcher(w.DB)
	enqueue(t, w.DB, w.Instructor.ID)
	enqueue(t, w.DB, w.Instructor.ID)

	sent, err := d.DispatchPending(testutil.Ctx())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
}

func TestDispatcher_BadPayloadRecordsFailure(t *testing.T) {
	db := testutil.NewDB(t)
	row := model.OutboxModel{Tipo: model.TipoSistema, Payload: []byte(`{"destinatarios": "nope"}`)}
	require.NoError(t, db.Create(&row).Error)

	sent, err := service.NewDispatcher(db).DispatchPending(testutil.Ctx())
	require.NoError(t, err)
	assert.Zero(t, sent)

	var got model.OutboxModel
	require.NoError(t, db.First(&got, "id = ?", row.ID).Error)
	assert.Equal(t, 1, got.Intentos)
	assert.NotNil(t, got.UltimoError)
	assert.Nil(t, got.DespachadoAt)
}

func TestNotificacionService_ReadFlow(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewNotificacionService(w.DB)
	ctx := testutil.Ctx()
	mine := testutil.Session(w.Instructor)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		n, err := svc.Create(ctx, dto.CreateInput{
			Tipo: model.TipoSistema, Titulo: "Aviso", Mensaje: "Hola", UsuarioID: w.Instructor.ID,
		})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	_, err := svc.Create(ctx, dto.CreateInput{Tipo: "OTRO", Titulo: "x", Mensaje: "y", UsuarioID: w.Instructor.ID})
	assert.True(t, helper.IsKind(err, helper.KindValidation))

	unread, err := svc.UnreadCount(ctx, mine)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	_, err = svc.MarkRead(ctx, testutil.Session(w.Instructor2), ids[0])
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	n, err := svc.MarkRead(ctx, mine, ids[0])
	require.NoError(t, err)
	assert.True(t, n.Leida)
	assert.NotNil(t, n.LeidaAt)

	leida := false
	rows, total, unread, err := svc.ListByRecipient(ctx, mine, dto.ListQuery{Leida: &leida})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)
	assert.EqualValues(t, 2, unread)

	changed, err := svc.MarkAllRead(ctx, mine)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	// tidak ada yang dihapus
	var count int64
	require.NoError(t, w.DB.Model(&model.NotificacionModel{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestCreateSistema(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewNotificacionService(w.DB)
	ctx := testutil.Ctx()
	req := dto.SistemaRequest{UsuarioID: w.Instructor.ID, Titulo: " Mantenimiento ", Mensaje: "El sistema estará fuera de línea el sábado"}

	_, err := svc.CreateSistema(ctx, testutil.Session(w.Coordinador), req)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	n, err := svc.CreateSistema(ctx, testutil.Session(w.Admin), req)
	require.NoError(t, err)
	assert.Equal(t, model.TipoSistema, n.Tipo)
	assert.Equal(t, "Mantenimiento", n.Titulo)
	assert.Nil(t, n.SolicitudID)

	rows, _, unread, err := svc.ListByRecipient(ctx, testutil.Session(w.Instructor), dto.ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, unread)

	_, err = svc.CreateSistema(ctx, testutil.Session(w.Admin), dto.SistemaRequest{UsuarioID: uuid.New(), Titulo: "x", Mensaje: "y"})
	assert.True(t, helper.IsKind(err, helper.KindNotFound))

	_, err = svc.CreateSistema(ctx, testutil.Session(w.Admin), dto.SistemaRequest{UsuarioID: w.Instructor.ID, Titulo: "  ", Mensaje: "y"})
	assert.True(t, helper.IsKind(err, helper.KindValidation))
}
