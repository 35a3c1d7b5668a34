package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fichas_backend/internals/features/centros/dto"
	"fichas_backend/internals/features/centros/service"
	helper "fichas_backend/internals/helpers"
	"fichas_backend/internals/testutil"
)

func TestCentro_OnlyAdminManages(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewCentroService(w.DB)
	req := dto.CentroRequest{Nombre: "Centro Nuevo", Codigo: " cnv "}

	_, err := svc.Create(testutil.Ctx(), testutil.Session(w.Coordinador), req)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))

	m, err := svc.Create(testutil.Ctx(), testutil.Session(w.Admin), req)
	require.NoError(t, err)
	assert.Equal(t, "CNV", m.Codigo)

	_, err = svc.Update(testutil.Ctx(), testutil.Session(w.Coordinador), w.Centro.ID, req)
	assert.True(t, helper.IsKind(err, helper.KindForbidden))
}

func TestCentro_DuplicateCodigoIsConflict(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewCentroService(w.DB)

	_, err := svc.Create(testutil.Ctx(), testutil.Session(w.Admin), dto.CentroRequest{Nombre: "Repetido", Codigo: "csf"})
	assert.True(t, helper.IsKind(err, helper.KindConflict), "got %v", err)
}

func TestCentro_UpdateAndList(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewCentroService(w.DB)
	admin := testutil.Session(w.Admin)

	m, err := svc.Update(testutil.Ctx(), admin, w.Centro.ID, dto.CentroRequest{
		Nombre: "Centro de Servicios Financieros",
		Codigo: "CSF",
		Ciudad: "Bogotá",
	})
	require.NoError(t, err)
	assert.Equal(t, "Centro de Servicios Financieros", m.Nombre)

	rows, err := svc.List(testutil.Ctx(), "financ")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, w.Centro.ID, rows[0].ID)

	all, err := svc.List(testutil.Ctx(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCentro_ValidationAndNotFound(t *testing.T) {
	w := testutil.NewWorld(t)
	svc := service.NewCentroService(w.DB)
	admin := testutil.Session(w.Admin)

	_, err := svc.Create(testutil.Ctx(), admin, dto.CentroRequest{Nombre: "ab"})
	assert.True(t, helper.IsKind(err, helper.KindValidation))

	_, err = svc.Update(testutil.Ctx(), admin, w.Admin.ID, dto.CentroRequest{Nombre: "Fantasma", Codigo: "FNT"})
	assert.True(t, helper.IsKind(err, helper.KindNotFound))
}
