package secuencias_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fichas_backend/internals/features/solicitudes/secuencias"
	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
	"fichas_backend/internals/testutil"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "SOL-2025-001", secuencias.FormatCodigo(2025, 1))
	assert.Equal(t, "SOL-2025-1234", secuencias.FormatCodigo(2025, 1234))
	assert.Equal(t, "20250007", secuencias.FormatFicha(2025, 7))
}

func TestNextCodigo_Increments(t *testing.T) {
	db := testutil.NewDB(t)

	var got []string
	for i := 0; i < 3; i++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			c, err := secuencias.NextCodigo(tx, 2025)
			got = append(got, c)
			return err
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"SOL-2025-001", "SOL-2025-002", "SOL-2025-003"}, got)

	// tahun lain mulai dari 1 lagi
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		c, err := secuencias.NextCodigo(tx, 2026)
		assert.Equal(t, "SOL-2026-001", c)
		return err
	}))
}

func TestNextCodigo_SeedsFromExistingData(t *testing.T) {
	w := testutil.NewWorld(t)
	for _, codigo := range []string{"SOL-2025-009", "SOL-2025-010", "SOL-2024-050"} {
		insertSolicitud(t, w, codigo, nil)
	}

	require.NoError(t, w.DB.Transaction(func(tx *gorm.DB) error {
		c, err := secuencias.NextCodigo(tx, 2025)
		// numerik: 010 > 009, bukan leksikografis
		assert.Equal(t, "SOL-2025-011", c)
		return err
	}))
}

func TestNextFicha_SkipsManualValues(t *testing.T) {
	w := testutil.NewWorld(t)

	next := func() string {
		var v string
		require.NoError(t, w.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			v, err = secuencias.NextFicha(tx, 2025)
			return err
		}))
		return v
	}

	assert.Equal(t, "20250001", next())

	// nomor 2 dipakai manual setelah counter dibuat
	manual := "20250002"
	insertSolicitud(t, w, "SOL-2025-001", &manual)

	assert.Equal(t, "20250003", next())
}

func insertSolicitud(t *testing.T, w *testutil.World, codigo string, ficha *string) {
	t.Helper()
	m := &solModel.SolicitudModel{
		ID:           uuid.New(),
		Codigo:       codigo,
		NumeroFicha:  ficha,
		Estado:       solModel.EstadoBorrador,
		InstructorID: w.Instructor.ID,
		ProgramaID:   w.Programa.ID,
		CentroID:     w.Centro.ID,
	}
	require.NoError(t, w.DB.Omit("Instructor", "Programa", "Centro", "Horarios").Create(m).Error)
}
