// Package testutil menyiapkan database SQLite in-memory dan data awal untuk test.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"fichas_backend/internals/constants"
	centroModel "fichas_backend/internals/features/centros/model"
	notifModel "fichas_backend/internals/features/notificaciones/model"
	programaModel "fichas_backend/internals/features/programas/model"
	"fichas_backend/internals/features/solicitudes/secuencias"
	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
	authModel "fichas_backend/internals/features/users/auth/model"
	userModel "fichas_backend/internals/features/users/user/model"
	helperAuth "fichas_backend/internals/helpers/auth"
)

const (
	EmailDomain     = "sena.edu.co"
	DefaultPassword = "Secreta123"
)

func init() {
	helperAuth.BcryptCost = bcrypt.MinCost
}

// NewDB: satu database per test, satu koneksi supaya transaksi paralel terserialisasi.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&centroModel.CentroModel{},
		&userModel.UserModel{},
		&programaModel.ProgramaModel{},
		&programaModel.ProgramaObjetivoModel{},
		&programaModel.ProgramaCompetenciaModel{},
		&programaModel.ProgramaResultadoModel{},
		&secuencias.SecuenciaModel{},
		&solModel.SolicitudModel{},
		&solModel.HorarioSolicitudModel{},
		&notifModel.OutboxModel{},
		&notifModel.NotificacionModel{},
		&authModel.TokenBlacklist{},
	))
	return db
}

func Ctx() context.Context { return context.Background() }

/* ===================== seed ===================== */

func SeedCentro(t testing.TB, db *gorm.DB, codigo string) *centroModel.CentroModel {
	t.Helper()
	c := &centroModel.CentroModel{
		Nombre: "Centro " + codigo,
		Codigo: codigo,
		Ciudad: "Bogotá",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

var seq int

// SeedUser membuat user aktif dengan password DefaultPassword. centro boleh nil (admin nasional).
func SeedUser(t testing.TB, db *gorm.DB, rol string, centro *centroModel.CentroModel) *userModel.UserModel {
	t.Helper()
	seq++
	hash, err := helperAuth.HashPassword(DefaultPassword)
	require.NoError(t, err)

	u := &userModel.UserModel{
		Email:    fmt.Sprintf("%s%d@%s", rolPrefix(rol), seq, EmailDomain),
		Password: hash,
		Nombre:   fmt.Sprintf("%s %d", rol, seq),
		Cedula:   fmt.Sprintf("10%08d", seq),
		Telefono: "3000000000",
		Rol:      rol,
		Activo:   true,
	}
	if centro != nil {
		id := centro.ID
		u.CentroID = &id
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func rolPrefix(rol string) string {
	switch rol {
	case constants.RoleAdmin:
		return "admin"
	case constants.RoleCoordinador:
		return "coord"
	default:
		return "instr"
	}
}

func SeedPrograma(t testing.TB, db *gorm.DB, centro *centroModel.CentroModel, codigo string) *programaModel.ProgramaModel {
	t.Helper()
	p := &programaModel.ProgramaModel{
		Codigo:        codigo,
		Nombre:        "Programa " + codigo,
		TipoFormacion: "Complementaria",
		Modalidad:     programaModel.ModalidadPresencial,
		DuracionHoras: 40,
		CupoMaximo:    25,
		Descripcion:   "Programa de prueba",
		CentroID:      centro.ID,
		Activo:        true,
		Objetivos:     []programaModel.ProgramaObjetivoModel{{Orden: 1, Descripcion: "Objetivo uno"}},
		Competencias:  []programaModel.ProgramaCompetenciaModel{{Orden: 1, Descripcion: "Competencia uno"}},
		Resultados:    []programaModel.ProgramaResultadoModel{{Orden: 1, Descripcion: "Resultado uno"}},
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Session membangun session seperti yang diisi AuthMiddleware.
func Session(u *userModel.UserModel) *helperAuth.Session {
	return &helperAuth.Session{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Rol,
		CentroID:  u.CentroUUID(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// World = satu centro dengan admin, coordinador, dua instructor, dan satu programa aktif,
// plus centro kedua untuk kasus lintas centro.
type World struct {
	DB          *gorm.DB
	Centro      *centroModel.CentroModel
	OtroCentro  *centroModel.CentroModel
	Admin       *userModel.UserModel
	Coordinador *userModel.UserModel
	OtroCoord   *userModel.UserModel
	Instructor  *userModel.UserModel
	Instructor2 *userModel.UserModel
	OtroInstr   *userModel.UserModel
	Programa    *programaModel.ProgramaModel
	OtroProg    *programaModel.ProgramaModel
}

func NewWorld(t testing.TB) *World {
	t.Helper()
	db := NewDB(t)
	w := &World{DB: db}
	w.Centro = SeedCentro(t, db, "CSF")
	w.OtroCentro = SeedCentro(t, db, "CGI")
	w.Admin = SeedUser(t, db, constants.RoleAdmin, nil)
	w.Coordinador = SeedUser(t, db, constants.RoleCoordinador, w.Centro)
	w.OtroCoord = SeedUser(t, db, constants.RoleCoordinador, w.OtroCentro)
	w.Instructor = SeedUser(t, db, constants.RoleInstructor, w.Centro)
	w.Instructor2 = SeedUser(t, db, constants.RoleInstructor, w.Centro)
	w.OtroInstr = SeedUser(t, db, constants.RoleInstructor, w.OtroCentro)
	w.Programa = SeedPrograma(t, db, w.Centro, "P-100")
	w.OtroProg = SeedPrograma(t, db, w.OtroCentro, "P-200")
	return w
}
