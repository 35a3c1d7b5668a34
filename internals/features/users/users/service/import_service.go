package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	authRepo "fichas_backend/internals/features/users/auth/repository"
	"fichas_backend/internals/features/users/user/model"
	"fichas_backend/internals/features/users/users/dto"

	"fichas_backend/internals/constants"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
	"fichas_backend/internals/helpers/dbtime"
)

// kolom yang dikenali di baris header (case-insensitive)
const (
	colNombre       = "nombre"
	colEmail        = "email"
	colCedula       = "cedula"
	colTelefono     = "telefono"
	colEspecialidad = "especialidad"
	colCentroCodigo = "centro_codigo"
)

var headerAliases = map[string]string{
	"nombre":             colNombre,
	"nombre completo":    colNombre,
	"email":              colEmail,
	"correo":             colEmail,
	"correo electrónico": colEmail,
	"cedula":             colCedula,
	"cédula":             colCedula,
	"documento":          colCedula,
	"telefono":           colTelefono,
	"teléfono":           colTelefono,
	"especialidad":       colEspecialidad,
	"centro_codigo":      colCentroCodigo,
	"centro":             colCentroCodigo,
	"codigo centro":      colCentroCodigo,
}

const maxImportRows = 1000

// Import membaca workbook xlsx (sheet pertama, baris 1 = header) dan membuat satu
// instructor per baris. Setiap baris berdiri sendiri: gagal di satu baris tidak
// membatalkan baris lain.
func (s *InstructorService) Import(ctx context.Context, sess *helperAuth.Session, r io.Reader) (*dto.ImportResult, error) {
	if !sess.IsAdmin() && !sess.IsCoordinador() {
		return nil, helper.ErrForbidden("Solo coordinadores o administradores pueden importar instructores")
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, helper.ErrValidation("El archivo no es un libro de Excel válido")
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[WARN] tutup workbook import: %v", err)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, helper.ErrValidation("El archivo no contiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, helper.ErrValidation("No se pudo leer la hoja del archivo")
	}
	if len(rows) < 2 {
		return nil, helper.ErrValidation("El archivo no contiene instructores para importar")
	}
	if len(rows)-1 > maxImportRows {
		return nil, helper.ErrValidation("El archivo supera el máximo de filas permitidas")
	}

	cols := mapHeader(rows[0])
	for _, req := range []string{colNombre, colEmail, colCedula} {
		if _, ok := cols[req]; !ok {
			return nil, &helper.AppError{
				Kind:    helper.KindValidation,
				Message: "Faltan columnas obligatorias en el encabezado (nombre, email, cedula)",
				Fields:  map[string][]string{"file": {"header"}},
			}
		}
	}

	year := dbtime.Year(s.now())
	seenEmail := map[string]int{}
	seenCedula := map[string]int{}
	centroCache := map[string]uuid.UUID{}

	out := &dto.ImportResult{Resultados: make([]dto.ImportRowResult, 0, len(rows)-1)}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		fila := i + 1 // nomor baris Excel

		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		nombre := get(colNombre)
		email := helper.NormalizeEmail(get(colEmail))
		cedula := get(colCedula)

		res := dto.ImportRowResult{Fila: fila, Email: email}
		fail := func(msg string) {
			res.Error = msg
			out.Resultados = append(out.Resultados, res)
			out.Fallidos++
		}

		switch {
		case nombre == "" || email == "" || cedula == "":
			fail("Nombre, email y cédula son obligatorios")
			continue
		case helper.Validate.Var(email, "email") != nil:
			fail("Correo electrónico inválido")
			continue
		case !helper.IsInstitutionalEmail(email, s.EmailDomain):
			fail("Debe usar un correo institucional @" + s.EmailDomain)
			continue
		}
		if prev, dup := seenEmail[email]; dup {
			fail("Correo duplicado en el archivo (fila " + strconv.Itoa(prev) + ")")
			continue
		}
		if prev, dup := seenCedula[cedula]; dup {
			fail("Cédula duplicada en el archivo (fila " + strconv.Itoa(prev) + ")")
			continue
		}
		seenEmail[email] = fila
		seenCedula[cedula] = fila

		if err := s.checkUnique(ctx, email, cedula, uuid.Nil); err != nil {
			if helper.IsKind(err, helper.KindInternal) {
				log.Printf("[ERROR] import fila %d: %v", fila, err)
				fail("Error interno al validar la fila")
			} else {
				fail(messageOf(err))
			}
			continue
		}

		centroID, msg := s.importCentro(ctx, sess, get(colCentroCodigo), centroCache)
		if msg != "" {
			fail(msg)
			continue
		}

		hash, err := helperAuth.HashPassword(TemporaryPassword(cedula, year))
		if err != nil {
			log.Printf("[ERROR] import fila %d hash: %v", fila, err)
			fail("Error interno al crear el usuario")
			continue
		}
		var esp *string
		if v := get(colEspecialidad); v != "" {
			esp = &v
		}
		u := &model.UserModel{
			Email:        email,
			Password:     hash,
			Nombre:       nombre,
			Cedula:       cedula,
			Telefono:     get(colTelefono),
			Rol:          constants.RoleInstructor,
			Especialidad: esp,
			CentroID:     &centroID,
			Activo:       true,
		}
		if err := authRepo.CreateUser(ctx, s.DB, u); err != nil {
			if helper.IsUniqueViolation(err) {
				fail("El correo o la cédula ya están registrados")
			} else {
				log.Printf("[ERROR] import fila %d create: %v", fila, err)
				fail("Error interno al crear el usuario")
			}
			continue
		}

		res.OK = true
		out.Resultados = append(out.Resultados, res)
		out.Exitosos++
	}

	log.Printf("[INFO] import instructores oleh %s: %d exitosos, %d fallidos", sess.UserID, out.Exitosos, out.Fallidos)
	return out, nil
}

// importCentro: coordinador → centro sendiri; admin → kolom centro_codigo (atau centro admin bila kosong).
func (s *InstructorService) importCentro(ctx context.Context, sess *helperAuth.Session, codigo string, cache map[string]uuid.UUID) (uuid.UUID, string) {
	if !sess.IsAdmin() {
		return sess.CentroID, ""
	}
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	if codigo == "" {
		if sess.CentroID != uuid.Nil {
			return sess.CentroID, ""
		}
		return uuid.Nil, "Debe indicar el código del centro"
	}
	if id, ok := cache[codigo]; ok {
		return id, ""
	}
	c, err := authRepo.FindCentroByCodigo(ctx, s.DB, codigo)
	if err != nil {
		if helper.IsNotFound(err) {
			return uuid.Nil, "El centro " + codigo + " no existe"
		}
		log.Printf("[ERROR] import cari centro %s: %v", codigo, err)
		return uuid.Nil, "Error interno al buscar el centro"
	}
	cache[codigo] = c.ID
	return c.ID, ""
}

func mapHeader(header []string) map[string]int {
	out := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canon, ok := headerAliases[key]; ok {
			if _, dup := out[canon]; !dup {
				out[canon] = i
			}
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func messageOf(err error) string {
	var ae *helper.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
