package service

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fichas_backend/internals/features/solicitudes/solicitudes/dto"
	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	helperAuth "fichas_backend/internals/helpers/auth"
)

// ApplyScope membatasi query solicitudes sesuai role:
// admin semua, coordinador centro-nya, instructor miliknya sendiri.
func ApplyScope(q *gorm.DB, s *helperAuth.Session) *gorm.DB {
	switch {
	case s.IsAdmin():
		return q
	case s.IsCoordinador():
		return q.Where("solicitudes.centro_id = ?", s.CentroID)
	case s.IsInstructor():
		return q.Where("solicitudes.instructor_id = ?", s.UserID)
	default:
		// role tak dikenal: kosong
		return q.Where("1 = 0")
	}
}

// applyFilter menerapkan filter list (AND). centro_id hanya berlaku untuk admin.
func applyFilter(q *gorm.DB, s *helperAuth.Session, f dto.ListFilter) *gorm.DB {
	if f.Estado != "" {
		q = q.Where("solicitudes.estado = ?", f.Estado)
	}
	if f.ProgramaID != uuid.Nil {
		q = q.Where("solicitudes.programa_id = ?", f.ProgramaID)
	}
	if f.InstructorID != uuid.Nil {
		q = q.Where("solicitudes.instructor_id = ?", f.InstructorID)
	}
	if f.CentroID != uuid.Nil && s.IsAdmin() {
		q = q.Where("solicitudes.centro_id = ?", f.CentroID)
	}
	if f.Year > 0 {
		// codigo selalu SOL-<tahun>-xxx
		q = q.Where("solicitudes.codigo LIKE ?", "SOL-"+strconv.Itoa(f.Year)+"-%")
	}
	if kw := strings.TrimSpace(f.Q); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		q = q.Where(
			"LOWER(solicitudes.codigo) LIKE ? OR LOWER(COALESCE(solicitudes.numero_ficha, '')) LIKE ? OR LOWER(solicitudes.responsable_nombre) LIKE ?",
			like, like, like,
		)
	}
	return q
}

func scopedSolicitudes(db *gorm.DB, s *helperAuth.Session) *gorm.DB {
	return ApplyScope(db.Model(&model.SolicitudModel{}), s)
}
