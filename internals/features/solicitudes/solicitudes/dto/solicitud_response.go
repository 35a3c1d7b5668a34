package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	programaModel "fichas_backend/internals/features/programas/model"
	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	userDTO "fichas_backend/internals/features/users/user/dto"
	userModel "fichas_backend/internals/features/users/user/model"
	"fichas_backend/internals/helpers/dbtime"
)

type HorarioResponse struct {
	Orden           int        `json:"orden"`
	DiaSemana       int        `json:"dia_semana"`
	HoraInicio      dbtime.Tod `json:"hora_inicio"`
	HoraFin         dbtime.Tod `json:"hora_fin"`
	FechaEspecifica string     `json:"fecha_especifica,omitempty"`
	EsFlexible      bool       `json:"es_flexible"`
	Observaciones   string     `json:"observaciones,omitempty"`
}

type SolicitudResponse struct {
	ID          uuid.UUID    `json:"id"`
	Codigo      string       `json:"codigo"`
	NumeroFicha *string      `json:"numero_ficha"`
	Estado      model.Estado `json:"estado"`

	InstructorID uuid.UUID `json:"instructor_id"`
	ProgramaID   uuid.UUID `json:"programa_id"`
	CentroID     uuid.UUID `json:"centro_id"`

	ResponsableNombre   string `json:"responsable_nombre"`
	ResponsableCedula   string `json:"responsable_cedula"`
	ResponsableEmail    string `json:"responsable_email"`
	ResponsableTelefono string `json:"responsable_telefono"`

	DuracionHoras   int    `json:"duracion_horas"`
	Modalidad       string `json:"modalidad"`
	CupoMaximo      int    `json:"cupo_maximo"`
	NumeroInscritos int    `json:"numero_inscritos"`

	EmpresaNombre      *string `json:"empresa_nombre,omitempty"`
	EmpresaNIT         *string `json:"empresa_nit,omitempty"`
	EmpresaContacto    *string `json:"empresa_contacto,omitempty"`
	Municipio          *string `json:"municipio,omitempty"`
	Departamento       *string `json:"departamento,omitempty"`
	DireccionFormacion *string `json:"direccion_formacion,omitempty"`

	ProgramasEspeciales datatypes.JSON `json:"programas_especiales"`

	FechaInicioInscripcion string `json:"fecha_inicio_inscripcion,omitempty"`
	FechaFinInscripcion    string `json:"fecha_fin_inscripcion,omitempty"`
	FechaInicio            string `json:"fecha_inicio,omitempty"`
	FechaFin               string `json:"fecha_fin,omitempty"`

	Justificacion string `json:"justificacion"`
	Metodologia   string `json:"metodologia"`
	Evaluacion    string `json:"evaluacion"`

	CumpleRequisitos  bool `json:"cumple_requisitos"`
	AutorizaDatos     bool `json:"autoriza_datos"`
	ConfirmaVeracidad bool `json:"confirma_veracidad"`

	FechaAprobacion     *time.Time `json:"fecha_aprobacion,omitempty"`
	FechaRevision       *time.Time `json:"fecha_revision,omitempty"`
	ComentariosRevision *string    `json:"comentarios_revision,omitempty"`
	RevisadoPor         *uuid.UUID `json:"revisado_por,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Programa   *programaModel.ProgramaSummary `json:"programa,omitempty"`
	Instructor *userModel.UserSummary         `json:"instructor,omitempty"`
	Centro     *userDTO.CentroBrief           `json:"centro,omitempty"`
	Horarios   []HorarioResponse              `json:"horarios"`
}

func FromModel(m *model.SolicitudModel) SolicitudResponse {
	out := SolicitudResponse{
		ID:                     m.ID,
		Codigo:                 m.Codigo,
		NumeroFicha:            m.NumeroFicha,
		Estado:                 m.Estado,
		InstructorID:           m.InstructorID,
		ProgramaID:             m.ProgramaID,
		CentroID:               m.CentroID,
		ResponsableNombre:      m.ResponsableNombre,
		ResponsableCedula:      m.ResponsableCedula,
		ResponsableEmail:       m.ResponsableEmail,
		ResponsableTelefono:    m.ResponsableTelefono,
		DuracionHoras:          m.DuracionHoras,
		Modalidad:              m.Modalidad,
		CupoMaximo:             m.CupoMaximo,
		NumeroInscritos:        m.NumeroInscritos,
		EmpresaNombre:          m.EmpresaNombre,
		EmpresaNIT:             m.EmpresaNIT,
		EmpresaContacto:        m.EmpresaContacto,
		Municipio:              m.Municipio,
		Departamento:           m.Departamento,
		DireccionFormacion:     m.DireccionFormacion,
		ProgramasEspeciales:    m.ProgramasEspeciales,
		FechaInicioInscripcion: dbtime.FormatDate(m.FechaInicioInscripcion),
		FechaFinInscripcion:    dbtime.FormatDate(m.FechaFinInscripcion),
		FechaInicio:            dbtime.FormatDate(m.FechaInicio),
		FechaFin:               dbtime.FormatDate(m.FechaFin),
		Justificacion:          m.Justificacion,
		Metodologia:            m.Metodologia,
		Evaluacion:             m.Evaluacion,
		CumpleRequisitos:       m.CumpleRequisitos,
		AutorizaDatos:          m.AutorizaDatos,
		ConfirmaVeracidad:      m.ConfirmaVeracidad,
		FechaAprobacion:        m.FechaAprobacion,
		FechaRevision:          m.FechaRevision,
		ComentariosRevision:    m.ComentariosRevision,
		RevisadoPor:            m.RevisadoPor,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
		Programa:               m.Programa.Summary(),
		Instructor:             m.Instructor.Summary(),
		Horarios:               make([]HorarioResponse, 0, len(m.Horarios)),
	}
	if m.Centro != nil {
		out.Centro = &userDTO.CentroBrief{ID: m.Centro.ID, Nombre: m.Centro.Nombre, Codigo: m.Centro.Codigo}
	}
	for _, h := range m.Horarios {
		out.Horarios = append(out.Horarios, HorarioResponse{
			Orden:           h.Orden,
			DiaSemana:       h.DiaSemana,
			HoraInicio:      h.HoraInicio,
			HoraFin:         h.HoraFin,
			FechaEspecifica: dbtime.FormatDate(h.FechaEspecifica),
			EsFlexible:      h.EsFlexible,
			Observaciones:   h.Observaciones,
		})
	}
	return out
}

func FromModels(rows []model.SolicitudModel) []SolicitudResponse {
	out := make([]SolicitudResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
