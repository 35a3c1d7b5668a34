package model

import (
	"time"

	centroModel "fichas_backend/internals/features/centros/model"
	programaModel "fichas_backend/internals/features/programas/model"
	userModel "fichas_backend/internals/features/users/user/model"
	"fichas_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Estado string

const (
	EstadoBorrador   Estado = "BORRADOR"
	EstadoPendiente  Estado = "PENDIENTE"
	EstadoEnRevision Estado = "EN_REVISION"
	EstadoAprobada   Estado = "APROBADA"
	EstadoRechazada  Estado = "RECHAZADA"
)

var AllEstados = []Estado{EstadoBorrador, EstadoPendiente, EstadoEnRevision, EstadoAprobada, EstadoRechazada}

// Estado yang masih boleh diedit instructor.
var EditableEstados = []Estado{EstadoBorrador, EstadoPendiente}

// Estado yang masih boleh di-approve / di-reject.
var ReviewableEstados = []Estado{EstadoPendiente, EstadoEnRevision}

func (e Estado) Valid() bool {
	for _, x := range AllEstados {
		if x == e {
			return true
		}
	}
	return false
}

func (e Estado) In(set []Estado) bool {
	for _, x := range set {
		if x == e {
			return true
		}
	}
	return false
}

func (e Estado) Terminal() bool {
	return e == EstadoAprobada || e == EstadoRechazada
}

type SolicitudModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Codigo      string    `gorm:"column:codigo;size:30;not null;uniqueIndex:uq_solicitudes_codigo" json:"codigo"`
	NumeroFicha *string   `gorm:"column:numero_ficha;size:20;uniqueIndex:uq_solicitudes_numero_ficha" json:"numero_ficha"`
	Estado      Estado    `gorm:"column:estado;size:20;not null;index" json:"estado"`

	InstructorID uuid.UUID `gorm:"column:instructor_id;type:uuid;not null;index" json:"instructor_id"`
	ProgramaID   uuid.UUID `gorm:"column:programa_id;type:uuid;not null;index" json:"programa_id"`
	// cache centro programa, supaya scoping coordinador tanpa join
	CentroID uuid.UUID `gorm:"column:centro_id;type:uuid;not null;index" json:"centro_id"`

	ResponsableNombre   string `gorm:"column:responsable_nombre;size:200" json:"responsable_nombre"`
	ResponsableCedula   string `gorm:"column:responsable_cedula;size:30" json:"responsable_cedula"`
	ResponsableEmail    string `gorm:"column:responsable_email;size:255" json:"responsable_email"`
	ResponsableTelefono string `gorm:"column:responsable_telefono;size:30" json:"responsable_telefono"`

	DuracionHoras   int    `gorm:"column:duracion_horas;not null" json:"duracion_horas"`
	Modalidad       string `gorm:"column:modalidad;size:20" json:"modalidad"`
	CupoMaximo      int    `gorm:"column:cupo_maximo;not null" json:"cupo_maximo"`
	NumeroInscritos int    `gorm:"column:numero_inscritos;not null" json:"numero_inscritos"`

	EmpresaNombre      *string `gorm:"column:empresa_nombre;size:200" json:"empresa_nombre,omitempty"`
	EmpresaNIT         *string `gorm:"column:empresa_nit;size:30" json:"empresa_nit,omitempty"`
	EmpresaContacto    *string `gorm:"column:empresa_contacto;size:200" json:"empresa_contacto,omitempty"`
	Municipio          *string `gorm:"column:municipio;size:120" json:"municipio,omitempty"`
	Departamento       *string `gorm:"column:departamento;size:120" json:"departamento,omitempty"`
	DireccionFormacion *string `gorm:"column:direccion_formacion;size:255" json:"direccion_formacion,omitempty"`

	ProgramasEspeciales datatypes.JSON `gorm:"column:programas_especiales;not null" json:"programas_especiales"`

	FechaInicioInscripcion *datatypes.Date `gorm:"column:fecha_inicio_inscripcion" json:"fecha_inicio_inscripcion"`
	FechaFinInscripcion    *datatypes.Date `gorm:"column:fecha_fin_inscripcion" json:"fecha_fin_inscripcion"`
	FechaInicio            *datatypes.Date `gorm:"column:fecha_inicio" json:"fecha_inicio"`
	FechaFin               *datatypes.Date `gorm:"column:fecha_fin" json:"fecha_fin"`

	Justificacion string `gorm:"column:justificacion;type:text" json:"justificacion"`
	Metodologia   string `gorm:"column:metodologia;type:text" json:"metodologia"`
	Evaluacion    string `gorm:"column:evaluacion;type:text" json:"evaluacion"`

	CumpleRequisitos  bool `gorm:"column:cumple_requisitos;not null" json:"cumple_requisitos"`
	AutorizaDatos     bool `gorm:"column:autoriza_datos;not null" json:"autoriza_datos"`
	ConfirmaVeracidad bool `gorm:"column:confirma_veracidad;not null" json:"confirma_veracidad"`

	FechaAprobacion     *time.Time `gorm:"column:fecha_aprobacion" json:"fecha_aprobacion"`
	FechaRevision       *time.Time `gorm:"column:fecha_revision" json:"fecha_revision"`
	ComentariosRevision *string    `gorm:"column:comentarios_revision;type:text" json:"comentarios_revision"`
	RevisadoPor         *uuid.UUID `gorm:"column:revisado_por;type:uuid" json:"revisado_por"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Instructor *userModel.UserModel         `gorm:"foreignKey:InstructorID;references:ID" json:"-"`
	Programa   *programaModel.ProgramaModel `gorm:"foreignKey:ProgramaID;references:ID" json:"-"`
	Centro     *centroModel.CentroModel     `gorm:"foreignKey:CentroID;references:ID" json:"-"`
	Horarios   []HorarioSolicitudModel      `gorm:"foreignKey:SolicitudID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SolicitudModel) TableName() string {
	return "solicitudes"
}

func (m *SolicitudModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if len(m.ProgramasEspeciales) == 0 {
		m.ProgramasEspeciales = datatypes.JSON("{}")
	}
	return nil
}

type HorarioSolicitudModel struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SolicitudID     uuid.UUID       `gorm:"column:solicitud_id;type:uuid;not null;index" json:"-"`
	Orden           int             `gorm:"column:orden;not null" json:"orden"`
	DiaSemana       int             `gorm:"column:dia_semana;not null" json:"dia_semana"` // 1 = lunes … 7 = domingo
	HoraInicio      dbtime.Tod      `gorm:"column:hora_inicio;not null" json:"hora_inicio"`
	HoraFin         dbtime.Tod      `gorm:"column:hora_fin;not null" json:"hora_fin"`
	FechaEspecifica *datatypes.Date `gorm:"column:fecha_especifica" json:"fecha_especifica"`
	EsFlexible      bool            `gorm:"column:es_flexible;not null" json:"es_flexible"`
	Observaciones   string          `gorm:"column:observaciones;type:text" json:"observaciones"`
}

func (HorarioSolicitudModel) TableName() string {
	return "horarios_solicitud"
}

func (m *HorarioSolicitudModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ProgramasEspeciales kumpulan flag program khusus yang disimpan sebagai JSON.
type ProgramasEspeciales struct {
	CampeSena       bool `json:"campesena"`
	FullPopular     bool `json:"full_popular"`
	EconomiaPopular bool `json:"economia_popular"`
	Victimas        bool `json:"victimas"`
	Discapacidad    bool `json:"discapacidad"`
	Emprendimiento  bool `json:"emprendimiento"`
}
