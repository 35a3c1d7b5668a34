package dto

import (
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	helper "fichas_backend/internals/helpers"
	"fichas_backend/internals/helpers/dbtime"
)

type HorarioInput struct {
	DiaSemana       int    `json:"dia_semana" validate:"min=1,max=7"`
	HoraInicio      string `json:"hora_inicio" validate:"required"`
	HoraFin         string `json:"hora_fin" validate:"required"`
	FechaEspecifica string `json:"fecha_especifica" validate:"omitempty,datetime=2006-01-02"`
	EsFlexible      bool   `json:"es_flexible"`
	Observaciones   string `json:"observaciones" validate:"max=500"`
}

// SolicitudInput body POST/PUT /solicitudes. Field asing ditolak saat decode.
type SolicitudInput struct {
	IsDraft    bool      `json:"is_draft"`
	ProgramaID uuid.UUID `json:"programa_id" validate:"required"`

	ResponsableNombre   string `json:"responsable_nombre" validate:"max=200"`
	ResponsableCedula   string `json:"responsable_cedula" validate:"max=30"`
	ResponsableEmail    string `json:"responsable_email" validate:"omitempty,email,max=255"`
	ResponsableTelefono string `json:"responsable_telefono" validate:"max=30"`

	NumeroInscritos int `json:"numero_inscritos" validate:"min=0"`

	EmpresaNombre      *string `json:"empresa_nombre" validate:"omitempty,max=200"`
	EmpresaNIT         *string `json:"empresa_nit" validate:"omitempty,max=30"`
	EmpresaContacto    *string `json:"empresa_contacto" validate:"omitempty,max=200"`
	Municipio          *string `json:"municipio" validate:"omitempty,max=120"`
	Departamento       *string `json:"departamento" validate:"omitempty,max=120"`
	DireccionFormacion *string `json:"direccion_formacion" validate:"omitempty,max=255"`

	ProgramasEspeciales model.ProgramasEspeciales `json:"programas_especiales"`

	FechaInicioInscripcion string `json:"fecha_inicio_inscripcion" validate:"omitempty,datetime=2006-01-02"`
	FechaFinInscripcion    string `json:"fecha_fin_inscripcion" validate:"omitempty,datetime=2006-01-02"`
	FechaInicio            string `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin               string `json:"fecha_fin" validate:"omitempty,datetime=2006-01-02"`

	Justificacion string `json:"justificacion"`
	Metodologia   string `json:"metodologia"`
	Evaluacion    string `json:"evaluacion"`

	CumpleRequisitos  bool `json:"cumple_requisitos"`
	AutorizaDatos     bool `json:"autoriza_datos"`
	ConfirmaVeracidad bool `json:"confirma_veracidad"`

	Horarios []HorarioInput `json:"horarios" validate:"max=50,dive"`
}

type HorarioCommand struct {
	DiaSemana       int
	HoraInicio      dbtime.Tod
	HoraFin         dbtime.Tod
	FechaEspecifica *datatypes.Date
	EsFlexible      bool
	Observaciones   string
}

// SolicitudCommand hasil validasi SolicitudInput; satu-satunya bentuk yang diterima engine.
type SolicitudCommand struct {
	IsDraft    bool
	ProgramaID uuid.UUID

	ResponsableNombre   string
	ResponsableCedula   string
	ResponsableEmail    string
	ResponsableTelefono string

	NumeroInscritos int

	EmpresaNombre      *string
	EmpresaNIT         *string
	EmpresaContacto    *string
	Municipio          *string
	Departamento       *string
	DireccionFormacion *string

	ProgramasEspeciales datatypes.JSON

	FechaInicioInscripcion *datatypes.Date
	FechaFinInscripcion    *datatypes.Date
	FechaInicio            *datatypes.Date
	FechaFin               *datatypes.Date

	Justificacion string
	Metodologia   string
	Evaluacion    string

	CumpleRequisitos  bool
	AutorizaDatos     bool
	ConfirmaVeracidad bool

	Horarios []HorarioCommand
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func (in *SolicitudInput) normalize() {
	in.ResponsableNombre = strings.TrimSpace(in.ResponsableNombre)
	in.ResponsableCedula = strings.TrimSpace(in.ResponsableCedula)
	in.ResponsableEmail = helper.NormalizeEmail(in.ResponsableEmail)
	in.ResponsableTelefono = strings.TrimSpace(in.ResponsableTelefono)
	in.EmpresaNombre = trimPtr(in.EmpresaNombre)
	in.EmpresaNIT = trimPtr(in.EmpresaNIT)
	in.EmpresaContacto = trimPtr(in.EmpresaContacto)
	in.Municipio = trimPtr(in.Municipio)
	in.Departamento = trimPtr(in.Departamento)
	in.DireccionFormacion = trimPtr(in.DireccionFormacion)
	in.Justificacion = strings.TrimSpace(in.Justificacion)
	in.Metodologia = strings.TrimSpace(in.Metodologia)
	in.Evaluacion = strings.TrimSpace(in.Evaluacion)
	for i := range in.Horarios {
		in.Horarios[i].Observaciones = strings.TrimSpace(in.Horarios[i].Observaciones)
	}
}

// ToCommand memvalidasi format (validator/v10) lalu kelengkapan: borrador boleh
// belum lengkap, solicitud yang dikirim wajib lengkap.
func (in *SolicitudInput) ToCommand() (*SolicitudCommand, error) {
	in.normalize()
	if err := helper.ValidateStruct(in); err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	bad := func(field, tag string) { fields[field] = append(fields[field], tag) }

	cmd := &SolicitudCommand{
		IsDraft:             in.IsDraft,
		ProgramaID:          in.ProgramaID,
		ResponsableNombre:   in.ResponsableNombre,
		ResponsableCedula:   in.ResponsableCedula,
		ResponsableEmail:    in.ResponsableEmail,
		ResponsableTelefono: in.ResponsableTelefono,
		NumeroInscritos:     in.NumeroInscritos,
		EmpresaNombre:       in.EmpresaNombre,
		EmpresaNIT:          in.EmpresaNIT,
		EmpresaContacto:     in.EmpresaContacto,
		Municipio:           in.Municipio,
		Departamento:        in.Departamento,
		DireccionFormacion:  in.DireccionFormacion,
		Justificacion:       in.Justificacion,
		Metodologia:         in.Metodologia,
		Evaluacion:          in.Evaluacion,
		CumpleRequisitos:    in.CumpleRequisitos,
		AutorizaDatos:       in.AutorizaDatos,
		ConfirmaVeracidad:   in.ConfirmaVeracidad,
	}

	raw, err := sonic.Marshal(in.ProgramasEspeciales)
	if err != nil {
		return nil, helper.ErrInternal("marshal programas especiales", err)
	}
	cmd.ProgramasEspeciales = datatypes.JSON(raw)

	parse := func(field, v string) *datatypes.Date {
		d, err := dbtime.ParseDate(v)
		if err != nil {
			bad(field, "datetime")
		}
		return d
	}
	cmd.FechaInicioInscripcion = parse("fecha_inicio_inscripcion", in.FechaInicioInscripcion)
	cmd.FechaFinInscripcion = parse("fecha_fin_inscripcion", in.FechaFinInscripcion)
	cmd.FechaInicio = parse("fecha_inicio", in.FechaInicio)
	cmd.FechaFin = parse("fecha_fin", in.FechaFin)

	if after(cmd.FechaInicioInscripcion, cmd.FechaFinInscripcion) {
		bad("fecha_fin_inscripcion", "gtefield=fecha_inicio_inscripcion")
	}
	if after(cmd.FechaInicio, cmd.FechaFin) {
		bad("fecha_fin", "gtefield=fecha_inicio")
	}

	for i, h := range in.Horarios {
		key := "horarios[" + itoa(i) + "]"
		ini, err1 := dbtime.Parse(h.HoraInicio)
		fin, err2 := dbtime.Parse(h.HoraFin)
		if err1 != nil {
			bad(key+".hora_inicio", "time")
		}
		if err2 != nil {
			bad(key+".hora_fin", "time")
		}
		if err1 == nil && err2 == nil && !ini.Before(fin) {
			bad(key+".hora_fin", "gtfield=hora_inicio")
		}
		fe, err := dbtime.ParseDate(h.FechaEspecifica)
		if err != nil {
			bad(key+".fecha_especifica", "datetime")
		}
		cmd.Horarios = append(cmd.Horarios, HorarioCommand{
			DiaSemana:       h.DiaSemana,
			HoraInicio:      ini,
			HoraFin:         fin,
			FechaEspecifica: fe,
			EsFlexible:      h.EsFlexible,
			Observaciones:   h.Observaciones,
		})
	}

	if !in.IsDraft {
		if in.ResponsableNombre == "" {
			bad("responsable_nombre", "required")
		}
		if in.ResponsableCedula == "" {
			bad("responsable_cedula", "required")
		}
		if cmd.FechaInicio == nil {
			bad("fecha_inicio", "required")
		}
		if cmd.FechaFin == nil {
			bad("fecha_fin", "required")
		}
		if in.Justificacion == "" {
			bad("justificacion", "required")
		}
		if len(in.Horarios) == 0 {
			bad("horarios", "min=1")
		}
		if !in.CumpleRequisitos {
			bad("cumple_requisitos", "eq=true")
		}
		if !in.AutorizaDatos {
			bad("autoriza_datos", "eq=true")
		}
		if !in.ConfirmaVeracidad {
			bad("confirma_veracidad", "eq=true")
		}
	}

	if len(fields) > 0 {
		return nil, &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "La solicitud tiene campos inválidos o incompletos",
			Fields:  fields,
		}
	}
	return cmd, nil
}

func after(a, b *datatypes.Date) bool {
	if a == nil || b == nil {
		return false
	}
	return dbtime.FormatDate(a) > dbtime.FormatDate(b)
}
