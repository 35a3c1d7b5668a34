package service

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-pdf/fpdf"

	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	"fichas_backend/internals/helpers/dbtime"
)

var diasSemana = map[int]string{
	1: "Lunes", 2: "Martes", 3: "Miércoles", 4: "Jueves", 5: "Viernes", 6: "Sábado", 7: "Domingo",
}

var programasEspecialesLabel = []struct {
	key   string
	label string
}{
	{"campesena", "CampeSENA"},
	{"full_popular", "Full Popular"},
	{"economia_popular", "Economía Popular"},
	{"victimas", "Víctimas"},
	{"discapacidad", "Discapacidad"},
	{"emprendimiento", "Emprendimiento"},
}

// pdfDoc pembungkus fpdf + translator cp1252 (font inti fpdf bukan UTF-8).
type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func (d *pdfDoc) text(s string) string { return d.tr(s) }

// BuildPDF: satu grup halaman (ficha de caracterización) per solicitud.
func BuildPDF(rows []model.SolicitudModel, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	d := &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetTitle("Fichas de caracterización", true)
	pdf.SetAuthor("Formación complementaria", true)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("")

	stamp := generatedAt.In(dbtime.Location()).Format("2006-01-02 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 6, d.text("Generado: "+stamp), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	for i := range rows {
		writeSolicitud(d, &rows[i])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSolicitud(d *pdfDoc, s *model.SolicitudModel) {
	d.AddPage()

	// header
	d.SetFillColor(57, 169, 0)
	d.SetTextColor(255, 255, 255)
	d.SetFont("Helvetica", "B", 14)
	d.CellFormat(0, 10, d.text("FICHA DE CARACTERIZACIÓN - FORMACIÓN COMPLEMENTARIA"), "", 1, "C", true, 0, "")
	d.SetTextColor(0, 0, 0)
	d.Ln(2)

	d.SetFont("Helvetica", "B", 10)
	ficha := "-"
	if s.NumeroFicha != nil {
		ficha = *s.NumeroFicha
	}
	d.CellFormat(60, 7, d.text("Código: "+s.Codigo), "1", 0, "L", false, 0, "")
	d.CellFormat(60, 7, d.text("Ficha: "+ficha), "1", 0, "L", false, 0, "")
	d.CellFormat(0, 7, d.text("Estado: "+string(s.Estado)), "1", 1, "L", false, 0, "")
	d.Ln(3)

	section(d, "Programa")
	if p := s.Programa; p != nil {
		field(d, "Código programa", p.Codigo)
		field(d, "Nombre", p.Nombre)
		field(d, "Tipo de formación", p.TipoFormacion)
	}
	field(d, "Modalidad", s.Modalidad)
	field(d, "Duración (horas)", strconv.Itoa(s.DuracionHoras))
	field(d, "Cupo máximo", strconv.Itoa(s.CupoMaximo))
	field(d, "Inscritos", strconv.Itoa(s.NumeroInscritos))
	if s.Centro != nil {
		field(d, "Centro de formación", s.Centro.Nombre+" ("+s.Centro.Codigo+")")
	}

	section(d, "Instructor")
	if in := s.Instructor; in != nil {
		field(d, "Nombre", in.Nombre)
		field(d, "Cédula", in.Cedula)
		field(d, "Correo", in.Email)
		field(d, "Teléfono", in.Telefono)
	}

	section(d, "Responsable / Empresa")
	field(d, "Responsable", s.ResponsableNombre)
	field(d, "Cédula", s.ResponsableCedula)
	field(d, "Correo", s.ResponsableEmail)
	field(d, "Teléfono", s.ResponsableTelefono)
	field(d, "Empresa", deref(s.EmpresaNombre))
	field(d, "NIT", deref(s.EmpresaNIT))
	field(d, "Contacto empresa", deref(s.EmpresaContacto))
	field(d, "Municipio", deref(s.Municipio))
	field(d, "Departamento", deref(s.Departamento))
	field(d, "Dirección de formación", deref(s.DireccionFormacion))
	field(d, "Programas especiales", especialesText(s))

	section(d, "Fechas")
	field(d, "Inscripción", rango(dbtime.FormatDate(s.FechaInicioInscripcion), dbtime.FormatDate(s.FechaFinInscripcion)))
	field(d, "Formación", rango(dbtime.FormatDate(s.FechaInicio), dbtime.FormatDate(s.FechaFin)))

	section(d, "Horarios")
	horariosTable(d, s.Horarios)

	section(d, "Justificación")
	paragraph(d, s.Justificacion)
	if s.Metodologia != "" {
		section(d, "Metodología")
		paragraph(d, s.Metodologia)
	}
	if s.Evaluacion != "" {
		section(d, "Evaluación")
		paragraph(d, s.Evaluacion)
	}

	if p := s.Programa; p != nil {
		if len(p.Objetivos) > 0 {
			section(d, "Objetivos del programa")
			items := make([]string, 0, len(p.Objetivos))
			for _, o := range p.Objetivos {
				items = append(items, o.Descripcion)
			}
			numbered(d, items)
		}
		if len(p.Competencias) > 0 {
			section(d, "Competencias")
			items := make([]string, 0, len(p.Competencias))
			for _, c := range p.Competencias {
				items = append(items, c.Descripcion)
			}
			numbered(d, items)
		}
		if len(p.Resultados) > 0 {
			section(d, "Resultados de aprendizaje")
			items := make([]string, 0, len(p.Resultados))
			for _, r := range p.Resultados {
				items = append(items, r.Descripcion)
			}
			numbered(d, items)
		}
	}

	if s.Estado.Terminal() {
		section(d, "Revisión")
		if s.FechaAprobacion != nil {
			field(d, "Fecha aprobación", s.FechaAprobacion.In(dbtime.Location()).Format("2006-01-02 15:04"))
		}
		if s.FechaRevision != nil {
			field(d, "Fecha revisión", s.FechaRevision.In(dbtime.Location()).Format("2006-01-02 15:04"))
		}
		field(d, "Comentarios", deref(s.ComentariosRevision))
	}
}

func section(d *pdfDoc, title string) {
	d.Ln(2)
	d.SetFont("Helvetica", "B", 11)
	d.SetFillColor(230, 240, 230)
	d.CellFormat(0, 7, d.text(title), "", 1, "L", true, 0, "")
	d.SetFont("Helvetica", "", 9)
}

func field(d *pdfDoc, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	d.SetFont("Helvetica", "B", 9)
	d.CellFormat(50, 6, d.text(label), "", 0, "L", false, 0, "")
	d.SetFont("Helvetica", "", 9)
	d.MultiCell(0, 6, d.text(value), "", "L", false)
}

func paragraph(d *pdfDoc, txt string) {
	if strings.TrimSpace(txt) == "" {
		txt = "-"
	}
	d.SetFont("Helvetica", "", 9)
	d.MultiCell(0, 5, d.text(txt), "", "J", false)
}

func numbered(d *pdfDoc, items []string) {
	d.SetFont("Helvetica", "", 9)
	for i, it := range items {
		d.CellFormat(8, 5, strconv.Itoa(i+1)+".", "", 0, "R", false, 0, "")
		d.MultiCell(0, 5, d.text(it), "", "L", false)
	}
}

func horariosTable(d *pdfDoc, hs []model.HorarioSolicitudModel) {
	if len(hs) == 0 {
		paragraph(d, "Sin horarios registrados")
		return
	}
	widths := []float64{28, 22, 22, 30, 20, 0}
	headers := []string{"Día", "Inicio", "Fin", "Fecha", "Flexible", "Observaciones"}
	d.SetFont("Helvetica", "B", 9)
	d.SetFillColor(245, 245, 245)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		d.CellFormat(widths[i], 6, d.text(h), "1", ln, "C", true, 0, "")
	}
	d.SetFont("Helvetica", "", 9)
	for _, h := range hs {
		flex := "No"
		if h.EsFlexible {
			flex = "Sí"
		}
		fecha := dbtime.FormatDate(h.FechaEspecifica)
		if fecha == "" {
			fecha = "-"
		}
		cells := []string{diasSemana[h.DiaSemana], h.HoraInicio.String(), h.HoraFin.String(), fecha, flex, h.Observaciones}
		for i, c := range cells {
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			d.CellFormat(widths[i], 6, d.text(truncate(c, 45)), "1", ln, "L", false, 0, "")
		}
	}
}

func especialesText(s *model.SolicitudModel) string {
	var flags map[string]bool
	if len(s.ProgramasEspeciales) == 0 || sonic.Unmarshal(s.ProgramasEspeciales, &flags) != nil {
		return ""
	}
	var out []string
	for _, p := range programasEspecialesLabel {
		if flags[p.key] {
			out = append(out, p.label)
		}
	}
	return strings.Join(out, ", ")
}

func rango(a, b string) string {
	if a == "" && b == "" {
		return ""
	}
	if a == "" {
		a = "?"
	}
	if b == "" {
		b = "?"
	}
	return a + " a " + b
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
