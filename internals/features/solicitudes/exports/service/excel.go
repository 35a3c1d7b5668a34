package service

import (
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	"fichas_backend/internals/helpers/dbtime"
)

const (
	sheetResumen       = "Resumen"
	sheetSolicitudes   = "Solicitudes"
	sheetPorCentro     = "Por Centro"
	sheetPorInstructor = "Por Instructor"
)

var solicitudesHeader = []interface{}{
	"Código", "Ficha", "Estado", "Programa", "Centro", "Instructor", "Cédula instructor",
	"Modalidad", "Duración (h)", "Cupo", "Inscritos", "Responsable", "Empresa", "Municipio",
	"Fecha inicio", "Fecha fin", "Fecha aprobación", "Comentarios", "Creada",
}

var statsHeader = []interface{}{
	"Nombre", "Total", "Aprobadas", "Pendientes", "Rechazadas", "Borradores", "Tasa aprobación (%)", "Participantes",
}

// BuildWorkbook menyusun workbook export dengan empat sheet.
func BuildWorkbook(rows []model.SolicitudModel, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetResumen); err != nil {
		return nil, err
	}
	for _, name := range []string{sheetSolicitudes, sheetPorCentro, sheetPorInstructor} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#39A900"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	if err := writeResumen(f, header, rows, generatedAt); err != nil {
		return nil, err
	}
	if err := writeSolicitudes(f, header, rows); err != nil {
		return nil, err
	}

	porCentro := model.GroupBy(rows, func(m *model.SolicitudModel) string {
		if m.Centro != nil {
			return m.Centro.Nombre
		}
		return m.CentroID.String()
	})
	if err := writeGrouped(f, header, sheetPorCentro, "Centro", porCentro); err != nil {
		return nil, err
	}
	porInstructor := model.GroupBy(rows, func(m *model.SolicitudModel) string {
		if m.Instructor != nil {
			return m.Instructor.Nombre
		}
		return m.InstructorID.String()
	})
	if err := writeGrouped(f, header, sheetPorInstructor, "Instructor", porInstructor); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeResumen(f *excelize.File, header int, rows []model.SolicitudModel, generatedAt time.Time) error {
	st := model.ComputeStats(rows)
	data := [][]interface{}{
		{"Indicador", "Valor"},
		{"Generado", generatedAt.In(dbtime.Location()).Format("2006-01-02 15:04")},
		{"Total solicitudes", st.Total},
		{"Aprobadas", st.Aprobadas},
		{"Pendientes / en revisión", st.Pendientes},
		{"Rechazadas", st.Rechazadas},
		{"Borradores", st.Borradores},
		{"Tasa de aprobación (%)", st.TasaAprobacion},
		{"Total participantes", st.TotalParticipantes},
	}
	for i, r := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := r
		if err := f.SetSheetRow(sheetResumen, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetResumen, "A1", "B1", header); err != nil {
		return err
	}
	return f.SetColWidth(sheetResumen, "A", "B", 28)
}

func writeSolicitudes(f *excelize.File, header int, rows []model.SolicitudModel) error {
	hdr := solicitudesHeader
	if err := f.SetSheetRow(sheetSolicitudes, "A1", &hdr); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(solicitudesHeader), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSolicitudes, "A1", last, header); err != nil {
		return err
	}

	for i := range rows {
		s := &rows[i]
		var programa, centro, instructor, cedula, aprobacion string
		if s.Programa != nil {
			programa = s.Programa.Nombre
		}
		if s.Centro != nil {
			centro = s.Centro.Nombre
		}
		if s.Instructor != nil {
			instructor = s.Instructor.Nombre
			cedula = s.Instructor.Cedula
		}
		if s.FechaAprobacion != nil {
			aprobacion = s.FechaAprobacion.In(dbtime.Location()).Format("2006-01-02")
		}
		row := []interface{}{
			s.Codigo, deref(s.NumeroFicha), string(s.Estado), programa, centro, instructor, cedula,
			s.Modalidad, s.DuracionHoras, s.CupoMaximo, s.NumeroInscritos, s.ResponsableNombre,
			deref(s.EmpresaNombre), deref(s.Municipio),
			dbtime.FormatDate(s.FechaInicio), dbtime.FormatDate(s.FechaFin), aprobacion,
			deref(s.ComentariosRevision), s.CreatedAt.In(dbtime.Location()).Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSolicitudes, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetSolicitudes, "A", "S", 18)
}

func writeGrouped(f *excelize.File, header int, sheet, label string, groups map[string][]model.SolicitudModel) error {
	hdr := append([]interface{}{label}, statsHeader[1:]...)
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "H1", header); err != nil {
		return err
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		st := model.ComputeStats(groups[k])
		row := []interface{}{k, st.Total, st.Aprobadas, st.Pendientes, st.Rechazadas, st.Borradores, st.TasaAprobacion, st.TotalParticipantes}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 36); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "H", 16)
}
