package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	solDTO "fichas_backend/internals/features/solicitudes/solicitudes/dto"
	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	solService "fichas_backend/internals/features/solicitudes/solicitudes/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
	"fichas_backend/internals/helpers/dbtime"
)

const (
	FormatPDF   = "pdf"
	FormatExcel = "excel"

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Archiver menyimpan salinan dokumen export (mis. Alibaba OSS).
type Archiver interface {
	Archive(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	ArchiveURL  string
}

type ExportService struct {
	Solicitudes *solService.SolicitudService
	Archive     Archiver // nil = tanpa arsip
	Now         func() time.Time
}

func NewExportService(sol *solService.SolicitudService, archive Archiver) *ExportService {
	return &ExportService{Solicitudes: sol, Archive: archive, Now: time.Now}
}

func (s *ExportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ParseFormat: kosong = pdf.
func ParseFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatExcel, "xlsx":
		return FormatExcel, nil
	default:
		return "", &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "Formato no soportado, use pdf o excel",
			Fields:  map[string][]string{"format": {"oneof=pdf excel"}},
		}
	}
}

// ExportOne: satu solicitud (scope sama dengan Get).
func (s *ExportService) ExportOne(ctx context.Context, sess *helperAuth.Session, id uuid.UUID, format string) (*Document, error) {
	m, err := s.Solicitudes.GetDetail(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, []model.SolicitudModel{*m}, format, "solicitud_"+m.Codigo)
}

// ExportAll: semua solicitud dalam scope actor; 404 bila kosong.
func (s *ExportService) ExportAll(ctx context.Context, sess *helperAuth.Session, f solDTO.ListFilter, format string) (*Document, error) {
	rows, err := s.Solicitudes.ListAll(ctx, sess, f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, helper.ErrNotFound("No hay solicitudes para exportar")
	}
	name := "solicitudes_" + s.now().In(dbtime.Location()).Format("20060102_1504")
	return s.render(ctx, rows, format, name)
}

func (s *ExportService) render(ctx context.Context, rows []model.SolicitudModel, format, baseName string) (*Document, error) {
	now := s.now()
	doc := &Document{}
	var err error
	switch format {
	case FormatExcel:
		doc.Data, err = BuildWorkbook(rows, now)
		doc.ContentType = contentTypeXLSX
		doc.Filename = baseName + ".xlsx"
	default:
		doc.Data, err = BuildPDF(rows, now)
		doc.ContentType = contentTypePDF
		doc.Filename = baseName + ".pdf"
	}
	if err != nil {
		return nil, helper.ErrInternal("generar documento "+format, err)
	}

	if s.Archive != nil {
		url, err := s.Archive.Archive(ctx, doc.Filename, doc.ContentType, doc.Data)
		if err != nil {
			log.Printf("[WARN] arsip export %s gagal: %v", doc.Filename, err)
		} else {
			doc.ArchiveURL = url
		}
	}
	return doc, nil
}
