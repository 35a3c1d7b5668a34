package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	programaModel "fichas_backend/internals/features/programas/model"
	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	solService "fichas_backend/internals/features/solicitudes/solicitudes/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
	"fichas_backend/internals/helpers/dbtime"
)

const topProgramasLimit = 5

type ProgramaCount struct {
	ProgramaID uuid.UUID `json:"programa_id"`
	Codigo     string    `json:"codigo"`
	Nombre     string    `json:"nombre"`
	Total      int       `json:"total"`
	Aprobadas  int       `json:"aprobadas"`
}

type DashboardStats struct {
	model.SolicitudStats
	PorEstado    map[model.Estado]int `json:"por_estado"`
	EsteAnio     int                  `json:"este_anio"`
	Anio         int                  `json:"anio"`
	TopProgramas []ProgramaCount      `json:"top_programas"`
}

type DashboardService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db, Now: time.Now}
}

// Stats dihitung dari solicitud dalam scope actor, selalu fresh.
func (s *DashboardService) Stats(ctx context.Context, sess *helperAuth.Session) (*DashboardStats, error) {
	var rows []model.SolicitudModel
	q := solService.ApplyScope(s.DB.WithContext(ctx).Model(&model.SolicitudModel{}), sess)
	if err := q.Select("id", "estado", "programa_id", "numero_inscritos", "created_at").
		Find(&rows).Error; err != nil {
		return nil, helper.ErrInternal("muat statistik dashboard", err)
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	year := dbtime.Year(now)

	out := &DashboardStats{
		SolicitudStats: model.ComputeStats(rows),
		PorEstado:      make(map[model.Estado]int, len(model.AllEstados)),
		Anio:           year,
		TopProgramas:   []ProgramaCount{},
	}
	for _, e := range model.AllEstados {
		out.PorEstado[e] = 0
	}
	for i := range rows {
		out.PorEstado[rows[i].Estado]++
		if dbtime.Year(rows[i].CreatedAt) == year {
			out.EsteAnio++
		}
	}

	byPrograma := model.GroupBy(rows, func(m *model.SolicitudModel) uuid.UUID { return m.ProgramaID })
	counts := make([]ProgramaCount, 0, len(byPrograma))
	for pid, group := range byPrograma {
		st := model.ComputeStats(group)
		counts = append(counts, ProgramaCount{ProgramaID: pid, Total: st.Total, Aprobadas: st.Aprobadas})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Total != counts[j].Total {
			return counts[i].Total > counts[j].Total
		}
		return counts[i].ProgramaID.String() < counts[j].ProgramaID.String()
	})
	if len(counts) > topProgramasLimit {
		counts = counts[:topProgramasLimit]
	}

	if len(counts) > 0 {
		ids := make([]uuid.UUID, 0, len(counts))
		for _, c := range counts {
			ids = append(ids, c.ProgramaID)
		}
		var progs []programaModel.ProgramaModel
		if err := s.DB.WithContext(ctx).Select("id", "codigo", "nombre").Where("id IN ?", ids).Find(&progs).Error; err != nil {
			return nil, helper.ErrInternal("muat nama programa", err)
		}
		names := make(map[uuid.UUID]programaModel.ProgramaModel, len(progs))
		for _, p := range progs {
			names[p.ID] = p
		}
		for i := range counts {
			p := names[counts[i].ProgramaID]
			counts[i].Codigo, counts[i].Nombre = p.Codigo, p.Nombre
		}
		out.TopProgramas = counts
	}
	return out, nil
}
