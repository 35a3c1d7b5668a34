package model

import "math"

// SolicitudStats dihitung dari koleksi solicitud yang sudah di-load (tidak di-cache).
type SolicitudStats struct {
	Total              int     `json:"total"`
	Aprobadas          int     `json:"aprobadas"`
	Pendientes         int     `json:"pendientes"` // PENDIENTE + EN_REVISION
	Rechazadas         int     `json:"rechazadas"`
	Borradores         int     `json:"borradores"`
	TasaAprobacion     float64 `json:"tasa_aprobacion"` // persen, 2 desimal
	TotalParticipantes int     `json:"total_participantes"`
}

func ComputeStats(rows []SolicitudModel) SolicitudStats {
	var s SolicitudStats
	for i := range rows {
		s.Total++
		switch rows[i].Estado {
		case EstadoAprobada:
			s.Aprobadas++
			s.TotalParticipantes += rows[i].NumeroInscritos
		case EstadoPendiente, EstadoEnRevision:
			s.Pendientes++
		case EstadoRechazada:
			s.Rechazadas++
		case EstadoBorrador:
			s.Borradores++
		}
	}
	s.TasaAprobacion = ApprovalRate(s.Aprobadas, s.Total)
	return s
}

func ApprovalRate(aprobadas, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(aprobadas)*10000/float64(total)) / 100
}

// GroupBy memecah koleksi per key (mis. instructor_id / programa_id).
func GroupBy[K comparable](rows []SolicitudModel, key func(*SolicitudModel) K) map[K][]SolicitudModel {
	out := make(map[K][]SolicitudModel)
	for i := range rows {
		k := key(&rows[i])
		out[k] = append(out[k], rows[i])
	}
	return out
}
