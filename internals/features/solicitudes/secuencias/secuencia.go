package secuencias

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Tipo string

const (
	TipoSolicitud Tipo = "SOLICITUD"
	TipoFicha     Tipo = "FICHA"
)

// batas loncatan kandidat yang ternyata sudah dipakai (mis. ficha manual)
const maxSkips = 50

type SecuenciaModel struct {
	Anio  int  `gorm:"column:anio;primaryKey;autoIncrement:false"`
	Tipo  Tipo `gorm:"column:tipo;primaryKey;size:20"`
	Valor int  `gorm:"column:valor;not null"`
}

func (SecuenciaModel) TableName() string {
	return "secuencias"
}

func FormatCodigo(year, seq int) string { return fmt.Sprintf("SOL-%d-%03d", year, seq) }

func FormatFicha(year, seq int) string { return fmt.Sprintf("%d%04d", year, seq) }

// Next menaikkan counter (anio, tipo) secara atomik dan mengembalikan nilai barunya.
// Harus dipanggil di dalam transaksi: row lock dari upsert menserialisasi caller paralel
// sampai commit.
func Next(tx *gorm.DB, tipo Tipo, year int) (int, error) {
	if err := ensureSeeded(tx, tipo, year); err != nil {
		return 0, err
	}

	row := SecuenciaModel{Anio: year, Tipo: tipo, Valor: 1}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "anio"}, {Name: "tipo"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"valor": gorm.Expr("secuencias.valor + 1"),
		}),
	}).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("secuencia %s/%d: %w", tipo, year, err)
	}

	var valor int
	if err := tx.Model(&SecuenciaModel{}).
		Where("anio = ? AND tipo = ?", year, tipo).
		Select("valor").
		Scan(&valor).Error; err != nil {
		return 0, fmt.Errorf("secuencia %s/%d: %w", tipo, year, err)
	}
	return valor, nil
}

// ensureSeeded membuat baris counter bila belum ada, mulai dari nilai tertinggi
// yang sudah dipakai data lama di tahun itu.
func ensureSeeded(tx *gorm.DB, tipo Tipo, year int) error {
	var n int64
	if err := tx.Model(&SecuenciaModel{}).
		Where("anio = ? AND tipo = ?", year, tipo).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	start, err := highestExisting(tx, tipo, year)
	if err != nil {
		return err
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SecuenciaModel{Anio: year, Tipo: tipo, Valor: start}).Error
}

func highestExisting(tx *gorm.DB, tipo Tipo, year int) (int, error) {
	var (
		values []string
		err    error
	)
	switch tipo {
	case TipoSolicitud:
		prefix := fmt.Sprintf("SOL-%d-", year)
		err = tx.Table("solicitudes").
			Where("codigo LIKE ?", prefix+"%").
			Pluck("codigo", &values).Error
		if err != nil {
			return 0, err
		}
		return maxSuffix(values, func(v string) string { return strings.TrimPrefix(v, prefix) }), nil

	case TipoFicha:
		prefix := strconv.Itoa(year)
		err = tx.Table("solicitudes").
			Where("numero_ficha LIKE ?", prefix+"%").
			Pluck("numero_ficha", &values).Error
		if err != nil {
			return 0, err
		}
		// sufiks = 4 karakter terakhir
		return maxSuffix(values, func(v string) string {
			if len(v) < len(prefix)+4 {
				return ""
			}
			return v[len(v)-4:]
		}), nil

	default:
		return 0, fmt.Errorf("tipo de secuencia desconocido: %s", tipo)
	}
}

// maxSuffix membandingkan secara numerik; nilai yang tidak bisa di-parse diabaikan.
func maxSuffix(values []string, suffix func(string) string) int {
	max := 0
	for _, v := range values {
		n, err := strconv.Atoi(suffix(v))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// NextCodigo menghasilkan código solicitud berikutnya untuk tahun tsb.
func NextCodigo(tx *gorm.DB, year int) (string, error) {
	return nextFree(tx, TipoSolicitud, year, "codigo", FormatCodigo)
}

// NextFicha menghasilkan número de ficha berikutnya, melewati nomor yang sudah dipakai manual.
func NextFicha(tx *gorm.DB, year int) (string, error) {
	return nextFree(tx, TipoFicha, year, "numero_ficha", FormatFicha)
}

func nextFree(tx *gorm.DB, tipo Tipo, year int, column string, format func(int, int) string) (string, error) {
	for i := 0; i < maxSkips; i++ {
		seq, err := Next(tx, tipo, year)
		if err != nil {
			return "", err
		}
		candidate := format(year, seq)

		var taken int64
		if err := tx.Table("solicitudes").Where(column+" = ?", candidate).Count(&taken).Error; err != nil {
			return "", err
		}
		if taken == 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("secuencia %s/%d: sin valores libres tras %d intentos", tipo, year, maxSkips)
}
