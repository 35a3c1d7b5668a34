package centros

import (
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	centroModel "fichas_backend/internals/features/centros/model"
)

type CentroSeed struct {
	Nombre    string `json:"nombre"`
	Codigo    string `json:"codigo"`
	Ciudad    string `json:"ciudad"`
	Regional  string `json:"regional"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
}

// SeedCentrosFromJSON idempotent: centro dengan codigo yang sudah ada dilewati.
func SeedCentrosFromJSON(db *gorm.DB, filePath string) (int64, error) {
	log.Println("[INFO] Membaca file seed:", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, err
	}
	var seeds []CentroSeed
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return 0, err
	}
	return SeedCentros(db, seeds)
}

func SeedCentros(db *gorm.DB, seeds []CentroSeed) (int64, error) {
	rows := make([]centroModel.CentroModel, 0, len(seeds))
	for _, s := range seeds {
		codigo := strings.ToUpper(strings.TrimSpace(s.Codigo))
		if codigo == "" || strings.TrimSpace(s.Nombre) == "" {
			log.Printf("[WARN] seed centro tanpa nombre/codigo dilewati: %+v", s)
			continue
		}
		rows = append(rows, centroModel.CentroModel{
			Nombre:    strings.TrimSpace(s.Nombre),
			Codigo:    codigo,
			Ciudad:    s.Ciudad,
			Regional:  s.Regional,
			Direccion: s.Direccion,
			Telefono:  s.Telefono,
		})
	}
	if len(rows) == 0 {
		log.Println("[INFO] Tidak ada centro untuk diinsert.")
		return 0, nil
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "codigo"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	log.Printf("[SUCCESS] %d centro baru diinsert", res.RowsAffected)
	return res.RowsAffected, nil
}
