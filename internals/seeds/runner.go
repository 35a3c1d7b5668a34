package seeds

import (
	"log"

	"gorm.io/gorm"

	"fichas_backend/internals/configs"
	"fichas_backend/internals/seeds/centros"
	"fichas_backend/internals/seeds/users"
)

func RunAllSeeds(db *gorm.DB) error {
	//* Centro
	if _, err := centros.SeedCentrosFromJSON(db, configs.GetEnv("SEED_CENTROS_FILE", "internals/seeds/centros/data_centros.json")); err != nil {
		return err
	}

	//* Admin
	if _, err := users.SeedAdmin(db, users.AdminSeed{
		Email:    configs.GetEnv("SEED_ADMIN_EMAIL"),
		Password: configs.GetEnv("SEED_ADMIN_PASSWORD"),
		Nombre:   configs.GetEnv("SEED_ADMIN_NOMBRE"),
		Cedula:   configs.GetEnv("SEED_ADMIN_CEDULA"),
	}); err != nil {
		return err
	}

	log.Println("[SUCCESS] Seed selesai")
	return nil
}
