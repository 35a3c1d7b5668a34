package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// OpenSQL membuka koneksi database/sql (lib/pq) khusus untuk goose.
func OpenSQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func setupGoose() error {
	goose.SetBaseFS(migrationsFS)
	return goose.SetDialect("postgres")
}

// Migrate menjalankan perintah goose: up | down | status | version.
func Migrate(db *sql.DB, command string) error {
	if err := setupGoose(); err != nil {
		return err
	}
	switch command {
	case "up":
		return goose.Up(db, migrationsDir)
	case "down":
		return goose.Down(db, migrationsDir)
	case "status":
		return goose.Status(db, migrationsDir)
	case "version":
		return goose.Version(db, migrationsDir)
	default:
		return fmt.Errorf("comando de migración desconocido: %s", command)
	}
}

// AutoMigrate dipanggil saat boot bila DB_AUTO_MIGRATE=true.
func AutoMigrate(dsn string) error {
	db, err := OpenSQL(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := Migrate(db, "up"); err != nil {
		return err
	}
	log.Println("[SUCCESS] Migraciones aplicadas")
	return nil
}
