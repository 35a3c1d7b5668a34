package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"fichas_backend/internals/configs"
	database "fichas_backend/internals/databases"
	"fichas_backend/internals/seeds"
)

const usage = `uso: migrator <comando>

comandos:
  up       aplica todas las migraciones pendientes
  down     revierte la última migración
  status   muestra el estado de cada migración
  version  muestra la versión actual
  seed     carga centros y el administrador inicial
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cmd := flag.Arg(0)

	configs.LoadEnv()

	if cmd == "seed" {
		database.ConnectDB()
		if err := seeds.RunAllSeeds(database.DB); err != nil {
			log.Fatalf("[ERROR] seed: %v", err)
		}
		return
	}

	db, err := database.OpenSQL(database.DSN())
	if err != nil {
		log.Fatalf("[ERROR] buka koneksi: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cmd); err != nil {
		log.Fatalf("[ERROR] migrator %s: %v", cmd, err)
	}
	log.Printf("[SUCCESS] migrator %s selesai", cmd)
}
