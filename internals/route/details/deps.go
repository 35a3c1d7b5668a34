package details

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"fichas_backend/internals/configs"
	notifService "fichas_backend/internals/features/notificaciones/service"
	exportService "fichas_backend/internals/features/solicitudes/exports/service"
	helperAuth "fichas_backend/internals/helpers/auth"
	helperOSS "fichas_backend/internals/helpers/oss"
	authMiddleware "fichas_backend/internals/middlewares/auth"
)

// Deps = objek bersama yang dipakai lintas route (token, blacklist, outbox, auth middleware).
type Deps struct {
	DB         *gorm.DB
	Tokens     *helperAuth.TokenManager
	Blacklist  *helperAuth.Blacklist
	Dispatcher *notifService.Dispatcher
	Archive    exportService.Archiver
	AuthMW     fiber.Handler
}

func NewDeps(db *gorm.DB) *Deps {
	tm := helperAuth.NewTokenManager(configs.JWTSecret, configs.JWTTTL)
	bl := helperAuth.NewBlacklist(db, configs.JWTSecret)
	d := &Deps{
		DB:         db,
		Tokens:     tm,
		Blacklist:  bl,
		Dispatcher: notifService.NewDispatcher(db),
		AuthMW:     authMiddleware.AuthMiddleware(db, tm, bl),
	}

	// archive hanya di-set kalau OSS terkonfigurasi (hindari interface berisi nil pointer)
	oss, err := helperOSS.NewOSSServiceFromEnv(configs.ExportArchivePrefix)
	switch {
	case err == nil && oss != nil:
		d.Archive = oss
		log.Println("[INFO] Archivo de exportaciones en OSS activo")
	case err != nil && !errors.Is(err, helperOSS.ErrNotConfigured):
		log.Printf("[WARN] OSS tidak bisa dipakai, export tanpa arsip: %v", err)
	}
	return d
}
