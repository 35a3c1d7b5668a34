package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/configs"
	database "fichas_backend/internals/databases"
	scheduler "fichas_backend/internals/features/users/auth/scheduler"
	middlewares "fichas_backend/internals/middlewares"
	routes "fichas_backend/internals/route"
	routeDetails "fichas_backend/internals/route/details"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          middlewares.ErrorHandler,
		BodyLimit:             6 * 1024 * 1024, // import xlsx max 5MB + overhead multipart
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	if configs.GetEnvBool("DB_AUTO_MIGRATE") {
		if err := database.AutoMigrate(database.DSN()); err != nil {
			log.Fatalf("[ERROR] Migrasi gagal: %v", err)
		}
	}
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	deps := routeDetails.NewDeps(database.DB)

	// ⏱ scheduler setelah DB siap
	outboxCron, err := deps.Dispatcher.Start(configs.OutboxCron)
	if err != nil {
		log.Fatalf("[ERROR] jadwal outbox invalid (%s): %v", configs.OutboxCron, err)
	}
	cleanupCron, err := scheduler.StartBlacklistCleanupScheduler(deps.Blacklist, configs.BlacklistCleanupCron)
	if err != nil {
		log.Fatalf("[ERROR] jadwal cleanup invalid (%s): %v", configs.BlacklistCleanupCron, err)
	}

	routes.SetupRoutes(app, deps)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 60 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")
	go func() {
		log.Printf("[INFO] Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("[ERROR] server error: %v", err)
		}
	}()

	// graceful shutdown: stop cron, tutup server, tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] Shutting down...")

	<-outboxCron.Stop().Done()
	<-cleanupCron.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[WARN] shutdown: %v", err)
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
