package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	helperAuth "fichas_backend/internals/helpers/auth"
)

// StartBlacklistCleanupScheduler hard-delete token_blacklist yang sudah kedaluwarsa sesuai jadwal cron.
func StartBlacklistCleanupScheduler(bl *helperAuth.Blacklist, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() { RunBlacklistCleanup(bl) }); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[INFO] blacklist cleanup dijadwalkan: %s", spec)
	return c, nil
}

func RunBlacklistCleanup(bl *helperAuth.Blacklist) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := bl.PurgeExpired(ctx)
	if err != nil {
		log.Printf("[CLEANUP ERROR] Gagal hapus token kadaluarsa: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[CLEANUP] %d token kadaluarsa dihapus", n)
	}
}
