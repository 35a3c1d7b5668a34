package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fichas_backend/internals/features/notificaciones/model"
)

const (
	defaultBatchSize = 100
	maxIntentos      = 10
)

var errAlreadyDispatched = errors.New("outbox ya despachado")

// Enqueue menulis intent notifikasi ke outbox. Wajib dipanggil dengan tx milik
// operasi yang memicu notifikasi supaya ikut commit/rollback bersama.
func Enqueue(tx *gorm.DB, tipo string, p model.OutboxPayload) (uuid.UUID, error) {
	if len(p.Destinatarios) == 0 {
		return uuid.Nil, nil
	}
	raw, err := sonic.Marshal(p)
	if err != nil {
		return uuid.Nil, err
	}
	row := model.OutboxModel{
		Tipo:    tipo,
		Payload: datatypes.JSON(raw),
	}
	if err := tx.Create(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

// Dispatcher mengubah baris outbox menjadi notificaciones (idempoten per baris outbox).
type Dispatcher struct {
	DB        *gorm.DB
	Now       func() time.Time
	BatchSize int
}

func NewDispatcher(db *gorm.DB) *Dispatcher {
	return &Dispatcher{DB: db, Now: time.Now, BatchSize: defaultBatchSize}
}

func (d *Dispatcher) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// DispatchPending memproses outbox yang belum terkirim. Tanpa ids: sapu semua yang tertunda.
// Error per baris dicatat di baris itu (intentos, ultimo_error) dan tidak menghentikan batch.
func (d *Dispatcher) DispatchPending(ctx context.Context, ids ...uuid.UUID) (int, error) {
	var pending []model.OutboxModel
	q := d.DB.WithContext(ctx).
		Where("despachado_at IS NULL AND intentos < ?", maxIntentos).
		Order("created_at ASC")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	} else {
		batch := d.BatchSize
		if batch <= 0 {
			batch = defaultBatchSize
		}
		q = q.Limit(batch)
	}
	if err := q.Find(&pending).Error; err != nil {
		return 0, err
	}

	sent := 0
	for i := range pending {
		err := d.dispatchOne(ctx, &pending[i])
		switch {
		case err == nil:
			sent++
		case errors.Is(err, errAlreadyDispatched):
		default:
			log.Printf("[ERROR] dispatch outbox %s: %v", pending[i].ID, err)
			d.recordFailure(ctx, pending[i].ID, err)
		}
	}
	return sent, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, row *model.OutboxModel) error {
	var p model.OutboxPayload
	if err := sonic.Unmarshal(row.Payload, &p); err != nil {
		return fmt.Errorf("payload inválido: %w", err)
	}

	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// klaim baris dulu; pemanggil paralel akan dapat 0 rows
		now := d.now()
		res := tx.Model(&model.OutboxModel{}).
			Where("id = ? AND despachado_at IS NULL", row.ID).
			Update("despachado_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyDispatched
		}

		outboxID := row.ID
		notifs := make([]model.NotificacionModel, 0, len(p.Destinatarios))
		for _, uid := range p.Destinatarios {
			notifs = append(notifs, model.NotificacionModel{
				Tipo:        row.Tipo,
				Titulo:      p.Titulo,
				Mensaje:     p.Mensaje,
				UsuarioID:   uid,
				SolicitudID: p.SolicitudID,
				OutboxID:    &outboxID,
			})
		}
		if len(notifs) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}, {Name: "usuario_id"}},
			DoNothing: true,
		}).Create(&notifs).Error
	})
}

func (d *Dispatcher) recordFailure(ctx context.Context, id uuid.UUID, cause error) {
	msg := cause.Error()
	if err := d.DB.WithContext(ctx).
		Model(&model.OutboxModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"intentos":     gorm.Expr("intentos + 1"),
			"ultimo_error": msg,
		}).Error; err != nil {
		log.Printf("[ERROR] catat kegagalan outbox %s: %v", id, err)
	}
}

// Start menjadwalkan sapuan outbox berkala (robfig/cron).
func (d *Dispatcher) Start(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := d.DispatchPending(ctx)
		if err != nil {
			log.Printf("[ERROR] outbox sweep: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[INFO] outbox sweep: %d despachados", n)
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[INFO] outbox dispatcher dijadwalkan: %s", spec)
	return c, nil
}
