package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/s0-shady/Task-Manager-django/internal/logger"
)

// HandleLister отдаёт хэндлы файлов, на которые ссылаются строки вложений
type HandleLister interface {
	ListHandles(ctx context.Context) ([]string, error)
}

// FileWalker - обход и удаление файлов хранилища
type FileWalker interface {
	Walk(fn func(handle string, modTime time.Time) error) error
	Delete(handle string) error
}

// OrphanSweeper периодически удаляет файлы, на которые не ссылается ни
// одна строка вложений. Такие файлы появляются, когда удаление строки
// прошло, а удаление файла - нет, либо после сбоя между записью файла
// и фиксацией строки. Файлы моложе интервала уборки не трогаются:
// запись файла происходит до вставки строки, и свежий файл может быть
// вложением, строка которого ещё не зафиксирована.
type OrphanSweeper struct {
	attachments HandleLister
	files       FileWalker
	interval    time.Duration
	batchSize   int
}

func NewOrphanSweeper(attachments HandleLister, files FileWalker, interval *time.Duration, batchSize *int) *OrphanSweeper {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = time.Hour
	} else {
		intervalToSet = *interval
	}

	var batchToSet int
	if batchSize == nil {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}

	return &OrphanSweeper{
		attachments: attachments,
		files:       files,
		interval:    intervalToSet,
		batchSize:   batchToSet,
	}
}

func (w *OrphanSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая уборка осиротевших файлов", zap.Time("started_at", time.Now()))
			w.Sweep(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая уборка останавливается")
			return
		}
	}
}

// Sweep выполняет один проход уборки
func (w *OrphanSweeper) Sweep(ctx context.Context) {
	start := time.Now()

	referenced, err := w.getReferencedHandles(ctx)
	if err != nil {
		logger.Warn("Worker: ошибка получения вложений", zap.Error(err))
		return
	}

	removed := 0
	checked := 0
	cutoff := time.Now().Add(-w.interval)

	err = w.files.Walk(func(handle string, modTime time.Time) error {
		checked++
		if _, ok := referenced[handle]; ok {
			return nil
		}

		// свежий файл без строки - возможно вложение в процессе создания
		if modTime.After(cutoff) {
			return nil
		}

		if removed >= w.batchSize {
			return nil
		}

		if err := w.files.Delete(handle); err != nil {
			logger.Warn("Worker: Ошибка удаления файла", zap.Error(err), zap.String("file", handle))
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		logger.Warn("Worker: ошибка обхода хранилища", zap.Error(err))
	}

	logger.Info(
		"Worker: Завершение уборки файлов",
		zap.Duration("ms", time.Since(start)),
		zap.Int("checked", checked),
		zap.Int("removed", removed),
	)
}

func (w *OrphanSweeper) getReferencedHandles(ctx context.Context) (map[string]struct{}, error) {
	handles, err := w.attachments.ListHandles(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение хэндлов вложений: %w", err)
	}

	referenced := make(map[string]struct{}, len(handles))
	for _, h := range handles {
		referenced[h] = struct{}{}
	}
	return referenced, nil
}
