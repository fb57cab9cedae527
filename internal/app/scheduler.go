package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"go.uber.org/zap"
)

// Как часто чистим кэш и что считаем мусором
const (
	cachePruneInterval = 1 * time.Hour
	cacheMaxEntryAge   = 12 * time.Hour
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cache    *api.Cache
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(cache *api.Cache, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cache:    cache,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runCachePruneTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runCachePruneTask периодически выбрасывает из кэша давно не
// обновлявшиеся записи. Ключи доступности копятся по датам, и без
// чистки кэш долгоживущего бота растёт бесконечно.
func (s *Scheduler) runCachePruneTask(ctx context.Context) {
	ticker := time.NewTicker(cachePruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := s.cache.Prune(cacheMaxEntryAge)
			if removed > 0 {
				s.logger.Info("Pruned stale cache entries", zap.Int("removed", removed))
			}
		case <-s.stopChan:
			s.logger.Info("Cache prune task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Cache prune task cancelled")
			return
		}
	}
}
