package api

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cache клиентский кэш ответов API, ключ — запрос с параметрами.
// Свежие записи отдаются сразу; устаревшие тоже отдаются сразу, но
// запускают фоновую ревалидацию вместо жёсткой стены устаревания.
// Мутации инвалидируют затронутые ключи по префиксу.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	logger  *zap.Logger
}

type cacheEntry struct {
	value      any
	fetchedAt  time.Time
	refreshing bool
}

func NewCache(ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		logger:  logger,
	}
}

// Fetch возвращает значение из кэша или загружает его через fn.
// Для устаревшей записи возвращается её значение, а обновление
// выполняется в фоне; ошибка фоновой ревалидации только логируется.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok {
		value, valid := entry.value.(T)
		if valid {
			stale := time.Since(entry.fetchedAt) > c.ttl
			if stale && !entry.refreshing {
				entry.refreshing = true
				go c.revalidate(ctx, key, func(ctx context.Context) (any, error) {
					return fn(ctx)
				})
			}
			c.mu.Unlock()
			return value, nil
		}
	}
	c.mu.Unlock()

	value, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.store(key, value)
	return value, nil
}

// revalidate обновляет запись в фоне. Запрос отвязывается от контекста
// вызывающего — отмена исходного апдейта не должна ронять обновление.
func (c *Cache) revalidate(ctx context.Context, key string, fn func(context.Context) (any, error)) {
	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requestTimeout)
	defer cancel()

	value, err := fn(bgCtx)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		// Запись инвалидировали пока шла ревалидация — результат не нужен
		return
	}
	entry.refreshing = false

	if err != nil {
		c.logger.Warn("Background revalidation failed",
			zap.String("key", key),
			zap.Error(err))
		return
	}

	entry.value = value
	entry.fetchedAt = time.Now()
}

func (c *Cache) store(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		value:     value,
		fetchedAt: time.Now(),
	}
}

// Invalidate удаляет все записи с указанными префиксами ключей.
// Следующее чтение уйдёт на backend.
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Prune удаляет записи старше maxAge и возвращает их количество.
// Устаревшие, но ещё живые записи не трогаются — они нужны для
// stale-ответов. Чистка нужна долгоживущему процессу: ключи
// доступности накапливаются по датам.
func (c *Cache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if time.Since(entry.fetchedAt) > maxAge && !entry.refreshing {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Ключи кэша
const (
	CacheKeyFacilityList = "facility:list"
	CacheKeyFacility     = "facility:one:"      // + facilityID
	CacheKeyAvailability = "availability:"      // + facilityID:date
	CacheKeyAllBookings  = "bookings:all"
	CacheKeyUserBookings = "bookings:user:"     // + chatID
)

// FacilityKey ключ кэша одной площадки
func FacilityKey(id string) string {
	return CacheKeyFacility + id
}

// AvailabilityKey ключ кэша доступности на дату
func AvailabilityKey(facilityID, date string) string {
	return fmt.Sprintf("%s%s:%s", CacheKeyAvailability, facilityID, date)
}

// UserBookingsKey ключ кэша бронирований пользователя
func UserBookingsKey(chatID int64) string {
	return fmt.Sprintf("%s%d", CacheKeyUserBookings, chatID)
}
