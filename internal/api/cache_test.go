package api

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetch_CachesValue(t *testing.T) {
	cache := NewCache(time.Minute, zap.NewNop())
	var calls atomic.Int32

	fn := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	first, err := Fetch(context.Background(), cache, CacheKeyFacilityList, fn)
	require.NoError(t, err)
	assert.Equal(t, "value", first)

	// Свежая запись — повторный вызов не ходит за данными
	second, err := Fetch(context.Background(), cache, CacheKeyFacilityList, fn)
	require.NoError(t, err)
	assert.Equal(t, "value", second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetch_ErrorIsNotCached(t *testing.T) {
	cache := NewCache(time.Minute, zap.NewNop())
	var calls atomic.Int32

	_, err := Fetch(context.Background(), cache, CacheKeyFacilityList, func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "", errors.New("backend down")
	})
	require.Error(t, err)

	value, err := Fetch(context.Background(), cache, CacheKeyFacilityList, func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetch_StaleValueServedWhileRevalidating(t *testing.T) {
	cache := NewCache(time.Millisecond, zap.NewNop())

	_, err := Fetch(context.Background(), cache, CacheKeyFacilityList, func(ctx context.Context) (string, error) {
		return "stale", nil
	})
	require.NoError(t, err)

	// Ждём устаревания записи
	time.Sleep(5 * time.Millisecond)

	refreshed := make(chan struct{})
	value, err := Fetch(context.Background(), cache, CacheKeyFacilityList, func(ctx context.Context) (string, error) {
		defer close(refreshed)
		return "fresh", nil
	})
	require.NoError(t, err)

	// Устаревшее значение отдаётся сразу, обновление идёт в фоне
	assert.Equal(t, "stale", value)

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("background revalidation did not run")
	}

	assert.Eventually(t, func() bool {
		v, err := Fetch(context.Background(), cache, CacheKeyFacilityList, func(ctx context.Context) (string, error) {
			return "unexpected", nil
		})
		return err == nil && v == "fresh"
	}, time.Second, 5*time.Millisecond)
}

func TestInvalidate_ByPrefix(t *testing.T) {
	cache := NewCache(time.Minute, zap.NewNop())
	var facilityCalls, bookingCalls atomic.Int32

	fetchFacilities := func(ctx context.Context) (string, error) {
		facilityCalls.Add(1)
		return "facilities", nil
	}
	fetchBookings := func(ctx context.Context) (string, error) {
		bookingCalls.Add(1)
		return "bookings", nil
	}

	_, err := Fetch(context.Background(), cache, CacheKeyFacilityList, fetchFacilities)
	require.NoError(t, err)
	_, err = Fetch(context.Background(), cache, FacilityKey("fac-1"), fetchFacilities)
	require.NoError(t, err)
	_, err = Fetch(context.Background(), cache, UserBookingsKey(42), fetchBookings)
	require.NoError(t, err)

	// Сносим только площадки — бронирования остаются в кэше
	cache.Invalidate(CacheKeyFacilityList, CacheKeyFacility)

	_, err = Fetch(context.Background(), cache, CacheKeyFacilityList, fetchFacilities)
	require.NoError(t, err)
	_, err = Fetch(context.Background(), cache, FacilityKey("fac-1"), fetchFacilities)
	require.NoError(t, err)
	_, err = Fetch(context.Background(), cache, UserBookingsKey(42), fetchBookings)
	require.NoError(t, err)

	assert.Equal(t, int32(4), facilityCalls.Load())
	assert.Equal(t, int32(1), bookingCalls.Load())
}

func TestPrune_RemovesOldEntries(t *testing.T) {
	cache := NewCache(time.Minute, zap.NewNop())

	_, err := Fetch(context.Background(), cache, AvailabilityKey("fac-1", "2026-09-02"), func(ctx context.Context) (string, error) {
		return "slots", nil
	})
	require.NoError(t, err)
	_, err = Fetch(context.Background(), cache, AvailabilityKey("fac-1", "2026-09-03"), func(ctx context.Context) (string, error) {
		return "slots", nil
	})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	// Свежие записи переживают чистку
	assert.Equal(t, 0, cache.Prune(time.Minute))

	// Старше порога — удаляются
	assert.Equal(t, 2, cache.Prune(time.Millisecond))
	assert.Equal(t, 0, cache.Prune(time.Millisecond))
}

func TestPrune_KeepsRefreshingEntries(t *testing.T) {
	cache := NewCache(time.Millisecond, zap.NewNop())

	_, err := Fetch(context.Background(), cache, CacheKeyFacilityList, func(ctx context.Context) (string, error) {
		return "stale", nil
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	// Фоновая ревалидация зависла на медленном backend
	release := make(chan struct{})
	_, err = Fetch(context.Background(), cache, CacheKeyFacilityList, func(ctx context.Context) (string, error) {
		<-release
		return "fresh", nil
	})
	require.NoError(t, err)

	// Запись в процессе обновления не выбрасывается
	assert.Equal(t, 0, cache.Prune(time.Millisecond))
	close(release)
}
