package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookingService(t *testing.T, handler http.Handler) *BookingService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, zap.NewNop())
	cache := api.NewCache(time.Minute, zap.NewNop())
	return NewBookingService(client, cache, zap.NewNop())
}

func availabilityEnvelope(w http.ResponseWriter) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data": []map[string]any{
			{"startTime": "10:00", "endTime": "11:00", "isBooked": false},
			{"startTime": "11:00", "endTime": "12:00", "isBooked": true},
		},
	})
}

func bookingEnvelope(w http.ResponseWriter, id string) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data": map[string]any{
			"_id":           id,
			"date":          "2026-09-02",
			"startTime":     "10:00",
			"endTime":       "11:00",
			"payableAmount": 500,
			"isBooked":      "unconfirmed",
		},
	})
}

func TestBookingService_AvailabilityCachedPerDate(t *testing.T) {
	var hits atomic.Int32
	svc := newBookingService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		availabilityEnvelope(w)
	}))

	auth := &api.Auth{AccessToken: "token"}

	slots, err := svc.Availability(context.Background(), auth, "fac-1", "2026-09-02")
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// Тот же день — из кэша, другой день — отдельный ключ
	_, err = svc.Availability(context.Background(), auth, "fac-1", "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	_, err = svc.Availability(context.Background(), auth, "fac-1", "2026-09-03")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestBookingService_CreateInvalidatesBookedDate(t *testing.T) {
	var availabilityHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /check-availability", func(w http.ResponseWriter, r *http.Request) {
		availabilityHits.Add(1)
		availabilityEnvelope(w)
	})
	mux.HandleFunc("POST /bookings", func(w http.ResponseWriter, r *http.Request) {
		bookingEnvelope(w, "booking-1")
	})

	svc := newBookingService(t, mux)
	auth := &api.Auth{AccessToken: "token"}

	_, err := svc.Availability(context.Background(), auth, "fac-1", "2026-09-02")
	require.NoError(t, err)
	_, err = svc.Availability(context.Background(), auth, "fac-2", "2026-09-02")
	require.NoError(t, err)
	require.Equal(t, int32(2), availabilityHits.Load())

	booking, err := svc.Create(context.Background(), auth, api.BookingData{
		Facility:  "fac-1",
		Date:      "2026-09-02",
		StartTime: "10:00",
		EndTime:   "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "booking-1", booking.ID)

	// Забронированная дата перечитывается, чужая площадка остаётся в кэше
	_, err = svc.Availability(context.Background(), auth, "fac-1", "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, int32(3), availabilityHits.Load())

	_, err = svc.Availability(context.Background(), auth, "fac-2", "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, int32(3), availabilityHits.Load())
}

func TestBookingService_CancelInvalidatesAllAvailability(t *testing.T) {
	var availabilityHits, listHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /check-availability", func(w http.ResponseWriter, r *http.Request) {
		availabilityHits.Add(1)
		availabilityEnvelope(w)
	})
	mux.HandleFunc("GET /bookings/user", func(w http.ResponseWriter, r *http.Request) {
		listHits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{},
		})
	})
	mux.HandleFunc("DELETE /bookings/booking-1", func(w http.ResponseWriter, r *http.Request) {
		bookingEnvelope(w, "booking-1")
	})

	svc := newBookingService(t, mux)
	auth := &api.Auth{AccessToken: "token"}

	_, err := svc.Availability(context.Background(), auth, "fac-1", "2026-09-02")
	require.NoError(t, err)
	_, err = svc.Availability(context.Background(), auth, "fac-2", "2026-09-05")
	require.NoError(t, err)
	_, err = svc.My(context.Background(), auth, 42)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), auth, "booking-1")
	require.NoError(t, err)

	// Отмена может освободить слоты где угодно — сбрасывается вся доступность
	_, err = svc.Availability(context.Background(), auth, "fac-1", "2026-09-02")
	require.NoError(t, err)
	_, err = svc.Availability(context.Background(), auth, "fac-2", "2026-09-05")
	require.NoError(t, err)
	assert.Equal(t, int32(4), availabilityHits.Load())

	_, err = svc.My(context.Background(), auth, 42)
	require.NoError(t, err)
	assert.Equal(t, int32(2), listHits.Load())
}
