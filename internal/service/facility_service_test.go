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

func facilityJSON(id, name string, deleted bool) map[string]any {
	return map[string]any{
		"_id":          id,
		"name":         name,
		"description":  "Описание",
		"pricePerHour": 500,
		"location":     "Центр",
		"isDeleted":    deleted,
	}
}

func newFacilityService(t *testing.T, handler http.Handler) (*FacilityService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL, zap.NewNop())
	cache := api.NewCache(time.Minute, zap.NewNop())
	return NewFacilityService(client, cache, zap.NewNop()), server
}

func TestFacilityService_ListFiltersDeleted(t *testing.T) {
	svc, _ := newFacilityService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				facilityJSON("fac-1", "Поле №1", false),
				facilityJSON("fac-2", "Поле №2", true),
				facilityJSON("fac-3", "Корт", false),
			},
		})
	}))

	facilities, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, facilities, 2)
	assert.Equal(t, "fac-1", facilities[0].ID)
	assert.Equal(t, "fac-3", facilities[1].ID)
}

func TestFacilityService_ListIsCached(t *testing.T) {
	var hits atomic.Int32
	svc, _ := newFacilityService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{facilityJSON("fac-1", "Поле №1", false)},
		})
	}))

	_, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
}

func TestFacilityService_CreateInvalidatesList(t *testing.T) {
	var listHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("GET /facility", func(w http.ResponseWriter, r *http.Request) {
		listHits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{facilityJSON("fac-1", "Поле №1", false)},
		})
	})
	mux.HandleFunc("POST /facility", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    facilityJSON("fac-2", "Новое поле", false),
		})
	})

	svc, _ := newFacilityService(t, mux)

	_, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, int32(1), listHits.Load())

	_, err = svc.Create(context.Background(), &api.Auth{AccessToken: "token"}, api.FacilityData{
		Name:         "Новое поле",
		Description:  "Описание",
		PricePerHour: 700,
		Location:     "Центр",
	})
	require.NoError(t, err)

	// После мутации список перечитывается с сервера
	_, err = svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), listHits.Load())
}

func TestFacilityService_CreateValidation(t *testing.T) {
	svc, _ := newFacilityService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid facility must not reach backend")
	}))

	cases := []struct {
		name string
		data api.FacilityData
	}{
		{"без названия", api.FacilityData{Description: "Описание", Location: "Центр", PricePerHour: 500}},
		{"без описания", api.FacilityData{Name: "Поле", Location: "Центр", PricePerHour: 500}},
		{"без адреса", api.FacilityData{Name: "Поле", Description: "Описание", PricePerHour: 500}},
		{"нулевая цена", api.FacilityData{Name: "Поле", Description: "Описание", Location: "Центр"}},
		{"отрицательная цена", api.FacilityData{Name: "Поле", Description: "Описание", Location: "Центр", PricePerHour: -100}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &api.Auth{AccessToken: "token"}, tc.data)
			assert.Error(t, err)
		})
	}
}
