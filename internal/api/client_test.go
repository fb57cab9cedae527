package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okEnvelope(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    json.RawMessage(raw),
	})
}

func errorEnvelope(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}

func TestClient_AttachesAuthAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/check-availability", r.URL.Path)
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "2026-09-02", r.URL.Query().Get("date"))
		assert.Equal(t, "fac-1", r.URL.Query().Get("facility"))

		okEnvelope(t, w, []map[string]any{
			{"startTime": "10:00", "endTime": "11:00", "isBooked": false},
			{"startTime": "11:00", "endTime": "12:00", "isBooked": true},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	auth := &Auth{AccessToken: "access-token"}

	slots, err := client.CheckAvailability(context.Background(), auth, "fac-1", "2026-09-02")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "10:00", slots[0].StartTime)
	assert.True(t, slots[1].IsBooked)
}

func TestClient_RefreshesTokenAndRetriesOn401(t *testing.T) {
	var protectedHits, refreshHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/check-availability", func(w http.ResponseWriter, r *http.Request) {
		protectedHits.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			errorEnvelope(w, http.StatusUnauthorized, "jwt expired")
			return
		}
		okEnvelope(t, w, []map[string]any{
			{"startTime": "10:00", "endTime": "11:00", "isBooked": false},
		})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshHits.Add(1)

		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-token", body.RefreshToken)

		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "fresh-token"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	var savedToken string
	client := NewClient(server.URL, zap.NewNop())
	auth := &Auth{
		AccessToken:  "stale-token",
		RefreshToken: "refresh-token",
		OnToken: func(ctx context.Context, accessToken string) error {
			savedToken = accessToken
			return nil
		},
		OnExpired: func(ctx context.Context) error {
			t.Fatal("session must not be cleared on successful refresh")
			return nil
		},
	}

	slots, err := client.CheckAvailability(context.Background(), auth, "fac-1", "2026-09-02")
	require.NoError(t, err)
	require.Len(t, slots, 1)

	// Повтор прозрачен для вызывающего: исходный + один retry
	assert.Equal(t, int32(2), protectedHits.Load())
	assert.Equal(t, int32(1), refreshHits.Load())
	assert.Equal(t, "fresh-token", savedToken)
	assert.Equal(t, "fresh-token", auth.AccessToken)
}

func TestClient_NoRefreshTokenClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errorEnvelope(w, http.StatusUnauthorized, "jwt expired")
	}))
	defer server.Close()

	expired := false
	client := NewClient(server.URL, zap.NewNop())
	auth := &Auth{
		AccessToken: "stale-token",
		OnExpired: func(ctx context.Context) error {
			expired = true
			return nil
		},
	}

	_, err := client.UserBookings(context.Background(), auth)
	require.Error(t, err)
	assert.True(t, IsSessionExpired(err))
	assert.True(t, expired)
}

func TestClient_RefreshFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/user", func(w http.ResponseWriter, r *http.Request) {
		errorEnvelope(w, http.StatusUnauthorized, "jwt expired")
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		errorEnvelope(w, http.StatusUnauthorized, "invalid refresh token")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	expired := false
	client := NewClient(server.URL, zap.NewNop())
	auth := &Auth{
		AccessToken:  "stale-token",
		RefreshToken: "revoked-token",
		OnExpired: func(ctx context.Context) error {
			expired = true
			return nil
		},
	}

	_, err := client.UserBookings(context.Background(), auth)
	require.Error(t, err)
	assert.True(t, IsSessionExpired(err))
	assert.True(t, expired)
}

func TestClient_RetriesAtMostOnce(t *testing.T) {
	var protectedHits, refreshHits atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/user", func(w http.ResponseWriter, r *http.Request) {
		// Даже свежий токен не помогает: например, пользователь удалён
		protectedHits.Add(1)
		errorEnvelope(w, http.StatusUnauthorized, "user not found")
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshHits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "fresh-token"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	auth := &Auth{AccessToken: "stale-token", RefreshToken: "refresh-token"}

	_, err := client.UserBookings(context.Background(), auth)
	require.Error(t, err)

	// Второй 401 уже не запускает restore — отдаётся как обычная ошибка
	assert.False(t, IsSessionExpired(err))
	assert.Equal(t, int32(2), protectedHits.Load())
	assert.Equal(t, int32(1), refreshHits.Load())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClient_ServerErrorMessagePassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errorEnvelope(w, http.StatusBadRequest, "Slot already booked")
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.CreateBooking(context.Background(), &Auth{AccessToken: "token"}, BookingData{
		Facility:  "fac-1",
		Date:      "2026-09-02",
		StartTime: "10:00",
		EndTime:   "12:00",
	})
	require.Error(t, err)
	assert.Equal(t, "Slot already booked", UserMessage(err))
	assert.False(t, IsSessionExpired(err))
}

func TestClient_FailureEnvelopeIsError(t *testing.T) {
	// Backend иногда отвечает 200 с success=false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "Facility is not available",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.Facilities(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "Facility is not available", UserMessage(err))
}

func TestClient_ErrorWithoutBodyGetsStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.Facilities(context.Background(), nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), apiErr.Message)
}

func TestLogin_DecodesAuthResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		// Логин без сессии — заголовка Authorization быть не должно
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "user@example.com", creds.Email)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"token":        "access-token",
			"refreshToken": "refresh-token",
			"data": map[string]any{
				"_id":   "66f1a2b3c4d5e6f7a8b9c0d1",
				"name":  "Иван",
				"email": "user@example.com",
				"role":  "user",
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	result, err := client.Login(context.Background(), Credentials{
		Email:    "user@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-token", result.Token)
	assert.Equal(t, "refresh-token", result.RefreshToken)
	require.NotNil(t, result.User)
	assert.Equal(t, "66f1a2b3c4d5e6f7a8b9c0d1", result.User.ID)
	assert.False(t, result.User.IsAdmin())
}

func TestLogin_ResponseWithoutTokenIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		okEnvelope(t, w, map[string]any{"_id": "66f1a2b3c4d5e6f7a8b9c0d1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.Login(context.Background(), Credentials{Email: "user@example.com", Password: "secret"})
	assert.Error(t, err)
}

func TestSignup_DefaultsRoleToUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var data SignupData
		require.NoError(t, json.NewDecoder(r.Body).Decode(&data))
		assert.Equal(t, "user", string(data.Role))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"token":        "access-token",
			"refreshToken": "refresh-token",
			"data":         map[string]any{"_id": "66f1a2b3c4d5e6f7a8b9c0d1", "role": "user"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	result, err := client.Signup(context.Background(), SignupData{
		Name:     "Иван",
		Email:    "user@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-token", result.Token)
}
