package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSessionStore хранилище сессий в памяти для тестов
type fakeSessionStore struct {
	sessions map[int64]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]*model.Session)}
}

func (s *fakeSessionStore) GetByChatID(ctx context.Context, chatID int64) (*model.Session, error) {
	return s.sessions[chatID], nil
}

func (s *fakeSessionStore) Save(ctx context.Context, session *model.Session) error {
	copied := *session
	s.sessions[session.ChatID] = &copied
	return nil
}

func (s *fakeSessionStore) UpdateAccessToken(ctx context.Context, chatID int64, accessToken string) error {
	if session, ok := s.sessions[chatID]; ok {
		session.AccessToken = accessToken
		session.UpdatedAt = time.Now()
	}
	return nil
}

func (s *fakeSessionStore) UpdateUser(ctx context.Context, chatID int64, user *model.User) error {
	if session, ok := s.sessions[chatID]; ok {
		session.User = user
		session.UpdatedAt = time.Now()
	}
	return nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, chatID int64) error {
	delete(s.sessions, chatID)
	return nil
}

func authServer(t *testing.T, path string, onRequest func(body []byte)) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if onRequest != nil {
			var raw json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
			onRequest(raw)
		}
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
	})
	return httptest.NewServer(mux)
}

func TestSessionService_LoginPersistsSession(t *testing.T) {
	server := authServer(t, "/auth/login", nil)
	defer server.Close()

	store := newFakeSessionStore()
	svc := NewSessionService(store, api.NewClient(server.URL, zap.NewNop()), zap.NewNop())

	user, err := svc.Login(context.Background(), 42, "user@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)

	session, err := svc.Current(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "access-token", session.AccessToken)
	assert.Equal(t, "refresh-token", session.RefreshToken)
	assert.Equal(t, "Иван", session.User.Name)
}

func TestSessionService_RegisterForwardsRole(t *testing.T) {
	var gotRole string
	server := authServer(t, "/auth/signup", func(body []byte) {
		var data struct {
			Role string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(body, &data))
		gotRole = data.Role
	})
	defer server.Close()

	store := newFakeSessionStore()
	svc := NewSessionService(store, api.NewClient(server.URL, zap.NewNop()), zap.NewNop())

	_, err := svc.Register(context.Background(), 42, api.SignupData{
		Name:     "Иван",
		Email:    "user@example.com",
		Password: "secret",
		Role:     model.UserRoleAdmin,
	})
	require.NoError(t, err)

	// Роль уходит на backend как есть — решение о правах за сервером
	assert.Equal(t, "admin", gotRole)

	session, err := svc.Current(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, session)
}

func TestSessionService_CurrentWithoutSession(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewSessionService(store, api.NewClient("http://127.0.0.1:1", zap.NewNop()), zap.NewNop())

	session, err := svc.Current(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionService_LogoutIsLocalOnly(t *testing.T) {
	// Сервер нужен только для login: logout не должен делать запросов
	server := authServer(t, "/auth/login", nil)

	store := newFakeSessionStore()
	svc := NewSessionService(store, api.NewClient(server.URL, zap.NewNop()), zap.NewNop())

	_, err := svc.Login(context.Background(), 42, "user@example.com", "secret")
	require.NoError(t, err)
	server.Close()

	require.NoError(t, svc.Logout(context.Background(), 42))

	session, err := svc.Current(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionService_AuthCallbacks(t *testing.T) {
	store := newFakeSessionStore()
	svc := NewSessionService(store, api.NewClient("http://127.0.0.1:1", zap.NewNop()), zap.NewNop())

	session := &model.Session{
		ChatID:       42,
		AccessToken:  "stale-token",
		RefreshToken: "refresh-token",
		User:         &model.User{ID: "66f1a2b3c4d5e6f7a8b9c0d1"},
	}
	require.NoError(t, store.Save(context.Background(), session))

	auth := svc.Auth(session)
	require.NotNil(t, auth)
	assert.Equal(t, "stale-token", auth.AccessToken)
	assert.Equal(t, "refresh-token", auth.RefreshToken)

	// OnToken сохраняет обновлённый access token
	require.NoError(t, auth.OnToken(context.Background(), "fresh-token"))
	stored, err := store.GetByChatID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", stored.AccessToken)

	// OnExpired очищает сессию целиком
	require.NoError(t, auth.OnExpired(context.Background()))
	stored, err = store.GetByChatID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionService_AuthForNilSession(t *testing.T) {
	svc := NewSessionService(newFakeSessionStore(), api.NewClient("http://127.0.0.1:1", zap.NewNop()), zap.NewNop())

	assert.Nil(t, svc.Auth(nil))
}
