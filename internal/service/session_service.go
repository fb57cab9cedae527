package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"go.uber.org/zap"
)

// SessionStore долговременное хранилище сессий
type SessionStore interface {
	GetByChatID(ctx context.Context, chatID int64) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	UpdateAccessToken(ctx context.Context, chatID int64, accessToken string) error
	UpdateUser(ctx context.Context, chatID int64, user *model.User) error
	Delete(ctx context.Context, chatID int64) error
}

// SessionService управляет жизненным циклом сессии: вход, регистрация,
// выход, гидрация при обращении. Владеет единственным способом собрать
// api.Auth — явный контекст сессии для HTTP-клиента.
type SessionService struct {
	store  SessionStore
	client *api.Client
	logger *zap.Logger
}

func NewSessionService(store SessionStore, client *api.Client, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:  store,
		client: client,
		logger: logger,
	}
}

// Login выполняет вход и сохраняет сессию
func (s *SessionService) Login(ctx context.Context, chatID int64, email, password string) (*model.User, error) {
	result, err := s.client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	session := &model.Session{
		ChatID:       chatID,
		AccessToken:  result.Token,
		RefreshToken: result.RefreshToken,
		User:         result.User,
		UpdatedAt:    time.Now(),
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("User logged in",
		zap.Int64("chat_id", chatID),
		zap.String("email", result.User.Email),
		zap.String("role", string(result.User.Role)),
	)

	return result.User, nil
}

// Register регистрирует пользователя и сохраняет сессию.
// Выбранная роль уходит на backend как есть — клиент её не проверяет,
// это решение сервера.
func (s *SessionService) Register(ctx context.Context, chatID int64, data api.SignupData) (*model.User, error) {
	result, err := s.client.Signup(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	session := &model.Session{
		ChatID:       chatID,
		AccessToken:  result.Token,
		RefreshToken: result.RefreshToken,
		User:         result.User,
		UpdatedAt:    time.Now(),
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("User registered",
		zap.Int64("chat_id", chatID),
		zap.String("email", result.User.Email),
		zap.String("role", string(result.User.Role)),
	)

	return result.User, nil
}

// Logout очищает сессию. Чисто клиентская операция — запрос на
// backend не отправляется.
func (s *SessionService) Logout(ctx context.Context, chatID int64) error {
	if err := s.store.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.logger.Info("User logged out", zap.Int64("chat_id", chatID))
	return nil
}

// Current гидрирует сессию из хранилища без похода на backend.
// Протухший или отозванный токен обнаружится только на следующем
// API-вызове — этим занимается HTTP-клиент.
// Возвращает nil если активной сессии нет.
func (s *SessionService) Current(ctx context.Context, chatID int64) (*model.Session, error) {
	session, err := s.store.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if !session.IsAuthenticated() {
		return nil, nil
	}

	return session, nil
}

// UpdateUser заменяет снимок профиля активной сессии
func (s *SessionService) UpdateUser(ctx context.Context, chatID int64, user *model.User) error {
	if err := s.store.UpdateUser(ctx, chatID, user); err != nil {
		return fmt.Errorf("update session user: %w", err)
	}
	return nil
}

// Auth собирает явный контекст сессии для HTTP-клиента: токены плюс
// обратные вызовы сохранения обновлённого токена и очистки сессии.
func (s *SessionService) Auth(session *model.Session) *api.Auth {
	if session == nil {
		return nil
	}

	chatID := session.ChatID
	return &api.Auth{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		OnToken: func(ctx context.Context, accessToken string) error {
			return s.store.UpdateAccessToken(ctx, chatID, accessToken)
		},
		OnExpired: func(ctx context.Context) error {
			s.logger.Info("Session expired, clearing stored tokens",
				zap.Int64("chat_id", chatID))
			return s.store.Delete(ctx, chatID)
		},
	}
}
