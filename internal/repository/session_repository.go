package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// GetByChatID получает сессию чата. Возвращает nil если сессии нет.
func (r *SessionRepository) GetByChatID(ctx context.Context, chatID int64) (*model.Session, error) {
	query := `
		SELECT chat_id, access_token, COALESCE(refresh_token, ''), user_data, updated_at
		FROM sessions
		WHERE chat_id = $1
	`

	var session model.Session
	var userData []byte

	err := r.pool.QueryRow(ctx, query, chatID).Scan(
		&session.ChatID,
		&session.AccessToken,
		&session.RefreshToken,
		&userData,
		&session.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(userData, &user); err != nil {
		return nil, fmt.Errorf("decode session user: %w", err)
	}
	session.User = &user

	return &session, nil
}

// Save создаёт или полностью перезаписывает сессию чата
func (r *SessionRepository) Save(ctx context.Context, session *model.Session) error {
	userData, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	query := `
		INSERT INTO sessions (chat_id, access_token, refresh_token, user_data, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, now())
		ON CONFLICT (chat_id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    user_data = EXCLUDED.user_data,
		    updated_at = now()
	`

	_, err = r.pool.Exec(ctx, query,
		session.ChatID,
		session.AccessToken,
		session.RefreshToken,
		userData,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return nil
}

// UpdateAccessToken сохраняет обновлённый access token.
// Единственная мутация токена вне явного login/logout — вызывается
// HTTP-клиентом после успешного refresh.
func (r *SessionRepository) UpdateAccessToken(ctx context.Context, chatID int64, accessToken string) error {
	query := `
		UPDATE sessions
		SET access_token = $2, updated_at = now()
		WHERE chat_id = $1
	`

	_, err := r.pool.Exec(ctx, query, chatID, accessToken)
	if err != nil {
		return fmt.Errorf("update access token: %w", err)
	}

	return nil
}

// UpdateUser заменяет снимок профиля в сессии
func (r *SessionRepository) UpdateUser(ctx context.Context, chatID int64, user *model.User) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	query := `
		UPDATE sessions
		SET user_data = $2, updated_at = now()
		WHERE chat_id = $1
	`

	_, err = r.pool.Exec(ctx, query, chatID, userData)
	if err != nil {
		return fmt.Errorf("update session user: %w", err)
	}

	return nil
}

// Delete удаляет сессию чата
func (r *SessionRepository) Delete(ctx context.Context, chatID int64) error {
	query := `DELETE FROM sessions WHERE chat_id = $1`

	_, err := r.pool.Exec(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
