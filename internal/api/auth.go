package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/sportbook_bot/internal/model"
)

// Credentials данные для входа
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupData данные регистрации. Role уходит на backend как есть:
// авторизация выбора роли — целиком ответственность сервера.
type SignupData struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Phone    string         `json:"phone"`
	Address  string         `json:"address"`
	Role     model.UserRole `json:"role,omitempty"`
}

// AuthResult результат входа или регистрации
type AuthResult struct {
	User         *model.User
	Token        string
	RefreshToken string
}

// Login выполняет вход по email и паролю
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	env, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		json:   creds,
	}, nil)
	if err != nil {
		return nil, err
	}
	return authResult(env)
}

// Signup регистрирует нового пользователя
func (c *Client) Signup(ctx context.Context, data SignupData) (*AuthResult, error) {
	if data.Role == "" {
		data.Role = model.UserRoleUser
	}

	env, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/auth/signup",
		json:   data,
	}, nil)
	if err != nil {
		return nil, err
	}
	return authResult(env)
}

func authResult(env *envelope) (*AuthResult, error) {
	if env.Token == "" {
		return nil, fmt.Errorf("auth response without token")
	}

	var user model.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &AuthResult{
		User:         &user,
		Token:        env.Token,
		RefreshToken: env.RefreshToken,
	}, nil
}
