package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Таймаут любого запроса к backend
const requestTimeout = 10 * time.Second

// Client HTTP-клиент backend API. Токены не хранит — явный Auth
// передаётся в каждый аутентифицированный вызов.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Auth явный контекст сессии для одного логического запроса.
// OnToken сохраняет обновлённый access token, OnExpired очищает
// сессию когда восстановить её невозможно.
type Auth struct {
	AccessToken  string
	RefreshToken string
	OnToken      func(ctx context.Context, accessToken string) error
	OnExpired    func(ctx context.Context) error
}

// FormFile файл для multipart-запроса (изображение площадки)
type FormFile struct {
	Field string
	Name  string
	Data  []byte
}

// Form поля multipart/form-data запроса
type Form struct {
	Fields map[string]string
	File   *FormFile
}

// request неизменяемый дескриптор запроса. HTTP-запрос собирается из него
// заново на каждую попытку; retry передаёт копию с retried=true вместо
// мутации исходного дескриптора.
type request struct {
	method  string
	path    string
	query   url.Values
	json    any
	form    *Form
	retried bool
}

// envelope стандартная обёртка ответов backend
type envelope struct {
	Success      bool            `json:"success"`
	StatusCode   int             `json:"statusCode"`
	Message      string          `json:"message"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	Data         json.RawMessage `json:"data"`
}

// call выполняет запрос и разбирает обёртку ответа
func (c *Client) call(ctx context.Context, req request, auth *Auth) (*envelope, error) {
	httpReq, err := c.build(ctx, req, auth)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s %s: %w", req.method, req.path, err)
	}

	// 401 обрабатываем отдельно: одна попытка восстановить сессию
	if resp.StatusCode == http.StatusUnauthorized && !req.retried && auth != nil {
		return c.recover(ctx, req, auth, parseError(resp.StatusCode, body))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Любая другая ошибка уходит вызывающему без повторов
		return nil, parseError(resp.StatusCode, body)
	}

	var env envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode response %s %s: %w", req.method, req.path, err)
		}
	}

	if len(body) > 0 && !env.Success {
		return nil, &Error{Status: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}

// recover пытается один раз обновить access token и повторить запрос.
// Если refresh токена нет или refresh не удался — сессия очищается,
// дальше пользователю остаётся только повторный вход.
func (c *Client) recover(ctx context.Context, req request, auth *Auth, authErr error) (*envelope, error) {
	if auth.RefreshToken == "" {
		c.logger.Warn("Unauthorized and no refresh token, clearing session",
			zap.String("path", req.path))
		c.expire(ctx, auth)
		return nil, &SessionExpiredError{Cause: authErr}
	}

	token, err := c.refreshToken(ctx, auth.RefreshToken)
	if err != nil {
		c.logger.Warn("Token refresh failed, clearing session",
			zap.String("path", req.path),
			zap.Error(err))
		c.expire(ctx, auth)
		return nil, &SessionExpiredError{Cause: err}
	}

	auth.AccessToken = token
	if auth.OnToken != nil {
		if err := auth.OnToken(ctx, token); err != nil {
			c.logger.Error("Failed to persist refreshed token", zap.Error(err))
		}
	}

	c.logger.Info("Access token refreshed, retrying request",
		zap.String("method", req.method),
		zap.String("path", req.path))

	retry := req
	retry.retried = true
	return c.call(ctx, retry, auth)
}

func (c *Client) expire(ctx context.Context, auth *Auth) {
	if auth.OnExpired == nil {
		return
	}
	if err := auth.OnExpired(ctx); err != nil {
		c.logger.Error("Failed to clear expired session", zap.Error(err))
	}
}

// refreshToken обновляет access token по refresh токену.
// Единственный endpoint вне стандартной обёртки: отвечает {accessToken}.
func (c *Client) refreshToken(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return "", fmt.Errorf("marshal refresh request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/refresh-token", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build refresh request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read refresh response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", parseError(resp.StatusCode, body)
	}

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("refresh response without access token")
	}

	return result.AccessToken, nil
}

// build собирает http.Request из дескриптора. Тело пересобирается на
// каждую попытку, поэтому повтор после refresh безопасен.
func (c *Client) build(ctx context.Context, req request, auth *Auth) (*http.Request, error) {
	fullURL := c.baseURL + req.path
	if len(req.query) > 0 {
		fullURL += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := ""

	switch {
	case req.form != nil:
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)
		for field, value := range req.form.Fields {
			if err := writer.WriteField(field, value); err != nil {
				return nil, fmt.Errorf("write form field %s: %w", field, err)
			}
		}
		if f := req.form.File; f != nil {
			part, err := writer.CreateFormFile(f.Field, f.Name)
			if err != nil {
				return nil, fmt.Errorf("create form file: %w", err)
			}
			if _, err := part.Write(f.Data); err != nil {
				return nil, fmt.Errorf("write form file: %w", err)
			}
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("close multipart writer: %w", err)
		}
		body = buf
		contentType = writer.FormDataContentType()

	case req.json != nil:
		payload, err := json.Marshal(req.json)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", req.method, req.path, err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	// Без токена запрос уходит неаутентифицированным
	if auth != nil && auth.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+auth.AccessToken)
	}

	return httpReq, nil
}
