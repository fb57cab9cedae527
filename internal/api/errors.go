package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Сообщение по умолчанию, когда backend не прислал своё
const genericErrorMessage = "Что-то пошло не так. Попробуйте позже."

// Error ошибка backend API с HTTP-статусом и сообщением сервера
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// SessionExpiredError сигнал «нужен повторный вход»: refresh не удался
// или был невозможен, локальная сессия уже очищена. Cause содержит
// исходную ошибку (401 или ошибку refresh).
type SessionExpiredError struct {
	Cause error
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Cause)
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Cause
}

// IsSessionExpired проверяет что сессия была сброшена и нужен /login
func IsSessionExpired(err error) bool {
	var expired *SessionExpiredError
	return errors.As(err, &expired)
}

// IsNotFound проверяет ответ 404
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsForbidden проверяет ответ 403 (нет прав)
func IsForbidden(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden
}

// UserMessage человекочитаемое сообщение об ошибке: текст сервера,
// либо общий fallback
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericErrorMessage
}

// parseError разбирает тело ошибочного ответа; сообщение сервера
// сохраняется, мусор в теле игнорируется
func parseError(status int, body []byte) error {
	var env envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
			return &Error{Status: status, Message: env.Message}
		}
	}
	return &Error{Status: status, Message: http.StatusText(status)}
}
