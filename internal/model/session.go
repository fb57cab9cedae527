package model

import "time"

// Session сохранённая сессия пользователя: токены и снимок профиля.
// Аналог localStorage веб-клиента — переживает перезапуск бота,
// очищается при logout или неудачном refresh.
type Session struct {
	ChatID       int64
	AccessToken  string
	RefreshToken string // опционально, backend может не выдавать
	User         *User
	UpdatedAt    time.Time
}

// IsAuthenticated проверяет что сессия активна
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil && s.AccessToken != ""
}
