package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Helper functions для всех callback handlers

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseArgFromCallback извлекает аргумент из callback data
// Например: "view_facility:66f1a2" -> "66f1a2"
func ParseArgFromCallback(data string) (string, error) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("invalid callback data format")
	}
	return parts[1], nil
}

// ErrorText переводит ошибку API в сообщение пользователю.
// Сообщение сервера показывается как есть; ошибки не проглатываются.
func ErrorText(err error) string {
	switch {
	case api.IsSessionExpired(err):
		return "⏰ Сессия истекла. Войдите снова: /login"
	case api.IsForbidden(err):
		return "🚫 Недостаточно прав для этого действия."
	case api.IsNotFound(err):
		return "🔍 Ничего не найдено."
	default:
		return "❌ " + api.UserMessage(err)
	}
}
