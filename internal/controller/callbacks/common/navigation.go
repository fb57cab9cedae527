package common

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MainMenuText возвращает текст главного меню в зависимости от сессии
func MainMenuText(session *model.Session) string {
	if session.IsAuthenticated() {
		return fmt.Sprintf("🏟 SportBook\n\nПривет, %s! Что будем делать?", session.User.Name)
	}
	return "🏟 SportBook\n\nБронирование спортивных площадок.\nВойдите или зарегистрируйтесь, чтобы бронировать: /login или /register"
}

// MainMenuKeyboard возвращает клавиатуру главного меню
func MainMenuKeyboard(session *model.Session) *models.InlineKeyboardMarkup {
	b := keyboard.NewBuilder().
		Row(keyboard.Button("🏟 Площадки", "facilities_page:0"))

	if session.IsAuthenticated() {
		b.Row(keyboard.Button("📋 Мои бронирования", "my_bookings"))
		if session.User.IsAdmin() {
			b.Row(keyboard.Button("⚙️ Админка", "admin_menu"))
		}
	}

	return b.Build()
}

// HandleBackToMain возвращает пользователя в главное меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	AnswerCallback(ctx, b, callback.ID, "")

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		return
	}

	chatID := msg.Chat.ID
	h.StateManager.ClearState(chatID)
	h.Flows.Clear(chatID)

	session, err := h.Sessions.Current(ctx, chatID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", chatID))
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   msg.ID,
		Text:        MainMenuText(session),
		ReplyMarkup: MainMenuKeyboard(session),
	})
}
