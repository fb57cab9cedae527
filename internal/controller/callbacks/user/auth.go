package user

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleRegisterRole завершает регистрацию с выбранной ролью.
// Роль уходит на backend как есть — проверяет её сервер.
// Формат: register_role:user | register_role:admin
func HandleRegisterRole(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	role, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	chatID := msg.Chat.ID
	data := h.StateManager.GetAllData(chatID)
	if data == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Данные регистрации потеряны. Начните заново: /register")
		return
	}

	signup := api.SignupData{
		Name:     stringValue(data, "name"),
		Email:    stringValue(data, "email"),
		Password: stringValue(data, "password"),
		Phone:    stringValue(data, "phone"),
		Address:  stringValue(data, "address"),
		Role:     model.UserRole(role),
	}

	user, err := h.Sessions.Register(ctx, chatID, signup)
	if err != nil {
		h.Logger.Error("Registration failed", zap.Error(err), zap.Int64("chat_id", chatID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	h.StateManager.ClearState(chatID)
	common.AnswerCallback(ctx, b, callback.ID, "✅ Регистрация завершена")

	session, err := h.Sessions.Current(ctx, chatID)
	if err != nil {
		h.Logger.Error("Failed to load session after registration", zap.Error(err))
	}

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   msg.ID,
		Text:        fmt.Sprintf("🎉 Добро пожаловать, %s!\n\n%s", user.Name, common.MainMenuText(session)),
		ReplyMarkup: common.MainMenuKeyboard(session),
	})
}

func stringValue(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
