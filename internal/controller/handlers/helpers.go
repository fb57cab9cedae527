package handlers

import (
	"context"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// sendMessage отправляет текстовое сообщение в чат
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

// sendError отправляет пользователю сообщение об ошибке API
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, err error) {
	h.sendMessage(ctx, b, chatID, common.ErrorText(err))
}

// currentSession загружает сессию чата; при ошибке хранилища вернёт nil
func (h *Handlers) currentSession(ctx context.Context, chatID int64) *model.Session {
	session, err := h.sessions.Current(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", chatID))
		return nil
	}
	return session
}

// requireSession возвращает активную сессию или nil, попросив войти
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, chatID int64) *model.Session {
	session := h.currentSession(ctx, chatID)
	if !session.IsAuthenticated() {
		h.sendMessage(ctx, b, chatID, "🔐 Сначала войдите: /login\nИли зарегистрируйтесь: /register")
		return nil
	}
	return session
}

// requireAdmin возвращает сессию администратора или nil
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, chatID int64) *model.Session {
	session := h.requireSession(ctx, b, chatID)
	if session == nil {
		return nil
	}
	if !session.User.IsAdmin() {
		h.sendMessage(ctx, b, chatID, "🚫 Команда доступна только администраторам.")
		return nil
	}
	return session
}

// messageChatID достаёт chat ID из update с сообщением
func messageChatID(update *models.Update) (int64, bool) {
	if update.Message == nil {
		return 0, false
	}
	return update.Message.Chat.ID, true
}
