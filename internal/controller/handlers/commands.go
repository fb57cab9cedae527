package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/user"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	h.stateManager.ClearState(chatID)
	session := h.currentSession(ctx, chatID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        common.MainMenuText(session),
		ReplyMarkup: common.MainMenuKeyboard(session),
	})
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/start - Главное меню\n" +
		"/login - Войти в аккаунт\n" +
		"/register - Зарегистрироваться\n" +
		"/logout - Выйти из аккаунта\n" +
		"/facilities - Список площадок\n" +
		"/book - Забронировать площадку\n" +
		"/mybookings - Мои бронирования\n" +
		"/verify ID - Проверить оплату по ID транзакции\n" +
		"/cancel - Отменить текущий диалог\n" +
		"/help - Показать эту справку\n\n" +
		"Для администраторов:\n" +
		"/admin - Управление площадками и бронированиями"

	h.sendMessage(ctx, b, chatID, helpText)
}

// HandleLogin обрабатывает команду /login - начало диалога входа
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	if session := h.currentSession(ctx, chatID); session.IsAuthenticated() {
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("✅ Вы уже вошли как %s.\nСменить аккаунт: /logout, затем /login.", session.User.Email))
		return
	}

	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateLoginEmail)

	h.sendMessage(ctx, b, chatID, "🔐 Вход.\n\nВведите email:")
}

// HandleRegister обрабатывает команду /register - начало диалога регистрации
func (h *Handlers) HandleRegister(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	if session := h.currentSession(ctx, chatID); session.IsAuthenticated() {
		h.sendMessage(ctx, b, chatID,
			fmt.Sprintf("✅ Вы уже вошли как %s.\nДля новой регистрации сначала выйдите: /logout.", session.User.Email))
		return
	}

	h.stateManager.ClearState(chatID)
	h.stateManager.SetState(chatID, state.StateRegisterName)

	h.sendMessage(ctx, b, chatID, "📝 Регистрация.\n\nВведите ваше имя:")
}

// HandleLogout обрабатывает команду /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	session := h.currentSession(ctx, chatID)
	if !session.IsAuthenticated() {
		h.sendMessage(ctx, b, chatID, "Вы и не входили. /login")
		return
	}

	if err := h.sessions.Logout(ctx, chatID); err != nil {
		h.logger.Error("Logout failed", zap.Error(err), zap.Int64("chat_id", chatID))
		h.sendError(ctx, b, chatID, err)
		return
	}

	h.stateManager.ClearState(chatID)
	h.flows.Clear(chatID)

	h.sendMessage(ctx, b, chatID, "👋 Вы вышли из аккаунта. До встречи!")
}

// HandleFacilities обрабатывает команду /facilities
func (h *Handlers) HandleFacilities(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	session := h.currentSession(ctx, chatID)
	facilities, err := h.facilities.List(ctx, h.sessions.Auth(session))
	if err != nil {
		h.logger.Error("Failed to list facilities", zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	text, kb := user.BuildFacilitiesPage(facilities, 0)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// HandleBook обрабатывает команду /book - начало бронирования
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	session := h.requireSession(ctx, b, chatID)
	if session == nil {
		return
	}

	facilities, err := h.facilities.List(ctx, h.sessions.Auth(session))
	if err != nil {
		h.logger.Error("Failed to list facilities", zap.Error(err))
		h.sendError(ctx, b, chatID, err)
		return
	}

	text, kb := user.BuildFacilitiesPage(facilities, 0)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "📅 Выберите площадку для бронирования:\n\n" + text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	session := h.requireSession(ctx, b, chatID)
	if session == nil {
		return
	}

	bookings, err := h.bookings.My(ctx, h.sessions.Auth(session), chatID)
	if err != nil {
		h.logger.Error("Failed to load user bookings", zap.Error(err), zap.Int64("chat_id", chatID))
		h.sendError(ctx, b, chatID, err)
		return
	}

	text, kb := user.BuildMyBookingsView(bookings)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// HandleAdmin обрабатывает команду /admin
func (h *Handlers) HandleAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	if h.requireAdmin(ctx, b, chatID) == nil {
		return
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🏟 Площадки", "admin_facilities")).
		Row(keyboard.Button("📋 Все бронирования", "admin_bookings")).
		Row(keyboard.Button("⬅️ В меню", "back_to_main")).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "⚙️ <b>Админка</b>\n\nУправление площадками и бронированиями.",
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// HandleVerify обрабатывает команду /verify <transaction_id>
func (h *Handlers) HandleVerify(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	session := h.requireSession(ctx, b, chatID)
	if session == nil {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 2 {
		h.sendMessage(ctx, b, chatID, "Использование: /verify ID_транзакции\nID выдаёт платёжная система после оплаты.")
		return
	}
	transactionID := parts[1]

	booking, err := h.bookings.VerifyPayment(ctx, h.sessions.Auth(session), transactionID)
	if err != nil {
		h.logger.Error("Payment verification failed",
			zap.Error(err),
			zap.String("transaction_id", transactionID))
		h.sendError(ctx, b, chatID, err)
		return
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📋 Мои бронирования", "my_bookings")).
		Row(keyboard.Button("⬅️ В меню", "back_to_main")).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf("💳 Оплата проверена.\n\n🏟 %s\n📅 %s · %s\nСтатус: %s",
			booking.Facility.Name,
			booking.Date,
			formatting.FormatSlot(booking.StartTime, booking.EndTime),
			formatting.FormatBookingStatus(booking.Status)),
		ReplyMarkup: kb,
	})
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID, ok := messageChatID(update)
	if !ok {
		return
	}

	hadState := h.stateManager.GetState(chatID) != state.StateNone
	hadFlow := h.flows.Get(chatID) != nil

	if !hadState && !hadFlow {
		h.sendMessage(ctx, b, chatID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(chatID)
	h.flows.Clear(chatID)

	h.sendMessage(ctx, b, chatID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}
