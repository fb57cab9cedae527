package handlers

import (
	"context"
	"regexp"
	"strings"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	chatID := update.Message.Chat.ID
	currentState := h.stateManager.GetState(chatID)

	// Если нет активного состояния, игнорируем
	if currentState == state.StateNone {
		return
	}

	h.logger.Info("Handling dialog step",
		zap.Int64("chat_id", chatID),
		zap.String("state", string(currentState)))

	switch currentState {
	// Вход
	case state.StateLoginEmail:
		h.handleLoginEmailStep(ctx, b, update)
	case state.StateLoginPassword:
		h.handleLoginPasswordStep(ctx, b, update)

	// Регистрация
	case state.StateRegisterName:
		h.handleRegisterNameStep(ctx, b, update)
	case state.StateRegisterEmail:
		h.handleRegisterEmailStep(ctx, b, update)
	case state.StateRegisterPassword:
		h.handleRegisterPasswordStep(ctx, b, update)
	case state.StateRegisterPhone:
		h.handleRegisterPhoneStep(ctx, b, update)
	case state.StateRegisterAddress:
		h.handleRegisterAddressStep(ctx, b, update)

	// Диалог площадки (админ)
	case state.StateFacilityName:
		h.handleFacilityNameStep(ctx, b, update)
	case state.StateFacilityDescription:
		h.handleFacilityDescriptionStep(ctx, b, update)
	case state.StateFacilityPrice:
		h.handleFacilityPriceStep(ctx, b, update)
	case state.StateFacilityLocation:
		h.handleFacilityLocationStep(ctx, b, update)
	case state.StateFacilityImage:
		h.handleFacilityImageStep(ctx, b, update)

	default:
		h.logger.Warn("Unknown dialog state",
			zap.Int64("chat_id", chatID),
			zap.String("state", string(currentState)))
		h.stateManager.ClearState(chatID)
	}
}

// ========================
// Вход
// ========================

func (h *Handlers) handleLoginEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	email := strings.TrimSpace(update.Message.Text)

	if !emailRegexp.MatchString(email) || len(email) > maxEmailLength {
		h.sendMessage(ctx, b, chatID, "⚠️ Это не похоже на email. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(chatID, "email", email)
	h.stateManager.SetState(chatID, state.StateLoginPassword)

	h.sendMessage(ctx, b, chatID, "Введите пароль:")
}

func (h *Handlers) handleLoginPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	// Пароль не должен оставаться в истории чата
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: update.Message.ID,
	})

	email, _ := h.stateManager.GetData(chatID, "email")
	emailStr, ok := email.(string)
	if !ok || emailStr == "" {
		h.stateManager.ClearState(chatID)
		h.sendMessage(ctx, b, chatID, "⚠️ Что-то пошло не так. Начните заново: /login")
		return
	}

	user, err := h.sessions.Login(ctx, chatID, emailStr, password)
	if err != nil {
		h.logger.Warn("Login failed", zap.Error(err), zap.Int64("chat_id", chatID))
		h.stateManager.SetState(chatID, state.StateLoginEmail)
		h.sendMessage(ctx, b, chatID, common.ErrorText(err)+"\n\nВведите email ещё раз:")
		return
	}

	h.stateManager.ClearState(chatID)

	session := h.currentSession(ctx, chatID)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "✅ С возвращением, " + user.Name + "!\n\n" + common.MainMenuText(session),
		ReplyMarkup: common.MainMenuKeyboard(session),
	})
}

// ========================
// Регистрация
// ========================

func (h *Handlers) handleRegisterNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	name := strings.TrimSpace(update.Message.Text)

	if name == "" || len(name) > maxNameLength {
		h.sendMessage(ctx, b, chatID, "⚠️ Введите имя (до 100 символов):")
		return
	}

	h.stateManager.SetData(chatID, "name", name)
	h.stateManager.SetState(chatID, state.StateRegisterEmail)

	h.sendMessage(ctx, b, chatID, "Введите email:")
}

func (h *Handlers) handleRegisterEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	email := strings.TrimSpace(update.Message.Text)

	if !emailRegexp.MatchString(email) || len(email) > maxEmailLength {
		h.sendMessage(ctx, b, chatID, "⚠️ Это не похоже на email. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(chatID, "email", email)
	h.stateManager.SetState(chatID, state.StateRegisterPassword)

	h.sendMessage(ctx, b, chatID, "Придумайте пароль (минимум 6 символов):")
}

func (h *Handlers) handleRegisterPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: update.Message.ID,
	})

	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		h.sendMessage(ctx, b, chatID, "⚠️ Пароль от 6 до 128 символов. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(chatID, "password", password)
	h.stateManager.SetState(chatID, state.StateRegisterPhone)

	h.sendMessage(ctx, b, chatID, "Введите номер телефона:")
}

func (h *Handlers) handleRegisterPhoneStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	phone := strings.TrimSpace(update.Message.Text)

	if phone == "" || len(phone) > maxPhoneLength {
		h.sendMessage(ctx, b, chatID, "⚠️ Введите номер телефона:")
		return
	}

	h.stateManager.SetData(chatID, "phone", phone)
	h.stateManager.SetState(chatID, state.StateRegisterAddress)

	h.sendMessage(ctx, b, chatID, "Введите адрес:")
}

func (h *Handlers) handleRegisterAddressStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	address := strings.TrimSpace(update.Message.Text)

	if address == "" || len(address) > maxAddressLength {
		h.sendMessage(ctx, b, chatID, "⚠️ Введите адрес:")
		return
	}

	h.stateManager.SetData(chatID, "address", address)
	// Дальше роль выбирается кнопками, текстовых шагов больше нет.
	// Состояние остаётся до callback register_role, который заберёт
	// накопленные данные.

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("👤 Пользователь", "register_role:user"),
			keyboard.Button("⚙️ Администратор", "register_role:admin"),
		).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Выберите роль:",
		ReplyMarkup: kb,
	})
}
