package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Состояния диалога площадки (объявлены в state, здесь — значения)
const (
	StateFacilityName = "facility_name"
)

// requireAdmin возвращает сессию администратора или nil с alert
func requireAdmin(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, chatID int64) *model.Session {
	session, err := h.Sessions.Current(ctx, chatID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", chatID))
	}
	if !session.IsAuthenticated() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "🔐 Сначала войдите: /login")
		return nil
	}
	if !session.User.IsAdmin() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "🚫 Только для администраторов")
		return nil
	}
	return session
}

// HandleAdminMenu показывает админское меню
func HandleAdminMenu(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	if requireAdmin(ctx, b, callback, h, msg.Chat.ID) == nil {
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🏟 Площадки", "admin_facilities")).
		Row(keyboard.Button("📋 Все бронирования", "admin_bookings")).
		Row(keyboard.Button("⬅️ В меню", "back_to_main")).
		Build()

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        "⚙️ <b>Админка</b>\n\nУправление площадками и бронированиями.",
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// HandleAdminFacilities показывает площадки с кнопками управления
func HandleAdminFacilities(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	session := requireAdmin(ctx, b, callback, h, msg.Chat.ID)
	if session == nil {
		return
	}

	facilities, err := h.Facilities.List(ctx, h.Sessions.Auth(session))
	if err != nil {
		h.Logger.Error("Failed to list facilities", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	var sb strings.Builder
	sb.WriteString("🏟 <b>Площадки</b>\n\n")

	kb := keyboard.NewBuilder()
	for _, f := range facilities {
		sb.WriteString(fmt.Sprintf("▫️ <b>%s</b> — %s\n📍 %s\n\n",
			f.Name, formatting.FormatPricePerHour(f.PricePerHour), f.Location))
		kb.Row(
			keyboard.Button("✏️ "+f.Name, "admin_edit_facility:"+f.ID),
			keyboard.Button("🗑", "admin_delete_facility:"+f.ID),
		)
	}
	if len(facilities) == 0 {
		sb.WriteString("Пока пусто.\n")
	}

	kb.Row(keyboard.Button("➕ Новая площадка", "admin_new_facility"))
	kb.Row(keyboard.Button("⬅️ Назад", "admin_menu"))

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        sb.String(),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// HandleAdminNewFacility начинает диалог создания площадки
func HandleAdminNewFacility(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	if requireAdmin(ctx, b, callback, h, msg.Chat.ID) == nil {
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	h.StateManager.ClearState(msg.Chat.ID)
	h.StateManager.SetState(msg.Chat.ID, StateFacilityName)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   "🏟 Новая площадка.\n\nВведите название:",
	})
}

// HandleAdminEditFacility начинает диалог редактирования площадки.
// Диалог тот же, что при создании, но завершается обновлением.
// Формат: admin_edit_facility:66f1a2...
func HandleAdminEditFacility(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	session := requireAdmin(ctx, b, callback, h, msg.Chat.ID)
	if session == nil {
		return
	}

	facilityID, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	facility, err := h.Facilities.Get(ctx, h.Sessions.Auth(session), facilityID)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	h.StateManager.ClearState(msg.Chat.ID)
	h.StateManager.SetState(msg.Chat.ID, StateFacilityName)
	h.StateManager.SetData(msg.Chat.ID, "facility_edit_id", facility.ID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    msg.Chat.ID,
		Text:      fmt.Sprintf("✏️ Редактирование <b>%s</b>.\n\nВведите новое название:", facility.Name),
		ParseMode: models.ParseModeHTML,
	})
}

// HandleAdminDeleteFacility запрашивает подтверждение удаления
// Формат: admin_delete_facility:66f1a2...
func HandleAdminDeleteFacility(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	if requireAdmin(ctx, b, callback, h, msg.Chat.ID) == nil {
		return
	}

	facilityID, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("🗑 Да, удалить", "admin_confirm_delete:"+facilityID),
			keyboard.Button("⬅️ Назад", "admin_facilities"),
		).
		Build()

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        "❓ Точно удалить площадку? Она пропадёт из списка, существующие бронирования останутся.",
		ReplyMarkup: kb,
	})
}

// HandleAdminConfirmDelete удаляет площадку
// Формат: admin_confirm_delete:66f1a2...
func HandleAdminConfirmDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	session := requireAdmin(ctx, b, callback, h, msg.Chat.ID)
	if session == nil {
		return
	}

	facilityID, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	message, err := h.Facilities.Delete(ctx, h.Sessions.Auth(session), facilityID)
	if err != nil {
		h.Logger.Error("Failed to delete facility", zap.Error(err), zap.String("facility_id", facilityID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "✅ "+message)
	HandleAdminFacilities(ctx, b, callback, h)
}

// HandleFacilitySkipImage завершает диалог площадки без картинки
func HandleFacilitySkipImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	CompleteFacilityDialog(ctx, b, h, msg.Chat.ID, "")
}

// CompleteFacilityDialog собирает данные диалога и создаёт либо
// обновляет площадку. Вызывается из callback пропуска картинки и из
// текстового шага с URL картинки.
func CompleteFacilityDialog(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, image string) {
	session, err := h.Sessions.Current(ctx, chatID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", chatID))
	}
	if !session.IsAuthenticated() || !session.User.IsAdmin() {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "🚫 Только для администраторов.",
		})
		return
	}

	data := h.StateManager.GetAllData(chatID)
	if data == nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⚠️ Данные диалога потеряны. Начните заново из админки: /admin",
		})
		return
	}

	facilityData := api.FacilityData{
		Name:         stringData(data, "name"),
		Description:  stringData(data, "description"),
		PricePerHour: intData(data, "price"),
		Location:     stringData(data, "location"),
		Image:        image,
	}

	editID := stringData(data, "facility_edit_id")
	h.StateManager.ClearState(chatID)

	var facility *model.Facility
	if editID != "" {
		facility, err = h.Facilities.Update(ctx, h.Sessions.Auth(session), editID, facilityData)
	} else {
		facility, err = h.Facilities.Create(ctx, h.Sessions.Auth(session), facilityData)
	}
	if err != nil {
		h.Logger.Error("Facility dialog failed", zap.Error(err), zap.String("edit_id", editID))
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   common.ErrorText(err),
		})
		return
	}

	verb := "создана"
	if editID != "" {
		verb = "обновлена"
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("🏟 К площадкам", "admin_facilities")).
		Row(keyboard.Button("⬅️ В меню", "back_to_main")).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: fmt.Sprintf("✅ Площадка <b>%s</b> %s.\n\n📍 %s\n💵 %s",
			facility.Name, verb, facility.Location,
			formatting.FormatPricePerHour(facility.PricePerHour)),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

func stringData(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func intData(data map[string]interface{}, key string) int {
	if v, ok := data[key].(int); ok {
		return v
	}
	return 0
}
