package user

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const facilitiesPerPage = 5

// HandleFacilitiesPage показывает страницу списка площадок
// Формат: facilities_page:0
func HandleFacilitiesPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	page := 0
	if arg, err := common.ParseArgFromCallback(callback.Data); err == nil {
		if p, err := strconv.Atoi(arg); err == nil && p >= 0 {
			page = p
		}
	}

	session, err := h.Sessions.Current(ctx, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}

	facilities, err := h.Facilities.List(ctx, h.Sessions.Auth(session))
	if err != nil {
		h.Logger.Error("Failed to list facilities", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	text, kb := BuildFacilitiesPage(facilities, page)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// BuildFacilitiesPage собирает текст и клавиатуру страницы площадок
func BuildFacilitiesPage(facilities []model.Facility, page int) (string, *models.InlineKeyboardMarkup) {
	if len(facilities) == 0 {
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("⬅️ В меню", "back_to_main")).
			Build()
		return "🏟 Площадок пока нет.", kb
	}

	totalPages := (len(facilities) + facilitiesPerPage - 1) / facilitiesPerPage
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * facilitiesPerPage
	end := start + facilitiesPerPage
	if end > len(facilities) {
		end = len(facilities)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏟 <b>Площадки</b> (стр. %d/%d)\n\n", page+1, totalPages))

	kb := keyboard.NewBuilder()
	for _, f := range facilities[start:end] {
		sb.WriteString(fmt.Sprintf("▫️ <b>%s</b> — %s\n📍 %s\n\n",
			f.Name, formatting.FormatPricePerHour(f.PricePerHour), f.Location))
		kb.Row(keyboard.Button(f.Name, "view_facility:"+f.ID))
	}

	nav := make([]models.InlineKeyboardButton, 0, 2)
	if page > 0 {
		nav = append(nav, keyboard.Button("⬅️", fmt.Sprintf("facilities_page:%d", page-1)))
	}
	if page < totalPages-1 {
		nav = append(nav, keyboard.Button("➡️", fmt.Sprintf("facilities_page:%d", page+1)))
	}
	kb.AddRow(nav)
	kb.Row(keyboard.Button("⬅️ В меню", "back_to_main"))

	return sb.String(), kb.Build()
}

// HandleViewFacility показывает карточку площадки
// Формат: view_facility:66f1a2...
func HandleViewFacility(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	facilityID, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		h.Logger.Error("Invalid view_facility data", zap.String("data", callback.Data))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	session, err := h.Sessions.Current(ctx, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}

	facility, err := h.Facilities.Get(ctx, h.Sessions.Auth(session), facilityID)
	if err != nil {
		h.Logger.Error("Failed to get facility", zap.Error(err), zap.String("facility_id", facilityID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	text := fmt.Sprintf("🏟 <b>%s</b>\n\n%s\n\n📍 %s\n💵 %s",
		facility.Name, facility.Description, facility.Location,
		formatting.FormatPricePerHour(facility.PricePerHour))

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("📅 Забронировать", "book_facility:"+facility.ID)).
		Row(keyboard.Button("⬅️ К списку", "facilities_page:0")).
		Build()

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// HandleBookAnother начинает новое бронирование со списка площадок
func HandleBookAnother(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	h.Flows.Clear(msg.Chat.ID)

	session, err := h.Sessions.Current(ctx, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}

	facilities, err := h.Facilities.List(ctx, h.Sessions.Auth(session))
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	// Прежнее сообщение могло быть фото — отправляем новое
	text, kb := BuildFacilitiesPage(facilities, 0)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
}
