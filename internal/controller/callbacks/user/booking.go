package user

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/Freeeeeet/sportbook_bot/internal/bookingflow"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Сколько дней вперёд предлагается в календаре
const bookingHorizonDays = 14

const slotButtonsPerRow = 3

// HandleBookFacility начинает мастер бронирования площадки
// Формат: book_facility:66f1a2...
func HandleBookFacility(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	session, err := h.Sessions.Current(ctx, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}
	if !session.IsAuthenticated() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "🔐 Сначала войдите: /login")
		return
	}

	facilityID, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	facility, err := h.Facilities.Get(ctx, h.Sessions.Auth(session), facilityID)
	if err != nil {
		h.Logger.Error("Failed to get facility", zap.Error(err), zap.String("facility_id", facilityID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	h.Flows.Start(msg.Chat.ID, facility)
	common.AnswerCallback(ctx, b, callback.ID, "")

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        fmt.Sprintf("📅 <b>%s</b>\n\nВыберите дату:", facility.Name),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: buildDateKeyboard(time.Now()),
	})
}

// buildDateKeyboard собирает календарь на ближайшие дни
func buildDateKeyboard(now time.Time) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()

	row := make([]models.InlineKeyboardButton, 0, 2)
	for i := 0; i < bookingHorizonDays; i++ {
		day := now.AddDate(0, 0, i)
		label := formatting.FormatDateShort(day)
		if i == 0 {
			label = "Сегодня"
		}
		row = append(row, keyboard.Button(label, "book_date:"+day.Format(formatting.DateLayout)))
		if len(row) == 2 {
			kb.AddRow(row)
			row = make([]models.InlineKeyboardButton, 0, 2)
		}
	}
	kb.AddRow(row)
	kb.Row(keyboard.Button("❌ Отмена", "cancel_flow"))

	return kb.Build()
}

// HandleBookDate фиксирует дату и загружает сетку слотов
// Формат: book_date:2026-09-15
func HandleBookDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	flow := h.Flows.Get(msg.Chat.ID)
	if flow == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Бронирование не начато. Выберите площадку: /book")
		return
	}

	arg, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	date, err := formatting.ParseDate(arg)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверная дата")
		return
	}

	generation, err := flow.ChooseDate(date, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, bookingflow.ErrPastDate):
			common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Эта дата уже прошла")
		case errors.Is(err, bookingflow.ErrFlowFinished):
			common.AnswerCallbackAlert(ctx, b, callback.ID, "✅ Бронирование уже оформлено. Начните новое: /book")
		default:
			common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Ошибка")
		}
		return
	}

	session, err := h.Sessions.Current(ctx, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}

	slots, err := h.Bookings.Availability(ctx, h.Sessions.Auth(session), flow.Facility().ID, flow.Date())
	if err != nil {
		flow.AbortFetch(generation)
		h.Logger.Error("Failed to fetch availability",
			zap.Error(err),
			zap.String("facility_id", flow.Facility().ID),
			zap.String("date", flow.Date()))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	// Пока грузили, пользователь мог выбрать другую дату
	if !flow.ApplySlots(generation, slots) {
		common.AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	sendSlotsView(ctx, b, h, msg, flow)
}

// HandleToggleSlot переключает слот в выборе
// Формат: toggle_slot:10:00 — двоеточие в времени, поэтому SplitN(2)
func HandleToggleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	flow := h.Flows.Get(msg.Chat.ID)
	if flow == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Бронирование не начато. Выберите площадку: /book")
		return
	}

	startTime, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	if err := flow.Toggle(startTime); err != nil {
		switch {
		case errors.Is(err, bookingflow.ErrFetchPending):
			common.AnswerCallback(ctx, b, callback.ID, "⏳ Слоты ещё загружаются")
		case errors.Is(err, bookingflow.ErrUnknownSlot):
			common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Такого слота нет в сетке")
		default:
			common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Ошибка")
		}
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")
	sendSlotsView(ctx, b, h, msg, flow)
}

// HandleChangeDate возвращает мастер к выбору даты
func HandleChangeDate(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	flow := h.Flows.Get(msg.Chat.ID)
	if flow == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Бронирование не начато. Выберите площадку: /book")
		return
	}

	if err := flow.BackToDate(); err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Сейчас нельзя сменить дату")
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	// Сообщение со слотами — фото, поэтому пересоздаём
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        fmt.Sprintf("📅 <b>%s</b>\n\nВыберите дату:", flow.Facility().Name),
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: buildDateKeyboard(time.Now()),
	})
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
}

// HandleCancelFlow прерывает мастер бронирования
func HandleCancelFlow(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	h.Flows.Clear(msg.Chat.ID)
	common.AnswerCallback(ctx, b, callback.ID, "Бронирование отменено")

	session, err := h.Sessions.Current(ctx, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        common.MainMenuText(session),
		ReplyMarkup: common.MainMenuKeyboard(session),
	})
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
}

// HandleConfirmBooking отправляет выбранный диапазон на backend
func HandleConfirmBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	flow := h.Flows.Get(msg.Chat.ID)
	if flow == nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Бронирование не начато. Выберите площадку: /book")
		return
	}

	payload, err := flow.Payload()
	if err != nil {
		switch {
		case errors.Is(err, bookingflow.ErrEmptySelection):
			common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Выберите хотя бы один слот")
		case errors.Is(err, bookingflow.ErrFetchPending):
			common.AnswerCallback(ctx, b, callback.ID, "⏳ Слоты ещё загружаются")
		default:
			common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Ошибка")
		}
		return
	}

	session, err := h.Sessions.Current(ctx, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}
	if !session.IsAuthenticated() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "🔐 Сначала войдите: /login")
		return
	}

	booking, err := h.Bookings.Create(ctx, h.Sessions.Auth(session), api.BookingData{
		Facility:  flow.Facility().ID,
		Date:      flow.Date(),
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
	})
	if err != nil {
		// Выбор сохраняется: пользователь может повторить подтверждение
		h.Logger.Error("Failed to create booking", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	flow.Confirm()
	common.AnswerCallback(ctx, b, callback.ID, "✅ Забронировано!")

	text := fmt.Sprintf(
		"✅ <b>Бронирование создано!</b>\n\n🏟 %s\n📅 %s\n🕐 %s\n%s\n\nСтатус: %s\nОплатите, чтобы подтвердить бронирование.",
		flow.Facility().Name,
		flow.Date(),
		formatting.FormatSlot(booking.StartTime, booking.EndTime),
		formatting.FormatTotal(booking.PayableAmount),
		formatting.FormatBookingStatus(booking.Status),
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("💳 Оплатить", "pay_booking:"+booking.ID)).
		Row(keyboard.Button("➕ Забронировать ещё", "book_another")).
		Row(keyboard.Button("⬅️ В меню", "back_to_main")).
		Build()

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

// HandlePayBooking запрашивает платёжный URL и отдаёт кнопку оплаты
// Формат: pay_booking:66f1a2...
func HandlePayBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	bookingID, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	session, err := h.Sessions.Current(ctx, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load session", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
	}
	if !session.IsAuthenticated() {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "🔐 Сначала войдите: /login")
		return
	}

	url, err := h.Bookings.InitiatePayment(ctx, h.Sessions.Auth(session), bookingID)
	if err != nil {
		h.Logger.Error("Failed to initiate payment", zap.Error(err), zap.String("booking_id", bookingID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	kb := keyboard.NewBuilder().
		Row(keyboard.URLButton("💳 Перейти к оплате", url)).
		Row(keyboard.Button("⬅️ В меню", "back_to_main")).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        "💳 Оплата через SSLCommerz.\n\nПосле оплаты пришлите ID транзакции командой:\n<code>/verify ID_транзакции</code>",
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// sendSlotsView отправляет сетку слотов картинкой с кнопками выбора
// и удаляет прежнее сообщение мастера
func sendSlotsView(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, msg *models.Message, flow *bookingflow.Flow) {
	date, err := formatting.ParseDate(flow.Date())
	if err != nil {
		h.Logger.Error("Invalid flow date", zap.Error(err), zap.String("date", flow.Date()))
		return
	}

	caption := buildSlotsCaption(flow)
	kb := buildSlotsKeyboard(flow)

	imageData, err := common.GenerateSlotsImage(flow.Facility().Name, date, flow.Slots(), flow.Selection())
	if err != nil {
		h.Logger.Error("Failed to render slots image", zap.Error(err))
		// Без картинки интерфейс остаётся рабочим
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      msg.Chat.ID,
			Text:        caption,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: kb,
		})
	} else {
		b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      msg.Chat.ID,
			Photo:       &models.InputFileUpload{Filename: "slots.png", Data: bytes.NewReader(imageData)},
			Caption:     caption,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: kb,
		})
	}

	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
}

// buildSlotsCaption собирает подпись с текущим выбором
func buildSlotsCaption(flow *bookingflow.Flow) string {
	caption := fmt.Sprintf("🏟 <b>%s</b>\n📅 %s", flow.Facility().Name, flow.Date())

	if len(flow.Slots()) == 0 {
		return caption + "\n\n😕 На эту дату слотов нет."
	}

	if slotRange := flow.Range(); slotRange != nil {
		caption += fmt.Sprintf("\n\n🕐 %s\n%s",
			formatting.FormatSlot(slotRange.StartTime, slotRange.EndTime),
			formatting.FormatTotal(flow.Total()))
	} else {
		caption += "\n\nВыберите слоты:"
	}

	return caption
}

// buildSlotsKeyboard собирает кнопки переключения слотов
func buildSlotsKeyboard(flow *bookingflow.Flow) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()

	row := make([]models.InlineKeyboardButton, 0, slotButtonsPerRow)
	for _, slot := range flow.Slots() {
		var btn models.InlineKeyboardButton
		switch {
		case slot.IsBooked:
			btn = keyboard.Button("⛔ "+slot.StartTime, "noop")
		case flow.IsSelected(slot):
			btn = keyboard.Button("✅ "+slot.StartTime, "toggle_slot:"+slot.StartTime)
		default:
			btn = keyboard.Button(slot.StartTime, "toggle_slot:"+slot.StartTime)
		}
		row = append(row, btn)
		if len(row) == slotButtonsPerRow {
			kb.AddRow(row)
			row = make([]models.InlineKeyboardButton, 0, slotButtonsPerRow)
		}
	}
	kb.AddRow(row)

	if len(flow.Selection()) > 0 {
		kb.Row(keyboard.Button(
			fmt.Sprintf("✅ Подтвердить · %d ч · %d ৳", len(flow.Selection()), flow.Total()),
			"confirm_booking"))
	}

	kb.Row(
		keyboard.Button("📅 Другая дата", "change_date"),
		keyboard.Button("❌ Отмена", "cancel_flow"),
	)

	return kb.Build()
}
