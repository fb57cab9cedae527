package user

import (
	"context"
	"fmt"
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

// HandleMyBookings показывает бронирования пользователя
func HandleMyBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	bookings, err := h.Bookings.My(ctx, h.Sessions.Auth(session), msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to load user bookings", zap.Error(err), zap.Int64("chat_id", msg.Chat.ID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	text, kb := BuildMyBookingsView(bookings)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

// BuildMyBookingsView собирает список бронирований пользователя.
// Используется и командой /mybookings.
func BuildMyBookingsView(bookings []model.Booking) (string, *models.InlineKeyboardMarkup) {
	if len(bookings) == 0 {
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("🏟 К площадкам", "facilities_page:0")).
			Row(keyboard.Button("⬅️ В меню", "back_to_main")).
			Build()
		return "📋 У вас пока нет бронирований.", kb
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Мои бронирования</b>\n\n")

	kb := keyboard.NewBuilder()
	for _, booking := range bookings {
		sb.WriteString(fmt.Sprintf("🏟 <b>%s</b>\n📅 %s · %s\n%s · %s\n\n",
			booking.Facility.Name,
			booking.Date,
			formatting.FormatSlot(booking.StartTime, booking.EndTime),
			formatting.FormatPrice(booking.PayableAmount),
			formatting.FormatBookingStatus(booking.Status),
		))

		switch booking.Status {
		case model.BookingStatusUnconfirmed:
			kb.Row(
				keyboard.Button("💳 "+booking.Facility.Name, "pay_booking:"+booking.ID),
				keyboard.Button("❌ Отменить", "cancel_booking:"+booking.ID),
			)
		case model.BookingStatusConfirmed:
			kb.Row(keyboard.Button("❌ Отменить "+booking.Facility.Name, "cancel_booking:"+booking.ID))
		}
	}

	kb.Row(keyboard.Button("⬅️ В меню", "back_to_main"))
	return sb.String(), kb.Build()
}

// HandleCancelBooking запрашивает подтверждение отмены
// Формат: cancel_booking:66f1a2...
func HandleCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	common.AnswerCallback(ctx, b, callback.ID, "")

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("✅ Да, отменить", "confirm_cancel:"+bookingID),
			keyboard.Button("⬅️ Назад", "my_bookings"),
		).
		Build()

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        "❓ Точно отменить бронирование?",
		ReplyMarkup: kb,
	})
}

// HandleConfirmCancel отменяет бронирование
// Формат: confirm_cancel:66f1a2...
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	auth := h.Sessions.Auth(session)
	if _, err := h.Bookings.Cancel(ctx, auth, bookingID); err != nil {
		h.Logger.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", bookingID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "✅ Бронирование отменено")

	bookings, err := h.Bookings.My(ctx, auth, msg.Chat.ID)
	if err != nil {
		h.Logger.Error("Failed to reload bookings", zap.Error(err))
		return
	}

	text, kb := BuildMyBookingsView(bookings)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}
