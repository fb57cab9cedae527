package admin

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

// HandleAdminBookings показывает все бронирования
func HandleAdminBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	session := requireAdmin(ctx, b, callback, h, msg.Chat.ID)
	if session == nil {
		return
	}

	bookings, err := h.Bookings.All(ctx, h.Sessions.Auth(session))
	if err != nil {
		h.Logger.Error("Failed to load all bookings", zap.Error(err))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "")

	text, kb := buildAdminBookingsView(bookings)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}

func buildAdminBookingsView(bookings []model.Booking) (string, *models.InlineKeyboardMarkup) {
	if len(bookings) == 0 {
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("⬅️ Назад", "admin_menu")).
			Build()
		return "📋 Бронирований пока нет.", kb
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Все бронирования</b>\n\n")

	kb := keyboard.NewBuilder()
	for _, booking := range bookings {
		sb.WriteString(fmt.Sprintf("🏟 <b>%s</b> — %s\n📅 %s · %s\n%s · %s\n\n",
			booking.Facility.Name,
			booking.User.Name,
			booking.Date,
			formatting.FormatSlot(booking.StartTime, booking.EndTime),
			formatting.FormatPrice(booking.PayableAmount),
			formatting.FormatBookingStatus(booking.Status),
		))

		if booking.IsActive() {
			kb.Row(keyboard.Button(
				fmt.Sprintf("❌ %s · %s", booking.Facility.Name, booking.Date),
				"admin_cancel_booking:"+booking.ID))
		}
	}

	kb.Row(keyboard.Button("⬅️ Назад", "admin_menu"))
	return sb.String(), kb.Build()
}

// HandleAdminCancelBooking запрашивает подтверждение отмены
// Формат: admin_cancel_booking:66f1a2...
func HandleAdminCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	if requireAdmin(ctx, b, callback, h, msg.Chat.ID) == nil {
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
			keyboard.Button("✅ Да, отменить", "admin_confirm_cancel:"+bookingID),
			keyboard.Button("⬅️ Назад", "admin_bookings"),
		).
		Build()

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        "❓ Точно отменить это бронирование?",
		ReplyMarkup: kb,
	})
}

// HandleAdminConfirmCancel отменяет бронирование от имени админа
// Формат: admin_confirm_cancel:66f1a2...
func HandleAdminConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	msg := common.GetMessageFromCallback(callback)
	if msg == nil {
		common.AnswerCallback(ctx, b, callback.ID, "❌ Ошибка")
		return
	}

	session := requireAdmin(ctx, b, callback, h, msg.Chat.ID)
	if session == nil {
		return
	}

	bookingID, err := common.ParseArgFromCallback(callback.Data)
	if err != nil {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	auth := h.Sessions.Auth(session)
	if _, err := h.Bookings.Cancel(ctx, auth, bookingID); err != nil {
		h.Logger.Error("Failed to cancel booking", zap.Error(err), zap.String("booking_id", bookingID))
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorText(err))
		return
	}

	common.AnswerCallback(ctx, b, callback.ID, "✅ Бронирование отменено")

	bookings, err := h.Bookings.All(ctx, auth)
	if err != nil {
		h.Logger.Error("Failed to reload bookings", zap.Error(err))
		return
	}

	text, kb := buildAdminBookingsView(bookings)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
}
