package formatting

import "github.com/Freeeeeet/sportbook_bot/internal/model"

// FormatBookingStatus возвращает статус бронирования с эмодзи
func FormatBookingStatus(status model.BookingStatus) string {
	switch status {
	case model.BookingStatusConfirmed:
		return "✅ Подтверждено"
	case model.BookingStatusCanceled:
		return "❌ Отменено"
	case model.BookingStatusUnconfirmed:
		return "⏳ Ожидает оплаты"
	default:
		return string(status)
	}
}
