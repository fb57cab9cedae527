package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/user"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Callback Data Patterns
// ========================

// Common navigation
const (
	BackToMain  = "back_to_main"
	BookAnother = "book_another"
)

// User: facilities and booking wizard
const (
	FacilitiesPage = "facilities_page:" // facilities_page:0
	ViewFacility   = "view_facility:"   // view_facility:66f1a2
	BookFacility   = "book_facility:"   // book_facility:66f1a2
	BookDate       = "book_date:"       // book_date:2026-09-15
	ToggleSlot     = "toggle_slot:"     // toggle_slot:10:00
	ConfirmBooking = "confirm_booking"
	ChangeDate     = "change_date"
	CancelFlow     = "cancel_flow"

	MyBookings    = "my_bookings"
	CancelBooking = "cancel_booking:" // cancel_booking:66f1a2
	ConfirmCancel = "confirm_cancel:" // confirm_cancel:66f1a2
	PayBooking    = "pay_booking:"    // pay_booking:66f1a2

	RegisterRole = "register_role:" // register_role:user | register_role:admin
)

// Admin: facility and booking management
const (
	AdminMenu           = "admin_menu"
	AdminFacilities     = "admin_facilities"
	AdminNewFacility    = "admin_new_facility"
	AdminEditFacility   = "admin_edit_facility:"   // admin_edit_facility:66f1a2
	AdminDeleteFacility = "admin_delete_facility:" // admin_delete_facility:66f1a2
	AdminConfirmDelete  = "admin_confirm_delete:"  // admin_confirm_delete:66f1a2
	AdminBookings       = "admin_bookings"
	AdminCancelBooking  = "admin_cancel_booking:" // admin_cancel_booking:66f1a2
	AdminConfirmCancel  = "admin_confirm_cancel:" // admin_confirm_cancel:66f1a2
	FacilitySkipImage   = "facility_skip_image"
)

// ========================
// Main Callback Router
// ========================

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Common Navigation =====
	case data == BackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == BookAnother:
		user.HandleBookAnother(ctx, b, callback, h)
	case data == "noop":
		// Декоративные кнопки (занятые слоты) — просто подтверждаем
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== User: Registration =====
	case strings.HasPrefix(data, RegisterRole):
		user.HandleRegisterRole(ctx, b, callback, h)

	// ===== User: Facilities =====
	case strings.HasPrefix(data, FacilitiesPage):
		user.HandleFacilitiesPage(ctx, b, callback, h)
	case strings.HasPrefix(data, ViewFacility):
		user.HandleViewFacility(ctx, b, callback, h)

	// ===== User: Booking Wizard =====
	case strings.HasPrefix(data, BookFacility):
		user.HandleBookFacility(ctx, b, callback, h)
	case strings.HasPrefix(data, BookDate):
		user.HandleBookDate(ctx, b, callback, h)
	case strings.HasPrefix(data, ToggleSlot):
		user.HandleToggleSlot(ctx, b, callback, h)
	case data == ConfirmBooking:
		user.HandleConfirmBooking(ctx, b, callback, h)
	case data == ChangeDate:
		user.HandleChangeDate(ctx, b, callback, h)
	case data == CancelFlow:
		user.HandleCancelFlow(ctx, b, callback, h)

	// ===== User: My Bookings & Payments =====
	case data == MyBookings:
		user.HandleMyBookings(ctx, b, callback, h)
	case strings.HasPrefix(data, CancelBooking):
		user.HandleCancelBooking(ctx, b, callback, h)
	case strings.HasPrefix(data, ConfirmCancel):
		user.HandleConfirmCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, PayBooking):
		user.HandlePayBooking(ctx, b, callback, h)

	// ===== Admin =====
	case data == AdminMenu:
		admin.HandleAdminMenu(ctx, b, callback, h)
	case data == AdminFacilities:
		admin.HandleAdminFacilities(ctx, b, callback, h)
	case data == AdminNewFacility:
		admin.HandleAdminNewFacility(ctx, b, callback, h)
	case strings.HasPrefix(data, AdminEditFacility):
		admin.HandleAdminEditFacility(ctx, b, callback, h)
	case strings.HasPrefix(data, AdminDeleteFacility):
		admin.HandleAdminDeleteFacility(ctx, b, callback, h)
	case strings.HasPrefix(data, AdminConfirmDelete):
		admin.HandleAdminConfirmDelete(ctx, b, callback, h)
	case data == AdminBookings:
		admin.HandleAdminBookings(ctx, b, callback, h)
	case strings.HasPrefix(data, AdminCancelBooking):
		admin.HandleAdminCancelBooking(ctx, b, callback, h)
	case strings.HasPrefix(data, AdminConfirmCancel):
		admin.HandleAdminConfirmCancel(ctx, b, callback, h)
	case data == FacilitySkipImage:
		admin.HandleFacilitySkipImage(ctx, b, callback, h)

	// ===== Unknown Callback =====
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
