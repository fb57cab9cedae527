package callbacks

import (
	"context"

	"github.com/Freeeeeet/sportbook_bot/internal/bookingflow"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sportbook_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ========================
// Handler with Dependencies
// ========================

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// StateManager интерфейс для управления состоянием пользователей
type StateManager = callbacktypes.StateManager

// UserState представляет текущее состояние пользователя в диалоге
type UserState = callbacktypes.UserState

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	sessions *service.SessionService,
	facilities *service.FacilityService,
	bookings *service.BookingService,
	flows *bookingflow.Manager,
	stateManager callbacktypes.StateManager,
	logger *zap.Logger,
) *Handler {
	inner := &callbacktypes.Handler{
		Sessions:     sessions,
		Facilities:   facilities,
		Bookings:     bookings,
		Flows:        flows,
		StateManager: stateManager,
		Logger:       logger,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	// Вызываем роутер
	Route(ctx, b, callback, h.Handler)
}
