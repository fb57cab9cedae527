package callbacktypes

import (
	"github.com/Freeeeeet/sportbook_bot/internal/bookingflow"
	"github.com/Freeeeeet/sportbook_bot/internal/service"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// StateManager интерфейс для управления состоянием диалогов
type StateManager interface {
	ClearState(chatID int64)
	GetState(chatID int64) UserState
	SetState(chatID int64, state UserState)
	SetData(chatID int64, key string, value interface{})
	GetData(chatID int64, key string) (interface{}, bool)
	GetAllData(chatID int64) map[string]interface{}
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	Sessions     *service.SessionService
	Facilities   *service.FacilityService
	Bookings     *service.BookingService
	Flows        *bookingflow.Manager
	StateManager StateManager
	Logger       *zap.Logger
}
