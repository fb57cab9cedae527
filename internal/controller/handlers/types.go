package handlers

import (
	"github.com/Freeeeeet/sportbook_bot/internal/bookingflow"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/state"
	"github.com/Freeeeeet/sportbook_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	sessions     *service.SessionService
	facilities   *service.FacilityService
	bookings     *service.BookingService
	flows        *bookingflow.Manager
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	sessions *service.SessionService,
	facilities *service.FacilityService,
	bookings *service.BookingService,
	flows *bookingflow.Manager,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		sessions:     sessions,
		facilities:   facilities,
		bookings:     bookings,
		flows:        flows,
		stateManager: stateManager,
		logger:       logger,
	}
}
