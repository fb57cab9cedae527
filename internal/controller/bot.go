package controller

import (
	"context"

	"github.com/Freeeeeet/sportbook_bot/internal/bookingflow"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/handlers"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/state"
	"github.com/Freeeeeet/sportbook_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	sessions *service.SessionService,
	facilities *service.FacilityService,
	bookings *service.BookingService,
	logger *zap.Logger,
) *BotController {
	// Менеджер состояний диалогов и мастеров бронирования
	stateManager := state.NewManager()
	flows := bookingflow.NewManager()

	// Обработчики команд
	cmdHandlers := handlers.NewHandlers(
		sessions,
		facilities,
		bookings,
		flows,
		stateManager,
		logger,
	)

	// Адаптер для callback handlers
	stateAdapter := state.NewAdapter(stateManager)

	// Callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		sessions,
		facilities,
		bookings,
		flows,
		stateAdapter,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Регистрируем команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/register", bot.MatchTypeExact, c.handlers.HandleRegister)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/facilities", bot.MatchTypeExact, c.handlers.HandleFacilities)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mybookings", bot.MatchTypeExact, c.handlers.HandleMyBookings)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды для администраторов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/admin", bot.MatchTypeExact, c.handlers.HandleAdmin)

	// /verify принимает аргумент, поэтому матчим по префиксу
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/verify", bot.MatchTypePrefix, c.handlers.HandleVerify)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Главное меню"},
		{Command: "facilities", Description: "🏟 Список площадок"},
		{Command: "book", Description: "📅 Забронировать площадку"},
		{Command: "mybookings", Description: "📋 Мои бронирования"},
		{Command: "login", Description: "🔐 Войти"},
		{Command: "register", Description: "📝 Зарегистрироваться"},
		{Command: "logout", Description: "👋 Выйти"},
		{Command: "admin", Description: "⚙️ Админка"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
