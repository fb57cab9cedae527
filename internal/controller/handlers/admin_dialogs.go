package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/sportbook_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Диалог площадки: название → описание → цена → адрес → картинка.
// Начинается из админки (admin_new_facility / admin_edit_facility).

func (h *Handlers) handleFacilityNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	name := strings.TrimSpace(update.Message.Text)

	if name == "" || len(name) > maxFacilityNameLen {
		h.sendMessage(ctx, b, chatID, "⚠️ Введите название площадки (до 100 символов):")
		return
	}

	h.stateManager.SetData(chatID, "name", name)
	h.stateManager.SetState(chatID, state.StateFacilityDescription)

	h.sendMessage(ctx, b, chatID, "Введите описание:")
}

func (h *Handlers) handleFacilityDescriptionStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	description := strings.TrimSpace(update.Message.Text)

	if description == "" || len(description) > maxDescriptionLength {
		h.sendMessage(ctx, b, chatID, "⚠️ Введите описание (до 1000 символов):")
		return
	}

	h.stateManager.SetData(chatID, "description", description)
	h.stateManager.SetState(chatID, state.StateFacilityPrice)

	h.sendMessage(ctx, b, chatID, "Введите цену за час в таках (целое число):")
}

func (h *Handlers) handleFacilityPriceStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	price, err := strconv.Atoi(strings.TrimSpace(update.Message.Text))
	if err != nil || price <= 0 || price > maxPricePerHour {
		h.sendMessage(ctx, b, chatID, "⚠️ Цена — положительное целое число. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(chatID, "price", price)
	h.stateManager.SetState(chatID, state.StateFacilityLocation)

	h.sendMessage(ctx, b, chatID, "Введите адрес площадки:")
}

func (h *Handlers) handleFacilityLocationStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	location := strings.TrimSpace(update.Message.Text)

	if location == "" || len(location) > maxLocationLength {
		h.sendMessage(ctx, b, chatID, "⚠️ Введите адрес площадки:")
		return
	}

	h.stateManager.SetData(chatID, "location", location)
	h.stateManager.SetState(chatID, state.StateFacilityImage)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("⏭ Без картинки", "facility_skip_image")).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Пришлите URL картинки или пропустите этот шаг:",
		ReplyMarkup: kb,
	})
}

func (h *Handlers) handleFacilityImageStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	image := strings.TrimSpace(update.Message.Text)

	if len(image) > maxImageURLLength || (!strings.HasPrefix(image, "http://") && !strings.HasPrefix(image, "https://")) {
		h.sendMessage(ctx, b, chatID, "⚠️ Нужен URL, начинающийся с http:// или https://. Или нажмите «Без картинки».")
		return
	}

	admin.CompleteFacilityDialog(ctx, b, h.callbackDeps(), chatID, image)
}

// callbackDeps собирает зависимости в форме, которую ждут callback
// handlers — диалог площадки завершается их общим кодом
func (h *Handlers) callbackDeps() *callbacktypes.Handler {
	return &callbacktypes.Handler{
		Sessions:     h.sessions,
		Facilities:   h.facilities,
		Bookings:     h.bookings,
		Flows:        h.flows,
		StateManager: state.NewAdapter(h.stateManager),
		Logger:       h.logger,
	}
}
