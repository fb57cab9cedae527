package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/sportbook_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
)

// Утилита для ручной проверки рендера сетки слотов:
// go run ./cmd/test_slots_image && open slots.png
func main() {
	slots := []model.AvailabilitySlot{
		{StartTime: "08:00", EndTime: "09:00", IsBooked: false},
		{StartTime: "09:00", EndTime: "10:00", IsBooked: true},
		{StartTime: "10:00", EndTime: "11:00", IsBooked: false},
		{StartTime: "11:00", EndTime: "12:00", IsBooked: false},
		{StartTime: "12:00", EndTime: "13:00", IsBooked: true},
		{StartTime: "13:00", EndTime: "14:00", IsBooked: false},
		{StartTime: "14:00", EndTime: "15:00", IsBooked: false},
		{StartTime: "15:00", EndTime: "16:00", IsBooked: false},
		{StartTime: "16:00", EndTime: "17:00", IsBooked: true},
		{StartTime: "17:00", EndTime: "18:00", IsBooked: false},
		{StartTime: "18:00", EndTime: "19:00", IsBooked: false},
		{StartTime: "19:00", EndTime: "20:00", IsBooked: false},
	}

	// Пара выбранных слотов, чтобы увидеть все три цвета
	selected := []model.AvailabilitySlot{
		{StartTime: "10:00", EndTime: "11:00"},
		{StartTime: "11:00", EndTime: "12:00"},
	}

	imageData, err := common.GenerateSlotsImage("Футбольное поле «Арена»", time.Now(), slots, selected)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	filename := "slots.png"
	if err := os.WriteFile(filename, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение сохранено в %s\n", filename)
	fmt.Printf("📊 Слотов: %d, выбрано: %d\n", len(slots), len(selected))
}
