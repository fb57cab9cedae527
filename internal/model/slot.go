package model

import "sort"

// AvailabilitySlot фиксированное часовое окно в расписании площадки.
// Времена в формате "HH:MM", поэтому лексикографическое сравнение
// корректно упорядочивает слоты.
type AvailabilitySlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsBooked  bool   `json:"isBooked"`
}

// SlotRange непрерывный диапазон, отправляемый на backend при бронировании
type SlotRange struct {
	StartTime string
	EndTime   string
}

// ToggleSlot добавляет слот в выбор или убирает из него.
// Занятые слоты не выбираются — возвращается исходный выбор.
// Слот считается выбранным при совпадении StartTime.
// Входной slice не мутируется.
func ToggleSlot(selection []AvailabilitySlot, slot AvailabilitySlot) []AvailabilitySlot {
	if slot.IsBooked {
		return selection
	}

	for i, s := range selection {
		if s.StartTime == slot.StartTime {
			result := make([]AvailabilitySlot, 0, len(selection)-1)
			result = append(result, selection[:i]...)
			result = append(result, selection[i+1:]...)
			return result
		}
	}

	result := make([]AvailabilitySlot, 0, len(selection)+1)
	result = append(result, selection...)
	result = append(result, slot)
	return result
}

// IsSelected проверяет выбран ли слот (по StartTime)
func IsSelected(selection []AvailabilitySlot, slot AvailabilitySlot) bool {
	for _, s := range selection {
		if s.StartTime == slot.StartTime {
			return true
		}
	}
	return false
}

// ComputeRange вычисляет границы бронирования: start первого слота и
// end последнего после сортировки по StartTime. Для пустого выбора — nil.
// Непрерывность выбора не проверяется: диапазон из слотов 09:00-10:00 и
// 14:00-15:00 покроет и промежуток между ними.
func ComputeRange(selection []AvailabilitySlot) *SlotRange {
	if len(selection) == 0 {
		return nil
	}

	sorted := make([]AvailabilitySlot, len(selection))
	copy(sorted, selection)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StartTime < sorted[j].StartTime
	})

	return &SlotRange{
		StartTime: sorted[0].StartTime,
		EndTime:   sorted[len(sorted)-1].EndTime,
	}
}

// ComputeTotal считает стоимость выбора: количество слотов × цена за час
func ComputeTotal(selection []AvailabilitySlot, pricePerHour int) int {
	return len(selection) * pricePerHour
}
