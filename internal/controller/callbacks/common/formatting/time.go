package formatting

import (
	"fmt"
	"time"
)

// DateLayout - формат даты, который ожидает API (YYYY-MM-DD)
const DateLayout = "2006-01-02"

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

var monthNames = map[time.Month]string{
	time.January:   "января",
	time.February:  "февраля",
	time.March:     "марта",
	time.April:     "апреля",
	time.May:       "мая",
	time.June:      "июня",
	time.July:      "июля",
	time.August:    "августа",
	time.September: "сентября",
	time.October:   "октября",
	time.November:  "ноября",
	time.December:  "декабря",
}

// FormatDate форматирует дату для отображения пользователю
// Например: "Пн, 15 сентября"
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s", weekdayNames[t.Weekday()], t.Day(), monthNames[t.Month()])
}

// FormatDateShort форматирует дату кратко для кнопок
// Например: "Пн 15.09"
func FormatDateShort(t time.Time) string {
	return fmt.Sprintf("%s %02d.%02d", weekdayNames[t.Weekday()], t.Day(), int(t.Month()))
}

// FormatSlot форматирует интервал слота
// Например: "10:00 – 11:00"
func FormatSlot(startTime, endTime string) string {
	return fmt.Sprintf("%s – %s", startTime, endTime)
}

// ParseDate парсит дату из callback data
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
