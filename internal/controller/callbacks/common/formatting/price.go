package formatting

import "fmt"

// FormatPrice форматирует цену в таках
func FormatPrice(price int) string {
	return fmt.Sprintf("%d ৳", price)
}

// FormatPricePerHour форматирует почасовую цену
func FormatPricePerHour(price int) string {
	return fmt.Sprintf("%d ৳/час", price)
}

// FormatTotal форматирует итоговую сумму бронирования
func FormatTotal(total int) string {
	return fmt.Sprintf("💰 Итого: %d ৳", total)
}
