package model

type BookingStatus string

const (
	BookingStatusUnconfirmed BookingStatus = "unconfirmed" // Создано, ожидает оплаты
	BookingStatusConfirmed   BookingStatus = "confirmed"   // Подтверждено после оплаты
	BookingStatusCanceled    BookingStatus = "canceled"    // Отменено (терминальный статус)
)

// Booking бронирование площадки на непрерывный диапазон времени.
// Backend отдаёт статус в поле isBooked.
type Booking struct {
	ID            string        `json:"_id"`
	Facility      Facility      `json:"facility"`
	User          User          `json:"user"`
	Date          string        `json:"date"`
	StartTime     string        `json:"startTime"`
	EndTime       string        `json:"endTime"`
	PayableAmount int           `json:"payableAmount"`
	Status        BookingStatus `json:"isBooked"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	UpdatedAt     string        `json:"updatedAt,omitempty"`
}

// IsActive проверяет что бронирование ещё не отменено
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCanceled
}
