package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/sportbook_bot/internal/model"
)

// BookingData полезная нагрузка создания бронирования: границы
// непрерывного диапазона, вычисленные из выбора слотов
type BookingData struct {
	Facility  string `json:"facility"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// CheckAvailability возвращает слоты площадки на дату (формат YYYY-MM-DD).
// Слоты приходят фиксированной упорядоченной сеткой; клиент их не меняет,
// локален только выбор.
func (c *Client) CheckAvailability(ctx context.Context, auth *Auth, facilityID, date string) ([]model.AvailabilitySlot, error) {
	query := url.Values{}
	query.Set("date", date)
	query.Set("facility", facilityID)

	env, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/check-availability",
		query:  query,
	}, auth)
	if err != nil {
		return nil, err
	}

	var slots []model.AvailabilitySlot
	if err := json.Unmarshal(env.Data, &slots); err != nil {
		return nil, fmt.Errorf("decode availability: %w", err)
	}
	return slots, nil
}

// CreateBooking создаёт бронирование. Повторов нет — защита от
// дублей целиком на сервере.
func (c *Client) CreateBooking(ctx context.Context, auth *Auth, data BookingData) (*model.Booking, error) {
	env, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/bookings",
		json:   data,
	}, auth)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	if err := json.Unmarshal(env.Data, &booking); err != nil {
		return nil, fmt.Errorf("decode booking: %w", err)
	}
	return &booking, nil
}

// Bookings возвращает все бронирования (только админ)
func (c *Client) Bookings(ctx context.Context, auth *Auth) ([]model.Booking, error) {
	return c.bookingList(ctx, auth, "/bookings")
}

// UserBookings возвращает бронирования текущего пользователя
func (c *Client) UserBookings(ctx context.Context, auth *Auth) ([]model.Booking, error) {
	return c.bookingList(ctx, auth, "/bookings/user")
}

func (c *Client) bookingList(ctx context.Context, auth *Auth, path string) ([]model.Booking, error) {
	env, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   path,
	}, auth)
	if err != nil {
		return nil, err
	}

	var bookings []model.Booking
	if err := json.Unmarshal(env.Data, &bookings); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	return bookings, nil
}

// CancelBooking отменяет бронирование
func (c *Client) CancelBooking(ctx context.Context, auth *Auth, id string) (*model.Booking, error) {
	env, err := c.call(ctx, request{
		method: http.MethodDelete,
		path:   "/bookings/" + id,
	}, auth)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	if err := json.Unmarshal(env.Data, &booking); err != nil {
		return nil, fmt.Errorf("decode booking: %w", err)
	}
	return &booking, nil
}
