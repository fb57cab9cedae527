package service

import (
	"context"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"go.uber.org/zap"
)

// BookingService доступность слотов и бронирования поверх backend API.
// Создание и отмена инвалидируют кэшированные списки бронирований и
// доступность.
type BookingService struct {
	client *api.Client
	cache  *api.Cache
	logger *zap.Logger
}

func NewBookingService(client *api.Client, cache *api.Cache, logger *zap.Logger) *BookingService {
	return &BookingService{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Availability возвращает сетку слотов площадки на дату (YYYY-MM-DD)
func (s *BookingService) Availability(ctx context.Context, auth *api.Auth, facilityID, date string) ([]model.AvailabilitySlot, error) {
	key := api.AvailabilityKey(facilityID, date)
	return api.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]model.AvailabilitySlot, error) {
		return s.client.CheckAvailability(ctx, auth, facilityID, date)
	})
}

// Create создаёт бронирование на непрерывный диапазон.
// Автоматических повторов нет: дубли предотвращает только сервер.
func (s *BookingService) Create(ctx context.Context, auth *api.Auth, data api.BookingData) (*model.Booking, error) {
	booking, err := s.client.CreateBooking(ctx, auth, data)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		api.CacheKeyAllBookings,
		api.CacheKeyUserBookings,
		api.AvailabilityKey(data.Facility, data.Date),
	)

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("facility_id", data.Facility),
		zap.String("date", data.Date),
		zap.String("start_time", data.StartTime),
		zap.String("end_time", data.EndTime),
		zap.Int("payable_amount", booking.PayableAmount),
	)

	return booking, nil
}

// My возвращает бронирования текущего пользователя
func (s *BookingService) My(ctx context.Context, auth *api.Auth, chatID int64) ([]model.Booking, error) {
	return api.Fetch(ctx, s.cache, api.UserBookingsKey(chatID), func(ctx context.Context) ([]model.Booking, error) {
		return s.client.UserBookings(ctx, auth)
	})
}

// All возвращает все бронирования (только админ)
func (s *BookingService) All(ctx context.Context, auth *api.Auth) ([]model.Booking, error) {
	return api.Fetch(ctx, s.cache, api.CacheKeyAllBookings, func(ctx context.Context) ([]model.Booking, error) {
		return s.client.Bookings(ctx, auth)
	})
}

// Cancel отменяет бронирование и инвалидирует списки
func (s *BookingService) Cancel(ctx context.Context, auth *api.Auth, bookingID string) (*model.Booking, error) {
	booking, err := s.client.CancelBooking(ctx, auth, bookingID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(
		api.CacheKeyAllBookings,
		api.CacheKeyUserBookings,
		api.CacheKeyAvailability,
	)

	s.logger.Info("Booking canceled", zap.String("booking_id", bookingID))

	return booking, nil
}

// InitiatePayment начинает оплату и возвращает платёжный URL
func (s *BookingService) InitiatePayment(ctx context.Context, auth *api.Auth, bookingID string) (string, error) {
	url, err := s.client.InitiatePayment(ctx, auth, bookingID)
	if err != nil {
		return "", err
	}

	s.logger.Info("Payment initiated", zap.String("booking_id", bookingID))
	return url, nil
}

// VerifyPayment проверяет транзакцию; статус бронирования мог
// измениться, поэтому списки инвалидируются
func (s *BookingService) VerifyPayment(ctx context.Context, auth *api.Auth, transactionID string) (*model.Booking, error) {
	booking, err := s.client.VerifyPayment(ctx, auth, transactionID)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(api.CacheKeyAllBookings, api.CacheKeyUserBookings)

	return booking, nil
}
