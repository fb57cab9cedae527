package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/sportbook_bot/internal/model"
)

// InitiatePayment начинает оплату бронирования и возвращает URL
// платёжной страницы
func (c *Client) InitiatePayment(ctx context.Context, auth *Auth, bookingID string) (string, error) {
	env, err := c.call(ctx, request{
		method: http.MethodPost,
		path:   "/payment/initiate/" + bookingID,
	}, auth)
	if err != nil {
		return "", err
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return "", fmt.Errorf("decode payment url: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("payment response without url")
	}
	return result.URL, nil
}

// VerifyPayment проверяет транзакцию и возвращает обновлённое бронирование
func (c *Client) VerifyPayment(ctx context.Context, auth *Auth, transactionID string) (*model.Booking, error) {
	env, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/payment/verify/" + transactionID,
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
