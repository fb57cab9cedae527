package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Freeeeeet/sportbook_bot/internal/model"
)

// FacilityData поля создания/обновления площадки. Image — URL картинки,
// ImageFile — загружаемый файл; при наличии файла запрос уходит как
// multipart/form-data, иначе JSON.
type FacilityData struct {
	Name         string
	Description  string
	PricePerHour int
	Location     string
	Image        string
	ImageFile    *FormFile
}

// Facilities возвращает список площадок. Мягко удалённые площадки
// backend в выдачу не включает.
func (c *Client) Facilities(ctx context.Context, auth *Auth) ([]model.Facility, error) {
	env, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/facility",
	}, auth)
	if err != nil {
		return nil, err
	}

	var facilities []model.Facility
	if err := json.Unmarshal(env.Data, &facilities); err != nil {
		return nil, fmt.Errorf("decode facilities: %w", err)
	}
	return facilities, nil
}

// Facility возвращает площадку по ID
func (c *Client) Facility(ctx context.Context, auth *Auth, id string) (*model.Facility, error) {
	env, err := c.call(ctx, request{
		method: http.MethodGet,
		path:   "/facility/" + id,
	}, auth)
	if err != nil {
		return nil, err
	}

	var facility model.Facility
	if err := json.Unmarshal(env.Data, &facility); err != nil {
		return nil, fmt.Errorf("decode facility: %w", err)
	}
	return &facility, nil
}

// CreateFacility создаёт площадку (только админ)
func (c *Client) CreateFacility(ctx context.Context, auth *Auth, data FacilityData) (*model.Facility, error) {
	env, err := c.call(ctx, facilityRequest(http.MethodPost, "/facility", data), auth)
	if err != nil {
		return nil, err
	}

	var facility model.Facility
	if err := json.Unmarshal(env.Data, &facility); err != nil {
		return nil, fmt.Errorf("decode facility: %w", err)
	}
	return &facility, nil
}

// UpdateFacility обновляет площадку (только админ)
func (c *Client) UpdateFacility(ctx context.Context, auth *Auth, id string, data FacilityData) (*model.Facility, error) {
	env, err := c.call(ctx, facilityRequest(http.MethodPut, "/facility/"+id, data), auth)
	if err != nil {
		return nil, err
	}

	var facility model.Facility
	if err := json.Unmarshal(env.Data, &facility); err != nil {
		return nil, fmt.Errorf("decode facility: %w", err)
	}
	return &facility, nil
}

// DeleteFacility мягко удаляет площадку (только админ).
// Клиент ничего не удаляет локально — после успеха списки
// инвалидируются и перечитываются.
func (c *Client) DeleteFacility(ctx context.Context, auth *Auth, id string) (string, error) {
	env, err := c.call(ctx, request{
		method: http.MethodDelete,
		path:   "/facility/" + id,
	}, auth)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func facilityRequest(method, path string, data FacilityData) request {
	if data.ImageFile == nil {
		// Без файла достаточно JSON
		return request{
			method: method,
			path:   path,
			json: map[string]any{
				"name":         data.Name,
				"description":  data.Description,
				"pricePerHour": data.PricePerHour,
				"location":     data.Location,
				"image":        data.Image,
			},
		}
	}

	return request{
		method: method,
		path:   path,
		form: &Form{
			Fields: map[string]string{
				"name":         data.Name,
				"description":  data.Description,
				"pricePerHour": strconv.Itoa(data.PricePerHour),
				"location":     data.Location,
			},
			File: data.ImageFile,
		},
	}
}
