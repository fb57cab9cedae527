package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sportbook_bot/internal/api"
	"github.com/Freeeeeet/sportbook_bot/internal/model"
	"go.uber.org/zap"
)

// FacilityService чтение и администрирование площадок.
// Списки кэшируются; любая мутация инвалидирует кэш, UI отражает
// только подтверждённое сервером состояние.
type FacilityService struct {
	client *api.Client
	cache  *api.Cache
	logger *zap.Logger
}

func NewFacilityService(client *api.Client, cache *api.Cache, logger *zap.Logger) *FacilityService {
	return &FacilityService{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// List возвращает площадки без мягко удалённых
func (s *FacilityService) List(ctx context.Context, auth *api.Auth) ([]model.Facility, error) {
	return api.Fetch(ctx, s.cache, api.CacheKeyFacilityList, func(ctx context.Context) ([]model.Facility, error) {
		facilities, err := s.client.Facilities(ctx, auth)
		if err != nil {
			return nil, err
		}

		active := make([]model.Facility, 0, len(facilities))
		for _, f := range facilities {
			if !f.IsDeleted {
				active = append(active, f)
			}
		}
		return active, nil
	})
}

// Get возвращает площадку по ID
func (s *FacilityService) Get(ctx context.Context, auth *api.Auth, id string) (*model.Facility, error) {
	return api.Fetch(ctx, s.cache, api.FacilityKey(id), func(ctx context.Context) (*model.Facility, error) {
		return s.client.Facility(ctx, auth, id)
	})
}

// Create создаёт площадку (админ). Обязательные поля проверяются до
// отправки; цена должна быть положительным числом.
func (s *FacilityService) Create(ctx context.Context, auth *api.Auth, data api.FacilityData) (*model.Facility, error) {
	if err := validateFacility(data); err != nil {
		return nil, err
	}

	facility, err := s.client.CreateFacility(ctx, auth, data)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(api.CacheKeyFacilityList, api.CacheKeyFacility)

	s.logger.Info("Facility created",
		zap.String("facility_id", facility.ID),
		zap.String("name", facility.Name),
		zap.Int("price_per_hour", facility.PricePerHour),
	)

	return facility, nil
}

// Update обновляет площадку (админ)
func (s *FacilityService) Update(ctx context.Context, auth *api.Auth, id string, data api.FacilityData) (*model.Facility, error) {
	if err := validateFacility(data); err != nil {
		return nil, err
	}

	facility, err := s.client.UpdateFacility(ctx, auth, id, data)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(api.CacheKeyFacilityList, api.FacilityKey(id))

	s.logger.Info("Facility updated", zap.String("facility_id", id))

	return facility, nil
}

// Delete мягко удаляет площадку (админ). Локально ничего не
// удаляется — список инвалидируется и перечитывается с сервера.
func (s *FacilityService) Delete(ctx context.Context, auth *api.Auth, id string) (string, error) {
	message, err := s.client.DeleteFacility(ctx, auth, id)
	if err != nil {
		return "", err
	}

	s.cache.Invalidate(api.CacheKeyFacilityList, api.FacilityKey(id))

	s.logger.Info("Facility deleted", zap.String("facility_id", id))

	return message, nil
}

func validateFacility(data api.FacilityData) error {
	if data.Name == "" {
		return fmt.Errorf("facility name is required")
	}
	if data.Description == "" {
		return fmt.Errorf("facility description is required")
	}
	if data.Location == "" {
		return fmt.Errorf("facility location is required")
	}
	if data.PricePerHour <= 0 {
		return fmt.Errorf("price per hour must be positive")
	}
	return nil
}
