// Package services содержит бизнес-логику чтения и изменения записей о подписках,
// включая кеширование списков.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-calendar/internal/models"
)

// SubscriptionRepository определяет методы для работы с записями в хранилище.
type SubscriptionRepository interface {
	// ReadAll возвращает записи из всех годовых секций.
	ReadAll(ctx context.Context) ([]models.Record, error)
	// ReadYear возвращает записи одной годовой секции.
	ReadYear(ctx context.Context, year string) ([]models.Record, error)
	// Create сохраняет новую запись и возвращает её с назначенным ID.
	Create(ctx context.Context, rec models.Record) (models.Record, error)
	// Update применяет частичное обновление и возвращает обновлённую запись.
	Update(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error)
	// Delete удаляет запись по ID.
	Delete(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Кешируется только общий список: годовые списки пришлось бы инвалидировать
// по старому и новому году записи при переносе между секциями, а старый год
// после обновления уже неизвестен.
const (
	cacheKeyAll = "subscriptions:all"
	cacheTTL    = time.Hour
)

// SubscriptionService реализует операции над записями поверх хранилища,
// с необязательным кешем списков. Кеш может быть nil — тогда чтение
// всегда идёт в хранилище.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListAll возвращает все записи, используя кеш или хранилище.
func (s *SubscriptionService) ListAll(ctx context.Context) ([]models.Record, error) {
	var cached []models.Record
	if s.cacheGet(cacheKeyAll, &cached) {
		return cached, nil
	}
	records, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(cacheKeyAll, records)
	return records, nil
}

// ListYear возвращает записи одной годовой секции.
// Валидация формата года — обязанность вызывающей стороны.
func (s *SubscriptionService) ListYear(ctx context.Context, year string) ([]models.Record, error) {
	return s.repo.ReadYear(ctx, year)
}

// Create создает новую запись. Пустой userId заменяется на "default".
func (s *SubscriptionService) Create(ctx context.Context, req models.DummyRecord) (models.Record, error) {
	if _, err := time.Parse(models.DateLayout, req.StartDate); err != nil {
		return models.Record{}, fmt.Errorf("invalid start date: %w", err)
	}
	userID := req.UserID
	if userID == "" {
		userID = models.DefaultUserID
	}

	rec := models.Record{
		UserID:    userID,
		ServiceID: req.ServiceID,
		StartDate: req.StartDate,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Monthly:   req.Monthly,
	}
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return models.Record{}, err
	}

	s.log.Info("created new subscription", slog.String("id", created.ID),
		slog.String("start_date", created.StartDate))
	s.invalidate()
	return created, nil
}

// Update применяет частичное обновление к записи по ID.
func (s *SubscriptionService) Update(ctx context.Context, id string, upd models.UpdateRecord) (models.Record, error) {
	if upd.StartDate != nil {
		if _, err := time.Parse(models.DateLayout, *upd.StartDate); err != nil {
			return models.Record{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	updated, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return models.Record{}, err
	}

	s.log.Info("updated subscription", slog.String("id", id),
		slog.String("start_date", updated.StartDate))
	s.invalidate()
	return updated, nil
}

// Delete удаляет запись по ID.
func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted subscription", slog.String("id", id))
	s.invalidate()
	return nil
}

func (s *SubscriptionService) cacheGet(key string, result any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(key, result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *SubscriptionService) cacheSet(key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(key, value, cacheTTL); err != nil {
		s.log.Warn("failed to cache subscriptions", slog.String("key", key), sl.Err(err))
	}
}

func (s *SubscriptionService) invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(cacheKeyAll); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKeyAll), sl.Err(err))
	}
}
