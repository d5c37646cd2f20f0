package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// SettingsStore персистентное хранилище настроек пользователей
type SettingsStore interface {
	GetByUserID(ctx context.Context, userID int64) (*model.ScheduleSettings, error)
	Upsert(ctx context.Context, settings *model.ScheduleSettings) error
	AddCustomPeriod(ctx context.Context, userID int64, period *model.WeeklyPeriod) error
	DeleteCustomPeriod(ctx context.Context, userID int64, customID uuid.UUID) error
}

// SettingsEvent уведомление об изменении настроек пользователя
type SettingsEvent struct {
	UserID int64
}

// SettingsService выдаёт настройки неизменяемыми снимками и
// оповещает подписчиков об изменениях. Любая мутация создаёт
// новый снимок, старые снимки у вызывающих остаются нетронутыми.
type SettingsService struct {
	store  SettingsStore
	logger *zap.Logger

	mu          sync.RWMutex
	cache       map[int64]*model.ScheduleSettings
	subscribers map[int64]chan SettingsEvent
	nextSubID   int64
}

func NewSettingsService(store SettingsStore, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		store:       store,
		logger:      logger,
		cache:       make(map[int64]*model.ScheduleSettings),
		subscribers: make(map[int64]chan SettingsEvent),
	}
}

// Get возвращает снимок настроек пользователя. Если настроек ещё нет,
// возвращаются дефолтные (группа не выбрана, вся группа, дневной вид).
func (s *SettingsService) Get(ctx context.Context, userID int64) (*model.ScheduleSettings, error) {
	s.mu.RLock()
	cached, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok {
		return cached.Clone(), nil
	}

	settings, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	if settings == nil {
		settings = &model.ScheduleSettings{
			UserID:       userID,
			Subgroup:     model.SubgroupAll,
			ScheduleView: model.ScheduleViewDay,
		}
	}

	s.mu.Lock()
	s.cache[userID] = settings
	s.mu.Unlock()

	return settings.Clone(), nil
}

// SetGroup выбирает учебную группу пользователя
func (s *SettingsService) SetGroup(ctx context.Context, userID int64, groupID string) error {
	return s.mutate(ctx, userID, func(settings *model.ScheduleSettings) {
		settings.SelectedGroupID = groupID
	})
}

// SetSubgroup выбирает подгруппу пользователя
func (s *SettingsService) SetSubgroup(ctx context.Context, userID int64, subgroup model.Subgroup) error {
	return s.mutate(ctx, userID, func(settings *model.ScheduleSettings) {
		settings.Subgroup = subgroup
	})
}

// SetScheduleView переключает режим отображения
func (s *SettingsService) SetScheduleView(ctx context.Context, userID int64, view model.ScheduleView) error {
	return s.mutate(ctx, userID, func(settings *model.ScheduleSettings) {
		settings.ScheduleView = view
	})
}

// AddCustomPeriod добавляет пользовательскую пару
func (s *SettingsService) AddCustomPeriod(ctx context.Context, userID int64, period *model.WeeklyPeriod) error {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if period.EndTime <= period.StartTime {
		return fmt.Errorf("period end time must be after start time")
	}

	if err := s.store.AddCustomPeriod(ctx, userID, period); err != nil {
		return fmt.Errorf("add custom period: %w", err)
	}

	current.CustomPeriods = append(current.CustomPeriods, *period)
	s.replaceSnapshot(current)

	s.logger.Info("Custom period added",
		zap.Int64("user_id", userID),
		zap.String("custom_id", period.CustomID.String()),
		zap.String("subject", period.SubjectName),
	)

	s.notify(userID)
	return nil
}

// RemoveCustomPeriod удаляет пользовательскую пару
func (s *SettingsService) RemoveCustomPeriod(ctx context.Context, userID int64, customID uuid.UUID) error {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteCustomPeriod(ctx, userID, customID); err != nil {
		return fmt.Errorf("remove custom period: %w", err)
	}

	kept := current.CustomPeriods[:0]
	for _, p := range current.CustomPeriods {
		if p.CustomID != customID {
			kept = append(kept, p)
		}
	}
	current.CustomPeriods = kept
	s.replaceSnapshot(current)

	s.notify(userID)
	return nil
}

// Subscribe подписывает на события изменения настроек.
// Возвращает идентификатор подписки для Unsubscribe.
func (s *SettingsService) Subscribe() (int64, <-chan SettingsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	ch := make(chan SettingsEvent, 16)
	s.subscribers[id] = ch

	return id, ch
}

// Unsubscribe снимает подписку и закрывает её канал
func (s *SettingsService) Unsubscribe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

// mutate применяет изменение к копии настроек, сохраняет и подменяет снимок
func (s *SettingsService) mutate(ctx context.Context, userID int64, change func(*model.ScheduleSettings)) error {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	change(current)

	if err := s.store.Upsert(ctx, current); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	s.replaceSnapshot(current)
	s.notify(userID)
	return nil
}

func (s *SettingsService) replaceSnapshot(settings *model.ScheduleSettings) {
	s.mu.Lock()
	s.cache[settings.UserID] = settings
	s.mu.Unlock()
}

// notify рассылает событие подписчикам; медленный подписчик
// пропускает событие, а не блокирует мутацию
func (s *SettingsService) notify(userID int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- SettingsEvent{UserID: userID}:
		default:
		}
	}
}
