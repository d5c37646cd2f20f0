package app

import (
	"context"
	"time"

	"github.com/mkozlov/timetable_bot/internal/service"
	"go.uber.org/zap"
)

// Refresher периодически перечитывает снимок расписания из базы.
// Между обновлениями снимок неизменен для всей сессии.
type Refresher struct {
	scheduleService *service.ScheduleService
	interval        time.Duration
	logger          *zap.Logger
	stopChan        chan struct{}
}

// NewRefresher создаёт новый обновлятор снимка
func NewRefresher(scheduleService *service.ScheduleService, interval time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{
		scheduleService: scheduleService,
		interval:        interval,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start запускает фоновое обновление
func (r *Refresher) Start(ctx context.Context) {
	r.logger.Info("Starting timetable refresher")

	go r.run(ctx)
}

// Stop останавливает фоновое обновление
func (r *Refresher) Stop() {
	r.logger.Info("Stopping timetable refresher")
	close(r.stopChan)
}

func (r *Refresher) run(ctx context.Context) {
	// Первое обновление сразу при старте
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.stopChan:
			r.logger.Info("Timetable refresh task stopped")
			return
		case <-ctx.Done():
			r.logger.Info("Timetable refresh task cancelled")
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	if err := r.scheduleService.Refresh(ctx); err != nil {
		// Старый снимок остаётся рабочим до следующей попытки
		r.logger.Error("Failed to refresh timetable snapshot", zap.Error(err))
		return
	}
}
