package handlers

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mkozlov/timetable_bot/internal/controller/formatting"
	"github.com/mkozlov/timetable_bot/internal/controller/weekimage"
	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// HandleToday обрабатывает команду /today
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.sendDaySchedule(ctx, b, update, model.DateOnly(time.Now()))
}

// HandleTomorrow обрабатывает команду /tomorrow
func (h *Handlers) HandleTomorrow(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.sendDaySchedule(ctx, b, update, model.DateOnly(time.Now()).AddDate(0, 0, 1))
}

// HandleDate обрабатывает команду /date ГГГГ-ММ-ДД
func (h *Handlers) HandleDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/date"))
	if arg == "" {
		h.reply(ctx, b, update, "Укажите дату: /date 2024-10-19")
		return
	}

	date, err := model.ParseDate(arg)
	if err != nil {
		h.reply(ctx, b, update, "❌ Не понял дату. Формат: /date 2024-10-19")
		return
	}

	h.sendDaySchedule(ctx, b, update, date)
}

// HandleWeek обрабатывает команду /week
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := h.resolveUser(ctx, b, update)
	if user == nil {
		return
	}

	settings := h.userSettings(ctx, b, update, user.ID)
	if settings == nil {
		return
	}

	now := model.DateOnly(time.Now())
	days := h.scheduleService.ResolveWeek(now, settings)
	for i := range days {
		days[i].Items = h.scheduleService.AnnotateAssignments(ctx, days[i].Date, settings, days[i].Items)
	}

	h.reply(ctx, b, update, formatting.FormatWeekSchedule(days, h.scheduleService.IsOddWeek))

	// Картинка недели вдобавок к тексту
	imageData, err := weekimage.Render(days, now)
	if err != nil {
		h.logger.Warn("Failed to render week image", zap.Error(err))
		return
	}

	b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: update.Message.Chat.ID,
		Photo:  &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(imageData)},
	})
}

// sendDaySchedule разрешает расписание на дату и отправляет его в чат
func (h *Handlers) sendDaySchedule(ctx context.Context, b *bot.Bot, update *models.Update, date time.Time) {
	if update.Message == nil {
		return
	}

	user := h.resolveUser(ctx, b, update)
	if user == nil {
		return
	}

	settings := h.userSettings(ctx, b, update, user.ID)
	if settings == nil {
		return
	}

	if settings.SelectedGroupID == "" {
		h.reply(ctx, b, update, "Сначала выберите группу: /setgroup")
		return
	}

	items := h.scheduleService.ResolveDayWithAssignments(ctx, date, settings)

	var override *model.RecoveryDay
	if snap := h.scheduleService.Snapshot(); snap != nil {
		override = snap.FindOverride(date, settings.SelectedGroupID)
	}

	h.reply(ctx, b, update, formatting.FormatDaySchedule(date, items, h.scheduleService.IsOddWeek(date), override))
}
