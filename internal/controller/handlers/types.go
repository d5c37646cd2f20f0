package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mkozlov/timetable_bot/internal/model"
	"github.com/mkozlov/timetable_bot/internal/service"
	"go.uber.org/zap"
)

type Handlers struct {
	userService       *service.UserService
	settingsService   *service.SettingsService
	scheduleService   *service.ScheduleService
	assignmentService *service.AssignmentService
	logger            *zap.Logger
}

func NewHandlers(
	userService *service.UserService,
	settingsService *service.SettingsService,
	scheduleService *service.ScheduleService,
	assignmentService *service.AssignmentService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:       userService,
		settingsService:   settingsService,
		scheduleService:   scheduleService,
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// resolveUser получает внутреннего пользователя по отправителю сообщения.
// Незарегистрированному пользователю предлагается /start.
func (h *Handlers) resolveUser(ctx context.Context, b *bot.Bot, update *models.Update) *model.User {
	user, err := h.userService.GetByTelegramID(ctx, update.Message.From.ID)
	if err != nil {
		h.logger.Error("Failed to get user", zap.Error(err))
		h.reply(ctx, b, update, "❌ Произошла ошибка. Попробуйте позже.")
		return nil
	}

	if user == nil {
		h.reply(ctx, b, update, "Сначала выполните /start")
		return nil
	}

	return user
}

// userSettings получает снимок настроек пользователя
func (h *Handlers) userSettings(ctx context.Context, b *bot.Bot, update *models.Update, userID int64) *model.ScheduleSettings {
	settings, err := h.settingsService.Get(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to get settings",
			zap.Int64("user_id", userID),
			zap.Error(err))
		h.reply(ctx, b, update, "❌ Произошла ошибка. Попробуйте позже.")
		return nil
	}
	return settings
}

// reply отправляет ответ в чат сообщения
func (h *Handlers) reply(ctx context.Context, b *bot.Bot, update *models.Update, text string) {
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
}
