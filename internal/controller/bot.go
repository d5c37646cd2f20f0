package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mkozlov/timetable_bot/internal/controller/handlers"
	"github.com/mkozlov/timetable_bot/internal/service"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	settingsService *service.SettingsService,
	scheduleService *service.ScheduleService,
	assignmentService *service.AssignmentService,
	logger *zap.Logger,
) *BotController {
	cmdHandlers := handlers.NewHandlers(
		userService,
		settingsService,
		scheduleService,
		assignmentService,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)

	// Расписание
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypeExact, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/tomorrow", bot.MatchTypeExact, c.handlers.HandleTomorrow)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/date", bot.MatchTypePrefix, c.handlers.HandleDate)

	// Домашние задания
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/homework", bot.MatchTypeExact, c.handlers.HandleHomework)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addhw", bot.MatchTypePrefix, c.handlers.HandleAddHomework)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/done", bot.MatchTypePrefix, c.handlers.HandleDone)

	// Настройки
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setgroup", bot.MatchTypeExact, c.handlers.HandleSetGroup)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setsubgroup", bot.MatchTypeExact, c.handlers.HandleSetSubgroup)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "today", Description: "📅 Расписание на сегодня"},
		{Command: "tomorrow", Description: "📅 Расписание на завтра"},
		{Command: "week", Description: "🗓 Расписание на неделю"},
		{Command: "homework", Description: "📌 Домашние задания"},
		{Command: "setgroup", Description: "👥 Выбрать группу"},
		{Command: "setsubgroup", Description: "👤 Выбрать подгруппу"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
