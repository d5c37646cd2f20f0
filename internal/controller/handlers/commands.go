package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := update.Message.From

	// Регистрируем пользователя
	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)

	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.reply(ctx, b, update, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я показываю расписание пар и домашние задания.\n\n"+
			"Доступные команды:\n"+
			"/today - Расписание на сегодня\n"+
			"/tomorrow - Расписание на завтра\n"+
			"/week - Расписание на неделю\n"+
			"/date - Расписание на дату (/date 2024-10-19)\n"+
			"/homework - Невыполненные задания\n\n"+
			"Настройка:\n"+
			"/setgroup - Выбрать группу\n"+
			"/setsubgroup - Выбрать подгруппу\n"+
			"/help - Справка",
		registeredUser.FirstName,
	)

	h.reply(ctx, b, update, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"Расписание:\n" +
		"/today - На сегодня\n" +
		"/tomorrow - На завтра\n" +
		"/week - На неделю (с картинкой)\n" +
		"/date ГГГГ-ММ-ДД - На конкретную дату\n\n" +
		"Домашние задания:\n" +
		"/homework - Список невыполненных\n" +
		"/addhw ГГГГ-ММ-ДД Предмет; Что сделать - Добавить\n" +
		"/done номер - Отметить выполненным\n\n" +
		"Настройка:\n" +
		"/setgroup - Выбрать группу\n" +
		"/setsubgroup - Выбрать подгруппу\n\n" +
		"Пары переносов (рабочие субботы) учитываются автоматически."

	h.reply(ctx, b, update, helpText)
}
