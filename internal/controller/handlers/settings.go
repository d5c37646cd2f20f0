package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mkozlov/timetable_bot/internal/controller/keyboard"
	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// Callback data patterns
const (
	SelectGroup    = "select_group:"    // select_group:ИС-21
	SelectSubgroup = "select_subgroup:" // select_subgroup:1
)

// HandleSetGroup обрабатывает команду /setgroup
func (h *Handlers) HandleSetGroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if user := h.resolveUser(ctx, b, update); user == nil {
		return
	}

	snap := h.scheduleService.Snapshot()
	if snap == nil || len(snap.KnownGroups()) == 0 {
		h.reply(ctx, b, update, "Расписание ещё не загружено, попробуйте позже.")
		return
	}

	kb := keyboard.NewBuilder()
	for _, group := range snap.KnownGroups() {
		kb.Row(keyboard.Button(group, SelectGroup+group))
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Выберите вашу группу:",
		ReplyMarkup: kb.Build(),
	})
}

// HandleSetSubgroup обрабатывает команду /setsubgroup
func (h *Handlers) HandleSetSubgroup(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if user := h.resolveUser(ctx, b, update); user == nil {
		return
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("1-я подгруппа", SelectSubgroup+"1"),
			keyboard.Button("2-я подгруппа", SelectSubgroup+"2"),
		).
		Row(keyboard.Button("Вся группа", SelectSubgroup+"all"))

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Выберите подгруппу:",
		ReplyMarkup: kb.Build(),
	})
}

// HandleCallbackQuery обрабатывает нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	data := callback.Data

	switch {
	case strings.HasPrefix(data, SelectGroup):
		h.handleSelectGroup(ctx, b, callback, strings.TrimPrefix(data, SelectGroup))
	case strings.HasPrefix(data, SelectSubgroup):
		h.handleSelectSubgroup(ctx, b, callback, strings.TrimPrefix(data, SelectSubgroup))
	default:
		h.logger.Warn("Unknown callback data", zap.String("data", data))
		h.answerCallback(ctx, b, callback.ID, "")
	}
}

func (h *Handlers) handleSelectGroup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, groupID string) {
	user, err := h.userService.GetByTelegramID(ctx, callback.From.ID)
	if err != nil || user == nil {
		h.answerCallback(ctx, b, callback.ID, "Сначала выполните /start")
		return
	}

	if err := h.settingsService.SetGroup(ctx, user.ID, groupID); err != nil {
		h.logger.Error("Failed to set group",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		h.answerCallback(ctx, b, callback.ID, "❌ Не удалось сохранить")
		return
	}

	h.answerCallback(ctx, b, callback.ID, fmt.Sprintf("Группа %s выбрана", groupID))

	if msg := callback.Message.Message; msg != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   fmt.Sprintf("✅ Группа: %s\nТеперь выберите подгруппу: /setsubgroup", groupID),
		})
	}
}

func (h *Handlers) handleSelectSubgroup(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, value string) {
	user, err := h.userService.GetByTelegramID(ctx, callback.From.ID)
	if err != nil || user == nil {
		h.answerCallback(ctx, b, callback.ID, "Сначала выполните /start")
		return
	}

	subgroup := model.SubgroupAll
	if value != "all" {
		parsed, err := model.ParseSubgroup(value)
		if err != nil {
			h.answerCallback(ctx, b, callback.ID, "❌ Неизвестная подгруппа")
			return
		}
		subgroup = parsed
	}

	if err := h.settingsService.SetSubgroup(ctx, user.ID, subgroup); err != nil {
		h.logger.Error("Failed to set subgroup",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		h.answerCallback(ctx, b, callback.ID, "❌ Не удалось сохранить")
		return
	}

	text := "✅ Показываю пары всей группы"
	if subgroup != model.SubgroupAll {
		text = fmt.Sprintf("✅ Подгруппа: %s", subgroup)
	}

	h.answerCallback(ctx, b, callback.ID, "Сохранено")

	if msg := callback.Message.Message; msg != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   text + "\nРасписание на сегодня: /today",
		})
	}
}

// answerCallback отвечает на callback query (без alert)
func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}
