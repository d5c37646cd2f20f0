package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/mkozlov/timetable_bot/internal/controller/formatting"
	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// HandleHomework обрабатывает команду /homework
func (h *Handlers) HandleHomework(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := h.resolveUser(ctx, b, update)
	if user == nil {
		return
	}

	assignments, err := h.assignmentService.GetUpcoming(ctx, user.ID, time.Now())
	if err != nil {
		h.logger.Error("Failed to get assignments",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		h.reply(ctx, b, update, "❌ Не удалось получить задания. Попробуйте позже.")
		return
	}

	h.reply(ctx, b, update, formatting.FormatAssignmentList(assignments))
}

// HandleAddHomework обрабатывает команду
// /addhw ГГГГ-ММ-ДД Предмет; Что сделать
func (h *Handlers) HandleAddHomework(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := h.resolveUser(ctx, b, update)
	if user == nil {
		return
	}

	const usage = "Формат: /addhw 2024-10-19 Математика; решить задачи 1-5"

	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/addhw"))
	dateStr, rest, found := strings.Cut(arg, " ")
	if !found {
		h.reply(ctx, b, update, usage)
		return
	}

	dueDate, err := model.ParseDate(dateStr)
	if err != nil {
		h.reply(ctx, b, update, "❌ Не понял дату.\n"+usage)
		return
	}

	course, title, found := strings.Cut(rest, ";")
	if !found {
		h.reply(ctx, b, update, usage)
		return
	}

	assignment, err := h.assignmentService.AddAssignment(ctx, user.ID, course, title, dueDate)
	if err != nil {
		h.logger.Error("Failed to add assignment",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		h.reply(ctx, b, update, "❌ Не удалось добавить задание.\n"+usage)
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf(
		"✅ Задание #%d добавлено: <b>%s</b> — %s (до %s)",
		assignment.ID,
		assignment.CourseKey,
		assignment.Title,
		formatting.FormatDate(assignment.DueDate),
	))
}

// HandleDone обрабатывает команду /done номер
func (h *Handlers) HandleDone(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := h.resolveUser(ctx, b, update)
	if user == nil {
		return
	}

	arg := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/done"))
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		h.reply(ctx, b, update, "Укажите номер задания: /done 12")
		return
	}

	if err := h.assignmentService.CompleteAssignment(ctx, user.ID, id); err != nil {
		h.reply(ctx, b, update, "❌ Задание не найдено.")
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("✅ Задание #%d выполнено", id))
}
