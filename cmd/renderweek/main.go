package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/mkozlov/timetable_bot/internal/app"
	"github.com/mkozlov/timetable_bot/internal/controller/weekimage"
	"github.com/mkozlov/timetable_bot/internal/model"
	"github.com/mkozlov/timetable_bot/internal/service"
)

// Утилита для проверки отрисовки недели без Telegram и базы:
// собирает тестовое расписание, разрешает неделю и пишет week.png

type fixturePeriods struct{ periods []model.WeeklyPeriod }

func (f fixturePeriods) GetAll(ctx context.Context) ([]model.WeeklyPeriod, error) {
	return f.periods, nil
}

type fixtureRecoveryDays struct{ days []model.RecoveryDay }

func (f fixtureRecoveryDays) GetActive(ctx context.Context) ([]model.RecoveryDay, error) {
	return f.days, nil
}

func main() {
	logger := app.NewLogger("development")
	defer logger.Sync()

	epoch, _ := model.ParseDate("2024-09-02")
	saturday, _ := model.ParseDate("2024-09-14")

	periods := fixturePeriods{periods: []model.WeeklyPeriod{
		{ID: 1, GroupID: "ИС-21", Weekday: time.Monday, StartTime: model.NewTimeOfDay(9, 0), EndTime: model.NewTimeOfDay(10, 30), SubjectName: "Математика", RoomNumber: "301", Parity: model.ParityAll, Ordinal: 1},
		{ID: 2, GroupID: "ИС-21", Weekday: time.Monday, StartTime: model.NewTimeOfDay(10, 45), EndTime: model.NewTimeOfDay(12, 15), SubjectName: "Физика", RoomNumber: "118", Parity: model.ParityOdd, Ordinal: 2},
		{ID: 3, GroupID: "ИС-21", Weekday: time.Wednesday, StartTime: model.NewTimeOfDay(13, 0), EndTime: model.NewTimeOfDay(14, 30), SubjectName: "Информатика", RoomNumber: "404", Parity: model.ParityAll, Subgroup: model.SubgroupFirst, Ordinal: 3},
		{ID: 4, GroupID: "ИС-21", Weekday: time.Friday, StartTime: model.NewTimeOfDay(9, 0), EndTime: model.NewTimeOfDay(10, 30), SubjectName: "История", RoomNumber: "202", Parity: model.ParityAll, Ordinal: 1},
	}}

	recoveryDays := fixtureRecoveryDays{days: []model.RecoveryDay{
		{ID: 1, Date: saturday, ReplacedWeekday: time.Monday, Reason: "рабочая суббота", IsActive: true},
	}}

	scheduleService := service.NewScheduleService(periods, recoveryDays, nil, epoch, logger)
	if err := scheduleService.Refresh(context.Background()); err != nil {
		log.Fatalf("refresh snapshot: %v", err)
	}

	settings := &model.ScheduleSettings{
		UserID:          1,
		SelectedGroupID: "ИС-21",
		Subgroup:        model.SubgroupFirst,
	}

	days := scheduleService.ResolveWeek(saturday, settings)

	imageData, err := weekimage.Render(days, model.DateOnly(time.Now()))
	if err != nil {
		log.Fatalf("render week image: %v", err)
	}

	if err := os.WriteFile("week.png", imageData, 0o644); err != nil {
		log.Fatalf("write week.png: %v", err)
	}

	log.Printf("week.png written (%d bytes)", len(imageData))
}
