package service

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/mkozlov/timetable_bot/internal/model"
	"go.uber.org/zap"
)

// ScheduleService разрешает расписание на конкретные даты: применяет
// переносы, чётность недель, фильтр подгруппы и пользовательские пары.
// Вся логика собрана здесь, чтобы потребители (экраны бота) оставались
// тонкими и не дублировали фильтрацию.
type ScheduleService struct {
	periodStore   PeriodStore
	recoveryStore RecoveryDayStore
	assignments   AssignmentCounter
	epochMonday   time.Time // понедельник начала семестра
	snapshot      atomic.Pointer[TimetableSnapshot]
	logger        *zap.Logger
}

func NewScheduleService(
	periodStore PeriodStore,
	recoveryStore RecoveryDayStore,
	assignments AssignmentCounter,
	epochMonday time.Time,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		periodStore:   periodStore,
		recoveryStore: recoveryStore,
		assignments:   assignments,
		epochMonday:   model.WeekMonday(epochMonday),
		logger:        logger,
	}
}

// DaySchedule расписание одного календарного дня
type DaySchedule struct {
	Date     time.Time
	Override *model.RecoveryDay // перенос, давший этот день, если был
	Items    []model.ResolvedScheduleItem
}

// Refresh перечитывает расписание и переносы из хранилищ и подменяет
// снимок. До первого успешного Refresh разрешение возвращает пустые дни.
func (s *ScheduleService) Refresh(ctx context.Context) error {
	periods, err := s.periodStore.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load weekly periods: %w", err)
	}

	recoveryDays, err := s.recoveryStore.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("load recovery days: %w", err)
	}

	snap := &TimetableSnapshot{
		Periods:      periods,
		RecoveryDays: recoveryDays,
		LoadedAt:     time.Now(),
	}
	s.snapshot.Store(snap)

	s.logger.Info("Timetable snapshot refreshed",
		zap.Int("periods", len(periods)),
		zap.Int("recovery_days", len(recoveryDays)),
	)

	return nil
}

// Snapshot возвращает текущий снимок (nil до первого Refresh)
func (s *ScheduleService) Snapshot() *TimetableSnapshot {
	return s.snapshot.Load()
}

// IsOddWeek определяет чётность недели даты относительно начала семестра
func (s *ScheduleService) IsOddWeek(date time.Time) bool {
	return model.IsOddWeek(date, s.epochMonday)
}

// ResolveDay строит расписание на дату. Пустой список — нормальный
// результат (выходной без переноса или не заполненная группа), а не
// ошибка: для корректно типизированного входа функция не ошибается
// никогда, неизвестная группа деградирует до фильтра "вся группа".
func (s *ScheduleService) ResolveDay(date time.Time, settings *model.ScheduleSettings) []model.ResolvedScheduleItem {
	items := []model.ResolvedScheduleItem{}
	if settings == nil {
		return items
	}

	snap := s.snapshot.Load()
	if snap == nil {
		return items
	}

	// Эффективный день недели: либо перенос, либо календарный.
	// Выходной без переноса — пар нет.
	override := snap.FindOverride(date, settings.SelectedGroupID)
	effectiveWeekday := date.Weekday()
	if override != nil {
		effectiveWeekday = override.ReplacedWeekday
	} else if effectiveWeekday == time.Saturday || effectiveWeekday == time.Sunday {
		return items
	}

	candidates := mergePeriods(
		basePeriodsFor(snap.Periods, effectiveWeekday, settings.SelectedGroupID),
		customPeriodsFor(settings.CustomPeriods, effectiveWeekday),
	)

	// Чётность считается по календарной дате, не по замещаемому дню:
	// перенос наследует обычный фильтр чётности спроецированных пар
	oddWeek := s.IsOddWeek(date)

	for i := range candidates {
		period := &candidates[i]
		if !period.Parity.Matches(oddWeek) {
			continue
		}
		if !period.Subgroup.AppliesTo(settings.Subgroup) {
			continue
		}
		items = append(items, newResolvedItem(period, override != nil))
	}

	sortResolvedItems(items)
	return items
}

// ResolveDayWithAssignments разрешает день и проставляет счётчики заданий
func (s *ScheduleService) ResolveDayWithAssignments(ctx context.Context, date time.Time, settings *model.ScheduleSettings) []model.ResolvedScheduleItem {
	return s.AnnotateAssignments(ctx, date, settings, s.ResolveDay(date, settings))
}

// ResolveWeek строит расписание недели, содержащей дату: понедельник —
// пятница, плюс выходные дни, на которые назначен перенос
func (s *ScheduleService) ResolveWeek(date time.Time, settings *model.ScheduleSettings) []DaySchedule {
	monday := model.WeekMonday(date)
	days := make([]DaySchedule, 0, 7)

	for offset := 0; offset < 7; offset++ {
		day := monday.AddDate(0, 0, offset)
		weekday := day.Weekday()

		var override *model.RecoveryDay
		if settings != nil {
			if snap := s.snapshot.Load(); snap != nil {
				override = snap.FindOverride(day, settings.SelectedGroupID)
			}
		}

		if (weekday == time.Saturday || weekday == time.Sunday) && override == nil {
			continue
		}

		days = append(days, DaySchedule{
			Date:     day,
			Override: override,
			Items:    s.ResolveDay(day, settings),
		})
	}

	return days
}

// AnnotateAssignments проставляет каждой паре число незакрытых заданий
// по её предмету на эту дату. Порядок пар не меняется. Недоступное
// хранилище заданий оставляет нули и не валит разрешение целиком.
func (s *ScheduleService) AnnotateAssignments(ctx context.Context, date time.Time, settings *model.ScheduleSettings, items []model.ResolvedScheduleItem) []model.ResolvedScheduleItem {
	if s.assignments == nil || settings == nil {
		return items
	}

	for i := range items {
		count, err := s.assignments.CountDueForCourse(ctx, settings.UserID, items[i].SubjectName, date)
		if err != nil {
			s.logger.Warn("Assignment store unavailable, keeping zero count",
				zap.Int64("user_id", settings.UserID),
				zap.String("course_key", items[i].SubjectName),
				zap.Error(err))
			continue
		}
		items[i].AssignmentCount = count
	}

	return items
}

// basePeriodsFor отбирает базовые пары эффективного дня недели.
// Пары с пустой группой общие для всех групп.
func basePeriodsFor(periods []model.WeeklyPeriod, weekday time.Weekday, groupID string) []model.WeeklyPeriod {
	var result []model.WeeklyPeriod
	for _, p := range periods {
		if p.Weekday != weekday {
			continue
		}
		if p.GroupID != "" && p.GroupID != groupID {
			continue
		}
		result = append(result, p)
	}
	return result
}

// customPeriodsFor отбирает пользовательские пары эффективного дня недели
func customPeriodsFor(periods []model.WeeklyPeriod, weekday time.Weekday) []model.WeeklyPeriod {
	var result []model.WeeklyPeriod
	for _, p := range periods {
		if p.Weekday == weekday {
			result = append(result, p)
		}
	}
	return result
}

// mergePeriods сливает базовые пары с пользовательскими:
// пользовательская пара с совпадающим ключом (день, начало, подгруппа)
// замещает базовую, остальные добавляются. Кроме точного совпадения
// ключа ни одна пара не теряется.
func mergePeriods(base, custom []model.WeeklyPeriod) []model.WeeklyPeriod {
	if len(custom) == 0 {
		return base
	}

	merged := make([]model.WeeklyPeriod, len(base))
	copy(merged, base)

	indexByKey := make(map[model.PeriodKey]int, len(base))
	for i := range merged {
		indexByKey[merged[i].MergeKey()] = i
	}

	for _, c := range custom {
		if i, ok := indexByKey[c.MergeKey()]; ok {
			merged[i] = c
			continue
		}
		merged = append(merged, c)
	}

	return merged
}

func newResolvedItem(period *model.WeeklyPeriod, isProjection bool) model.ResolvedScheduleItem {
	return model.ResolvedScheduleItem{
		PeriodID:             period.ID,
		SubjectName:          period.SubjectName,
		TeacherName:          period.TeacherName,
		RoomNumber:           period.RoomNumber,
		StartTime:            period.StartTime,
		EndTime:              period.EndTime,
		Ordinal:              period.Ordinal,
		Subgroup:             period.Subgroup,
		IsCustom:             period.IsCustom,
		Color:                period.Color,
		ParityMatched:        period.Parity,
		IsRecoveryProjection: isProjection,
	}
}

// sortResolvedItems сортирует пары по времени начала, затем по номеру
// пары, затем по названию предмета для полной детерминированности
func sortResolvedItems(items []model.ResolvedScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartTime != items[j].StartTime {
			return items[i].StartTime < items[j].StartTime
		}
		if items[i].Ordinal != items[j].Ordinal {
			return items[i].Ordinal < items[j].Ordinal
		}
		return items[i].SubjectName < items[j].SubjectName
	})
}
