package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mkozlov/timetable_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPeriodStore struct {
	periods []model.WeeklyPeriod
}

func (s *stubPeriodStore) GetAll(ctx context.Context) ([]model.WeeklyPeriod, error) {
	return s.periods, nil
}

type stubRecoveryStore struct {
	days []model.RecoveryDay
}

func (s *stubRecoveryStore) GetActive(ctx context.Context) ([]model.RecoveryDay, error) {
	return s.days, nil
}

type stubAssignmentCounter struct {
	counts map[string]int
	err    error
}

func (s *stubAssignmentCounter) CountDueForCourse(ctx context.Context, userID int64, courseKey string, date time.Time) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.counts[courseKey], nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

// Семестр осени 2024: опорный понедельник 2024-09-02
func newTestService(t *testing.T, periods []model.WeeklyPeriod, days []model.RecoveryDay, counter AssignmentCounter) *ScheduleService {
	t.Helper()

	svc := NewScheduleService(
		&stubPeriodStore{periods: periods},
		&stubRecoveryStore{days: days},
		counter,
		mustDate(t, "2024-09-02"),
		zap.NewNop(),
	)
	require.NoError(t, svc.Refresh(context.Background()))

	return svc
}

func period(id int64, weekday time.Weekday, start, end string, subject string, mods ...func(*model.WeeklyPeriod)) model.WeeklyPeriod {
	startTod, err := model.ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	endTod, err := model.ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}

	p := model.WeeklyPeriod{
		ID:          id,
		GroupID:     "ИС-21",
		Weekday:     weekday,
		StartTime:   startTod,
		EndTime:     endTod,
		SubjectName: subject,
		Parity:      model.ParityAll,
	}
	for _, mod := range mods {
		mod(&p)
	}
	return p
}

func testSettings() *model.ScheduleSettings {
	return &model.ScheduleSettings{
		UserID:          1,
		SelectedGroupID: "ИС-21",
		Subgroup:        model.SubgroupSecond,
	}
}

func TestResolveDaySortsByStartThenOrdinalThenSubject(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "10:45", "12:15", "Физика"),
		period(2, time.Monday, "09:00", "10:30", "Химия", func(p *model.WeeklyPeriod) { p.Ordinal = 2 }),
		// Пересекающиеся пары не теряются, а сортируются детерминированно
		period(3, time.Monday, "09:00", "10:30", "Биология", func(p *model.WeeklyPeriod) { p.Ordinal = 1 }),
		period(4, time.Monday, "09:00", "10:30", "Алгебра", func(p *model.WeeklyPeriod) { p.Ordinal = 2 }),
	}

	svc := newTestService(t, periods, nil, nil)
	items := svc.ResolveDay(mustDate(t, "2024-09-02"), testSettings())

	require.Len(t, items, 4)
	assert.Equal(t, "Биология", items[0].SubjectName) // ordinal 1
	assert.Equal(t, "Алгебра", items[1].SubjectName)  // ordinal 2, по алфавиту
	assert.Equal(t, "Химия", items[2].SubjectName)
	assert.Equal(t, "Физика", items[3].SubjectName)
}

func TestResolveDayWeekendWithoutOverrideIsEmpty(t *testing.T) {
	svc := newTestService(t, []model.WeeklyPeriod{period(1, time.Monday, "09:00", "10:30", "Математика")}, nil, nil)

	saturday := svc.ResolveDay(mustDate(t, "2024-09-07"), testSettings())
	sunday := svc.ResolveDay(mustDate(t, "2024-09-08"), testSettings())

	assert.Empty(t, saturday)
	assert.Empty(t, sunday)
	assert.NotNil(t, saturday) // "пар нет" — валидный результат, не ошибка
}

func TestResolveDayParityFilter(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Каждую неделю"),
		period(2, time.Monday, "10:45", "12:15", "По нечётным", func(p *model.WeeklyPeriod) { p.Parity = model.ParityOdd }),
		period(3, time.Monday, "13:00", "14:30", "По чётным", func(p *model.WeeklyPeriod) { p.Parity = model.ParityEven }),
	}

	svc := newTestService(t, periods, nil, nil)

	// 2024-09-09 — нечётная неделя
	odd := svc.ResolveDay(mustDate(t, "2024-09-09"), testSettings())
	require.Len(t, odd, 2)
	assert.Equal(t, "Каждую неделю", odd[0].SubjectName)
	assert.Equal(t, "По нечётным", odd[1].SubjectName)

	// 2024-09-16 — чётная неделя
	even := svc.ResolveDay(mustDate(t, "2024-09-16"), testSettings())
	require.Len(t, even, 2)
	assert.Equal(t, "Каждую неделю", even[0].SubjectName)
	assert.Equal(t, "По чётным", even[1].SubjectName)
}

func TestResolveDaySubgroupFilter(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Первая подгруппа", func(p *model.WeeklyPeriod) { p.Subgroup = model.SubgroupFirst }),
		period(2, time.Monday, "09:00", "10:30", "Вся группа"),
	}

	svc := newTestService(t, periods, nil, nil)
	items := svc.ResolveDay(mustDate(t, "2024-09-02"), testSettings()) // подгруппа 2

	require.Len(t, items, 1)
	assert.Equal(t, "Вся группа", items[0].SubjectName)
}

func TestResolveDayOtherGroupExcluded(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Чужая группа", func(p *model.WeeklyPeriod) { p.GroupID = "ФК-33" }),
		period(2, time.Monday, "10:45", "12:15", "Общий поток", func(p *model.WeeklyPeriod) { p.GroupID = "" }),
		period(3, time.Monday, "13:00", "14:30", "Своя группа"),
	}

	svc := newTestService(t, periods, nil, nil)
	items := svc.ResolveDay(mustDate(t, "2024-09-02"), testSettings())

	require.Len(t, items, 2)
	assert.Equal(t, "Общий поток", items[0].SubjectName)
	assert.Equal(t, "Своя группа", items[1].SubjectName)
}

func TestResolveDayUnknownGroupDegrades(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Своя группа"),
		period(2, time.Monday, "10:45", "12:15", "Общий поток", func(p *model.WeeklyPeriod) { p.GroupID = "" }),
	}

	svc := newTestService(t, periods, nil, nil)

	settings := testSettings()
	settings.SelectedGroupID = "нет-такой-группы"

	// Неизвестная группа — не ошибка: остаются только общие пары
	items := svc.ResolveDay(mustDate(t, "2024-09-02"), settings)
	require.Len(t, items, 1)
	assert.Equal(t, "Общий поток", items[0].SubjectName)
}

func TestResolveDayRecoveryProjection(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:00", "Math"),
	}
	days := []model.RecoveryDay{
		{ID: 1, Date: mustDate(t, "2024-10-19"), ReplacedWeekday: time.Monday, IsActive: true, ScopeGroup: ""},
	}

	svc := newTestService(t, periods, days, nil)
	items := svc.ResolveDay(mustDate(t, "2024-10-19"), testSettings()) // суббота

	require.Len(t, items, 1)
	assert.Equal(t, "Math", items[0].SubjectName)
	assert.Equal(t, "09:00", items[0].StartTime.String())
	assert.Equal(t, "10:00", items[0].EndTime.String())
	assert.True(t, items[0].IsRecoveryProjection)
}

func TestResolveDayRecoveryInheritsParityOfCalendarDate(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "По нечётным", func(p *model.WeeklyPeriod) { p.Parity = model.ParityOdd }),
		period(2, time.Monday, "10:45", "12:15", "По чётным", func(p *model.WeeklyPeriod) { p.Parity = model.ParityEven }),
	}
	// 2024-10-19 — суббота чётной недели (неделя 2024-10-14)
	days := []model.RecoveryDay{
		{ID: 1, Date: mustDate(t, "2024-10-19"), ReplacedWeekday: time.Monday, IsActive: true},
	}

	svc := newTestService(t, periods, days, nil)
	require.False(t, svc.IsOddWeek(mustDate(t, "2024-10-19")))

	items := svc.ResolveDay(mustDate(t, "2024-10-19"), testSettings())
	require.Len(t, items, 1)
	assert.Equal(t, "По чётным", items[0].SubjectName)
}

func TestResolveDayRecoveryScopedToOtherGroup(t *testing.T) {
	periods := []model.WeeklyPeriod{period(1, time.Monday, "09:00", "10:30", "Математика")}
	days := []model.RecoveryDay{
		{ID: 1, Date: mustDate(t, "2024-10-19"), ReplacedWeekday: time.Monday, IsActive: true, ScopeGroup: "ФК-33"},
	}

	svc := newTestService(t, periods, days, nil)

	// Перенос чужой группы не создаёт пар в субботу
	assert.Empty(t, svc.ResolveDay(mustDate(t, "2024-10-19"), testSettings()))
}

func TestResolveDayInactiveRecoveryIgnored(t *testing.T) {
	periods := []model.WeeklyPeriod{period(1, time.Monday, "09:00", "10:30", "Математика")}
	days := []model.RecoveryDay{
		{ID: 1, Date: mustDate(t, "2024-10-19"), ReplacedWeekday: time.Monday, IsActive: false},
	}

	svc := newTestService(t, periods, days, nil)

	assert.Empty(t, svc.ResolveDay(mustDate(t, "2024-10-19"), testSettings()))
}

func TestFindOverrideFirstByInsertionWins(t *testing.T) {
	days := []model.RecoveryDay{
		{ID: 1, Date: mustDate(t, "2024-10-19"), ReplacedWeekday: time.Monday, IsActive: true},
		{ID: 2, Date: mustDate(t, "2024-10-19"), ReplacedWeekday: time.Friday, IsActive: true},
	}

	svc := newTestService(t, nil, days, nil)

	override := svc.Snapshot().FindOverride(mustDate(t, "2024-10-19"), "ИС-21")
	require.NotNil(t, override)
	assert.Equal(t, int64(1), override.ID)
	assert.Equal(t, time.Monday, override.ReplacedWeekday)
}

func TestResolveDayCustomPeriodReplacesBase(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Математика"),
		period(2, time.Monday, "10:45", "12:15", "Физика"),
	}

	svc := newTestService(t, periods, nil, nil)

	settings := testSettings()
	custom := period(0, time.Monday, "09:00", "10:30", "Консультация", func(p *model.WeeklyPeriod) {
		p.IsCustom = true
		p.GroupID = ""
	})
	settings.CustomPeriods = []model.WeeklyPeriod{custom}

	items := svc.ResolveDay(mustDate(t, "2024-09-02"), settings)

	// Пользовательская пара замещает базовую с тем же ключом, а не дублирует её
	require.Len(t, items, 2)
	assert.Equal(t, "Консультация", items[0].SubjectName)
	assert.True(t, items[0].IsCustom)
	assert.Equal(t, "Физика", items[1].SubjectName)
}

func TestResolveDayCustomPeriodAppendsOnNewKey(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Математика"),
	}

	svc := newTestService(t, periods, nil, nil)

	settings := testSettings()
	custom := period(0, time.Monday, "16:00", "17:30", "Секция", func(p *model.WeeklyPeriod) { p.IsCustom = true })
	settings.CustomPeriods = []model.WeeklyPeriod{custom}

	items := svc.ResolveDay(mustDate(t, "2024-09-02"), settings)

	require.Len(t, items, 2)
	assert.Equal(t, "Математика", items[0].SubjectName)
	assert.Equal(t, "Секция", items[1].SubjectName)
}

func TestResolveDayIdempotent(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Математика"),
		period(2, time.Monday, "10:45", "12:15", "Физика", func(p *model.WeeklyPeriod) { p.Parity = model.ParityEven }),
	}

	svc := newTestService(t, periods, nil, nil)
	settings := testSettings()

	first := svc.ResolveDay(mustDate(t, "2024-09-02"), settings)
	second := svc.ResolveDay(mustDate(t, "2024-09-02"), settings)

	assert.Equal(t, first, second)
}

func TestResolveDayNilSettingsAndEmptySnapshot(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	assert.Empty(t, svc.ResolveDay(mustDate(t, "2024-09-02"), nil))
	assert.Empty(t, svc.ResolveDay(mustDate(t, "2024-09-02"), testSettings()))

	// До первого Refresh снимка нет, но разрешение не падает
	fresh := NewScheduleService(&stubPeriodStore{}, &stubRecoveryStore{}, nil, mustDate(t, "2024-09-02"), zap.NewNop())
	assert.Empty(t, fresh.ResolveDay(mustDate(t, "2024-09-02"), testSettings()))
}

func TestAnnotateAssignments(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Математика"),
		period(2, time.Monday, "10:45", "12:15", "Физика"),
	}
	counter := &stubAssignmentCounter{counts: map[string]int{"Математика": 2}}

	svc := newTestService(t, periods, nil, counter)
	items := svc.ResolveDayWithAssignments(context.Background(), mustDate(t, "2024-09-02"), testSettings())

	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].AssignmentCount)
	assert.Equal(t, 0, items[1].AssignmentCount)
}

func TestAnnotateAssignmentsStoreUnavailable(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Математика"),
		period(2, time.Monday, "10:45", "12:15", "Физика"),
	}
	counter := &stubAssignmentCounter{err: fmt.Errorf("connection refused")}

	svc := newTestService(t, periods, nil, counter)
	items := svc.ResolveDayWithAssignments(context.Background(), mustDate(t, "2024-09-02"), testSettings())

	// Недоступное хранилище заданий оставляет нули и не меняет порядок
	require.Len(t, items, 2)
	assert.Equal(t, "Математика", items[0].SubjectName)
	assert.Equal(t, 0, items[0].AssignmentCount)
	assert.Equal(t, 0, items[1].AssignmentCount)
}

func TestResolveWeek(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Математика"),
		period(2, time.Friday, "09:00", "10:30", "История"),
	}

	svc := newTestService(t, periods, nil, nil)
	days := svc.ResolveWeek(mustDate(t, "2024-09-04"), testSettings())

	// Без переносов неделя — понедельник-пятница
	require.Len(t, days, 5)
	assert.Equal(t, mustDate(t, "2024-09-02"), days[0].Date)
	assert.Equal(t, mustDate(t, "2024-09-06"), days[4].Date)
	assert.Len(t, days[0].Items, 1)
	assert.Empty(t, days[1].Items)
}

func TestResolveWeekIncludesRecoverySaturday(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "Математика"),
	}
	days := []model.RecoveryDay{
		{ID: 1, Date: mustDate(t, "2024-09-07"), ReplacedWeekday: time.Monday, IsActive: true},
	}

	svc := newTestService(t, periods, days, nil)
	week := svc.ResolveWeek(mustDate(t, "2024-09-04"), testSettings())

	require.Len(t, week, 6)

	saturday := week[5]
	assert.Equal(t, mustDate(t, "2024-09-07"), saturday.Date)
	require.NotNil(t, saturday.Override)
	require.Len(t, saturday.Items, 1)
	assert.True(t, saturday.Items[0].IsRecoveryProjection)
}

func TestKnownGroups(t *testing.T) {
	periods := []model.WeeklyPeriod{
		period(1, time.Monday, "09:00", "10:30", "A", func(p *model.WeeklyPeriod) { p.GroupID = "ФК-33" }),
		period(2, time.Monday, "10:45", "12:15", "B"),
		period(3, time.Tuesday, "09:00", "10:30", "C"),
		period(4, time.Tuesday, "10:45", "12:15", "D", func(p *model.WeeklyPeriod) { p.GroupID = "" }),
	}

	svc := newTestService(t, periods, nil, nil)

	assert.Equal(t, []string{"ИС-21", "ФК-33"}, svc.Snapshot().KnownGroups())
}
