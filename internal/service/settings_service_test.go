package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkozlov/timetable_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSettingsStore хранит настройки в памяти вместо Postgres
type fakeSettingsStore struct {
	settings map[int64]*model.ScheduleSettings
	upserts  int
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{settings: make(map[int64]*model.ScheduleSettings)}
}

func (f *fakeSettingsStore) GetByUserID(ctx context.Context, userID int64) (*model.ScheduleSettings, error) {
	s, ok := f.settings[userID]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (f *fakeSettingsStore) Upsert(ctx context.Context, settings *model.ScheduleSettings) error {
	f.upserts++
	f.settings[settings.UserID] = settings.Clone()
	return nil
}

func (f *fakeSettingsStore) AddCustomPeriod(ctx context.Context, userID int64, period *model.WeeklyPeriod) error {
	if period.CustomID == uuid.Nil {
		period.CustomID = uuid.New()
	}
	period.IsCustom = true

	s, ok := f.settings[userID]
	if !ok {
		s = &model.ScheduleSettings{UserID: userID, Subgroup: model.SubgroupAll, ScheduleView: model.ScheduleViewDay}
		f.settings[userID] = s
	}
	s.CustomPeriods = append(s.CustomPeriods, *period)
	return nil
}

func (f *fakeSettingsStore) DeleteCustomPeriod(ctx context.Context, userID int64, customID uuid.UUID) error {
	s, ok := f.settings[userID]
	if !ok {
		return nil
	}
	kept := s.CustomPeriods[:0]
	for _, p := range s.CustomPeriods {
		if p.CustomID != customID {
			kept = append(kept, p)
		}
	}
	s.CustomPeriods = kept
	return nil
}

func newTestSettingsService() (*SettingsService, *fakeSettingsStore) {
	store := newFakeSettingsStore()
	return NewSettingsService(store, zap.NewNop()), store
}

func TestSettingsGetDefaults(t *testing.T) {
	svc, _ := newTestSettingsService()

	settings, err := svc.Get(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), settings.UserID)
	assert.Empty(t, settings.SelectedGroupID)
	assert.Equal(t, model.SubgroupAll, settings.Subgroup)
	assert.Equal(t, model.ScheduleViewDay, settings.ScheduleView)
	assert.Empty(t, settings.CustomPeriods)
}

func TestSettingsMutationsPersist(t *testing.T) {
	svc, store := newTestSettingsService()
	ctx := context.Background()

	require.NoError(t, svc.SetGroup(ctx, 42, "ИС-21"))
	require.NoError(t, svc.SetSubgroup(ctx, 42, model.SubgroupFirst))
	require.NoError(t, svc.SetScheduleView(ctx, 42, model.ScheduleViewWeek))

	settings, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "ИС-21", settings.SelectedGroupID)
	assert.Equal(t, model.SubgroupFirst, settings.Subgroup)
	assert.Equal(t, model.ScheduleViewWeek, settings.ScheduleView)

	// Каждая мутация дошла до хранилища
	assert.Equal(t, 3, store.upserts)
	assert.Equal(t, "ИС-21", store.settings[42].SelectedGroupID)
}

func TestSettingsSnapshotIsolation(t *testing.T) {
	svc, _ := newTestSettingsService()
	ctx := context.Background()

	require.NoError(t, svc.SetGroup(ctx, 42, "ИС-21"))

	before, err := svc.Get(ctx, 42)
	require.NoError(t, err)

	require.NoError(t, svc.SetGroup(ctx, 42, "ФК-33"))

	// Ранее выданный снимок не меняется задним числом
	assert.Equal(t, "ИС-21", before.SelectedGroupID)

	// И правки выданного снимка не просачиваются в кеш
	before.SelectedGroupID = "взлом"
	after, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "ФК-33", after.SelectedGroupID)
}

func TestSettingsAddCustomPeriod(t *testing.T) {
	svc, _ := newTestSettingsService()
	ctx := context.Background()

	period := &model.WeeklyPeriod{
		Weekday:     time.Wednesday,
		StartTime:   model.NewTimeOfDay(16, 0),
		EndTime:     model.NewTimeOfDay(17, 30),
		SubjectName: "Секция",
	}
	require.NoError(t, svc.AddCustomPeriod(ctx, 42, period))

	settings, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	require.Len(t, settings.CustomPeriods, 1)
	assert.Equal(t, "Секция", settings.CustomPeriods[0].SubjectName)
	assert.True(t, settings.CustomPeriods[0].IsCustom)
	assert.NotEqual(t, uuid.Nil, settings.CustomPeriods[0].CustomID)
}

func TestSettingsAddCustomPeriodRejectsInvertedTimes(t *testing.T) {
	svc, _ := newTestSettingsService()

	period := &model.WeeklyPeriod{
		Weekday:     time.Wednesday,
		StartTime:   model.NewTimeOfDay(17, 30),
		EndTime:     model.NewTimeOfDay(16, 0),
		SubjectName: "Секция",
	}
	err := svc.AddCustomPeriod(context.Background(), 42, period)
	assert.Error(t, err)
}

func TestSettingsRemoveCustomPeriod(t *testing.T) {
	svc, _ := newTestSettingsService()
	ctx := context.Background()

	period := &model.WeeklyPeriod{
		Weekday:     time.Wednesday,
		StartTime:   model.NewTimeOfDay(16, 0),
		EndTime:     model.NewTimeOfDay(17, 30),
		SubjectName: "Секция",
	}
	require.NoError(t, svc.AddCustomPeriod(ctx, 42, period))
	require.NoError(t, svc.RemoveCustomPeriod(ctx, 42, period.CustomID))

	settings, err := svc.Get(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, settings.CustomPeriods)
}

func TestSettingsSubscribe(t *testing.T) {
	svc, _ := newTestSettingsService()
	ctx := context.Background()

	id, events := svc.Subscribe()

	require.NoError(t, svc.SetGroup(ctx, 42, "ИС-21"))

	select {
	case ev := <-events:
		assert.Equal(t, int64(42), ev.UserID)
	default:
		t.Fatal("expected settings event")
	}

	svc.Unsubscribe(id)

	// Канал закрыт после отписки
	_, open := <-events
	assert.False(t, open)
}
