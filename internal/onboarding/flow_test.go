package onboarding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/calc"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/config"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/db"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/models"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/onboarding"
	"github.com/UsovAlexander/healthy-lifestyle-bot/internal/services"
)

const userID int64 = 42

type fakeWeather struct {
	res   services.WeatherResult
	calls int
}

func (w *fakeWeather) Lookup(ctx context.Context, city string) services.WeatherResult {
	w.calls++
	return w.res
}

type flakyStore struct {
	*db.MemoryRepository
	failures int
}

func (s *flakyStore) UpsertProfile(ctx context.Context, u *models.User) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("connection reset")
	}
	return s.MemoryRepository.UpsertProfile(ctx, u)
}

// restartingStore вызывает during посреди сохранения профиля.
type restartingStore struct {
	*db.MemoryRepository
	during func()
}

func (s *restartingStore) UpsertProfile(ctx context.Context, u *models.User) error {
	if s.during != nil {
		s.during()
	}
	return s.MemoryRepository.UpsertProfile(ctx, u)
}

func hotWeather() *fakeWeather {
	return &fakeWeather{res: services.WeatherResult{City: "Сочи", Temperature: 30, Description: "ясно", Success: true}}
}

func newFlow(weather services.WeatherLookup, store onboarding.ProfileStore) *onboarding.Flow {
	return onboarding.NewFlow(calc.New(config.DefaultGoals()), weather, store, zap.NewNop())
}

func feed(t *testing.T, f *onboarding.Flow, inputs ...string) onboarding.Reply {
	t.Helper()
	var r onboarding.Reply
	for _, in := range inputs {
		var err error
		r, err = f.Handle(context.Background(), userID, in)
		require.NoError(t, err, "input %q", in)
	}
	return r
}

var untilConfirm = []string{"70", "175", "30", "м", "60", "Сочи", "lose"}

func TestFlow_HappyPath(t *testing.T) {
	repo := db.NewMemoryRepository()
	weather := hotWeather()
	f := newFlow(weather, repo)

	r := f.Start(userID, "Ivan")
	assert.Equal(t, onboarding.StepWeight, r.Step)
	assert.True(t, f.Active(userID))

	r = feed(t, f, untilConfirm...)
	assert.Equal(t, onboarding.StepConfirm, r.Step)
	assert.Contains(t, r.Text, "1962")
	assert.Equal(t, 1, weather.calls)

	r = feed(t, f, "да")
	assert.Equal(t, onboarding.StepDone, r.Step)
	require.NotNil(t, r.Profile)
	assert.False(t, f.Active(userID))

	u, err := repo.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", u.Name)
	assert.Equal(t, 70.0, u.WeightKg)
	assert.Equal(t, 175.0, u.HeightCm)
	assert.Equal(t, 30, u.AgeYears)
	assert.Equal(t, models.GenderMale, u.Gender)
	assert.Equal(t, 60, u.ActivityMinutes)
	assert.Equal(t, "Сочи", u.City)
	assert.Equal(t, models.GoalLose, u.GoalType)
	assert.Equal(t, 1962, u.GoalCalories)
	assert.Equal(t, 3850, u.GoalWaterMl)
	assert.Zero(t, u.WaterLoggedMl)
	assert.Zero(t, u.CaloriesLogged)
	assert.Zero(t, u.CaloriesBurned)
	assert.NotNil(t, u.LastResetAt)
}

func TestFlow_InvalidInputKeepsState(t *testing.T) {
	f := newFlow(hotWeather(), db.NewMemoryRepository())
	f.Start(userID, "")

	tests := []struct {
		name     string
		valid    string
		invalid  []string
		wantStep onboarding.Step
	}{
		{"weight", "72,5", []string{"abc", "0", "-5", "301", "NaN"}, onboarding.StepWeight},
		{"height", "180", []string{"", "250.1", "0"}, onboarding.StepHeight},
		{"age", "35", []string{"35.5", "0", "121", "тридцать"}, onboarding.StepAge},
		{"gender", "female", []string{"other", "x"}, onboarding.StepGender},
		{"activity", "0", []string{"-1", "601", "1.5"}, onboarding.StepActivity},
		{"city", "Москва", []string{"   "}, onboarding.StepCity},
		{"goal", "набрать", []string{"bulk", "123"}, onboarding.StepGoal},
	}

	for _, tt := range tests {
		before, ok := f.Snapshot(userID)
		require.True(t, ok)
		require.Equal(t, tt.wantStep, before.Step, tt.name)

		for _, in := range tt.invalid {
			r := feed(t, f, in)
			assert.Equal(t, tt.wantStep, r.Step, "%s: input %q must re-prompt", tt.name, in)

			after, _ := f.Snapshot(userID)
			assert.Equal(t, before, after, "%s: input %q must not change collected data", tt.name, in)
		}

		r := feed(t, f, tt.valid)
		assert.NotEqual(t, tt.wantStep, r.Step, tt.name)
	}

	p, ok := f.Snapshot(userID)
	require.True(t, ok)
	assert.Equal(t, onboarding.StepConfirm, p.Step)
	assert.Equal(t, 72.5, p.WeightKg)
	assert.Equal(t, 180.0, p.HeightCm)
	assert.Equal(t, 35, p.AgeYears)
	assert.Equal(t, models.GenderFemale, p.Gender)
	assert.Equal(t, 0, p.ActivityMinutes)
	assert.Equal(t, "Москва", p.City)
	assert.Equal(t, models.GoalGain, p.GoalType)
}

func TestFlow_WeatherFailureFallsBack(t *testing.T) {
	repo := db.NewMemoryRepository()
	weather := &fakeWeather{res: services.WeatherResult{Error: "API error: 404"}}
	f := newFlow(weather, repo)

	f.Start(userID, "")
	r := feed(t, f, "70", "175", "30", "м", "60", "Атлантида")
	assert.Equal(t, onboarding.StepGoal, r.Step)
	assert.Contains(t, r.Text, "20°C")

	p, _ := f.Snapshot(userID)
	assert.Equal(t, 20.0, p.TemperatureC)

	feed(t, f, "maintain", "да")
	u, err := repo.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3100, u.GoalWaterMl)
}

func TestFlow_Confirmation(t *testing.T) {
	ctx := context.Background()

	t.Run("numeric override", func(t *testing.T) {
		repo := db.NewMemoryRepository()
		f := newFlow(hotWeather(), repo)
		f.Start(userID, "")
		feed(t, f, untilConfirm...)

		for _, bad := range []string{"100", "5001", "может быть"} {
			r := feed(t, f, bad)
			assert.Equal(t, onboarding.StepConfirm, r.Step, "input %q", bad)
		}

		r := feed(t, f, "1800")
		assert.Equal(t, onboarding.StepDone, r.Step)

		u, err := repo.GetUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1800, u.GoalCalories)
	})

	t.Run("no aborts the whole onboarding", func(t *testing.T) {
		repo := db.NewMemoryRepository()
		f := newFlow(hotWeather(), repo)
		f.Start(userID, "")
		feed(t, f, untilConfirm...)

		r := feed(t, f, "Нет")
		assert.Equal(t, onboarding.StepDone, r.Step)
		assert.Nil(t, r.Profile)
		assert.False(t, f.Active(userID))

		_, err := repo.GetUser(ctx, userID)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestFlow_Cancel(t *testing.T) {
	f := newFlow(hotWeather(), db.NewMemoryRepository())

	assert.False(t, f.Cancel(userID))

	f.Start(userID, "")
	feed(t, f, "70", "175")
	assert.True(t, f.Cancel(userID))
	assert.False(t, f.Active(userID))

	_, err := f.Handle(context.Background(), userID, "30")
	assert.ErrorIs(t, err, onboarding.ErrNoSession)
}

func TestFlow_RestartDropsPreviousAnswers(t *testing.T) {
	f := newFlow(hotWeather(), db.NewMemoryRepository())

	f.Start(userID, "")
	feed(t, f, "70", "175")
	f.Start(userID, "")

	p, ok := f.Snapshot(userID)
	require.True(t, ok)
	assert.Equal(t, onboarding.StepWeight, p.Step)
	assert.Zero(t, p.WeightKg)
}

func TestFlow_ReonboardingOverwritesProfile(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemoryRepository()
	f := newFlow(hotWeather(), repo)

	f.Start(userID, "")
	feed(t, f, append(untilConfirm, "да")...)
	first, err := repo.GetUser(ctx, userID)
	require.NoError(t, err)

	_, err = repo.AppendWaterLog(ctx, &models.WaterLog{TelegramID: userID, AmountMl: 500})
	require.NoError(t, err)

	f.Start(userID, "")
	feed(t, f, "80", "175", "31", "м", "0", "Сочи", "maintain", "да")

	u, err := repo.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, u.ID, "same row is updated")
	assert.Equal(t, 80.0, u.WeightKg)
	assert.Equal(t, models.GoalMaintain, u.GoalType)
	assert.Zero(t, u.WaterLoggedMl, "totals are reset on save")
}

func TestFlow_StoreFailureKeepsSession(t *testing.T) {
	store := &flakyStore{MemoryRepository: db.NewMemoryRepository(), failures: 1}
	f := newFlow(hotWeather(), store)

	f.Start(userID, "")
	feed(t, f, untilConfirm...)

	r, err := f.Handle(context.Background(), userID, "да")
	assert.Error(t, err)
	assert.Equal(t, onboarding.StepConfirm, r.Step)
	assert.True(t, f.Active(userID))

	r = feed(t, f, "да")
	assert.Equal(t, onboarding.StepDone, r.Step)
	assert.False(t, f.Active(userID))
}

func TestFlow_RestartDuringSaveSurvives(t *testing.T) {
	store := &restartingStore{MemoryRepository: db.NewMemoryRepository()}
	f := newFlow(hotWeather(), store)
	store.during = func() { f.Start(userID, "Ivan") }

	f.Start(userID, "Ivan")
	feed(t, f, untilConfirm...)

	r := feed(t, f, "да")
	assert.Equal(t, onboarding.StepDone, r.Step)
	require.NotNil(t, r.Profile)

	assert.True(t, f.Active(userID), "onboarding started during the save is kept")
	p, ok := f.Snapshot(userID)
	require.True(t, ok)
	assert.Equal(t, onboarding.StepWeight, p.Step)
}
